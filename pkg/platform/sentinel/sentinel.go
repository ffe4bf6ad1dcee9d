package sentinel

import "errors"

// ErrNotFound is returned (optionally wrapped) by stores when no edit session
// is stored for a project. Services translate it; validation failures belong
// in pkg/domain-errors.
var ErrNotFound = errors.New("not found")
