package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"qualitydesk/pkg/domain"
	dErrors "qualitydesk/pkg/domain-errors"
	"qualitydesk/pkg/platform/sentinel"
)

// SessionTx runs fn with exclusive access to one project's session. fn must
// use the context and store it is handed, not the ones it closed over.
type SessionTx interface {
	RunInTx(ctx context.Context, projectID domain.ProjectID, fn func(ctx context.Context, store Store) error) error
}

const (
	numSessionShards        = 128
	defaultSessionTxTimeout = 5 * time.Second
)

// shardedSessionTx maps each project onto one of a fixed set of mutexes.
// Two projects on the same shard wait for each other; that is the price of a
// bounded lock table.
type shardedSessionTx struct {
	shards  [numSessionShards]sync.Mutex
	store   Store
	timeout time.Duration
}

// NewShardedTx returns an in-process SessionTx over store. A zero timeout
// means five seconds.
func NewShardedTx(store Store, timeout time.Duration) SessionTx {
	if timeout == 0 {
		timeout = defaultSessionTxTimeout
	}
	return &shardedSessionTx{store: store, timeout: timeout}
}

func (t *shardedSessionTx) RunInTx(ctx context.Context, projectID domain.ProjectID, fn func(ctx context.Context, store Store) error) error {
	ctx, cancel, err := t.bound(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	unlock := t.lock([]domain.ProjectID{projectID})
	defer unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "timed out waiting for edit session lock")
	}
	return fn(ctx, t.store)
}

// DeleteMany drops the listed sessions while holding every affected shard, so
// a bulk clear cannot interleave with a read-modify-write on any of them.
func (t *shardedSessionTx) DeleteMany(ctx context.Context, projectIDs []domain.ProjectID) (int64, error) {
	ctx, cancel, err := t.bound(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	unlock := t.lock(projectIDs)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeTimeout, "timed out waiting for edit session locks")
	}
	if batch, ok := t.store.(BatchDeleter); ok {
		return batch.DeleteMany(ctx, projectIDs)
	}
	var deleted int64
	for _, id := range projectIDs {
		err := t.store.Delete(ctx, id)
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, sentinel.ErrNotFound):
		default:
			return deleted, err
		}
	}
	return deleted, nil
}

func (t *shardedSessionTx) bound(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeTimeout, "edit session transaction not started")
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	return ctx, cancel, nil
}

// lock acquires the shards of projectIDs in ascending order and returns the
// matching release.
func (t *shardedSessionTx) lock(projectIDs []domain.ProjectID) func() {
	shards := make([]int, 0, len(projectIDs))
	for _, id := range projectIDs {
		shards = append(shards, selectShard(id))
	}
	slices.Sort(shards)
	shards = slices.Compact(shards)
	for _, i := range shards {
		t.shards[i].Lock()
	}
	return func() {
		for _, i := range slices.Backward(shards) {
			t.shards[i].Unlock()
		}
	}
}

func selectShard(projectID domain.ProjectID) int {
	return int(fnv32a(projectID.String()) % numSessionShards)
}

func fnv32a(s string) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
	)
	h := uint32(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}
