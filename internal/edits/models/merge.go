package models

import "time"

// MergeDataEdits reconciles an existing edit history with newly submitted
// edits.
//
// Every element of existing is keyed by identity in order, so later
// duplicates within existing win. Each incoming edit is then stamped with now
// (its own timestamp is discarded) and overwrites whatever shares its
// identity. Identities only present in existing keep their original
// timestamps.
//
// Neither input is modified and the result never shares a backing array with
// them. Result order is first-seen identity order; callers must not give it
// meaning.
func MergeDataEdits(existing, incoming []ValueEdit, now time.Time) []ValueEdit {
	stamp := ToMillis(now)
	byIdentity := make(map[EditIdentity]int, len(existing)+len(incoming))
	merged := make([]ValueEdit, 0, len(existing)+len(incoming))

	put := func(e ValueEdit) {
		key := e.Identity()
		if i, ok := byIdentity[key]; ok {
			merged[i] = e
			return
		}
		byIdentity[key] = len(merged)
		merged = append(merged, e)
	}

	for _, e := range existing {
		put(e)
	}
	for _, e := range incoming {
		e.Timestamp = stamp
		put(e)
	}
	return merged
}
