// Package queue tracks the table indices staged for deletion. It is pure
// index bookkeeping: nothing here reads the table or the file, and nothing
// is removed from either until export applies the queue in one shot.
package queue

import "sort"

// Queue is the accumulating set of table indices pending deletion. Searches
// merge into it; only Rescue, Clear, or session teardown shrink it. The zero
// value is not ready; use New.
type Queue struct {
	pending map[int]struct{}
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{pending: make(map[int]struct{})}
}

// Merge adds every index to the pending set. Indices already present are
// kept once; merging the same result twice leaves the queue unchanged.
func (q *Queue) Merge(indices []int) {
	for _, i := range indices {
		q.pending[i] = struct{}{}
	}
}

// Rescue removes one index from the pending set and reports whether it was
// present. Rescuing an absent index is a no-op, not an error.
func (q *Queue) Rescue(index int) bool {
	if _, ok := q.pending[index]; !ok {
		return false
	}
	delete(q.pending, index)
	return true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.pending = make(map[int]struct{})
}

// Contains reports whether the index is pending.
func (q *Queue) Contains(index int) bool {
	_, ok := q.pending[index]
	return ok
}

// Len returns the number of pending indices.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Snapshot returns the pending indices in ascending order. The result is a
// copy; later merges and rescues do not affect it.
func (q *Queue) Snapshot() []int {
	out := make([]int, 0, len(q.pending))
	for i := range q.pending {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
