package repo

import (
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/hanamiya/console/pkg/listkit"
)

// MemTable is a concurrency-safe in-memory table. It backs the
// database-less repositories used in development and tests; the
// postgres repositories implement the same interfaces on pgx.
type MemTable[T any] struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]T

	id      func(T) uuid.UUID
	match   func(T, listkit.SearchParams) bool
	compare func(a, b T, sortBy string) int
}

// NewMemTable builds a table. id extracts the row identifier, match
// applies normalized search params, compare orders rows for a sortBy
// field (negative when a < b).
func NewMemTable[T any](
	id func(T) uuid.UUID,
	match func(T, listkit.SearchParams) bool,
	compare func(a, b T, sortBy string) int,
) *MemTable[T] {
	return &MemTable[T]{
		rows:    make(map[uuid.UUID]T),
		id:      id,
		match:   match,
		compare: compare,
	}
}

// List returns rows matching params, sorted and windowed. Empty params
// mean no filtering.
func (t *MemTable[T]) List(params listkit.SearchParams) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if t.match == nil || t.match(row, params) {
			out = append(out, row)
		}
	}
	t.mu.RUnlock()

	sortBy := params[listkit.KeySortBy]
	desc := params[listkit.KeySortOrder] == "desc"
	if t.compare != nil {
		sort.SliceStable(out, func(i, j int) bool {
			c := t.compare(out[i], out[j], sortBy)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	if limitStr, ok := params["limit"]; ok {
		// Non-positive limits are ignored, matching LimitClause on the
		// SQL side.
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit < len(out) {
			out = out[:limit]
		}
	}
	return out
}

// Count returns how many rows match params.
func (t *MemTable[T]) Count(params listkit.SearchParams) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for _, row := range t.rows {
		if t.match == nil || t.match(row, params) {
			n++
		}
	}
	return n
}

// CountWhere counts rows satisfying pred; used for relational
// dependency checks.
func (t *MemTable[T]) CountWhere(pred func(T) bool) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for _, row := range t.rows {
		if pred(row) {
			n++
		}
	}
	return n
}

func (t *MemTable[T]) Get(id uuid.UUID) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

func (t *MemTable[T]) Put(row T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[t.id(row)] = row
}

// Delete removes the row and reports whether it existed.
func (t *MemTable[T]) Delete(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rows[id]
	delete(t.rows, id)
	return ok
}

func (t *MemTable[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
