// Package memtable provides the in-memory table used by the memory-backed
// repositories. A Table is not safe for concurrent use; repositories guard
// it with the locker handed out by the repository manager.
package memtable

import (
	"maps"
	"slices"
	"sync"
)

// Table stores rows of type T keyed by an auto-incremented int64 id.
// Rows are stored by value, so T should not share mutable state.
type Table[T any] struct {
	rows   map[int64]T
	nextID int64
}

// New returns an empty table whose first id is 1.
func New[T any]() *Table[T] {
	return &Table[T]{rows: make(map[int64]T)}
}

// NextID reserves and returns the next id.
func (t *Table[T]) NextID() int64 {
	t.nextID++
	return t.nextID
}

func (t *Table[T]) Put(id int64, row T) {
	t.rows[id] = row
}

func (t *Table[T]) Get(id int64) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// Delete removes the row and reports whether it existed.
func (t *Table[T]) Delete(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// Select returns the rows matching pred in ascending id order.
func (t *Table[T]) Select(pred func(T) bool) []T {
	ids := slices.Sorted(maps.Keys(t.rows))
	var out []T
	for _, id := range ids {
		if row := t.rows[id]; pred == nil || pred(row) {
			out = append(out, row)
		}
	}
	return out
}

// DeleteWhere removes every row matching pred and returns how many were removed.
func (t *Table[T]) DeleteWhere(pred func(T) bool) int64 {
	var n int64
	for id, row := range t.rows {
		if pred(row) {
			delete(t.rows, id)
			n++
		}
	}
	return n
}

func (t *Table[T]) Len() int {
	return len(t.rows)
}

// Clone returns an independent copy of the table.
func (t *Table[T]) Clone() *Table[T] {
	return &Table[T]{rows: maps.Clone(t.rows), nextID: t.nextID}
}

// Restore replaces the contents of t with those of src.
func (t *Table[T]) Restore(src *Table[T]) {
	t.rows = maps.Clone(src.rows)
	t.nextID = src.nextID
}

// NoLock is a sync.Locker that does nothing. It is used by repositories bound
// to a transaction that already holds the manager lock.
type NoLock struct{}

func (NoLock) Lock()   {}
func (NoLock) Unlock() {}

var _ sync.Locker = NoLock{}
