package memory

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// table is a mutex guarded map that hands out copies only
type table[K cmp.Ordered, V any] struct {
	mu      sync.RWMutex
	rows    map[K]*V
	clone   func(*V) *V
	created func(*V) time.Time
}

func newTable[K cmp.Ordered, V any](clone func(*V) *V, created func(*V) time.Time) *table[K, V] {
	return &table[K, V]{
		rows:    make(map[K]*V),
		clone:   clone,
		created: created,
	}
}

func (t *table[K, V]) put(key K, v *V) *V {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows[key] = t.clone(v)
	return t.clone(v)
}

func (t *table[K, V]) get(key K) (*V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.rows[key]
	if !ok {
		return nil, false
	}
	return t.clone(v), true
}

// update applies fn to a copy of the stored row and stores the result
func (t *table[K, V]) update(key K, fn func(existing, next *V)) (*V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.rows[key]
	if !ok {
		return nil, false
	}
	next := t.clone(existing)
	fn(existing, next)
	t.rows[key] = next
	return t.clone(next), true
}

func (t *table[K, V]) remove(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[key]; !ok {
		return false
	}
	delete(t.rows, key)
	return true
}

// list returns copies of the rows matching filter, oldest first
func (t *table[K, V]) list(filter func(*V) bool) []*V {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]K, 0, len(t.rows))
	for k, v := range t.rows {
		if filter == nil || filter(v) {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b K) int {
		if c := t.created(t.rows[a]).Compare(t.created(t.rows[b])); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	out := make([]*V, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.clone(t.rows[k]))
	}
	return out
}
