package ecs

import (
	"iter"
	"sort"
)

// Query wraps a View with caching for repeated iteration.
// It snapshots matching entities and rebuilds the snapshot only when the
// storage reports a structural change, so it is cheap to call Iter every frame.
// Component pointers in the snapshot stay live: field writes are visible
// immediately, spawns and deletes on the next refresh.
type Query[T any] struct {
	view    *View[T]
	storage *Storage
	version uint64
	valid   bool

	cachedEntities   []EntityId
	cachedComponents []T
}

// NewQuery creates a new Query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.valid = false
}

// Execute rebuilds the cached snapshot unconditionally.
func (q *Query[T]) Execute() {
	// Fresh slices: an iterator handed out earlier keeps its own snapshot.
	q.cachedEntities = make([]EntityId, 0, len(q.cachedEntities))
	q.cachedComponents = make([]T, 0, len(q.cachedComponents))

	// Visit archetypes in id order so iteration is deterministic.
	archetypes := make([]*Archetype, 0, len(q.storage.archetypes))
	for _, archetype := range q.storage.archetypes {
		if q.view.matchesArchetype(archetype) {
			archetypes = append(archetypes, archetype)
		}
	}
	sort.Slice(archetypes, func(i, j int) bool { return archetypes[i].id < archetypes[j].id })

	for _, archetype := range archetypes {
		for id, item := range q.view.iterArchetype(archetype) {
			q.cachedEntities = append(q.cachedEntities, id)
			q.cachedComponents = append(q.cachedComponents, item)
		}
	}

	q.version = q.storage.version
	q.valid = true
}

func (q *Query[T]) refresh() {
	if q.storage == nil {
		panic("Query used before Init")
	}
	if !q.valid || q.version != q.storage.version {
		q.Execute()
	}
}

// Len returns the number of matching entities.
func (q *Query[T]) Len() int {
	q.refresh()
	return len(q.cachedEntities)
}

// First returns the first matching entity, if any.
func (q *Query[T]) First() (EntityId, T, bool) {
	q.refresh()
	if len(q.cachedEntities) == 0 {
		var zero T
		return 0, zero, false
	}
	return q.cachedEntities[0], q.cachedComponents[0], true
}

// Iter returns an iterator over entity IDs and component data.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.refresh()
	entities, components := q.cachedEntities, q.cachedComponents

	return func(yield func(EntityId, T) bool) {
		for i := range entities {
			if !yield(entities[i], components[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
func (q *Query[T]) Values() iter.Seq[T] {
	q.refresh()
	components := q.cachedComponents

	return func(yield func(T) bool) {
		for i := range components {
			if !yield(components[i]) {
				return
			}
		}
	}
}
