package ecs

import (
	"hash/fnv"
	"reflect"
	"sort"
	"weak"
)

// Storage is the main ECS storage interface
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry

	// version changes on every structural edit; queries use it to refresh.
	version uint64
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry backing this storage.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Version returns a counter that changes whenever an entity is spawned, deleted
// or moved between archetypes.
func (s *Storage) Version() uint64 {
	return s.version
}

// CreateEntityRef returns the ref tracking id, creating one if needed.
// Returns nil if the entity does not exist.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	archetype := s.archetypes[id.ArchetypeId()]
	if archetype == nil || !archetype.Has(id.Index()) {
		return nil
	}

	if weakPtr, ok := archetype.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			return ref
		}
		archetype.refs.Del(id)
	}

	ref := &EntityRef{
		Id:        id,
		Archetype: archetype,
	}
	archetype.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the current id of the referenced entity.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if !ref.Alive() {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches ref from its entity without deleting the entity.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if !ref.Alive() {
		return false
	}

	if archetype := s.archetypes[ref.Id.ArchetypeId()]; archetype != nil {
		archetype.refs.Del(ref.Id)
	}

	ref.Id = 0
	ref.Archetype = nil
	return true
}

// Archetypes returns every archetype created so far, ordered by id.
func (s *Storage) Archetypes() []*Archetype {
	archetypes := make([]*Archetype, 0, len(s.archetypes))
	for _, archetype := range s.archetypes {
		archetypes = append(archetypes, archetype)
	}
	sort.Slice(archetypes, func(i, j int) bool { return archetypes[i].id < archetypes[j].id })
	return archetypes
}

// ArchetypeById returns the archetype with the given id, or nil.
func (s *Storage) ArchetypeById(id uint32) *Archetype {
	return s.archetypes[id]
}

// GetArchetype returns an archetype storage (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types := extractComponentTypes(components)
	return s.archetypes[hashTypes(types)]
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := append([]reflect.Type(nil), types...)
	sort.Sort(byTypeName(sorted))
	return s.archetypes[hashTypes(sorted)]
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	archetypeId := hashTypes(types)
	archetype, exists := s.archetypes[archetypeId]
	if !exists {
		archetype = NewArchetype(archetypeId, types, s.registry)
		s.archetypes[archetypeId] = archetype
	}
	return archetype
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetype := s.archetypeFor(types)

	entityIndex := archetype.Spawn(components)
	s.version++
	return NewEntityId(archetype.id, entityIndex)
}

// Alive reports whether id refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.Has(id.Index())
}

// Delete removes all data related to the entity ID
func (s *Storage) Delete(id EntityId) {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Has(id.Index()) {
		return
	}

	archetype.Delete(id.Index())
	s.version++
}

// move copies the entity into the archetype for newTypes, substituting
// replacement for the component of its type, and deletes the old slot.
func (s *Storage) move(id EntityId, oldArchetype *Archetype, newTypes []reflect.Type, replacement any) EntityId {
	if len(newTypes) == 0 {
		oldArchetype.Delete(id.Index())
		s.version++
		return 0
	}

	var replacementType reflect.Type
	if replacement != nil {
		replacementType = componentType(replacement)
	}

	newArchetype := s.archetypeFor(newTypes)
	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		if typ == replacementType {
			components = append(components, replacement)
		} else {
			components = append(components, oldArchetype.GetComponent(id.Index(), typ))
		}
	}

	newId := NewEntityId(newArchetype.id, newArchetype.Spawn(components))
	oldArchetype.moveRef(id, newArchetype, newId)
	oldArchetype.Delete(id.Index())
	s.version++
	return newId
}

func (s *Storage) lookup(id EntityId) *Archetype {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Has(id.Index()) {
		return nil
	}
	return archetype
}

// AddComponent adds component to the entity and returns its new id.
// If the entity already has a component of that type it is overwritten in place.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	oldArchetype := s.lookup(id)
	if oldArchetype == nil {
		return 0
	}

	compType := componentType(component)
	if idx := oldArchetype.column(compType); idx >= 0 {
		setComponent(oldArchetype.GetComponent(id.Index(), compType), component)
		return id
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	newTypes = append(newTypes, oldArchetype.types...)
	newTypes = append(newTypes, compType)
	sort.Sort(byTypeName(newTypes))

	return s.move(id, oldArchetype, newTypes, component)
}

// RemoveComponent removes the component of compType and returns the entity's
// new id. Removing the last component deletes the entity and returns 0.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	oldArchetype := s.lookup(id)
	if oldArchetype == nil {
		return 0
	}
	if !oldArchetype.HasComponent(compType) {
		return id
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)-1)
	for _, typ := range oldArchetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}

	return s.move(id, oldArchetype, newTypes, nil)
}

// ReplaceComponent swaps the component of oldType for component in a single
// archetype move and returns the entity's new id. The entity is never observable
// holding both or neither of the two components.
func (s *Storage) ReplaceComponent(id EntityId, oldType reflect.Type, component any) EntityId {
	oldArchetype := s.lookup(id)
	if oldArchetype == nil {
		return 0
	}

	newType := componentType(component)
	if oldType == newType {
		return s.AddComponent(id, component)
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	for _, typ := range oldArchetype.types {
		if typ != oldType && typ != newType {
			newTypes = append(newTypes, typ)
		}
	}
	newTypes = append(newTypes, newType)
	sort.Sort(byTypeName(newTypes))

	return s.move(id, oldArchetype, newTypes, component)
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype := s.lookup(id)
	return archetype != nil && archetype.HasComponent(compType)
}

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return typeName(a[i]) < typeName(a[j]) }

func typeName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func componentType(comp any) reflect.Type {
	compType := reflect.TypeOf(comp)
	if compType.Kind() == reflect.Pointer {
		compType = compType.Elem()
	}
	return compType
}

func setComponent(dst any, value any) {
	target := reflect.ValueOf(dst).Elem()
	src := reflect.ValueOf(value)
	if src.Kind() == reflect.Pointer {
		src = src.Elem()
	}
	target.Set(src)
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)

		// Components are value types: structs or named primitives.
		switch compType.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

// hashTypes generates the archetype id for a sorted slice of types
func hashTypes(types []reflect.Type) uint32 {
	h := fnv.New32a()
	for _, t := range types {
		h.Write([]byte(typeName(t)))
		h.Write([]byte{0})
	}
	return h.Sum32()
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the T component of entityId, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
