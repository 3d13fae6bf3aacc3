package ecs

// EntityId encodes both the archetype ID (upper 32 bits) and the entity index (lower 32 bits).
// An entity keeps its id only while its component set is unchanged; adding, removing
// or replacing a component moves it to another archetype and therefore changes its id.
//
// Ids carry no generation. Once an entity is deleted or moved, its slot may be
// reused by the next entity entering that archetype, and the old id then names
// the newcomer. Hold an EntityRef to track an entity across structural edits.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID and entity index
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the entity index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef is a stable reference to an entity.
// Storage rewrites Id whenever the entity moves between archetypes and zeroes it
// when the entity is deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Alive reports whether the referenced entity still exists.
func (r *EntityRef) Alive() bool {
	return r != nil && r.Id != 0
}
