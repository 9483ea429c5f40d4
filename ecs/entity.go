package ecs

import (
	"cmp"
	"strconv"
)

// Entity packs a 32-bit slot id and a 32-bit generation.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

// Compare orders entities by slot, then by generation.
func Compare(a, b Entity) int {
	if c := cmp.Compare(a.id(), b.id()); c != 0 {
		return c
	}
	return cmp.Compare(a.generation(), b.generation())
}
