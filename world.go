// Package rdcore is the root facade of the reaction-diffusion core: World
// and Transaction, the two types every other package in this module
// ultimately serves. It mirrors the teacher's convention (gotetra.go,
// workspace.go) of keeping the top-level facade in the module-root
// package rather than a subpackage.
package rdcore

import (
	"rdcore/container"
	"rdcore/shape"
	"rdcore/structure"
	"rdcore/vector"
)

// World is the spatial particle container plus the structure forest
// particles live on. It is the read side of spec.md §6's External
// Interfaces; Transaction (below) is the write side.
type World struct {
	space      *container.Space
	structures map[StructureID]*Structure
	types      *structure.TypeRegistry
	nextStruct StructureID
}

// NewWorld builds an empty World over a cubic periodic domain of side
// worldSize, partitioned into matrixSize^3 hash cells, with a single root
// bulk structure of the given shape registered at StructureRoot.
func NewWorld(worldSize float64, matrixSize int, bulkShape shape.Shape) *World {
	w := &World{
		space:      container.New(worldSize, matrixSize),
		structures: make(map[StructureID]*Structure),
		types:      structure.NewTypeRegistry(),
		nextStruct: StructureRoot + 1,
	}
	w.structures[StructureRoot] = structure.New("bulk", StructureRoot, 0, StructureRoot, structure.Cuboidal, bulkShape)
	return w
}

func (w *World) NumParticles() int { return w.space.NumParticles() }
func (w *World) WorldSize() float64 { return w.space.WorldSize() }
func (w *World) MatrixSize() int { return w.space.MatrixSize() }
func (w *World) CellSize() float64 { return w.space.CellSize() }

func (w *World) Distance(a, b vector.Vector) float64 { return w.space.Distance(a, b) }

func (w *World) ApplyBoundaryPos(p vector.Vector) vector.Vector { return w.space.ApplyBoundaryPos(p) }
func (w *World) ApplyBoundary(x float64) float64 { return w.space.ApplyBoundary(x) }

func (w *World) CyclicTransposePos(a, b vector.Vector) vector.Vector {
	return w.space.CyclicTransposePos(a, b)
}
func (w *World) CyclicTranspose(a, b float64) float64 { return w.space.CyclicTranspose(a, b) }

// CheckOverlap scans the 3x3x3 cell neighborhood of sph.Center and returns
// every non-ignored particle overlapping or touching sph, paired with its
// signed separation, sorted ascending.
func (w *World) CheckOverlap(sph shape.Sphere, ignore ...ParticleID) []ParticleDistance {
	return w.space.CheckOverlap(sph, ignore...)
}

func (w *World) GetParticle(id ParticleID) (Particle, error) {
	p, ok := w.space.GetParticle(id)
	if !ok {
		return Particle{}, newNotFoundError("no such particle: id=%d", id)
	}
	return p, nil
}

func (w *World) HasParticle(id ParticleID) bool { return w.space.HasParticle(id) }

// UpdateParticle moves p's entry to the cell of its (wrapped) center. It
// performs no overlap check, matching spec.md §4.C.
func (w *World) UpdateParticle(p Particle) error {
	if !w.space.UpdateParticle(p) {
		return newNotFoundError("no such particle: id=%d", p.ID)
	}
	return nil
}

func (w *World) RemoveParticle(id ParticleID) bool { return w.space.RemoveParticle(id) }

func (w *World) GetParticles() []Particle { return w.space.GetParticles() }

// CreateTransaction returns a writable view backed by this World. Writes
// through the transaction take effect immediately on the World but are
// mirrored in the transaction's add/modify/remove bookkeeping so they can
// be rolled back.
func (w *World) CreateTransaction() *Transaction {
	return newTransaction(w)
}

// NewParticleChecked is CreateTransaction().NewParticle's unwrapped,
// non-transactional counterpart used directly against the World: it
// refuses the insertion and returns a *NoSpaceError if the candidate
// sphere overlaps any existing particle, rather than inserting
// unconditionally the way NewParticle (reached only through a
// Transaction) does.
func (w *World) NewParticleChecked(sid SpeciesID, center vector.Vector, radius, d float64) (ParticleID, Particle, error) {
	id, p, overlaps, ok := w.space.NewParticleChecked(sid, center, radius, d)
	if !ok {
		return 0, Particle{}, newNoSpaceError("insertion overlaps %d existing particle(s), closest at distance %g", len(overlaps), overlaps[0].Distance)
	}
	return id, p, nil
}

// NewStructure registers a new structure as a child of parentID, assigning
// it a fresh, immutable id.
func (w *World) NewStructure(name string, typeID StructureTypeID, parentID StructureID, kind structure.Kind, sh shape.Shape) (*Structure, error) {
	if _, ok := w.structures[parentID]; !ok {
		return nil, newNotFoundError("no such structure: id=%d", parentID)
	}
	id := w.nextStruct
	w.nextStruct++
	st := structure.New(name, id, typeID, parentID, kind, sh)
	w.structures[id] = st
	return st, nil
}

func (w *World) GetStructure(id StructureID) (*Structure, error) {
	s, ok := w.structures[id]
	if !ok {
		return nil, newNotFoundError("no such structure: id=%d", id)
	}
	return s, nil
}

// GetStructures enumerates every registered structure, in unspecified
// order.
func (w *World) GetStructures() []*Structure {
	out := make([]*Structure, 0, len(w.structures))
	for _, s := range w.structures {
		out = append(out, s)
	}
	return out
}

// GetClosestSurface returns the id of, and signed distance to, the
// structure whose shape is closest to pos among all registered structures
// other than ignore.
func (w *World) GetClosestSurface(pos vector.Vector, ignore StructureID) (StructureID, float64, error) {
	var (
		bestID   StructureID
		bestDist float64
		found    bool
	)
	for id, s := range w.structures {
		if id == ignore {
			continue
		}
		d := s.Distance(pos)
		if !found || d < bestDist {
			bestID, bestDist, found = id, d, true
		}
	}
	if !found {
		return 0, 0, newNotFoundError("no structures registered besides %d", ignore)
	}
	return bestID, bestDist, nil
}

func (w *World) TypeName(id StructureTypeID) string { return w.types.Name(id) }
func (w *World) RegisterType(id StructureTypeID, name string) { w.types.Register(id, name) }
