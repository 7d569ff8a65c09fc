// Package container implements the spatial particle container
// (MatrixSpace): a uniform cell hash over a cubic, periodic domain,
// particle CRUD, and the neighbor enumeration that drives overlap queries.
// The cell-index arithmetic follows the teacher's geom/grid.go; periodic
// wrap-around follows box.go's cell-bound wrapping.
package container

import (
	"fmt"
	"math"
	"sort"

	"rdcore/shape"
	"rdcore/vector"
)

// ParticleID uniquely identifies a particle for the lifetime of the World
// it was created in. The zero value never denotes a live particle.
type ParticleID uint64

// SpeciesID is an opaque handle into the (out-of-core) species/reaction-rule
// database. The container never interprets it beyond using it as a key.
type SpeciesID uint32

// Particle is a point particle with a finite reaction radius and a
// diffusion constant. Equality is by (SpeciesID, Sphere), matching
// spec.md's data model.
type Particle struct {
	ID         ParticleID
	SpeciesID  SpeciesID
	Sphere     shape.Sphere
	D          float64
	DomainHint float64
}

// Eq reports whether p and q are equal by species and sphere, ignoring ID
// and DomainHint.
func (p Particle) Eq(q Particle) bool {
	return p.SpeciesID == q.SpeciesID && p.Sphere.Center.Eq(q.Sphere.Center) &&
		p.Sphere.Radius == q.Sphere.Radius
}

// ParticleDistance pairs a particle with a signed surface-to-surface
// separation: center distance minus both radii (negative means overlap).
type ParticleDistance struct {
	Particle Particle
	Distance float64
}

type cellIndex [3]int

// Space is the MatrixSpace: a cubic domain of side WorldSize partitioned
// into MatrixSize^3 uniform cells. It does not enforce the caller's
// contract that CellSize() >= 2*max(particle radius); neighbor queries
// assume it holds.
type Space struct {
	worldSize  float64
	matrixSize int
	cellSize   float64

	particles map[ParticleID]Particle
	cells     map[cellIndex][]ParticleID
	nextID    ParticleID
}

// New builds an empty Space of the given world size, partitioned into
// matrixSize cells per side.
func New(worldSize float64, matrixSize int) *Space {
	if worldSize <= 0 {
		panic("container: world size must be positive")
	}
	if matrixSize <= 0 {
		panic("container: matrix size must be positive")
	}
	return &Space{
		worldSize:  worldSize,
		matrixSize: matrixSize,
		cellSize:   worldSize / float64(matrixSize),
		particles:  make(map[ParticleID]Particle),
		cells:      make(map[cellIndex][]ParticleID),
	}
}

func (s *Space) WorldSize() float64 { return s.worldSize }
func (s *Space) MatrixSize() int    { return s.matrixSize }
func (s *Space) CellSize() float64  { return s.cellSize }
func (s *Space) NumParticles() int  { return len(s.particles) }

// ApplyBoundary wraps a single coordinate into [0, worldSize).
func (s *Space) ApplyBoundary(x float64) float64 {
	w := s.worldSize
	return math.Mod(math.Mod(x, w)+w, w)
}

// ApplyBoundaryPos wraps every coordinate of p into [0, worldSize).
func (s *Space) ApplyBoundaryPos(p vector.Vector) vector.Vector {
	return vector.New(s.ApplyBoundary(p[0]), s.ApplyBoundary(p[1]), s.ApplyBoundary(p[2]))
}

// CyclicTranspose returns the periodic image of a closest to b under the
// minimum image convention (coordinatewise a + round((b-a)/w)*w).
func (s *Space) CyclicTranspose(a, b float64) float64 {
	w := s.worldSize
	return a + math.Round((b-a)/w)*w
}

// CyclicTransposePos applies CyclicTranspose coordinatewise.
func (s *Space) CyclicTransposePos(a, b vector.Vector) vector.Vector {
	return vector.New(
		s.CyclicTranspose(a[0], b[0]),
		s.CyclicTranspose(a[1], b[1]),
		s.CyclicTranspose(a[2], b[2]),
	)
}

// Distance returns the minimum-image distance between a and b.
func (s *Space) Distance(a, b vector.Vector) float64 {
	return s.CyclicTransposePos(a, b).Sub(b).Norm()
}

func (s *Space) cellOf(p vector.Vector) cellIndex {
	wrapped := s.ApplyBoundaryPos(p)
	idx := func(x float64) int {
		i := int(math.Floor(x / s.cellSize))
		if i >= s.matrixSize {
			i = s.matrixSize - 1
		}
		if i < 0 {
			i = 0
		}
		return i
	}
	return cellIndex{idx(wrapped[0]), idx(wrapped[1]), idx(wrapped[2])}
}

func (s *Space) insert(id ParticleID, c cellIndex) {
	s.cells[c] = append(s.cells[c], id)
}

func (s *Space) removeFromCell(id ParticleID, c cellIndex) {
	bucket := s.cells[c]
	for i, v := range bucket {
		if v == id {
			bucket[i] = bucket[len(bucket)-1]
			s.cells[c] = bucket[:len(bucket)-1]
			if len(s.cells[c]) == 0 {
				delete(s.cells, c)
			}
			return
		}
	}
}

// NewParticle allocates a fresh id and inserts a particle of the given
// species, center, radius, and diffusion constant into the cell
// containing center mod world size. It never checks for overlap.
func (s *Space) NewParticle(sid SpeciesID, center vector.Vector, radius, d float64) (ParticleID, Particle) {
	s.nextID++
	id := s.nextID
	p := Particle{
		ID:        id,
		SpeciesID: sid,
		Sphere:    shape.NewSphere(s.ApplyBoundaryPos(center), radius),
		D:         d,
	}
	s.particles[id] = p
	s.insert(id, s.cellOf(p.Sphere.Center))
	return id, p
}

// NewParticleChecked is NewParticle's overlap-checked counterpart: it
// refuses to insert if the candidate sphere overlaps any existing
// particle (signed distance <= 0), reporting the offending neighbors.
func (s *Space) NewParticleChecked(sid SpeciesID, center vector.Vector, radius, d float64) (ParticleID, Particle, []ParticleDistance, bool) {
	wrapped := s.ApplyBoundaryPos(center)
	overlaps := s.CheckOverlap(shape.NewSphere(wrapped, radius))
	var bad []ParticleDistance
	for _, od := range overlaps {
		if od.Distance <= 0 {
			bad = append(bad, od)
		}
	}
	if len(bad) > 0 {
		return 0, Particle{}, bad, false
	}
	id, p := s.NewParticle(sid, center, radius, d)
	return id, p, nil, true
}

// Restore reinserts a particle under its own id, as Rollback needs to do
// when undoing a removal. It does not allocate a new id and does not
// check for overlap.
func (s *Space) Restore(p Particle) {
	s.particles[p.ID] = p
	s.insert(p.ID, s.cellOf(p.Sphere.Center))
	if p.ID >= s.nextID {
		s.nextID = p.ID
	}
}

// UpdateParticle moves the particle's entry to the cell of p.Sphere.Center
// mod world size. It never checks for overlap.
func (s *Space) UpdateParticle(p Particle) bool {
	old, ok := s.particles[p.ID]
	if !ok {
		return false
	}
	p.Sphere.Center = s.ApplyBoundaryPos(p.Sphere.Center)
	s.particles[p.ID] = p
	oldCell, newCell := s.cellOf(old.Sphere.Center), s.cellOf(p.Sphere.Center)
	if oldCell != newCell {
		s.removeFromCell(p.ID, oldCell)
		s.insert(p.ID, newCell)
	}
	return true
}

// RemoveParticle removes the particle with the given id, reporting whether
// it was present.
func (s *Space) RemoveParticle(id ParticleID) bool {
	p, ok := s.particles[id]
	if !ok {
		return false
	}
	s.removeFromCell(id, s.cellOf(p.Sphere.Center))
	delete(s.particles, id)
	return true
}

// GetParticle returns the particle with the given id.
func (s *Space) GetParticle(id ParticleID) (Particle, bool) {
	p, ok := s.particles[id]
	return p, ok
}

func (s *Space) HasParticle(id ParticleID) bool {
	_, ok := s.particles[id]
	return ok
}

// GetParticles enumerates every particle currently stored, in unspecified
// order.
func (s *Space) GetParticles() []Particle {
	out := make([]Particle, 0, len(s.particles))
	for _, p := range s.particles {
		out = append(out, p)
	}
	return out
}

// CheckOverlap scans the 3x3x3 neighborhood of cells around sphere.Center
// and returns every particle whose id is not in ignore and whose sphere
// overlaps or touches sph (signed surface-to-surface distance <= 0),
// paired with that distance, sorted ascending by distance with ties
// broken by insertion (particle id) order.
func (s *Space) CheckOverlap(sph shape.Sphere, ignore ...ParticleID) []ParticleDistance {
	skip := make(map[ParticleID]bool, len(ignore))
	for _, id := range ignore {
		skip[id] = true
	}

	center := s.cellOf(sph.Center)
	visited := make(map[cellIndex]bool, 27)
	var out []ParticleDistance
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				c := cellIndex{
					wrapCell(center[0]+dx, s.matrixSize),
					wrapCell(center[1]+dy, s.matrixSize),
					wrapCell(center[2]+dz, s.matrixSize),
				}
				// matrixSize < 3 wraps distinct offsets onto the same
				// cell; visit each cell at most once so a neighbor isn't
				// reported twice.
				if visited[c] {
					continue
				}
				visited[c] = true
				for _, id := range s.cells[c] {
					if skip[id] {
						continue
					}
					p := s.particles[id]
					d := s.Distance(sph.Center, p.Sphere.Center) - p.Sphere.Radius - sph.Radius
					if d > 0 {
						continue
					}
					out = append(out, ParticleDistance{Particle: p, Distance: d})
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Particle.ID < out[j].Particle.ID
	})
	return out
}

func wrapCell(i, n int) int {
	return ((i % n) + n) % n
}

// String renders diagnostic state; shown by diagnostic dumps only.
func (s *Space) String() string {
	return fmt.Sprintf("Space(worldSize=%g, matrixSize=%d, particles=%d)",
		s.worldSize, s.matrixSize, len(s.particles))
}
