package container

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"rdcore/shape"
	"rdcore/vector"
)

// scenario 3: periodic distance.
func TestDistancePeriodicScenario(t *testing.T) {
	s := New(10, 4)
	a := vector.New(0.1, 0, 0)
	b := vector.New(9.9, 0, 0)
	assert.InDelta(t, 0.2, s.Distance(a, b), 1e-12)
}

// scenario 4: overlap query across the periodic boundary.
func TestCheckOverlapAcrossPeriodicBoundaryScenario(t *testing.T) {
	s := New(10, 4)
	_, p1 := s.NewParticle(1, vector.New(0, 0, 0), 0.1, 1)
	_, p2 := s.NewParticle(1, vector.New(9.95, 0, 0), 0.1, 1)

	results := s.CheckOverlap(shape.NewSphere(vector.New(0.05, 0, 0), 0.1))
	assert.Len(t, results, 2)
	ids := map[ParticleID]bool{results[0].Particle.ID: true, results[1].Particle.ID: true}
	assert.True(t, ids[p1.ID] && ids[p2.ID])
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
}

// spec.md §8: check_overlap enumeration returns exactly those particles
// within the query radius, not once per offset that aliases onto the
// same cell. matrixSize==2 means the x-neighbor offsets -1, 0, +1 all
// wrap onto only two distinct cells (0 and 1), so a naive scan visits
// one of them three times.
func TestCheckOverlapDoesNotDoubleCountOnSmallGrid(t *testing.T) {
	s := New(10, 2)
	_, p := s.NewParticle(1, vector.New(1, 1, 1), 0.1, 1)

	results := s.CheckOverlap(shape.NewSphere(vector.New(1, 1, 1), 0.1))
	assert.Len(t, results, 1)
	assert.Equal(t, p.ID, results[0].Particle.ID)
}

func TestCheckOverlapSortedAscendingAndSkipsIgnored(t *testing.T) {
	s := New(100, 10)
	id1, _ := s.NewParticle(1, vector.New(5, 5, 5), 0.1, 1)
	id2, _ := s.NewParticle(1, vector.New(5.5, 5, 5), 0.1, 1)
	id3, _ := s.NewParticle(1, vector.New(5.2, 5, 5), 0.1, 1)

	all := s.CheckOverlap(shape.NewSphere(vector.New(5, 5, 5), 0.3))
	assert.Len(t, all, 2)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Distance, all[i].Distance)
	}

	filtered := s.CheckOverlap(shape.NewSphere(vector.New(5, 5, 5), 0), id2)
	for _, r := range filtered {
		assert.NotEqual(t, id2, r.Particle.ID)
	}
	_ = id1
	_ = id3
}

// spec.md §8: apply_boundary(apply_boundary(p)) = apply_boundary(p), and
// coordinates land in [0, world_size).
func TestApplyBoundaryIdempotentAndInRange(t *testing.T) {
	s := New(10, 5)
	src := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := vector.New(src.Float64()*100-50, src.Float64()*100-50, src.Float64()*100-50)
		once := s.ApplyBoundaryPos(p)
		twice := s.ApplyBoundaryPos(once)
		assert.True(t, once.Eq(twice))
		for k := 0; k < 3; k++ {
			assert.GreaterOrEqual(t, once[k], 0.0)
			assert.Less(t, once[k], s.WorldSize())
		}
	}
}

// spec.md §8: distance(a,b) = |a - cyclic_transpose(b,a)|.
func TestDistanceEqualsMinimumImageNorm(t *testing.T) {
	s := New(10, 5)
	src := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		a := vector.New(src.Float64()*10, src.Float64()*10, src.Float64()*10)
		b := vector.New(src.Float64()*10, src.Float64()*10, src.Float64()*10)
		want := a.Sub(s.CyclicTransposePos(b, a)).Norm()
		assert.InDelta(t, want, s.Distance(a, b), 1e-9)
	}
}

func TestNewUpdateRemoveParticle(t *testing.T) {
	s := New(10, 5)
	id, p := s.NewParticle(3, vector.New(1, 1, 1), 0.2, 0.5)
	assert.True(t, s.HasParticle(id))
	got, ok := s.GetParticle(id)
	assert.True(t, ok)
	assert.Equal(t, p, got)

	p.Sphere.Center = vector.New(9, 9, 9)
	assert.True(t, s.UpdateParticle(p))
	got, _ = s.GetParticle(id)
	assert.True(t, got.Sphere.Center.Eq(vector.New(9, 9, 9)))

	assert.True(t, s.RemoveParticle(id))
	assert.False(t, s.HasParticle(id))
	assert.False(t, s.RemoveParticle(id))
}

func TestUpdateParticleMovesBetweenCells(t *testing.T) {
	s := New(10, 10)
	id, p := s.NewParticle(1, vector.New(0.5, 0.5, 0.5), 0.1, 1)
	p.Sphere.Center = vector.New(9.5, 9.5, 9.5)
	assert.True(t, s.UpdateParticle(p))

	// After the move, an overlap query near the origin must not find it.
	hits := s.CheckOverlap(shape.NewSphere(vector.New(0.5, 0.5, 0.5), 0.01))
	for _, h := range hits {
		assert.NotEqual(t, id, h.Particle.ID)
	}
	hits = s.CheckOverlap(shape.NewSphere(vector.New(9.5, 9.5, 9.5), 0.01))
	found := false
	for _, h := range hits {
		if h.Particle.ID == id {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNewParticleCheckedRejectsOverlap(t *testing.T) {
	s := New(10, 5)
	s.NewParticle(1, vector.New(5, 5, 5), 1, 1)
	_, _, overlaps, ok := s.NewParticleChecked(1, vector.New(5.5, 5, 5), 1, 1)
	assert.False(t, ok)
	assert.NotEmpty(t, overlaps)

	_, _, overlaps, ok = s.NewParticleChecked(1, vector.New(8, 8, 8), 1, 1)
	assert.True(t, ok)
	assert.Empty(t, overlaps)
}

func TestCellSizeDerivedFromWorldAndMatrixSize(t *testing.T) {
	s := New(20, 4)
	assert.InDelta(t, 5, s.CellSize(), 1e-12)
}

func TestCheckOverlapSignedDistance(t *testing.T) {
	s := New(100, 10)
	s.NewParticle(1, vector.New(5, 5, 5), 0.5, 1)
	results := s.CheckOverlap(shape.NewSphere(vector.New(5.5, 5, 5), 0.5))
	assert.Len(t, results, 1)
	assert.InDelta(t, -0.5, results[0].Distance, 1e-9)
}

func TestParticleEqByTypeAndSphereIgnoresID(t *testing.T) {
	a := Particle{ID: 1, SpeciesID: 2, Sphere: shape.NewSphere(vector.New(0, 0, 0), 1)}
	b := Particle{ID: 99, SpeciesID: 2, Sphere: shape.NewSphere(vector.New(0, 0, 0), 1)}
	c := Particle{ID: 2, SpeciesID: 3, Sphere: shape.NewSphere(vector.New(0, 0, 0), 1)}
	assert.True(t, a.Eq(b))
	assert.False(t, a.Eq(c))
}

func TestNewPanicsOnNonPositiveDimensions(t *testing.T) {
	assert.Panics(t, func() { New(0, 5) })
	assert.Panics(t, func() { New(10, 0) })
}

func TestGetParticlesEnumeratesAll(t *testing.T) {
	s := New(10, 5)
	ids := map[ParticleID]bool{}
	for i := 0; i < 5; i++ {
		id, _ := s.NewParticle(1, vector.New(float64(i), 0, 0), 0.1, 1)
		ids[id] = true
	}
	got := s.GetParticles()
	assert.Len(t, got, 5)
	for _, p := range got {
		assert.True(t, ids[p.ID])
	}
}

func TestWrapCellHandlesNegativeIndices(t *testing.T) {
	assert.Equal(t, 3, wrapCell(-1, 4))
	assert.Equal(t, 0, wrapCell(4, 4))
	assert.Equal(t, 2, wrapCell(2, 4))
}
