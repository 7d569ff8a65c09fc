package reaction

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"rdcore/shape"
	"rdcore/structure"
	"rdcore/vector"
)

func sphereStructure() *structure.Structure {
	return structure.New("vesicle", structure.ID(3), 0, structure.Root, structure.Spherical,
		shape.NewSphere(vector.New(2, 2, 2), 3))
}

// TestSphericalSurfaceReactionVolumeMatchesCylinderFormula checks the
// Open-Question resolution (spec.md §9): spherical surface sampling is
// implemented with the same annulus-area formula as the cylindrical and
// disk surfaces, not left returning zero.
func TestSphericalSurfaceReactionVolumeMatchesCylinderFormula(t *testing.T) {
	st := sphereStructure()
	anchor := vector.New(5, 2, 2) // center + radius along x
	r0, rl := 0.1, 0.2
	got, err := SphericalSurfaceReactionVolume(st, anchor, r0, rl)
	assert.NoError(t, err)
	rc := 3.0
	want := math.Pi * (math.Pow(rc+r0+rl, 2) - math.Pow(rc+r0, 2))
	assert.InDelta(t, want, got, 1e-12)
}

func TestSphericalSurfaceDissociationVectorPerpendicularToRadius(t *testing.T) {
	st := sphereStructure()
	center := vector.New(2, 2, 2)
	anchor := vector.New(5, 2, 2)
	radial := anchor.Sub(center).Normalize()
	src := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		v, err := SphericalSurfaceDissociationVector(st, anchor, 0.1, 0.3, src)
		assert.NoError(t, err)
		assert.InDelta(t, 0, v.Dot(radial), 1e-9)
	}
}

func TestSphericalSurfaceRejectsNonSphericalStructure(t *testing.T) {
	st := cylinderStructure()
	_, err := SphericalSurfaceReactionVolume(st, vector.New(0, 0, 1), 0.1, 0.1)
	assert.Error(t, err)
}

func TestSphericalGeminateDissociationPositionsConserveCenterOfMassShare(t *testing.T) {
	st := sphereStructure()
	anchor := vector.New(5, 2, 2)
	op := vector.New(5, 2, 2)
	src := rand.New(rand.NewSource(8))
	d0, d1 := 2.0, 1.0
	a, b, err := SphericalGeminateDissociationPositions(st, anchor, op, 0.1, 0.1, 0.4, d0, d1, src)
	assert.NoError(t, err)
	da, db := op.Sub(a).Norm(), b.Sub(op).Norm()
	assert.InDelta(t, d0/d1, da/db, 1e-9)
}
