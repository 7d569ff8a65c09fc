package rdcore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rdcore/shape"
	"rdcore/structure"
	"rdcore/vector"
)

func testWorld() *World {
	return NewWorld(10, 4, shape.NewBox(vector.New(5, 5, 5), vector.New(1, 0, 0), vector.New(0, 1, 0), vector.New(0, 0, 1), 5, 5, 5))
}

func TestNewWorldRegistersRootBulkStructure(t *testing.T) {
	w := testWorld()
	st, err := w.GetStructure(StructureRoot)
	assert.NoError(t, err)
	assert.Equal(t, structure.Cuboidal, st.Kind)
}

func TestNewStructureAssignsIdOnce(t *testing.T) {
	w := testWorld()
	s1, err := w.NewStructure("rod", 1, StructureRoot, structure.Cylindrical,
		shape.NewCylinder(vector.New(5, 5, 5), 1, vector.New(0, 0, 1), 2))
	assert.NoError(t, err)
	s2, err := w.NewStructure("rod2", 1, StructureRoot, structure.Cylindrical,
		shape.NewCylinder(vector.New(5, 5, 5), 1, vector.New(0, 0, 1), 2))
	assert.NoError(t, err)
	assert.NotEqual(t, s1.ID, s2.ID)
}

func TestNewStructureRejectsUnknownParent(t *testing.T) {
	w := testWorld()
	_, err := w.NewStructure("rod", 1, StructureID(999), structure.Cylindrical,
		shape.NewCylinder(vector.New(5, 5, 5), 1, vector.New(0, 0, 1), 2))
	assert.Error(t, err)
}

func TestGetParticleNotFound(t *testing.T) {
	w := testWorld()
	_, err := w.GetParticle(ParticleID(999))
	assert.Error(t, err)
}

func TestWorldParticleCRUD(t *testing.T) {
	w := testWorld()
	tx := w.CreateTransaction()
	id, _ := tx.NewParticle(1, vector.New(1, 1, 1), 0.1, 1)
	assert.True(t, w.HasParticle(id))
	assert.Equal(t, 1, w.NumParticles())

	p, err := w.GetParticle(id)
	assert.NoError(t, err)
	p.Sphere.Center = vector.New(2, 2, 2)
	assert.NoError(t, w.UpdateParticle(p))

	assert.True(t, w.RemoveParticle(id))
	assert.Equal(t, 0, w.NumParticles())
}

func TestGetClosestSurfaceIgnoresSpecifiedStructure(t *testing.T) {
	w := testWorld()
	rod, _ := w.NewStructure("rod", 1, StructureRoot, structure.Cylindrical,
		shape.NewCylinder(vector.New(5, 5, 5), 1, vector.New(0, 0, 1), 2))

	id, dist, err := w.GetClosestSurface(vector.New(5, 5, 5), StructureRoot)
	assert.NoError(t, err)
	assert.Equal(t, rod.ID, id)
	assert.InDelta(t, -1, dist, 1e-9)
}

func TestNewParticleCheckedRejectsOverlapThroughWorld(t *testing.T) {
	w := testWorld()
	_, _, err := w.NewParticleChecked(1, vector.New(5, 5, 5), 0.5, 1)
	assert.NoError(t, err)
	_, _, err = w.NewParticleChecked(1, vector.New(5.2, 5, 5), 0.5, 1)
	assert.Error(t, err)
	var nsErr *NoSpaceError
	assert.ErrorAs(t, err, &nsErr)
}
