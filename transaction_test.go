package rdcore

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"rdcore/vector"
)

func snapshotIDs(ps []Particle) []ParticleID {
	ids := make([]ParticleID, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// scenario 5: insert p, update q, remove r; rollback; container equals
// the pre-transaction snapshot.
func TestTransactionRollbackRestoresSnapshot(t *testing.T) {
	w := testWorld()
	seed := w.CreateTransaction()
	qID, _ := seed.NewParticle(1, vector.New(1, 1, 1), 0.1, 1)
	rID, _ := seed.NewParticle(1, vector.New(2, 2, 2), 0.1, 1)

	before := snapshotIDs(w.GetParticles())

	tx := w.CreateTransaction()
	pID, _ := tx.NewParticle(1, vector.New(3, 3, 3), 0.1, 1)
	q, _ := w.GetParticle(qID)
	q.Sphere.Center = vector.New(9, 9, 9)
	assert.NoError(t, tx.UpdateParticle(q))
	assert.True(t, tx.RemoveParticle(rID))

	tx.Rollback()

	after := snapshotIDs(w.GetParticles())
	assert.Equal(t, before, after)

	restoredQ, err := w.GetParticle(qID)
	assert.NoError(t, err)
	assert.True(t, restoredQ.Sphere.Center.Eq(vector.New(1, 1, 1)))

	assert.False(t, w.HasParticle(pID))
	assert.True(t, w.HasParticle(rID))
}

func TestTransactionRollbackIsIdempotent(t *testing.T) {
	w := testWorld()
	tx := w.CreateTransaction()
	tx.NewParticle(1, vector.New(1, 1, 1), 0.1, 1)
	tx.Rollback()
	before := snapshotIDs(w.GetParticles())
	tx.Rollback()
	after := snapshotIDs(w.GetParticles())
	assert.Equal(t, before, after)
}

func TestTransactionBookkeepingPartitionsDisjoint(t *testing.T) {
	w := testWorld()
	seed := w.CreateTransaction()
	qID, _ := seed.NewParticle(1, vector.New(1, 1, 1), 0.1, 1)
	rID, _ := seed.NewParticle(1, vector.New(2, 2, 2), 0.1, 1)

	tx := w.CreateTransaction()
	pID, _ := tx.NewParticle(1, vector.New(3, 3, 3), 0.1, 1)
	q, _ := w.GetParticle(qID)
	q.Sphere.Center = vector.New(8, 8, 8)
	tx.UpdateParticle(q)
	tx.RemoveParticle(rID)

	added := tx.added
	modified := tx.modified
	removed := tx.removed

	for id := range added {
		assert.False(t, modified[id])
		assert.False(t, removed[id])
	}
	for id := range modified {
		assert.False(t, removed[id])
	}
	assert.True(t, added[pID])
	assert.True(t, modified[qID])
	assert.True(t, removed[rID])
}

func TestNewParticleThenRemoveWithinSameTransactionUndoesAdd(t *testing.T) {
	w := testWorld()
	tx := w.CreateTransaction()
	id, _ := tx.NewParticle(1, vector.New(1, 1, 1), 0.1, 1)
	assert.True(t, tx.RemoveParticle(id))
	assert.False(t, tx.added[id])
	assert.False(t, w.HasParticle(id))

	tx.Rollback()
	assert.False(t, w.HasParticle(id))
}

func TestGetAddedModifiedRemovedParticles(t *testing.T) {
	w := testWorld()
	seed := w.CreateTransaction()
	qID, _ := seed.NewParticle(1, vector.New(1, 1, 1), 0.1, 1)
	rID, _ := seed.NewParticle(1, vector.New(2, 2, 2), 0.1, 1)

	tx := w.CreateTransaction()
	pID, _ := tx.NewParticle(1, vector.New(3, 3, 3), 0.1, 1)
	q, _ := w.GetParticle(qID)
	q.Sphere.Center = vector.New(7, 7, 7)
	tx.UpdateParticle(q)
	tx.RemoveParticle(rID)

	added := tx.GetAddedParticles()
	assert.Len(t, added, 1)
	assert.Equal(t, pID, added[0].ID)

	modified := tx.GetModifiedParticles()
	assert.Len(t, modified, 1)
	assert.Equal(t, qID, modified[0].ID)
	assert.True(t, modified[0].Sphere.Center.Eq(vector.New(7, 7, 7)))

	removed := tx.GetRemovedParticles()
	assert.Len(t, removed, 1)
	assert.Equal(t, rID, removed[0].ID)
	assert.True(t, removed[0].Sphere.Center.Eq(vector.New(2, 2, 2)))
}
