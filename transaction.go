package rdcore

import "rdcore/vector"

// Transaction is a writable view onto a World that remembers every
// mutation it performs so the whole batch can be undone in one call. Its
// rollback semantics mirror the original implementation's
// TransactionImpl: added particles are simply deleted, modified and
// removed particles are restored to the state they had the moment before
// the transaction first touched them.
type Transaction struct {
	*World

	added    map[ParticleID]bool
	modified map[ParticleID]bool
	removed  map[ParticleID]bool

	// orig holds the pre-transaction state of every modified or removed
	// particle, recorded the first time (and only the first time) the
	// transaction touches it.
	orig map[ParticleID]Particle
}

func newTransaction(w *World) *Transaction {
	return &Transaction{
		World:    w,
		added:    make(map[ParticleID]bool),
		modified: make(map[ParticleID]bool),
		removed:  make(map[ParticleID]bool),
		orig:     make(map[ParticleID]Particle),
	}
}

// snapshot records p's current state the first time this transaction
// touches it, so Rollback can restore it later. It is a no-op for
// particles the transaction itself added, since those are simply deleted
// on rollback.
func (t *Transaction) snapshot(id ParticleID) {
	if t.added[id] {
		return
	}
	if _, ok := t.orig[id]; ok {
		return
	}
	if p, ok := t.World.space.GetParticle(id); ok {
		t.orig[id] = p
	}
}

// NewParticle creates a new particle of the given species, center,
// radius, and diffusion constant, and records it as added.
func (t *Transaction) NewParticle(sid SpeciesID, center vector.Vector, radius, d float64) (ParticleID, Particle) {
	id, p := t.World.space.NewParticle(sid, center, radius, d)
	t.added[id] = true
	delete(t.modified, id)
	delete(t.removed, id)
	return id, p
}

// NewParticleChecked is NewParticle's overlap-checked counterpart: it
// refuses the insertion and returns a *NoSpaceError if the candidate
// sphere overlaps any existing particle, leaving the transaction
// untouched.
func (t *Transaction) NewParticleChecked(sid SpeciesID, center vector.Vector, radius, d float64) (ParticleID, Particle, error) {
	id, p, err := t.World.NewParticleChecked(sid, center, radius, d)
	if err != nil {
		return 0, Particle{}, err
	}
	t.added[id] = true
	delete(t.modified, id)
	delete(t.removed, id)
	return id, p, nil
}

// UpdateParticle moves an existing particle, recording it as modified
// unless this transaction added it itself.
func (t *Transaction) UpdateParticle(p Particle) error {
	if !t.World.HasParticle(p.ID) {
		return newNotFoundError("no such particle: id=%d", p.ID)
	}
	t.snapshot(p.ID)
	if err := t.World.UpdateParticle(p); err != nil {
		return err
	}
	if !t.added[p.ID] {
		t.modified[p.ID] = true
	}
	return nil
}

// RemoveParticle deletes an existing particle, recording it as removed
// unless this transaction added it itself, in which case the add is
// simply undone.
func (t *Transaction) RemoveParticle(id ParticleID) bool {
	if !t.World.HasParticle(id) {
		return false
	}
	if t.added[id] {
		delete(t.added, id)
		delete(t.orig, id)
	} else {
		t.snapshot(id)
		t.removed[id] = true
	}
	return t.World.RemoveParticle(id)
}

// GetAddedParticles returns every particle this transaction has created
// and not since removed.
func (t *Transaction) GetAddedParticles() []Particle {
	out := make([]Particle, 0, len(t.added))
	for id := range t.added {
		if p, ok := t.World.space.GetParticle(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// GetModifiedParticles returns every particle this transaction has
// updated (but neither created nor removed), in its current state.
func (t *Transaction) GetModifiedParticles() []Particle {
	out := make([]Particle, 0, len(t.modified))
	for id := range t.modified {
		if p, ok := t.World.space.GetParticle(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// GetRemovedParticles returns the pre-removal state of every particle
// this transaction has removed.
func (t *Transaction) GetRemovedParticles() []Particle {
	out := make([]Particle, 0, len(t.removed))
	for id := range t.removed {
		if p, ok := t.orig[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Rollback undoes every mutation this transaction has made: added
// particles are deleted, and modified or removed particles are restored
// to their pre-transaction state. Rollback leaves the transaction ready
// for reuse, matching TransactionImpl::rollback() in the original
// implementation.
func (t *Transaction) Rollback() {
	for id := range t.added {
		t.World.space.RemoveParticle(id)
	}
	for id := range t.modified {
		if p, ok := t.orig[id]; ok {
			t.World.space.UpdateParticle(p)
		}
	}
	for id := range t.removed {
		if p, ok := t.orig[id]; ok {
			t.World.space.Restore(p)
		}
	}
	t.added = make(map[ParticleID]bool)
	t.modified = make(map[ParticleID]bool)
	t.removed = make(map[ParticleID]bool)
	t.orig = make(map[ParticleID]Particle)
}
