package structure

import (
	"fmt"

	"rdcore/rng"
	"rdcore/vector"
)

// PropagationError reports that a pair reaction was attempted between
// particles living on structures more than one hierarchical level apart.
type PropagationError struct {
	Origin, Target ID
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("structure: origin %d and target %d are not parent/child: pair reaction cannot propagate", e.Origin, e.Target)
}

// UnsupportedTransitionError reports a dispatch-table pair with no
// physically meaningful transition (e.g. disk-to-disk, the two disks
// necessarily being unrelated patches with no shared boundary).
type UnsupportedTransitionError struct {
	Origin, Target Kind
}

func (e *UnsupportedTransitionError) Error() string {
	return fmt.Sprintf("structure: no transition routine for %s -> %s", e.Origin, e.Target)
}

// pair is the ordered (source, target) dispatch key spec.md §4.B calls
// for: every implementer must enumerate all 25 combinations of the five
// Kind variants exactly once.
type pair struct {
	from, to Kind
}

// singleTransition places a single particle moving from origin into
// target, returning its new position and the id it now belongs to.
type singleTransition func(origin, target *Structure, pos vector.Vector, src rng.Source) (vector.Vector, ID, error)

var singleTable = map[pair]singleTransition{
	{Cuboidal, Cuboidal}:    intoBulk,
	{Cuboidal, Spherical}:   intoSurface,
	{Cuboidal, Cylindrical}: intoSurface,
	{Cuboidal, Disk}:        intoSurface,
	{Cuboidal, Planar}:      intoSurface,

	{Spherical, Cuboidal}:    intoBulk,
	{Spherical, Spherical}:   intoSurface,
	{Spherical, Cylindrical}: unsupportedSingle,
	{Spherical, Disk}:        unsupportedSingle,
	{Spherical, Planar}:      unsupportedSingle,

	{Cylindrical, Cuboidal}:    intoBulk,
	{Cylindrical, Spherical}:   unsupportedSingle,
	{Cylindrical, Cylindrical}: intoSurface,
	{Cylindrical, Disk}:        intoSurface,
	{Cylindrical, Planar}:      unsupportedSingle,

	{Disk, Cuboidal}:    intoBulk,
	{Disk, Spherical}:   unsupportedSingle,
	{Disk, Cylindrical}: intoSurface,
	{Disk, Disk}:        unsupportedSingle,
	{Disk, Planar}:      unsupportedSingle,

	{Planar, Cuboidal}:    intoBulk,
	{Planar, Spherical}:   unsupportedSingle,
	{Planar, Cylindrical}: unsupportedSingle,
	{Planar, Disk}:        unsupportedSingle,
	{Planar, Planar}:      intoSurface,
}

func intoBulk(origin, target *Structure, pos vector.Vector, src rng.Source) (vector.Vector, ID, error) {
	return pos, target.ID, nil
}

func intoSurface(origin, target *Structure, pos vector.Vector, src rng.Source) (vector.Vector, ID, error) {
	onSurface, _ := target.ProjectPointOnSurface(pos)
	return onSurface, target.ID, nil
}

func unsupportedSingle(origin, target *Structure, pos vector.Vector, src rng.Source) (vector.Vector, ID, error) {
	return vector.Vector{}, 0, &UnsupportedTransitionError{Origin: origin.Kind, Target: target.Kind}
}

// Single dispatches a single-particle transition from origin to target,
// spec.md §4.B's get_pos_sid_pair for the one-origin case.
func Single(origin, target *Structure, pos vector.Vector, src rng.Source) (vector.Vector, ID, error) {
	fn, ok := singleTable[pair{origin.Kind, target.Kind}]
	if !ok {
		return vector.Vector{}, 0, &UnsupportedTransitionError{Origin: origin.Kind, Target: target.Kind}
	}
	return fn(origin, target, pos, src)
}

// pairTransition places a dissociating pair moving from origin into
// target, returning both new positions and the target structure they now
// each belong to.
type pairTransition func(origin, target *Structure, a, b vector.Vector, src rng.Source) (vector.Vector, vector.Vector, ID, ID, error)

func intoBulkPair(origin, target *Structure, a, b vector.Vector, src rng.Source) (vector.Vector, vector.Vector, ID, ID, error) {
	return a, b, target.ID, target.ID, nil
}

func intoSurfacePair(origin, target *Structure, a, b vector.Vector, src rng.Source) (vector.Vector, vector.Vector, ID, ID, error) {
	onA, _ := target.ProjectPointOnSurface(a)
	onB, _ := target.ProjectPointOnSurface(b)
	return onA, onB, target.ID, target.ID, nil
}

func unsupportedPair(origin, target *Structure, a, b vector.Vector, src rng.Source) (vector.Vector, vector.Vector, ID, ID, error) {
	return vector.Vector{}, vector.Vector{}, 0, 0, &UnsupportedTransitionError{Origin: origin.Kind, Target: target.Kind}
}

var pairTable = map[pair]pairTransition{
	{Cuboidal, Cuboidal}:    intoBulkPair,
	{Cuboidal, Spherical}:   intoSurfacePair,
	{Cuboidal, Cylindrical}: intoSurfacePair,
	{Cuboidal, Disk}:        intoSurfacePair,
	{Cuboidal, Planar}:      intoSurfacePair,

	{Spherical, Cuboidal}:    intoBulkPair,
	{Spherical, Spherical}:   intoSurfacePair,
	{Spherical, Cylindrical}: unsupportedPair,
	{Spherical, Disk}:        unsupportedPair,
	{Spherical, Planar}:      unsupportedPair,

	{Cylindrical, Cuboidal}:    intoBulkPair,
	{Cylindrical, Spherical}:   unsupportedPair,
	{Cylindrical, Cylindrical}: intoSurfacePair,
	{Cylindrical, Disk}:        intoSurfacePair,
	{Cylindrical, Planar}:      unsupportedPair,

	{Disk, Cuboidal}:    intoBulkPair,
	{Disk, Spherical}:   unsupportedPair,
	{Disk, Cylindrical}: intoSurfacePair,
	{Disk, Disk}:        unsupportedPair,
	{Disk, Planar}:      unsupportedPair,

	{Planar, Cuboidal}:    intoBulkPair,
	{Planar, Spherical}:   unsupportedPair,
	{Planar, Cylindrical}: unsupportedPair,
	{Planar, Disk}:        unsupportedPair,
	{Planar, Planar}:      intoSurfacePair,
}

// Pair dispatches a dissociating-pair transition from origin to target,
// spec.md §4.B's get_pos_sid_pair_pair. It enforces the parent/child rule:
// a pair reaction whose reactants live on structures that are not the
// same structure and not in a parent/child relationship fails with
// *PropagationError.
func Pair(origin, target *Structure, a, b vector.Vector, src rng.Source) (vector.Vector, vector.Vector, ID, ID, error) {
	if origin.ID != target.ID && !origin.IsParentOf(target) && !target.IsParentOf(origin) {
		return vector.Vector{}, vector.Vector{}, 0, 0, &PropagationError{Origin: origin.ID, Target: target.ID}
	}
	fn, ok := pairTable[pair{origin.Kind, target.Kind}]
	if !ok {
		return vector.Vector{}, vector.Vector{}, 0, 0, &UnsupportedTransitionError{Origin: origin.Kind, Target: target.Kind}
	}
	return fn(origin, target, a, b, src)
}
