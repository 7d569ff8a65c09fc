package structure

import (
	"math/rand"
	"testing"

	"rdcore/shape"
	"rdcore/vector"
)

var allKinds = []Kind{Cuboidal, Spherical, Cylindrical, Disk, Planar}

// TestDispatchTableExhaustive mirrors the teacher's var _ Interface = &impl{}
// exhaustiveness-by-compile-check idiom: since the dispatch tables here are
// data rather than named types, exhaustiveness is checked at test time
// instead of compile time.
func TestDispatchTableExhaustive(t *testing.T) {
	for _, from := range allKinds {
		for _, to := range allKinds {
			if _, ok := singleTable[pair{from, to}]; !ok {
				t.Errorf("singleTable missing entry for (%s, %s)", from, to)
			}
			if _, ok := pairTable[pair{from, to}]; !ok {
				t.Errorf("pairTable missing entry for (%s, %s)", from, to)
			}
		}
	}
}

func testBulk() *Structure {
	return New("bulk", Root, 0, Root, Cuboidal,
		shape.NewBox(vector.New(5, 5, 5), vector.New(1, 0, 0), vector.New(0, 1, 0), vector.New(0, 0, 1), 5, 5, 5))
}

func testSurface(id ID, parent ID) *Structure {
	return New("rod", id, 1, parent, Cylindrical,
		shape.NewCylinder(vector.New(5, 5, 5), 1, vector.New(0, 0, 1), 2))
}

func TestSingleBulkToSurfaceProjects(t *testing.T) {
	bulk := testBulk()
	rod := testSurface(1, Root)
	src := rand.New(rand.NewSource(1))

	pos, id, err := Single(bulk, rod, vector.New(5, 5, 5), src)
	if err != nil {
		t.Fatalf("Single: %v", err)
	}
	if id != rod.ID {
		t.Fatalf("expected structure id %d, got %d", rod.ID, id)
	}
	if d := rod.Shape.Distance(pos); d > 1e-9 {
		t.Fatalf("projected point is not on the rod surface: distance %g", d)
	}
}

func TestPairRequiresParentChild(t *testing.T) {
	bulk := testBulk()
	rodA := testSurface(1, Root)
	rodB := testSurface(2, Root)

	src := rand.New(rand.NewSource(1))
	_, _, _, _, err := Pair(rodA, rodB, vector.New(0, 0, 0), vector.New(0, 0, 0), src)
	if err == nil {
		t.Fatal("expected propagation_error for unrelated structures")
	}
	if _, ok := err.(*PropagationError); !ok {
		t.Fatalf("expected *PropagationError, got %T", err)
	}

	_, _, idA, idB, err := Pair(bulk, rodA, vector.New(5, 5, 5), vector.New(5, 5, 6), src)
	if err != nil {
		t.Fatalf("parent/child pair should succeed: %v", err)
	}
	if idA != rodA.ID || idB != rodA.ID {
		t.Fatalf("expected both products on rod, got %d, %d", idA, idB)
	}
}
