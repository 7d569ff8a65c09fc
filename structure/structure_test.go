package structure

import (
	"math"
	"math/rand"
	"testing"

	"rdcore/shape"
	"rdcore/vector"
)

// a cylinder is a 1-D rod: RandomVector must draw ±r along the axis
// itself, never into the plane perpendicular to it.
func TestRandomVectorOnCylinderStaysAlongAxis(t *testing.T) {
	rod := testSurface(1, Root)
	src := rand.New(rand.NewSource(7))
	z := rod.Shape.(shape.Cylinder).UnitZ

	for i := 0; i < 50; i++ {
		v := rod.RandomVector(2, src)
		if math.Abs(v.Norm()-2) > 1e-9 {
			t.Fatalf("expected length 2, got %g", v.Norm())
		}
		if d := v.Dot(z); math.Abs(math.Abs(d)-2) > 1e-9 {
			t.Fatalf("expected vector parallel to axis, got z-component %g", d)
		}
	}
}

// a disk, unlike a cylinder, is 2-D: RandomVector must draw within its
// tangent plane, orthogonal to its normal.
func TestRandomVectorOnDiskStaysInTangentPlane(t *testing.T) {
	disk := New("membrane", 2, 0, Root, Disk,
		shape.NewDisk(vector.New(5, 5, 5), 3, vector.New(0, 0, 1)))
	src := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		v := disk.RandomVector(2, src)
		if math.Abs(v.Norm()-2) > 1e-9 {
			t.Fatalf("expected length 2, got %g", v.Norm())
		}
		if d := v.Dot(disk.Shape.(shape.Disk).UnitZ); math.Abs(d) > 1e-9 {
			t.Fatalf("expected vector orthogonal to normal, got z-component %g", d)
		}
	}
}

func TestRandomVectorIsotropicForBulk(t *testing.T) {
	bulk := testBulk()
	src := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		v := bulk.RandomVector(3, src)
		if math.Abs(v.Norm()-3) > 1e-9 {
			t.Fatalf("expected length 3, got %g", v.Norm())
		}
	}
}

func TestBDDisplacementDriftsAlongAxis(t *testing.T) {
	rod := testSurface(1, Root)
	src := rand.New(rand.NewSource(11))

	var mean vector.Vector
	const n = 20000
	for i := 0; i < n; i++ {
		mean = mean.Add(rod.BDDisplacement(1, 0.01, src))
	}
	mean = mean.Scale(1.0 / n)
	z := rod.Shape.(shape.Cylinder).UnitZ
	if got := mean.Dot(z); math.Abs(got-1) > 0.1 {
		t.Fatalf("expected mean axial drift near 1, got %g", got)
	}
}

type fakeContainer struct{ size float64 }

func (f fakeContainer) ApplyBoundaryPos(p vector.Vector) vector.Vector {
	wrap := func(x float64) float64 {
		return math.Mod(math.Mod(x, f.size)+f.size, f.size)
	}
	return vector.New(wrap(p[0]), wrap(p[1]), wrap(p[2]))
}

func (f fakeContainer) CyclicTransposePos(a, b vector.Vector) vector.Vector {
	t := func(a, b float64) float64 {
		return a + math.Round((b-a)/f.size)*f.size
	}
	return vector.New(t(a[0], b[0]), t(a[1], b[1]), t(a[2], b[2]))
}

func TestApplyBoundaryOnlyWrapsBulk(t *testing.T) {
	bulk := testBulk()
	rod := testSurface(1, Root)
	c := fakeContainer{size: 10}

	wrapped := bulk.ApplyBoundary(vector.New(11, -1, 5), c)
	if wrapped != vector.New(1, 9, 5) {
		t.Fatalf("expected bulk position wrapped, got %v", wrapped)
	}

	untouched := rod.ApplyBoundary(vector.New(11, -1, 5), c)
	if untouched != vector.New(11, -1, 5) {
		t.Fatalf("expected surface position left untouched, got %v", untouched)
	}
}

func TestCyclicTransposeOnlyAppliesToBulk(t *testing.T) {
	bulk := testBulk()
	rod := testSurface(1, Root)
	c := fakeContainer{size: 10}

	pos := vector.New(-2, 5, 5)
	got := bulk.CyclicTranspose(pos, c)
	if got != vector.New(8, 5, 5) {
		t.Fatalf("expected image near bulk center, got %v", got)
	}

	same := rod.CyclicTranspose(pos, c)
	if same != pos {
		t.Fatalf("expected surface position left untouched, got %v", same)
	}
}
