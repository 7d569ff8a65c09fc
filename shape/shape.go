// Package shape implements the geometric primitives structures are built
// on: Sphere, Cylinder, Plane, Disk, and Box. Every shape exposes the same
// triad of operations (Distance, ProjectedPoint, RandomPosition) plus a
// shape-specific ProjectedPointOnSurface, matching the teacher's habit
// (geom/tetra.go) of grouping a struct with the small set of geometric
// methods that operate on it.
package shape

import (
	"math"

	"rdcore/rng"
	"rdcore/vector"
)

// Shape is the common interface every variant satisfies. Callers that need
// to act generically over shapes (e.g. structure dispatch) hold a Shape;
// callers that need a specific variant's fields type-assert to it.
type Shape interface {
	// Distance returns the signed distance from p to the shape's surface.
	// Negative means p is inside the shape, where "inside" is defined.
	Distance(p vector.Vector) float64

	// ProjectedPoint returns the point on the shape's central axis/plane
	// closest to p, together with the perpendicular coordinate of p
	// relative to that point.
	ProjectedPoint(p vector.Vector) (onAxis vector.Vector, perp float64)

	// ProjectedPointOnSurface returns the point on the shape's surface
	// closest to p, together with the signed distance from that surface.
	ProjectedPointOnSurface(p vector.Vector) (onSurface vector.Vector, perp float64)

	// RandomPosition draws a point uniform on the shape's proper measure.
	RandomPosition(src rng.Source) vector.Vector
}

// Sphere is centered at Center with radius Radius >= 0.
type Sphere struct {
	Center vector.Vector
	Radius float64
}

func NewSphere(center vector.Vector, radius float64) Sphere {
	if radius < 0 {
		panic("shape: sphere radius must be non-negative")
	}
	return Sphere{Center: center, Radius: radius}
}

func (s Sphere) Distance(p vector.Vector) float64 {
	return p.Sub(s.Center).Norm() - s.Radius
}

func (s Sphere) ProjectedPoint(p vector.Vector) (vector.Vector, float64) {
	return s.Center, p.Sub(s.Center).Norm()
}

func (s Sphere) ProjectedPointOnSurface(p vector.Vector) (vector.Vector, float64) {
	d := p.Sub(s.Center)
	n := d.Norm()
	if n == 0 {
		// p coincides with the center: direction is arbitrary but must be
		// deterministic and unit length.
		return s.Center.Add(vector.New(1, 0, 0).Scale(s.Radius)), -s.Radius
	}
	onSurface := s.Center.Add(d.Scale(s.Radius / n))
	return onSurface, n - s.Radius
}

func (s Sphere) RandomPosition(src rng.Source) vector.Vector {
	// A sphere's proper "random position" is its center: the original
	// implementation treats Sphere as an axis-centered trivial case
	// (spec.md 4.A). Structures with 2-D or volumetric measure override
	// this behavior at the Structure layer.
	return s.Center
}

// Cylinder is centered at Center, has radius Radius >= 0, a unit axis
// UnitZ with norm 1, and extends HalfLength on either side of Center along
// UnitZ.
type Cylinder struct {
	Center     vector.Vector
	Radius     float64
	UnitZ      vector.Vector
	HalfLength float64
}

func NewCylinder(center vector.Vector, radius float64, unitZ vector.Vector, halfLength float64) Cylinder {
	if radius < 0 {
		panic("shape: cylinder radius must be non-negative")
	}
	if halfLength < 0 {
		panic("shape: cylinder half-length must be non-negative")
	}
	if math.Abs(unitZ.Norm()-1) > 1e-9 {
		panic("shape: cylinder unit_z must be a unit vector")
	}
	return Cylinder{Center: center, Radius: radius, UnitZ: unitZ, HalfLength: halfLength}
}

// toInternal returns the (r, z) cylindrical coordinates of p relative to
// the cylinder's own frame: z along UnitZ (may be negative), r the radial
// distance from the axis (always >= 0).
func (c Cylinder) toInternal(p vector.Vector) (r, z float64) {
	rel := p.Sub(c.Center)
	z = rel.Dot(c.UnitZ)
	radial := rel.Sub(c.UnitZ.Scale(z))
	return radial.Norm(), z
}

func (c Cylinder) Distance(p vector.Vector) float64 {
	r, z := c.toInternal(p)
	dz := math.Abs(z) - c.HalfLength
	dr := r - c.Radius
	switch {
	case dz > 0 && dr > 0:
		return math.Sqrt(dz*dz + dr*dr)
	case dz > 0:
		return dz
	case dr > 0:
		return dr
	default:
		return math.Max(dr, dz)
	}
}

func (c Cylinder) ProjectedPoint(p vector.Vector) (vector.Vector, float64) {
	r, z := c.toInternal(p)
	return c.Center.Add(c.UnitZ.Scale(z)), r
}

func (c Cylinder) ProjectedPointOnSurface(p vector.Vector) (vector.Vector, float64) {
	r, z := c.toInternal(p)
	onAxis := c.Center.Add(c.UnitZ.Scale(z))
	dirToP := p.Sub(onAxis)
	n := dirToP.Norm()
	if n == 0 {
		// p sits on the axis; pick an arbitrary radial direction
		// orthogonal to UnitZ.
		dirToP = arbitraryOrthogonal(c.UnitZ)
		n = dirToP.Norm()
	}
	zs, rs := z, c.Radius
	if dz, dr := math.Abs(z)-c.HalfLength, r-c.Radius; dz > 0 || dr > 0 {
		zs, rs = math.Max(-c.HalfLength, math.Min(z, c.HalfLength)), math.Min(r, c.Radius)
	} else if dz > dr {
		zs, rs = math.Copysign(c.HalfLength, z), r
	}
	onSurface := c.Center.Add(c.UnitZ.Scale(zs)).Add(dirToP.Scale(rs / n))
	return onSurface, c.Distance(p)
}

func (c Cylinder) RandomPosition(src rng.Source) vector.Vector {
	u := rng.Uniform(src, -1, 1)
	return c.Center.Add(c.UnitZ.Scale(u * c.HalfLength))
}

// arbitraryOrthogonal returns some unit vector orthogonal to u, which must
// itself be a unit vector.
func arbitraryOrthogonal(u vector.Vector) vector.Vector {
	ref := vector.New(1, 0, 0)
	if math.Abs(u.Dot(ref)) > 0.9 {
		ref = vector.New(0, 1, 0)
	}
	return ref.Sub(u.Scale(u.Dot(ref))).Normalize()
}

// Plane is centered at Center, spanned by the orthonormal basis
// (UnitX, UnitY, UnitZ = UnitX x UnitY), with half-extents HalfX and
// HalfY. TwoSided reports whether particles may live on both faces.
type Plane struct {
	Center       vector.Vector
	UnitX, UnitY vector.Vector
	HalfX, HalfY float64
	TwoSided     bool
}

func NewPlane(center, unitX, unitY vector.Vector, halfX, halfY float64, twoSided bool) Plane {
	if halfX < 0 || halfY < 0 {
		panic("shape: plane half-extents must be non-negative")
	}
	return Plane{Center: center, UnitX: unitX, UnitY: unitY, HalfX: halfX, HalfY: halfY, TwoSided: twoSided}
}

// unitZ returns the plane's normal, UnitX x UnitY.
func (pl Plane) unitZ() vector.Vector {
	return pl.UnitX.Cross(pl.UnitY)
}

func (pl Plane) toInternal(p vector.Vector) (x, y, z float64) {
	rel := p.Sub(pl.Center)
	return rel.Dot(pl.UnitX), rel.Dot(pl.UnitY), rel.Dot(pl.unitZ())
}

func (pl Plane) Distance(p vector.Vector) float64 {
	x, y, z := pl.toInternal(p)
	dx := math.Abs(x) - pl.HalfX
	dy := math.Abs(y) - pl.HalfY
	switch {
	case dx <= 0 && dy <= 0:
		return math.Abs(z)
	case dx > 0 && dy > 0:
		return math.Sqrt(dx*dx + dy*dy + z*z)
	case dx > 0:
		return math.Sqrt(dx*dx + z*z)
	default:
		return math.Sqrt(dy*dy + z*z)
	}
}

func (pl Plane) ProjectedPoint(p vector.Vector) (vector.Vector, float64) {
	x, y, z := pl.toInternal(p)
	onPlane := pl.Center.Add(pl.UnitX.Scale(x)).Add(pl.UnitY.Scale(y))
	return onPlane, z
}

func (pl Plane) ProjectedPointOnSurface(p vector.Vector) (vector.Vector, float64) {
	x, y, z := pl.toInternal(p)
	x = math.Max(-pl.HalfX, math.Min(x, pl.HalfX))
	y = math.Max(-pl.HalfY, math.Min(y, pl.HalfY))
	onPatch := pl.Center.Add(pl.UnitX.Scale(x)).Add(pl.UnitY.Scale(y))
	return onPatch, math.Copysign(pl.Distance(p), z)
}

func (pl Plane) RandomPosition(src rng.Source) vector.Vector {
	u := rng.Uniform(src, -1, 1)
	v := rng.Uniform(src, -1, 1)
	return pl.Center.Add(pl.UnitX.Scale(pl.HalfX * u)).Add(pl.UnitY.Scale(pl.HalfY * v))
}

// Disk is centered at Center with radius Radius, oriented with normal
// UnitZ.
type Disk struct {
	Center vector.Vector
	Radius float64
	UnitZ  vector.Vector
}

func NewDisk(center vector.Vector, radius float64, unitZ vector.Vector) Disk {
	if radius < 0 {
		panic("shape: disk radius must be non-negative")
	}
	return Disk{Center: center, Radius: radius, UnitZ: unitZ}
}

func (d Disk) toInternal(p vector.Vector) (r, z float64) {
	rel := p.Sub(d.Center)
	z = rel.Dot(d.UnitZ)
	radial := rel.Sub(d.UnitZ.Scale(z))
	return radial.Norm(), z
}

// Distance to a disk: the disk is a zero-thickness cylinder cap. Outside
// the rim (r>Radius) distance combines the radial excess with the
// perpendicular offset; inside the rim it is the perpendicular offset.
func (d Disk) Distance(p vector.Vector) float64 {
	r, z := d.toInternal(p)
	dr := r - d.Radius
	if dr > 0 {
		return math.Sqrt(dr*dr + z*z)
	}
	return math.Abs(z)
}

func (d Disk) ProjectedPoint(p vector.Vector) (vector.Vector, float64) {
	r, z := d.toInternal(p)
	return d.Center.Add(d.UnitZ.Scale(z)), r
}

func (d Disk) ProjectedPointOnSurface(p vector.Vector) (vector.Vector, float64) {
	r, z := d.toInternal(p)
	onAxis := d.Center.Add(d.UnitZ.Scale(z))
	if r == 0 {
		return d.Center, z
	}
	dirToP := p.Sub(onAxis)
	onDisk := d.Center.Add(dirToP.Scale(math.Min(r, d.Radius) / r))
	return onDisk, math.Copysign(d.Distance(p), z)
}

func (d Disk) RandomPosition(src rng.Source) vector.Vector {
	// Uniform over the disk's 2-D interior: sample radius with density
	// proportional to r (area element r dr dtheta), then a uniform angle.
	rr := d.Radius * math.Sqrt(src.Float64())
	theta := rng.Uniform(src, 0, 2*math.Pi)
	ux := arbitraryOrthogonal(d.UnitZ)
	uy := d.UnitZ.Cross(ux)
	return d.Center.Add(ux.Scale(rr * math.Cos(theta))).Add(uy.Scale(rr * math.Sin(theta)))
}

// Box is a rectangular cuboid centered at Center, spanned by an
// orthonormal frame (UnitX, UnitY, UnitZ) with half-extents
// (HalfX, HalfY, HalfZ).
type Box struct {
	Center              vector.Vector
	UnitX, UnitY, UnitZ vector.Vector
	HalfX, HalfY, HalfZ float64
}

func NewBox(center, unitX, unitY, unitZ vector.Vector, halfX, halfY, halfZ float64) Box {
	if halfX < 0 || halfY < 0 || halfZ < 0 {
		panic("shape: box half-extents must be non-negative")
	}
	return Box{Center: center, UnitX: unitX, UnitY: unitY, UnitZ: unitZ, HalfX: halfX, HalfY: halfY, HalfZ: halfZ}
}

func (b Box) toInternal(p vector.Vector) (x, y, z float64) {
	rel := p.Sub(b.Center)
	return rel.Dot(b.UnitX), rel.Dot(b.UnitY), rel.Dot(b.UnitZ)
}

func (b Box) Distance(p vector.Vector) float64 {
	x, y, z := b.toInternal(p)
	dx := math.Abs(x) - b.HalfX
	dy := math.Abs(y) - b.HalfY
	dz := math.Abs(z) - b.HalfZ

	// Outside-component contributions (clamped at 0) combine under
	// Pythagoras; if all three are non-positive p is inside, and the
	// distance is the least-negative (closest) face, mirroring the
	// cylinder's interior convention.
	ox, oy, oz := math.Max(dx, 0), math.Max(dy, 0), math.Max(dz, 0)
	if ox == 0 && oy == 0 && oz == 0 {
		return math.Max(dx, math.Max(dy, dz))
	}
	return math.Sqrt(ox*ox + oy*oy + oz*oz)
}

func (b Box) ProjectedPoint(p vector.Vector) (vector.Vector, float64) {
	// A box has no privileged central axis or plane; project onto the
	// closest face plane's outward normal coordinate.
	return b.ProjectedPointOnSurface(p)
}

func (b Box) ProjectedPointOnSurface(p vector.Vector) (vector.Vector, float64) {
	x, y, z := b.toInternal(p)
	d := b.Distance(p)

	// Clamp into the box, then push to the nearest face.
	cx := math.Max(-b.HalfX, math.Min(b.HalfX, x))
	cy := math.Max(-b.HalfY, math.Min(b.HalfY, y))
	cz := math.Max(-b.HalfZ, math.Min(b.HalfZ, z))
	if x == cx && y == cy && z == cz {
		// p is inside: snap to the closest face along its normal.
		dx, dy, dz := b.HalfX-math.Abs(x), b.HalfY-math.Abs(y), b.HalfZ-math.Abs(z)
		switch {
		case dx <= dy && dx <= dz:
			cx = math.Copysign(b.HalfX, x)
		case dy <= dx && dy <= dz:
			cy = math.Copysign(b.HalfY, y)
		default:
			cz = math.Copysign(b.HalfZ, z)
		}
	}
	onSurface := b.Center.Add(b.UnitX.Scale(cx)).Add(b.UnitY.Scale(cy)).Add(b.UnitZ.Scale(cz))
	return onSurface, d
}

func (b Box) RandomPosition(src rng.Source) vector.Vector {
	x := rng.Uniform(src, -b.HalfX, b.HalfX)
	y := rng.Uniform(src, -b.HalfY, b.HalfY)
	z := rng.Uniform(src, -b.HalfZ, b.HalfZ)
	return b.Center.Add(b.UnitX.Scale(x)).Add(b.UnitY.Scale(y)).Add(b.UnitZ.Scale(z))
}

var (
	_ Shape = Sphere{}
	_ Shape = Cylinder{}
	_ Shape = Plane{}
	_ Shape = Disk{}
	_ Shape = Box{}
)
