// Package structure implements the named geometric substrates particles
// live on (the bulk cuboidal region plus planar, cylindrical, spherical,
// and disk surfaces) and the dispatch table that routes a particle's
// transition between two structures to a dedicated routine, keyed by the
// ordered pair of structure kinds. It replaces the deep virtual-dispatch
// forest spec.md §9 flags for removal with a tagged-variant switch that is
// exhaustive over all 25 ordered pairs of the five kinds.
package structure

import (
	"fmt"
	"math"

	"rdcore/rng"
	"rdcore/shape"
	"rdcore/vector"
)

// ID uniquely identifies a structure for the lifetime of the World that
// created it. It is assigned exactly once, at construction, and never
// changes afterward.
type ID uint64

// TypeID identifies a StructureType: a diagnostic label shared by every
// structure instance built from the same template (e.g. "membrane",
// "cylindrical_surface"). The core attaches no reaction-rule semantics to
// it; that database is out of scope.
type TypeID uint32

// Root is the designated id of the bulk region every structure forest is
// rooted at.
const Root ID = 0

// Kind tags which of the five shape families a Structure wraps.
type Kind int

const (
	Cuboidal Kind = iota
	Spherical
	Cylindrical
	Disk
	Planar
)

func (k Kind) String() string {
	switch k {
	case Cuboidal:
		return "cuboidal"
	case Spherical:
		return "spherical"
	case Cylindrical:
		return "cylindrical"
	case Disk:
		return "disk"
	case Planar:
		return "planar"
	default:
		return fmt.Sprintf("structure.Kind(%d)", int(k))
	}
}

// TypeRegistry maps TypeIDs to diagnostic names, mirroring the original
// implementation's StructureType table: World.TypeName looks names up in
// it. Structure.String does not consult it and prints the bare type id.
// No reaction-rule semantics are attached.
type TypeRegistry struct {
	names map[TypeID]string
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{names: make(map[TypeID]string)}
}

func (r *TypeRegistry) Register(id TypeID, name string) {
	r.names[id] = name
}

func (r *TypeRegistry) Name(id TypeID) string {
	if n, ok := r.names[id]; ok {
		return n
	}
	return "default"
}

// Structure is a named substrate wrapping a shape, with a parent in the
// structure forest rooted at Root (the bulk region).
type Structure struct {
	Name     string
	ID       ID
	TypeID   TypeID
	ParentID ID
	Kind     Kind
	Shape    shape.Shape
}

func New(name string, id ID, typeID TypeID, parentID ID, kind Kind, sh shape.Shape) *Structure {
	return &Structure{Name: name, ID: id, TypeID: typeID, ParentID: parentID, Kind: kind, Shape: sh}
}

func (s *Structure) String() string {
	return fmt.Sprintf("Structure(%q, id=%d, type=%d, kind=%s)", s.Name, s.ID, s.TypeID, s.Kind)
}

// RandomPosition draws a point uniform on the structure's proper measure.
func (s *Structure) RandomPosition(src rng.Source) vector.Vector {
	return s.Shape.RandomPosition(src)
}

// Distance returns the signed distance from p to the structure's shape.
func (s *Structure) Distance(p vector.Vector) float64 {
	return s.Shape.Distance(p)
}

// ProjectPoint projects p onto the structure's central axis/plane.
func (s *Structure) ProjectPoint(p vector.Vector) (vector.Vector, float64) {
	return s.Shape.ProjectedPoint(p)
}

// ProjectPointOnSurface projects p onto the structure's surface.
func (s *Structure) ProjectPointOnSurface(p vector.Vector) (vector.Vector, float64) {
	return s.Shape.ProjectedPointOnSurface(p)
}

// IsParentOf reports whether s is the parent structure of other.
func (s *Structure) IsParentOf(other *Structure) bool {
	return other.ParentID == s.ID
}

// fixedNormal returns the normal a 2-D surface structure's own tangent
// plane is anchored to: a disk's UnitZ, or a plane's UnitX x UnitY. It
// fails for structures with no single fixed tangent plane to draw
// within: the 1-D cylindrical surface (see fixedAxis), the bulk cuboidal
// region, and a spherical membrane, whose tangent plane varies with the
// anchor point rather than being fixed.
func fixedNormal(sh shape.Shape) (vector.Vector, bool) {
	switch v := sh.(type) {
	case shape.Disk:
		return v.UnitZ, true
	case shape.Plane:
		return v.UnitX.Cross(v.UnitY), true
	default:
		return vector.Vector{}, false
	}
}

// fixedAxis returns the single direction a 1-D cylindrical surface's
// particles are free to move along: its UnitZ. Unlike a disk or plane,
// a cylinder has no 2-D tangent plane; its proper measure is along the
// axis only (shape.Cylinder.RandomPosition samples the same way).
func fixedAxis(sh shape.Shape) (vector.Vector, bool) {
	if c, ok := sh.(shape.Cylinder); ok {
		return c.UnitZ, true
	}
	return vector.Vector{}, false
}

func arbitraryOrthogonal(u vector.Vector) vector.Vector {
	ref := vector.New(1, 0, 0)
	if math.Abs(u.Dot(ref)) > 0.9 {
		ref = vector.New(0, 1, 0)
	}
	return ref.Sub(u.Scale(u.Dot(ref))).Normalize()
}

// isotropicUnit3D draws a unit vector uniform on the sphere, by rejection
// sampling in the enclosing cube, matching the no-tangent-plane fallback
// RandomVector and BDDisplacement use for the bulk region and for a
// spherical membrane's anchor-free draws.
func isotropicUnit3D(src rng.Source) vector.Vector {
	for {
		x := rng.Uniform(src, -1, 1)
		y := rng.Uniform(src, -1, 1)
		z := rng.Uniform(src, -1, 1)
		v := vector.New(x, y, z)
		n := v.Norm()
		if n > 1e-12 && n <= 1 {
			return v.Scale(1 / n)
		}
	}
}

// gaussian draws a single standard-normal deviate from src via the
// Box-Muller transform, since rng.Source exposes only Float64.
func gaussian(src rng.Source) float64 {
	u1 := src.Float64()
	for u1 <= 1e-300 {
		u1 = src.Float64()
	}
	u2 := src.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// RandomVector draws a vector of length r, directed uniformly within the
// structure's own degrees of freedom: along the axis, ±r, for a 1-D
// cylindrical surface; within the fixed tangent plane for a disk-shaped
// or planar surface; and isotropically in 3-D for the bulk cuboidal
// region or a spherical membrane (which has no single fixed tangent
// plane for an anchor-free draw to live in).
func (s *Structure) RandomVector(r float64, src rng.Source) vector.Vector {
	if axis, ok := fixedAxis(s.Shape); ok {
		sign := 1.0
		if src.Float64() < 0.5 {
			sign = -1.0
		}
		return axis.Scale(sign * r)
	}
	if normal, ok := fixedNormal(s.Shape); ok {
		ux := arbitraryOrthogonal(normal)
		uy := normal.Cross(ux)
		theta := rng.Uniform(src, 0, 2*math.Pi)
		return ux.Scale(r * math.Cos(theta)).Add(uy.Scale(r * math.Sin(theta)))
	}
	return isotropicUnit3D(src).Scale(r)
}

// BDDisplacement draws a single Brownian-dynamics step: a 1-D Gaussian
// displacement of standard deviation r along the axis, with drift mean,
// for a cylindrical surface (diffusion confined to the rod, never off
// it); a Gaussian step in each of the two tangent directions, with drift
// mean along the fixed normal, for a disk-shaped or planar surface; or,
// lacking a fixed normal, an isotropic 3-D Gaussian step with mean
// applied along an arbitrary fixed axis for the bulk region or a
// spherical membrane, where no preferred direction exists.
func (s *Structure) BDDisplacement(mean, r float64, src rng.Source) vector.Vector {
	if axis, ok := fixedAxis(s.Shape); ok {
		return axis.Scale(mean + gaussian(src)*r)
	}
	if normal, ok := fixedNormal(s.Shape); ok {
		ux := arbitraryOrthogonal(normal)
		uy := normal.Cross(ux)
		return ux.Scale(gaussian(src) * r).
			Add(uy.Scale(gaussian(src) * r)).
			Add(normal.Scale(mean))
	}
	dx := vector.New(gaussian(src)*r, gaussian(src)*r, gaussian(src)*r)
	return dx.Add(vector.New(mean, 0, 0))
}

// PeriodicContainer is the minimal subset of container.Space's interface
// ApplyBoundary/CyclicTranspose need to defer periodic wrapping to; it
// exists so this package need not import container (which in turn has no
// reason to know about structures).
type PeriodicContainer interface {
	ApplyBoundaryPos(p vector.Vector) vector.Vector
	CyclicTransposePos(a, b vector.Vector) vector.Vector
}

// anchorOf returns a shape's own center, the reference point a structure's
// CyclicTranspose measures the minimum image against.
func anchorOf(sh shape.Shape) vector.Vector {
	switch v := sh.(type) {
	case shape.Sphere:
		return v.Center
	case shape.Cylinder:
		return v.Center
	case shape.Plane:
		return v.Center
	case shape.Disk:
		return v.Center
	case shape.Box:
		return v.Center
	default:
		return vector.Vector{}
	}
}

// ApplyBoundary applies the container's periodic wrap to pos if, and only
// if, s is the periodic bulk region: bounded surface structures (sphere,
// cylinder, disk, plane patches) are finite substrates embedded in the
// periodic bulk, not periodic in their own right, so a position already
// known to lie on one is left untouched.
func (s *Structure) ApplyBoundary(pos vector.Vector, c PeriodicContainer) vector.Vector {
	if s.Kind != Cuboidal {
		return pos
	}
	return c.ApplyBoundaryPos(pos)
}

// CyclicTranspose returns the image of pos closest to s's own shape under
// the container's minimum-image convention, for the periodic bulk region;
// bounded surface structures pass pos through unchanged for the same
// reason ApplyBoundary does.
func (s *Structure) CyclicTranspose(pos vector.Vector, c PeriodicContainer) vector.Vector {
	if s.Kind != Cuboidal {
		return pos
	}
	return c.CyclicTransposePos(pos, anchorOf(s.Shape))
}

// Deflect reports whether moving pos by displacement would cross the
// structure's boundary, matching the "edge crossing" behavior the
// original implementation reserves for planar surfaces: displacement
// that would leave the structure's proper extent is truncated to land
// exactly on the boundary and the crossed flag is set so the caller can
// trigger a transition.
func (s *Structure) Deflect(pos, displacement vector.Vector) (vector.Vector, bool) {
	newPos := pos.Add(displacement)
	if s.Shape.Distance(newPos) <= 0 {
		return newPos, false
	}
	onSurface, _ := s.Shape.ProjectedPointOnSurface(newPos)
	return onSurface, true
}
