package reaction

import (
	"fmt"
	"math"

	"rdcore/rng"
	"rdcore/shape"
	"rdcore/structure"
	"rdcore/vector"
)

// sphereAndNormal returns a spherical structure's shape.Sphere together
// with the local tangent-plane normal at anchor (the outward radial
// direction from the sphere's center through anchor), failing for any
// structure that isn't spherical.
func sphereAndNormal(st *structure.Structure, anchor vector.Vector) (shape.Sphere, vector.Vector, error) {
	sp, ok := st.Shape.(shape.Sphere)
	if !ok {
		return shape.Sphere{}, vector.Vector{}, fmt.Errorf("reaction: structure %q (kind %s) is not spherical", st.Name, st.Kind)
	}
	rel := anchor.Sub(sp.Center)
	n := rel.Norm()
	if n == 0 {
		return sp, vector.Vector{}, fmt.Errorf("reaction: anchor coincides with sphere center; no well-defined tangent normal")
	}
	return sp, rel.Scale(1 / n), nil
}

// SphericalSurfaceReactionVolume is the spherical-surface analogue of
// SurfaceReactionVolume: the area of the annulus [rc+r0, rc+r0+rl]
// measured along the sphere's own surface around anchor, exactly the
// formula original_source/CylindricalSurface.hpp uses around the rod's
// axis. spec.md §9 flags SphericalSurface sampling as a stub in the
// original implementation; this resolves it consistently with the
// cylindrical and planar surfaces rather than returning zero.
func SphericalSurfaceReactionVolume(st *structure.Structure, anchor vector.Vector, r0, rl float64) (float64, error) {
	sp, _, err := sphereAndNormal(st, anchor)
	if err != nil {
		return 0, err
	}
	return annulusArea(sp.Radius+r0, rl), nil
}

// SphericalSurfaceDissociationVector is the spherical-surface analogue of
// SurfaceDissociationVector: an area-weighted radial draw over
// [rc+r0, rc+r0+rl], in a direction uniform within the tangent plane at
// anchor (the plane perpendicular to the sphere's local radial normal,
// in place of the cylinder's fixed UnitZ).
func SphericalSurfaceDissociationVector(st *structure.Structure, anchor vector.Vector, r0, rl float64, src rng.Source) (vector.Vector, error) {
	sp, normal, err := sphereAndNormal(st, anchor)
	if err != nil {
		return vector.Vector{}, err
	}
	length := sampleAnnulusRadius(sp.Radius+r0, rl, src)
	return randomUnitInPlane(normal, src).Scale(length), nil
}

// SphericalGeminateDissociationPositions is the spherical-surface
// analogue of GeminateDissociationPositions, using the local tangent
// plane at anchor in place of the cylinder's fixed axis.
func SphericalGeminateDissociationPositions(st *structure.Structure, anchor, op vector.Vector, r0, r1, rl, d0, d1 float64, src rng.Source) (vector.Vector, vector.Vector, error) {
	_, normal, err := sphereAndNormal(st, anchor)
	if err != nil {
		return vector.Vector{}, vector.Vector{}, err
	}
	d01 := d0 + d1
	if d01 <= 0 {
		return vector.Vector{}, vector.Vector{}, fmt.Errorf("reaction: SphericalGeminateDissociationPositions: D0+D1 must be positive, got %g", d01)
	}
	length := rng.Uniform(src, 0, 1)*rl + (r0 + r1)
	m := randomUnitInPlane(normal, src).Scale(length)
	return op.Sub(m.Scale(d0 / d01)), op.Add(m.Scale(d1 / d01)), nil
}

// SphericalSpecialDissociationPositions is the spherical-surface analogue
// of SpecialDissociationPositions: bulk-to-surface dissociation off a
// spherical membrane, using the local radial normal at opSurf in place of
// the cylinder's fixed UnitZ.
func SphericalSpecialDissociationPositions(st *structure.Structure, opSurf vector.Vector, rBulk, rSurf, rl, dBulk, dSurf float64, src rng.Source) (bulkPos, surfPos vector.Vector, err error) {
	sp, normal, err := sphereAndNormal(st, opSurf)
	if err != nil {
		return vector.Vector{}, vector.Vector{}, err
	}
	r01 := rBulk + rSurf
	d01 := dBulk + dSurf
	if d01 <= 0 {
		return vector.Vector{}, vector.Vector{}, fmt.Errorf("reaction: SphericalSpecialDissociationPositions: D0+D1 must be positive, got %g", d01)
	}
	sinThetaMin := (sp.Radius + rBulk) / r01
	if sinThetaMin < -1 || sinThetaMin > 1 {
		return vector.Vector{}, vector.Vector{}, fmt.Errorf("reaction: SphericalSpecialDissociationPositions: (rc+rBulk)/r01 = %g out of [-1,1]", sinThetaMin)
	}
	thetaMin := math.Asin(sinThetaMin)
	theta := thetaMin + rng.Uniform(src, 0, 1)*(math.Pi-2*thetaMin)
	phi := rng.Uniform(src, 0, 2*math.Pi)

	r01l := r01 + rl
	x := src.Float64()
	length := math.Cbrt(x*(r01l*r01l*r01l-r01*r01*r01) + r01*r01*r01)

	ux := arbitraryOrthogonal(normal)
	uy := normal.Cross(ux)

	lx := length * math.Sin(theta) * math.Cos(phi)
	ly := length * math.Sin(theta) * math.Sin(phi)
	lz := length * math.Cos(theta)

	dBulkShare, dSurfShare := dBulk/d01, dSurf/d01
	surfPos = opSurf.Sub(normal.Scale(lz * dSurfShare))
	bulkPos = opSurf.Add(ux.Scale(lx)).Add(uy.Scale(ly)).Add(normal.Scale(lz * dBulkShare))
	return bulkPos, surfPos, nil
}
