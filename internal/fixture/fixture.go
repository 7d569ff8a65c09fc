// Package fixture loads columnar particle/scenario tables for tests; its
// only user is its own test, which loads a table into a container.Space.
// It is grounded on
// render/halo/io.go's ReadRockstar, which reads a whitespace-delimited
// column table with github.com/phil-mansfield/table into parallel float
// slices; this package keeps that pattern but for particle fixtures
// instead of halo catalogs, since file I/O proper is out of core scope
// (spec.md §1) and belongs to test tooling instead.
package fixture

import (
	"fmt"

	"github.com/phil-mansfield/table"
)

// Particle is one row of a particle fixture table: a species id, a
// center, a reaction radius, and a diffusion constant.
type Particle struct {
	SpeciesID      int
	X, Y, Z        float64
	Radius, D      float64
}

// LoadParticles reads a whitespace-delimited particle fixture with columns
// (species_id, x, y, z, radius, D), one particle per row, the same
// table.ReadTable(file, colIdxs, nil) call render/halo/io.go's
// ReadRockstar drives, with the species-id column cast from float64 to int
// afterward rather than requested as a separate integer column (the
// library returns every requested column as []float64).
func LoadParticles(path string) ([]Particle, error) {
	colIdxs := []int{0, 1, 2, 3, 4, 5}
	cols, err := table.ReadTable(path, colIdxs, nil)
	if err != nil {
		return nil, fmt.Errorf("fixture: reading %s: %w", path, err)
	}
	if len(cols) != len(colIdxs) {
		return nil, fmt.Errorf("fixture: %s: expected %d columns, got %d", path, len(colIdxs), len(cols))
	}
	n := len(cols[0])
	out := make([]Particle, n)
	for i := 0; i < n; i++ {
		out[i] = Particle{
			SpeciesID: int(cols[0][i]),
			X:         cols[1][i],
			Y:         cols[2][i],
			Z:         cols[3][i],
			Radius:    cols[4][i],
			D:         cols[5][i],
		}
	}
	return out, nil
}
