package rdcore

import (
	"rdcore/container"
	"rdcore/structure"
)

// ParticleID, SpeciesID, and StructureID are re-exported at the module
// root so callers of World and Transaction never need to import the
// container/structure packages directly for the id types those methods
// hand back.
type ParticleID = container.ParticleID
type SpeciesID = container.SpeciesID
type StructureID = structure.ID
type StructureTypeID = structure.TypeID

// Particle and Structure are re-exported the same way.
type Particle = container.Particle
type ParticleDistance = container.ParticleDistance
type Structure = structure.Structure

// StructureRoot is the designated id of the bulk region every structure
// forest is rooted at.
const StructureRoot = structure.Root
