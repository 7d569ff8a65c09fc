// Command rdcore-demo builds a rdcore.World from a gcfg scenario file,
// seeds it with a handful of particles per declared species, and drives a
// few toy single-particle first-passage events through greens.AbsSinkAbs
// to exercise the public API end to end. It does not implement a
// scheduler (out of scope per spec.md §1): event selection here is a
// fixed, minimal drive loop, not a reaction-rule-driven simulation.
//
// Grounded on render/main/main.go's flag-parse-then-run shape and
// design/config.go's gcfg.ReadFileInto idiom.
package main

import (
	"flag"
	"log"
	"math/rand"
	"sort"

	"rdcore"
	"rdcore/greens"
	"rdcore/shape"
	"rdcore/vector"
)

func main() {
	scenarioFile := flag.String("scenario", "", "path to a gcfg scenario file (see config.go)")
	steps := flag.Int("steps", 5, "number of toy first-passage events to sample")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	if *scenarioFile == "" {
		log.Fatal("rdcore-demo: -scenario is required")
	}

	cfg, err := ReadScenarioConfig(*scenarioFile)
	if err != nil {
		log.Fatal(err.Error())
	}

	src := rand.New(rand.NewSource(*seed))
	w := rdcore.NewWorld(cfg.World.Size, cfg.World.MatrixSize,
		shape.NewBox(vector.New(cfg.World.Size/2, cfg.World.Size/2, cfg.World.Size/2),
			vector.New(1, 0, 0), vector.New(0, 1, 0), vector.New(0, 0, 1),
			cfg.World.Size/2, cfg.World.Size/2, cfg.World.Size/2))

	names := make([]string, 0, len(cfg.Species))
	for name := range cfg.Species {
		names = append(names, name)
	}
	sort.Strings(names)

	tx := w.CreateTransaction()
	var seeded []rdcore.ParticleID
	for sid, name := range names {
		sp := cfg.Species[name]
		for i := 0; i < 2; i++ {
			pos := vector.New(src.Float64()*cfg.World.Size, src.Float64()*cfg.World.Size, src.Float64()*cfg.World.Size)
			id, _ := tx.NewParticle(rdcore.SpeciesID(sid), pos, sp.Radius, sp.D)
			seeded = append(seeded, id)
			log.Printf("seeded particle id=%d species=%q pos=%v", id, name, pos)
		}
	}

	for step := 0; step < *steps; step++ {
		if len(seeded) == 0 {
			break
		}
		id := seeded[step%len(seeded)]
		p, err := w.GetParticle(id)
		if err != nil {
			log.Printf("step %d: particle %d gone, skipping", step, id)
			continue
		}

		neighbors := w.CheckOverlap(p.Sphere, id)
		domainRadius := 2.0
		if len(neighbors) > 0 && neighbors[0].Distance < domainRadius {
			domainRadius = neighbors[0].Distance / 2
			if domainRadius <= 0 {
				domainRadius = p.Sphere.Radius
			}
		}

		g, err := greens.New(p.D, 0, 0, -domainRadius, domainRadius, 0)
		if err != nil {
			log.Printf("step %d: could not build Green's function: %v", step, err)
			continue
		}

		t, err := g.DrawTime(src.Float64())
		if err != nil {
			log.Printf("step %d: DrawTime failed: %v", step, err)
			continue
		}
		kind, err := g.DrawEventType(src.Float64(), t)
		if err != nil {
			log.Printf("step %d: DrawEventType failed: %v", step, err)
			continue
		}
		r, err := g.DrawR(src.Float64(), t)
		if err != nil {
			log.Printf("step %d: DrawR failed: %v", step, err)
			continue
		}

		log.Printf("step %d: particle %d event=%s t=%g r=%g (%s)", step, id, kind, t, r, g.Dump())
	}
}
