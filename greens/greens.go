// Package greens implements the one-dimensional Green's function for
// diffusion between two absorbing boundaries with a point sink between
// them (AbsSinkAbs), the core first-passage-time machinery the
// event-driven scheduler draws its "what happens next" samples from. It
// is grounded on GreensFunction1DAbsSinkAbs.cpp: the eigenvalue
// enumeration, survival probability, flux decomposition, and the three
// draw routines (time, event type, position) all follow its formulas
// term for term.
package greens

import (
	"fmt"
	"log"
	"math"
)

const (
	epsilon  = 1e-12
	maxTerms = 500
)

// EventKind is the outcome drawEventType chooses between: the particle
// escapes through one of the two absorbing boundaries, or it reacts with
// the sink.
type EventKind int

const (
	Escape EventKind = iota
	Reaction
)

func (k EventKind) String() string {
	if k == Reaction {
		return "reaction"
	}
	return "escape"
}

// AbsSinkAbs is the Green's function for a particle diffusing with
// diffusion constant D between absorbing boundaries at sigma and a,
// starting at r0, with a point sink of rate k at rsink. The domain is
// split at rsink into a left sub-domain of length Ll = rsink-sigma and a
// right sub-domain of length Lr = a-rsink; L0 is r0's offset from rsink
// within whichever sub-domain it falls in.
type AbsSinkAbs struct {
	D, k              float64
	sigma, a          float64
	r0, rsink         float64
	Lr, Ll, L0, Lm, L float64

	roots []float64
	table []float64 // p_survival_table_i(root_i), parallel to roots

	lastLongRoot, lastShortRoot float64
	lastWasLong                 bool
	h, longPeriod, shortPeriod  float64
}

// New builds an AbsSinkAbs Green's function. It requires
// sigma <= min(r0, rsink) <= max(r0, rsink) <= a and D > 0.
func New(D, k, r0, sigma, a, rsink float64) (*AbsSinkAbs, error) {
	if D <= 0 {
		return nil, fmt.Errorf("greens: D must be positive, got %g", D)
	}
	if k < 0 {
		return nil, fmt.Errorf("greens: k must be non-negative, got %g", k)
	}
	lo, hi := math.Min(r0, rsink), math.Max(r0, rsink)
	if !(sigma <= lo && hi <= a) {
		return nil, fmt.Errorf("greens: require sigma <= min(r0,rsink) <= max(r0,rsink) <= a, got sigma=%g r0=%g rsink=%g a=%g", sigma, r0, rsink, a)
	}

	g := &AbsSinkAbs{
		D: D, k: k,
		sigma: sigma, a: a,
		r0: r0, rsink: rsink,
	}
	g.Lr = a - rsink
	g.Ll = rsink - sigma
	g.L = g.Lr + g.Ll
	g.Lm = g.Lr - g.Ll
	if r0 >= rsink {
		g.L0 = r0 - rsink
	} else {
		g.L0 = rsink - r0
	}
	g.h = k * g.L / (2 * D)
	g.longPeriod = math.Max(g.L/g.Lr*math.Pi, g.L/g.Ll*math.Pi)
	g.shortPeriod = math.Min(g.L/g.Lr*math.Pi, g.L/g.Ll*math.Pi)
	return g, nil
}

// rootF is the transcendental equation whose positive roots x = q*L give
// the eigenvalues q of the Green's function.
func rootF(x, LmOverL, h float64) float64 {
	return x*math.Sin(x) + h*(math.Cos(x*LmOverL)-math.Cos(x))
}

// getLowerUpper returns a bracket straddling the next unfound root,
// alternating between the long-period and short-period progressions the
// two sub-domains impose, with a parity-checked correction pass mirroring
// the original's up-to-10-retry overshoot fixup.
func (g *AbsSinkAbs) getLowerUpper() (lo, hi float64) {
	rootN := math.Max(g.lastLongRoot, g.lastShortRoot)
	const safety = 0.75

	lastRoot := rootN
	if lastRoot == 0 {
		lastRoot = math.Pi
	}

	var nextEst, leftOffset, rightOffset float64
	if g.h/lastRoot < 1 {
		rightOffset = math.Pi
		nextEst = rootN + math.Pi
	} else {
		nextLong := g.lastLongRoot + g.longPeriod
		nextShort := g.lastShortRoot + g.shortPeriod
		if nextLong < nextShort {
			nextEst = nextLong
			rightOffset = math.Min(nextShort-nextEst, g.longPeriod)
			g.lastWasLong = true
		} else {
			nextEst = nextShort
			rightOffset = math.Min(nextLong-nextEst, g.shortPeriod)
			g.lastWasLong = false
		}
	}

	leftOffset = nextEst - rootN - 1000*epsilon
	lo = nextEst - leftOffset
	hi = nextEst + safety*rightOffset

	LmOverL := g.Lm / g.L
	fLo := rootF(lo, LmOverL, g.h)
	fHi := rootF(hi, LmOverL, g.h)

	parity := 2*(len(g.roots)%2) - 1

	if fHi*float64(parity) < 0 {
		delta := 0.1 * math.Min(leftOffset, rightOffset)
		for cntr := 0; fHi*float64(parity) < 0 && cntr < 10; cntr++ {
			hi -= delta
			fHi = rootF(hi, LmOverL, g.h)
		}
		if fHi*float64(parity) < 0 {
			log.Printf("greens: root %d: bracket [%g, %g] does not straddle a root after shrinking", len(g.roots), lo, hi)
		}
	}
	_ = fLo
	return lo, hi
}

// calculateNRoots extends g.roots so it holds at least n+1 entries.
func (g *AbsSinkAbs) calculateNRoots(n int) {
	LmOverL := g.Lm / g.L
	for len(g.roots) <= n {
		lo, hi := g.getLowerUpper()
		f := func(x float64) float64 { return rootF(x, LmOverL, g.h) }
		root := findRoot(f, lo, hi, epsilon, epsilon)
		g.roots = append(g.roots, root/g.L)
		if g.lastWasLong {
			g.lastLongRoot = root
		} else {
			g.lastShortRoot = root
		}
	}
}

func (g *AbsSinkAbs) root(i int) float64 {
	g.calculateNRoots(i)
	return g.roots[i]
}

// guessMaxi estimates how many eigenmodes the sum needs to converge to
// double precision at time t.
func (g *AbsSinkAbs) guessMaxi(t float64) int {
	const safety = 2
	if math.IsInf(t, 1) {
		return safety
	}
	root0 := g.root(0)
	Dt := g.D * t
	thr := math.Exp(-Dt*root0*root0) * epsilon * 1e-1
	if thr <= 0 {
		return maxTerms
	}
	maxRoot := math.Sqrt(root0*root0 - math.Log(thr)/Dt)
	maxi := safety + int(maxRoot*g.L/math.Pi)
	if maxi > maxTerms {
		return maxTerms
	}
	return maxi
}

func (g *AbsSinkAbs) pDenominatorI(root float64) float64 {
	term1 := root*g.L*math.Cos(root*g.L) + math.Sin(root*g.L)
	term2 := g.L*math.Sin(root*g.L) - g.Lm*math.Sin(root*g.Lm)
	return g.D*term1 + g.k/2*term2
}

func (g *AbsSinkAbs) pExpDenI(t, root float64) float64 {
	return math.Exp(-g.D*root*root*t) / g.pDenominatorI(root)
}

func (g *AbsSinkAbs) pSurvivalTableI(root float64) float64 {
	LrmL0 := g.Lr - g.L0
	term1 := math.Sin(root*g.L) - math.Sin(root*LrmL0) - math.Sin(root*(g.Ll+g.L0))
	term2 := math.Sin(root*g.Lr) - math.Sin(root*g.L0) - math.Sin(root*LrmL0)
	numerator := g.D*term1 + g.k*math.Sin(root*g.Ll)*term2/root
	numerator *= 2
	return numerator / g.pDenominatorI(root)
}

func (g *AbsSinkAbs) ensureTable(maxi int) {
	g.calculateNRoots(maxi)
	for i := len(g.table); i <= maxi; i++ {
		g.table = append(g.table, g.pSurvivalTableI(g.roots[i]))
	}
}

// PSurvival returns the probability that the particle has neither
// escaped nor reacted by time t.
func (g *AbsSinkAbs) PSurvival(t float64) float64 {
	if t == 0 {
		return 1
	}
	maxi := g.guessMaxi(t)
	g.ensureTable(maxi)
	var sum float64
	for i := 0; i <= maxi; i++ {
		root := g.roots[i]
		sum += math.Exp(-g.D*t*root*root) * g.table[i]
	}
	return sum
}

// ProbR returns the probability density of finding the particle at
// position r (in the sigma..a frame) at time t. It is not normalised by
// survival: its integral over [sigma, a] is PSurvival(t).
func (g *AbsSinkAbs) ProbR(r, t float64) float64 {
	if t == 0 {
		if r == g.r0 {
			return math.Inf(1)
		}
		return 0
	}
	if math.Abs(g.a-r) < epsilon*g.L || math.Abs(r-g.sigma) < epsilon*g.L {
		return 0
	}

	var rr float64
	if g.r0-g.rsink >= 0 {
		rr = r - g.rsink
	} else {
		rr = g.rsink - r
	}

	maxi := g.guessMaxi(t)
	g.calculateNRoots(maxi)

	var sum float64
	if rr >= 0 {
		for i := 0; i <= maxi; i++ {
			sum += g.probRR0I(i, rr, t)
		}
	} else {
		for i := 0; i <= maxi; i++ {
			sum += g.probRNoR0I(i, rr, t)
		}
	}
	return sum
}

func (g *AbsSinkAbs) probRR0I(i int, rr, t float64) float64 {
	root := g.root(i)
	rr2, L0 := rr, g.L0
	if rr < L0 {
		rr2, L0 = L0, rr
	}
	LlpL0 := g.Ll + L0
	Lrmrr := g.Lr - rr2
	numerator := g.D*root*math.Sin(root*LlpL0) + g.k*math.Sin(root*g.Ll)*math.Sin(root*L0)
	numerator *= math.Sin(root * Lrmrr)
	return -2 * g.pExpDenI(t, root) * numerator
}

func (g *AbsSinkAbs) probRNoR0I(i int, rr, t float64) float64 {
	root := g.root(i)
	LrmL0 := g.Lr - g.L0
	Llprr := g.Ll + rr
	numerator := g.D * root * math.Sin(root*Llprr) * math.Sin(root*LrmL0)
	return -2 * g.pExpDenI(t, root) * numerator
}

// FluxSink returns the probability flux into the sink at time t.
func (g *AbsSinkAbs) FluxSink(t float64) float64 {
	return g.k * g.ProbR(g.rsink, t)
}

// FluxTot returns the total probability flux leaving the domain (through
// either boundary or into the sink) at time t; it is -dS/dt.
func (g *AbsSinkAbs) FluxTot(t float64) float64 {
	maxi := g.guessMaxi(t)
	g.ensureTable(maxi)
	var sum float64
	for i := 0; i <= maxi; i++ {
		root := g.roots[i]
		sum += root * root * math.Exp(-g.D*t*root*root) * g.table[i]
	}
	return g.D * sum
}

func (g *AbsSinkAbs) fluxAbsLr(t float64, maxi int) float64 {
	var sum float64
	for i := 0; i <= maxi; i++ {
		root := g.root(i)
		LlpL0 := g.Ll + g.L0
		numerator := g.k*math.Sin(root*g.Ll)*math.Sin(root*g.L0) + g.D*root*math.Sin(root*LlpL0)
		numerator *= root
		sum += g.pExpDenI(t, root) * numerator
	}
	return -g.D * 2 * sum
}

func (g *AbsSinkAbs) fluxAbsLl(t float64, maxi int) float64 {
	D2 := g.D * g.D
	var sum float64
	for i := 0; i <= maxi; i++ {
		root := g.root(i)
		LrmL0 := g.Lr - g.L0
		numerator := root * root * math.Sin(root*LrmL0)
		sum += g.pExpDenI(t, root) * numerator
	}
	return 2 * D2 * sum
}

// FluxLeaves returns the flux leaving through the boundary at sigma.
func (g *AbsSinkAbs) FluxLeaves(t float64) float64 {
	if t == 0 {
		return 0
	}
	maxi := g.guessMaxi(t)
	if g.r0 >= g.rsink {
		return -g.fluxAbsLl(t, maxi)
	}
	return g.fluxAbsLr(t, maxi)
}

// FluxLeavea returns the flux leaving through the boundary at a.
func (g *AbsSinkAbs) FluxLeavea(t float64) float64 {
	if t == 0 {
		return 0
	}
	maxi := g.guessMaxi(t)
	if g.r0 < g.rsink {
		return -g.fluxAbsLl(t, maxi)
	}
	return g.fluxAbsLr(t, maxi)
}

// DrawTime draws a first-passage time (escape or reaction, whichever
// comes first) from a uniform random number rnd in [0, 1).
func (g *AbsSinkAbs) DrawTime(rnd float64) (float64, error) {
	if !(rnd >= 0 && rnd < 1) {
		return 0, fmt.Errorf("greens: DrawTime: rnd must be in [0,1), got %g", rnd)
	}
	if math.Abs(g.a-g.r0) < epsilon*g.L {
		return 0, nil
	}

	dist := math.Min(g.Lr-g.L0, g.Ll+g.L0)
	dist = math.Min(dist, g.L0)
	guess := 0.1 * dist * dist / (2 * g.D)
	if guess <= 0 {
		guess = g.L * g.L / (2 * g.D) * 0.1
	}

	f := func(t float64) float64 { return rnd - g.PSurvival(t) }

	value := f(guess)
	var lo, hi float64
	if value < 0 {
		var ok bool
		lo, hi, ok = expandBracket(f, guess, true)
		if !ok {
			return 0, fmt.Errorf("greens: DrawTime: failed to bracket root above %g", guess)
		}
	} else {
		l, h, ok := expandBracket(f, guess, false)
		if !ok {
			return 0, fmt.Errorf("greens: DrawTime: failed to bracket root below %g", guess)
		}
		lo, hi = l, h
	}

	return findRoot(f, lo, hi, epsilon, epsilon), nil
}

// DrawEventType decides whether the particle escapes or reacts with the
// sink, given that the event happens at time t.
func (g *AbsSinkAbs) DrawEventType(rnd, t float64) (EventKind, error) {
	if !(rnd >= 0 && rnd < 1) {
		return Escape, fmt.Errorf("greens: DrawEventType: rnd must be in [0,1), got %g", rnd)
	}
	if t <= 0 {
		return Escape, fmt.Errorf("greens: DrawEventType: t must be positive, got %g", t)
	}

	L := g.a - g.sigma
	if g.k == 0 || math.Abs(g.a-g.r0) < epsilon*L || math.Abs(g.sigma-g.r0) < epsilon*L {
		return Escape, nil
	}

	target := rnd * g.FluxTot(t)
	if target < g.FluxSink(t) {
		return Reaction, nil
	}
	return Escape, nil
}

// pIntRTable is the unnormalised cumulative position probability at time
// t, integrated from the boundary on r0's side of the sink toward r (from
// sigma when r0 >= rsink, from a when r0 < rsink), split into the three
// sub-ranges the original uses depending on where rr falls relative to
// the sink and the starting position.
func (g *AbsSinkAbs) pIntRTable(r, t float64) float64 {
	var rr float64
	if g.r0-g.rsink >= 0 {
		rr = r - g.rsink
	} else {
		rr = g.rsink - r
	}
	maxi := g.guessMaxi(t)
	g.calculateNRoots(maxi)

	var sum float64
	for i := 0; i <= maxi; i++ {
		root := g.roots[i]
		expDen := g.pExpDenI(t, root)
		LrmL0 := g.Lr - g.L0
		Llprr := g.Ll + rr
		switch {
		case rr <= 0:
			temp := g.D * math.Sin(root*LrmL0) * (math.Cos(root*Llprr) - 1)
			sum += expDen * temp
		case rr < g.L0:
			rootRr := root * rr
			temp := g.D*(math.Cos(root*Llprr)-1) + g.k/root*(math.Cos(rootRr)-1)*math.Sin(root*g.Ll)
			sum += expDen * math.Sin(root*LrmL0) * temp
		default:
			Lrmrr := g.Lr - rr
			LlpL0 := g.Ll + g.L0
			term1 := math.Sin(root*g.L) - math.Sin(root*LrmL0) - math.Sin(root*LlpL0)*math.Cos(root*Lrmrr)
			term2 := math.Sin(root*g.Lr) - math.Sin(root*LrmL0) - math.Sin(root*g.L0)*math.Cos(root*Lrmrr)
			temp := g.D*term1 + g.k*math.Sin(root*g.Ll)*term2/root
			sum += expDen * temp
		}
	}
	return 2 * sum
}

// DrawR draws the particle's position at time t given it has survived to
// t, from a uniform random number rnd in [0, 1].
func (g *AbsSinkAbs) DrawR(rnd, t float64) (float64, error) {
	if !(rnd >= 0 && rnd <= 1) {
		return 0, fmt.Errorf("greens: DrawR: rnd must be in [0,1], got %g", rnd)
	}
	if t < 0 {
		return 0, fmt.Errorf("greens: DrawR: t must be non-negative, got %g", t)
	}
	if t == 0 {
		return g.r0, nil
	}
	if rnd <= epsilon {
		return g.sigma, nil
	}
	if rnd >= 1-epsilon {
		return g.a, nil
	}

	S := g.PSurvival(t)
	target := rnd * S
	f := func(r float64) float64 { return g.pIntRTable(r, t) - target }
	return findRoot(f, g.sigma, g.a, epsilon*g.L, epsilon), nil
}

// Dump renders the Green's function's parameters for diagnostics.
func (g *AbsSinkAbs) Dump() string {
	return fmt.Sprintf("D=%g, sigma=%g, a=%g, r0=%g, rsink=%g, k=%g", g.D, g.sigma, g.a, g.r0, g.rsink, g.k)
}
