package greens

import "math"

// findRoot brackets a sign change in f across [lo, hi] (the caller
// guarantees one exists) and refines it with Brent's method: a
// combination of bisection, the secant method, and inverse quadratic
// interpolation that only ever falls back to bisection when the faster
// methods would step outside the bracket or fail to improve on it. This
// mirrors the GSL brent solver the original implementation drives its
// rootfinding with; no equivalent ships in the retrieval pack, so it is
// hand-rolled here.
func findRoot(f func(float64) float64, lo, hi, xtol, rtol float64) float64 {
	a, b := lo, hi
	fa, fb := f(a), f(b)
	if fa == 0 {
		return a
	}
	if fb == 0 {
		return b
	}
	if fa*fb > 0 {
		// Caller's bracket was wrong; bisection degrades gracefully to
		// whichever endpoint is closer to a root.
		if math.Abs(fa) < math.Abs(fb) {
			return a
		}
		return b
	}

	c, fc := a, fa
	d := b - a
	e := d

	for iter := 0; iter < 200; iter++ {
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := 2*rtol*math.Abs(b) + xtol/2
		m := (c - b) / 2
		if math.Abs(m) <= tol || fb == 0 {
			return b
		}

		var step float64
		if math.Abs(e) < tol || math.Abs(fa) <= math.Abs(fb) {
			// Bisection.
			step = m
			d, e = step, step
		} else {
			var p, q float64
			s := fb / fa
			if a == c {
				// Secant.
				p = m * s
				q = 1 - s
			} else {
				// Inverse quadratic interpolation.
				r := fb / fc
				q = fa / fc
				p = s * (m*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			} else {
				p = -p
			}
			if 2*p < math.Min(3*m*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d, e = m, m
			}
		}

		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else if m > 0 {
			b += tol
		} else {
			b -= tol
		}
		fb = f(b)

		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d, e = b-a, d
		}
	}
	return b
}

// expandBracket grows [lo, hi] outward from guess until f changes sign
// across it, matching the tenfold growing/shrinking search drawTime performs
// around its initial guess. grow == true grows hi outward from guess
// until f(hi) crosses zero upward; grow == false shrinks lo inward
// toward zero until f(lo) crosses zero downward, mirroring the original
// implementation's low *= 0.1 search (GreensFunction1DAbsSinkAbs.cpp).
func expandBracket(f func(float64) float64, guess float64, grow bool) (lo, hi float64, ok bool) {
	if grow {
		lo = guess
		hi = guess
		for i := 0; i < 64; i++ {
			hi *= 10
			if f(hi) > 0 {
				return lo, hi, true
			}
			if hi > guess*1e8 {
				return lo, hi, false
			}
		}
		return lo, hi, false
	}

	lo = guess
	hi = guess
	for i := 0; i < 64; i++ {
		lo *= 0.1
		if f(lo) < 0 {
			return lo, hi, true
		}
		if lo < guess*1e-8 {
			return lo, hi, false
		}
	}
	return lo, hi, false
}
