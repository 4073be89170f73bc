package melp

import "math"

// lpc.go implements the 10th-order LPC analysis and the LPC<->LSF
// conversion (spec §4.2 step 2, §4.6 step 5). Autocorrelation runs on the
// fixed-point samples via innerProd (spec §2/§4.1's bit-exact discipline
// applies to the analysis front end, not only the wire-format quantizer);
// Levinson-Durbin's recursive reflection-coefficient computation stays in
// float64 for numerical stability, matching the shape of the teacher's
// own floating-point analysis helper (its burgModifiedFLP also computes
// in float64 before the caller requantizes to fixed point) -- the
// division-heavy recursion is judged too numerically delicate to
// fixed-point without a hardware target to validate against (see
// DESIGN.md).

const lpcWindowLen = 200 // analysis window, slightly wider than one frame

// hammingWindow is precomputed once; the analyzer's sliding window is a
// fixed length so a single constant window suffices.
var hammingWindow = func() [lpcWindowLen]float64 {
	var w [lpcWindowLen]float64
	n := lpcWindowLen
	for i := 0; i < n; i++ {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}()

// autocorrelate computes the order+1 autocorrelation lags of a windowed
// speech segment via innerProd's 64-bit Shortword dot product (the
// windowed samples are clamped to Shortword range first, matching the
// reference's fixed-point autocorrelation front end), with a small
// white-noise correction (spec implies LPC must remain stable for any
// input, including near-silence).
func autocorrelate(x []float64, order int) []float64 {
	n := len(x)
	sw := make([]Shortword, n)
	for i, v := range x {
		sw[i] = Shortword(clampI(int(v), minShort, maxShort))
	}
	r := make([]float64, order+1)
	for lag := 0; lag <= order; lag++ {
		if lag >= n {
			continue
		}
		r[lag] = float64(innerProd(sw[:n-lag], sw[lag:]))
	}
	// White-noise correction (r[0] scaled by 1.0001) plus a small floor,
	// standard LPC stabilization so near-silent/near-periodic input never
	// yields an unstable filter; no lag window is applied.
	if r[0] <= 0 {
		r[0] = 1
	}
	r[0] *= 1.0001
	r[0] += 1e-6
	return r
}

// levinsonDurbin solves the normal equations for an `order`-th order LPC
// predictor, returning the direct-form coefficients a[1..order] (a[0]==1
// implicit) and the reflection coefficients (PARCOR), one per stage.
func levinsonDurbin(r []float64, order int) (a []float64, refl []float64) {
	a = make([]float64, order+1)
	refl = make([]float64, order)
	a[0] = 1
	e := r[0]
	for i := 1; i <= order; i++ {
		var acc float64
		for j := 1; j < i; j++ {
			acc += a[j] * r[i-j]
		}
		var k float64
		if e > 1e-9 {
			k = -(r[i] + acc) / e
		}
		k = math.Max(-0.9999, math.Min(0.9999, k))
		refl[i-1] = k
		aNew := make([]float64, order+1)
		copy(aNew, a)
		aNew[i] = k
		for j := 1; j < i; j++ {
			aNew[j] = a[j] + k*a[i-j]
		}
		a = aNew
		e *= 1 - k*k
		if e < 1e-9 {
			e = 1e-9
		}
	}
	return a, refl
}

// lpcGainFromReflection computes the overall LPC filter gain (spec §4.6
// step 5, "compute reflection coefficients and an overall LPC gain") as
// 1/sqrt of the product of (1 - k^2) over all stages (the product floored
// at 1e-6), matching the classical relationship between prediction gain
// and reflection coefficients.
func lpcGainFromReflection(refl []float64) float64 {
	g := 1.0
	for _, k := range refl {
		g *= 1 - k*k
	}
	if g < 1e-6 {
		g = 1e-6
	}
	return 1 / math.Sqrt(g)
}

// lpcToLSF converts direct-form LPC coefficients a[1..order] into order
// line spectral frequencies in Q15 radians-over-pi (spec §3), via the
// standard P(z)/Q(z) symmetric/antisymmetric polynomial root search.
func lpcToLSF(a []float64, order int) [LPCOrder]Shortword {
	p := make([]float64, order/2+1)
	q := make([]float64, order/2+1)
	// Build P(z) = A(z) + z^-(order+1)A(1/z), Q(z) = A(z) - z^-(order+1)A(1/z)
	ext := make([]float64, order+2)
	ext[0] = 1
	for i := 1; i <= order; i++ {
		ext[i] = a[i]
	}
	ext[order+1] = 1
	for i := 0; i <= order/2; i++ {
		p[i] = ext[i] + ext[order+1-i]
		q[i] = ext[i] - ext[order+1-i]
	}

	const steps = 400
	var lsf [LPCOrder]Shortword
	found := 0
	prevP, prevQ := evalChebyshev(p, 1.0), evalChebyshev(q, 1.0)
	for s := 1; s <= steps && found < order; s++ {
		x := math.Cos(math.Pi * float64(s) / float64(steps))
		curP := evalChebyshev(p, x)
		curQ := evalChebyshev(q, x)
		if (prevP > 0) != (curP > 0) {
			root := refineRoot(p, prevXOf(s, steps), x)
			lsf[found] = radToQ15(math.Acos(clampF(root, -1, 1)))
			found++
		}
		if found < order && (prevQ > 0) != (curQ > 0) {
			root := refineRoot(q, prevXOf(s, steps), x)
			lsf[found] = radToQ15(math.Acos(clampF(root, -1, 1)))
			found++
		}
		prevP, prevQ = curP, curQ
	}
	for found < order {
		base := Shortword(0)
		if found > 0 {
			base = lsf[found-1]
		}
		lsf[found] = base + bwMinQ15
		found++
	}
	sortLSF(&lsf)
	enforceLSFOrdering(&lsf)
	return lsf
}

func prevXOf(s, steps int) float64 {
	return math.Cos(math.Pi * float64(s-1) / float64(steps))
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// evalChebyshev evaluates a symmetric polynomial given in "cosine"
// (Chebyshev) coefficient form, sum(c[k] * cos(k*theta)), at cos(theta) = x.
func evalChebyshev(c []float64, x float64) float64 {
	var sum float64
	tPrev, tCur := 1.0, x // T_0(x), T_1(x)
	for k, ck := range c {
		var t float64
		switch k {
		case 0:
			t = tPrev
		case 1:
			t = tCur
		default:
			t = 2*x*tCur - tPrev
			tPrev, tCur = tCur, t
		}
		sum += ck * t
	}
	return sum
}

func refineRoot(c []float64, lo, hi float64) float64 {
	fLo := evalChebyshev(c, lo)
	for i := 0; i < 24; i++ {
		mid := (lo + hi) / 2
		fMid := evalChebyshev(c, mid)
		if (fMid > 0) == (fLo > 0) {
			lo = mid
			fLo = fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func radToQ15(theta float64) Shortword {
	v := theta / math.Pi * 32768
	return sat16(int32(v))
}

func q15ToRad(v Shortword) float64 {
	return float64(v) / 32768 * math.Pi
}

func sortLSF(lsf *[LPCOrder]Shortword) {
	for i := 1; i < LPCOrder; i++ {
		for j := i; j > 0 && lsf[j] < lsf[j-1]; j-- {
			lsf[j], lsf[j-1] = lsf[j-1], lsf[j]
		}
	}
}

// lsfToLPC is the inverse transform used by Synth (spec §4.6 step 5 and
// every sub-frame interpolation step) to re-derive the direct-form filter
// from interpolated LSFs.
func lsfToLPC(lsf [LPCOrder]Shortword, order int) []float64 {
	omega := make([]float64, order)
	for i := range omega {
		omega[i] = q15ToRad(lsf[i])
	}
	half := order / 2
	p := make([]float64, half+1)
	q := make([]float64, half+1)
	p[0], q[0] = 1, 1
	pn, qn := 0, 0
	for i := 0; i < order; i += 2 {
		cp := math.Cos(omega[i])
		pn++
		newP := make([]float64, pn+1)
		newP[0] = p[0]
		for k := 1; k <= pn; k++ {
			prev := 0.0
			if k-1 >= 0 && k-1 < len(p) {
				prev = p[k-1]
			}
			cur := 0.0
			if k < len(p) {
				cur = p[k]
			}
			newP[k] = cur - 2*cp*prev
			if k >= 2 && k-2 < len(p) {
				newP[k] += p[k-2]
			}
		}
		p = newP
		if i+1 < order {
			cq := math.Cos(omega[i+1])
			qn++
			newQ := make([]float64, qn+1)
			newQ[0] = q[0]
			for k := 1; k <= qn; k++ {
				prev := 0.0
				if k-1 >= 0 && k-1 < len(q) {
					prev = q[k-1]
				}
				cur := 0.0
				if k < len(q) {
					cur = q[k]
				}
				newQ[k] = cur - 2*cq*prev
				if k >= 2 && k-2 < len(q) {
					newQ[k] += q[k-2]
				}
			}
			q = newQ
		}
	}
	ext := make([]float64, order+2)
	for i := 0; i <= len(p)-1 && i <= order+1; i++ {
		ext[i] += p[i]
	}
	for i := 0; i <= len(q)-1 && i <= order+1; i++ {
		ext[i] -= q[i]
	}
	a := make([]float64, order+1)
	a[0] = 1
	for i := 1; i <= order; i++ {
		a[i] = ext[i] / 2
	}
	return a
}

// interpolateLSF linearly blends two LSF vectors with factor intfact in
// [0,1] (Q15-scaled caller side), used by Synth's per-pitch-period loop
// (spec §4.6 step 8) and by the 1200/600 b/s trajectory reconstructions.
// The per-coefficient blend is the reference's rounded Q15 multiply-add
// (multR into a satAdd16), not an ad hoc int64 shift.
func interpolateLSF(prev, cur [LPCOrder]Shortword, intfact int32) [LPCOrder]Shortword {
	frac := Shortword(clampI(int(intfact), 0, maxShort))
	var out [LPCOrder]Shortword
	for i := range out {
		out[i] = satAdd16(prev[i], multR(satSub16(cur[i], prev[i]), frac))
	}
	enforceLSFOrdering(&out)
	return out
}
