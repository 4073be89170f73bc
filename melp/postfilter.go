package melp

// postfilter.go implements adaptive spectral enhancement and the
// long/short-term post-filter cascade (spec §4.6 "Post-filter"): a
// short-term pole-zero filter derived from the frame's own LPC spectrum,
// tilt correction, and output-side HP/LP Butterworth shaping, using the
// same first-order IIR building blocks as voicing.go's highPass/lowPass
// (grounded there in the teacher's spectral-tilt estimator).

// PostFilter carries the pole-zero filter memory and the running tilt
// compensation coefficient across frames.
type PostFilter struct {
	bypass       bool
	shortTermMem []float64 // LPCOrder-length pole-zero filter memory
	tiltMem      float64
	hpInMem      float64
	hpMem        float64
	lpMem        float64
}

// NewPostFilter returns a PostFilter with zeroed state.
func NewPostFilter() *PostFilter {
	return &PostFilter{shortTermMem: make([]float64, LPCOrder)}
}

// bypassPostFilter returns a PostFilter whose Apply is the identity, used
// when a decoder session is configured with the post-filter disabled
// (spec §4.9 "configured with ... a post-filter-enable flag (decode)").
func bypassPostFilter() *PostFilter {
	return &PostFilter{bypass: true}
}

// Apply runs the post-filter cascade over one reconstructed frame.
// ASE sharpens formants using the frame's own LSF-derived spectrum
// (bandwidth narrowing via alph600Q15/beta600Q15 pole/zero weighting);
// tilt correction de-emphasizes the first-order spectral slope; HP/LP
// Butterworth stages remove low-frequency rumble (60Hz high-pass) and roll
// off near Nyquist (3400Hz low-pass). The 600 b/s constants alph600Q15,
// beta600Q15 and mu600Q15 are used at every rate; there are no separate
// 2400 or 1200 b/s post-filter constants.
func (p *PostFilter) Apply(x []float64, f FrameModel) []float64 {
	if p.bypass {
		return x
	}
	a := lsfToLPC(f.LSF, LPCOrder)
	y := p.shortTermPostFilter(x, a)
	y = p.tiltCorrect(y, a)
	y = p.hpLp(y)
	return y
}

// shortTermPostFilter narrows formant bandwidths with the pole-zero filter
// A(z/alpha)/A(z/beta) (alph600Q15 ~ 0.35 for zeros, beta600Q15 ~ 0.80 for
// poles): the poles sit closer to the unit circle than the zeros, so the
// formant peaks are sharpened.
func (p *PostFilter) shortTermPostFilter(x []float64, a []float64) []float64 {
	const alpha = float64(alph600Q15) / 32768
	const beta = float64(beta600Q15) / 32768
	order := len(a) - 1
	poleCoef := make([]float64, order+1)
	zeroCoef := make([]float64, order+1)
	poleCoef[0], zeroCoef[0] = 1, 1
	scaleP, scaleZ := beta, alpha
	for k := 1; k <= order; k++ {
		poleCoef[k] = a[k] * scaleP
		zeroCoef[k] = a[k] * scaleZ
		scaleP *= beta
		scaleZ *= alpha
	}

	y := make([]float64, len(x))
	mem := p.shortTermMem
	for i, v := range x {
		zeroSum := 0.0
		for k := 1; k <= order; k++ {
			idx := i - k
			var xv float64
			if idx >= 0 {
				xv = x[idx]
			} else {
				xv = mem[order+idx]
			}
			zeroSum += zeroCoef[k] * xv
		}
		filtIn := v + zeroSum
		poleSum := 0.0
		for k := 1; k <= order; k++ {
			idx := i - k
			var yv float64
			if idx >= 0 {
				yv = y[idx]
			} else {
				yv = mem[order+idx]
			}
			poleSum += poleCoef[k] * yv
		}
		y[i] = filtIn - poleSum
	}
	if len(x) >= order {
		copy(mem, x[len(x)-order:])
	}
	return y
}

// tiltCorrect removes the first-reflection-coefficient spectral tilt the
// pole-zero stage introduces, with coefficient mu600Q15 (~0.5), used
// unchanged at every rate.
func (p *PostFilter) tiltCorrect(x []float64, a []float64) []float64 {
	const mu = float64(mu600Q15) / 32768
	tilt := 0.0
	if len(a) > 1 {
		tilt = -a[1] * mu
	}
	y := make([]float64, len(x))
	prev := p.tiltMem
	for i, v := range x {
		y[i] = v + tilt*prev
		prev = v
	}
	p.tiltMem = prev
	return y
}

// hpLp applies a fixed 60Hz high-pass (removes DC/rumble reintroduced by
// synthesis) and a 3400Hz low-pass shaping stage (spec §4.6 "HP/LP
// Butterworth"), carrying one-pole filter memory across frames so there is
// no per-frame discontinuity.
func (p *PostFilter) hpLp(x []float64) []float64 {
	const hpCutoff, lpCutoff = 60.0, 3400.0
	y := make([]float64, len(x))
	hpAlpha := highPassAlpha(hpCutoff)
	lpAlpha := lowPassAlpha(lpCutoff)
	prevIn, prevHP := p.hpInMem, p.hpMem
	lp := p.lpMem
	for i, v := range x {
		hp := hpAlpha * (prevHP + v - prevIn)
		prevIn, prevHP = v, hp
		lp = lp + lpAlpha*(hp-lp)
		y[i] = lp
	}
	p.hpInMem = prevIn
	p.hpMem = prevHP
	p.lpMem = lp
	return y
}

func highPassAlpha(cutoffHz float64) float64 {
	const twoPi = 6.283185307179586
	rc := 1 / (twoPi * cutoffHz)
	dt := 1.0 / SampleFs
	return rc / (rc + dt)
}

func lowPassAlpha(cutoffHz float64) float64 {
	const twoPi = 6.283185307179586
	rc := 1 / (twoPi * cutoffHz)
	dt := 1.0 / SampleFs
	return dt / (rc + dt)
}
