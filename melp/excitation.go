package melp

import "math"

// excitation.go computes the LPC residual and its Fourier harmonic
// magnitudes (spec §4.2 step 6), and later (Synth) re-synthesizes a mixed
// pulse/noise excitation from those magnitudes plus the voicing strengths
// (spec §4.6). Residual computation follows the same direct-form
// prediction-then-subtract shape as the teacher's deleted computeExcitation
// helper, generalized from float32 PCM/int16 LPC to this package's float64
// analysis domain.

// lpcResidual returns e[n] = x[n] + sum_{k=1..order} a[k]*x[n-k] for a
// frame (a is the A(z) = 1 + sum a[k] z^-k form levinsonDurbin returns),
// using history from the previous frame's tail for the first
// `order` samples so the residual has no startup transient.
func lpcResidual(x []float64, history []float64, a []float64) []float64 {
	order := len(a) - 1
	n := len(x)
	ext := make([]float64, order+n)
	copy(ext, history[len(history)-order:])
	copy(ext[order:], x)
	res := make([]float64, n)
	for i := 0; i < n; i++ {
		pred := 0.0
		for k := 1; k <= order; k++ {
			pred += a[k] * ext[order+i-k]
		}
		res[i] = ext[order+i] + pred
	}
	return res
}

// fourierMagnitudes computes the first NumHarm harmonic magnitudes of the
// LPC residual at the analyzed pitch period (spec §4.2 step 6), via a
// direct DFT evaluated only at the harmonic frequencies (cheap for
// NumHarm=10 compared to a full FFT) and returns them in Q13 normalized by
// the residual's RMS so the magnitude vector is gain-independent (the
// overall energy rides on FrameModel.Gain instead, per spec §3).
func fourierMagnitudes(residual []float64, pitchSamples int) [NumHarm]Shortword {
	var out [NumHarm]Shortword
	if pitchSamples <= 0 || len(residual) == 0 {
		for i := range out {
			out[i] = 8192 // flat (noise-like) spectrum default
		}
		return out
	}
	f0 := 2 * math.Pi / float64(pitchSamples)
	var rms float64
	for _, v := range residual {
		rms += v * v
	}
	rms = math.Sqrt(rms / float64(len(residual)))
	if rms < 1e-9 {
		rms = 1e-9
	}
	for h := 0; h < NumHarm; h++ {
		w := f0 * float64(h+1)
		var re, im float64
		for n, v := range residual {
			re += v * math.Cos(w*float64(n))
			im += v * math.Sin(w*float64(n))
		}
		mag := math.Sqrt(re*re+im*im) / float64(len(residual))
		normalized := mag / rms
		out[h] = Shortword(clampI(int(normalized*8192), 0, 32767))
	}
	return out
}

// quantizeFourierVQ finds the closest entry in the Fourier-magnitude VQ to
// fsMag by Euclidean distance (spec §4.3 "Fourier magnitude: VQ").
func quantizeFourierVQ(fsMag [NumHarm]Shortword) (idx uint8, q [NumHarm]Shortword) {
	best := 0
	bestDist := int64(math.MaxInt64)
	for i, cw := range fourierCodebook {
		var dist int64
		for h := 0; h < NumHarm; h++ {
			d := int64(fsMag[h]) - int64(cw[h])
			dist += d * d
		}
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return uint8(best), fourierCodebook[best]
}

// synthesizeExcitation builds one pitch-period's worth of mixed
// pulse/noise excitation from the Fourier magnitudes and band-pass voicing
// strengths (spec §4.6 "mixed pulse/noise excitation"): a harmonic pulse
// train shaped by fsMag and unfiltered white noise are cross-faded across
// the whole band by bpvc[0] alone. Bands 1-4 of bpvc do not affect the
// mix, and no per-band filtering or spectral enhancement is done here.
func synthesizeExcitation(periodSamples int, fsMag [NumHarm]Shortword, bpvc [NumBands]Shortword, rng *jitterRNG) []float64 {
	out := make([]float64, periodSamples)
	if periodSamples <= 0 {
		return out
	}
	f0 := 2 * math.Pi / float64(periodSamples)
	voicedFrac := float64(bpvc[0]) / 16384

	pulse := make([]float64, periodSamples)
	for h := 0; h < NumHarm; h++ {
		amp := float64(fsMag[h]) / 8192
		w := f0 * float64(h+1)
		phase := rng.phase()
		for n := range pulse {
			pulse[n] += amp * math.Cos(w*float64(n)+phase)
		}
	}
	noise := make([]float64, periodSamples)
	for n := range noise {
		noise[n] = rng.white()
	}
	for n := range out {
		out[n] = voicedFrac*pulse[n] + (1-voicedFrac)*noise[n]
	}
	return out
}

// jitterRNG is a small deterministic generator for the pitch-pulse phase
// jitter and noise excitation (spec §3 FrameModel.Jitter, §4.6 "jitter
// applies a random perturbation... to avoid a mechanical buzz"). It is
// seeded per session (Open Question: reproducible sessions need a fixed
// seed) rather than from math/rand, matching the package's other
// deterministic generators (codebooks.go's lcg).
type jitterRNG struct {
	state uint64
}

func newJitterRNG(seed uint64) *jitterRNG {
	if seed == 0 {
		seed = 1
	}
	return &jitterRNG{state: seed}
}

func (r *jitterRNG) next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// phase returns a uniform random phase in [0, 2*pi).
func (r *jitterRNG) phase() float64 {
	u := float64(r.next()>>11) / (1 << 53)
	return u * 2 * math.Pi
}

// white returns a uniform sample in [-1, 1], used as the noise excitation
// component.
func (r *jitterRNG) white() float64 {
	u := float64(r.next()>>11) / (1 << 53)
	return 2*u - 1
}
