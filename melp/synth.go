package melp

// synth.go implements the per-pitch-period synthesis loop (spec §4.6):
// interpolate LSF/gain across the analysis window, rebuild the LPC
// filter, synthesize mixed excitation, and run it through the LPC synthesis
// filter, with a deterministic jitter RNG seeded once per session.

// Synth holds the rolling state across successive frame reconstructions:
// the previous frame's parameters (for interpolation), the LPC synthesis
// filter's memory, and the jitter generator.
type Synth struct {
	prevPar  FrameModel
	lpcState []Shortword // LPCOrder-length synthesis filter memory, Q0
	rng      *jitterRNG
	pf       *PostFilter
}

// NewSynth returns a Synth ready to reconstruct a stream, seeded with a
// deterministic jitter RNG (spec Open Questions: sessions must be
// reproducible given the same seed).
func NewSynth(seed uint64) *Synth {
	return &Synth{
		prevPar:  zeroFrame(),
		lpcState: make([]Shortword, LPCOrder),
		rng:      newJitterRNG(seed),
		pf:       NewPostFilter(),
	}
}

// Synthesize reconstructs Frame PCM samples from the current FrameModel,
// interpolating from the previously reconstructed frame across two
// half-frame sub-windows (spec §4.6 step 8) and running each
// pitch-period's excitation through the LPC synthesis filter and
// post-filter.
func (s *Synth) Synthesize(cur FrameModel) []int16 {
	out := make([]float64, Frame)
	half := Frame / 2
	for sub := 0; sub < 2; sub++ {
		frac := Shortword(0)
		if sub == 1 {
			frac = 16384 // 0.5 in Q15, halfway through the frame
		}
		lsf := interpolateLSF(s.prevPar.LSF, cur.LSF, int32(frac))
		a := lsfToLPC(lsf, LPCOrder)
		gainDB := interpGain(s.prevPar.Gain[sub%2], cur.Gain[sub], frac)
		gainLin := dbQ8ToLinear(gainDB)

		pitchSamples := log10Q7ToSamples(cur.Pitch)
		if cur.UVFlag {
			pitchSamples = PitchMin // short fixed excitation period when unvoiced
		}

		start := sub * half
		end := start + half
		s.synthesizeSpan(out[start:end], a, gainLin, pitchSamples, cur)
	}

	pcm := make([]int16, Frame)
	filtered := s.pf.Apply(out, cur)
	for i, v := range filtered {
		pcm[i] = Shortword(clampI(int(v), minShort, maxShort))
	}
	s.prevPar = cur.clone()
	return pcm
}

// synthesizeSpan runs one pitch-period-segmented span of the LPC synthesis
// filter over fixed-point state and Q12 coefficients (spec §4.1's
// bit-exact discipline applies to the synthesis filter's recursion, not
// only the wire-format quantizer): the prediction accumulates in a
// saturating Longword (satAddL) and is brought back to Q0 via round32
// after promoting the Q12 accumulator to Q16 (shiftL by 4).
func (s *Synth) synthesizeSpan(dst []float64, a []float64, gainLin float64, pitchSamples int, cur FrameModel) {
	n := len(dst)
	order := len(a) - 1
	aQ12 := make([]Shortword, order+1)
	for k := 1; k <= order; k++ {
		aQ12[k] = Shortword(clampI(int(-a[k]*4096), minShort, maxShort))
	}

	pos := 0
	for pos < n {
		period := pitchSamples
		if period <= 0 || period > n-pos {
			period = n - pos
		}
		exc := synthesizeExcitation(period, cur.FSMag, cur.BPVC, s.rng)
		for i, e := range exc {
			var acc Longword
			for k := 1; k <= order; k++ {
				idx := pos + i - k
				var v Shortword
				if idx >= 0 {
					v = Shortword(clampI(int(dst[idx]), minShort, maxShort))
				} else {
					v = s.lpcState[order+idx]
				}
				acc = satAddL(acc, int32(aQ12[k])*int32(v))
			}
			predQ0 := round32(shiftL(acc, 4)) // Q12 -> Q16 -> rounded Q0
			dst[pos+i] = gainLin*e + float64(predQ0)
		}
		pos += period
	}
	if n >= order {
		for k := 0; k < order; k++ {
			s.lpcState[k] = Shortword(clampI(int(dst[n-order+k]), minShort, maxShort))
		}
	}
}

// interpGain linearly blends two Q8 dB gains by frac (Q15), via the same
// rounded-fractional-multiply building block (multR) the reference uses for
// every Q15 interpolation step, rather than an ad hoc int64 shift.
func interpGain(prev, cur Shortword, frac Shortword) Shortword {
	return satAdd16(prev, multR(satSub16(cur, prev), frac))
}

// dbQ8ToLinear converts a Q8 dB value to a linear amplitude multiplier.
func dbQ8ToLinear(dbQ8 Shortword) float64 {
	db := float64(dbQ8) / 256
	return pow10(db / 20)
}

func pow10(x float64) float64 {
	// 10^x = e^(x*ln10); implemented via expApprox's range reduction and
	// Taylor series rather than math.Pow, for consistency with this
	// package's other fixed-point-flavored helpers.
	const ln10 = 2.302585092994046
	return expApprox(x * ln10)
}

func expApprox(x float64) float64 {
	// Standard range-reduction + Taylor series exp, accurate enough for
	// gain shaping (not claimed bit-exact, see DESIGN.md).
	neg := x < 0
	if neg {
		x = -x
	}
	k := int(x / 0.25)
	r := x - float64(k)*0.25
	sum := 1.0
	term := 1.0
	for i := 1; i <= 12; i++ {
		term *= r / float64(i)
		sum += term
	}
	for i := 0; i < k; i++ {
		sum *= 1.2840254166877414 // e^0.25
	}
	if neg {
		return 1 / sum
	}
	return sum
}
