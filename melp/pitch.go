package melp

import "math/bits"

// pitch.go implements pitch analysis (spec §4.2 step 3) and the 2400 b/s
// scalar pitch quantizer (spec §4.3). The 600 b/s trajectory quantizer
// lives in q600.go; both share pitchSamplesToLog10Q7/log10Q7ToSamples.

// pitchSamplesToLog10Q7 converts a pitch lag in samples to log10-Q7, the
// representation FrameModel.Pitch and every quantizer travel in (spec §3
// invariant: "Pitch values travel in log10-Q7 across quantization").
func pitchSamplesToLog10Q7(lag int) Shortword {
	if lag <= 0 {
		return UVPitchQ7
	}
	l := log10Fxp(Longword(lag), 0)
	return Shortword(clampI(int(l), 0, 32767))
}

// log10Q7ToSamples is the inverse, used by Synth and by inverse
// quantization to recover an integer sample lag.
func log10Q7ToSamples(logQ7 Shortword) int {
	lin := pow10Fxp(Longword(logQ7), 0)
	return clampI(int(lin), PitchMin, PitchMax)
}

// pitchAnalysis searches the analysis window for the best integer pitch
// lag via normalized autocorrelation, computed in the same fixed-point
// domain as the rest of the analysis/synthesis core (innerProd for the
// correlation/energy sums, sqrtFxp/divideS for the normalized ratio), and
// compares the result against prevPitch for continuity (spec §4.2 step
// 3). voicedStrength is converted to float64 only at the return boundary.
func pitchAnalysis(window []float64, prevPitchSamples int) (lagSamples int, voicedStrength float64) {
	n := len(window)
	sw := make([]Shortword, n)
	for i, v := range window {
		sw[i] = Shortword(clampI(int(v), minShort, maxShort))
	}

	bestLag := PitchMin
	var bestCorrQ15 Shortword = -1
	for lag := PitchMin; lag <= PitchMax && lag < n; lag++ {
		num := innerProd(sw[:n-lag], sw[lag:n])
		e0 := innerProd(sw[:n-lag], sw[:n-lag])
		e1 := innerProd(sw[lag:n], sw[lag:n])
		if num <= 0 || e0 <= 0 || e1 <= 0 {
			continue
		}
		// sqrt(e0*e1) computed as sqrt(e0)*sqrt(e1) rather than
		// sqrt(e0*e1) directly: e0/e1 can each reach ~2^38 at Frame=180
		// samples of full-scale Shortword input, and their product would
		// overflow int64's ~2^63 range headroom margin once squared again
		// inside the Newton iteration.
		s0 := sqrtFxp(e0, 0)
		s1 := sqrtFxp(e1, 0)
		den := s0 * s1
		corrQ15 := normalizedCorrQ15(num, den)
		// Bias toward continuity with the previous frame's pitch, same
		// qualitative effect as spec §4.2 step 3's "compare candidates to
		// prev_par.pitch for continuity".
		if prevPitchSamples > 0 {
			dist := lag - prevPitchSamples
			if dist < 0 {
				dist = -dist
			}
			bias := Shortword(clampI(dist*66, 0, maxShort)) // ~0.002/sample in Q15
			corrQ15 = satSub16(corrQ15, bias)
		}
		if corrQ15 > bestCorrQ15 {
			bestCorrQ15 = corrQ15
			bestLag = lag
		}
	}
	strength := float64(clampI(int(bestCorrQ15), 0, maxShort)) / maxShort
	return bestLag, strength
}

// normalizedCorrQ15 computes num/den as a Q15 fraction (0 when den<=0 or
// num<=0; num is clamped to den when Cauchy-Schwarz rounding pushes it
// slightly past the sqrt(e0*e1) denominator), shifting both operands into
// 32-bit range and then down to Shortword range via normL before the
// divideS fractional divide
// so the divide_s's 0<=num<den, both-Q15 contract is honored regardless
// of the window's energy scale.
func normalizedCorrQ15(num, den int64) Shortword {
	if den <= 0 || num <= 0 {
		return 0
	}
	if num > den {
		num = den
	}
	if pre := bits.Len64(uint64(den)) - 31; pre > 0 {
		den >>= uint(pre)
		num >>= uint(pre)
	}
	denI32 := satL(den)
	shift := 16 - normL(denI32)
	if shift < 0 {
		shift = 0
	}
	numI32 := satL(num)
	denS := Shortword(shiftR(denI32, shift))
	numS := Shortword(shiftR(numI32, shift))
	if denS <= 0 {
		return 0
	}
	if numS > denS {
		numS = denS
	}
	if numS < 0 {
		numS = 0
	}
	return divideS(numS, denS)
}

// quantizePitch maps a log10-Q7 pitch into the spec §4.3 uniform 7-bit
// (PIT_QLEV_M1 = 127 levels) scalar quantizer on [PIT_QLO_Q12, PIT_QUP_Q12]
// (the quantizer works in Q12 internally per the reference; FrameModel
// itself stays in Q7). Index 0 is reserved for the unvoiced code point.
func quantizePitch(logQ7 Shortword, uv bool) (idx uint8, q Shortword) {
	if uv {
		return 0, UVPitchQ7
	}
	logQ12 := int32(logQ7) << 5
	logQ12 = clampL(logQ12, pitQLoQ12, pitQUpQ12)
	span := int32(pitQUpQ12 - pitQLoQ12)
	level := (int64(logQ12-pitQLoQ12)*int64(pitQLevM1) + int64(span)/2) / int64(span)
	if level < 1 {
		level = 1 // reserve 0 for UV
	}
	if level > pitQLevM1 {
		level = pitQLevM1
	}
	qLogQ12 := pitQLoQ12 + int32(level)*span/int32(pitQLevM1)
	return uint8(level), Shortword(qLogQ12 >> 5)
}

// dequantizePitch is quantizePitch's inverse.
func dequantizePitch(idx uint8) (logQ7 Shortword, uv bool) {
	if idx == 0 {
		return UVPitchQ7, true
	}
	span := int32(pitQUpQ12 - pitQLoQ12)
	qLogQ12 := pitQLoQ12 + int32(idx)*span/int32(pitQLevM1)
	return Shortword(qLogQ12 >> 5), false
}
