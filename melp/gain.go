package melp

import "math"

// gain.go computes the per-sub-frame RMS gain (spec §4.2 step 5) and
// implements the 2400 b/s uniform gain quantizer (spec §4.3). The two
// sub-frame gains travel in log-domain dB, Q8, the same representation the
// teacher's gain path uses for its own log-gain delta coding (gain.go's
// decodeSubframeGains), though MELPe quantizes both sub-frame gains
// independently rather than delta-coding across frames.

// computeGainDB returns 20*log10(rms(x)) in Q8 dB, floored at gnQLoQ8 so
// near-silence never produces a value the quantizer can't represent.
func computeGainDB(x []float64) Shortword {
	var sumSq float64
	for _, v := range x {
		sumSq += v * v
	}
	if len(x) == 0 || sumSq <= 0 {
		return gnQLoQ8
	}
	rms := math.Sqrt(sumSq / float64(len(x)))
	if rms < 1e-6 {
		return gnQLoQ8
	}
	db := 20 * math.Log10(rms)
	q8 := Shortword(clampI(int(math.Round(db*256)), gnQLoQ8, gnQUpQ8))
	return q8
}

// subframeGains splits one 180-sample analysis frame into its two 90-sample
// gain-analysis windows and returns their Q8 dB gains (spec §3
// FrameModel.Gain: "two sub-frame gains").
func subframeGains(frame []float64) [2]Shortword {
	half := len(frame) / 2
	return [2]Shortword{computeGainDB(frame[:half]), computeGainDB(frame[half:])}
}

// quantizeGain0 quantizes the first sub-frame gain uniformly over
// [gnQLoQ8, gnQUpQ8] with gainLevel0 levels (spec §4.3).
func quantizeGain0(g Shortword) (idx uint8, q Shortword) {
	return quantizeGainN(g, gainLevel0)
}

// quantizeGain1 quantizes the second sub-frame gain, delta-limited against
// the already-quantized first gain the way the reference bounds successive
// sub-frame gains to track each other (spec §4.3 "gain[1] quantized
// relative to gain[0]"); gainLevel1 is deliberately coarser since only the
// delta needs resolving.
func quantizeGain1(g, g0Quantized Shortword) (idx uint8, q Shortword) {
	const deltaSpanQ8 = 6 * 256 // +/-6dB tracking window
	lo := g0Quantized - deltaSpanQ8
	hi := g0Quantized + deltaSpanQ8
	clamped := clampS(g, lo, hi)
	idx, qDelta := quantizeGainRange(clamped, lo, hi, gainLevel1)
	return idx, qDelta
}

func quantizeGainN(g Shortword, levels int) (uint8, Shortword) {
	return quantizeGainRange(g, gnQLoQ8, gnQUpQ8, levels)
}

func quantizeGainRange(g, lo, hi Shortword, levels int) (uint8, Shortword) {
	g = clampS(g, lo, hi)
	span := int32(hi) - int32(lo)
	if span <= 0 || levels <= 1 {
		return 0, lo
	}
	step := span / int32(levels-1)
	level := (int32(g-lo) + step/2) / step
	if level < 0 {
		level = 0
	}
	if level > int32(levels-1) {
		level = int32(levels - 1)
	}
	q := lo + Shortword(level)*Shortword(step)
	return uint8(level), q
}

// dequantizeGain0 / dequantizeGain1 are quantizeGain0/1's inverses.
func dequantizeGain0(idx uint8) Shortword {
	return dequantizeGainRange(idx, gnQLoQ8, gnQUpQ8, gainLevel0)
}

func dequantizeGain1(idx uint8, g0Quantized Shortword) Shortword {
	const deltaSpanQ8 = 6 * 256
	lo := g0Quantized - deltaSpanQ8
	hi := g0Quantized + deltaSpanQ8
	return dequantizeGainRange(idx, lo, hi, gainLevel1)
}

func dequantizeGainRange(idx uint8, lo, hi Shortword, levels int) Shortword {
	span := int32(hi) - int32(lo)
	if span <= 0 || levels <= 1 {
		return lo
	}
	step := span / int32(levels-1)
	return lo + Shortword(int32(idx))*Shortword(step)
}

// attenuateGain applies the BFI concealment fade (spec §4.8) to both
// sub-frame gains in place, multiplying the linear ratio by attGainQ15 each
// consecutive lost frame -- additive in the log domain.
func attenuateGain(g *[2]Shortword, attenDBQ8 Shortword) {
	for i := range g {
		g[i] = satSub16(g[i], attenDBQ8)
		if g[i] < gnQLoQ8 {
			g[i] = gnQLoQ8
		}
	}
}
