package melp

// q2400.go implements the 2400 b/s quantizer: a 4-stage MSVQ on the LSF
// vector, a uniform scalar pitch quantizer, a two-level gain quantizer, a
// small voicing-pattern codebook, a uniform jitter quantizer, and Fourier
// magnitude VQ (spec §4.3), packed into the rate's 54-bit/7-byte frame
// (spec §6 table).

// voicingShapes2400 is the 8-entry nearest-pattern codebook the 2400 b/s
// quantizer searches for FrameModel.BPVC (3 bits), coarser than the 600
// b/s super-frame voicing codebook since 2400 b/s sends it every frame.
var voicingShapes2400 = [8][NumBands]Shortword{
	{0, 0, 0, 0, 0},
	{16384, 0, 0, 0, 0},
	{16384, 16384, 0, 0, 0},
	{16384, 16384, 16384, 0, 0},
	{16384, 16384, 16384, 16384, 0},
	{16384, 16384, 16384, 16384, 16384},
	{16384, 8192, 0, 0, 0},
	{16384, 16384, 8192, 8192, 0},
}

const (
	jitBits2400 = 2
	bpvcBits2400 = 3
)

// quantize2400 quantizes a FrameModel into channel indices and returns the
// quantized FrameModel a decoder would reconstruct (spec §3 Lifecycle:
// "mutated in place by a quantizer's round-trip").
func quantize2400(f FrameModel) (QuantParam, FrameModel) {
	var qp QuantParam
	qp.UVFlag = f.UVFlag

	w := vqLSPW(f.LSF)
	target := make([]int32, LPCOrder)
	for i, v := range f.LSF {
		target[i] = int32(v)
	}
	vec, path := msvqSearch(target, w, lsfCodebook2400Pools(), mbestLSF)
	for i, p := range path {
		qp.MSVQIndex[i] = p
	}
	var qLSF [LPCOrder]Shortword
	for i, v := range vec {
		qLSF[i] = Shortword(v)
	}
	enforceLSFOrdering(&qLSF)

	qp.PitchIndex, _ = quantizePitch(f.Pitch, f.UVFlag)
	g0Idx, g0Q := quantizeGain0(f.Gain[0])
	g1Idx, g1Q := quantizeGain1(f.Gain[1], g0Q)
	qp.GainIndex = [2]uint8{g0Idx, g1Idx}

	qp.JitIndex = quantizeUniform(f.Jitter, 0, 8192, jitBits2400)
	qp.BPVCIndex = nearestVoicingShape(f.BPVC, voicingShapes2400[:])
	qp.FSVQIndex, _ = quantizeFourierVQ(f.FSMag)

	out := f
	out.LSF = qLSF
	pLog, uv := dequantizePitch(qp.PitchIndex)
	out.Pitch = pLog
	out.UVFlag = uv
	out.Gain = [2]Shortword{g0Q, g1Q}
	out.Jitter = dequantizeUniform(qp.JitIndex, 0, 8192, jitBits2400)
	out.BPVC = voicingShapes2400[qp.BPVCIndex]
	applyVoicingRules(&out)
	_, out.FSMag = quantizeFourierVQ(f.FSMag)
	return qp, out
}

// dequantize2400 reconstructs a FrameModel from channel indices (decoder
// side, or from a repeated/concealed QuantParam during BFI).
func dequantize2400(qp QuantParam) FrameModel {
	var f FrameModel
	vec, _ := msvqReconstruct(lsfCodebook2400Pools(), qp.MSVQIndex[:])
	for i, v := range vec {
		f.LSF[i] = Shortword(v)
	}
	enforceLSFOrdering(&f.LSF)

	pLog, uv := dequantizePitch(qp.PitchIndex)
	f.Pitch = pLog
	f.UVFlag = uv

	g0 := dequantizeGain0(qp.GainIndex[0])
	g1 := dequantizeGain1(qp.GainIndex[1], g0)
	f.Gain = [2]Shortword{g0, g1}

	f.Jitter = dequantizeUniform(qp.JitIndex, 0, 8192, jitBits2400)
	f.BPVC = voicingShapes2400[qp.BPVCIndex]
	applyVoicingRules(&f)
	f.FSMag = fourierCodebook[qp.FSVQIndex]
	return f
}

// msvqReconstruct sums the stage vectors named by idx, the decoder-side
// counterpart to msvqSearch's encoder-side accumulation.
func msvqReconstruct(pools [][][]int32, idx []uint8) ([]int32, error) {
	dim := len(pools[0][0])
	vec := make([]int32, dim)
	for s, i := range idx {
		cw := pools[s][i]
		for d := 0; d < dim; d++ {
			vec[d] += cw[d]
		}
	}
	return vec, nil
}

func quantizeUniform(v, lo, hi Shortword, bits int) uint8 {
	levels := 1 << uint(bits)
	span := int32(hi) - int32(lo)
	if span <= 0 {
		return 0
	}
	step := span / int32(levels-1)
	level := (int32(v-lo) + step/2) / step
	if level < 0 {
		level = 0
	}
	if level > int32(levels-1) {
		level = int32(levels - 1)
	}
	return uint8(level)
}

func dequantizeUniform(idx uint8, lo, hi Shortword, bits int) Shortword {
	levels := 1 << uint(bits)
	span := int32(hi) - int32(lo)
	step := span / int32(levels-1)
	return lo + Shortword(int32(idx))*Shortword(step)
}

func nearestVoicingShape(bpvc [NumBands]Shortword, shapes [][NumBands]Shortword) uint8 {
	best := 0
	bestDist := int64(1) << 62
	for i, shape := range shapes {
		var dist int64
		for b := 0; b < NumBands; b++ {
			d := int64(bpvc[b]) - int64(shape[b])
			dist += d * d
		}
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return uint8(best)
}

// packFrame2400 serializes qp into the rate's 7-byte channel frame.
func packFrame2400(qp QuantParam) []byte {
	w := NewBitWriter(Rate2400.FrameBits())
	for i, bits := range msvqBits {
		w.WriteBits(uint32(qp.MSVQIndex[i]), bits)
	}
	w.WriteBits(uint32(qp.PitchIndex), 7)
	w.WriteBits(uint32(qp.GainIndex[0]), 5)
	w.WriteBits(uint32(qp.GainIndex[1]), 3)
	w.WriteBits(boolToBit(qp.UVFlag), 1)
	w.WriteBits(uint32(qp.JitIndex), jitBits2400)
	w.WriteBits(uint32(qp.BPVCIndex), bpvcBits2400)
	w.WriteBits(uint32(qp.FSVQIndex), 8)
	return w.Bytes()
}

// unpackFrame2400 is packFrame2400's inverse.
func unpackFrame2400(buf []byte) QuantParam {
	r := NewBitReader(buf)
	var qp QuantParam
	for i, bits := range msvqBits {
		qp.MSVQIndex[i] = uint8(r.ReadBits(bits))
	}
	qp.PitchIndex = uint8(r.ReadBits(7))
	qp.GainIndex[0] = uint8(r.ReadBits(5))
	qp.GainIndex[1] = uint8(r.ReadBits(3))
	qp.UVFlag = r.ReadBits(1) != 0
	qp.JitIndex = uint8(r.ReadBits(jitBits2400))
	qp.BPVCIndex = uint8(r.ReadBits(bpvcBits2400))
	qp.FSVQIndex = uint8(r.ReadBits(8))
	return qp
}

func boolToBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
