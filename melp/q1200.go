package melp

// q1200.go implements the 1200 b/s block quantizer (spec §4.4): three
// consecutive 180-sample analysis frames (67.5ms) share a single LSF MSVQ
// code and a single Fourier-magnitude VQ code, while pitch, gain, and the
// voiced/unvoiced decision are still sent once per frame, fitting the
// rate's 81-bit/11-byte block (spec §6 table).

// Block1200 is the jointly-quantized channel side information for one
// 1200 b/s block.
type Block1200 struct {
	MSVQIndex  [msvqStages]uint8
	PitchIndex [framesPerBlock1200]uint8
	GainIndex  [framesPerBlock1200][2]uint8
	UVFlag     [framesPerBlock1200]bool
	FSVQIndex  uint8
}

// quantize1200 jointly quantizes three frames into one block and returns
// the quantized FrameModels a decoder would reconstruct.
func quantize1200(frames [framesPerBlock1200]FrameModel) (Block1200, [framesPerBlock1200]FrameModel) {
	var blk Block1200

	var mean [LPCOrder]int64
	for _, f := range frames {
		for i, v := range f.LSF {
			mean[i] += int64(v)
		}
	}
	var avgLSF [LPCOrder]Shortword
	for i := range avgLSF {
		avgLSF[i] = Shortword(mean[i] / framesPerBlock1200)
	}
	enforceLSFOrdering(&avgLSF)

	w := vqLSPW(avgLSF)
	target := make([]int32, LPCOrder)
	for i, v := range avgLSF {
		target[i] = int32(v)
	}
	vec, path := msvqSearch(target, w, lsfCodebook2400Pools(), mbestLSF)
	for i, p := range path {
		blk.MSVQIndex[i] = p
	}
	var qLSF [LPCOrder]Shortword
	for i, v := range vec {
		qLSF[i] = Shortword(v)
	}
	enforceLSFOrdering(&qLSF)

	var meanFS [NumHarm]int64
	for _, f := range frames {
		for i, v := range f.FSMag {
			meanFS[i] += int64(v)
		}
	}
	var avgFS [NumHarm]Shortword
	for i := range avgFS {
		avgFS[i] = Shortword(meanFS[i] / framesPerBlock1200)
	}
	blk.FSVQIndex, _ = quantizeFourierVQ(avgFS)

	var out [framesPerBlock1200]FrameModel
	for k, f := range frames {
		blk.PitchIndex[k], _ = quantizePitch(f.Pitch, f.UVFlag)
		g0Idx, g0Q := quantizeGain0(f.Gain[0])
		g1Idx, g1Q := quantizeGain1(f.Gain[1], g0Q)
		blk.GainIndex[k] = [2]uint8{g0Idx, g1Idx}
		blk.UVFlag[k] = f.UVFlag

		of := f
		of.LSF = qLSF
		pLog, uv := dequantizePitch(blk.PitchIndex[k])
		of.Pitch = pLog
		of.UVFlag = uv || blk.UVFlag[k]
		of.Gain = [2]Shortword{g0Q, g1Q}
		of.FSMag = fourierCodebook[blk.FSVQIndex]
		if of.UVFlag {
			of.BPVC = [NumBands]Shortword{}
		} else {
			of.BPVC = [NumBands]Shortword{16384, 16384, 16384, 16384, 16384}
		}
		applyVoicingRules(&of)
		out[k] = of
	}
	return blk, out
}

// dequantize1200 reconstructs the three FrameModels of a block from
// channel indices.
func dequantize1200(blk Block1200) [framesPerBlock1200]FrameModel {
	vec, _ := msvqReconstruct(lsfCodebook2400Pools(), blk.MSVQIndex[:])
	var qLSF [LPCOrder]Shortword
	for i, v := range vec {
		qLSF[i] = Shortword(v)
	}
	enforceLSFOrdering(&qLSF)
	fsMag := fourierCodebook[blk.FSVQIndex]

	var out [framesPerBlock1200]FrameModel
	for k := 0; k < framesPerBlock1200; k++ {
		var f FrameModel
		f.LSF = qLSF
		pLog, uv := dequantizePitch(blk.PitchIndex[k])
		f.Pitch = pLog
		f.UVFlag = uv || blk.UVFlag[k]
		g0 := dequantizeGain0(blk.GainIndex[k][0])
		g1 := dequantizeGain1(blk.GainIndex[k][1], g0)
		f.Gain = [2]Shortword{g0, g1}
		f.FSMag = fsMag
		if f.UVFlag {
			f.BPVC = [NumBands]Shortword{}
		} else {
			f.BPVC = [NumBands]Shortword{16384, 16384, 16384, 16384, 16384}
		}
		applyVoicingRules(&f)
		out[k] = f
	}
	return out
}

// packBlock1200 serializes blk into the rate's 11-byte channel block.
func packBlock1200(blk Block1200) []byte {
	w := NewBitWriter(Rate1200.FrameBits())
	for i, bits := range msvqBits {
		w.WriteBits(uint32(blk.MSVQIndex[i]), bits)
	}
	for k := 0; k < framesPerBlock1200; k++ {
		w.WriteBits(uint32(blk.PitchIndex[k]), 7)
		w.WriteBits(uint32(blk.GainIndex[k][0]), 5)
		w.WriteBits(uint32(blk.GainIndex[k][1]), 3)
		w.WriteBits(boolToBit(blk.UVFlag[k]), 1)
	}
	w.WriteBits(uint32(blk.FSVQIndex), 8)
	return w.Bytes()
}

// unpackBlock1200 is packBlock1200's inverse.
func unpackBlock1200(buf []byte) Block1200 {
	r := NewBitReader(buf)
	var blk Block1200
	for i, bits := range msvqBits {
		blk.MSVQIndex[i] = uint8(r.ReadBits(bits))
	}
	for k := 0; k < framesPerBlock1200; k++ {
		blk.PitchIndex[k] = uint8(r.ReadBits(7))
		blk.GainIndex[k][0] = uint8(r.ReadBits(5))
		blk.GainIndex[k][1] = uint8(r.ReadBits(3))
		blk.UVFlag[k] = r.ReadBits(1) != 0
	}
	blk.FSVQIndex = uint8(r.ReadBits(8))
	return blk
}
