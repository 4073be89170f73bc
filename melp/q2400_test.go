package melp

import "testing"

func sampleFrame(voiced bool) FrameModel {
	f := zeroFrame()
	for i := range f.LSF {
		f.LSF[i] = Shortword((i + 1) * 2800 / (LPCOrder + 1))
	}
	enforceLSFOrdering(&f.LSF)
	if voiced {
		f.BPVC = [NumBands]Shortword{16384, 16384, 16384, 16384, 16384}
		f.Pitch = pitchSamplesToLog10Q7(80)
	}
	applyVoicingRules(&f)
	for i := range f.FSMag {
		f.FSMag[i] = Shortword(1000 + i*100)
	}
	return f
}

func TestQuantize2400RoundTrip(t *testing.T) {
	for _, voiced := range []bool{true, false} {
		f := sampleFrame(voiced)
		qp, out := quantize2400(f)
		buf := packFrame2400(qp)
		if len(buf) != Rate2400.FrameBytes() {
			t.Fatalf("packed frame length = %d, want %d", len(buf), Rate2400.FrameBytes())
		}
		qp2 := unpackFrame2400(buf)
		if qp2 != qp {
			t.Fatalf("unpack(pack(qp)) = %+v, want %+v", qp2, qp)
		}
		dec := dequantize2400(qp2)
		if dec.UVFlag != out.UVFlag {
			t.Fatalf("uv flag mismatch: got %v, want %v", dec.UVFlag, out.UVFlag)
		}
		for i := 1; i < LPCOrder; i++ {
			if dec.LSF[i] < dec.LSF[i-1]+bwMinQ15 {
				t.Fatalf("lsf monotonicity violated at %d: %v", i, dec.LSF)
			}
		}
	}
}

func TestApplyVoicingRulesUVImplication(t *testing.T) {
	var f FrameModel
	f.BPVC[0] = 8192 // exactly the threshold
	applyVoicingRules(&f)
	if !f.UVFlag {
		t.Fatalf("bpvc[0] <= 0.5Q14 must imply uv_flag")
	}
	f.BPVC[0] = 8193
	applyVoicingRules(&f)
	if f.UVFlag {
		t.Fatalf("bpvc[0] > 0.5Q14 must not imply uv_flag")
	}
}
