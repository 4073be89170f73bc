package melp

// FrameModel is the parametric record produced by the Analyzer (or by
// inverse quantization) for one 180-sample, 22.5ms analysis frame. It is
// created by the Analyzer or the inverse quantizer, mutated in place by a
// quantizer's round-trip, and never mutated by Synth (spec §3 Lifecycle).
type FrameModel struct {
	LSF    [LPCOrder]Shortword // line-spectral frequencies, Q15, in (0,pi)
	Pitch  Shortword           // pitch period, log10-Q7 across quantization
	Jitter Shortword           // jitter fraction, Q15 in [0, 0.25*32768]
	Gain   [2]Shortword        // two sub-frame gains, Q8 log-domain dB
	BPVC   [NumBands]Shortword // band-pass voicing strengths, Q14 in [0,1]
	UVFlag bool
	FSMag  [NumHarm]Shortword // Fourier harmonic magnitudes, Q13
}

// clone returns a shallow copy suitable for saving as prevPar (spec §3
// Lifecycle: "A shallow copy is saved as prev_par").
func (f *FrameModel) clone() FrameModel {
	return *f
}

// zeroFrame returns a well-formed, silent FrameModel: sorted default LSFs,
// minimum gain, unvoiced. Used to seed session state and BFI on the very
// first frame (spec §4.8: "on the first-ever frame, hold at 0").
func zeroFrame() FrameModel {
	var f FrameModel
	for i := range f.LSF {
		f.LSF[i] = Shortword((i + 1) * 3000 / (LPCOrder + 1))
	}
	f.Pitch = UVPitchQ7
	f.Jitter = 8192 // 0.25 in Q15
	f.Gain = [2]Shortword{gnQLoQ8, gnQLoQ8}
	f.UVFlag = true
	return f
}

// enforceLSFOrdering restores strict ascending order with minimum spacing
// bwMinQ15 between adjacent LSFs, clamped to (0, pi*Q15). This is the
// invariant spec §3/§8 requires after every decode/interpolation step.
func enforceLSFOrdering(lsf *[LPCOrder]Shortword) {
	const piQ15 = 32767
	if lsf[0] < bwMinQ15 {
		lsf[0] = bwMinQ15
	}
	for i := 1; i < LPCOrder; i++ {
		min := lsf[i-1] + bwMinQ15
		if lsf[i] < min {
			lsf[i] = min
		}
	}
	if lsf[LPCOrder-1] > piQ15-bwMinQ15 {
		lsf[LPCOrder-1] = piQ15 - bwMinQ15
		for i := LPCOrder - 2; i >= 0; i-- {
			min := lsf[i+1] - bwMinQ15
			if lsf[i] > min {
				lsf[i] = min
			} else {
				break
			}
		}
	}
}

// applyVoicingRules enforces spec §3's band-pass voicing invariants:
// bpvc[0] <= 0.5 Q14 implies uv_flag; unvoiced frames force bpvc[i]=0 for
// i>0; and (spec §4.2 step 4) bands 1-3 unvoiced forces band 4 unvoiced.
func applyVoicingRules(f *FrameModel) {
	const halfQ14 = 8192
	f.UVFlag = f.BPVC[0] <= halfQ14
	if f.UVFlag {
		for i := 1; i < NumBands; i++ {
			f.BPVC[i] = 0
		}
		return
	}
	if f.BPVC[1] <= halfQ14 && f.BPVC[2] <= halfQ14 && f.BPVC[3] <= halfQ14 {
		f.BPVC[4] = 0
	}
}

// QuantParam is the per-frame channel side information for the 2400 b/s
// rate (spec §3).
type QuantParam struct {
	MSVQIndex  [msvqStages]uint8
	PitchIndex uint8
	GainIndex  [2]uint8
	JitIndex   uint8
	BPVCIndex  uint8
	FSVQIndex  uint8
	UVFlag     bool
}

// TrajectoryType is the tagged variant for the four 600 b/s pitch
// trajectory hypotheses (spec §4.5.3, Design Notes §9).
type TrajectoryType int

const (
	TrajDirect TrajectoryType = iota
	TrajFirstType
	TrajSecondType
	TrajConstant
)

// SuperFrame600 is the jointly-quantized channel side information for
// four frames (90ms) at 600 b/s (spec §3).
type SuperFrame600 struct {
	Mode       int // encoding mode 0..5
	VoicingIQ  uint8
	IClass     [2]int // coarse voicing class per half-super-frame
	LSFStages  [2]int // number of MSVQ stages used for each half (3 or 4)
	LSFIndex   [2][NStageMax]uint8
	Lag0IQ     uint8
	Lag0LQ     uint8
	Lag0TQ     uint8
	TrajType   TrajectoryType
	GainFamily GainCodebookFamily
	GainStages int
	GainIndex  [2]uint16 // up to 2 stage indices (VQ9 uses only index 0)
}
