package melp

import "math"

// analyzer.go orchestrates the per-frame analysis pipeline of spec §4.2:
// DC removal, LPC, pitch, voicing, gain, and Fourier-magnitude analysis,
// producing one FrameModel per call. Session state (history buffers, the
// previous frame, the silence tracker) is carried the way the teacher's
// Encoder carries haveEncoded/previousLogGain/isPreviousFrameVoiced/
// prevLSFQ15 across frames.

// Analyzer holds the rolling state an analysis-to-analysis call needs:
// the analysis window's tail history and the previous frame's parameters.
type Analyzer struct {
	history  []float64 // previous analysis window (lpcWindowLen samples, DC-removed); its last lpcWindowLen-Frame samples open the next window
	prevPar  FrameModel
	silence  silenceTracker
	haveRun  bool
	dcPrevIn float64
	dcPrevOut float64
}

// NewAnalyzer returns an Analyzer seeded with a well-formed silent frame
// (spec §4.8 "on the first-ever frame, hold at 0").
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		history: make([]float64, lpcWindowLen),
		prevPar: zeroFrame(),
	}
}

// Analyze runs the full analysis pipeline over one 180-sample PCM frame
// (spec §4.2) and returns the resulting FrameModel. pcm values are
// full-scale int16 range, passed as float64 for analysis precision.
func (an *Analyzer) Analyze(pcm []int16) FrameModel {
	x := make([]float64, len(pcm))
	for i, s := range pcm {
		x[i] = removeDC(an, float64(s))
	}

	// Slide the analysis window: keep the trailing lpcWindowLen-Frame
	// history samples plus the new frame (spec §4.2 step 1 "DC removal,
	// then 10th-order LPC analysis on a window centered on the frame").
	win := make([]float64, lpcWindowLen)
	copy(win, an.history[len(x):])
	copy(win[lpcWindowLen-len(x):], x)

	r := autocorrelate(applyHamming(win), LPCOrder)
	a, refl := levinsonDurbin(r, LPCOrder)
	lsf := lpcToLSF(a, LPCOrder)

	prevPitchSamples := log10Q7ToSamples(an.prevPar.Pitch)
	lagSamples, strength := pitchAnalysis(win, prevPitchSamples)
	bpvc := bandpassVoicing(win, lagSamples)

	var f FrameModel
	f.LSF = lsf
	f.Gain = subframeGains(x)
	f.BPVC = bpvc
	applyVoicingRules(&f)

	rms := rmsOf(x)
	isSilence := an.silence.update(rms, !f.UVFlag)
	if isSilence {
		f.UVFlag = true
		for i := range f.BPVC {
			f.BPVC[i] = 0
		}
	}

	if f.UVFlag {
		f.Pitch = UVPitchQ7
	} else {
		f.Pitch = pitchSamplesToLog10Q7(lagSamples)
	}
	_ = refl
	_ = strength

	preFrame := win[:lpcWindowLen-len(x)]
	residual := lpcResidual(x, preFrame, a)
	f.FSMag = fourierMagnitudes(residual, lagSamples)

	copy(an.history, win)
	an.prevPar = f.clone()
	an.haveRun = true
	return f
}

// removeDC applies a one-pole DC blocker (spec §4.2 step 1), carrying its
// two-sample state in the Analyzer.
func removeDC(an *Analyzer, x float64) float64 {
	const alpha = 0.999
	y := x - an.dcPrevIn + alpha*an.dcPrevOut
	an.dcPrevIn = x
	an.dcPrevOut = y
	return y
}

func applyHamming(x []float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = v * hammingWindow[i]
	}
	return y
}

func rmsOf(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(len(x)))
}
