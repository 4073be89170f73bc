package melp

// encoder_session.go implements the per-session encoder state of spec
// §4.9 StreamingAPI: PCM accumulates in an internal buffer sized to one
// coded unit for the session's rate; each full unit triggers analysis,
// quantization, and packing, appending bytes to the caller's output.

// EncoderSession owns every buffer one encode session needs for its
// lifetime: the rolling Analyzer state and the PCM samples accumulated
// toward the next full coded unit (spec §5 "all per-session buffers are
// allocated at session creation").
type EncoderSession struct {
	rate Rate
	npp  bool
	an   *Analyzer
	pcm  []int16 // accumulated samples, < rate.FrameSamples() between calls
}

// NewEncoderSession returns a session configured for rate. The caller is
// responsible for rejecting an invalid rate before construction (spec §7
// "ConfigError ... session never constructed"); this constructor assumes
// rate.Valid().
func NewEncoderSession(rate Rate, npp bool) *EncoderSession {
	return &EncoderSession{rate: rate, npp: npp, an: NewAnalyzer()}
}

// Process buffers pcm, analyzes and packs every complete coded unit now
// available, and returns the concatenated packed bytes. Samples short of
// a full unit are retained for the next call (spec §4.9, §8 property 8
// "minimum input produces zero output bytes and retains the partial
// buffer").
func (s *EncoderSession) Process(pcm []int16) []byte {
	s.pcm = append(s.pcm, pcm...)
	unit := s.rate.FrameSamples()
	var out []byte
	for len(s.pcm) >= unit {
		out = append(out, s.processUnit(s.pcm[:unit])...)
		s.pcm = s.pcm[unit:]
	}
	return out
}

func (s *EncoderSession) processUnit(samples []int16) []byte {
	switch s.rate {
	case Rate2400:
		f := s.analyzeFrame(samples)
		qp, _ := quantize2400(f)
		return packFrame2400(qp)
	case Rate1200:
		var frames [framesPerBlock1200]FrameModel
		for i := 0; i < framesPerBlock1200; i++ {
			frames[i] = s.analyzeFrame(samples[i*Frame : (i+1)*Frame])
		}
		blk, _ := quantize1200(frames)
		return packBlock1200(blk)
	case Rate600:
		var frames [NF600]FrameModel
		for i := 0; i < NF600; i++ {
			frames[i] = s.analyzeFrame(samples[i*Frame : (i+1)*Frame])
		}
		_, buf, _ := quantize600(frames)
		return buf
	default:
		return nil
	}
}

func (s *EncoderSession) analyzeFrame(samples []int16) FrameModel {
	if s.npp {
		samples = noisePreprocess(samples)
	}
	return s.an.Analyze(samples)
}

// noisePreprocess applies the lightweight fixed noise pre-processor
// spec §6's `-p` flag disables: a DC-blocked, high-passed (alpha 0.4) copy
// of the frame, whose filter state restarts with every frame, the same
// one-pole shape the Analyzer's own removeDC already
// applies internally, run here as an independent front-end stage so NPP
// can be toggled without touching the Analyzer's own filtering.
func noisePreprocess(samples []int16) []int16 {
	out := make([]int16, len(samples))
	const alpha = 0.4
	var prevIn, prevOut float64
	for i, s := range samples {
		x := float64(s)
		y := x - prevIn + alpha*prevOut
		prevIn, prevOut = x, y
		out[i] = Shortword(clampI(int(y), minShort, maxShort))
	}
	return out
}

// Rate reports the session's configured rate.
func (s *EncoderSession) Rate() Rate { return s.rate }

// FrameSamples returns the number of PCM samples one coded unit spans.
func (s *EncoderSession) FrameSamples() int { return s.rate.FrameSamples() }

// FrameBytes returns the number of packed bytes one coded unit produces.
func (s *EncoderSession) FrameBytes() int { return s.rate.FrameBytes() }

// Buffered reports how many PCM samples are held awaiting a full unit.
func (s *EncoderSession) Buffered() int { return len(s.pcm) }
