package melp

// decoder_session.go implements the per-session decoder state of spec
// §4.9 StreamingAPI: coded bytes accumulate until a full unit is
// available, then unpack + inverse-quantize + synthesize produces PCM;
// ProcessErasure drives the same synthesis path from BFI concealment
// instead of a received frame (spec §4.8).

// decoderSeed fixes the jitter RNG's seed for every decoder session, so
// that, per spec §8 property 6, the same input stream always produces
// sample-identical output.
const decoderSeed = 0x4d454c50 // "MELP" read as bytes, arbitrary but fixed

// DecoderSession owns every buffer one decode session needs: the
// synthesis filter/jitter state and the coded bytes accumulated toward
// the next full unit, plus concealment state for erasures.
type DecoderSession struct {
	rate Rate
	syn  *Synth
	conceal *ConcealState
	buf     []byte
}

// NewDecoderSession returns a session configured for rate with the given
// post-filter enablement. The caller is responsible for rejecting an
// invalid rate before construction; this constructor assumes
// rate.Valid().
func NewDecoderSession(rate Rate, postfilter bool) *DecoderSession {
	s := &Synth{prevPar: zeroFrame(), lpcState: make([]Shortword, LPCOrder), rng: newJitterRNG(decoderSeed)}
	if postfilter {
		s.pf = NewPostFilter()
	} else {
		s.pf = bypassPostFilter()
	}
	return &DecoderSession{rate: rate, syn: s, conceal: NewConcealState()}
}

// Process buffers buf, unpacks and synthesizes every complete coded unit
// now available, and returns the concatenated PCM samples. Bytes short of
// a full unit are retained for the next call (spec §7 "ShortInput ...
// retains the partial buffer").
func (d *DecoderSession) Process(buf []byte) []int16 {
	d.buf = append(d.buf, buf...)
	unit := d.rate.FrameBytes()
	var out []int16
	for len(d.buf) >= unit {
		out = append(out, d.processUnit(d.buf[:unit])...)
		d.buf = d.buf[unit:]
	}
	return out
}

func (d *DecoderSession) processUnit(frame []byte) []int16 {
	switch d.rate {
	case Rate2400:
		qp := unpackFrame2400(frame)
		f := dequantize2400(qp)
		d.conceal.RecordGood(f)
		return d.syn.Synthesize(f)
	case Rate1200:
		blk := unpackBlock1200(frame)
		frames := dequantize1200(blk)
		out := make([]int16, 0, Frame*framesPerBlock1200)
		for _, f := range frames {
			d.conceal.RecordGood(f)
			out = append(out, d.syn.Synthesize(f)...)
		}
		return out
	case Rate600:
		sf := unpackSuperFrame600(frame)
		frames := dequantize600(sf)
		out := make([]int16, 0, Frame*NF600)
		for _, f := range frames {
			d.conceal.RecordGood(f)
			out = append(out, d.syn.Synthesize(f)...)
		}
		return out
	default:
		return nil
	}
}

// ProcessErasure produces one coded unit's worth of PCM using the
// concealment path instead of a received frame (spec §4.9 "an explicit
// decoder_frame_erasure entry produces one PCM frame using the
// concealment path"), attenuating progressively across every analysis
// frame the unit spans (spec §4.8).
func (d *DecoderSession) ProcessErasure() []int16 {
	n := d.rate.FramesPerUnit()
	out := make([]int16, 0, Frame*n)
	for i := 0; i < n; i++ {
		f := d.conceal.Conceal()
		out = append(out, d.syn.Synthesize(f)...)
	}
	return out
}

// Rate reports the session's configured rate.
func (d *DecoderSession) Rate() Rate { return d.rate }

// FrameSamples returns the number of PCM samples one coded unit produces.
func (d *DecoderSession) FrameSamples() int { return d.rate.FrameSamples() }

// FrameBytes returns the number of packed bytes one coded unit consumes.
func (d *DecoderSession) FrameBytes() int { return d.rate.FrameBytes() }

// Buffered reports how many coded bytes are held awaiting a full unit.
func (d *DecoderSession) Buffered() int { return len(d.buf) }

// LostCount reports the current consecutive-erasure streak.
func (d *DecoderSession) LostCount() int { return d.conceal.LostCount() }
