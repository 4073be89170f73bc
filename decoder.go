// decoder.go implements the public decoder session (spec §4.9 StreamingAPI).

package melpe

import "github.com/openmelpe/melpe/melp"

// Decoder is a single-threaded, synchronous decode session for one rate
// (spec §5). It owns all of its buffers, including concealment state for
// erasures; two Decoders may run concurrently on separate goroutines
// provided each caller serializes its own calls.
type Decoder struct {
	sess *melp.DecoderSession
}

// NewDecoder constructs a Decoder for rate, with postfilter selecting
// whether the adaptive post-filter cascade runs after synthesis (spec
// §4.6, §4.9). Returns a ConfigError and a nil Decoder for an
// unsupported rate; the session is never constructed in that case (spec
// §7).
func NewDecoder(rate Rate, postfilter bool) (*Decoder, error) {
	if !rate.Valid() {
		return nil, &ConfigError{Reason: "unsupported rate"}
	}
	return &Decoder{sess: melp.NewDecoderSession(rate, postfilter)}, nil
}

// Process appends buf to the session's input buffer, decodes every
// complete coded unit now available, and returns the synthesized PCM.
// Fewer bytes than one full unit yields a non-nil but possibly empty
// slice, and the partial buffer is retained for the next call (spec §7
// "ShortInput").
func (d *Decoder) Process(buf []byte) ([]int16, error) {
	return d.sess.Process(buf), nil
}

// ProcessErasure produces one coded unit's worth of PCM via the
// concealment path (spec §4.8, §4.9 "decoder_frame_erasure"), without
// consuming any input bytes. BFIConcealment is not an error condition
// (spec §7); callers that need to count erasures should track their own
// calls to this method.
func (d *Decoder) ProcessErasure() []int16 {
	return d.sess.ProcessErasure()
}

// Rate reports the session's configured rate.
func (d *Decoder) Rate() Rate { return d.sess.Rate() }

// FrameSamples returns the number of PCM samples one coded unit produces
// at this rate.
func (d *Decoder) FrameSamples() int { return d.sess.FrameSamples() }

// FrameBytes returns the number of packed bytes one coded unit consumes
// at this rate.
func (d *Decoder) FrameBytes() int { return d.sess.FrameBytes() }

// Buffered reports how many coded bytes are held awaiting a full unit.
func (d *Decoder) Buffered() int { return d.sess.Buffered() }

// LostCount reports the current consecutive-erasure streak.
func (d *Decoder) LostCount() int { return d.sess.LostCount() }
