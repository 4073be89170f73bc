// encoder.go implements the public encoder session (spec §4.9 StreamingAPI).

package melpe

import "github.com/openmelpe/melpe/melp"

// Rate selects one of the three STANAG 4591 bit rates a session runs at.
type Rate = melp.Rate

// The three STANAG 4591 rates.
const (
	Rate2400 = melp.Rate2400
	Rate1200 = melp.Rate1200
	Rate600  = melp.Rate600
)

// Encoder is a single-threaded, synchronous encode session for one rate
// (spec §5 "Scheduling model"). It owns all of its buffers; two Encoders
// may run concurrently on separate goroutines provided each caller
// serializes its own calls.
type Encoder struct {
	sess *melp.EncoderSession
}

// NewEncoder constructs an Encoder for rate, with npp selecting whether
// the noise pre-processor runs ahead of analysis (spec §6 `-p` flag
// inverts this: `-p` bypasses NPP, so npp=true is the default-on case).
// Returns a ConfigError and a nil Encoder for an unsupported rate; the
// session is never constructed in that case (spec §7).
func NewEncoder(rate Rate, npp bool) (*Encoder, error) {
	if !rate.Valid() {
		return nil, &ConfigError{Reason: "unsupported rate"}
	}
	return &Encoder{sess: melp.NewEncoderSession(rate, npp)}, nil
}

// Process appends pcm (16-bit signed samples at 8kHz mono) to the
// session's input buffer, encodes every complete frame now available,
// and returns the packed channel bytes. Fewer than one frame's worth of
// new samples yields a non-nil but possibly empty slice, and the partial
// buffer is retained for the next call (spec §8 property 8).
func (e *Encoder) Process(pcm []int16) ([]byte, error) {
	return e.sess.Process(pcm), nil
}

// Rate reports the session's configured rate.
func (e *Encoder) Rate() Rate { return e.sess.Rate() }

// FrameSamples returns the number of PCM samples one coded unit spans at
// this rate (180 / 540 / 720 for 2400 / 1200 / 600 b/s).
func (e *Encoder) FrameSamples() int { return e.sess.FrameSamples() }

// FrameBytes returns the number of packed bytes one coded unit produces
// at this rate (7 / 11 / 7 for 2400 / 1200 / 600 b/s, 8-bit channel
// words; spec §6 table).
func (e *Encoder) FrameBytes() int { return e.sess.FrameBytes() }

// Buffered reports how many PCM samples are held awaiting a full frame.
func (e *Encoder) Buffered() int { return e.sess.Buffered() }
