package melp

// bfi.go implements bad-frame-indicator concealment (spec §4.8): repeat the
// last good FrameModel's parameters and attenuate gain on every consecutive
// lost frame, tracked as a lost-frame count with a fade derived from it,
// working in the log-domain Q8 gain used throughout this package instead
// of a linear PCM fade factor.

// ConcealState tracks consecutive bad frames for one session direction and
// produces the concealed FrameModel spec §4.8 calls for.
type ConcealState struct {
	lostCount int
	last      FrameModel
}

// NewConcealState seeds concealment with a well-formed silent frame so the
// very first bad frame (before any good frame has ever arrived) still
// produces valid output (spec §4.8: "on the first-ever frame, hold at 0").
func NewConcealState() *ConcealState {
	return &ConcealState{last: zeroFrame()}
}

// RecordGood stores a newly decoded good frame and clears the loss streak
// (spec §4.8: "bfi=0 resets the concealment streak").
func (c *ConcealState) RecordGood(f FrameModel) {
	c.lostCount = 0
	c.last = f.clone()
}

// Conceal returns the next concealed frame for a lost frame: the held
// parameters with gain attenuated by attGainQ15 (0.95 linear, applied
// additively in the Q8 log-gain domain) for every consecutive loss, an
// exponential per-loss fade measured from the last good frame.
func (c *ConcealState) Conceal() FrameModel {
	c.lostCount++
	f := c.last.clone()
	atten := attenuationDBQ8(c.lostCount)
	attenuateGain(&f.Gain, atten)
	return f
}

// LostCount reports the current consecutive-loss streak.
func (c *ConcealState) LostCount() int {
	return c.lostCount
}

// attenuationDBQ8 converts attGainQ15 (a per-frame linear ratio) applied
// lostCount times into an additive Q8 dB offset: dB = -20*log10(ratio^n).
// The per-frame step is a precomputed integer constant, so no floating
// point or log10 call runs in this hot path.
func attenuationDBQ8(lostCount int) Shortword {
	const perFrameDBQ8 = 114 // -20*log10(0.95) ~= 0.446dB, in Q8 (0.446*256)
	total := int32(perFrameDBQ8) * int32(lostCount)
	if total > 20*256 {
		total = 20 * 256 // cap the attenuation at -20dB, spec §4.8 "floor"
	}
	return Shortword(total)
}
