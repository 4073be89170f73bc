package melp

import "testing"

func pinkNoisePCM(n int, seed uint64) []int16 {
	rng := newJitterRNG(seed)
	out := make([]int16, n)
	var prev float64
	for i := range out {
		white := rng.white()
		prev = 0.98*prev + 0.02*white
		out[i] = Shortword(clampI(int(prev*8000), minShort, maxShort))
	}
	return out
}

func TestEncoderSessionFrameSizeInvariance(t *testing.T) {
	for _, rate := range []Rate{Rate2400, Rate1200, Rate600} {
		sess := NewEncoderSession(rate, true)
		unit := rate.FrameSamples()
		pcm := pinkNoisePCM(3*unit, 1)
		out := sess.Process(pcm)
		want := 3 * rate.FrameBytes()
		if len(out) != want {
			t.Fatalf("rate %d: got %d output bytes, want %d", rate, len(out), want)
		}
		if sess.Buffered() != 0 {
			t.Fatalf("rate %d: expected empty buffer on exact multiple input", rate)
		}
	}
}

func TestEncoderSessionPartialBufferRetained(t *testing.T) {
	sess := NewEncoderSession(Rate2400, true)
	out := sess.Process(pinkNoisePCM(Frame-1, 2))
	if len(out) != 0 {
		t.Fatalf("short input must produce zero output bytes, got %d", len(out))
	}
	if sess.Buffered() != Frame-1 {
		t.Fatalf("short input must retain the partial buffer, got %d buffered", sess.Buffered())
	}
}

func TestSessionRoundTripDeterminism(t *testing.T) {
	for _, rate := range []Rate{Rate2400, Rate1200, Rate600} {
		pcm := pinkNoisePCM(4*rate.FrameSamples(), 7)
		enc1 := NewEncoderSession(rate, true)
		enc2 := NewEncoderSession(rate, true)
		out1 := enc1.Process(pcm)
		out2 := enc2.Process(pcm)
		if len(out1) != len(out2) {
			t.Fatalf("rate %d: encoder not deterministic in length", rate)
		}
		for i := range out1 {
			if out1[i] != out2[i] {
				t.Fatalf("rate %d: encoder not byte-deterministic at %d", rate, i)
			}
		}

		dec1 := NewDecoderSession(rate, true)
		dec2 := NewDecoderSession(rate, true)
		pcm1 := dec1.Process(out1)
		pcm2 := dec2.Process(out1)
		if len(pcm1) != len(pcm2) {
			t.Fatalf("rate %d: decoder not deterministic in length", rate)
		}
		for i := range pcm1 {
			if pcm1[i] != pcm2[i] {
				t.Fatalf("rate %d: decoder not sample-deterministic at %d", rate, i)
			}
		}
	}
}

func TestDecoderSessionErasureBurst(t *testing.T) {
	for _, rate := range []Rate{Rate2400, Rate1200, Rate600} {
		dec := NewDecoderSession(rate, true)
		var prevEnergy int64 = -1
		for i := 0; i < 5; i++ {
			pcm := dec.ProcessErasure()
			var energy int64
			for _, s := range pcm {
				energy += int64(s) * int64(s)
			}
			if prevEnergy >= 0 && energy > prevEnergy {
				t.Fatalf("rate %d: erasure %d energy %d exceeds previous %d", rate, i, energy, prevEnergy)
			}
			prevEnergy = energy
		}
	}
}
