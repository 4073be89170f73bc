package melpe

import "testing"

func TestNewDecoderInvalidRate(t *testing.T) {
	if _, err := NewDecoder(Rate(1), true); err == nil {
		t.Fatal("expected ConfigError for invalid rate")
	} else if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, rate := range []Rate{Rate2400, Rate1200, Rate600} {
		enc, err := NewEncoder(rate, true)
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}
		dec, err := NewDecoder(rate, true)
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}
		pcm := make([]int16, 5*enc.FrameSamples())
		for i := range pcm {
			pcm[i] = int16((i*37)%4000 - 2000)
		}
		packed, err := enc.Process(pcm)
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}
		out, err := dec.Process(packed)
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}
		if len(out) != len(pcm) {
			t.Fatalf("rate %d: decoded %d samples, want %d", rate, len(out), len(pcm))
		}
	}
}

func TestProcessErasureProducesFullUnit(t *testing.T) {
	for _, rate := range []Rate{Rate2400, Rate1200, Rate600} {
		dec, err := NewDecoder(rate, true)
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}
		out := dec.ProcessErasure()
		if len(out) != rate.FrameSamples() {
			t.Fatalf("rate %d: erasure produced %d samples, want %d", rate, len(out), rate.FrameSamples())
		}
		if dec.LostCount() == 0 {
			t.Fatalf("rate %d: ProcessErasure must advance the loss streak", rate)
		}
	}
}

func TestBFIResetRestoresState(t *testing.T) {
	dec, err := NewDecoder(Rate2400, true)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := NewEncoder(Rate2400, true)
	if err != nil {
		t.Fatal(err)
	}
	pcm := make([]int16, enc.FrameSamples())
	for i := range pcm {
		pcm[i] = int16((i * 53) % 3000)
	}
	packed, _ := enc.Process(pcm)

	dec.ProcessErasure()
	if dec.LostCount() != 1 {
		t.Fatalf("expected loss streak 1, got %d", dec.LostCount())
	}
	if _, err := dec.Process(packed); err != nil {
		t.Fatal(err)
	}
	if dec.LostCount() != 0 {
		t.Fatalf("a good frame must reset the loss streak, got %d", dec.LostCount())
	}
}
