package melpe

import "testing"

func TestNewEncoderInvalidRate(t *testing.T) {
	if _, err := NewEncoder(Rate(1), true); err == nil {
		t.Fatal("expected ConfigError for invalid rate")
	} else if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}

func TestEncoderFrameSizeInvariance(t *testing.T) {
	for _, rate := range []Rate{Rate2400, Rate1200, Rate600} {
		enc, err := NewEncoder(rate, true)
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}
		pcm := make([]int16, 3*enc.FrameSamples())
		for i := range pcm {
			pcm[i] = int16(i % 100)
		}
		out, err := enc.Process(pcm)
		if err != nil {
			t.Fatalf("rate %d: %v", rate, err)
		}
		if len(out) != 3*enc.FrameBytes() {
			t.Fatalf("rate %d: got %d bytes, want %d", rate, len(out), 3*enc.FrameBytes())
		}
	}
}

func TestEncoderMinimumInput(t *testing.T) {
	enc, err := NewEncoder(Rate2400, true)
	if err != nil {
		t.Fatal(err)
	}
	out, err := enc.Process(make([]int16, enc.FrameSamples()-1))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected zero output bytes for sub-frame input, got %d", len(out))
	}
	if enc.Buffered() != enc.FrameSamples()-1 {
		t.Fatalf("expected partial buffer retained, got %d", enc.Buffered())
	}
}
