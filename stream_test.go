package melpe

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	rate := Rate2400
	pcm := make([]int16, 4*int(rate.FrameSamples()))
	for i := range pcm {
		pcm[i] = int16((i*91)%5000 - 2500)
	}
	pcmBytes := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(pcmBytes[i*2:], uint16(s))
	}

	var channel bytes.Buffer
	w, err := NewWriter(rate, true, &channel)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(pcmBytes); err != nil {
		t.Fatal(err)
	}
	if channel.Len() != 4*w.enc.FrameBytes() {
		t.Fatalf("got %d channel bytes, want %d", channel.Len(), 4*w.enc.FrameBytes())
	}

	r, err := NewReader(rate, true, bytes.NewReader(channel.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	out := make([]byte, 0, len(pcmBytes))
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			break
		}
	}
	if len(out) != len(pcmBytes) {
		t.Fatalf("got %d decoded bytes, want %d", len(out), len(pcmBytes))
	}
}
