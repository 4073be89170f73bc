// stream.go implements streaming io.Reader and io.Writer wrappers around
// Encoder/Decoder for MELPe, carrying the teacher's byte-oriented
// Reader/Writer shape (gopus's stream.go) over to PCM-in/bitstream-out
// instead of Opus packets.

package melpe

import (
	"encoding/binary"
	"io"
)

// Writer encodes a stream of little-endian int16 PCM bytes written to it
// into MELPe channel bytes, implementing io.Writer. Partial trailing PCM
// samples (an odd byte, or samples short of a full frame) are buffered
// internally until enough data arrives; Writer has no Flush method.
type Writer struct {
	enc     *Encoder
	sink    io.Writer
	pcmByte []byte // odd leftover byte of a split int16 sample
}

// NewWriter returns a Writer that encodes at rate and writes packed
// channel bytes to sink.
func NewWriter(rate Rate, npp bool, sink io.Writer) (*Writer, error) {
	enc, err := NewEncoder(rate, npp)
	if err != nil {
		return nil, err
	}
	return &Writer{enc: enc, sink: sink}, nil
}

// Write implements io.Writer: p is little-endian int16 PCM bytes.
func (w *Writer) Write(p []byte) (int, error) {
	n := len(p)
	buf := append(w.pcmByte, p...)
	nSamples := len(buf) / 2
	samples := make([]int16, nSamples)
	for i := 0; i < nSamples; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	w.pcmByte = append([]byte(nil), buf[nSamples*2:]...)

	packed, err := w.enc.Process(samples)
	if err != nil {
		return 0, err
	}
	if len(packed) > 0 {
		if _, err := w.sink.Write(packed); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Reader decodes MELPe channel bytes read from a source into little-endian
// int16 PCM bytes, implementing io.Reader.
type Reader struct {
	dec     *Decoder
	source  io.Reader
	pcmBuf  []byte
	offset  int
	eof     bool
	readBuf []byte
}

// NewReader returns a Reader that reads channel bytes from source and
// decodes them at rate.
func NewReader(rate Rate, postfilter bool, source io.Reader) (*Reader, error) {
	dec, err := NewDecoder(rate, postfilter)
	if err != nil {
		return nil, err
	}
	return &Reader{dec: dec, source: source, readBuf: make([]byte, dec.FrameBytes())}, nil
}

// Read implements io.Reader, producing little-endian int16 PCM bytes.
func (r *Reader) Read(p []byte) (int, error) {
	if r.offset >= len(r.pcmBuf) {
		if r.eof {
			return 0, io.EOF
		}
		n, err := io.ReadFull(r.source, r.readBuf)
		if n > 0 {
			samples, decErr := r.dec.Process(r.readBuf[:n])
			if decErr != nil {
				return 0, decErr
			}
			r.pcmBuf = samplesToBytes(samples)
			r.offset = 0
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			r.eof = true
			if len(r.pcmBuf) == 0 {
				return 0, io.EOF
			}
		} else if err != nil {
			return 0, err
		}
	}
	n := copy(p, r.pcmBuf[r.offset:])
	r.offset += n
	return n, nil
}

func samplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}
