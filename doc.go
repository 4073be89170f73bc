// Package melpe implements the MELPe (Mixed-Excitation Linear Prediction
// enhanced, STANAG 4591) narrowband speech codec in pure Go.
//
// MELPe is a fixed-point parametric vocoder for 8kHz mono speech,
// operating at one of three bit rates: 2400, 1200, or 600 bits per
// second. Unlike waveform codecs, it transmits a compact model of the
// speech production process each frame — linear-predictive spectral
// envelope, pitch, voicing strength per band, gain, and (at 2400 and
// 1200 b/s) Fourier harmonic magnitudes — and reconstructs PCM from that model at
// the decoder via mixed-excitation synthesis.
//
// # Sessions
//
// An Encoder or Decoder is constructed for exactly one rate and kept for
// the lifetime of a call (spec: sessions are single-threaded and
// synchronous; no operation suspends or yields). Process accepts
// whatever PCM or coded bytes are available and returns however many
// complete frames that yields, retaining any partial remainder
// internally.
//
//	enc, err := melpe.NewEncoder(melpe.Rate2400, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	packet, _ := enc.Process(pcm)
//
//	dec, err := melpe.NewDecoder(melpe.Rate2400, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	samples, _ := dec.Process(packet)
//
// # Bitstream
//
// Coded frames are fixed-length per rate: 7 bytes (54 bits) at 2400 and
// 600 b/s, 11 bytes (81 bits) at 1200 b/s, packed MSB-first. The 600 b/s
// super-frame additionally applies a mode-dependent bit permutation on
// top of this packing, inverted transparently by Decoder.Process.
//
// # Packet loss
//
// Decoder.ProcessErasure produces one coded unit of concealed PCM (one,
// three or four 180-sample frames at 2400, 1200 or 600 b/s) from the
// last known-good frame's parameters, attenuating gain with every
// consecutive erasure, without requiring a received frame.
package melpe
