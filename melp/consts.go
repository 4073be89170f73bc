package melp

// Rate selects one of the three STANAG 4591 bit rates a session runs at.
// A session is configured for exactly one rate for its lifetime (spec §5).
type Rate int

const (
	Rate2400 Rate = 2400
	Rate1200 Rate = 1200
	Rate600  Rate = 600
)

// FrameSamples returns the analysis/synthesis frame length in PCM samples
// for the rate (spec §6 table).
func (r Rate) FrameSamples() int {
	switch r {
	case Rate2400:
		return Frame
	case Rate1200:
		return 3 * Frame
	case Rate600:
		return 4 * Frame
	default:
		return 0
	}
}

// FrameBytes returns the packed bitstream size in bytes for 8-bit channel
// words (spec §6 table).
func (r Rate) FrameBytes() int {
	switch r {
	case Rate2400:
		return 7
	case Rate1200:
		return 11
	case Rate600:
		return 7
	default:
		return 0
	}
}

// FrameBits returns the number of coded bits per frame/block/super-frame.
func (r Rate) FrameBits() int {
	switch r {
	case Rate2400:
		return 54
	case Rate1200:
		return 81
	case Rate600:
		return 54
	default:
		return 0
	}
}

// FramesPerUnit returns how many 180-sample analysis frames make up one
// coded unit at this rate (1 for 2400, 3 for 1200, 4 for 600).
func (r Rate) FramesPerUnit() int {
	switch r {
	case Rate2400:
		return 1
	case Rate1200:
		return 3
	case Rate600:
		return 4
	default:
		return 0
	}
}

// Valid reports whether r is one of the three supported rates.
func (r Rate) Valid() bool {
	switch r {
	case Rate2400, Rate1200, Rate600:
		return true
	}
	return false
}

// Core frame and LPC geometry constants, shared by all rates (spec §2-3).
const (
	Frame     = 180 // one analysis frame, 22.5ms @ 8kHz
	LPCOrder  = 10
	NumBands  = 5  // band-pass voicing bands
	NumHarm   = 10 // Fourier harmonic magnitudes
	SampleFs  = 8000
	PitchMin  = 20
	PitchMax  = 160
	UVPitchQ7 = 50 * 128 // unvoiced-pitch default, log10 domain placeholder

	bwMinQ15 = 70 // BWMIN_Q15: minimum LSF separation, spec §3/§8
)

// 2400 b/s bit allocation (spec §4.3).
const (
	msvqStages = 4
)

var msvqBits = [msvqStages]int{7, 6, 6, 6}
var msvqLevels = [msvqStages]int{128, 64, 64, 64}

const (
	pitQLoQ12  = 5329  // log10(20)*4096 rounded, lower pitch quantizer bound
	pitQUpQ12  = 9028  // log10(160)*4096 rounded, upper pitch quantizer bound
	pitQLevM1  = 127   // 2^7 - 1 quantizer levels
	gnQLoQ8    = 2560  // 10dB in Q8
	gnQUpQ8    = 18944 // ~74dB in Q8
	gainLevel0 = 32     // gain[0] quantizer levels
	gainLevel1 = 8       // gain[1] quantizer levels
	fourierVQSize = 256
	mbestLSF   = 8 // M-best survivors kept at each MSVQ stage, spec §4.3/§4.5.2
	mbestGain  = 8
)

// BFI concealment (spec §4.8).
const attGainQ15 = 31129 // 0.95 in Q15

// 600 b/s super-frame constants, pinned down by original_source/cst600*.h
// and ext600_mode.h (see SPEC_FULL.md §4 and DESIGN.md).
const (
	NF600       = 4  // frames per super-frame
	NSubframe600 = 2 // frames per half-super-frame (LSF concat unit)
	NBits600    = 54
	NBytes600   = 7
	NMode600    = 6
	NStageMax   = 4
	lShiftSt1   = 2
	lShiftStN   = 4

	// LSF pool "type 0" (class==0, cbk==0): 4 stages.
	nst1, nbitst1 = 64, 6
	nst2, nbitst2 = 16, 4
	nst3, nbitst3 = 16, 4
	nst4, nbitst4 = 16, 4

	// LSF pool "type a" (cbk==0, iclass>0): 3 stages.
	naSt1, nbitaSt1 = 128, 7
	naSt2, nbitaSt2 = 32, 5
	naSt3, nbitaSt3 = 16, 4

	// LSF pool "type b" (cbk==1): 3 stages.
	nbSt1, nbitbSt1 = 64, 6
	nbSt2, nbitbSt2 = 32, 5
	nbSt3, nbitbSt3 = 16, 4

	// Gain pools (spec §4.5.4).
	n76st1, nbit76st1 = 128, 7
	n76st2, nbit76st2 = 64, 6
	n65st1, nbit65st1 = 64, 6
	n65st2, nbit65st2 = 32, 5
	n9, nbit9         = 512, 9

	voicingCBSize  = 32 // 5-bit voicing_iq codebook
	voicingCBBits  = 5
	pitchCB600Size = 32 // 5-bit f0 codebook for trajectory hypotheses
	pitchCB600Bits = 5

	// pitchSingleCodebook600 is mode 1's pitch path (spec §4.5.3 mode 1:
	// a single shared code instead of a three-codeword trajectory).
	pitchSingleCB600Size = 64
	pitchSingleCB600Bits = 6

	alph600Q15 = 11468 // 0.35 in Q15
	beta600Q15 = 26214 // 0.80 in Q15
	mu600Q15   = 16384 // 0.50 in Q15
)

// GainCodebookFamily is the tagged variant selecting which gain quantizer
// pool mode600 maps to (spec §4.5.4, Design Notes §9 "tagged variants").
type GainCodebookFamily int

const (
	GainFamilyMSVQ76 GainCodebookFamily = iota // modes 0,1
	GainFamilyMSVQ65                           // modes 2,3,4
	GainFamilyVQ9                              // mode 5
)

// gainFamilyForMode mirrors lib600_mode.c's ICBKGAIN[mode600] lookup.
func gainFamilyForMode(mode int) GainCodebookFamily {
	switch mode {
	case 0, 1:
		return GainFamilyMSVQ76
	case 2, 3, 4:
		return GainFamilyMSVQ65
	default:
		return GainFamilyVQ9
	}
}

// 1200 b/s block constants (spec §4.4).
const (
	framesPerBlock1200 = 3
	blockBits1200      = 81
	blockBytes1200     = 11
)
