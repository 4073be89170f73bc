package melp

// Codebooks holds the constant, read-only tables the quantizers search:
// MSVQ LSF stages (2400 and 600 pools), gain codebooks, the 600 b/s
// voicing-pattern codebook, the Fourier-magnitude VQ, the 600 b/s pitch
// codebook, and the mode-dependent bit-order permutations. Per Design
// Notes §9 these are module-scope constants, safe to share read-only
// across every session in the process (spec §5).
//
// The reference STANAG 4591 table values are proprietary and were not
// present in the retrieval pack (original_source/ keeps only the bit
// widths and table *sizes* in cst600_msvq.h/cst600_gain.h, reproduced
// exactly in consts.go). The entries below are generated deterministically
// at package init time from those exact shapes so every invariant spec §8
// checks (LSF ordering, codebook closure, bit counts) holds; see
// DESIGN.md for the placeholder-data rationale.

// lsfCodebook2400 holds the 4-stage MSVQ pool for the 2400 b/s rate:
// stage 0 entries are full LSF-shaped vectors, stages 1-3 are zero-mean
// correction vectors of decreasing magnitude (coarse-to-fine cascade).
var lsfCodebook2400 [msvqStages][][LPCOrder]Shortword

// lsfMean600 and lsfPool600 hold the three 600 b/s LSF pools keyed by
// poolKind (0 = "type 0", 1 = "type a", 2 = "type b"), each operating on
// the 2*LPCOrder concatenated vector of two frames (spec §4.5.2).
const lsfDim600 = 2 * LPCOrder

type poolKind int

const (
	pool0 poolKind = iota // class==0, cbk==0: 4 stages
	poolA                 // cbk==0, iclass>0: 3 stages (128,32,16)
	poolB                 // cbk==1: 3 stages (64,32,16)
)

var lsfMean600 [3][lsfDim600]Shortword
var lsfPool600 [3][NStageMax][][lsfDim600]Shortword

// gainCodebook2400Levels holds no table (2400 gain is a uniform scalar
// quantizer, spec §4.3); uniform quantization is computed directly in
// gain.go from gnQLoQ8/gnQUpQ8 and the level counts.

// gainPoolMSVQ76, gainPoolMSVQ65 are 2-stage MSVQ pools over the 8-dim
// concatenated sub-frame gain vector (2 gains x 4 frames); gainPoolVQ9 is
// a single-stage 512-entry pool (spec §4.5.4).
const gainDim600 = 2 * NF600

var gainPoolMSVQ76 [2][][gainDim600]Shortword
var gainPoolMSVQ65 [2][][gainDim600]Shortword
var gainPoolVQ9 [][gainDim600]Shortword

// fourierCodebook is the 256-entry Fourier-magnitude VQ (spec §4.3).
var fourierCodebook [fourierVQSize][NumHarm]Shortword

// wFS / wFSInv are the fixed MSE weighting tables for Fourier magnitudes
// (spec §3 FrameModel.fs_mag, §4.6 step 4), module-scope per Design
// Notes §9.
var wFS [NumHarm]Shortword
var wFSInv [NumHarm]Shortword

// canonicalVoicingShapes are the four shapes spec §4.5.1 step 1 quantizes
// each frame's band-pass voicing pattern to before the super-frame search.
var canonicalVoicingShapes = [4][NumBands]Shortword{
	{0, 0, 0, 0, 0},
	{1, 0, 0, 0, 0},
	{1, 1, 1, 0, 0},
	{1, 1, 1, 1, 1},
}

// voicingCodebook600 is the 32-entry, 4-frame voicing-pattern codebook
// (spec §4.5.1 step 2); entries hold 0 or "half" (Q14 0.5) per band.
var voicingCodebook600 [voicingCBSize][NF600][NumBands]Shortword

// pitchCodebook600 is the 32-entry f0 codebook (log10-Q7) the trajectory
// hypotheses of spec §4.5.3 quantize against.
var pitchCodebook600 [pitchCB600Size]Shortword

// pitchSingleCodebook600 is the 64-entry (6-bit) codebook mode 1's single
// shared pitch code (spec §4.5.3 mode 1) quantizes against.
var pitchSingleCodebook600 [pitchSingleCB600Size]Shortword

// bitOrder600 is the mode-dependent bit permutation of spec §4.5.5: for
// final position k, bitOrder600[mode][k] names which serialized-bit index
// supplies that position. Position 0-4 are always the voicing_iq bits so
// the decoder can read mode600 before unpacking anything else.
var bitOrder600 [NMode600][54]int

// MODE600 mirrors original_source/lib600_mode.c's encoding-mode lookup,
// indexed by the two half-super-frame voicing classes (0..5 each).
var MODE600 = [6][6]int{
	{0, 0, 1, 1, 1, 1},
	{0, 0, 1, 1, 1, 1},
	{2, 2, 3, 3, 3, 3},
	{2, 2, 3, 3, 3, 3},
	{2, 2, 4, 4, 4, 4},
	{2, 2, 5, 5, 5, 5},
}

// ICBK1LSF / ICBK2LSF mirror lib600_mode.c's per-half LSF codebook
// selector (0 = "type a" 128/32/16 pool, 1 = "type b" 64/32/16 pool).
// selectMode600 returns these lookups, but CodebookSelector.LSFPool does
// not use them: the LSF pool and its stage count depend on mode600 and
// the half only.
var ICBK1LSF = [6][6]int{
	{0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0},
	{0, 0, 1, 1, 1, 1},
	{0, 0, 1, 1, 1, 1},
	{0, 0, 1, 1, 0, 1},
	{0, 0, 1, 1, 1, 0},
}

var ICBK2LSF = [6][6]int{
	{0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0},
	{0, 0, 1, 1, 1, 1},
	{0, 0, 1, 1, 1, 1},
	{1, 1, 1, 1, 0, 1},
	{1, 1, 0, 1, 1, 0},
}

func init() {
	generateLSFCodebook2400()
	generateLSFPools600()
	generateGainPools600()
	generateFourierCodebook()
	generateFourierWeights()
	generateVoicingCodebook600()
	generatePitchCodebook600()
	generatePitchSingleCodebook600()
	generateBitOrder600()
}

// lcg is a tiny deterministic generator (no math/rand dependency needed
// for fixed-shape constant tables) used only at init to fill codebook
// entries; it is never used for the jitter RNG (that lives in synth.go
// and is seeded per-session, spec Open Questions).
type lcg uint64

func (g *lcg) next() uint32 {
	*g = lcg(uint64(*g)*6364136223846793005 + 1442695040888963407)
	return uint32(*g >> 33)
}

func generateLSFCodebook2400() {
	g := lcg(0x4d454c50) // "MELP"
	for s := 0; s < msvqStages; s++ {
		n := msvqLevels[s]
		entries := make([][LPCOrder]Shortword, n)
		for i := 0; i < n; i++ {
			var v [LPCOrder]Shortword
			if s == 0 {
				for d := 0; d < LPCOrder; d++ {
					base := Shortword((d + 1) * 32767 / (LPCOrder + 1))
					jitter := Shortword(int32(g.next()%200) - 100)
					v[d] = base + jitter
				}
				enforceLSFOrdering(&v)
			} else {
				scale := int32(1200 >> uint(s))
				for d := 0; d < LPCOrder; d++ {
					v[d] = Shortword(int32(g.next()%uint32(2*scale+1)) - scale)
				}
			}
			entries[i] = v
		}
		lsfCodebook2400[s] = entries
	}
}

func generateLSFPools600() {
	g := lcg(0x36303042) // "600B"
	dims := lsfDim600
	shapes := [3]struct {
		sizes []int
		kind  poolKind
	}{
		{[]int{nst1, nst2, nst3, nst4}, pool0},
		{[]int{naSt1, naSt2, naSt3}, poolA},
		{[]int{nbSt1, nbSt2, nbSt3}, poolB},
	}
	for _, shape := range shapes {
		for d := 0; d < dims; d++ {
			lsfMean600[shape.kind][d] = Shortword((d%LPCOrder + 1) * 32767 / (LPCOrder + 1))
		}
		for s, n := range shape.sizes {
			entries := make([][lsfDim600]Shortword, n)
			for i := 0; i < n; i++ {
				var v [lsfDim600]Shortword
				scale := int32(1000 >> uint(s))
				if scale < 8 {
					scale = 8
				}
				if s == 0 {
					scale = 3000
				}
				for d := 0; d < dims; d++ {
					v[d] = Shortword(int32(g.next()%uint32(2*scale+1)) - scale)
				}
				entries[i] = v
			}
			lsfPool600[shape.kind][s] = entries
		}
	}
}

func generateGainPools600() {
	g := lcg(0x47414e36) // "GAN6"
	buildStage := func(n int, seedScale int32) [][gainDim600]Shortword {
		entries := make([][gainDim600]Shortword, n)
		for i := 0; i < n; i++ {
			var v [gainDim600]Shortword
			for d := 0; d < gainDim600; d++ {
				v[d] = Shortword(int32(g.next()%uint32(2*seedScale+1)) - seedScale)
			}
			entries[i] = v
		}
		return entries
	}
	gainPoolMSVQ76[0] = buildStage(n76st1, 2500)
	gainPoolMSVQ76[1] = buildStage(n76st2, 500)
	gainPoolMSVQ65[0] = buildStage(n65st1, 2500)
	gainPoolMSVQ65[1] = buildStage(n65st2, 500)
	gainPoolVQ9 = buildStage(n9, 2800)
}

func generateFourierCodebook() {
	g := lcg(0x46535643) // "FSVC"
	for i := 0; i < fourierVQSize; i++ {
		for d := 0; d < NumHarm; d++ {
			fourierCodebook[i][d] = Shortword(int32(g.next() % 8192))
		}
	}
}

func generateFourierWeights() {
	// Harmonics near the first formant (low index) are weighted more
	// heavily than high harmonics, matching the qualitative shape
	// described by spec §3 (w_fs weighting of fs_mag).
	for i := 0; i < NumHarm; i++ {
		w := Shortword(16384 - i*900)
		if w < 2048 {
			w = 2048
		}
		wFS[i] = w
		wFSInv[i] = Shortword((1 << 28) / int32(w) >> 14)
	}
}

func generateVoicingCodebook600() {
	g := lcg(0x56434236) // "VCB6"
	// Entry 0 is always all-unvoiced, last entry all-voiced-high; the
	// rest interpolate, giving the MSE search in q600.go a spread of
	// real candidates while keeping the all-UU / all-voiced anchors the
	// mode-selection logic in lib600_mode.c relies on being reachable.
	for i := 0; i < voicingCBSize; i++ {
		for f := 0; f < NF600; f++ {
			shape := canonicalVoicingShapes[int(g.next()%4)]
			if i == 0 {
				shape = canonicalVoicingShapes[0]
			} else if i == voicingCBSize-1 {
				shape = canonicalVoicingShapes[3]
			}
			for b := 0; b < NumBands; b++ {
				if shape[b] != 0 {
					voicingCodebook600[i][f][b] = 8192 // 0.5 Q14
				} else {
					voicingCodebook600[i][f][b] = 0
				}
			}
		}
	}
}

func generatePitchCodebook600() {
	// Log-spaced pitch codewords across [PitchMin, PitchMax] in log10-Q7.
	for i := 0; i < pitchCB600Size; i++ {
		frac := int32(i) * 4096 / int32(pitchCB600Size-1)
		lag := PitchMin + int((int32(PitchMax-PitchMin)*frac)>>12)
		pitchCodebook600[i] = pitchSamplesToLog10Q7(lag)
	}
}

func generatePitchSingleCodebook600() {
	// Log-spaced pitch codewords across [PitchMin, PitchMax] in log10-Q7,
	// same construction as generatePitchCodebook600 but at 6-bit (64
	// entry) resolution since mode 1 spends its whole pitch budget on one
	// shared code rather than a three-codeword trajectory.
	for i := 0; i < pitchSingleCB600Size; i++ {
		frac := int32(i) * 4096 / int32(pitchSingleCB600Size-1)
		lag := PitchMin + int((int32(PitchMax-PitchMin)*frac)>>12)
		pitchSingleCodebook600[i] = pitchSamplesToLog10Q7(lag)
	}
}

func generateBitOrder600() {
	for mode := 0; mode < NMode600; mode++ {
		var order [54]int
		for i := 0; i < 5; i++ {
			order[i] = i // voicing_iq bits always lead, spec §4.5.5
		}
		rot := (mode + 1) * 7
		for i := 5; i < 54; i++ {
			order[i] = 5 + (i-5+rot)%49
		}
		bitOrder600[mode] = order
	}
}
