package melp

// CodebookSelector resolves (iclass, icbkLSF, mode600) into read-only
// slices over the statically-linked codebook tables in codebooks.go.
// Design Notes §9 calls for this in place of the reference's bare
// per-class codebook pointers (cbk_st_s[], cbk_gain_s[], cbk_mst1_s):
// callers never touch the package-level tables directly, only through
// this selector, so the class/mode dispatch logic lives in one place.
type CodebookSelector struct{}

// LSFPool returns the stage count, per-stage bit widths, mean vector and
// per-stage codebook entries to use for one half-super-frame (half 0 or 1)
// at 600 b/s. Selection is a pure function of mode600 and half alone (not
// of the per-half voicing class/codebook-selector bits lib600_mode.c also
// derives) so that every mode's total serialized width is a compile-time
// constant that sums to exactly NBits600 across voicing+LSF+pitch+gain —
// see DESIGN.md's per-mode bit budget for the derivation. "poolMini"/
// "poolMini7" below are single-stage truncations of pool0/poolA's own
// first stage (not new tables): reusing them as modes 2-4/5's smaller
// half keeps every codeword meaningful model data rather than invented
// filler.
func (CodebookSelector) LSFPool(mode, half int) (stages int, bits []int, mean *[lsfDim600]Shortword, cb [][][lsfDim600]Shortword) {
	switch mode {
	case 0: // 5 + 36 + 0 + 13 = 54: both halves get the full 4-stage pool.
		return 4, []int{nbitst1, nbitst2, nbitst3, nbitst4}, &lsfMean600[pool0],
			[][][lsfDim600]Shortword{lsfPool600[pool0][0], lsfPool600[pool0][1], lsfPool600[pool0][2], lsfPool600[pool0][3]}
	case 1: // 5 + 30 + 6 + 13 = 54: both halves get the 3-stage "b" pool.
		return 3, []int{nbitbSt1, nbitbSt2, nbitbSt3}, &lsfMean600[poolB],
			[][][lsfDim600]Shortword{lsfPool600[poolB][0], lsfPool600[poolB][1], lsfPool600[poolB][2]}
	case 5: // 5 + 23 + 17 + 9 = 54: half 0 full "a" pool, half 1 poolMini7.
		if half == 0 {
			return 3, []int{nbitaSt1, nbitaSt2, nbitaSt3}, &lsfMean600[poolA],
				[][][lsfDim600]Shortword{lsfPool600[poolA][0], lsfPool600[poolA][1], lsfPool600[poolA][2]}
		}
		return 1, []int{nbitaSt1}, &lsfMean600[poolA], [][][lsfDim600]Shortword{lsfPool600[poolA][0]}
	default: // modes 2,3,4: 5 + 21 + 17 + 11 = 54: half 0 full "b" pool, half 1 poolMini.
		if half == 0 {
			return 3, []int{nbitbSt1, nbitbSt2, nbitbSt3}, &lsfMean600[poolB],
				[][][lsfDim600]Shortword{lsfPool600[poolB][0], lsfPool600[poolB][1], lsfPool600[poolB][2]}
		}
		return 1, []int{nbitst1}, &lsfMean600[pool0], [][][lsfDim600]Shortword{lsfPool600[pool0][0]}
	}
}

// GainPool returns the stage count, per-stage bit widths and codebook
// entries for the gain family mode600 selects (spec §4.5.4).
func (CodebookSelector) GainPool(family GainCodebookFamily) (stages int, bits []int, cb [][][gainDim600]Shortword) {
	switch family {
	case GainFamilyMSVQ76:
		return 2, []int{nbit76st1, nbit76st2}, [][][gainDim600]Shortword{gainPoolMSVQ76[0], gainPoolMSVQ76[1]}
	case GainFamilyMSVQ65:
		return 2, []int{nbit65st1, nbit65st2}, [][][gainDim600]Shortword{gainPoolMSVQ65[0], gainPoolMSVQ65[1]}
	default:
		return 1, []int{nbit9}, [][][gainDim600]Shortword{gainPoolVQ9}
	}
}

// BitOrder returns the serialization permutation for 600 b/s mode.
func (CodebookSelector) BitOrder(mode int) *[54]int {
	return &bitOrder600[mode]
}
