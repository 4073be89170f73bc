package melp

// lsf.go implements the generic M-best multi-stage vector quantizer used
// by both the 2400 b/s LSF quantizer (spec §4.3) and the 600 b/s
// super-frame LSF quantizer (spec §4.5.2), plus the perceptual weight
// computation shared by both (spec §4.3 "MSVQ (LSFs)").

// msvqCandidate is one surviving path through the MSVQ stage search: the
// accumulated vector, its distortion against the target, and the stage
// indices chosen so far (back-pointers, spec §4.3).
type msvqCandidate struct {
	vec   []int32
	dist  int64
	path  []uint8
}

// msvqSearch performs the M-best MSVQ search described in spec §4.3: at
// stage 0, score every codeword of the first pool against target (with
// weights w); at each later stage, combine every surviving candidate with
// every codeword of that stage, re-score, and keep the best M. pools[s] is
// the s-th stage codebook (each entry a dim-length vector); stage 0
// entries are absolute candidates, later stages are summed in.
func msvqSearch(target []int32, w []int32, pools [][][]int32, m int) (vec []int32, path []uint8) {
	dim := len(target)
	cands := make([]msvqCandidate, 0, m)
	for idx, cw := range pools[0] {
		v := make([]int32, dim)
		copy(v, cw)
		d := weightedSqDist(target, v, w)
		cands = append(cands, msvqCandidate{vec: v, dist: d, path: []uint8{uint8(idx)}})
	}
	cands = keepBestM(cands, m)

	for s := 1; s < len(pools); s++ {
		next := make([]msvqCandidate, 0, m*len(pools[s]))
		for _, c := range cands {
			for idx, cw := range pools[s] {
				v := make([]int32, dim)
				for d := 0; d < dim; d++ {
					v[d] = c.vec[d] + cw[d]
				}
				dist := weightedSqDist(target, v, w)
				path := make([]uint8, len(c.path)+1)
				copy(path, c.path)
				path[len(c.path)] = uint8(idx)
				next = append(next, msvqCandidate{vec: v, dist: dist, path: path})
			}
		}
		cands = keepBestM(next, m)
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.dist < best.dist {
			best = c
		}
	}
	return best.vec, best.path
}

// keepBestM sorts candidates by ascending distortion and truncates to the
// best m survivors (spec §4.3: "sort all M*|CB_s| candidates, keep best M").
func keepBestM(cands []msvqCandidate, m int) []msvqCandidate {
	// insertion sort: m and per-stage candidate counts are small (<=8*128)
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && cands[j].dist < cands[j-1].dist; j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}
	if len(cands) > m {
		cands = cands[:m]
	}
	return cands
}

func weightedSqDist(target, cand, w []int32) int64 {
	var acc int64
	for i := range target {
		diff := int64(target[i] - cand[i])
		acc += int64(w[i]) * diff * diff
	}
	return acc
}

// vqLSPW computes the perceptual weight vector for LSF distance scoring:
// weight[i] is inversely proportional to the spacing between lsf[i] and
// its neighbors, emphasizing closely-spaced (sharp formant) LSFs, as
// described in spec §4.3. Weights are Q13 fixed point.
func vqLSPW(lsf [LPCOrder]Shortword) []int32 {
	w := make([]int32, LPCOrder)
	for i := 0; i < LPCOrder; i++ {
		lo := Shortword(0)
		if i > 0 {
			lo = lsf[i-1]
		}
		hi := Shortword(32767)
		if i < LPCOrder-1 {
			hi = lsf[i+1]
		}
		spacing := int32(hi) - int32(lo)
		if spacing < 1 {
			spacing = 1
		}
		w[i] = (1 << 18) / spacing
	}
	return msvqCheckWeights(w)
}

// msvqCheckWeights rescales the weight vector by a right shift if any
// weight exceeds 2.0 in Q13 (spec §4.3), bounding the weighted distances
// weightedSqDist accumulates (in int64).
func msvqCheckWeights(w []int32) []int32 {
	const maxWeightQ13 = 2 << 13
	maxW := int32(0)
	for _, v := range w {
		if v > maxW {
			maxW = v
		}
	}
	shift := 0
	for maxW > maxWeightQ13 {
		maxW >>= 1
		shift++
	}
	if shift == 0 {
		return w
	}
	out := make([]int32, len(w))
	for i, v := range w {
		out[i] = v >> uint(shift)
	}
	return out
}

// lsfPoolsAsInt32Dim10 adapts a fixed-size stage pool of Shortword vectors into
// the []int32 slice-of-slices shape msvqSearch expects.
func lsfPoolsAsInt32Dim10(stages [][LPCOrder]Shortword) [][]int32 {
	out := make([][]int32, len(stages))
	for i, v := range stages {
		row := make([]int32, LPCOrder)
		for d := 0; d < LPCOrder; d++ {
			row[d] = int32(v[d])
		}
		out[i] = row
	}
	return out
}

// lsfCodebook2400Pools adapts the package-level 2400 b/s MSVQ table into
// the [][][]int32 shape msvqSearch/msvqReconstruct expect.
func lsfCodebook2400Pools() [][][]int32 {
	pools := make([][][]int32, msvqStages)
	for s := 0; s < msvqStages; s++ {
		pools[s] = lsfPoolsAsInt32Dim10(lsfCodebook2400[s])
	}
	return pools
}

// lsfPools600 adapts a multi-stage 600 b/s LSF pool (as returned by
// CodebookSelector.LSFPool) into the [][][]int32 shape msvqSearch and
// msvqReconstruct expect.
func lsfPools600(cb [][][lsfDim600]Shortword) [][][]int32 {
	pools := make([][][]int32, len(cb))
	for s, stage := range cb {
		pools[s] = lsfPoolsAsInt32DimN(stage)
	}
	return pools
}

func lsfPoolsAsInt32DimN(stages [][lsfDim600]Shortword) [][]int32 {
	out := make([][]int32, len(stages))
	for i, v := range stages {
		row := make([]int32, lsfDim600)
		for d := 0; d < lsfDim600; d++ {
			row[d] = int32(v[d])
		}
		out[i] = row
	}
	return out
}
