package melp

import "testing"

func TestBitWriterReaderRoundTrip(t *testing.T) {
	cases := []struct {
		vals  []uint32
		width int
	}{
		{[]uint32{0, 1, 2, 3}, 2},
		{[]uint32{0, 127, 63, 1}, 7},
		{[]uint32{0x1ff, 0, 0x1ff}, 9},
	}
	for _, c := range cases {
		w := NewBitWriter(len(c.vals) * c.width)
		for _, v := range c.vals {
			w.WriteBits(v, c.width)
		}
		r := NewBitReader(w.Bytes())
		for i, want := range c.vals {
			got := r.ReadBits(c.width)
			if got != want {
				t.Fatalf("width %d, idx %d: got %d, want %d", c.width, i, got, want)
			}
		}
	}
}

func TestFieldToBitsRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 5, 31, 63} {
		bits := fieldToBits(v, 6)
		if got := bitsToField(bits); got != v {
			t.Fatalf("fieldToBits/bitsToField round trip: got %d, want %d", got, v)
		}
	}
}

func TestPermuteBitsInverse(t *testing.T) {
	bits := []bool{true, false, true, true, false}
	order := []int{4, 3, 2, 1, 0}
	permuted := permuteBits(bits, order)
	inverse := make([]bool, len(bits))
	for k, src := range order {
		inverse[src] = permuted[k]
	}
	for i := range bits {
		if inverse[i] != bits[i] {
			t.Fatalf("permute inverse mismatch at %d: got %v, want %v", i, inverse[i], bits[i])
		}
	}
}
