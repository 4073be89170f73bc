package melp

import "testing"

func TestQuantize1200RoundTrip(t *testing.T) {
	var frames [framesPerBlock1200]FrameModel
	for i := range frames {
		frames[i] = sampleFrame(i%2 == 0)
	}
	blk, _ := quantize1200(frames)
	buf := packBlock1200(blk)
	if len(buf) != Rate1200.FrameBytes() {
		t.Fatalf("packed block length = %d, want %d", len(buf), Rate1200.FrameBytes())
	}
	blk2 := unpackBlock1200(buf)
	if blk2 != blk {
		t.Fatalf("unpack(pack(blk)) = %+v, want %+v", blk2, blk)
	}
	out := dequantize1200(blk2)
	for _, f := range out {
		for i := 1; i < LPCOrder; i++ {
			if f.LSF[i] < f.LSF[i-1]+bwMinQ15 {
				t.Fatalf("lsf monotonicity violated: %v", f.LSF)
			}
		}
	}
}
