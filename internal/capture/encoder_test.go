package capture

import (
	"math"
	"testing"
)

func TestFloatToPCM16(t *testing.T) {
	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32768},
		{0.5, 16383},
		{-0.5, -16384},
		{1.5, 32767},
		{-3, -32768},
		{float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		if got := FloatToPCM16(tt.in); got != tt.want {
			t.Fatalf("FloatToPCM16(%v): got %d want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncode_ConcatenatesBlocks(t *testing.T) {
	u := Encode([]Block{{1, 0}, {}, {-1}})
	if len(u.AudioData) != 3 {
		t.Fatalf("unexpected length: %d", len(u.AudioData))
	}
	if u.AudioData[0] != 32767 || u.AudioData[1] != 0 || u.AudioData[2] != -32768 {
		t.Fatalf("unexpected samples: %v", u.AudioData)
	}
}

func TestEncode_MonotonicAcrossRange(t *testing.T) {
	prev := FloatToPCM16(-1)
	for i := -999; i <= 1000; i++ {
		cur := FloatToPCM16(float32(i) / 1000)
		if cur < prev {
			t.Fatalf("conversion not monotonic at %d: %d < %d", i, cur, prev)
		}
		prev = cur
	}
}
