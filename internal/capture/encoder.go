package capture

import "math"

// Encode concatenates blocks in order and converts them to PCM16.
func Encode(blocks []Block) Utterance {
	total := 0
	for _, b := range blocks {
		total += len(b)
	}
	out := make([]int16, 0, total)
	for _, b := range blocks {
		for _, s := range b {
			out = append(out, FloatToPCM16(s))
		}
	}
	return Utterance{AudioData: out, SampleRate: SampleRate}
}

// FloatToPCM16 clamps s to [-1, 1] and scales negatives by 32768 and the rest by 32767,
// truncating toward zero.
func FloatToPCM16(s float32) int16 {
	if math.IsNaN(float64(s)) {
		return 0
	}
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	if s < 0 {
		return int16(s * 0x8000)
	}
	return int16(s * 0x7FFF)
}
