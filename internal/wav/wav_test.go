package wav

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	beepwav "github.com/gopxl/beep/wav"
)

func TestEncode_HeaderLayout(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768}
	out := EncodeMono16(samples, 48000)

	if len(out) != HeaderSize+2*len(samples) {
		t.Fatalf("unexpected length: %d", len(out))
	}
	checks := []struct {
		name string
		got  string
		want string
	}{
		{"riff", string(out[0:4]), "RIFF"},
		{"wave", string(out[8:12]), "WAVE"},
		{"fmt", string(out[12:16]), "fmt "},
		{"data", string(out[36:40]), "data"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s tag: got %q want %q", c.name, c.got, c.want)
		}
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != 36+10 {
		t.Fatalf("unexpected chunk size: %d", got)
	}
	if got := binary.LittleEndian.Uint32(out[16:20]); got != 16 {
		t.Fatalf("unexpected fmt size: %d", got)
	}
	if got := binary.LittleEndian.Uint32(out[28:32]); got != 96000 {
		t.Fatalf("unexpected byte rate: %d", got)
	}
	if got := binary.LittleEndian.Uint16(out[32:34]); got != 2 {
		t.Fatalf("unexpected block align: %d", got)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 10 {
		t.Fatalf("unexpected data size: %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[HeaderSize+8:])); got != -32768 {
		t.Fatalf("unexpected last sample: %d", got)
	}
}

func TestEncode_Empty(t *testing.T) {
	out := EncodeMono16(nil, 48000)
	if len(out) != HeaderSize {
		t.Fatalf("expected header only, got %d bytes", len(out))
	}
	h, err := ParseHeader(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.DataSize != 0 || h.ChunkSize != 36 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestEncode_StereoHeaderFields(t *testing.T) {
	out := Encode([]int16{1, 2, 3, 4}, 44100, 2)
	h, err := ParseHeader(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.NumChannels != 2 || h.SampleRate != 44100 || h.ByteRate != 44100*4 || h.BlockAlign != 4 {
		t.Fatalf("unexpected header: %+v", h)
	}
	if h.NumSamples() != 4 {
		t.Fatalf("unexpected sample count: %d", h.NumSamples())
	}
	if h.BitsPerSample != BitsPerSample || int(h.DataSize) != len(out)-HeaderSize {
		t.Fatalf("header does not describe the body: %+v body=%d", h, len(out)-HeaderSize)
	}
}

func TestRoundTrip(t *testing.T) {
	samples := make([]int16, 480)
	for i := range samples {
		samples[i] = int16(i*137 - 30000)
	}
	got, rate, err := DecodeMono16(EncodeMono16(samples, 48000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 48000 {
		t.Fatalf("unexpected sample rate: %d", rate)
	}
	if len(got) != len(samples) {
		t.Fatalf("unexpected sample count: %d", len(got))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Fatalf("sample %d: got %d want %d", i, got[i], samples[i])
		}
	}
}

func TestHeader_Duration(t *testing.T) {
	h, err := ParseHeader(EncodeMono16(make([]int16, 24000), 48000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(h.Duration()-0.5) > 1e-9 {
		t.Fatalf("unexpected duration: %v", h.Duration())
	}
}

func TestParseHeader_Invalid(t *testing.T) {
	if _, err := ParseHeader([]byte("RIFF")); err == nil {
		t.Fatal("expected error for short input")
	}
	bad := EncodeMono16([]int16{1}, 48000)
	copy(bad[8:12], "AVI ")
	if _, err := ParseHeader(bad); err == nil {
		t.Fatal("expected error for non-WAVE container")
	}
}

func TestDecodeMono16_RejectsStereo(t *testing.T) {
	if _, _, err := DecodeMono16(Encode([]int16{1, 2}, 48000, 2)); err == nil {
		t.Fatal("expected error for stereo input")
	}
}

func TestEncode_ReadableByIndependentDecoder(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767, -32768, 100}
	streamer, format, err := beepwav.Decode(bytes.NewReader(EncodeMono16(samples, 48000)))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	defer func() {
		_ = streamer.Close()
	}()

	if int(format.SampleRate) != 48000 || format.NumChannels != 1 || format.Precision != 2 {
		t.Fatalf("unexpected format: %+v", format)
	}
	if streamer.Len() != len(samples) {
		t.Fatalf("unexpected length: %d", streamer.Len())
	}

	buf := make([][2]float64, len(samples))
	n, ok := streamer.Stream(buf)
	if !ok || n != len(samples) {
		t.Fatalf("unexpected stream result: n=%d ok=%v", n, ok)
	}
	for i, s := range samples {
		// beep scales 16-bit samples by 1/(2^16-1).
		want := float64(s) / (1<<16 - 1)
		if math.Abs(buf[i][0]-want) > 1e-3 {
			t.Fatalf("sample %d: got %v want %v", i, buf[i][0], want)
		}
	}
}
