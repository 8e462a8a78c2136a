// Package wav frames 16-bit PCM samples in the canonical 44-byte RIFF/WAVE container
// and parses that header back.
package wav

import (
	"encoding/binary"
	"fmt"
)

const (
	HeaderSize = 44

	// BitsPerSample is the only sample width written by Encode.
	BitsPerSample = 16

	formatPCM      = 1
	bytesPerSample = BitsPerSample / 8
	fmtChunkSize   = 16
	riffHeaderSize = 36
)

// Header mirrors the fields of the canonical 44-byte header.
type Header struct {
	ChunkSize     uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// Encode writes the 16-bit PCM header followed by the little-endian samples.
// Multi-channel samples must already be interleaved.
func Encode(samples []int16, sampleRate, channels int) []byte {
	dataSize := uint32(len(samples) * bytesPerSample)

	out := make([]byte, HeaderSize+int(dataSize))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], riffHeaderSize+dataSize)
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(out[20:22], formatPCM)
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(sampleRate)*uint32(channels)*bytesPerSample)
	binary.LittleEndian.PutUint16(out[32:34], uint16(uint32(channels)*bytesPerSample))
	binary.LittleEndian.PutUint16(out[34:36], BitsPerSample)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], dataSize)

	body := out[HeaderSize:]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(body[i*bytesPerSample:], uint16(s))
	}
	return out
}

// EncodeMono16 frames mono 16-bit samples, the only layout the capture chain produces.
func EncodeMono16(samples []int16, sampleRate int) []byte {
	return Encode(samples, sampleRate, 1)
}

func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("wav data too short: need at least %d bytes, got %d", HeaderSize, len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return Header{}, fmt.Errorf("invalid wav: missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return Header{}, fmt.Errorf("invalid wav: missing WAVE format")
	}
	if string(data[12:16]) != "fmt " {
		return Header{}, fmt.Errorf("invalid wav: missing fmt chunk")
	}
	if string(data[36:40]) != "data" {
		return Header{}, fmt.Errorf("invalid wav: missing data chunk")
	}
	return Header{
		ChunkSize:     binary.LittleEndian.Uint32(data[4:8]),
		AudioFormat:   binary.LittleEndian.Uint16(data[20:22]),
		NumChannels:   binary.LittleEndian.Uint16(data[22:24]),
		SampleRate:    binary.LittleEndian.Uint32(data[24:28]),
		ByteRate:      binary.LittleEndian.Uint32(data[28:32]),
		BlockAlign:    binary.LittleEndian.Uint16(data[32:34]),
		BitsPerSample: binary.LittleEndian.Uint16(data[34:36]),
		DataSize:      binary.LittleEndian.Uint32(data[40:44]),
	}, nil
}

// NumSamples counts samples across all channels.
func (h Header) NumSamples() int {
	if h.BitsPerSample == 0 {
		return 0
	}
	return int(h.DataSize) / int(h.BitsPerSample/8)
}

// Duration returns the playback length in seconds.
func (h Header) Duration() float64 {
	if h.ByteRate == 0 {
		return 0
	}
	return float64(h.DataSize) / float64(h.ByteRate)
}

// DecodeMono16 returns the samples of a mono 16-bit PCM container.
func DecodeMono16(data []byte) ([]int16, int, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, 0, err
	}
	if h.AudioFormat != formatPCM {
		return nil, 0, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", h.AudioFormat)
	}
	if h.BitsPerSample != 16 {
		return nil, 0, fmt.Errorf("unsupported bit depth: %d (only 16-bit is supported)", h.BitsPerSample)
	}
	if h.NumChannels != 1 {
		return nil, 0, fmt.Errorf("unsupported channel count: %d (only mono is supported)", h.NumChannels)
	}
	body := data[HeaderSize:]
	if int(h.DataSize) < len(body) {
		body = body[:h.DataSize]
	}
	samples := make([]int16, len(body)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(body[i*2:]))
	}
	return samples, int(h.SampleRate), nil
}
