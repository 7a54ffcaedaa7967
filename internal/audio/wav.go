// Package audio implements the canonical audio container and the normalizer
// that converts arbitrary captured audio into it. The canonical form is
// single-channel 16 kHz 16-bit linear PCM in a 44-byte WAV header whose byte
// layout is part of the external contract.
package audio

import (
	"bytes"
	"encoding/binary"

	"github.com/jonathan/interview-screener/internal/faults"
)

// WAVHeader is the canonical 44-byte container header. Field order and widths
// are fixed; all multi-byte fields are little-endian.
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // total size - 8 = 36 + data size
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 = linear PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // sample count * 2
}

// headerSize is the byte length of WAVHeader on the wire.
const headerSize = 44

// EncodeWAV wraps mono 16-bit samples in the canonical container.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, faults.Decode("cannot encode empty sample set")
	}
	if sampleRate <= 0 {
		return nil, faults.Decode("sample rate must be positive, got %d", sampleRate)
	}

	dataSize := uint32(len(samples) * 2)
	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * 2,
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(samples)*2))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, faults.Decode("write header: %v", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, faults.Decode("write samples: %v", err)
	}
	return buf.Bytes(), nil
}

// DecodeWAV reads a canonical-form container (mono 16-bit PCM with a plain
// 44-byte header) back into samples and its sample rate. For arbitrary
// captured audio use Normalize, which accepts more input shapes.
func DecodeWAV(data []byte) ([]int16, int, error) {
	if len(data) < headerSize {
		return nil, 0, faults.Decode("container too short: need at least %d bytes, got %d", headerSize, len(data))
	}

	var header WAVHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, 0, faults.Decode("read header: %v", err)
	}

	switch {
	case string(header.ChunkID[:]) != "RIFF":
		return nil, 0, faults.Decode("missing RIFF header")
	case string(header.Format[:]) != "WAVE":
		return nil, 0, faults.Decode("missing WAVE format")
	case string(header.Subchunk1ID[:]) != "fmt ":
		return nil, 0, faults.Decode("missing fmt chunk")
	case string(header.Subchunk2ID[:]) != "data":
		return nil, 0, faults.Decode("missing data chunk")
	case header.AudioFormat != 1:
		return nil, 0, faults.Decode("unsupported audio format %d, canonical form is PCM", header.AudioFormat)
	case header.BitsPerSample != 16:
		return nil, 0, faults.Decode("unsupported bit depth %d, canonical form is 16-bit", header.BitsPerSample)
	case header.NumChannels != 1:
		return nil, 0, faults.Decode("unsupported channel count %d, canonical form is mono", header.NumChannels)
	case header.SampleRate == 0:
		return nil, 0, faults.Decode("sample rate is zero")
	}

	numSamples := int(header.Subchunk2Size) / 2
	if numSamples <= 0 {
		return nil, 0, faults.Decode("no audio data")
	}
	if headerSize+numSamples*2 > len(data) {
		return nil, 0, faults.Decode("truncated data chunk: declared %d bytes, have %d", header.Subchunk2Size, len(data)-headerSize)
	}

	samples := make([]int16, numSamples)
	if err := binary.Read(bytes.NewReader(data[headerSize:]), binary.LittleEndian, samples); err != nil {
		return nil, 0, faults.Decode("read samples: %v", err)
	}
	return samples, int(header.SampleRate), nil
}

// Duration returns the playback length in seconds of a canonical container.
func Duration(data []byte) (float64, error) {
	samples, rate, err := DecodeWAV(data)
	if err != nil {
		return 0, err
	}
	return float64(len(samples)) / float64(rate), nil
}
