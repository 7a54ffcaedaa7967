package audio

import (
	"encoding/binary"
	"math"

	"github.com/jonathan/interview-screener/internal/faults"
)

// CanonicalSampleRate is the fixed sample rate of normalized audio.
const CanonicalSampleRate = 16000

// Supported fmt-chunk audio format tags.
const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// Normalize converts an arbitrarily encoded capture into the canonical
// container: decode, downmix to mono by per-frame channel average, resample
// to 16 kHz by linear interpolation, quantize to 16-bit PCM. It is a pure
// function of its input bytes: same input, bit-identical output, no I/O.
func Normalize(raw []byte) ([]byte, error) {
	samples, channels, rate, err := decodeFrames(raw)
	if err != nil {
		return nil, err
	}

	mono := downmix(samples, channels)
	mono = resampleLinear(mono, rate, CanonicalSampleRate)
	if len(mono) == 0 {
		return nil, faults.Decode("audio too short to resample from %d Hz", rate)
	}

	return EncodeWAV(quantize(mono), CanonicalSampleRate)
}

// decodeFrames parses a WAV container of any channel count, sample rate, and
// supported sample encoding (PCM 8/16/24/32-bit, IEEE float 32-bit) into
// interleaved float frames. It walks RIFF chunks, so extra chunks such as
// LIST or fact are tolerated.
func decodeFrames(data []byte) ([]float64, int, int, error) {
	if len(data) < 12 {
		return nil, 0, 0, faults.Decode("container too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return nil, 0, 0, faults.Decode("missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return nil, 0, 0, faults.Decode("missing WAVE format")
	}

	var (
		haveFmt    bool
		format     uint16
		channels   int
		rate       int
		bits       int
		dataStart  int
		dataLength int
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if chunkSize < 0 || body+chunkSize > len(data) {
			return nil, 0, 0, faults.Decode("truncated %q chunk: declared %d bytes past end of input", chunkID, chunkSize)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, 0, faults.Decode("fmt chunk too short: %d bytes", chunkSize)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			rate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			dataStart = body
			dataLength = chunkSize
		}

		// RIFF chunks are word-aligned; odd sizes carry a pad byte.
		offset = body + chunkSize + chunkSize%2
	}

	switch {
	case !haveFmt:
		return nil, 0, 0, faults.Decode("missing fmt chunk")
	case dataStart == 0:
		return nil, 0, 0, faults.Decode("missing data chunk")
	case channels < 1:
		return nil, 0, 0, faults.Decode("invalid channel count %d", channels)
	case rate <= 0:
		return nil, 0, 0, faults.Decode("invalid sample rate %d", rate)
	}

	bytesPer, err := bytesPerSample(format, bits)
	if err != nil {
		return nil, 0, 0, err
	}

	frameBytes := bytesPer * channels
	numFrames := dataLength / frameBytes
	if numFrames == 0 {
		return nil, 0, 0, faults.Decode("no audio data")
	}

	samples := make([]float64, numFrames*channels)
	for i := range samples {
		p := data[dataStart+i*bytesPer:]
		switch {
		case format == formatIEEEFloat:
			samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
		case bits == 8:
			samples[i] = (float64(p[0]) - 128) / 128
		case bits == 16:
			samples[i] = sampleToFloat(int32(int16(binary.LittleEndian.Uint16(p))), 1<<15)
		case bits == 24:
			v := int32(p[0]) | int32(p[1])<<8 | int32(p[2])<<16
			if v&0x800000 != 0 {
				v -= 1 << 24
			}
			samples[i] = sampleToFloat(v, 1<<23)
		case bits == 32:
			samples[i] = sampleToFloat(int32(binary.LittleEndian.Uint32(p)), 1<<31)
		}
	}
	return samples, channels, rate, nil
}

func bytesPerSample(format uint16, bits int) (int, error) {
	switch format {
	case formatPCM:
		switch bits {
		case 8, 16, 24, 32:
			return bits / 8, nil
		}
		return 0, faults.Decode("unsupported PCM bit depth %d", bits)
	case formatIEEEFloat:
		if bits != 32 {
			return 0, faults.Decode("unsupported float bit depth %d", bits)
		}
		return 4, nil
	default:
		return 0, faults.Decode("unsupported audio format tag %d", format)
	}
}

// sampleToFloat maps a signed integer sample to [-1, 1] with the asymmetric
// scaling that mirrors quantize, so already-canonical input round-trips
// bit-exactly.
func sampleToFloat(v int32, negScale float64) float64 {
	if v < 0 {
		return float64(v) / negScale
	}
	return float64(v) / (negScale - 1)
}

// downmix averages interleaved channels into mono frames.
func downmix(interleaved []float64, channels int) []float64 {
	if channels == 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

// resampleLinear converts in from inRate to outRate by linear interpolation.
// Equal rates are an identity: the input slice is returned untouched.
func resampleLinear(in []float64, inRate, outRate int) []float64 {
	if inRate == outRate {
		return in
	}

	n := len(in)
	outN := int(float64(n) * float64(outRate) / float64(inRate))
	if outN <= 0 {
		return nil
	}

	out := make([]float64, outN)
	step := float64(inRate) / float64(outRate)
	for i := range out {
		pos := float64(i) * step
		i0 := int(pos)
		if i0 > n-1 {
			i0 = n - 1
		}
		i1 := i0 + 1
		if i1 > n-1 {
			i1 = n - 1
		}
		frac := pos - float64(i0)
		out[i] = in[i0] + (in[i1]-in[i0])*frac
	}
	return out
}

// quantize clamps samples to [-1, 1] and scales to int16: negative values by
// 32768, non-negative by 32767, rounded half away from zero. No dithering.
func quantize(in []float64) []int16 {
	out := make([]int16, len(in))
	for i, s := range in {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		if s < 0 {
			out[i] = int16(math.Round(s * 32768))
		} else {
			out[i] = int16(math.Round(s * 32767))
		}
	}
	return out
}
