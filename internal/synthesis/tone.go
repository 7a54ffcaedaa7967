package synthesis

import (
	"context"
	"math"
	"strings"

	"github.com/jonathan/interview-screener/internal/audio"
	"github.com/jonathan/interview-screener/internal/faults"
)

const (
	toneSeconds   = 2
	toneFrequency = 440.0
	toneAmplitude = 0.2
)

// ToneSynthesizer renders a short fixed tone instead of speech. It keeps
// the pipeline shape identical when no text-to-speech service is
// configured: every question still gets a playable WAV clip.
type ToneSynthesizer struct{}

// Synthesize returns a two-second sine tone at the canonical sample rate.
func (ToneSynthesizer) Synthesize(_ context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, faults.Validation("text", "synthesis text is empty")
	}

	samples := make([]int16, audio.CanonicalSampleRate*toneSeconds)
	for i := range samples {
		v := toneAmplitude * math.Sin(2*math.Pi*toneFrequency*float64(i)/audio.CanonicalSampleRate)
		samples[i] = int16(v * 32767)
	}
	return audio.EncodeWAV(samples, audio.CanonicalSampleRate)
}
