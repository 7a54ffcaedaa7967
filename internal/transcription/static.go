package transcription

import (
	"context"

	"github.com/jonathan/interview-screener/internal/faults"
)

// StaticTranscriber returns a fixed transcript for every clip. It stands
// in for the speech-to-text service in offline runs so answer submission
// still completes end to end.
type StaticTranscriber struct {
	Text string
}

// Transcribe returns the configured text without looking at the audio.
func (s StaticTranscriber) Transcribe(_ context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", faults.Validation("audio", "audio payload is empty")
	}
	return s.Text, nil
}
