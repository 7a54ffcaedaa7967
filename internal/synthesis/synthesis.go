// Package synthesis turns question text into spoken audio. The HTTP
// implementation calls an external text-to-speech service; ToneSynthesizer
// renders placeholder audio for offline runs.
package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/interview-screener/internal/faults"
)

const serviceName = "synthesizer"

// Synthesizer renders spoken WAV audio for a piece of text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// HTTPSynthesizer calls a text-to-speech service over HTTP: a JSON POST
// with the text and voice, WAV bytes back.
type HTTPSynthesizer struct {
	endpoint string
	voice    string
	apiKey   string
	client   *http.Client
}

// NewHTTPSynthesizer creates a synthesizer client for the given endpoint.
// apiKey may be empty for services that do not require auth.
func NewHTTPSynthesizer(endpoint, voice, apiKey string, timeout time.Duration) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		endpoint: endpoint,
		voice:    voice,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type synthesisRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Synthesize renders text to WAV bytes. Network failures and 429/5xx
// responses come back transient; other failures are fatal.
func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, faults.Validation("text", "synthesis text is empty")
	}

	body, err := json.Marshal(synthesisRequest{Text: text, Voice: s.voice})
	if err != nil {
		return nil, faults.Fatal(serviceName, fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, faults.Fatal(serviceName, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, faults.Transient(serviceName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, faults.FromStatus(serviceName, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, faults.Transient(serviceName, fmt.Errorf("failed to read audio body: %w", err))
	}
	if len(audio) == 0 {
		return nil, faults.Fatal(serviceName, fmt.Errorf("synthesizer returned an empty body"))
	}
	return audio, nil
}
