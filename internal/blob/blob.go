// Package blob stores opaque audio and report objects keyed by reference
// strings. References are path-shaped and scoped per candidate so a session's
// artifacts can be listed or purged together.
package blob

import (
	"context"
	"fmt"
)

// Store is the object store the pipeline writes audio and reports through.
type Store interface {
	Put(ctx context.Context, ref, contentType string, data []byte) error
	Get(ctx context.Context, ref string) (data []byte, contentType string, err error)
	Delete(ctx context.Context, ref string) error
}

// QuestionRef is the storage reference for a synthesized question prompt.
func QuestionRef(candidateID, questionID string) string {
	return fmt.Sprintf("%s/questions/%s.wav", candidateID, questionID)
}

// AnswerRef is the storage reference for a raw answer upload.
func AnswerRef(candidateID, questionID string) string {
	return fmt.Sprintf("%s/answers/%s.wav", candidateID, questionID)
}

// NormalizedAnswerRef is the storage reference for the canonical-form answer.
func NormalizedAnswerRef(candidateID, questionID string) string {
	return fmt.Sprintf("%s/answers/%s.norm.wav", candidateID, questionID)
}

// ReportRef is the storage reference for the final analysis report.
func ReportRef(candidateID string) string {
	return fmt.Sprintf("%s/reports/report.json", candidateID)
}
