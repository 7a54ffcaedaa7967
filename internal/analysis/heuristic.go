package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/interview-screener/internal/types"
)

// stopWords are excluded from overlap scoring; they carry no signal about
// whether an answer covered the ideal answer's substance.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "to": true, "in": true, "on": true, "for": true,
	"with": true, "is": true, "are": true, "was": true, "were": true,
	"it": true, "that": true, "this": true, "as": true, "at": true,
	"by": true, "be": true, "they": true, "their": true,
}

// ownershipMarkers signal first-hand work in a transcript.
var ownershipMarkers = map[string]bool{
	"i": true, "my": true, "we": true, "our": true, "me": true,
}

// HeuristicAnalyst grades transcripts by keyword overlap with the ideal
// answer. Deterministic and offline; far coarser than the LLM analyst,
// but it produces a structurally identical report.
type HeuristicAnalyst struct{}

// Analyze scores each exchange from token overlap, transcript length,
// and first-person markers.
func (HeuristicAnalyst) Analyze(_ context.Context, req *Request) (*types.Report, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	scores := make([]types.QuestionScore, 0, len(req.Exchanges))
	strong := 0
	for _, ex := range req.Exchanges {
		score, overlap := gradeExchange(ex)
		if overlap >= 0.5 {
			strong++
		}
		scores = append(scores, score)
	}

	summary := fmt.Sprintf(
		"Heuristic grading based on keyword overlap with the ideal answers; %d of %d answers showed strong coverage.",
		strong, len(req.Exchanges))
	return buildReport(req.CandidateID, scores, summary), nil
}

// gradeExchange scores one transcript. Overlap with the ideal answer
// drives technical accuracy, transcript length drives depth and
// communication, first-person markers drive ownership.
func gradeExchange(ex Exchange) (types.QuestionScore, float64) {
	idealTokens := contentTokens(ex.IdealAnswer)
	transcriptRaw := tokenize(ex.Transcript)
	transcriptSet := make(map[string]bool, len(transcriptRaw))
	for _, token := range transcriptRaw {
		transcriptSet[token] = true
	}

	matched := 0
	for token := range idealTokens {
		if transcriptSet[token] {
			matched++
		}
	}
	overlap := 0.0
	if len(idealTokens) > 0 {
		overlap = float64(matched) / float64(len(idealTokens))
	}

	words := len(transcriptRaw)
	depth := words / 25
	if depth > maxDepth {
		depth = maxDepth
	}
	communication := 0
	if words > 0 {
		communication = 1 + words/40
		if communication > maxCommunication {
			communication = maxCommunication
		}
	}
	ownership := 0
	for marker := range ownershipMarkers {
		if transcriptSet[marker] {
			ownership++
			if ownership == maxOwnership {
				break
			}
		}
	}

	return types.QuestionScore{
		QuestionID:        ex.QuestionID,
		TechnicalAccuracy: clampScore(overlap*maxTechnicalAccuracy, maxTechnicalAccuracy),
		Depth:             depth,
		Communication:     communication,
		Ownership:         ownership,
		Notes:             fmt.Sprintf("Matched %d of %d key terms from the ideal answer.", matched, len(idealTokens)),
	}, overlap
}

// contentTokens returns the deduplicated non-stopword tokens of s.
func contentTokens(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range tokenize(s) {
		if len(token) < 3 || stopWords[token] {
			continue
		}
		tokens[token] = true
	}
	return tokens
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
