package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-screener/internal/types"
)

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.Profile{
		Skills:          []string{"Go", "PostgreSQL", "Kubernetes"},
		ExperienceYears: 7.5,
		Education:       "BSc Computer Science",
		Projects: []types.Project{
			{Title: "Payment gateway", TechStack: []string{"Go", "Kafka"}, Years: 2},
			{Title: "Internal CLI tooling"},
		},
	}

	p.PrintProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE PROFILE")
	assert.Contains(t, output, "7.5 years")
	assert.Contains(t, output, "BSc Computer Science")
	assert.Contains(t, output, "Go")
	assert.Contains(t, output, "Payment gateway")
	assert.Contains(t, output, "Go, Kafka")
}

func TestPrintProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(nil)

	assert.Empty(t, buf.String())
}

func TestPrintProfile_ManySkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.Profile{
		Skills: []string{"a", "b", "c", "d", "e", "f", "g"},
	}

	p.PrintProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "... and 2 more")
}

func TestPrintQuestions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	questions := []types.Question{
		{ID: "q1", Text: "Tell me about the payment gateway.", AudioReference: "cand-1/questions/q1.wav"},
		{ID: "q2", Text: "How do you test risky changes?"},
	}

	p.PrintQuestions(questions)
	output := buf.String()

	assert.Contains(t, output, "INTERVIEW QUESTIONS")
	assert.Contains(t, output, "Generated 2 questions")
	assert.Contains(t, output, "q1")
	assert.Contains(t, output, "payment gateway")
	assert.Contains(t, output, "cand-1/questions/q1.wav")
	assert.Contains(t, output, "q2")
}

func TestPrintQuestions_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuestions(nil)

	assert.Empty(t, buf.String())
}

func TestPrintQuestions_TruncatesLongText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	questions := []types.Question{
		{ID: "q1", Text: strings.Repeat("very long question text ", 10)},
	}

	p.PrintQuestions(questions)
	output := buf.String()

	assert.Contains(t, output, "...")
	for _, line := range strings.Split(output, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth, "line exceeds box width: %q", line)
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &types.Report{
		CandidateID:    "cand-1a2b3c4d",
		QuestionsCount: 2,
		Result: types.Result{
			PerQuestion: []types.QuestionScore{
				{QuestionID: "q1", TechnicalAccuracy: 4, Depth: 3, Communication: 2, Ownership: 2, Total: 11},
				{QuestionID: "q2", TechnicalAccuracy: 2, Depth: 2, Communication: 1, Ownership: 1, Total: 6},
			},
			Aggregate: types.Aggregate{
				TotalScore:     17,
				MaxScore:       30,
				Recommendation: types.RecommendHold,
				Summary:        "Solid on fundamentals but shallow on system design follow-ups.",
			},
		},
	}

	p.PrintReport(report)
	output := buf.String()

	assert.Contains(t, output, "SCREENING REPORT")
	assert.Contains(t, output, "q1")
	assert.Contains(t, output, "17 / 30")
	assert.Contains(t, output, types.RecommendHold)
	assert.Contains(t, output, "fundamentals")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(nil)

	assert.Empty(t, buf.String())
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)

	assert.Equal(t, []string{"one two", "three", "four five"}, lines)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 9)
	}
}

func TestWrapText_Empty(t *testing.T) {
	assert.Nil(t, wrapText("   ", 10))
}
