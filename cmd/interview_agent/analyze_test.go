package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-screener/internal/types"
)

func TestAnalyzeCommand_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantError   bool
		errorString string
	}{
		{
			name:        "Missing --questions flag",
			args:        []string{"analyze", "--transcripts", "/tmp/t.json", "--out", "/tmp/report.json"},
			wantError:   true,
			errorString: "required",
		},
		{
			name:        "Missing --transcripts flag",
			args:        []string{"analyze", "--questions", "/tmp/q.json", "--out", "/tmp/report.json"},
			wantError:   true,
			errorString: "required",
		},
		{
			name:        "Missing --out flag",
			args:        []string{"analyze", "--questions", "/tmp/q.json", "--transcripts", "/tmp/t.json"},
			wantError:   true,
			errorString: "required",
		},
	}

	bin := binaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(_ *testing.T) {
			cmd := exec.Command(bin, tt.args...)
			output, err := cmd.CombinedOutput()

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorString != "" {
					assert.Contains(t, string(output), tt.errorString)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func writeAnalyzeFixtures(t *testing.T, tmpDir string, transcripts map[string]string) (string, string) {
	t.Helper()

	questionsContent := `[
		{
			"id": "q1",
			"text": "Tell me about the billing pipeline rewrite.",
			"ideal_answer": "Describes the event-driven pipeline design, the kafka migration, and how invoices were kept correct during rollout."
		},
		{
			"id": "q2",
			"text": "Describe a real problem you solved using PostgreSQL.",
			"ideal_answer": "Names a concrete query or schema problem, the postgres features used, and the measured improvement."
		}
	]`
	questionsFile := filepath.Join(tmpDir, "questions.json")
	require.NoError(t, os.WriteFile(questionsFile, []byte(questionsContent), 0644))

	transcriptsContent, err := json.Marshal(transcripts)
	require.NoError(t, err)
	transcriptsFile := filepath.Join(tmpDir, "transcripts.json")
	require.NoError(t, os.WriteFile(transcriptsFile, transcriptsContent, 0644))

	return questionsFile, transcriptsFile
}

func TestAnalyzeCommand_Heuristic(t *testing.T) {
	bin := binaryPath(t)
	tmpDir := t.TempDir()

	questionsFile, transcriptsFile := writeAnalyzeFixtures(t, tmpDir, map[string]string{
		"q1": "I designed the event-driven pipeline and led the kafka migration so invoices stayed correct during rollout.",
		"q2": "We had a slow query on the invoices table, so I used postgres partial indexes and cut the latency measurably.",
	})

	outputFile := filepath.Join(tmpDir, "report.json")

	cmd := exec.Command(bin, "analyze",
		"--questions", questionsFile, "--transcripts", transcriptsFile,
		"--out", outputFile, "--candidate", "cand-test", "--heuristic")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "Command failed with output: %s", string(output))

	assert.Contains(t, string(output), "Successfully analyzed 2 answers")

	outputContent, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var report types.Report
	require.NoError(t, json.Unmarshal(outputContent, &report))
	assert.Equal(t, "cand-test", report.CandidateID)
	assert.Equal(t, 2, report.QuestionsCount)
	require.Len(t, report.Result.PerQuestion, 2)
	assert.Equal(t, "q1", report.Result.PerQuestion[0].QuestionID)
	assert.Equal(t, 30, report.Result.Aggregate.MaxScore)
	assert.NotEmpty(t, report.Result.Aggregate.Recommendation)
	assert.NotEmpty(t, report.Result.Aggregate.Summary)
}

func TestAnalyzeCommand_MissingTranscriptGradesEmpty(t *testing.T) {
	bin := binaryPath(t)
	tmpDir := t.TempDir()

	// Only q1 answered; q2 should still be graded, as an empty transcript
	questionsFile, transcriptsFile := writeAnalyzeFixtures(t, tmpDir, map[string]string{
		"q1": "I led the kafka migration for the event-driven pipeline.",
	})

	outputFile := filepath.Join(tmpDir, "report.json")

	cmd := exec.Command(bin, "analyze",
		"--questions", questionsFile, "--transcripts", transcriptsFile,
		"--out", outputFile, "--heuristic")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "Command failed with output: %s", string(output))

	var report types.Report
	outputContent, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(outputContent, &report))

	require.Len(t, report.Result.PerQuestion, 2)
	assert.Equal(t, 0, report.Result.PerQuestion[1].Total)
}

func TestAnalyzeCommand_InvalidQuestionsJSON(t *testing.T) {
	bin := binaryPath(t)
	tmpDir := t.TempDir()

	questionsFile := filepath.Join(tmpDir, "invalid.json")
	require.NoError(t, os.WriteFile(questionsFile, []byte(`{ invalid json }`), 0644))

	transcriptsFile := filepath.Join(tmpDir, "transcripts.json")
	require.NoError(t, os.WriteFile(transcriptsFile, []byte(`{}`), 0644))

	outputFile := filepath.Join(tmpDir, "report.json")

	cmd := exec.Command(bin, "analyze",
		"--questions", questionsFile, "--transcripts", transcriptsFile,
		"--out", outputFile, "--heuristic")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to unmarshal questions JSON")
}

func TestAnalyzeCommand_InvalidTranscriptsFile(t *testing.T) {
	bin := binaryPath(t)
	tmpDir := t.TempDir()

	questionsFile := filepath.Join(tmpDir, "questions.json")
	require.NoError(t, os.WriteFile(questionsFile, []byte(`[]`), 0644))

	outputFile := filepath.Join(tmpDir, "report.json")

	cmd := exec.Command(bin, "analyze",
		"--questions", questionsFile, "--transcripts", "/nonexistent/transcripts.json",
		"--out", outputFile, "--heuristic")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to read transcripts file")
}
