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

func TestQuestionsCommand_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantError   bool
		errorString string
	}{
		{
			name:        "Missing --profile flag",
			args:        []string{"questions", "--out", "/tmp/questions.json"},
			wantError:   true,
			errorString: "required",
		},
		{
			name:        "Missing --out flag",
			args:        []string{"questions", "--profile", "/tmp/profile.json"},
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

func TestQuestionsCommand_Fallback(t *testing.T) {
	bin := binaryPath(t)
	tmpDir := t.TempDir()

	profileContent := `{
		"skills": ["Go", "PostgreSQL", "Kubernetes"],
		"projects": [
			{
				"title": "Billing pipeline",
				"description": "Rebuilt invoice generation as an event-driven pipeline",
				"tech_stack": ["Go", "Kafka"],
				"years": 1.5
			}
		],
		"experience_years": 4.0
	}`
	profileFile := filepath.Join(tmpDir, "profile.json")
	require.NoError(t, os.WriteFile(profileFile, []byte(profileContent), 0644))

	outputFile := filepath.Join(tmpDir, "questions.json")

	cmd := exec.Command(bin, "questions",
		"--profile", profileFile, "--out", outputFile, "--count", "4", "--fallback")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "Command failed with output: %s", string(output))

	assert.Contains(t, string(output), "Successfully generated 4 questions")

	outputContent, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var questions []types.Question
	require.NoError(t, json.Unmarshal(outputContent, &questions))
	require.Len(t, questions, 4)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Contains(t, questions[0].Text, "Billing pipeline")
	for _, q := range questions {
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.IdealAnswer)
	}
}

func TestQuestionsCommand_InvalidProfileFile(t *testing.T) {
	bin := binaryPath(t)
	tmpDir := t.TempDir()
	outputFile := filepath.Join(tmpDir, "questions.json")

	cmd := exec.Command(bin, "questions",
		"--profile", "/nonexistent/profile.json", "--out", outputFile, "--fallback")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to read profile file")
}

func TestQuestionsCommand_InvalidProfileJSON(t *testing.T) {
	bin := binaryPath(t)
	tmpDir := t.TempDir()

	profileFile := filepath.Join(tmpDir, "invalid.json")
	require.NoError(t, os.WriteFile(profileFile, []byte(`{ invalid json }`), 0644))

	outputFile := filepath.Join(tmpDir, "questions.json")

	cmd := exec.Command(bin, "questions",
		"--profile", profileFile, "--out", outputFile, "--fallback")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to unmarshal profile JSON")
}

func TestQuestionsCommand_InvalidCount(t *testing.T) {
	bin := binaryPath(t)
	tmpDir := t.TempDir()

	profileFile := filepath.Join(tmpDir, "profile.json")
	require.NoError(t, os.WriteFile(profileFile, []byte(`{"skills": ["Go"]}`), 0644))

	outputFile := filepath.Join(tmpDir, "questions.json")

	cmd := exec.Command(bin, "questions",
		"--profile", profileFile, "--out", outputFile, "--count", "0", "--fallback")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to generate questions")
	assert.Contains(t, string(output), "at least 1")
}
