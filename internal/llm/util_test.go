package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlockFences(t *testing.T) {
	questionsJSON := `{"questions": [{"text": "Tell me about the billing pipeline.", "ideal_answer": "Covers design and tradeoffs."}]}`

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON untouched",
			input:    questionsJSON,
			expected: questionsJSON,
		},
		{
			name:     "json fence",
			input:    "```json\n" + questionsJSON + "\n```",
			expected: questionsJSON,
		},
		{
			name:     "bare fence",
			input:    "```\n" + questionsJSON + "\n```",
			expected: questionsJSON,
		},
		{
			name:     "fence with other language tag",
			input:    "```javascript\n{\"total\": 12}\n```",
			expected: `{"total": 12}`,
		},
		{
			name:     "payload on the fence line",
			input:    "```{\"per_question\": [],\n\"summary\": \"ok\"}\n```",
			expected: "{\"per_question\": [],\n\"summary\": \"ok\"}",
		},
		{
			name:     "single line fence",
			input:    "```json {\"skills\": [\"go\"]}```",
			expected: `{"skills": ["go"]}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "\n\n  ```json\n{\"depth\": 4}\n```  \n",
			expected: `{"depth": 4}`,
		},
		{
			name:     "unterminated fence",
			input:    "```json\n{\"ownership\": 2}",
			expected: `{"ownership": 2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlockProse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before object",
			input:    "Here is the requested grading:\n{\"summary\": \"solid answers\"}",
			expected: `{"summary": "solid answers"}`,
		},
		{
			name:     "preamble before array",
			input:    "The skills are:\n[\"go\", \"postgres\"]",
			expected: `["go", "postgres"]`,
		},
		{
			name:     "trailing prose dropped",
			input:    "{\"recommendation\": \"HIRE\"}\n\nLet me know if you need anything else!",
			expected: `{"recommendation": "HIRE"}`,
		},
		{
			name:     "braces inside strings survive",
			input:    "Result: {\"notes\": \"used fmt.Sprintf(\\\"{%d}\\\", n) here\"}",
			expected: `{"notes": "used fmt.Sprintf(\"{%d}\", n) here"}`,
		},
		{
			name:     "nested objects balanced",
			input:    "Output:\n{\"aggregate\": {\"total_score\": 24, \"max_score\": 30}}",
			expected: `{"aggregate": {"total_score": 24, "max_score": 30}}`,
		},
		{
			name:     "no JSON at all returned as-is",
			input:    "I could not grade this interview.",
			expected: "I could not grade this interview.",
		},
		{
			name:     "unbalanced JSON returned as-is",
			input:    `{"per_question": [`,
			expected: `{"per_question": [`,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlockFencedProse(t *testing.T) {
	// Both wrappers at once: a fence whose body carries prose around the value.
	input := "```json\nSure, the profile is:\n{\"skills\": [\"kubernetes\"]}\n```"

	assert.Equal(t, `{"skills": ["kubernetes"]}`, CleanJSONBlock(input))
}
