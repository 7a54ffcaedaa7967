package parsing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordParserParse(t *testing.T) {
	resume := strings.Join([]string{
		"Jane Smith",
		"jane@example.com",
		"",
		"Worked on a Kubernetes migration for the payments platform.",
		"- Project: internal billing dashboard in React",
		"Skills: Python, SQL, Docker",
	}, "\n")

	profile, err := KeywordParser{}.Parse(context.Background(), []byte(resume))

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"python", "react", "sql", "docker", "kubernetes"}, profile.Skills)
	require.Len(t, profile.Projects, 2)
	assert.Contains(t, profile.Projects[0].Title, "Kubernetes migration")
	assert.Contains(t, profile.Projects[1].Title, "billing dashboard")
	assert.NotEmpty(t, profile.Summary)
}

func TestKeywordParserAnonymizes(t *testing.T) {
	resume := "Jane Smith\njane@example.com\nWorked on search infrastructure."

	profile, err := KeywordParser{}.Parse(context.Background(), []byte(resume))

	require.NoError(t, err)
	assert.NotContains(t, profile.Summary, "jane@example.com")
	assert.NotContains(t, profile.Summary, "Jane Smith")
	assert.Contains(t, profile.Summary, redactedEmail)
}

func TestKeywordParserSummaryCapped(t *testing.T) {
	resume := "Overview\n" + strings.Repeat("built systems ", 100)

	profile, err := KeywordParser{}.Parse(context.Background(), []byte(resume))

	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(profile.Summary)), summaryChars)
}

func TestKeywordParserNoMatches(t *testing.T) {
	profile, err := KeywordParser{}.Parse(context.Background(), []byte("Short note about gardening."))

	require.NoError(t, err)
	assert.Empty(t, profile.Skills)
	assert.Empty(t, profile.Projects)
}

func TestKeywordParserRejectsEmptyDocument(t *testing.T) {
	_, err := KeywordParser{}.Parse(context.Background(), nil)

	assert.Error(t, err)
}
