package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-screener/internal/analysis"
	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/observability"
	"github.com/jonathan/interview-screener/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Grade interview transcripts into a screening report",
	Long:  "Grades transcribed answers against their questions and ideal answers, producing a ScreeningReport JSON with per-question scores and a hire recommendation. Uses the Gemini analyst when GEMINI_API_KEY is set and the offline heuristic otherwise.",
	RunE:  runAnalyze,
}

var (
	analyzeQuestions   string
	analyzeTranscripts string
	analyzeOutput      string
	analyzeCandidate   string
	analyzeHeuristic   bool
	analyzeVerbose     bool
	analyzeAPIKey      string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeQuestions, "questions", "q", "", "Path to questions JSON file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeTranscripts, "transcripts", "t", "", "Path to transcripts JSON file, a question-id to transcript map (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "Path to output report JSON file (required)")
	analyzeCmd.Flags().StringVar(&analyzeCandidate, "candidate", "cand-offline", "Candidate ID recorded in the report")
	analyzeCmd.Flags().BoolVar(&analyzeHeuristic, "heuristic", false, "Force the offline heuristic analyst")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print the report to stderr")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	if err := analyzeCmd.MarkFlagRequired("questions"); err != nil {
		panic(fmt.Sprintf("failed to mark questions flag as required: %v", err))
	}
	if err := analyzeCmd.MarkFlagRequired("transcripts"); err != nil {
		panic(fmt.Sprintf("failed to mark transcripts flag as required: %v", err))
	}
	if err := analyzeCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	// 1. Load questions
	questionsContent, err := os.ReadFile(analyzeQuestions)
	if err != nil {
		return fmt.Errorf("failed to read questions file %s: %w", analyzeQuestions, err)
	}

	var questions []types.Question
	if err := json.Unmarshal(questionsContent, &questions); err != nil {
		return fmt.Errorf("failed to unmarshal questions JSON: %w", err)
	}

	// 2. Load transcripts
	transcriptsContent, err := os.ReadFile(analyzeTranscripts)
	if err != nil {
		return fmt.Errorf("failed to read transcripts file %s: %w", analyzeTranscripts, err)
	}

	var transcripts map[string]string
	if err := json.Unmarshal(transcriptsContent, &transcripts); err != nil {
		return fmt.Errorf("failed to unmarshal transcripts JSON: %w", err)
	}

	// 3. Build exchanges in question order; a missing transcript grades as empty
	exchanges := make([]analysis.Exchange, 0, len(questions))
	for _, q := range questions {
		exchanges = append(exchanges, analysis.Exchange{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			IdealAnswer:  q.IdealAnswer,
			Transcript:   transcripts[q.ID],
		})
	}

	// 4. Pick an analyst
	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	var analyst analysis.Analyst
	if analyzeHeuristic || apiKey == "" {
		if !analyzeHeuristic {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: GEMINI_API_KEY not set, grading heuristically\n")
		}
		analyst = analysis.HeuristicAnalyst{}
	} else {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close() //nolint:errcheck
		analyst = analysis.NewGeminiAnalyst(client)
	}

	// 5. Grade
	report, err := analyst.Analyze(ctx, &analysis.Request{
		CandidateID: analyzeCandidate,
		Exchanges:   exchanges,
	})
	if err != nil {
		return fmt.Errorf("failed to analyze transcripts: %w", err)
	}

	// 6. Marshal to JSON with indentation
	jsonOutput, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	// 7. Ensure output directory exists
	outputDir := filepath.Dir(analyzeOutput)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	// 8. Write to output file
	if err := os.WriteFile(analyzeOutput, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write report to output file %s: %w", analyzeOutput, err)
	}

	if analyzeVerbose {
		observability.NewPrinter(os.Stderr).PrintReport(report)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully analyzed %d answers (%s)\n", len(exchanges), report.Result.Aggregate.Recommendation)
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", analyzeOutput)

	return nil
}
