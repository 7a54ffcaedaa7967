package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-screener/internal/interview"
	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/observability"
	"github.com/jonathan/interview-screener/internal/types"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate interview questions from a candidate profile",
	Long:  "Generates tailored first-round interview questions from a CandidateProfile JSON file, using the Gemini generator when GEMINI_API_KEY is set and the offline template generator otherwise.",
	RunE:  runQuestions,
}

var (
	questionsProfile  string
	questionsOutput   string
	questionsCount    int
	questionsFallback bool
	questionsVerbose  bool
	questionsAPIKey   string
)

func init() {
	questionsCmd.Flags().StringVarP(&questionsProfile, "profile", "p", "", "Path to CandidateProfile JSON file (required)")
	questionsCmd.Flags().StringVarP(&questionsOutput, "out", "o", "", "Path to output questions JSON file (required)")
	questionsCmd.Flags().IntVarP(&questionsCount, "count", "n", 6, "Number of questions to generate")
	questionsCmd.Flags().BoolVar(&questionsFallback, "fallback", false, "Force the offline template generator")
	questionsCmd.Flags().BoolVarP(&questionsVerbose, "verbose", "v", false, "Print the generated questions to stderr")
	questionsCmd.Flags().StringVar(&questionsAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	if err := questionsCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	if err := questionsCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	// 1. Load the candidate profile
	profileContent, err := os.ReadFile(questionsProfile)
	if err != nil {
		return fmt.Errorf("failed to read profile file %s: %w", questionsProfile, err)
	}

	var profile types.Profile
	if err := json.Unmarshal(profileContent, &profile); err != nil {
		return fmt.Errorf("failed to unmarshal profile JSON: %w", err)
	}

	// 2. Pick a generator
	apiKey := questionsAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	var generator interview.Generator
	if questionsFallback || apiKey == "" {
		if !questionsFallback {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: GEMINI_API_KEY not set, using template questions\n")
		}
		generator = interview.TemplateGenerator{}
	} else {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close() //nolint:errcheck
		generator = interview.NewLLMGenerator(client)
	}

	// 3. Generate
	questions, err := generator.Generate(ctx, &profile, questionsCount)
	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}

	// 4. Marshal to JSON with indentation
	jsonOutput, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal questions to JSON: %w", err)
	}

	// 5. Ensure output directory exists
	outputDir := filepath.Dir(questionsOutput)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	// 6. Write to output file
	if err := os.WriteFile(questionsOutput, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write questions to output file %s: %w", questionsOutput, err)
	}

	if questionsVerbose {
		observability.NewPrinter(os.Stderr).PrintQuestions(questions)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully generated %d questions\n", len(questions))
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", questionsOutput)

	return nil
}
