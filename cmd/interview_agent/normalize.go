package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-screener/internal/audio"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a recording to canonical WAV",
	Long:  "Decodes a WAV recording of any channel count, sample rate, and supported bit depth, and rewrites it as 16 kHz mono 16-bit little-endian PCM WAV, the format every stored answer uses.",
	RunE:  runNormalize,
}

var (
	normalizeInput  string
	normalizeOutput string
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeInput, "in", "i", "", "Path to input audio file (required)")
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "out", "o", "", "Path to output WAV file (required)")

	if err := normalizeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := normalizeCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(_ *cobra.Command, _ []string) error {
	// 1. Read the recording
	raw, err := os.ReadFile(normalizeInput)
	if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", normalizeInput, err)
	}

	// 2. Normalize to the canonical format
	wav, err := audio.Normalize(raw)
	if err != nil {
		return fmt.Errorf("failed to normalize audio: %w", err)
	}

	// 3. Ensure output directory exists
	outputDir := filepath.Dir(normalizeOutput)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	// 4. Write the canonical WAV
	if err := os.WriteFile(normalizeOutput, wav, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", normalizeOutput, err)
	}

	samples, rate, err := audio.DecodeWAV(wav)
	if err != nil {
		return fmt.Errorf("failed to decode normalized output: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully normalized audio\n")
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", normalizeOutput)
	_, _ = fmt.Fprintf(os.Stdout, "Samples: %d @ %d Hz (%.2fs)\n", len(samples), rate, float64(len(samples))/float64(rate))

	return nil
}
