package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/analysis"
	"github.com/jonathan/interview-screener/internal/blob"
	"github.com/jonathan/interview-screener/internal/config"
	"github.com/jonathan/interview-screener/internal/interview"
	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/logger"
	"github.com/jonathan/interview-screener/internal/metrics"
	"github.com/jonathan/interview-screener/internal/parsing"
	"github.com/jonathan/interview-screener/internal/pipeline"
	"github.com/jonathan/interview-screener/internal/server"
	"github.com/jonathan/interview-screener/internal/session"
	"github.com/jonathan/interview-screener/internal/synthesis"
	"github.com/jonathan/interview-screener/internal/transcription"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for running interviews:
résumé upload, question audio, answer submission, and analysis.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	log, err := logger.New(cfg.Logging.JSON, cfg.Logging.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	store := session.NewStore(log, cfg.Pipeline.SessionTTLDuration())
	store.StartCleanup(cfg.Pipeline.CleanupIntervalDuration())
	defer store.Stop()

	blobs, closeBlobs, err := buildBlobStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBlobs()

	adapters, err := buildAdapters(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer adapters.close()

	orch := pipeline.New(pipeline.Deps{
		Store:       store,
		Blobs:       blobs,
		Parser:      adapters.parser,
		Generator:   adapters.generator,
		Synthesizer: adapters.synthesizer,
		Transcriber: adapters.transcriber,
		Analyst:     adapters.analyst,
		Metrics:     m,
		Logger:      log,
	}, pipeline.Config{
		DefaultQuestions:      cfg.Pipeline.DefaultQuestions,
		MaxQuestions:          cfg.Pipeline.MaxQuestions,
		MaxSubmissionAttempts: cfg.Pipeline.MaxSubmissionAttempts,
		SynthesisConcurrency:  cfg.Synthesis.MaxConcurrent,
		RetryAttempts:         cfg.Retry.MaxAttempts,
		RetryBaseDelay:        cfg.Retry.BaseDelay(),
		RetryMaxDelay:         cfg.Retry.MaxDelay(),
	})

	srv := server.New(server.Deps{
		Orchestrator: orch,
		Blobs:        blobs,
		Metrics:      m,
		Gatherer:     registry,
		Logger:       log,
	}, server.Config{
		Host:           cfg.Server.Address,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeoutDuration(),
		WriteTimeout:   cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:    cfg.Server.IdleTimeoutDuration(),
		MaxUploadBytes: int(cfg.Server.MaxUploadBytes),
	})

	return srv.Start()
}

// buildBlobStore returns the configured blob store and its teardown.
func buildBlobStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (blob.Store, func(), error) {
	if cfg.Storage.Backend != "postgres" {
		log.Info("using in-memory blob storage")
		return blob.NewMemory(), func() {}, nil
	}

	pg, err := blob.ConnectPostgres(ctx, cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to blob storage: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	log.Info("using postgres blob storage")
	return pg, pg.Close, nil
}

// adapters bundles the pipeline stage implementations with the teardown of
// any clients behind them.
type adapters struct {
	parser      parsing.Parser
	generator   interview.Generator
	synthesizer synthesis.Synthesizer
	transcriber transcription.Transcriber
	analyst     analysis.Analyst
	closers     []func()
}

func (a *adapters) close() {
	for _, fn := range a.closers {
		fn()
	}
}

// buildAdapters selects the stage implementations. Every external service is
// optional: without an API key or endpoint the offline fallback takes over,
// so a bare `interview_agent serve` still runs complete interviews.
func buildAdapters(ctx context.Context, cfg *config.Config, log *zap.Logger) (*adapters, error) {
	a := &adapters{}

	var client llm.Client
	if cfg.LLM.APIKey != "" {
		var err error
		client, err = llm.NewClient(ctx, &llm.Config{
			Models: map[llm.ModelTier]string{
				llm.TierLite:     cfg.LLM.ModelLite,
				llm.TierStandard: cfg.LLM.ModelStandard,
				llm.TierAdvanced: cfg.LLM.ModelAdvanced,
			},
			Temperature: cfg.LLM.Temperature,
		}, cfg.LLM.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
	}

	if client != nil {
		a.parser = parsing.NewLLMParser(client)
		a.generator = interview.NewLLMGenerator(client)
	} else {
		log.Warn("GEMINI_API_KEY not set; using the keyword parser and template questions")
		a.parser = parsing.KeywordParser{}
		a.generator = interview.TemplateGenerator{}
	}

	switch {
	case cfg.Analysis.Provider == "heuristic":
		a.analyst = analysis.HeuristicAnalyst{}
	case client != nil:
		a.analyst = analysis.NewGeminiAnalyst(client)
	default:
		log.Warn("analysis provider 'gemini' needs GEMINI_API_KEY; grading heuristically")
		a.analyst = analysis.HeuristicAnalyst{}
	}

	if cfg.Synthesis.Endpoint != "" {
		a.synthesizer = synthesis.NewHTTPSynthesizer(
			cfg.Synthesis.Endpoint, cfg.Synthesis.Voice, cfg.Synthesis.APIKey,
			cfg.Synthesis.TimeoutDuration())
	} else {
		log.Warn("no synthesis endpoint configured; question audio will be placeholder tones")
		a.synthesizer = synthesis.ToneSynthesizer{}
	}

	if cfg.Transcription.Endpoint != "" {
		stt, err := transcription.NewClient(transcription.Config{
			Endpoint:      cfg.Transcription.Endpoint,
			APIKey:        cfg.Transcription.APIKey,
			Language:      cfg.Transcription.Language,
			Timeout:       cfg.Transcription.TimeoutDuration(),
			MaxConcurrent: cfg.Transcription.MaxConcurrent,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create transcription client: %w", err)
		}
		a.transcriber = stt
		a.closers = append(a.closers, func() { _ = stt.Close() })
	} else {
		log.Warn("no transcription endpoint configured; transcripts will be placeholders")
		a.transcriber = transcription.StaticTranscriber{Text: "(no transcription service configured)"}
	}

	return a, nil
}
