package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goleilao/internal/app"
	"github.com/hyperifyio/goleilao/internal/config"
	"github.com/hyperifyio/goleilao/internal/report"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	cfg := config.Default()
	var (
		pageURL    string
		configPath string
		pdfPath    string
		timeout    time.Duration
	)

	flag.StringVar(&pageURL, "url", "", "Auction listing URL to extract")
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&pdfPath, "pdf", "", "Also write a PDF report to this path")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall extraction deadline")
	flag.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&cfg.LLMModel, "llm.model", "", "Model name for the semantic strategy")
	flag.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for OpenAI-compatible server")
	flag.StringVar(&cfg.UserAgent, "http.userAgent", cfg.UserAgent, "Outbound User-Agent")
	flag.DurationVar(&cfg.RequestInterval, "http.requestInterval", cfg.RequestInterval, "Minimum interval between outbound requests")
	flag.IntVar(&cfg.MaxAttempts, "http.maxAttempts", cfg.MaxAttempts, "Fetch attempts per URL, initial try included")
	flag.DurationVar(&cfg.PerRequestTimeout, "http.timeout", cfg.PerRequestTimeout, "Timeout per fetch attempt")
	flag.BoolVar(&cfg.OCREnabled, "ocr", cfg.OCREnabled, "Run OCR over floorplan, map and document images")
	flag.StringVar(&cfg.OCRBinary, "ocr.binary", "", "Tesseract binary path (default: tesseract on PATH)")
	flag.StringVar(&cfg.OCRLanguage, "ocr.lang", cfg.OCRLanguage, "Tesseract language data set")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.Parse()

	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			log.Error().Err(err).Msg("load config file")
			os.Exit(1)
		}
		config.ApplyFile(&cfg, fc)
	}
	config.ApplyEnv(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if pageURL == "" && flag.NArg() > 0 {
		pageURL = flag.Arg(0)
	}
	if pageURL == "" {
		fmt.Fprintln(os.Stderr, "usage: goleilao [flags] -url <listing URL>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(cfg, pageURL, pdfPath, timeout); err != nil {
		log.Error().Err(err).Msg("extraction failed")
		os.Exit(1)
	}
}

func run(cfg config.Config, pageURL, pdfPath string, timeout time.Duration) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := a.Extract(ctx, pageURL)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if pdfPath != "" {
		if err := report.WritePDF(res, pdfPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("path", pdfPath).Msg("report written")
	}
	return nil
}
