package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goleilao/internal/api"
	"github.com/hyperifyio/goleilao/internal/app"
	"github.com/hyperifyio/goleilao/internal/config"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	cfg := config.Default()
	var configPath string

	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP listen address")
	flag.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&cfg.LLMModel, "llm.model", "", "Model name for the semantic strategy")
	flag.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for OpenAI-compatible server")
	flag.DurationVar(&cfg.RequestInterval, "http.requestInterval", cfg.RequestInterval, "Minimum interval between outbound requests")
	flag.DurationVar(&cfg.CacheTTL, "cache.ttl", cfg.CacheTTL, "Result cache TTL, 0 disables caching")
	flag.BoolVar(&cfg.OCREnabled, "ocr", cfg.OCREnabled, "Run OCR over floorplan, map and document images")
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

	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("init app")
		os.Exit(1)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.NewRouter(a),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: api.CallTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
