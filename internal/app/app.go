// Package app assembles the extraction service from configuration: HTTP
// client, strategy cascade, profile selector, result cache and metrics. Both
// binaries call Extract and stay ignorant of the wiring.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goleilao/internal/cache"
	"github.com/hyperifyio/goleilao/internal/config"
	"github.com/hyperifyio/goleilao/internal/fetch"
	"github.com/hyperifyio/goleilao/internal/llm"
	"github.com/hyperifyio/goleilao/internal/metrics"
	"github.com/hyperifyio/goleilao/internal/ocr"
	"github.com/hyperifyio/goleilao/internal/profile"
	"github.com/hyperifyio/goleilao/internal/ratelimit"
	"github.com/hyperifyio/goleilao/internal/strategy"
)

// App is the assembled service.
type App struct {
	Config   config.Config
	Selector *profile.Selector
	Cache    *cache.Memory
	Metrics  *metrics.Collector
}

// New wires the service. The semantic strategy joins the cascade even when
// its backend is unconfigured; it then reports backend-unavailable and the
// fallbacks carry the extraction.
func New(cfg config.Config) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	client := &fetch.Client{
		UserAgent:         cfg.UserAgent,
		Limiter:           ratelimit.New(cfg.RequestInterval),
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.PerRequestTimeout,
	}

	semantic := &strategy.Semantic{Model: cfg.LLMModel}
	if provider := llm.New(cfg.LLMBaseURL, cfg.LLMAPIKey); provider != nil {
		semantic.Client = provider
	}
	cascade := strategy.Default(semantic)

	var recognizer ocr.Recognizer
	if cfg.OCREnabled {
		tess := &ocr.Tesseract{Binary: cfg.OCRBinary, Language: cfg.OCRLanguage}
		if tess.Available() {
			recognizer = tess
		} else {
			log.Warn().Msg("tesseract not found, media OCR disabled")
		}
	}

	selector := profile.NewSelector(
		&profile.MegaLeiloes{Client: client, Cascade: cascade, Recognizer: recognizer},
		&profile.Smart{Client: client, Cascade: cascade, Recognizer: recognizer},
	)

	return &App{
		Config:   cfg,
		Selector: selector,
		Cache:    cache.NewMemory(cfg.CacheTTL),
		Metrics:  metrics.New(),
	}, nil
}

// Extract runs one listing URL through the service: cache consult, profile
// selection, pipeline, bookkeeping.
func (a *App) Extract(ctx context.Context, url string) (profile.Result, error) {
	if cached, ok := a.Cache.Get(url); ok {
		a.Metrics.RecordCacheHit()
		log.Debug().Str("url", url).Msg("cache hit")
		return cached, nil
	}
	a.Metrics.RecordCacheMiss()

	p := a.Selector.Select(url)
	if p == nil {
		return profile.Result{}, errors.New("no profile configured")
	}
	log.Debug().Str("url", url).Str("profile", p.Name()).Msg("profile selected")

	start := time.Now()
	res, err := p.Extract(ctx, url)
	if err != nil {
		a.Metrics.RecordError(errorKind(ctx, err))
		return profile.Result{}, err
	}
	a.Metrics.RecordCall(p.Name(), res.Confidence, res.Status == profile.StatusFailed, time.Since(start))
	a.Cache.Set(url, res)
	return res, nil
}

// Close releases background resources.
func (a *App) Close() {
	a.Cache.Close()
}

func errorKind(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		var fe *fetch.Error
		if errors.As(err, &fe) {
			return "fetch"
		}
		return "internal"
	}
}
