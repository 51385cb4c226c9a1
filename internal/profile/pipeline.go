package profile

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goleilao/internal/fetch"
	"github.com/hyperifyio/goleilao/internal/markup"
	"github.com/hyperifyio/goleilao/internal/media"
	"github.com/hyperifyio/goleilao/internal/normalize"
	"github.com/hyperifyio/goleilao/internal/ocr"
	"github.com/hyperifyio/goleilao/internal/record"
	"github.com/hyperifyio/goleilao/internal/strategy"
)

// pipeline is the extraction state machine shared by all profiles:
// fetch, normalize, strategy cascade, media extraction, validate, score.
// Only the initial fetch can fail the call; once a page is in hand the
// remaining stages always produce a result, failed or not. Media extraction
// runs even when the cascade came up empty so a failed record still carries
// whatever assets the page exposed.
type pipeline struct {
	client     *fetch.Client
	cascade    *strategy.Cascade
	recognizer ocr.Recognizer
	profile    string
}

func (p *pipeline) run(ctx context.Context, pageURL string) (Result, error) {
	logger := log.With().Str("profile", p.profile).Str("url", pageURL).Logger()

	logger.Debug().Str("stage", "fetching").Msg("pipeline")
	raw, err := p.client.Fetch(ctx, pageURL)
	if err != nil {
		return Result{}, err
	}

	logger.Debug().Str("stage", "normalizing").Msg("pipeline")
	page, err := markup.Normalize(raw)
	if err != nil {
		logger.Debug().Err(err).Msg("markup parse failed")
		page = &markup.Page{}
	}

	logger.Debug().Str("stage", "strategy_cascade").Msg("pipeline")
	merged, errs := p.cascade.Run(ctx, page)

	logger.Debug().Str("stage", "media_extraction").Msg("pipeline")
	assets := media.New(p.client, p.recognizer).Extract(ctx, page.Tree, pageURL)

	logger.Debug().Str("stage", "validating").Msg("pipeline")
	fields := normalize.Apply(merged)

	logger.Debug().Str("stage", "scoring").Msg("pipeline")
	confidence := record.Confidence(fields)

	res := Result{
		URL:         pageURL,
		Profile:     p.profile,
		Status:      StatusDone,
		Fields:      fields,
		Confidence:  confidence,
		Media:       assets,
		Errors:      errs,
		ExtractedAt: time.Now().UTC(),
	}
	if len(merged) == 0 {
		res.Status = StatusFailed
	}
	logger.Info().
		Str("status", string(res.Status)).
		Float64("confidence", res.Confidence).
		Int("fields", len(fields)).
		Int("media", len(assets)).
		Int("errors", len(errs)).
		Msg("extraction finished")
	return res, nil
}

func hostMatches(rawURL, domain string) bool {
	u := strings.ToLower(rawURL)
	i := strings.Index(u, "://")
	if i < 0 {
		return false
	}
	host := u[i+3:]
	if j := strings.IndexAny(host, "/?#"); j >= 0 {
		host = host[:j]
	}
	if j := strings.IndexByte(host, ':'); j >= 0 {
		host = host[:j]
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
