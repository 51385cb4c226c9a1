// Package strategy implements the extraction cascade: four independent
// strategies run in fixed priority order against the normalized page, each
// contributing a partial field map that is merged fill-missing into the
// accumulated record. A strategy failure is recorded and never aborts the
// cascade.
package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goleilao/internal/markup"
	"github.com/hyperifyio/goleilao/internal/record"
)

// ErrNoContent is returned by strategies handed an empty page.
var ErrNoContent = errors.New("no content to extract")

// Strategy produces a partial field map from a normalized page.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, page *markup.Page) (record.RawFieldMap, error)
}

// Error records one strategy's failure. It is part of the extraction result,
// not a control-flow signal.
type Error struct {
	Strategy string `json:"strategy"`
	Message  string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Strategy, e.Message)
}

// Cascade runs strategies in declaration order. The semantic strategy leads
// because it is the most contextually accurate when its backend is up, but
// also the least predictable; the others act as decreasing-precision
// fallbacks that only fill gaps.
type Cascade struct {
	Strategies []Strategy
}

// Default assembles the standard order: semantic, pattern, structured
// markup, heuristic.
func Default(semantic *Semantic) *Cascade {
	return &Cascade{Strategies: []Strategy{
		semantic,
		&Pattern{},
		&Structured{},
		&Heuristic{},
	}}
}

// Run executes the cascade and merges each strategy's output fill-missing: a
// field set by an earlier strategy is immutable for the rest of the run. An
// empty merged record with a populated error list means total extraction
// failure; interpreting that is the caller's job.
func (c *Cascade) Run(ctx context.Context, page *markup.Page) (record.MergedRecord, []Error) {
	merged := record.MergedRecord{}
	var errs []Error
	for _, s := range c.Strategies {
		fields, err := runIsolated(ctx, s, page)
		if err != nil {
			log.Debug().Str("strategy", s.Name()).Err(err).Msg("strategy failed")
			errs = append(errs, Error{Strategy: s.Name(), Message: err.Error()})
			continue
		}
		before := len(merged)
		record.Merge(merged, fields)
		log.Debug().Str("strategy", s.Name()).Int("extracted", len(fields)).Int("adopted", len(merged)-before).Msg("strategy done")
	}
	return merged, errs
}

// runIsolated converts panics into errors so a misbehaving strategy can never
// take down the cascade.
func runIsolated(ctx context.Context, s Strategy, page *markup.Page) (fields record.RawFieldMap, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Extract(ctx, page)
}
