package profile

import (
	"context"

	"github.com/hyperifyio/goleilao/internal/fetch"
	"github.com/hyperifyio/goleilao/internal/ocr"
	"github.com/hyperifyio/goleilao/internal/strategy"
)

// Smart is the generic profile: it accepts any URL and relies entirely on the
// strategy cascade. It must be the last entry of every selector.
type Smart struct {
	Client     *fetch.Client
	Cascade    *strategy.Cascade
	Recognizer ocr.Recognizer
}

func (s *Smart) Name() string { return "smart" }

// Validate always accepts: the smart profile is the fallback for every page
// the site profiles do not claim.
func (s *Smart) Validate(string) bool { return true }

func (s *Smart) Extract(ctx context.Context, url string) (Result, error) {
	p := &pipeline{client: s.Client, cascade: s.Cascade, recognizer: s.Recognizer, profile: s.Name()}
	return p.run(ctx, url)
}
