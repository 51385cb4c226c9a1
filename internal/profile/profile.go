// Package profile selects and runs the extraction profile for a URL. Site
// profiles validate by URL pattern and run first; the generic smart profile
// validates everything and closes the list, so every URL gets an extraction
// attempt.
package profile

import (
	"context"
	"time"

	"github.com/hyperifyio/goleilao/internal/media"
	"github.com/hyperifyio/goleilao/internal/record"
	"github.com/hyperifyio/goleilao/internal/strategy"
)

// Status of a finished extraction call.
type Status string

const (
	// StatusDone means at least one strategy contributed fields.
	StatusDone Status = "done"
	// StatusFailed means every strategy produced nothing; the error list
	// explains why. It is a structured result, not an exception.
	StatusFailed Status = "failed"
)

// Result is the output contract of Profile.Extract.
type Result struct {
	URL         string                  `json:"url"`
	Profile     string                  `json:"profile"`
	Status      Status                  `json:"status"`
	Fields      record.NormalizedRecord `json:"fields"`
	Confidence  float64                 `json:"confidence"`
	Media       []media.Asset           `json:"media"`
	Errors      []strategy.Error        `json:"extraction_errors"`
	ExtractedAt time.Time               `json:"extracted_at"`
}

// Profile recognizes and extracts one class of source pages.
type Profile interface {
	Name() string
	// Validate reports whether this profile handles the URL.
	Validate(url string) bool
	// Extract runs the full pipeline for the URL. It returns an error only
	// for call-level failures (the initial page fetch); everything below
	// that is recovered into the result's error list.
	Extract(ctx context.Context, url string) (Result, error)
}

// Selector holds profiles in declared priority order. The last entry must be
// the generic fallback, which always validates true.
type Selector struct {
	profiles []Profile
}

// NewSelector builds a selector; pass site profiles first and the generic
// profile last.
func NewSelector(profiles ...Profile) *Selector {
	return &Selector{profiles: profiles}
}

// Select returns the first profile whose Validate accepts the URL, falling
// back to the last profile. Selection is deterministic: same URL and same
// profile list always select the same profile.
func (s *Selector) Select(url string) Profile {
	for _, p := range s.profiles {
		if p.Validate(url) {
			return p
		}
	}
	if len(s.profiles) == 0 {
		return nil
	}
	return s.profiles[len(s.profiles)-1]
}

// Profiles lists the configured profile names in priority order.
func (s *Selector) Profiles() []string {
	names := make([]string, len(s.profiles))
	for i, p := range s.profiles {
		names[i] = p.Name()
	}
	return names
}
