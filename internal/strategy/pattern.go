package strategy

import (
	"context"
	"regexp"
	"strings"

	"github.com/hyperifyio/goleilao/internal/markup"
	"github.com/hyperifyio/goleilao/internal/normalize"
	"github.com/hyperifyio/goleilao/internal/record"
)

// Patterns for the fixed field set, matching how Brazilian auction sites
// write them in running text.
var (
	moneyRe = regexp.MustCompile(`R\$\s*[\d.,]+(?:\s*mil|\s*milhões)?`)
	areaRe  = regexp.MustCompile(`\d+[.,]?\d*\s*(?:m²|metros quadrados|m2)`)
	// Matrícula/registro numbers as kept by the property registry.
	registryRe = regexp.MustCompile(`(?i)(?:matrícula|registro)\s*(?:n[°º.]?)?\s*\d+`)
	// CNJ unified numbering, with older plain-digit formats as fallback.
	processRe = regexp.MustCompile(`\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}|\d{25}|\d{20}`)
	dateRe    = regexp.MustCompile(`\d{2}[/-]\d{2}[/-]\d{4}|\d{1,2}\s+(?:de\s+)?(?:janeiro|fevereiro|março|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+(?:de\s+)?\d{4}`)
)

// Pattern applies the fixed regex list to the page text. For each field the
// first textual match wins. With multiple monetary matches the first is taken
// as the initial value and the second as the appraisal value; that mapping
// follows the ordering convention of auction listings and is a documented
// heuristic, not a guarantee.
type Pattern struct{}

func (p *Pattern) Name() string { return "pattern" }

func (p *Pattern) Extract(_ context.Context, page *markup.Page) (record.RawFieldMap, error) {
	if page == nil || strings.TrimSpace(page.Text) == "" {
		return nil, ErrNoContent
	}
	text := page.Text
	fields := record.RawFieldMap{}

	if amounts := moneyRe.FindAllString(text, 2); len(amounts) > 0 {
		if v, err := normalize.ParseMoney(amounts[0]); err == nil {
			fields[record.KeyInitialValue] = v
		}
		if len(amounts) > 1 {
			if v, err := normalize.ParseMoney(amounts[1]); err == nil {
				fields[record.KeyAppraisalValue] = v
			}
		}
	}
	if m := areaRe.FindString(text); m != "" {
		if v, err := normalize.ParseArea(m); err == nil {
			fields[record.KeyArea] = v
		}
	}
	if m := registryRe.FindString(text); m != "" {
		fields[record.KeyRegistryNumber] = m
	}
	if m := processRe.FindString(text); m != "" {
		fields[record.KeyProcessNumber] = m
	}
	if m := dateRe.FindString(text); m != "" {
		fields[record.KeyAuctionDate] = m
	}
	return fields, nil
}
