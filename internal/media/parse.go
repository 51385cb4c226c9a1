package media

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/goleilao/internal/normalize"
	"github.com/hyperifyio/goleilao/internal/ocr"
)

// Analysis carries the recognized text plus the context-specific facts parsed
// out of it. Which slices are populated depends on the asset's context tag;
// amounts and dates are scanned in every context.
type Analysis struct {
	Text           string  `json:"text"`
	MeanConfidence float64 `json:"mean_confidence"`
	WordCount      int     `json:"word_count"`

	// Floorplan
	Areas []float64 `json:"areas,omitempty"`
	Rooms []string  `json:"rooms,omitempty"`

	// Legal document
	Registries  []string `json:"registries,omitempty"`
	TaxpayerIDs []string `json:"taxpayer_ids,omitempty"`

	// Map
	Coordinates []string `json:"coordinates,omitempty"`
	PostalCodes []string `json:"postal_codes,omitempty"`

	// Any context
	Amounts []float64 `json:"amounts,omitempty"`
	Dates   []string  `json:"dates,omitempty"`
}

var (
	ocrAreaRe       = regexp.MustCompile(`(?i)\d+[.,]?\d*\s*(?:m²|metros?(?:\s*quadrados?)?)`)
	ocrRoomRe       = regexp.MustCompile(`(?i)\d+\s*(?:quarto|dormitório|suíte|banheiro|sala|cozinha|vaga)`)
	ocrRegistryRe   = regexp.MustCompile(`(?i)matrícula\s*(?:n[°º.]?)?\s*[\d./-]+`)
	// CNPJ then CPF shaped identifiers.
	ocrTaxpayerRe   = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}|\d{3}\.?\d{3}\.?\d{3}-?\d{2}`)
	ocrCoordinateRe = regexp.MustCompile(`[-+]?\d{1,3}\.\d+,\s*[-+]?\d{1,3}\.\d+`)
	ocrCEPRe        = regexp.MustCompile(`\d{5}-?\d{3}`)
	ocrMoneyRe      = regexp.MustCompile(`R\$\s*[\d.,]+(?:\s*(?:mil|milh[õo]es|bi|bilh[õo]es))?`)
	ocrDateRe       = regexp.MustCompile(`(?i)\d{1,2}[/-]\d{1,2}[/-]\d{4}|\d{1,2}\s+(?:de\s+)?(?:janeiro|fevereiro|março|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+(?:de\s+)?\d{4}`)
)

// analyzeText runs the context-specific secondary parse over recognized text.
func analyzeText(res ocr.Result, contextTag string) *Analysis {
	a := &Analysis{
		Text:           res.Text,
		MeanConfidence: res.MeanConfidence,
		WordCount:      len(res.Words),
	}
	if strings.TrimSpace(res.Text) == "" {
		return a
	}

	switch contextTag {
	case ContextFloorplan:
		for _, m := range ocrAreaRe.FindAllString(res.Text, -1) {
			if v, err := normalize.ParseArea(m); err == nil && v > 0 {
				a.Areas = append(a.Areas, v)
			}
		}
		a.Rooms = ocrRoomRe.FindAllString(strings.ToLower(res.Text), -1)
	case ContextLegalDocument:
		a.Registries = ocrRegistryRe.FindAllString(res.Text, -1)
		a.TaxpayerIDs = ocrTaxpayerRe.FindAllString(res.Text, -1)
	case ContextMap:
		a.Coordinates = ocrCoordinateRe.FindAllString(res.Text, -1)
		a.PostalCodes = ocrCEPRe.FindAllString(res.Text, -1)
	}

	for _, m := range ocrMoneyRe.FindAllString(res.Text, -1) {
		if v, err := normalize.ParseMoney(m); err == nil && v > 0 {
			a.Amounts = append(a.Amounts, v)
		}
	}
	a.Dates = ocrDateRe.FindAllString(res.Text, -1)
	return a
}
