package strategy

import (
	"context"
	"regexp"
	"strings"

	"github.com/hyperifyio/goleilao/internal/markup"
	"github.com/hyperifyio/goleilao/internal/normalize"
	"github.com/hyperifyio/goleilao/internal/record"
)

// Vocabularies for paragraph classification. Matching is accent-folded, so
// the accented spelling here also covers the stripped variants sites use.
var (
	propertyTypeWords = []string{
		"apartamento", "casa", "terreno", "imóvel", "sala comercial",
		"galpão", "prédio", "loja", "sobrado", "chácara", "sítio",
		"fazenda", "flat", "kitnet", "cobertura", "box",
	}
	auctionStageWords = []string{
		"primeiro leilão", "segundo leilão", "leilão único",
		"hasta pública", "praça única", "primeira praça", "segunda praça",
	}
	auctionStatusWords = []string{
		"em andamento", "encerrado", "suspenso", "cancelado",
		"arrematado", "deserto", "aguardando", "próximo",
	}
	streetMarkers = []string{
		"rua", "avenida", "av.", "alameda", "travessa", "praça",
		"rodovia", "estrada", "via", "largo", "viela", "beco",
		"quadra", "lote", "condomínio",
	}
	areaIndicators = []string{
		"metros quadrados", "metros construídos", "área total",
		"área privativa", "área útil", "área construída",
		"área do terreno", "área comum",
	}
)

var (
	cepRe        = regexp.MustCompile(`(?i)CEP\s*[\d.-]{8,10}`)
	cityRe       = regexp.MustCompile(`(?i)(?:cidade|munic[íi]pio)\s+de\s+[\w\s]+(?:[/-]\s*[A-Z]{2})?`)
	areaValueRe  = regexp.MustCompile(`(?i)\d+[.,]?\d*\s*(?:m²|metros?(?:\s*quadrados?)?)`)
	richMoneyRe  = regexp.MustCompile(`R\$\s*[\d.,]+(?:\s*(?:mil|milh[õo]es|bi|bilh[õo]es))?`)
	longDateRe   = regexp.MustCompile(`(?i)\d{1,2}\s+de\s+(?:janeiro|fevereiro|março|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+de\s+\d{4}`)
	matriculaRe  = regexp.MustCompile(`(?i)matr[íi]cula\s*(?:n[°º.]?)?\s*[\d./-]+`)
)

// Context windows: how far back from a match the classifier looks for a cue
// word deciding the match's role.
const (
	moneyContextWindow = 50
	dateContextWindow  = 30
)

// Heuristic classifies paragraphs with keyword-membership tests to locate
// title/type, address and auction-stage candidates, preferring earlier
// paragraphs for the title. Monetary and date matches are assigned a role by
// inspecting a fixed-width window of preceding text. Multiple contextual area
// mentions collapse to the maximum value as total area — a documented
// heuristic that can overstate area when unrelated measurements appear.
type Heuristic struct{}

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) Extract(_ context.Context, page *markup.Page) (record.RawFieldMap, error) {
	if page == nil || strings.TrimSpace(page.Text) == "" {
		return nil, ErrNoContent
	}

	fields := record.RawFieldMap{}
	var areaMentions []float64

	paragraphs := splitParagraphs(page.Text)
	for i, p := range paragraphs {
		h.classifyTitle(fields, i, p)
		h.classifyStage(fields, p)
		h.classifyAddress(fields, p)
		areaMentions = append(areaMentions, contextualAreas(p)...)
		h.classifyMoney(fields, p)
		h.classifyDates(fields, p)
		if _, ok := fields[record.KeyRegistryNumber]; !ok {
			if m := matriculaRe.FindString(p); m != "" {
				fields[record.KeyRegistryNumber] = m
			}
		}
	}

	if len(areaMentions) > 0 {
		max := areaMentions[0]
		for _, a := range areaMentions[1:] {
			if a > max {
				max = a
			}
		}
		fields[record.KeyArea] = max
	}
	return fields, nil
}

// classifyTitle takes the first early paragraph naming a property type.
func (h *Heuristic) classifyTitle(fields record.RawFieldMap, idx int, p string) {
	if _, ok := fields[record.KeyTitle]; ok || idx >= 3 || len(p) >= 200 {
		return
	}
	for _, t := range propertyTypeWords {
		if containsFolded(p, t) {
			fields[record.KeyTitle] = p
			fields[record.KeyPropertyType] = t
			return
		}
	}
}

func (h *Heuristic) classifyStage(fields record.RawFieldMap, p string) {
	for _, stage := range auctionStageWords {
		if !containsFolded(p, stage) {
			continue
		}
		if _, ok := fields[record.KeyAuctionType]; !ok {
			fields[record.KeyAuctionType] = stage
		}
		for _, status := range auctionStatusWords {
			if containsFolded(p, status) {
				fields[record.KeyAuctionStatus] = status
				break
			}
		}
	}
}

// classifyAddress accepts a paragraph with a street-type marker only when a
// CEP or a city reference backs it up.
func (h *Heuristic) classifyAddress(fields record.RawFieldMap, p string) {
	if _, ok := fields[record.KeyAddress]; ok {
		return
	}
	for _, marker := range streetMarkers {
		if containsFolded(p, marker) {
			if cepRe.MatchString(p) || cityRe.MatchString(p) {
				fields[record.KeyAddress] = p
			}
			return
		}
	}
}

// contextualAreas returns area values from paragraphs that carry an area
// indicator phrase, so bare numbers elsewhere are not mistaken for areas.
func contextualAreas(p string) []float64 {
	var out []float64
	for _, ind := range areaIndicators {
		if !containsFolded(p, ind) {
			continue
		}
		for _, m := range areaValueRe.FindAllString(p, -1) {
			if v, err := normalize.ParseArea(m); err == nil && v > 0 {
				out = append(out, v)
			}
		}
		break
	}
	return out
}

// classifyMoney assigns each monetary match a role from the cue words in the
// preceding window: avaliação/avaliado means appraisal, inicial/mínimo means
// initial bid, and a cueless amount defaults to the initial value when still
// unset. A window naming both roles belongs to the cue closest to the amount.
func (h *Heuristic) classifyMoney(fields record.RawFieldMap, p string) {
	for _, loc := range richMoneyRe.FindAllStringIndex(p, -1) {
		amount, err := normalize.ParseMoney(p[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		window := fold(precedingWindow(p, loc[0], moneyContextWindow))
		appraisal := lastCue(window, "avaliacao", "avaliado")
		initial := lastCue(window, "inicial", "minimo")
		switch {
		case appraisal > initial:
			fields[record.KeyAppraisalValue] = amount
		case initial > appraisal:
			fields[record.KeyInitialValue] = amount
		default:
			if _, ok := fields[record.KeyInitialValue]; !ok {
				fields[record.KeyInitialValue] = amount
			}
		}
	}
}

// lastCue returns the rightmost position of any cue in the window, or -1.
func lastCue(window string, cues ...string) int {
	last := -1
	for _, cue := range cues {
		if i := strings.LastIndex(window, cue); i > last {
			last = i
		}
	}
	return last
}

func (h *Heuristic) classifyDates(fields record.RawFieldMap, p string) {
	for _, loc := range longDateRe.FindAllStringIndex(p, -1) {
		window := fold(precedingWindow(p, loc[0], dateContextWindow))
		if strings.Contains(window, "leilao") || strings.Contains(window, "praca") {
			fields[record.KeyAuctionDate] = p[loc[0]:loc[1]]
		}
	}
}

// precedingWindow slices up to n bytes before offset without splitting a
// UTF-8 sequence.
func precedingWindow(s string, offset, n int) string {
	start := offset - n
	if start < 0 {
		start = 0
	}
	for start > 0 && start < len(s) && !isRuneStart(s[start]) {
		start--
	}
	return s[start:offset]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
