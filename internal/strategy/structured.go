package strategy

import (
	"context"
	"strings"

	"github.com/hyperifyio/goleilao/internal/markup"
	"github.com/hyperifyio/goleilao/internal/record"
)

// selectorCandidates ranks, per field, the class/id/attribute patterns
// observed across supported auction sites. The first selector that matches a
// non-empty element supplies the field; unmatched fields are left for the
// heuristic strategy.
var selectorCandidates = []struct {
	field     string
	selectors []string
}{
	{record.KeyTitle, []string{"h1.titulo", ".titulo-lote", ".titulo-imovel", "h1.property-title"}},
	{record.KeyAddress, []string{".endereco", ".localizacao", `[itemprop="address"]`}},
	{record.KeyArea, []string{".area", ".metros", "[data-area]"}},
	{record.KeyInitialValue, []string{".valor-inicial", ".lance-inicial", ".preco"}},
	{record.KeyAppraisalValue, []string{".valor-avaliacao", ".avaliacao"}},
	{record.KeyAuctionDate, []string{".data-leilao", ".data", "[data-leilao]"}},
	{record.KeyProcessNumber, []string{".processo", "[data-processo]"}},
}

// Structured reads fields straight out of the parsed tree using the ranked
// selector candidates. Values are raw element text; coercion happens in the
// validator.
type Structured struct{}

func (s *Structured) Name() string { return "structured-markup" }

func (s *Structured) Extract(_ context.Context, page *markup.Page) (record.RawFieldMap, error) {
	if page == nil || page.Tree == nil {
		return nil, ErrNoContent
	}
	fields := record.RawFieldMap{}
	for _, cand := range selectorCandidates {
		for _, sel := range cand.selectors {
			text := strings.TrimSpace(page.Tree.Find(sel).First().Text())
			if text != "" {
				fields[cand.field] = text
				break
			}
		}
	}
	if len(fields) == 0 && strings.TrimSpace(page.Text) == "" {
		return nil, ErrNoContent
	}
	return fields, nil
}
