package profile

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/hyperifyio/goleilao/internal/fetch"
	"github.com/hyperifyio/goleilao/internal/markup"
	"github.com/hyperifyio/goleilao/internal/ocr"
	"github.com/hyperifyio/goleilao/internal/record"
	"github.com/hyperifyio/goleilao/internal/strategy"
)

// MegaLeiloes handles megaleiloes.com.br listing pages. Their detail pages
// label every fact with a "Rótulo:" div followed by a value div, so a direct
// label lookup runs ahead of the generic cascade and usually fills the record
// before any fallback fires.
type MegaLeiloes struct {
	Client     *fetch.Client
	Cascade    *strategy.Cascade
	Recognizer ocr.Recognizer
}

func (m *MegaLeiloes) Name() string { return "megaleiloes" }

func (m *MegaLeiloes) Validate(url string) bool {
	return hostMatches(url, "megaleiloes.com.br")
}

func (m *MegaLeiloes) Extract(ctx context.Context, url string) (Result, error) {
	cascade := &strategy.Cascade{
		Strategies: append([]strategy.Strategy{&megaLabels{}}, m.Cascade.Strategies...),
	}
	p := &pipeline{client: m.Client, cascade: cascade, recognizer: m.Recognizer, profile: m.Name()}
	return p.run(ctx, url)
}

// megaLabelFields maps the site's label text to record keys. Matching is
// case-insensitive on the trimmed element text.
var megaLabelFields = []struct {
	label string
	key   string
}{
	{"Tipo:", record.KeyPropertyType},
	{"Endereço:", record.KeyAddress},
	{"Área:", record.KeyArea},
	{"Lance mínimo:", record.KeyInitialValue},
	{"Valor avaliado:", record.KeyAppraisalValue},
	{"Data do leilão:", record.KeyAuctionDate},
	{"Tipo de leilão:", record.KeyAuctionType},
	{"Processo:", record.KeyProcessNumber},
	{"Matrícula:", record.KeyRegistryNumber},
}

// megaLabels reads the label/value div pairs of a megaleiloes detail page.
type megaLabels struct{}

func (megaLabels) Name() string { return "megaleiloes-labels" }

func (megaLabels) Extract(_ context.Context, page *markup.Page) (record.RawFieldMap, error) {
	if page == nil || page.Tree == nil {
		return nil, strategy.ErrNoContent
	}
	fields := record.RawFieldMap{}

	if title := strings.TrimSpace(page.Tree.Find("h1.property-title, h1.titulo, h1").First().Text()); title != "" {
		fields[record.KeyTitle] = title
	}

	page.Tree.Find("div, span, dt").Each(func(_ int, sel *goquery.Selection) {
		label := strings.TrimSpace(ownText(sel))
		if label == "" {
			return
		}
		for _, lf := range megaLabelFields {
			if !strings.EqualFold(label, lf.label) {
				continue
			}
			if _, taken := fields[lf.key]; taken {
				return
			}
			if value := strings.TrimSpace(sel.Next().Text()); value != "" {
				fields[lf.key] = value
			}
			return
		}
	})

	if len(fields) == 0 {
		return nil, strategy.ErrNoContent
	}
	return fields, nil
}

// ownText collects the element's direct text nodes, ignoring child elements,
// so a wrapping container never shadows the label element inside it.
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}
