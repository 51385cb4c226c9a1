package profile

import (
	"context"
	"testing"

	"github.com/hyperifyio/goleilao/internal/fetch"
	"github.com/hyperifyio/goleilao/internal/markup"
	"github.com/hyperifyio/goleilao/internal/record"
	"github.com/hyperifyio/goleilao/internal/strategy"
)

const megaListing = `<html><body>
<h1 class="property-title">Apartamento 2 dorms - Centro - Campinas/SP</h1>
<div class="card">
  <div>Tipo:</div><div>Apartamento</div>
  <div>Endereço:</div><div>Rua das Flores, 12 - Centro, Campinas/SP</div>
  <div>Área:</div><div>62,5 m²</div>
  <div>Lance mínimo:</div><div>R$ 100.000,00</div>
  <div>Valor avaliado:</div><div>R$ 130.000,00</div>
  <div>Data do leilão:</div><div>15/03/2026</div>
  <div>Processo:</div><div>0001234-56.2024.8.26.0100</div>
</div>
</body></html>`

func TestMegaLabelsExtract(t *testing.T) {
	page, err := markup.Normalize([]byte(megaListing))
	if err != nil {
		t.Fatalf("normalize fixture: %v", err)
	}

	fields, err := megaLabels{}.Extract(context.Background(), page)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := map[string]string{
		record.KeyTitle:          "Apartamento 2 dorms - Centro - Campinas/SP",
		record.KeyPropertyType:   "Apartamento",
		record.KeyAddress:        "Rua das Flores, 12 - Centro, Campinas/SP",
		record.KeyArea:           "62,5 m²",
		record.KeyInitialValue:   "R$ 100.000,00",
		record.KeyAppraisalValue: "R$ 130.000,00",
		record.KeyAuctionDate:    "15/03/2026",
		record.KeyProcessNumber:  "0001234-56.2024.8.26.0100",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("%s = %v, want %q", k, fields[k], v)
		}
	}
}

func TestMegaLabelsNoLabelsNoContent(t *testing.T) {
	page, err := markup.Normalize([]byte(`<html><body><p>página genérica</p></body></html>`))
	if err != nil {
		t.Fatalf("normalize fixture: %v", err)
	}
	if _, err := (megaLabels{}).Extract(context.Background(), page); err != strategy.ErrNoContent {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
}

// The label strategy runs ahead of the generic cascade, so its values win the
// merge for every field it fills.
func TestMegaLeiloesExtractPrefersLabels(t *testing.T) {
	srv := serveHTML(t, megaListing)
	m := &MegaLeiloes{
		Client:  &fetch.Client{HTTPClient: srv.Client()},
		Cascade: strategy.Default(&strategy.Semantic{}),
	}
	res, err := m.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if res.Status != StatusDone {
		t.Fatalf("status = %s, errors = %v", res.Status, res.Errors)
	}
	if res.Profile != "megaleiloes" {
		t.Errorf("profile = %q", res.Profile)
	}
	if res.Fields[record.KeyInitialValue] != 100000.0 {
		t.Errorf("initial_value = %v", res.Fields[record.KeyInitialValue])
	}
	if res.Fields[record.KeyAppraisalValue] != 130000.0 {
		t.Errorf("appraisal_value = %v", res.Fields[record.KeyAppraisalValue])
	}
	if res.Fields[record.KeyArea] != 62.5 {
		t.Errorf("area = %v", res.Fields[record.KeyArea])
	}
	if res.Confidence != 100 {
		t.Errorf("confidence = %v", res.Confidence)
	}
}

func TestMegaLeiloesKeepsSharedCascadeIntact(t *testing.T) {
	shared := strategy.Default(&strategy.Semantic{})
	m := &MegaLeiloes{Cascade: shared}
	srv := serveHTML(t, megaListing)
	m.Client = &fetch.Client{HTTPClient: srv.Client()}

	if _, err := m.Extract(context.Background(), srv.URL); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(shared.Strategies) != 4 {
		t.Errorf("shared cascade mutated: %d strategies", len(shared.Strategies))
	}
}
