package normalize

import (
	"testing"
	"time"

	"github.com/hyperifyio/goleilao/internal/record"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"R$ 1.234,56", 1234.56},
		{"R$ 100.000,00", 100000},
		{"R$ 130.000,00", 130000},
		{"R$ 250 mil", 250000},
		{"R$ 1,2 milhões", 1200000},
		{"r$ 500,00", 500},
		{"  R$ 75.000  ", 75000},
	}
	for _, c := range cases {
		got, err := ParseMoney(c.in)
		if err != nil {
			t.Fatalf("ParseMoney(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseMoney(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseMoneyRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "R$", "sem valor"} {
		if _, err := ParseMoney(in); err == nil {
			t.Errorf("ParseMoney(%q): expected error", in)
		}
	}
}

func TestParseArea(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"123,45 m²", 123.45},
		{"80 m2", 80},
		{"250 metros quadrados", 250},
		{"62,5m²", 62.5},
	}
	for _, c := range cases {
		got, err := ParseArea(c.in)
		if err != nil {
			t.Fatalf("ParseArea(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseArea(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseAreaRejectsThousandSeparator(t *testing.T) {
	// Mixed separators are ambiguous; they fail instead of guessing.
	if _, err := ParseArea("1.234,56 m²"); err == nil {
		t.Fatal("expected error for mixed separators")
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"15/03/2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15-03-2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"12 de março de 2025", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
		{"5 março 2025", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ParseDate(c.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", c.in, err)
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDateRejectsUnknownFormats(t *testing.T) {
	for _, in := range []string{"", "amanhã", "03/15/2026 ou depois", "32 de março de 2025"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q): expected error", in)
		}
	}
}

func TestApplyCoercesAndValidates(t *testing.T) {
	merged := record.MergedRecord{
		record.KeyTitle:          "  Apartamento no centro  ",
		record.KeyArea:           "123,45 m²",
		record.KeyInitialValue:   100000.0,
		record.KeyAppraisalValue: "R$ 130.000,00",
		record.KeyAuctionDate:    "15/03/2026",
	}
	out := Apply(merged)

	if out[record.KeyTitle] != "Apartamento no centro" {
		t.Errorf("title = %v", out[record.KeyTitle])
	}
	if out[record.KeyArea] != 123.45 {
		t.Errorf("area = %v", out[record.KeyArea])
	}
	if out[record.KeyInitialValue] != 100000.0 {
		t.Errorf("initial_value = %v", out[record.KeyInitialValue])
	}
	if out[record.KeyAppraisalValue] != 130000.0 {
		t.Errorf("appraisal_value = %v", out[record.KeyAppraisalValue])
	}
	if out[record.KeyAuctionDate] != "15/03/2026" {
		t.Errorf("auction_date = %v", out[record.KeyAuctionDate])
	}
}

func TestApplyDropsInvalidFieldsInsteadOfZeroing(t *testing.T) {
	merged := record.MergedRecord{
		record.KeyTitle:        "   ",
		record.KeyArea:         "sem área",
		record.KeyInitialValue: -500.0,
		record.KeyAuctionDate:  "em breve",
		record.KeyAddress:      "Rua das Flores, 12",
	}
	out := Apply(merged)

	for _, k := range []string{record.KeyTitle, record.KeyArea, record.KeyInitialValue, record.KeyAuctionDate} {
		if _, ok := out[k]; ok {
			t.Errorf("%s should have been dropped, got %v", k, out[k])
		}
	}
	if out[record.KeyAddress] != "Rua das Flores, 12" {
		t.Errorf("address = %v", out[record.KeyAddress])
	}
}
