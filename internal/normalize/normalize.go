// Package normalize coerces the untyped field values that strategies emit
// into validated types. Brazilian listings write money as "R$ 1.234,56" and
// area as "123,45 m²"; both use decimal comma. A field whose coercion fails is
// dropped entirely so callers can treat absence as unknown, never as zero.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/goleilao/internal/record"
)

var (
	errEmpty      = errors.New("empty value")
	nonNumericRe  = regexp.MustCompile(`[^\d.]`)
	longDateRe    = regexp.MustCompile(`(?i)^(\d{1,2})\s+(?:de\s+)?([a-zçã]+)\s+(?:de\s+)?(\d{4})$`)
	monthsOfYear  = map[string]time.Month{
		"janeiro": time.January, "fevereiro": time.February, "março": time.March,
		"abril": time.April, "maio": time.May, "junho": time.June,
		"julho": time.July, "agosto": time.August, "setembro": time.September,
		"outubro": time.October, "novembro": time.November, "dezembro": time.December,
	}
)

// dateFormats is the fixed, ordered list of accepted numeric date layouts.
// First successful parse wins; Portuguese long dates are handled separately.
var dateFormats = []string{"02/01/2006", "02-01-2006", "2006-01-02"}

// ParseMoney converts a monetary string to a float. It strips the currency
// symbol and thousands separators, converts the decimal comma to a point and
// applies "mil"/"milhões" suffix multipliers. ParseMoney("R$ 1.234,56")
// yields exactly 1234.56.
func ParseMoney(s string) (float64, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	if clean == "" {
		return 0, errEmpty
	}
	clean = strings.ReplaceAll(clean, "r$", "")
	clean = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == ' ' || r == '.' {
			return -1
		}
		return r
	}, clean)

	mult := 1.0
	switch {
	case strings.Contains(clean, "milhões") || strings.Contains(clean, "milhoes"):
		clean = strings.NewReplacer("milhões", "", "milhoes", "").Replace(clean)
		mult = 1_000_000
	case strings.Contains(clean, "mil"):
		clean = strings.ReplaceAll(clean, "mil", "")
		mult = 1_000
	}

	clean = strings.ReplaceAll(clean, ",", ".")
	clean = nonNumericRe.ReplaceAllString(clean, "")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	return v * mult, nil
}

// ParseArea converts an area string to square metres. Unit suffixes and
// whitespace are stripped and the decimal comma becomes a point.
// ParseArea("123,45 m²") yields exactly 123.45.
func ParseArea(s string) (float64, error) {
	clean := strings.ToLower(strings.TrimSpace(s))
	if clean == "" {
		return 0, errEmpty
	}
	clean = strings.NewReplacer("metros quadrados", "", "m²", "", "m2", "").Replace(clean)
	clean = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == ' ' {
			return -1
		}
		return r
	}, clean)
	clean = strings.ReplaceAll(clean, ",", ".")
	clean = nonNumericRe.ReplaceAllString(clean, "")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parse area %q: %w", s, err)
	}
	return v, nil
}

// ParseDate tries the known layouts in order, then the Portuguese long form
// ("12 de março de 2025"). The first successful parse wins.
func ParseDate(s string) (time.Time, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return time.Time{}, errEmpty
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, nil
		}
	}
	if m := longDateRe.FindStringSubmatch(strings.ToLower(clean)); m != nil {
		if month, ok := monthsOfYear[m[2]]; ok {
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			if day >= 1 && day <= 31 {
				return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: no known format", s)
}

// stringFields pass through with whitespace trimmed; empties are dropped.
var stringFields = []string{
	record.KeyTitle, record.KeyPropertyType, record.KeyAddress,
	record.KeyAuctionType, record.KeyAuctionStatus, record.KeyProcessNumber,
	record.KeyRegistryNumber, record.KeyDescription,
}

// Apply coerces and validates a merged record. Monetary values and areas must
// be positive; the auction date must match a known format (the source string
// is kept once validated). Offending fields are removed, not repaired.
func Apply(m record.MergedRecord) record.NormalizedRecord {
	out := record.NormalizedRecord{}

	for _, k := range stringFields {
		if s, ok := stringValue(m[k]); ok {
			out[k] = s
		}
	}
	if v, ok := positiveNumber(m[record.KeyArea], ParseArea); ok {
		out[record.KeyArea] = v
	}
	if v, ok := positiveNumber(m[record.KeyInitialValue], ParseMoney); ok {
		out[record.KeyInitialValue] = v
	}
	if v, ok := positiveNumber(m[record.KeyAppraisalValue], ParseMoney); ok {
		out[record.KeyAppraisalValue] = v
	}
	if s, ok := stringValue(m[record.KeyAuctionDate]); ok {
		if _, err := ParseDate(s); err == nil {
			out[record.KeyAuctionDate] = s
		}
	}
	return out
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// positiveNumber accepts a float64 produced upstream or coerces a string with
// the supplied parser, keeping only values > 0.
func positiveNumber(v any, parse func(string) (float64, error)) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, t > 0
	case int:
		return float64(t), t > 0
	case string:
		f, err := parse(t)
		if err != nil {
			return 0, false
		}
		return f, f > 0
	}
	return 0, false
}
