// Package record holds the field model shared by every extraction strategy:
// the raw per-strategy output, the merged accumulator, and the completeness
// score computed over the final validated set.
package record

import "math"

// Canonical field keys. These are the documented output contract; strategies
// may only populate keys from this set plus KeyAuctionStatus, which some
// listings carry alongside the auction type.
const (
	KeyTitle          = "title"
	KeyPropertyType   = "property_type"
	KeyAddress        = "address"
	KeyArea           = "area"
	KeyInitialValue   = "initial_value"
	KeyAppraisalValue = "appraisal_value"
	KeyAuctionDate    = "auction_date"
	KeyAuctionType    = "auction_type"
	KeyAuctionStatus  = "auction_status"
	KeyProcessNumber  = "process_number"
	KeyRegistryNumber = "registry_number"
	KeyDescription    = "description"
)

// RawFieldMap is a single strategy's unvalidated, partial output. Values are
// untyped: strategies emit whatever they saw (strings, parsed numbers) and
// coercion happens later in one place.
type RawFieldMap map[string]any

// MergedRecord accumulates strategy outputs under fill-missing semantics.
type MergedRecord map[string]any

// NormalizedRecord is the merged record after type coercion and validation.
// Numeric fields are float64 and satisfy their domain constraints; fields
// that failed coercion are absent, never zero.
type NormalizedRecord map[string]any

// Merge copies fields from src into dst, adding only keys that dst does not
// already hold. A field set by an earlier, higher-priority strategy is
// immutable for the remainder of the run. Empty values never claim a key.
func Merge(dst MergedRecord, src RawFieldMap) {
	for k, v := range src {
		if _, taken := dst[k]; taken {
			continue
		}
		if isEmpty(v) {
			continue
		}
		dst[k] = v
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}

// Field weights for the confidence score. Essential fields are the minimum a
// caller needs to act on a listing; important fields refine it.
var (
	essentialFields = []string{KeyTitle, KeyAddress, KeyInitialValue, KeyAuctionDate}
	importantFields = []string{KeyArea, KeyAppraisalValue, KeyProcessNumber}
)

// Confidence computes the weighted completeness score in [0,100] over field
// presence: essential fields weigh 2, important fields weigh 1. The score says
// nothing about correctness, only about how much of the record was filled.
func Confidence(rec NormalizedRecord) float64 {
	score := 0
	for _, k := range essentialFields {
		if _, ok := rec[k]; ok {
			score += 2
		}
	}
	for _, k := range importantFields {
		if _, ok := rec[k]; ok {
			score++
		}
	}
	max := 2*len(essentialFields) + len(importantFields)
	return math.Round(float64(score)/float64(max)*100*100) / 100
}
