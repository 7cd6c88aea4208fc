// Package money normalises legacy amount fields into decimal values.
//
// Historic rows carry amounts as numbers, comma-formatted strings, empty
// strings or NULL. Every financial calculation goes through Normalize first
// so that a malformed amount degrades to zero instead of failing a batch.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize converts a heterogeneous amount value into a decimal. Thousands
// separators and surrounding whitespace are stripped; nil, empty and
// non-numeric input yield zero. Normalize never fails.
func Normalize(value interface{}) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return *v
	case string:
		return normalizeString(v)
	case *string:
		if v == nil {
			return decimal.Zero
		}
		return normalizeString(*v)
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case *float64:
		if v == nil {
			return decimal.Zero
		}
		return decimal.NewFromFloat(*v)
	case *int64:
		if v == nil {
			return decimal.Zero
		}
		return decimal.NewFromInt(*v)
	default:
		return decimal.Zero
	}
}

func normalizeString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round2 rounds half-up to two decimal places, the precision used for every
// derived VAT and commission figure.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
