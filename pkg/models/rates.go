package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/govalues/decimal"
)

// RateTable maps uppercase currency codes to their rate against Base.
type RateTable struct {
	Base  string
	Rates map[string]decimal.Decimal
}

// Rate returns the rate for code. Lookup is case-insensitive.
func (t RateTable) Rate(code string) (decimal.Decimal, bool) {
	r, ok := t.Rates[strings.ToUpper(code)]
	return r, ok
}

// RateTableFromJSON builds a RateTable from provider JSON numbers without a
// float64 round trip.
func RateTableFromJSON(base string, raw map[string]json.Number) (RateTable, error) {
	rates := make(map[string]decimal.Decimal, len(raw))
	for code, n := range raw {
		d, err := parseRate(n)
		if err != nil {
			return RateTable{}, fmt.Errorf("rate %s: %w", code, err)
		}
		rates[strings.ToUpper(code)] = d
	}
	return RateTable{Base: strings.ToUpper(base), Rates: rates}, nil
}

// parseRate parses n as a decimal, falling back to float parsing for
// inputs decimal.Parse does not accept.
func parseRate(n json.Number) (decimal.Decimal, error) {
	if d, err := decimal.Parse(n.String()); err == nil {
		return d, nil
	}
	f, err := n.Float64()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromFloat64(f)
}
