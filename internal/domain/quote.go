package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// MaxPrice is the largest per-share price accepted from a provider
const MaxPrice = 1_000_000

// Prices maps a symbol to its price. A nil entry means the price could not
// be obtained this cycle, not zero.
type Prices map[string]*float64

// NewPrices returns a map holding a nil entry for every distinct symbol
func NewPrices(symbols []string) Prices {
	p := make(Prices, len(symbols))
	for _, s := range symbols {
		p[s] = nil
	}
	return p
}

// Resolved returns the symbols that carry a price, sorted
func (p Prices) Resolved() []string {
	var out []string
	for s, v := range p {
		if v != nil {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Unresolved returns the symbols without a price, sorted
func (p Prices) Unresolved() []string {
	var out []string
	for s, v := range p {
		if v == nil {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Price returns a pointer to v, for building Prices literals
func Price(v float64) *float64 {
	return &v
}

// ValidPrice reports whether v is a finite number in (0, MaxPrice]
func ValidPrice(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v > 0 && v <= MaxPrice
}

// ParsePrice reads a provider price field that may be a JSON string or number.
// It returns nil for anything that is not a valid price.
func ParsePrice(raw string) *float64 {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !ValidPrice(v) {
		return nil
	}
	return &v
}
