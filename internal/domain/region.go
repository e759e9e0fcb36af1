package domain

import (
	"strings"
	"unicode"
)

// Region is the market a ticker most likely trades on
type Region string

const (
	RegionIndian Region = "indian"
	RegionUS     Region = "us"
	RegionOther  Region = "other"
)

// Regions lists every region in the order update runs process them
var Regions = []Region{RegionIndian, RegionUS, RegionOther}

const (
	nseSuffix = ".NS"
	bseSuffix = ".BO"
)

// knownNSETickers are bare NSE tickers that are treated as Indian without a suffix
var knownNSETickers = map[string]struct{}{
	"RELIANCE": {}, "TCS": {}, "HDFCBANK": {}, "INFY": {}, "ICICIBANK": {},
	"HINDUNILVR": {}, "ITC": {}, "SBIN": {}, "BHARTIARTL": {}, "KOTAKBANK": {},
	"LT": {}, "AXISBANK": {}, "ASIANPAINT": {}, "MARUTI": {}, "HCLTECH": {},
	"BAJFINANCE": {}, "WIPRO": {}, "ULTRACEMCO": {}, "TITAN": {}, "NESTLEIND": {},
	"SUNPHARMA": {}, "TATAMOTORS": {}, "POWERGRID": {}, "NTPC": {}, "ONGC": {},
	"TECHM": {}, "TATASTEEL": {}, "ADANIPORTS": {}, "JSWSTEEL": {}, "HDFCLIFE": {},
	"BAJAJFINSV": {}, "COALINDIA": {},
}

// KnownNSETickers returns the bare tickers classified as Indian without a suffix
func KnownNSETickers() []string {
	out := make([]string, 0, len(knownNSETickers))
	for t := range knownNSETickers {
		out = append(out, t)
	}
	return out
}

// ClassifyRegion maps a ticker to its region. It never fails.
func ClassifyRegion(symbol string) Region {
	s := NormalizeSymbol(symbol)

	if strings.HasSuffix(s, nseSuffix) || strings.HasSuffix(s, bseSuffix) {
		return RegionIndian
	}
	if _, ok := knownNSETickers[s]; ok {
		return RegionIndian
	}
	if len(s) <= 5 && !strings.Contains(s, ".") {
		return RegionUS
	}
	return RegionOther
}

// GroupByRegion partitions symbols by region, preserving input order within a group
func GroupByRegion(symbols []string) map[Region][]string {
	groups := make(map[Region][]string)
	for _, s := range symbols {
		r := ClassifyRegion(s)
		groups[r] = append(groups[r], s)
	}
	return groups
}

// NormalizeSymbol upper-cases and trims a ticker
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks that a normalized ticker is plausible.
// Tickers are 1-20 characters of upper-case letters, digits, '.', '-', '&' or ':'.
func ValidateSymbol(symbol string) error {
	if symbol == "" || len(symbol) > 20 {
		return ErrInvalidSymbol
	}

	for _, r := range symbol {
		switch {
		case unicode.IsUpper(r), unicode.IsDigit(r):
		case r == '.', r == '-', r == '&', r == ':':
		default:
			return ErrInvalidSymbol
		}
	}

	return nil
}

// SymbolFormat describes how a provider spells Indian exchange tickers
type SymbolFormat struct {
	NSESuffix string
	BSESuffix string
}

// MapSymbolForAPI converts a stored ticker into the provider's spelling.
// The ticker is normalized first; non-Indian tickers are otherwise unchanged.
func MapSymbolForAPI(symbol string, f SymbolFormat) string {
	symbol = NormalizeSymbol(symbol)
	if ClassifyRegion(symbol) != RegionIndian {
		return symbol
	}

	switch {
	case strings.HasSuffix(symbol, bseSuffix):
		return strings.TrimSuffix(symbol, bseSuffix) + f.BSESuffix
	case strings.HasSuffix(symbol, nseSuffix):
		return strings.TrimSuffix(symbol, nseSuffix) + f.NSESuffix
	default:
		return symbol + f.NSESuffix
	}
}

// MapSymbolFromAPI strips the provider's Indian exchange suffix from a ticker.
// The fetcher maps results back by lookup instead, since formats such as
// Alpha Vantage's spell NSE and BSE tickers the same way.
func MapSymbolFromAPI(symbol string, f SymbolFormat) string {
	for _, suffix := range []string{f.NSESuffix, f.BSESuffix} {
		if suffix != "" && strings.HasSuffix(symbol, suffix) {
			return strings.TrimSuffix(symbol, suffix)
		}
	}
	return symbol
}
