package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

func TestClassifyRegion(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		want   domain.Region
	}{
		{name: "known NSE ticker without suffix", symbol: "RELIANCE", want: domain.RegionIndian},
		{name: "short known NSE ticker", symbol: "TCS", want: domain.RegionIndian},
		{name: "NSE suffix", symbol: "ZOMATO.NS", want: domain.RegionIndian},
		{name: "BSE suffix", symbol: "IRCTC.BO", want: domain.RegionIndian},
		{name: "lowercase NSE suffix", symbol: "zomato.ns", want: domain.RegionIndian},
		{name: "US ticker", symbol: "AAPL", want: domain.RegionUS},
		{name: "single letter US ticker", symbol: "F", want: domain.RegionUS},
		{name: "London listing", symbol: "SHEL.L", want: domain.RegionOther},
		{name: "long unknown ticker", symbol: "UNKNOWNCO", want: domain.RegionOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyRegion(tt.symbol))
		})
	}
}

func TestClassifyRegion_Idempotent(t *testing.T) {
	for _, s := range []string{"RELIANCE", "AAPL", "SHEL.L", "INFY.NS", "BRK-B"} {
		assert.Equal(t, domain.ClassifyRegion(s), domain.ClassifyRegion(s), s)
	}
}

func TestGroupByRegion(t *testing.T) {
	groups := domain.GroupByRegion([]string{"AAPL", "HDFCBANK", "SHEL.L", "MSFT", "INFY.NS"})

	assert.Equal(t, []string{"HDFCBANK", "INFY.NS"}, groups[domain.RegionIndian])
	assert.Equal(t, []string{"AAPL", "MSFT"}, groups[domain.RegionUS])
	assert.Equal(t, []string{"SHEL.L"}, groups[domain.RegionOther])
}

func TestMapSymbolForAPI(t *testing.T) {
	yahoo := domain.SymbolFormat{NSESuffix: ".NS", BSESuffix: ".BO"}
	twelve := domain.SymbolFormat{NSESuffix: ":NSE", BSESuffix: ":BSE"}

	assert.Equal(t, "RELIANCE.NS", domain.MapSymbolForAPI("RELIANCE", yahoo))
	assert.Equal(t, "RELIANCE.NS", domain.MapSymbolForAPI("RELIANCE.NS", yahoo))
	assert.Equal(t, "RELIANCE:NSE", domain.MapSymbolForAPI("RELIANCE.NS", twelve))
	assert.Equal(t, "IRCTC:BSE", domain.MapSymbolForAPI("IRCTC.BO", twelve))
	assert.Equal(t, "AAPL", domain.MapSymbolForAPI("AAPL", twelve))
	assert.Equal(t, "SHEL.L", domain.MapSymbolForAPI("SHEL.L", yahoo))
}

func TestMapSymbolForAPI_UnnormalizedInput(t *testing.T) {
	yahoo := domain.SymbolFormat{NSESuffix: ".NS", BSESuffix: ".BO"}
	twelve := domain.SymbolFormat{NSESuffix: ":NSE", BSESuffix: ":BSE"}

	tests := []struct {
		symbol string
		format domain.SymbolFormat
		want   string
	}{
		{symbol: "infy.ns", format: yahoo, want: "INFY.NS"},
		{symbol: " TCS.NS ", format: yahoo, want: "TCS.NS"},
		{symbol: "infy.ns", format: twelve, want: "INFY:NSE"},
		{symbol: "irctc.bo", format: twelve, want: "IRCTC:BSE"},
		{symbol: " reliance", format: twelve, want: "RELIANCE:NSE"},
		{symbol: "aapl ", format: twelve, want: "AAPL"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.MapSymbolForAPI(tt.symbol, tt.format))
		})
	}
}

func TestMapSymbol_RoundTripForKnownTickers(t *testing.T) {
	formats := []domain.SymbolFormat{
		{NSESuffix: ".NS", BSESuffix: ".BO"},
		{NSESuffix: ":NSE", BSESuffix: ":BSE"},
		{NSESuffix: ".BSE", BSESuffix: ".BSE"},
	}

	for _, f := range formats {
		for _, s := range domain.KnownNSETickers() {
			assert.Equal(t, s, domain.MapSymbolFromAPI(domain.MapSymbolForAPI(s, f), f), s)
		}
	}
}

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		symbol  string
		wantErr bool
	}{
		{symbol: "AAPL"},
		{symbol: "RELIANCE.NS"},
		{symbol: "BRK-B"},
		{symbol: "M&M"},
		{symbol: "", wantErr: true},
		{symbol: "aapl", wantErr: true},
		{symbol: "AA PL", wantErr: true},
		{symbol: "ABCDEFGHIJKLMNOPQRSTUVWXYZ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			err := domain.ValidateSymbol(tt.symbol)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidSymbol)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
