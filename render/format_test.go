package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/semlens/insights"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		value    float64
		currency string
		want     string
	}{
		{1299, "EUR", "€1299"},
		{19.9, "USD", "$19.90"},
		{5, "gbp", "£5"},
		{1000, "JPY", "¥1000"},
		{12.5, "CHF", "12.50 CHF"},
		{7, "", "7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.value, tt.currency))
	}
}

func TestFormatPriceRange(t *testing.T) {
	assert.Equal(t, "", FormatPriceRange(nil))
	assert.Equal(t, "€10.00", FormatPriceRange(&insights.PriceStats{Min: 10, Max: 10, Currency: "EUR"}))
	assert.Equal(t, "€1299.00 – €1399.00", FormatPriceRange(&insights.PriceStats{Min: 1299, Max: 1399, Currency: "EUR"}))
	assert.Equal(t, "1.50 – 2.00", FormatPriceRange(&insights.PriceStats{Min: 1.5, Max: 2}))
}

func TestVariantPrice(t *testing.T) {
	price := 9.99
	assert.Equal(t, "$9.99", VariantPrice(insights.VariantSummary{Price: &price, PriceCurrency: "USD"}))
	assert.Equal(t, "on request EUR", VariantPrice(insights.VariantSummary{PriceText: "on request", PriceCurrency: "EUR"}))
	assert.Equal(t, "", VariantPrice(insights.VariantSummary{}))
}

func TestAvailability(t *testing.T) {
	tests := map[string]string{
		"InStock":      "✅",
		"OutOfStock":   "❌",
		"PreOrder":     "🕒",
		"Discontinued": "•",
	}
	for status, icon := range tests {
		assert.Equal(t, icon, AvailabilityIcon(status), status)
	}
	assert.Equal(t, "✅ InStock", AvailabilityLabel("InStock"))
}

func TestFormatAvailabilityCounts(t *testing.T) {
	assert.Equal(t, "", FormatAvailabilityCounts(nil))
	assert.Equal(t, "2 InStock / 1 OutOfStock",
		FormatAvailabilityCounts(map[string]int{"OutOfStock": 1, "InStock": 2}))
}

func TestToTitleCase(t *testing.T) {
	tests := map[string]string{
		"material":         "Material",
		"frameSize":        "Frame Size",
		"FrameShape":       "Frame Shape",
		"battery_capacity": "Battery Capacity",
		"GTIN":             "GTIN",
	}
	for in, want := range tests {
		assert.Equal(t, want, toTitleCase(in), in)
	}
}
