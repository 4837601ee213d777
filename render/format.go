// Package render formats knowledge graphs and their insights for people:
// a Markdown report and a Mermaid diagram.
package render

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/c360studio/semlens/insights"
)

// Placeholder is shown for missing table cells.
const Placeholder = "–"

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
}

// FormatPrice renders value with no decimals when it is whole and two
// otherwise, prefixed by the currency symbol or followed by the code.
func FormatPrice(value float64, currency string) string {
	if math.Abs(value-math.Round(value)) < 1e-4 {
		return formatPrice(value, currency, 0)
	}
	return formatPrice(value, currency, 2)
}

// FormatPriceRange renders min and max with two decimals, or a single price
// when they are equal.
func FormatPriceRange(stats *insights.PriceStats) string {
	if stats == nil {
		return ""
	}
	if math.Abs(stats.Min-stats.Max) < 1e-4 {
		return formatPrice(stats.Min, stats.Currency, 2)
	}
	return formatPrice(stats.Min, stats.Currency, 2) + " – " + formatPrice(stats.Max, stats.Currency, 2)
}

func formatPrice(value float64, currency string, decimals int) string {
	number := fmt.Sprintf("%.*f", decimals, value)
	if currency == "" {
		return number
	}
	if symbol, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return symbol + number
	}
	return number + " " + currency
}

// VariantPrice renders the price of a variant, falling back to the raw
// text when it did not parse as a number.
func VariantPrice(v insights.VariantSummary) string {
	if v.Price != nil {
		return FormatPrice(*v.Price, v.PriceCurrency)
	}
	if v.PriceText != "" {
		if v.PriceCurrency != "" {
			return v.PriceText + " " + v.PriceCurrency
		}
		return v.PriceText
	}
	return ""
}

// AvailabilityIcon maps a shortened Schema.org availability to an icon.
func AvailabilityIcon(status string) string {
	switch strings.ToLower(status) {
	case "instock":
		return "✅"
	case "outofstock":
		return "❌"
	case "preorder":
		return "🕒"
	default:
		return "•"
	}
}

// AvailabilityLabel is the icon followed by status.
func AvailabilityLabel(status string) string {
	return AvailabilityIcon(status) + " " + status
}

// FormatAvailabilityCounts renders "n Status" pairs sorted by status and
// joined by " / ".
func FormatAvailabilityCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		parts = append(parts, fmt.Sprintf("%d %s", counts[status], status))
	}
	return strings.Join(parts, " / ")
}

// toTitleCase converts camelCase or snake_case names to Title Case words.
func toTitleCase(s string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(strings.ReplaceAll(s, "_", " "))
	for i, r := range runes {
		switch {
		case r == ' ':
			flush()
			continue
		case i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) && runes[i-1] != ' ':
			flush()
		}
		current = append(current, r)
	}
	flush()

	for i, word := range words {
		r := []rune(word)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
