package export_test

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/c360studio/semlens/export"
	"github.com/c360studio/semlens/insights"
)

func TestVariantsCSV(t *testing.T) {
	price := 1299.0
	gi := &insights.GraphInsights{
		ProductGroups: []insights.ProductGroupSummary{{
			ID:               "https://ex/pg",
			Name:             "Trail, Bike",
			Brand:            "Acme",
			CommonProperties: map[string]string{"material": "aluminum"},
			Variants: []insights.VariantSummary{
				{ID: "v1", SKU: "R-M", Price: &price, PriceCurrency: "EUR", Availability: "InStock",
					Properties: map[string]string{"color": "red"}},
				{ID: "v2", SKU: "B-L", PriceText: "on request",
					Properties: map[string]string{"color": "blue", "size": "L"}},
			},
		}},
	}

	output, err := export.VariantsCSV(gi)
	if err != nil {
		t.Fatalf("VariantsCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(output)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	want := [][]string{
		{"group_id", "group_name", "brand", "variant_id", "sku", "name", "price", "currency", "availability", "color", "material", "size"},
		{"https://ex/pg", "Trail, Bike", "Acme", "v1", "R-M", "", "1299", "EUR", "InStock", "red", "aluminum", ""},
		{"https://ex/pg", "Trail, Bike", "Acme", "v2", "B-L", "", "on request", "", "", "blue", "aluminum", "L"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if strings.Join(records[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("record %d = %v, want %v", i, records[i], want[i])
		}
	}
}

func TestToCSV_EmptyGraph(t *testing.T) {
	output, err := export.ToCSV(nil)
	if err != nil {
		t.Fatalf("ToCSV failed: %v", err)
	}
	if strings.Count(output, "\n") != 1 {
		t.Errorf("expected header only, got %q", output)
	}
}
