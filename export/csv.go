package export

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/insights"
)

// csvFixedColumns lead every variant row.
var csvFixedColumns = []string{
	"group_id", "group_name", "brand", "variant_id", "sku", "name",
	"price", "currency", "availability",
}

// ToCSV analyzes g and writes one row per variant. Property columns follow
// the fixed columns in alphabetical order; common group properties are
// repeated on each of the group's rows.
func ToCSV(g *graph.KnowledgeGraph) (string, error) {
	return VariantsCSV(insights.Analyze(g))
}

// VariantsCSV writes the variants of gi as CSV.
func VariantsCSV(gi *insights.GraphInsights) (string, error) {
	propSet := make(map[string]struct{})
	for _, pg := range gi.ProductGroups {
		for key := range pg.CommonProperties {
			propSet[key] = struct{}{}
		}
		for _, v := range pg.Variants {
			for key := range v.Properties {
				propSet[key] = struct{}{}
			}
		}
	}
	props := make([]string, 0, len(propSet))
	for key := range propSet {
		props = append(props, key)
	}
	sort.Strings(props)

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(append(append([]string{}, csvFixedColumns...), props...)); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, pg := range gi.ProductGroups {
		for _, v := range pg.Variants {
			price := v.PriceText
			if v.Price != nil {
				price = strconv.FormatFloat(*v.Price, 'f', -1, 64)
			}
			row := []string{
				pg.ID, pg.Name, pg.Brand, v.ID, v.SKU, v.Name,
				price, v.PriceCurrency, v.Availability,
			}
			for _, key := range props {
				val, ok := v.Properties[key]
				if !ok {
					val = pg.CommonProperties[key]
				}
				row = append(row, val)
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}
