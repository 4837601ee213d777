package insights

import (
	"fmt"
	"sort"
	"strings"
)

// summary condenses the recognized structure into one line per relation,
// e.g. "ProductGroup → Product (3)".
func (a *analysis) summary(gi *GraphInsights) []string {
	lines := make([]string, 0)

	for _, pg := range gi.ProductGroups {
		subject := "ProductGroup"
		if pg.Standalone {
			subject = "Product"
		}
		if pg.Brand != "" {
			lines = append(lines, fmt.Sprintf("%s → Brand (%s)", subject, pg.Brand))
		}
		if !pg.Standalone && pg.TotalVariants > 0 {
			lines = append(lines, fmt.Sprintf("ProductGroup → Product (%d)", pg.TotalVariants))
		}
	}

	if a.offerCount > 0 {
		lines = append(lines, fmt.Sprintf("Product → Offer (%d)", a.offerCount))
	}

	if len(a.propertyValues) > 0 {
		names := make([]string, 0, len(a.propertyValues))
		for name := range a.propertyValues {
			names = append(names, name)
		}
		sort.Strings(names)
		lines = append(lines, fmt.Sprintf("Product → PropertyValue (%s)", strings.Join(names, ", ")))
	}

	for _, term := range directSummaryProperties {
		if _, ok := a.directProperties[term]; ok {
			lines = append(lines, "Product → "+strings.ToUpper(term[:1])+term[1:])
		}
	}

	if gi.Organization != nil && gi.Organization.Name != "" {
		lines = append(lines, fmt.Sprintf("Organization (%s)", gi.Organization.Name))
	}
	if n := len(gi.Breadcrumbs); n > 0 {
		lines = append(lines, fmt.Sprintf("BreadcrumbList → ListItem (%d)", n))
	}
	if n := len(gi.DataDownloads); n > 0 {
		lines = append(lines, fmt.Sprintf("Dataset → DataDownload (%d)", n))
	}
	return lines
}
