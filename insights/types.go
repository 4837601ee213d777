package insights

// GraphInsights is the Schema.org view of one knowledge graph. It is built
// once per analysis and never mutated afterwards.
type GraphInsights struct {
	ProductGroups []ProductGroupSummary `json:"product_groups"`
	Organization  *OrganizationInfo     `json:"organization,omitempty"`
	Breadcrumbs   []BreadcrumbItem      `json:"breadcrumbs"`
	DataDownloads []DataDownloadEntry   `json:"data_downloads"`
	Summary       []string              `json:"summary"`
}

// IsEmpty reports whether nothing was recognized.
func (gi *GraphInsights) IsEmpty() bool {
	return len(gi.ProductGroups) == 0 &&
		gi.Organization == nil &&
		len(gi.Breadcrumbs) == 0 &&
		len(gi.DataDownloads) == 0
}

// ProductGroupSummary describes a ProductGroup, or a standalone Product
// treated as a group of one.
type ProductGroupSummary struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	ProductGroupID   string            `json:"product_group_id,omitempty"`
	Brand            string            `json:"brand,omitempty"`
	VariesBy         []string          `json:"varies_by"`
	Variants         []VariantSummary  `json:"variants"`
	CommonProperties map[string]string `json:"common_properties"`
	TotalVariants    int               `json:"total_variants"`
	PriceStats       *PriceStats       `json:"price_stats,omitempty"`
	// AvailabilityCounts maps short availability names ("InStock") to the
	// number of variants offered with that status.
	AvailabilityCounts map[string]int `json:"availability_counts"`
	// Standalone is set when the group was synthesized from a lone Product.
	Standalone bool `json:"standalone,omitempty"`
}

// VariantSummary describes one variant of a product group.
type VariantSummary struct {
	ID   string `json:"id"`
	SKU  string `json:"sku,omitempty"`
	Name string `json:"name,omitempty"`
	// Price is the parsed offer price; nil when absent or not numeric.
	Price *float64 `json:"price,omitempty"`
	// PriceText is the price literal as published.
	PriceText     string `json:"price_text,omitempty"`
	PriceCurrency string `json:"price_currency,omitempty"`
	Availability  string `json:"availability,omitempty"`
	// Properties holds the properties that distinguish this variant, keyed by
	// short property name.
	Properties map[string]string `json:"properties"`
	ParentID   string            `json:"parent_id,omitempty"`
}

// PriceStats is the price range across the variants of a group.
type PriceStats struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency,omitempty"`
}

// OrganizationInfo describes the publishing organization.
type OrganizationInfo struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	URL    string   `json:"url,omitempty"`
	Logo   string   `json:"logo,omitempty"`
	SameAs []string `json:"same_as,omitempty"`
}

// BreadcrumbItem is one entry of a BreadcrumbList.
type BreadcrumbItem struct {
	Position int    `json:"position"`
	Name     string `json:"name,omitempty"`
	URL      string `json:"url,omitempty"`
}

// DataDownloadEntry is a downloadable distribution of a dataset.
type DataDownloadEntry struct {
	ContentURL     string `json:"content_url"`
	EncodingFormat string `json:"encoding_format,omitempty"`
	License        string `json:"license,omitempty"`
	Name           string `json:"name,omitempty"`
}
