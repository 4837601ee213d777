package insights

import (
	"sort"
	"strings"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/resolve"
	"github.com/c360studio/semlens/tokens"
	"github.com/c360studio/semlens/value"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
)

// directSummaryProperties are the variant attributes that get their own
// summary line when a variant states them directly.
var directSummaryProperties = []string{schemaorg.PropColor, schemaorg.PropSize}

// bookkeepingProperties are reported elsewhere in a summary and never appear
// in variant property tables.
var bookkeepingProperties = map[string]struct{}{
	schemaorg.PropName:               {},
	schemaorg.PropSKU:                {},
	schemaorg.PropURL:                {},
	schemaorg.PropImage:              {},
	schemaorg.PropBrand:              {},
	schemaorg.PropOffers:             {},
	schemaorg.PropHasVariant:         {},
	schemaorg.PropIsVariantOf:        {},
	schemaorg.PropAdditionalProperty: {},
	schemaorg.PropProductGroupID:     {},
	schemaorg.PropVariesBy:           {},
	schemaorg.PropGTIN:               {},
	"gtin8":                          {},
	"gtin12":                         {},
	"gtin13":                         {},
	"gtin14":                         {},
	"mpn":                            {},
	"productID":                      {},
	"identifier":                     {},
}

// variantDraft carries the full property set of a variant until common
// properties have been split off.
type variantDraft struct {
	summary VariantSummary
	props   map[string]string
	offered bool
}

func (a *analysis) productGroups() []ProductGroupSummary {
	out := make([]ProductGroupSummary, 0)

	groups := a.nodesOfType(schemaorg.ClassProductGroup)
	if len(groups) == 0 {
		return append(out, a.standaloneProducts()...)
	}
	for _, node := range groups {
		out = append(out, a.productGroup(node, a.variantsOf(node), false))
	}
	return out
}

// standaloneProducts treats every Product that is not itself a variant as a
// group. A product without variants becomes a group of one.
func (a *analysis) standaloneProducts() []ProductGroupSummary {
	var out []ProductGroupSummary
	for _, node := range a.nodesOfType(schemaorg.ClassProduct) {
		if a.isVariant(node) {
			continue
		}
		variants := a.variantsOf(node)
		if len(variants) > 0 {
			out = append(out, a.productGroup(node, variants, false))
			continue
		}

		s := a.productGroup(node, []*graph.Node{node}, true)
		if s.ProductGroupID == "" {
			s.ProductGroupID, _ = a.text(node, schemaorg.PropSKU)
		}
		out = append(out, s)
	}
	return out
}

func (a *analysis) isVariant(node *graph.Node) bool {
	if len(a.index.OutgoingMatching(node.ID, resolve.Predicate(schemaorg.PropIsVariantOf))) > 0 {
		return true
	}
	return len(a.index.IncomingMatching(node.ID, resolve.Predicate(schemaorg.PropHasVariant))) > 0
}

// variantsOf collects the hasVariant targets of group plus every node whose
// isVariantOf points at it.
func (a *analysis) variantsOf(group *graph.Node) []*graph.Node {
	seen := map[string]struct{}{group.ID: {}}
	var out []*graph.Node
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		n, ok := a.nodes[id]
		if !ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, n)
	}

	for _, e := range a.index.OutgoingMatching(group.ID, resolve.Predicate(schemaorg.PropHasVariant)) {
		add(e.To)
	}
	for _, e := range a.index.IncomingMatching(group.ID, resolve.Predicate(schemaorg.PropIsVariantOf)) {
		add(e.From)
	}
	return out
}

func (a *analysis) productGroup(node *graph.Node, variants []*graph.Node, standalone bool) ProductGroupSummary {
	s := ProductGroupSummary{
		ID:                 node.ID,
		VariesBy:           []string{},
		Variants:           []VariantSummary{},
		CommonProperties:   map[string]string{},
		AvailabilityCounts: map[string]int{},
		Standalone:         standalone,
	}
	s.Name, _ = resolve.PropertyText(node, schemaorg.Keys(schemaorg.PropName))
	s.ProductGroupID, _ = a.text(node, schemaorg.PropProductGroupID)
	if s.ProductGroupID == "" {
		s.ProductGroupID, _ = a.text(node, "productID")
	}
	s.Brand, _ = a.linkedName(node, schemaorg.PropBrand)
	for _, dim := range a.texts(node, schemaorg.PropVariesBy) {
		s.VariesBy = append(s.VariesBy, resolve.ShortenIRI(dim))
	}

	drafts := make([]variantDraft, 0, len(variants))
	for _, v := range variants {
		drafts = append(drafts, a.variant(v))
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		if drafts[i].summary.SKU != drafts[j].summary.SKU {
			return drafts[i].summary.SKU < drafts[j].summary.SKU
		}
		return drafts[i].summary.ID < drafts[j].summary.ID
	})

	if standalone {
		for i := range drafts {
			drafts[i].summary.Properties = drafts[i].props
		}
	} else {
		splitCommon(&s, drafts)
	}

	for _, d := range drafts {
		v := d.summary
		if v.Availability != "" {
			s.AvailabilityCounts[v.Availability]++
		}
		if v.Price != nil {
			if s.PriceStats == nil {
				s.PriceStats = &PriceStats{Min: *v.Price, Max: *v.Price, Currency: v.PriceCurrency}
			} else {
				s.PriceStats.Min = min(s.PriceStats.Min, *v.Price)
				s.PriceStats.Max = max(s.PriceStats.Max, *v.Price)
				if s.PriceStats.Currency == "" {
					s.PriceStats.Currency = v.PriceCurrency
				}
			}
		}
		if d.offered {
			a.offerCount++
		}
		s.Variants = append(s.Variants, v)
	}
	s.TotalVariants = len(s.Variants)

	a.engine.logger.Debug("Product group summarized",
		"id", s.ID,
		"variants", s.TotalVariants,
		"common_properties", len(s.CommonProperties))
	return s
}

// splitCommon promotes to the group the properties of the first variant
// that are not a varying dimension and hold the same value on every variant.
// Everything else stays on the variants.
func splitCommon(s *ProductGroupSummary, drafts []variantDraft) {
	if len(drafts) > 0 {
		matcher := tokens.NewMatcher(s.VariesBy)
		first := drafts[0].props
		for key, val := range first {
			if matcher.IsVarying(key) {
				continue
			}
			shared := true
			for _, d := range drafts[1:] {
				if other, ok := d.props[key]; !ok || other != val {
					shared = false
					break
				}
			}
			if shared {
				s.CommonProperties[key] = val
			}
		}
	}

	for i := range drafts {
		props := make(map[string]string, len(drafts[i].props))
		for key, val := range drafts[i].props {
			if _, common := s.CommonProperties[key]; !common {
				props[key] = val
			}
		}
		drafts[i].summary.Properties = props
	}
}

func (a *analysis) variant(node *graph.Node) variantDraft {
	chain := append([]*graph.Node{node}, a.parentChain(node)...)

	d := variantDraft{
		summary: VariantSummary{ID: node.ID},
		props:   a.propertySet(chain),
	}
	d.summary.SKU, _ = resolve.PropertyText(node, schemaorg.Keys(schemaorg.PropSKU))
	d.summary.Name, _ = inheritedText(chain, schemaorg.PropName)
	for _, term := range directSummaryProperties {
		if _, ok := resolve.PropertyText(node, schemaorg.Keys(term)); ok {
			a.directProperties[term] = struct{}{}
		}
	}
	if parents := a.targets(node.ID, schemaorg.PropIsVariantOf); len(parents) > 0 {
		d.summary.ParentID = parents[0].ID
	} else if refs := a.index.OutgoingMatching(node.ID, resolve.Predicate(schemaorg.PropIsVariantOf)); len(refs) > 0 {
		d.summary.ParentID = refs[0].To
	}

	for _, n := range chain {
		if a.offer(n, &d.summary) {
			d.offered = true
			break
		}
	}
	return d
}

// parentChain follows isVariantOf up to the configured depth, nearest parent
// first. Every node appears at most once.
func (a *analysis) parentChain(node *graph.Node) []*graph.Node {
	visited := map[string]struct{}{node.ID: {}}
	var chain []*graph.Node
	level := []*graph.Node{node}
	for depth := 0; depth < a.engine.maxDepth && len(level) > 0; depth++ {
		var next []*graph.Node
		for _, n := range level {
			for _, parent := range a.targets(n.ID, schemaorg.PropIsVariantOf) {
				if _, ok := visited[parent.ID]; ok {
					continue
				}
				visited[parent.ID] = struct{}{}
				chain = append(chain, parent)
				next = append(next, parent)
			}
		}
		level = next
	}
	return chain
}

// inheritedText resolves term on the first node of chain that has it.
func inheritedText(chain []*graph.Node, term string) (string, bool) {
	for _, n := range chain {
		if text, ok := resolve.PropertyText(n, schemaorg.Keys(term)); ok && text != "" {
			return text, true
		}
	}
	return "", false
}

// propertySet gathers the literal and additionalProperty values of chain[0],
// falling back to its parents for keys it does not define.
func (a *analysis) propertySet(chain []*graph.Node) map[string]string {
	props := make(map[string]string)
	for _, n := range chain {
		n.Properties.Range(func(key string, v value.Value) bool {
			short := resolve.ShortenIRI(key)
			if strings.HasPrefix(short, "@") {
				return true
			}
			if _, skip := bookkeepingProperties[short]; skip {
				return true
			}
			if _, ok := props[short]; ok {
				return true
			}
			if text := resolve.Display(v); text != "" {
				props[short] = text
			}
			return true
		})
	}
	for _, n := range chain {
		for _, pv := range a.targets(n.ID, schemaorg.PropAdditionalProperty) {
			if len(pv.Types) > 0 && !resolve.HasSchemaType(pv, schemaorg.ClassPropertyValue) {
				continue
			}
			name, ok := resolve.PropertyText(pv, schemaorg.Keys(schemaorg.PropName))
			if !ok || name == "" {
				name, ok = resolve.PropertyText(pv, schemaorg.Keys(schemaorg.PropPropertyID))
			}
			if !ok || name == "" {
				continue
			}
			val, ok := a.text(pv, schemaorg.PropValue)
			if !ok {
				continue
			}
			a.propertyValues[name] = struct{}{}
			if _, exists := props[name]; !exists {
				props[name] = val
			}
		}
	}
	return props
}

// offer fills price and availability from the first Offer linked from node.
// Untyped offer nodes are accepted.
func (a *analysis) offer(node *graph.Node, v *VariantSummary) bool {
	for _, o := range a.targets(node.ID, schemaorg.PropOffers) {
		if len(o.Types) > 0 && !resolve.HasAnySchemaType(o, schemaorg.ClassOffer, schemaorg.ClassAggregateOffer) {
			continue
		}
		raw, ok := resolve.PropertyText(o, schemaorg.Keys(schemaorg.PropPrice))
		if !ok {
			raw, _ = resolve.PropertyText(o, schemaorg.Keys(schemaorg.PropLowPrice))
		}
		v.PriceText = raw
		if price, ok := value.String(raw).AsFloat(); ok {
			v.Price = &price
		}
		v.PriceCurrency, _ = resolve.PropertyText(o, schemaorg.Keys(schemaorg.PropPriceCurrency))
		if availability, ok := a.text(o, schemaorg.PropAvailability); ok {
			v.Availability = resolve.ShortenIRI(availability)
		}
		return true
	}
	return false
}
