package insights

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/resolve"
	"github.com/c360studio/semlens/value"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
)

// organization describes the first organization node, preferring one that
// carries a name.
func (a *analysis) organization() *OrganizationInfo {
	orgs := a.nodesOfType(schemaorg.OrganizationClasses...)
	if len(orgs) == 0 {
		return nil
	}
	node := orgs[0]
	for _, o := range orgs {
		if _, ok := resolve.PropertyText(o, schemaorg.Keys(schemaorg.PropName)); ok {
			node = o
			break
		}
	}

	info := &OrganizationInfo{ID: node.ID}
	info.Name, _ = resolve.PropertyText(node, schemaorg.Keys(schemaorg.PropName))
	info.URL, _ = a.text(node, schemaorg.PropURL)
	info.Logo = a.logo(node)
	info.SameAs = a.texts(node, schemaorg.PropSameAs)
	return info
}

// logo resolves a logo given as a URL literal, an inline ImageObject literal
// or a linked ImageObject node.
func (a *analysis) logo(node *graph.Node) string {
	if v, ok := resolve.PropertyValue(node, schemaorg.Keys(schemaorg.PropLogo)); ok {
		switch v.Kind() {
		case value.KindObject:
			if u, ok := resolve.MapText(v.Fields(), schemaorg.Keys(schemaorg.PropURL)); ok {
				return u
			}
			if u, ok := resolve.MapText(v.Fields(), schemaorg.Keys(schemaorg.PropContentURL)); ok {
				return u
			}
		case value.KindString, value.KindArray, value.KindNumber, value.KindBool, value.KindNull:
			if text, ok := v.Text(); ok && text != "" {
				return text
			}
		}
	}
	for _, e := range a.index.OutgoingMatching(node.ID, resolve.Predicate(schemaorg.PropLogo)) {
		if img, ok := a.nodes[e.To]; ok {
			if u, ok := a.text(img, schemaorg.PropURL); ok {
				return u
			}
			if u, ok := a.text(img, schemaorg.PropContentURL); ok {
				return u
			}
		}
		if !isBlank(e.To) {
			return e.To
		}
	}
	return ""
}

// breadcrumbs reads the first BreadcrumbList that has items, sorted by
// position. Items without a position keep their list order.
func (a *analysis) breadcrumbs() []BreadcrumbItem {
	out := make([]BreadcrumbItem, 0)
	for _, list := range a.nodesOfType(schemaorg.ClassBreadcrumbList) {
		for i, item := range a.targets(list.ID, schemaorg.PropItemListElement) {
			out = append(out, a.breadcrumb(item, i+1))
		}
		if len(out) > 0 {
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (a *analysis) breadcrumb(item *graph.Node, fallback int) BreadcrumbItem {
	b := BreadcrumbItem{Position: fallback}
	if raw, ok := resolve.PropertyText(item, schemaorg.Keys(schemaorg.PropPosition)); ok {
		if pos, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && math.Abs(pos) <= math.MaxInt32 {
			b.Position = int(pos)
		}
	}

	b.Name, _ = resolve.PropertyText(item, schemaorg.Keys(schemaorg.PropName))
	b.URL, _ = resolve.PropertyText(item, schemaorg.Keys(schemaorg.PropItem))

	for _, target := range a.targets(item.ID, schemaorg.PropItem) {
		if b.Name == "" {
			b.Name, _ = resolve.PropertyText(target, schemaorg.Keys(schemaorg.PropName))
		}
		if b.URL == "" {
			if isBlank(target.ID) {
				b.URL, _ = a.text(target, schemaorg.PropURL)
			} else {
				b.URL = target.ID
			}
		}
	}
	return b
}
