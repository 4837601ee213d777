package insights

import (
	"github.com/c360studio/semlens/graph"
	"github.com/c360studio/semlens/resolve"
	"github.com/c360studio/semlens/value"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
)

// dataDownloads lists DataDownload nodes, then any literal object carrying a
// contentUrl at any depth. Entries are deduplicated by URL.
func (a *analysis) dataDownloads() []DataDownloadEntry {
	out := make([]DataDownloadEntry, 0)
	seen := make(map[string]struct{})
	add := func(e DataDownloadEntry) {
		if e.ContentURL == "" {
			return
		}
		if _, ok := seen[e.ContentURL]; ok {
			return
		}
		seen[e.ContentURL] = struct{}{}
		out = append(out, e)
	}

	for _, n := range a.nodesOfType(schemaorg.ClassDataDownload) {
		if e, ok := a.downloadFromNode(n); ok {
			add(e)
		}
	}
	for _, n := range a.sorted {
		n.Properties.Range(func(_ string, v value.Value) bool {
			scanDownloads(v, add)
			return true
		})
	}
	return out
}

func (a *analysis) downloadFromNode(n *graph.Node) (DataDownloadEntry, bool) {
	url, ok := a.text(n, schemaorg.PropContentURL)
	if !ok {
		return DataDownloadEntry{}, false
	}
	e := DataDownloadEntry{ContentURL: url}
	e.EncodingFormat, _ = a.text(n, schemaorg.PropEncodingFormat)
	e.License, _ = a.text(n, schemaorg.PropLicense)
	e.Name, _ = resolve.PropertyText(n, schemaorg.Keys(schemaorg.PropName))
	return e, true
}

// scanDownloads walks a literal value looking for objects with a contentUrl,
// in either expanded or compacted key form.
func scanDownloads(v value.Value, add func(DataDownloadEntry)) {
	switch v.Kind() {
	case value.KindObject:
		m := v.Fields()
		if url, ok := resolve.MapText(m, schemaorg.Keys(schemaorg.PropContentURL)); ok {
			e := DataDownloadEntry{ContentURL: url}
			e.EncodingFormat, _ = resolve.MapText(m, schemaorg.Keys(schemaorg.PropEncodingFormat))
			e.License, _ = resolve.MapText(m, schemaorg.Keys(schemaorg.PropLicense))
			e.Name, _ = resolve.MapText(m, schemaorg.Keys(schemaorg.PropName))
			add(e)
		}
		m.Range(func(_ string, inner value.Value) bool {
			scanDownloads(inner, add)
			return true
		})
	case value.KindArray:
		for _, item := range v.Items() {
			scanDownloads(item, add)
		}
	case value.KindNull, value.KindBool, value.KindNumber, value.KindString:
	}
}
