package page

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/c360studio/semlens/value"
	"github.com/c360studio/semlens/vocabulary/schemaorg"
)

// ErrInvalidBlock is wrapped when a JSON-LD block cannot be combined.
var ErrInvalidBlock = errors.New("invalid JSON-LD block")

const jsonLDMediaType = "application/ld+json"

// ExtractJSONLD returns the trimmed text of every
// <script type="application/ld+json"> element in document order. The media
// type is matched case-insensitively and may carry parameters. Empty blocks
// are skipped.
func ExtractJSONLD(content []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && isJSONLDScript(n) {
			if text := strings.TrimSpace(textContent(n)); text != "" {
				blocks = append(blocks, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks, nil
}

func isJSONLDScript(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "type" {
			continue
		}
		mediaType, _, _ := strings.Cut(a.Val, ";")
		return strings.EqualFold(strings.TrimSpace(mediaType), jsonLDMediaType)
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// CombineBlocks merges JSON-LD blocks into one document.
//
// No blocks yield an empty Schema.org graph. A single object block is kept
// as it is, gaining the Schema.org context if it has none. Several blocks
// are placed under "@graph" with the first "@context" found hoisted to the
// top and removed from the members; top-level arrays contribute each of
// their items.
func CombineBlocks(blocks []string) (string, error) {
	defaultContext := value.String(schemaorg.ContextURL)

	if len(blocks) == 0 {
		out := value.NewMap()
		out.Set("@context", defaultContext)
		out.Set("@graph", value.Array())
		return value.Object(out).String(), nil
	}

	if len(blocks) == 1 {
		parsed, err := value.Parse([]byte(blocks[0]))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidBlock, err)
		}
		m := parsed.Fields()
		if m == nil {
			return "", fmt.Errorf("%w: single block must be an object, got %s", ErrInvalidBlock, parsed.Kind())
		}
		if m.Has("@context") {
			return blocks[0], nil
		}
		out := value.NewMap()
		out.Set("@context", defaultContext)
		m.Range(func(key string, v value.Value) bool {
			out.Set(key, v)
			return true
		})
		return value.Object(out).String(), nil
	}

	var (
		items         []value.Value
		commonContext value.Value
		haveContext   bool
	)
	for i, block := range blocks {
		parsed, err := value.Parse([]byte(block))
		if err != nil {
			return "", fmt.Errorf("%w: block %d: %v", ErrInvalidBlock, i, err)
		}

		if !haveContext {
			if ctx, ok := parsed.Get("@context"); ok {
				commonContext, haveContext = ctx, true
			}
		}

		switch parsed.Kind() {
		case value.KindObject:
			items = append(items, withoutContext(parsed))
		case value.KindArray:
			for _, item := range parsed.Items() {
				items = append(items, withoutContext(item))
			}
		default:
			return "", fmt.Errorf("%w: block %d: top level must be an object or array, got %s",
				ErrInvalidBlock, i, parsed.Kind())
		}
	}

	if !haveContext {
		commonContext = defaultContext
	}
	out := value.NewMap()
	out.Set("@context", commonContext)
	out.Set("@graph", value.Array(items...))
	return value.Object(out).String(), nil
}

func withoutContext(v value.Value) value.Value {
	m := v.Fields()
	if m == nil || !m.Has("@context") {
		return v
	}
	c := m.Clone()
	c.Delete("@context")
	return value.Object(c)
}
