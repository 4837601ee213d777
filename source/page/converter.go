package page

import (
	"bytes"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Pre-compiled regexes for better performance and to avoid ReDoS with runtime compilation
var (
	scriptRe         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptRe       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	templateRe       = regexp.MustCompile(`(?is)<template[^>]*>.*?</template>`)
	commentRe        = regexp.MustCompile(`(?s)<!--.*?-->`)
	excessiveLinesRe = regexp.MustCompile(`\n{4,}`)
)

// Elements that never carry readable page content.
var invisibleElements = []string{"script", "style", "noscript", "template"}

// ConvertResult contains the result of HTML to markdown conversion.
type ConvertResult struct {
	Title    string
	Markdown string
}

// Converter converts HTML to markdown.
type Converter struct {
	converter   *md.Converter
	readability bool
	logger      *slog.Logger
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithReadability extracts the main article with readability before
// conversion. Pages readability cannot handle fall back to the regular
// main-content heuristics.
func WithReadability(enabled bool) ConverterOption {
	return func(c *Converter) { c.readability = enabled }
}

// WithConverterLogger sets the logger.
func WithConverterLogger(logger *slog.Logger) ConverterOption {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConverter creates a new HTML to markdown converter.
func NewConverter(opts ...ConverterOption) *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	c := &Converter{
		converter: converter,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content to markdown. pageURL resolves relative
// links in readability mode and may be empty.
func (c *Converter) Convert(htmlContent []byte, pageURL string) (*ConvertResult, error) {
	title := extractHTMLTitle(htmlContent)

	var cleaned string
	if c.readability {
		if article, ok := c.readable(htmlContent, pageURL); ok {
			cleaned = article.Content
			if title == "" {
				title = strings.TrimSpace(article.Title)
			}
		}
	}
	if cleaned == "" {
		cleaned = extractMainContent(htmlContent)
	}

	markdown, err := c.converter.ConvertString(cleaned)
	if err != nil {
		return nil, err
	}
	markdown = cleanMarkdown(markdown)

	if title == "" {
		title = extractMarkdownTitle(markdown)
	}

	return &ConvertResult{
		Title:    title,
		Markdown: markdown,
	}, nil
}

func (c *Converter) readable(content []byte, pageURL string) (readability.Article, bool) {
	var parsed *url.URL
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			parsed = u
		}
	}
	if parsed == nil {
		parsed = &url.URL{Scheme: "https", Host: "localhost"}
	}

	article, err := readability.FromReader(bytes.NewReader(content), parsed)
	if err != nil {
		c.logger.Debug("Readability extraction failed, using main content", "url", pageURL, "error", err)
		return readability.Article{}, false
	}
	if strings.TrimSpace(article.Content) == "" {
		return readability.Article{}, false
	}
	return article, true
}

// extractHTMLTitle extracts the title from HTML.
func extractHTMLTitle(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}

	var title string
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title != "" {
				return
			}
			extract(c)
		}
	}
	extract(doc)

	return title
}

// extractMainContent strips invisible elements and comments, then returns
// the main content area of the page, or the body when there is none.
func extractMainContent(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return basicHTMLCleanup(string(content))
	}

	removeElements(doc, invisibleElements)
	removeComments(doc)

	mainSelectors := []string{"main", "article", "[role=main]"}
	for _, selector := range mainSelectors {
		if node := findElement(doc, selector); node != nil {
			return renderNode(node)
		}
	}

	removeElements(doc, []string{
		"nav", "header", "footer", "aside",
		"iframe", "object", "embed", "form", "input", "button",
	})
	removeByClass(doc, []string{
		"nav", "navbar", "navigation", "sidebar", "menu", "toc",
		"table-of-contents", "footer", "header", "ad", "advertisement",
		"social", "share", "comments", "related", "breadcrumb",
	})

	if body := findElement(doc, "body"); body != nil {
		return renderNode(body)
	}

	return renderNode(doc)
}

// findElement finds the first element matching a simple selector.
func findElement(n *html.Node, selector string) *html.Node {
	var result *html.Node
	var find func(*html.Node)
	find = func(node *html.Node) {
		if result != nil {
			return
		}
		if node.Type == html.ElementNode && matchesSelector(node, selector) {
			result = node
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(n)
	return result
}

// matchesSelector checks if a node matches a tag name or [attr=value].
func matchesSelector(n *html.Node, selector string) bool {
	if strings.HasPrefix(selector, "[") && strings.HasSuffix(selector, "]") {
		attr := strings.TrimSuffix(strings.TrimPrefix(selector, "["), "]")
		key, val, ok := strings.Cut(attr, "=")
		if !ok {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == key && a.Val == val {
				return true
			}
		}
		return false
	}
	return n.Data == selector
}

// removeElements removes all elements with the given tag names.
func removeElements(n *html.Node, tags []string) {
	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}
	removeMatching(n, func(node *html.Node) bool {
		return node.Type == html.ElementNode && tagSet[node.Data]
	})
}

func removeComments(n *html.Node) {
	removeMatching(n, func(node *html.Node) bool {
		return node.Type == html.CommentNode
	})
}

// removeByClass removes elements that have any of the given class names.
func removeByClass(n *html.Node, classes []string) {
	classSet := make(map[string]bool, len(classes))
	for _, class := range classes {
		classSet[strings.ToLower(class)] = true
	}
	removeMatching(n, func(node *html.Node) bool {
		if node.Type != html.ElementNode {
			return false
		}
		for _, a := range node.Attr {
			if a.Key != "class" {
				continue
			}
			for _, c := range strings.Fields(strings.ToLower(a.Val)) {
				if classSet[c] {
					return true
				}
			}
		}
		return false
	})
}

func removeMatching(n *html.Node, match func(*html.Node) bool) {
	var toRemove []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if match(node) {
			toRemove = append(toRemove, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, node := range toRemove {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

// renderNode renders a node and its children back to HTML string.
func renderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

// basicHTMLCleanup provides regex cleanup when parsing fails.
func basicHTMLCleanup(content string) string {
	for _, re := range []*regexp.Regexp{scriptRe, styleRe, noscriptRe, templateRe, commentRe} {
		content = re.ReplaceAllString(content, "")
	}
	return content
}

// cleanMarkdown cleans up converted markdown.
func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")

	return strings.TrimSpace(content)
}

// extractMarkdownTitle extracts the first H1 heading from markdown.
func extractMarkdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
