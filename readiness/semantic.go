package readiness

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Landmarks counts HTML5 landmark elements.
type Landmarks struct {
	Main    bool `json:"has_main"`
	Nav     int  `json:"nav"`
	Header  int  `json:"header"`
	Footer  int  `json:"footer"`
	Article int  `json:"article"`
	Section int  `json:"section"`
	Aside   int  `json:"aside"`
}

// Headings describes the heading outline.
type Headings struct {
	// Counts holds the number of h1..h6 elements at index 0..5.
	Counts     [6]int   `json:"counts"`
	SingleH1   bool     `json:"single_h1"`
	Hierarchic bool     `json:"proper_hierarchy"`
	Gaps       []string `json:"gaps"`
}

// ARIA counts accessibility attributes and roles.
type ARIA struct {
	Labels       int      `json:"aria_label"`
	DescribedBy  int      `json:"aria_describedby"`
	LiveRegions  int      `json:"aria_live"`
	Roles        int      `json:"interactive_roles"`
	Redundancies []string `json:"redundant_roles"`
}

// Forms counts form controls and their labelling.
type Forms struct {
	Forms     int `json:"forms"`
	Inputs    int `json:"inputs"`
	Labeled   int `json:"labeled_inputs"`
	Fieldsets int `json:"fieldsets"`
	Required  int `json:"required_fields"`
}

// Images counts images and their alt text.
type Images struct {
	Total      int `json:"total"`
	WithAlt    int `json:"with_alt"`
	Decorative int `json:"decorative"`
}

// SemanticAnalysis is the semantic structure of one HTML page.
type SemanticAnalysis struct {
	Landmarks Landmarks `json:"landmarks"`
	Headings  Headings  `json:"headings"`
	ARIA      ARIA      `json:"aria"`
	Forms     Forms     `json:"forms"`
	Images    Images    `json:"images"`
	Issues    []string  `json:"issues"`

	Recommendations []string `json:"recommendations"`
}

var interactiveRoles = []string{"button", "link", "checkbox", "radio", "tab", "menuitem", "switch", "slider"}

// AnalyzeSemanticHTML inspects landmarks, headings, ARIA usage, forms and
// images of an HTML document.
func AnalyzeSemanticHTML(content []byte) (*SemanticAnalysis, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	a := &SemanticAnalysis{Issues: make([]string, 0), Recommendations: make([]string, 0)}
	a.Headings.Gaps = make([]string, 0)
	a.ARIA.Redundancies = make([]string, 0)

	a.Landmarks = Landmarks{
		Main:    doc.Find(`main, [role="main"]`).Length() > 0,
		Nav:     doc.Find(`nav, [role="navigation"]`).Length(),
		Header:  doc.Find("header").Length(),
		Footer:  doc.Find("footer").Length(),
		Article: doc.Find("article").Length(),
		Section: doc.Find("section").Length(),
		Aside:   doc.Find("aside").Length(),
	}
	a.analyzeHeadings(doc)
	a.analyzeARIA(doc)
	a.analyzeForms(doc)
	a.Images = Images{
		Total:      doc.Find("img").Length(),
		WithAlt:    doc.Find("img[alt]").Length(),
		Decorative: doc.Find(`img[alt=""]`).Length(),
	}

	if !a.Landmarks.Main {
		a.Issues = append(a.Issues, "Missing <main> landmark")
		a.Recommendations = append(a.Recommendations, "Add a main element around your primary content")
	}
	if !a.Headings.SingleH1 {
		a.Issues = append(a.Issues, fmt.Sprintf("Page should have exactly one <h1> (found %d)", a.Headings.Counts[0]))
		a.Recommendations = append(a.Recommendations, "Use a single h1 for the main page title")
	}
	a.Issues = append(a.Issues, a.Headings.Gaps...)
	if f := a.Forms; f.Inputs > 0 && float64(f.Labeled)/float64(f.Inputs) < 0.8 {
		a.Issues = append(a.Issues, fmt.Sprintf("Only %d of %d form inputs have labels", f.Labeled, f.Inputs))
		a.Recommendations = append(a.Recommendations, "Add label elements or aria-label to all form inputs")
	}
	if img := a.Images; img.Total > 0 && float64(img.WithAlt)/float64(img.Total) < 0.9 {
		a.Issues = append(a.Issues, fmt.Sprintf("Only %d of %d images have alt text", img.WithAlt, img.Total))
		a.Recommendations = append(a.Recommendations, "Add descriptive alt text to all meaningful images")
	}
	return a, nil
}

func (a *SemanticAnalysis) analyzeHeadings(doc *goquery.Document) {
	prev := 0
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level, err := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		if err != nil {
			return
		}
		a.Headings.Counts[level-1]++
		if prev > 0 && level > prev+1 {
			a.Headings.Gaps = append(a.Headings.Gaps,
				fmt.Sprintf("Heading hierarchy jumps from <h%d> to <h%d>", prev, level))
		}
		prev = level
	})
	a.Headings.SingleH1 = a.Headings.Counts[0] == 1
	a.Headings.Hierarchic = len(a.Headings.Gaps) == 0
}

func (a *SemanticAnalysis) analyzeARIA(doc *goquery.Document) {
	a.ARIA.Labels = doc.Find("[aria-label]").Length()
	a.ARIA.DescribedBy = doc.Find("[aria-describedby]").Length()
	a.ARIA.LiveRegions = doc.Find("[aria-live]").Length()
	for _, role := range interactiveRoles {
		a.ARIA.Roles += doc.Find(`[role="` + role + `"]`).Length()
	}
	if n := doc.Find(`button[role="button"]`).Length(); n > 0 {
		a.ARIA.Redundancies = append(a.ARIA.Redundancies, fmt.Sprintf("%d <button> elements with redundant role=\"button\"", n))
	}
	if n := doc.Find(`a[role="link"]`).Length(); n > 0 {
		a.ARIA.Redundancies = append(a.ARIA.Redundancies, fmt.Sprintf("%d <a> elements with redundant role=\"link\"", n))
	}
}

func (a *SemanticAnalysis) analyzeForms(doc *goquery.Document) {
	a.Forms.Forms = doc.Find("form").Length()
	a.Forms.Fieldsets = doc.Find("fieldset").Length()
	a.Forms.Required = doc.Find("[required]").Length()

	labelFor := make(map[string]bool)
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		labelFor[s.AttrOr("for", "")] = true
	})
	doc.Find(`input:not([type="hidden"]), select, textarea`).Each(func(_ int, s *goquery.Selection) {
		a.Forms.Inputs++
		id, _ := s.Attr("id")
		_, hasLabel := s.Attr("aria-label")
		_, hasLabelledBy := s.Attr("aria-labelledby")
		if (id != "" && labelFor[id]) || hasLabel || hasLabelledBy || s.ParentsFiltered("label").Length() > 0 {
			a.Forms.Labeled++
		}
	})
}
