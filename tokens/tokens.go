// Package tokens splits property names into word tokens and decides whether
// a property is one of the dimensions a product group varies by.
//
// Matching is done on whole token sequences, never on characters, so
// "colorway" does not match the dimension "color" while "frameSize" matches
// "FrameSize".
package tokens

import (
	"strings"
	"unicode"

	"github.com/c360studio/semlens/resolve"
)

// Normalize shortens name if it is an IRI, then splits it on
// non-alphanumeric characters and camel case boundaries. Tokens are
// lower-cased. Runs of capitals stay together ("HTMLParser" gives "html",
// "parser") and digits stay with the run they follow.
func Normalize(name string) []string {
	runes := []rune(resolve.ShortenIRI(name))
	var tokens []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(current) > 0 {
			prev := current[len(current)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			switch {
			case unicode.IsLower(prev), unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && nextLower:
				// End of an acronym: "HTMLParser" splits before "P".
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return tokens
}

// IsVarying reports whether the tokens of prop appear as a contiguous run in
// the tokens of some entry of variesBy. An empty prop never varies.
func IsVarying(prop string, variesBy []string) bool {
	needle := Normalize(prop)
	if len(needle) == 0 {
		return false
	}
	for _, dim := range variesBy {
		if containsRun(Normalize(dim), needle) {
			return true
		}
	}
	return false
}

// Matcher caches the normalized variesBy dimensions of one product group.
type Matcher struct {
	dims [][]string
}

// NewMatcher normalizes variesBy once for repeated IsVarying checks.
func NewMatcher(variesBy []string) *Matcher {
	m := &Matcher{dims: make([][]string, 0, len(variesBy))}
	for _, dim := range variesBy {
		if toks := Normalize(dim); len(toks) > 0 {
			m.dims = append(m.dims, toks)
		}
	}
	return m
}

// IsVarying is IsVarying against the cached dimensions.
func (m *Matcher) IsVarying(prop string) bool {
	needle := Normalize(prop)
	if len(needle) == 0 {
		return false
	}
	for _, dim := range m.dims {
		if containsRun(dim, needle) {
			return true
		}
	}
	return false
}

func containsRun(haystack, needle []string) bool {
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
