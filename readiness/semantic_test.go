package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const untidyPage = `<html><body>
<header><nav><a href="/" role="link">Home</a></nav></header>
<h1>Trail Bike</h1>
<h3>Specs</h3>
<form>
  <label for="q">Search</label><input id="q" name="q" required>
  <input type="hidden" name="token">
  <input name="email">
  <textarea aria-label="Note"></textarea>
</form>
<img src="a.png" alt="Bike"><img src="b.png" alt=""><img src="c.png">
<button role="button">Buy</button>
<footer></footer>
</body></html>`

func TestAnalyzeSemanticHTML_Findings(t *testing.T) {
	a, err := AnalyzeSemanticHTML([]byte(untidyPage))
	require.NoError(t, err)

	assert.Equal(t, Landmarks{Nav: 1, Header: 1, Footer: 1}, a.Landmarks)
	assert.Equal(t, [6]int{1, 0, 1, 0, 0, 0}, a.Headings.Counts)
	assert.True(t, a.Headings.SingleH1)
	assert.False(t, a.Headings.Hierarchic)
	assert.Equal(t, Forms{Forms: 1, Inputs: 3, Labeled: 2, Required: 1}, a.Forms)
	assert.Equal(t, Images{Total: 3, WithAlt: 2, Decorative: 1}, a.Images)
	assert.Equal(t, 1, a.ARIA.Labels)
	assert.Equal(t, 2, a.ARIA.Roles)
	assert.Len(t, a.ARIA.Redundancies, 2)

	assert.Equal(t, []string{
		"Missing <main> landmark",
		"Heading hierarchy jumps from <h1> to <h3>",
		"Only 2 of 3 form inputs have labels",
		"Only 2 of 3 images have alt text",
	}, a.Issues)
	assert.Len(t, a.Recommendations, 3)
}

func TestAnalyzeSemanticHTML_Clean(t *testing.T) {
	a, err := AnalyzeSemanticHTML([]byte(`<html><body><main role="main">
<h1>Trail Bike</h1><h2>Specs</h2><h3>Frame</h3><h2>Reviews</h2>
<img src="a.png" alt="Bike">
<label>Email <input type="email" name="email"></label>
</main></body></html>`))
	require.NoError(t, err)

	assert.True(t, a.Landmarks.Main)
	assert.True(t, a.Headings.Hierarchic)
	assert.Equal(t, 1, a.Forms.Labeled)
	assert.Empty(t, a.Issues)
	assert.Empty(t, a.Recommendations)
}

func TestAnalyzeSemanticHTML_NoHeadings(t *testing.T) {
	a, err := AnalyzeSemanticHTML([]byte(`<p>plain</p>`))
	require.NoError(t, err)
	assert.Contains(t, a.Issues, "Page should have exactly one <h1> (found 0)")
}
