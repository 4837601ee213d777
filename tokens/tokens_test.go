package tokens_test

import (
	"testing"

	"github.com/c360studio/semlens/tokens"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"FrameSize", []string{"frame", "size"}},
		{"colorway", []string{"colorway"}},
		{"ProductName", []string{"product", "name"}},
		{"simple", []string{"simple"}},
		{"HTMLParser", []string{"html", "parser"}},
		{"frame_size", []string{"frame", "size"}},
		{"battery-capacity 2", []string{"battery", "capacity", "2"}},
		{"size2XL", []string{"size2", "xl"}},
		{"https://schema.org/color", []string{"color"}},
		{"http://example.com/vocab#FrameShape", []string{"frame", "shape"}},
		{"", nil},
		{"---", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tokens.Normalize(tt.in))
		})
	}
}

func TestIsVarying(t *testing.T) {
	tests := []struct {
		name     string
		prop     string
		variesBy []string
		want     bool
	}{
		{"colorway is not color", "colorway", []string{"color"}, false},
		{"camel vs pascal", "frameSize", []string{"FrameSize"}, true},
		{"iri dimension", "color", []string{"https://schema.org/color", "https://schema.org/size"}, true},
		{"sub-run of dimension", "size", []string{"FrameSize"}, true},
		{"longer than dimension", "frameSizeLabel", []string{"FrameSize"}, false},
		{"unrelated", "material", []string{"color", "size"}, false},
		{"empty prop", "", []string{"color"}, false},
		{"no dimensions", "color", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokens.IsVarying(tt.prop, tt.variesBy))
			assert.Equal(t, tt.want, tokens.NewMatcher(tt.variesBy).IsVarying(tt.prop))
		})
	}
}
