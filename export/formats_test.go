package export_test

import (
	"errors"
	"testing"

	"github.com/c360studio/semlens/export"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    export.Format
		wantErr bool
	}{
		{"turtle", export.FormatTurtle, false},
		{"TTL", export.FormatTurtle, false},
		{"nt", export.FormatNTriples, false},
		{" ntriples ", export.FormatNTriples, false},
		{"jsonld", export.FormatJSONLD, false},
		{"json", export.FormatJSON, false},
		{"csv", export.FormatCSV, false},
		{"rdfxml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := export.ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, export.ErrUnsupportedFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestFormatRegistry(t *testing.T) {
	for _, name := range export.FormatNames() {
		info, ok := export.GetFormatInfo(export.Format(name))
		if !ok {
			t.Fatalf("format %q missing from registry", name)
		}
		if info.Extension == "" || info.MIMEType == "" {
			t.Errorf("format %q has incomplete metadata: %+v", name, info)
		}
	}
}
