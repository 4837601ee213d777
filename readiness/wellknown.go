package readiness

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Well-known paths checked on every site.
const (
	PathAIPlugin       = "/.well-known/ai-plugin.json"
	PathMCP            = "/.well-known/mcp.json"
	PathOpenIDConfig   = "/.well-known/openid-configuration"
	PathSecurityTxt    = "/.well-known/security.txt"
	PathAppleAppSite   = "/.well-known/apple-app-site-association"
	PathAssetLinks     = "/.well-known/assetlinks.json"
	PathRobotsTxt      = "/robots.txt"
	PathDefaultSitemap = "/sitemap.xml"
)

type fileKind int

const (
	fileJSON fileKind = iota
	fileText
)

// wellKnownFiles lists the .well-known files in report order.
var wellKnownFiles = []struct {
	path string
	kind fileKind
}{
	{PathAIPlugin, fileJSON},
	{PathMCP, fileJSON},
	{PathOpenIDConfig, fileJSON},
	{PathSecurityTxt, fileText},
	{PathAppleAppSite, fileJSON},
	{PathAssetLinks, fileJSON},
}

// FileCheck is the outcome of fetching one .well-known file.
type FileCheck struct {
	Path       string `json:"path"`
	StatusCode int    `json:"status_code,omitempty"`
	Found      bool   `json:"found"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
	Content    string `json:"-"`
}

// WellKnownChecks holds one FileCheck per .well-known file, in the order
// of wellKnownFiles.
type WellKnownChecks []FileCheck

// Get returns the check for path.
func (w WellKnownChecks) Get(path string) (FileCheck, bool) {
	for _, c := range w {
		if c.Path == path {
			return c, true
		}
	}
	return FileCheck{}, false
}

// validate marks a found file valid when its content suits its kind:
// parseable JSON, or non-blank text.
func (c *FileCheck) validate(kind fileKind) {
	switch kind {
	case fileJSON:
		c.Valid = gjson.Valid(c.Content)
		if !c.Valid {
			c.Error = "Invalid JSON format"
		}
	default:
		c.Valid = strings.TrimSpace(c.Content) != ""
		if !c.Valid {
			c.Error = "Invalid or empty content"
		}
	}
}
