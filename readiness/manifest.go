package readiness

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// FieldIssue is a validation problem tied to a manifest field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PluginValidation is the result of validating an ai-plugin.json manifest.
type PluginValidation struct {
	Valid        bool         `json:"valid"`
	NameForHuman string       `json:"name_for_human,omitempty"`
	NameForModel string       `json:"name_for_model,omitempty"`
	APIURL       string       `json:"api_url,omitempty"`
	AuthType     string       `json:"auth_type,omitempty"`
	Issues       []FieldIssue `json:"issues"`
	Warnings     []string     `json:"warnings"`
}

func (v *PluginValidation) issue(field, format string, args ...any) {
	v.Valid = false
	v.Issues = append(v.Issues, FieldIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

var pluginAuthTypes = []string{"none", "user_http", "service_http"}

// ValidatePluginManifest checks an ai-plugin.json manifest.
func ValidatePluginManifest(content string) *PluginValidation {
	v := &PluginValidation{Valid: true, Issues: make([]FieldIssue, 0), Warnings: make([]string, 0)}
	if !gjson.Valid(content) || !gjson.Parse(content).IsObject() {
		v.issue("json", "Invalid JSON: expected an object")
		return v
	}

	m := gjson.Parse(content)
	v.NameForHuman = m.Get("name_for_human").String()
	v.NameForModel = m.Get("name_for_model").String()
	v.APIURL = m.Get("api.url").String()
	v.AuthType = m.Get("auth.type").String()

	if version := m.Get("schema_version").String(); version != "v1" {
		v.Warnings = append(v.Warnings, fmt.Sprintf("Schema version '%s' may not be supported (expected 'v1')", version))
	}
	switch {
	case v.NameForModel == "":
		v.issue("name_for_model", "Cannot be empty")
	case strings.Contains(v.NameForModel, " "):
		v.issue("name_for_model", "Must not contain spaces (used as namespace identifier)")
	}
	if len(v.NameForHuman) > 50 {
		v.Warnings = append(v.Warnings, "name_for_human is longer than 50 characters")
	}
	if len(v.NameForModel) > 50 {
		v.Warnings = append(v.Warnings, "name_for_model is longer than 50 characters")
	}

	if m.Get("description_for_human").String() == "" {
		v.issue("description_for_human", "Cannot be empty")
	}
	switch desc := m.Get("description_for_model").String(); {
	case desc == "":
		v.issue("description_for_model", "Cannot be empty")
	case len(desc) > 8000:
		v.issue("description_for_model", "Exceeds maximum length of 8000 characters")
	case len(desc) < 100:
		v.Warnings = append(v.Warnings,
			"description_for_model is short (< 100 chars) - consider adding more detail for better AI understanding")
	}

	if !contains(pluginAuthTypes, v.AuthType) {
		v.issue("auth.type", "Invalid auth type '%s' (must be: none, user_http, or service_http)", v.AuthType)
	}
	if apiType := m.Get("api.type").String(); apiType != "openapi" {
		v.issue("api.type", "Invalid API type '%s' (currently only 'openapi' is supported)", apiType)
	}
	for _, field := range []string{"api.url", "logo_url", "legal_info_url"} {
		if !isAbsoluteURL(m.Get(field).String()) {
			v.issue(field, "Invalid URL")
		}
	}
	if !strings.Contains(m.Get("contact_email").String(), "@") {
		v.issue("contact_email", "Invalid email format")
	}
	return v
}

// MCPValidation is the result of validating an mcp.json manifest.
type MCPValidation struct {
	Valid           bool     `json:"valid"`
	Name            string   `json:"name,omitempty"`
	Version         string   `json:"version,omitempty"`
	ProtocolVersion string   `json:"protocol_version,omitempty"`
	TransportType   string   `json:"transport_type,omitempty"`
	Endpoint        string   `json:"endpoint,omitempty"`
	ToolCount       int      `json:"tool_count"`
	ResourceCount   int      `json:"resource_count"`
	PromptCount     int      `json:"prompt_count"`
	Capabilities    []string `json:"capabilities"`
	HealthEndpoint  string   `json:"health_endpoint,omitempty"`
	Issues          []string `json:"issues"`
}

func (v *MCPValidation) fail(msg string) {
	v.Valid = false
	v.Issues = append(v.Issues, msg)
}

// ValidateMCPManifest checks an mcp.json server manifest. Structural
// problems make it invalid; inconsistencies are reported as issues only.
func ValidateMCPManifest(content string) *MCPValidation {
	v := &MCPValidation{Valid: true, Capabilities: make([]string, 0), Issues: make([]string, 0)}
	if !gjson.Valid(content) || !gjson.Parse(content).IsObject() {
		v.fail("Invalid JSON: expected an object")
		return v
	}

	m := gjson.Parse(content)
	v.Name = m.Get("name").String()
	v.Version = m.Get("version").String()
	v.ProtocolVersion = m.Get("protocolVersion").String()
	v.TransportType = m.Get("transport.type").String()
	v.Endpoint = m.Get("transport.endpoint").String()
	v.HealthEndpoint = m.Get("health.endpoint").String()
	v.ToolCount = len(m.Get("tools").Array())
	v.ResourceCount = len(m.Get("resources").Array())
	v.PromptCount = len(m.Get("prompts").Array())
	m.Get("capabilities").ForEach(func(key, _ gjson.Result) bool {
		v.Capabilities = append(v.Capabilities, key.String())
		return true
	})
	sort.Strings(v.Capabilities)

	if v.Name == "" {
		v.fail("Missing or empty 'name' field")
	}
	if m.Get("schemaVersion").String() == "" {
		v.fail("Missing or empty 'schemaVersion' field")
	}
	if v.ProtocolVersion == "" {
		v.fail("Missing or empty 'protocolVersion' field")
	}
	switch v.TransportType {
	case "":
		v.fail("Missing or empty transport type")
	case "http", "sse":
	default:
		v.Issues = append(v.Issues, fmt.Sprintf("Unknown transport type '%s' (expected 'http' or 'sse')", v.TransportType))
	}
	switch {
	case v.Endpoint == "":
		v.fail("Missing or empty transport endpoint")
	case !isAbsoluteURL(v.Endpoint):
		v.fail("Invalid endpoint URL: " + v.Endpoint)
	}

	for _, tool := range m.Get("tools").Array() {
		name := tool.Get("name").String()
		if name == "" {
			v.Issues = append(v.Issues, "Tool with empty name found")
		}
		if tool.Get("description").String() == "" {
			v.Issues = append(v.Issues, fmt.Sprintf("Tool '%s' missing description", name))
		}
		if !tool.Get("inputSchema").IsObject() {
			v.Issues = append(v.Issues, fmt.Sprintf("Tool '%s' has invalid input schema (must be object)", name))
		}
	}
	for _, c := range []struct {
		count int
		name  string
	}{{v.ToolCount, "tools"}, {v.ResourceCount, "resources"}, {v.PromptCount, "prompts"}} {
		if c.count > 0 && !contains(v.Capabilities, c.name) {
			v.Issues = append(v.Issues, fmt.Sprintf("%s defined but %s capability not declared",
				strings.ToUpper(c.name[:1])+c.name[1:], c.name))
		}
	}
	return v
}

// Endpoint is one operation of an OpenAPI document.
type Endpoint struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	Summary    string `json:"summary,omitempty"`
	HasSuccess bool   `json:"has_success_response"`
}

// OpenAPIValidation is the result of validating an OpenAPI document.
type OpenAPIValidation struct {
	Valid      bool       `json:"valid"`
	Version    string     `json:"version,omitempty"`
	Title      string     `json:"title,omitempty"`
	APIVersion string     `json:"api_version,omitempty"`
	Servers    []string   `json:"servers"`
	Endpoints  []Endpoint `json:"endpoints"`
	Schemas    int        `json:"schemas"`
	Security   bool       `json:"has_security"`
	Issues     []string   `json:"issues"`
	Warnings   []string   `json:"warnings"`
}

func (v *OpenAPIValidation) fail(msg string) {
	v.Valid = false
	v.Issues = append(v.Issues, msg)
}

type openAPIDocument struct {
	OpenAPI string `yaml:"openapi"`
	Info    struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
	Servers []struct {
		URL string `yaml:"url"`
	} `yaml:"servers"`
	Paths      map[string]map[string]yaml.Node `yaml:"paths"`
	Components struct {
		Schemas         map[string]yaml.Node `yaml:"schemas"`
		SecuritySchemes map[string]yaml.Node `yaml:"securitySchemes"`
	} `yaml:"components"`
}

type openAPIOperation struct {
	Summary   string               `yaml:"summary"`
	Responses map[string]yaml.Node `yaml:"responses"`
}

var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// ValidateOpenAPI checks an OpenAPI 3 document given as YAML or JSON.
func ValidateOpenAPI(content []byte) *OpenAPIValidation {
	v := &OpenAPIValidation{
		Valid:     true,
		Servers:   make([]string, 0),
		Endpoints: make([]Endpoint, 0),
		Issues:    make([]string, 0),
		Warnings:  make([]string, 0),
	}

	var doc openAPIDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		v.fail(fmt.Sprintf("Failed to parse document: %v", err))
		return v
	}
	if doc.OpenAPI == "" {
		v.fail("Missing 'openapi' version field")
		return v
	}

	v.Version = doc.OpenAPI
	v.Title = doc.Info.Title
	v.APIVersion = doc.Info.Version
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		v.Warnings = append(v.Warnings, fmt.Sprintf("OpenAPI version %s - version 3.x is recommended", doc.OpenAPI))
	}

	for _, s := range doc.Servers {
		v.Servers = append(v.Servers, s.URL)
	}
	if len(v.Servers) == 0 {
		v.fail("No servers defined - at least one server URL is required")
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		item := doc.Paths[p]
		for _, method := range httpMethods {
			node, ok := item[method]
			if !ok {
				continue
			}
			var op openAPIOperation
			if err := node.Decode(&op); err != nil {
				v.Warnings = append(v.Warnings, fmt.Sprintf("%s %s could not be read: %v", strings.ToUpper(method), p, err))
				continue
			}
			_, has200 := op.Responses["200"]
			if !has200 {
				v.Warnings = append(v.Warnings, fmt.Sprintf("%s %s has no 200 response defined", strings.ToUpper(method), p))
			}
			v.Endpoints = append(v.Endpoints, Endpoint{
				Method:     strings.ToUpper(method),
				Path:       p,
				Summary:    op.Summary,
				HasSuccess: has200,
			})
		}
	}
	if len(v.Endpoints) == 0 {
		v.fail("No operations defined in the API")
	}

	v.Schemas = len(doc.Components.Schemas)
	v.Security = len(doc.Components.SecuritySchemes) > 0
	if v.Schemas == 0 {
		v.Warnings = append(v.Warnings, "No schemas defined - consider adding data models for better documentation")
	}
	return v
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
