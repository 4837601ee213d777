package weburl

import (
	"errors"
	"net"
	"path/filepath"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		opts    []Option
		wantErr bool
	}{
		{
			name:    "valid https URL",
			url:     "https://go.dev/doc/effective_go",
			wantErr: false,
		},
		{
			name:    "http URL rejected",
			url:     "http://example.com",
			wantErr: true,
		},
		{
			name:    "localhost rejected",
			url:     "https://localhost:8080",
			wantErr: true,
		},
		{
			name:    "127.0.0.1 rejected",
			url:     "https://127.0.0.1/path",
			wantErr: true,
		},
		{
			name:    ".local domain rejected",
			url:     "https://myserver.local/api",
			wantErr: true,
		},
		{
			name:    ".internal domain rejected",
			url:     "https://app.internal/api",
			wantErr: true,
		},
		{
			name:    "private IP 192.168.x.x rejected",
			url:     "https://192.168.1.1/path",
			wantErr: true,
		},
		{
			name:    "private IP 10.x.x.x rejected",
			url:     "https://10.0.0.1/path",
			wantErr: true,
		},
		{
			name:    "private IP 172.16.x.x rejected",
			url:     "https://172.16.0.1/path",
			wantErr: true,
		},
		{
			name:    "invalid URL",
			url:     "not-a-url",
			wantErr: true,
		},
		{
			name:    "http allowed with option",
			url:     "http://example.com/product",
			opts:    []Option{AllowHTTP()},
			wantErr: false,
		},
		{
			name:    "http option keeps private IP blocked",
			url:     "http://10.0.0.1/product",
			opts:    []Option{WithHTTP(true)},
			wantErr: true,
		},
		{
			name:    "ftp rejected",
			url:     "ftp://example.com/file",
			opts:    []Option{AllowHTTP()},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrBlockedURL) && tt.url != "not-a-url" {
				t.Errorf("ValidateURL(%q) error = %v, want ErrBlockedURL", tt.url, err)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		// IPv4 private ranges
		{"192.168.1.1", true},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"127.0.0.1", true},
		{"169.254.1.1", true}, // IPv4 link-local

		// IPv4 public
		{"8.8.8.8", false},
		{"1.1.1.1", false},

		// CGNAT
		{"100.64.0.1", true},
		{"100.127.255.255", true},

		// IPv6
		{"::1", true},                  // IPv6 loopback
		{"::ffff:192.168.1.1", true},   // IPv6-mapped private IPv4
		{"::ffff:127.0.0.1", true},     // IPv6-mapped loopback
		{"::ffff:8.8.8.8", false},      // IPv6-mapped public IPv4
		{"fe80::1", true},              // IPv6 link-local
		{"fc00::1", true},              // IPv6 unique local
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("failed to parse IP: %s", tt.ip)
			}
			got := IsPrivateIP(ip)
			if got != tt.expected {
				t.Errorf("IsPrivateIP(%q) = %v, want %v", tt.ip, got, tt.expected)
			}
		})
	}
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "root path",
			url:      "https://example.com",
			expected: "example_com__index.md",
		},
		{
			name:     "nested path",
			url:      "https://shop.example.com/bikes/trail-2024/",
			expected: "shop_example_com__bikes_trail-2024.md",
		},
		{
			name:     "query string",
			url:      "https://example.com/search?q=bike&page=2",
			expected: "example_com__search__q_bike_page_2.md",
		},
		{
			name:     "port ignored",
			url:      "http://example.com:8080/p",
			expected: "example_com__p.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputFilename(tt.url)
			if err != nil {
				t.Fatalf("OutputFilename(%q) error = %v", tt.url, err)
			}
			if got != tt.expected {
				t.Errorf("OutputFilename(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	got, err := OutputPath(filepath.Join("out", "report.MD"), "https://example.com/a")
	if err != nil {
		t.Fatalf("OutputPath error = %v", err)
	}
	if want := filepath.Join("out", "report.MD"); got != want {
		t.Errorf("OutputPath with .md target = %q, want %q", got, want)
	}

	got, err = OutputPath("out", "https://example.com/a")
	if err != nil {
		t.Fatalf("OutputPath error = %v", err)
	}
	if want := filepath.Join("out", "example_com__a.md"); got != want {
		t.Errorf("OutputPath with directory = %q, want %q", got, want)
	}

	if _, err := OutputPath("out", "://bad"); err == nil {
		t.Error("OutputPath with invalid URL should fail")
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://example.com/path", "example.com"},
		{"https://docs.example.com", "docs.example.com"},
		{"https://example.com:8080/path", "example.com"},
		{"invalid-url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := ExtractDomain(tt.url)
			if got != tt.expected {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}
