package weburl

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"
)

// Pre-compiled CIDR networks for private/reserved IP ranges.
// These are parsed once at package initialization for efficiency.
var (
	cgnat    *net.IPNet // 100.64.0.0/10 - Carrier-grade NAT
	v6unique *net.IPNet // fc00::/7 - IPv6 unique local
	v6link   *net.IPNet // fe80::/10 - IPv6 link-local
)

// ErrBlockedURL is wrapped by every ValidateURL rejection.
var ErrBlockedURL = errors.New("URL not allowed")

func init() {
	var err error

	_, cgnat, err = net.ParseCIDR("100.64.0.0/10")
	if err != nil {
		panic("invalid CGNAT CIDR: " + err.Error())
	}

	_, v6unique, err = net.ParseCIDR("fc00::/7")
	if err != nil {
		panic("invalid IPv6 unique local CIDR: " + err.Error())
	}

	_, v6link, err = net.ParseCIDR("fe80::/10")
	if err != nil {
		panic("invalid IPv6 link-local CIDR: " + err.Error())
	}
}

type options struct {
	allowHTTP bool
}

// Option adjusts URL validation.
type Option func(*options)

// AllowHTTP accepts plain http:// URLs in addition to https://.
func AllowHTTP() Option {
	return func(o *options) { o.allowHTTP = true }
}

// WithHTTP is AllowHTTP when allow is true and a no-op otherwise.
func WithHTTP(allow bool) Option {
	return func(o *options) { o.allowHTTP = o.allowHTTP || allow }
}

// ValidateURL validates a URL for security (SSRF prevention).
// It requires HTTPS and blocks localhost, private IPs, and local domains.
func ValidateURL(rawURL string, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	switch parsed.Scheme {
	case "https":
	case "http":
		if !o.allowHTTP {
			return fmt.Errorf("%w: only HTTPS URLs are allowed", ErrBlockedURL)
		}
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrBlockedURL, parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrBlockedURL)
	}

	lowHost := strings.ToLower(host)
	if lowHost == "localhost" || lowHost == "127.0.0.1" || lowHost == "::1" {
		return fmt.Errorf("%w: localhost URLs are not allowed", ErrBlockedURL)
	}

	if strings.HasSuffix(lowHost, ".local") || strings.HasSuffix(lowHost, ".internal") {
		return fmt.Errorf("%w: local domain URLs are not allowed", ErrBlockedURL)
	}

	if ip := net.ParseIP(host); ip != nil {
		if IsPrivateIP(ip) {
			return fmt.Errorf("%w: private IP addresses are not allowed", ErrBlockedURL)
		}
	}

	return nil
}

// IsPrivateIP checks if an IP is in private/reserved ranges.
// It handles IPv4, IPv6, and IPv6-mapped IPv4 addresses.
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	// IPv6-mapped IPv4 addresses (::ffff:x.x.x.x)
	if v4 := ip.To4(); v4 != nil {
		ip = v4
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			return true
		}
	}

	return cgnat.Contains(ip) || v6unique.Contains(ip) || v6link.Contains(ip)
}

// OutputFilename derives a report file name from a page URL: host, path
// and query joined by "__", with anything but [A-Za-z0-9_-] replaced by "_".
// An empty path becomes "index".
func OutputFilename(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	host := parsed.Hostname()
	if host == "" {
		host = "page"
	}
	path := strings.ReplaceAll(strings.Trim(parsed.Path, "/"), "/", "_")
	if path == "" {
		path = "index"
	}

	parts := []string{sanitize(host), sanitize(path)}
	if parsed.RawQuery != "" {
		parts = append(parts, sanitize(parsed.RawQuery))
	}
	return strings.Join(parts, "__") + ".md", nil
}

// OutputPath returns target itself when it ends in ".md", otherwise target
// joined with OutputFilename(rawURL).
func OutputPath(target, rawURL string) (string, error) {
	if strings.EqualFold(filepath.Ext(target), ".md") {
		return target, nil
	}
	name, err := OutputFilename(rawURL)
	if err != nil {
		return "", err
	}
	return filepath.Join(target, name), nil
}

// ExtractDomain extracts the domain name from a URL.
// Returns an empty string if the URL is invalid.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
}
