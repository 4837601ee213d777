// Package weburl provides URL validation and output file naming for pages
// analyzed by semlens.
//
// # URL Validation
//
// The ValidateURL function checks URLs against multiple security criteria:
//
//   - Requires HTTPS scheme (plain HTTP only with AllowHTTP)
//   - Blocks localhost variants (localhost, 127.0.0.1, ::1)
//   - Blocks local domains (.local, .internal)
//   - Blocks private IP ranges (RFC 1918, CGNAT, link-local)
//
// # IP Address Handling
//
// The IsPrivateIP function detects private/reserved IP addresses including:
//
//   - IPv4 private ranges (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16)
//   - IPv4 loopback (127.0.0.0/8)
//   - IPv4 link-local (169.254.0.0/16)
//   - CGNAT range (100.64.0.0/10)
//   - IPv6 loopback (::1)
//   - IPv6 unique local (fc00::/7)
//   - IPv6 link-local (fe80::/10)
//   - IPv6-mapped IPv4 addresses (::ffff:x.x.x.x)
//
// # Output Files
//
// OutputFilename derives a stable report file name from a URL:
//
//	https://example.com/shop/bikes?page=2 → example_com__shop_bikes__page_2.md
//
// OutputPath joins that name onto a directory unless the target already
// names a Markdown file.
//
// # Usage
//
//	if err := weburl.ValidateURL(raw, weburl.AllowHTTP()); err != nil {
//	    return err
//	}
//	path, err := weburl.OutputPath("reports", raw)
package weburl
