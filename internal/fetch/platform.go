package fetch

import (
	"net/url"
	"strings"
)

// IsMapsURL reports whether urlStr points at a Google Maps results or place page.
func IsMapsURL(urlStr string) bool {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	path := strings.ToLower(parsed.Path)

	if host == "maps.google.com" || strings.HasPrefix(host, "maps.google.") {
		return true
	}
	isGoogle := host == "google.com" || host == "www.google.com" ||
		strings.HasPrefix(host, "google.") || strings.HasPrefix(host, "www.google.")
	return isGoogle && strings.HasPrefix(path, "/maps")
}
