package fetcher

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/usesift/sift/models"
)

// maxURLLength bounds accepted URLs. Longer values are almost always
// garbage or attack payloads, never real article links.
const maxURLLength = 2048

// ValidateURL normalizes and validates a target URL before any network
// activity. A URL without a scheme gets https prepended. The returned
// string is the URL to fetch; a non-nil error is always a
// models.EngineError with code INVALID_URL.
func ValidateURL(rawURL string, allowPrivateHosts bool) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", models.NewKindError(models.ErrorKindInvalidURL, "URL must not be empty", nil)
	}
	if len(rawURL) > maxURLLength {
		return "", models.NewKindError(models.ErrorKindInvalidURL,
			fmt.Sprintf("URL exceeds %d characters", maxURLLength), nil)
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", models.NewKindError(models.ErrorKindInvalidURL, "URL is not parseable", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", models.NewKindError(models.ErrorKindInvalidURL,
			fmt.Sprintf("unsupported scheme %q, only http and https are allowed", u.Scheme), nil)
	}
	host := u.Hostname()
	if host == "" {
		return "", models.NewKindError(models.ErrorKindInvalidURL, "URL has no host", nil)
	}
	if !allowPrivateHosts && isBlockedHost(host) {
		return "", models.NewKindError(models.ErrorKindInvalidURL,
			fmt.Sprintf("host %q resolves to a private or local address", host), nil)
	}
	return u.String(), nil
}

// isBlockedHost rejects localhost names and literal IPs in loopback,
// RFC1918, link-local, and unspecified ranges. DNS names other than
// localhost are not resolved here; the check guards the obvious SSRF
// forms, not a resolver-level egress policy.
func isBlockedHost(host string) bool {
	lower := strings.ToLower(host)
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
