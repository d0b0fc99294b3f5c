package service

import (
	"net/url"
	"strings"
)

// RequestMeta carries the transport headers domain resolution reads.
type RequestMeta struct {
	Origin  string
	Host    string
	Referer string
}

// ResolveDomain extracts a canonical domain from request metadata.
// Priority: Origin > Host > Referer, first match wins. A malformed URL is
// treated as absent and resolution falls through. Hostnames are
// case-insensitive, so the result is lowercased to match store keys.
func ResolveDomain(meta RequestMeta) (string, bool) {
	if d := hostFromURL(meta.Origin); d != "" {
		return d, true
	}
	if d := canonicalHost(meta.Host); d != "" {
		return d, true
	}
	if d := hostFromURL(meta.Referer); d != "" {
		return d, true
	}
	return "", false
}

func hostFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return CanonicalDomain(u.Hostname())
}

func canonicalHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	// Host headers may carry a port; Origin/Referer hostnames never do
	// once parsed.
	if idx := strings.LastIndex(host, ":"); idx != -1 && !strings.Contains(host[idx+1:], "]") {
		host = host[:idx]
	}
	return CanonicalDomain(host)
}

// CanonicalDomain normalizes a hostname to its store-key form: lowercase,
// no leading "www." label.
func CanonicalDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, "www.")
	return domain
}
