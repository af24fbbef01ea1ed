package utils

import (
	"net/url"
	"sort"
	"strings"
)

// Tracking parameters that never change which posting a link points to.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"fbclid":       true,
	"gclid":        true,
	"ref":          true,
	"src":          true,
	"trk":          true,
	"refid":        true,
}

// CanonicalizeURL normalizes a job link so the same posting always yields the
// same dedup key: lowercased scheme/host, tracking parameters stripped, query
// sorted, fragment and trailing slash removed.
func CanonicalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if trackingParams[strings.ToLower(param)] {
			q.Del(param)
		}
	}
	if len(q) > 0 {
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			for _, v := range q[k] {
				if b.Len() > 0 {
					b.WriteByte('&')
				}
				b.WriteString(url.QueryEscape(k))
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(v))
			}
		}
		u.RawQuery = b.String()
	} else {
		u.RawQuery = ""
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String(), nil
}

// ExtractDomain extracts the lowercased hostname from a URL string, without
// the www prefix. Returns "unknown" when the URL cannot be parsed.
func ExtractDomain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "unknown"
	}
	host := u.Hostname()
	if host == "" {
		// Bare domains like "example.com" parse into Path.
		host = strings.SplitN(u.Path, "/", 2)[0]
	}
	if host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// AbsoluteURL resolves a possibly-relative href against a base page URL.
func AbsoluteURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
