package storefront

import (
	"net/url"
	"strings"
)

const defaultAfterLogin = "/mes-reservations"

// SanitizeRedirect keeps only local absolute paths so the login page cannot
// bounce the client to another host.
func SanitizeRedirect(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.ContainsAny(raw, "\\\r\n") {
		return defaultAfterLogin
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return defaultAfterLogin
	}
	if strings.HasPrefix(u.Path, "/login") {
		return defaultAfterLogin
	}
	return u.RequestURI()
}

// loginURL is where an unauthenticated request for requestURI is sent.
func loginURL(requestURI string) string {
	return "/login?redirect=" + url.QueryEscape(requestURI)
}
