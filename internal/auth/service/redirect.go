package service

import (
	"strings"

	"github.com/edunexia/edunexia-api/pkg/httpx"
)

// CallbackPath is the provider callback route, relative to the API prefix.
const CallbackPath = "/auth/google/callback"

// RedirectResolver works out the public URLs for one request. Configured
// values that are blank or point at localhost are treated as placeholders
// and replaced by the address the request actually arrived on.
type RedirectResolver struct {
	APIPrefix   string
	FrontendURL string
	RedirectURI string
}

// ResolvedURLs are the per-request URLs used by the federation flow.
type ResolvedURLs struct {
	BaseURL     string
	FrontendURL string
	RedirectURI string
}

// Resolve computes the URLs for a request. It must be called per request;
// the same process can be reached through several hostnames.
func (r RedirectResolver) Resolve(o httpx.RequestOrigin) ResolvedURLs {
	host := o.Host
	if o.ForwardedHost != "" {
		host = o.ForwardedHost
	}

	var scheme string
	switch {
	case strings.Contains(host, "localhost"):
		scheme = o.Scheme
		if scheme == "" {
			scheme = "http"
		}
	case o.ForwardedProto != "":
		scheme = o.ForwardedProto
	default:
		scheme = "https"
	}

	base := scheme + "://" + host

	frontend := strings.TrimRight(strings.TrimSpace(r.FrontendURL), "/")
	if isPlaceholderURL(frontend) {
		frontend = base
	}

	redirect := strings.TrimSpace(r.RedirectURI)
	if isPlaceholderURL(redirect) {
		redirect = base + strings.TrimRight(r.APIPrefix, "/") + CallbackPath
	}

	return ResolvedURLs{
		BaseURL:     base,
		FrontendURL: frontend,
		RedirectURI: redirect,
	}
}

func isPlaceholderURL(v string) bool {
	return v == "" || strings.Contains(v, "localhost")
}
