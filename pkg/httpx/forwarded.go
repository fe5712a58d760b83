package httpx

import (
	"net/http"
	"strings"
)

// RequestOrigin is what a request tells us about the public address it was
// sent to. Proxies and edge platforms rewrite Host, so the forwarded values
// are kept separately and preferred by the caller.
type RequestOrigin struct {
	Host           string
	Scheme         string
	ForwardedHost  string
	ForwardedProto string
}

// OriginFromRequest captures the observed host and scheme plus the first
// X-Forwarded-Host / X-Forwarded-Proto values.
func OriginFromRequest(r *http.Request) RequestOrigin {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return RequestOrigin{
		Host:           r.Host,
		Scheme:         scheme,
		ForwardedHost:  firstHeaderValue(r.Header.Get("X-Forwarded-Host")),
		ForwardedProto: strings.ToLower(firstHeaderValue(r.Header.Get("X-Forwarded-Proto"))),
	}
}

// firstHeaderValue returns the left-most entry of a comma separated header,
// which is the one set by the proxy closest to the client.
func firstHeaderValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}
