package service

import (
	"testing"

	"github.com/edunexia/edunexia-api/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestRedirectResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolver RedirectResolver
		origin   httpx.RequestOrigin
		want     ResolvedURLs
	}{
		{
			name:     "blank config uses https request host",
			resolver: RedirectResolver{APIPrefix: "/api/v1"},
			origin:   httpx.RequestOrigin{Host: "app.example.com", Scheme: "http"},
			want: ResolvedURLs{
				BaseURL:     "https://app.example.com",
				FrontendURL: "https://app.example.com",
				RedirectURI: "https://app.example.com/api/v1/auth/google/callback",
			},
		},
		{
			name:     "forwarded host and proto win",
			resolver: RedirectResolver{APIPrefix: "/api/v1"},
			origin: httpx.RequestOrigin{
				Host: "internal:8080", Scheme: "http",
				ForwardedHost: "edu.example.org", ForwardedProto: "http",
			},
			want: ResolvedURLs{
				BaseURL:     "http://edu.example.org",
				FrontendURL: "http://edu.example.org",
				RedirectURI: "http://edu.example.org/api/v1/auth/google/callback",
			},
		},
		{
			name:     "localhost keeps observed scheme",
			resolver: RedirectResolver{APIPrefix: "/api/v1"},
			origin:   httpx.RequestOrigin{Host: "localhost:8000", Scheme: "http", ForwardedProto: "https"},
			want: ResolvedURLs{
				BaseURL:     "http://localhost:8000",
				FrontendURL: "http://localhost:8000",
				RedirectURI: "http://localhost:8000/api/v1/auth/google/callback",
			},
		},
		{
			name: "localhost config values are placeholders",
			resolver: RedirectResolver{
				APIPrefix:   "/api/v1",
				FrontendURL: "http://localhost:5173",
				RedirectURI: "http://localhost:8000/api/v1/auth/google/callback",
			},
			origin: httpx.RequestOrigin{Host: "edunexia.vercel.app", Scheme: "http"},
			want: ResolvedURLs{
				BaseURL:     "https://edunexia.vercel.app",
				FrontendURL: "https://edunexia.vercel.app",
				RedirectURI: "https://edunexia.vercel.app/api/v1/auth/google/callback",
			},
		},
		{
			name: "real config values are kept",
			resolver: RedirectResolver{
				APIPrefix:   "/api/v1",
				FrontendURL: "https://www.edunexia.com/",
				RedirectURI: "https://api.edunexia.com/api/v1/auth/google/callback",
			},
			origin: httpx.RequestOrigin{Host: "edunexia.vercel.app", Scheme: "https"},
			want: ResolvedURLs{
				BaseURL:     "https://edunexia.vercel.app",
				FrontendURL: "https://www.edunexia.com",
				RedirectURI: "https://api.edunexia.com/api/v1/auth/google/callback",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.resolver.Resolve(tt.origin))
		})
	}
}
