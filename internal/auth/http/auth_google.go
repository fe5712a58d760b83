package http

import (
	"net/http"

	"github.com/edunexia/edunexia-api/internal/auth/service"
	"github.com/edunexia/edunexia-api/pkg/httpx"
)

type GoogleHandler struct {
	Federation *service.FederationService
}

// HandleLogin starts Google sign-in.
//
//	@Summary		Start Google sign-in
//	@Description	Redirects the browser to Google's consent screen.
//	@Tags			Google
//	@Success		302	"Redirect to Google"
//	@Failure		501	{object}	authsdk.ErrorEnvelope	"Google sign-in is not configured"
//	@Router			/api/v1/auth/google/login [get].
func (h *GoogleHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	target, err := h.Federation.Initiate(r.Context(), httpx.OriginFromRequest(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.Redirect(w, r, target)
}

// HandleCallback finishes Google sign-in. It always redirects to the
// frontend, with either a token or an error tag.
//
//	@Summary		Google callback
//	@Description	Exchanges the authorization code, resolves the account and redirects to
//	@Description	{frontend}/auth/callback?token=... or {frontend}/login?error=<tag>.
//	@Tags			Google
//	@Param			code	query	string	false	"Authorization code"
//	@Param			error	query	string	false	"Provider error"
//	@Success		302		"Redirect to the frontend"
//	@Router			/api/v1/auth/google/callback [get].
func (h *GoogleHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ec := h.Federation.ExchangeContext(httpx.OriginFromRequest(r), q.Get("code"), q.Get("error"))

	res := h.Federation.Callback(r.Context(), ec)
	httpx.Redirect(w, r, res.Redirect)
}
