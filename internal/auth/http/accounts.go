package http

import (
	"net/http"
	"strconv"

	"github.com/edunexia/edunexia-api/internal/auth/service"
	"github.com/edunexia/edunexia-api/pkg/authsdk"
	"github.com/edunexia/edunexia-api/pkg/httpx"
	"github.com/edunexia/edunexia-api/pkg/slogx"
)

type AccountsHandler struct {
	Accounts *service.AccountService
}

// HandleSetActive activates or deactivates an account.
//
//	@Summary		Set account active flag
//	@Description	Deactivated accounts keep their data but cannot sign in or use existing credentials.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int										true	"Account id"
//	@Param			request	body		authsdk.SetActiveRequest				true	"New state"
//	@Success		200		{object}	authsdk.Envelope[authsdk.AccountSummary]	"Updated account"
//	@Failure		400		{object}	authsdk.ErrorEnvelope						"Bad id or body"
//	@Failure		401		{object}	authsdk.ErrorEnvelope						"Missing, invalid or expired credential"
//	@Failure		403		{object}	authsdk.ErrorEnvelope						"Caller is not an admin"
//	@Failure		404		{object}	authsdk.ErrorEnvelope						"No such account"
//	@Router			/api/v1/accounts/{id}/active [patch].
func (h *AccountsHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		authsdk.ErrInvalidRequest.WithMessage("account id must be a positive integer").WriteError(w)
		return
	}

	var req authsdk.SetActiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Active == nil {
		log.Debug("invalid set-active body", "err", err)
		authsdk.ErrInvalidRequest.WithMessage("body must be {\"active\": true|false}").WriteError(w)
		return
	}

	if err := h.Accounts.SetActive(r.Context(), id, *req.Active); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.Accounts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.Envelope[authsdk.AccountSummary]{
		Status:  authsdk.StatusSuccess,
		Message: "account updated",
		Data:    summary(account),
	})
}
