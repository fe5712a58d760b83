package http

import (
	"net/http"

	"github.com/edunexia/edunexia-api/internal/auth/domain"
	"github.com/edunexia/edunexia-api/internal/auth/service"
	"github.com/edunexia/edunexia-api/pkg/authsdk"
	"github.com/edunexia/edunexia-api/pkg/httpx"
	"github.com/edunexia/edunexia-api/pkg/slogx"
)

type StudentAuthHandler struct {
	Credentials *service.CredentialService
}

// HandleLogin signs a student in with a username and password.
//
//	@Summary		Student login
//	@Description	Exchanges a username and password for a session credential.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest							true	"Credentials"
//	@Success		200		{object}	authsdk.Envelope[authsdk.AuthData]	"Credential and account"
//	@Failure		400		{object}	authsdk.ErrorEnvelope				"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorEnvelope				"Incorrect username or password"
//	@Failure		403		{object}	authsdk.ErrorEnvelope				"Account is inactive"
//	@Failure		429		{object}	authsdk.ErrorEnvelope				"Rate limit exceeded"
//	@Failure		503		{object}	authsdk.ErrorEnvelope				"Store unavailable"
//	@Router			/api/v1/auth/student/login [post].
func (h *StudentAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		slogx.FromContext(r.Context()).Debug("invalid login body", "err", err)
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	sess, err := h.Credentials.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.Envelope[authsdk.AuthData]{
		Status:  authsdk.StatusSuccess,
		Message: "login successful",
		Data:    authData(sess),
	})
}

// HandleRegister creates a student account.
//
//	@Summary		Student registration
//	@Description	Creates a password account with the student role and returns its first credential.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest				true	"New account"
//	@Success		201		{object}	authsdk.Envelope[authsdk.AuthData]	"Credential and account"
//	@Failure		400		{object}	authsdk.ErrorEnvelope				"Validation failed; details per field"
//	@Failure		409		{object}	authsdk.ErrorEnvelope				"Username or email already registered"
//	@Failure		429		{object}	authsdk.ErrorEnvelope				"Rate limit exceeded"
//	@Router			/api/v1/auth/student/register [post].
func (h *StudentAuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		slogx.FromContext(r.Context()).Debug("invalid register body", "err", err)
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	sess, err := h.Credentials.Register(r.Context(), domain.Registration{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.FullName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.Envelope[authsdk.AuthData]{
		Status:  authsdk.StatusSuccess,
		Message: "account registered",
		Data:    authData(sess),
	})
}

// HandleMe returns the signed-in account.
//
//	@Summary		Current account
//	@Description	Returns the account behind the bearer credential, whatever its role.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Envelope[authsdk.AccountSummary]	"Account"
//	@Failure		401	{object}	authsdk.ErrorEnvelope						"Missing, invalid or expired credential"
//	@Failure		403	{object}	authsdk.ErrorEnvelope						"Inactive account"
//	@Router			/api/v1/auth/student/me [get].
func (h *StudentAuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	account, ok := accountFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.Envelope[authsdk.AccountSummary]{
		Status: authsdk.StatusSuccess,
		Data:   summary(account),
	})
}

func authData(sess service.Session) authsdk.AuthData {
	return authsdk.AuthData{
		AccessToken: sess.Credential.AccessToken,
		TokenType:   sess.Credential.TokenType,
		ExpiresAt:   sess.Credential.ExpiresAt,
		User:        summary(sess.Account),
	}
}

func summary(a domain.Account) authsdk.AccountSummary {
	s := a.Summary()
	return authsdk.AccountSummary{
		ID:        s.ID,
		Username:  s.Username,
		Email:     s.Email,
		FullName:  s.DisplayName,
		Role:      string(s.Role),
		IsActive:  s.Active,
		Federated: s.Federated,
		CreatedAt: s.CreatedAt,
	}
}
