package domain

import "errors"

var (
	ErrProviderNotConfigured  = errors.New("provider_not_configured")
	ErrInvalidCredentials     = errors.New("invalid_credentials")
	ErrConflict               = errors.New("conflict")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrForbidden              = errors.New("forbidden")
	ErrBadSignature           = errors.New("bad_signature")
	ErrExpired                = errors.New("expired")
	ErrMalformedClaim         = errors.New("malformed_claim")
	ErrProviderExchangeFailed = errors.New("provider_exchange_failed")
	ErrProviderProfileFailed  = errors.New("provider_profile_failed")
	ErrEmailMissing           = errors.New("email_missing")
	ErrStoreUnavailable       = errors.New("store_unavailable")
	ErrInvalidInput           = errors.New("invalid_input")
)
