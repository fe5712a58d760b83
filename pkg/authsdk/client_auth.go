package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// Login exchanges a username and password for a credential.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*AuthData, error) {
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, APIPrefix+"/auth/student/login", bytes.NewReader(body), jsonHeaders)
	if err != nil {
		return nil, err
	}

	var env Envelope[AuthData]
	if err := decodeJSON(resp, &env, http.StatusOK); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Register creates a student account and returns its first credential.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*AuthData, error) {
	if c.ValidateRequests {
		if errs := req.Validate(); errs != nil {
			return nil, ErrValidation.WithDetails(errs)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, APIPrefix+"/auth/student/register", bytes.NewReader(body), jsonHeaders)
	if err != nil {
		return nil, err
	}

	var env Envelope[AuthData]
	if err := decodeJSON(resp, &env, http.StatusCreated); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GoogleLoginURL is the address a browser should open to start Google
// sign-in. The server answers it with a redirect.
func (c *SDKClient) GoogleLoginURL() string {
	return c.url(APIPrefix + "/auth/google/login")
}
