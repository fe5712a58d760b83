package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SetAccountActive activates or deactivates another account. The session
// must belong to an admin.
func (s *Session) SetAccountActive(ctx context.Context, accountID int64, active bool) (*AccountSummary, error) {
	body, err := json.Marshal(SetActiveRequest{Active: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	path := fmt.Sprintf("%s/accounts/%d/active", APIPrefix, accountID)
	resp, err := s.doAuthRequest(ctx, http.MethodPatch, path, bytes.NewReader(body), jsonHeaders)
	if err != nil {
		return nil, err
	}

	var env Envelope[AccountSummary]
	if err := decodeJSON(resp, &env, http.StatusOK); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
