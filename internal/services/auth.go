// Credential verification against the Roblox auth surfaces.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/rbxup/internal/shared"
)

// Verify validates the configured credentials before any batch work begins.
//
// Cookie auth reads the authenticated-user endpoint and enriches the
// credential context with the account id. API key auth probes a key-gated
// listing endpoint; 200, 403 and 404 all count as "key accepted" because the
// key-auth surface returns permission errors for valid keys scoped to other
// resources. That looseness can mask a genuinely bad key that happens to 403,
// but tightening it would break working deployments, so it is preserved.
func (s *RobloxService) Verify(ctx context.Context) error {
	switch s.creds.Method {
	case CookieAuth:
		return s.verifyCookie(ctx)
	case APIKeyAuth:
		return s.verifyAPIKey(ctx)
	default:
		return fmt.Errorf("%w: unknown auth method", shared.ErrInvalidCredentials)
	}
}

func (s *RobloxService) verifyCookie(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodGet, s.endpoints.AuthenticatedUser, nil, "", pageTimeout)
	if err != nil {
		return fmt.Errorf("%w: cookie verification: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: authenticated-user endpoint returned status %d", shared.ErrInvalidCredentials, resp.StatusCode)
	}

	var user struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return fmt.Errorf("%w: unparsable authenticated-user response: %v", shared.ErrInvalidCredentials, err)
	}
	if user.ID == 0 {
		return fmt.Errorf("%w: authenticated-user response missing id", shared.ErrInvalidCredentials)
	}

	s.creds.AccountID = user.ID
	return nil
}

func (s *RobloxService) verifyAPIKey(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodGet, s.endpoints.KeyProbe, nil, "", pageTimeout)
	if err != nil {
		return fmt.Errorf("%w: api key verification: %v", shared.ErrAPIRequest, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusForbidden, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("%w: key probe returned status %d", shared.ErrInvalidCredentials, resp.StatusCode)
	}
}
