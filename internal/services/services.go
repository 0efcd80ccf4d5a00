// package services defines interface AssetService for interacting with the Roblox HTTP APIs
//
// Asset delivery, creations inventory, Open Cloud upload
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/rbxup/internal/shared"
)

// Per-call timeouts. Publish gets the longest bound since multipart upload
// size dominates; the fallback download is slightly tighter than the primary.
const (
	fetchTimeout    = 15 * time.Second
	fallbackTimeout = 12 * time.Second
	pageTimeout     = 15 * time.Second
	publishTimeout  = 30 * time.Second
)

// clientIdentifier is sent on every outbound request regardless of auth method.
const clientIdentifier = "rbxup/0.1"

// ReuploadMarker prefixes the description of every published asset.
//
// FindExisting keys on this prefix to recognize prior reuploads. It is a
// convention, not a unique token — renamed or colliding assets can defeat it,
// which is why duplicate detection stays behind the FindExisting contract.
const ReuploadMarker = "Reuploaded at "

// AssetService defines the platform operations the reupload pipeline depends on.
type AssetService interface {
	// Verify validates the configured credentials against the platform.
	// Must succeed before any batch work; under cookie auth it also resolves
	// the account id used by FindExisting.
	Verify(ctx context.Context) error

	// Fetch retrieves the raw bytes of an asset by id.
	Fetch(ctx context.Context, assetID int64) (*AssetContent, error)

	// FindExisting searches the account's creations for a previously
	// reuploaded asset with the given display name and kind.
	FindExisting(ctx context.Context, displayName, assetKind string) (int64, bool, error)

	// Publish uploads content as a new asset and returns the new asset id.
	Publish(ctx context.Context, content *AssetContent, displayName, assetKind string) (int64, error)

	// Name returns the name of the platform (e.g. "Roblox")
	Name() string
}

// AssetContent represents downloaded asset bytes plus a suggested filename.
//
// The filename may lack an extension when the delivery endpoint gives no
// usable Content-Type; callers must not assume one is present.
type AssetContent struct {
	Bytes    []byte
	Filename string
}

// AuthMethod selects which credential is sent on outbound requests.
type AuthMethod int

const (
	// CookieAuth authenticates with a .ROBLOSECURITY session cookie.
	CookieAuth AuthMethod = iota
	// APIKeyAuth authenticates with an Open Cloud x-api-key header.
	APIKeyAuth
)

func (m AuthMethod) String() string {
	switch m {
	case CookieAuth:
		return "cookie"
	case APIKeyAuth:
		return "api_key"
	default:
		return ""
	}
}

// ParseAuthMethod converts a config string ("cookie" or "api_key") to an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "cookie", "roblosecurity":
		return CookieAuth, nil
	case "api_key", "x_api_key":
		return APIKeyAuth, nil
	default:
		return 0, fmt.Errorf("%w: unknown auth method %q", shared.ErrInvalidConfig, s)
	}
}

// Credentials holds the active auth method and its secret.
//
// AccountID is populated by Verify under CookieAuth only; it is required for
// creations inventory searches and never available under APIKeyAuth. Apart
// from that single assignment the value is read-only during a batch.
type Credentials struct {
	Method    AuthMethod
	Secret    string
	AccountID int64
}

// Apply sets the outbound headers for the credential: the fixed client
// identifier plus exactly one auth header selected by Method.
//
// With an empty secret only the client identifier is sent; the platform
// rejects the request upstream, which is the intended fail-closed behavior.
func (c *Credentials) Apply(req *http.Request) {
	req.Header.Set("User-Agent", clientIdentifier)

	if c.Secret == "" {
		return
	}

	switch c.Method {
	case CookieAuth:
		req.Header.Set("Cookie", ".ROBLOSECURITY="+c.Secret)
	case APIKeyAuth:
		req.Header.Set("x-api-key", c.Secret)
	}
}

// RobloxService implements the AssetService interface against the Roblox APIs.
type RobloxService struct {
	creds      *Credentials
	endpoints  shared.EndpointsConfig
	httpClient *http.Client
}

// NewRobloxService creates a new Roblox service with the given credentials and endpoint templates.
//
// Zero-valued endpoint fields fall back to the embedded defaults.
func NewRobloxService(creds *Credentials, endpoints shared.EndpointsConfig, client *http.Client) (*RobloxService, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: no credentials configured", shared.ErrMissingCredentials)
	}
	if creds.Secret == "" {
		return nil, fmt.Errorf("%w: no secret configured for method %q", shared.ErrMissingCredentials, creds.Method)
	}
	if client == nil {
		client = http.DefaultClient
	}

	defaults := shared.DefaultConfig().Endpoints
	if endpoints.Download == "" {
		endpoints.Download = defaults.Download
	}
	if endpoints.DownloadFallback == "" {
		endpoints.DownloadFallback = defaults.DownloadFallback
	}
	if endpoints.Upload == "" {
		endpoints.Upload = defaults.Upload
	}
	if endpoints.Creations == "" {
		endpoints.Creations = defaults.Creations
	}
	if endpoints.AuthenticatedUser == "" {
		endpoints.AuthenticatedUser = defaults.AuthenticatedUser
	}
	if endpoints.KeyProbe == "" {
		endpoints.KeyProbe = defaults.KeyProbe
	}

	return &RobloxService{
		creds:      creds,
		endpoints:  endpoints,
		httpClient: client,
	}, nil
}

func (s *RobloxService) Name() string {
	return "Roblox"
}

// Credentials exposes the service's credential context (read-only by convention).
func (s *RobloxService) Credentials() *Credentials {
	return s.creds
}

// apiResponse represents a fully-read platform response.
type apiResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// do performs an authenticated request with a bounded timeout and reads the
// whole body before returning, so the per-call context can be released.
func (s *RobloxService) do(ctx context.Context, method, url string, body io.Reader, contentType string, timeout time.Duration) (*apiResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.creds.Apply(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &apiResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       b,
	}, nil
}

// excerpt truncates a response body for diagnostics.
func excerpt(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}
	return string(body)
}
