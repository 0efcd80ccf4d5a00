package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/rbxup/internal/shared"
)

// testEndpoints points every endpoint template at the given test server.
func testEndpoints(baseURL string) shared.EndpointsConfig {
	return shared.EndpointsConfig{
		Download:          baseURL + "/primary/{assetId}",
		DownloadFallback:  baseURL + "/fallback/{assetId}",
		Upload:            baseURL + "/upload",
		Creations:         baseURL + "/creations",
		AuthenticatedUser: baseURL + "/users/me",
		KeyProbe:          baseURL + "/probe",
	}
}

// newTestService builds a RobloxService against a test server.
func newTestService(t *testing.T, creds *Credentials, srv *httptest.Server) *RobloxService {
	t.Helper()

	svc, err := NewRobloxService(creds, testEndpoints(srv.URL), srv.Client())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestNewRobloxService(t *testing.T) {
	t.Run("rejects empty secrets", func(t *testing.T) {
		_, err := NewRobloxService(&Credentials{Method: CookieAuth}, shared.EndpointsConfig{}, nil)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("fills endpoint defaults", func(t *testing.T) {
		svc, err := NewRobloxService(&Credentials{Method: CookieAuth, Secret: "s"}, shared.EndpointsConfig{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if svc.endpoints.Download == "" || svc.endpoints.Upload == "" {
			t.Error("expected default endpoints to be filled in")
		}
		if svc.Name() != "Roblox" {
			t.Errorf("expected service name 'Roblox', got %s", svc.Name())
		}
	})
}

func TestCredentialsApply(t *testing.T) {
	newReq := func(t *testing.T) *http.Request {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
		if err != nil {
			t.Fatalf("failed to create request: %v", err)
		}
		return req
	}

	t.Run("cookie auth sets the session cookie", func(t *testing.T) {
		creds := &Credentials{Method: CookieAuth, Secret: "sekrit"}
		req := newReq(t)
		creds.Apply(req)

		if got := req.Header.Get("Cookie"); got != ".ROBLOSECURITY=sekrit" {
			t.Errorf("unexpected cookie header: %q", got)
		}
		if req.Header.Get("x-api-key") != "" {
			t.Error("cookie auth must not set an api key header")
		}
	})

	t.Run("api key auth sets the key header", func(t *testing.T) {
		creds := &Credentials{Method: APIKeyAuth, Secret: "key123"}
		req := newReq(t)
		creds.Apply(req)

		if got := req.Header.Get("x-api-key"); got != "key123" {
			t.Errorf("unexpected api key header: %q", got)
		}
		if req.Header.Get("Cookie") != "" {
			t.Error("api key auth must not set a cookie header")
		}
	})

	t.Run("always sends the client identifier", func(t *testing.T) {
		for _, creds := range []*Credentials{
			{Method: CookieAuth, Secret: "x"},
			{Method: APIKeyAuth, Secret: "x"},
			{Method: CookieAuth},
		} {
			req := newReq(t)
			creds.Apply(req)
			if req.Header.Get("User-Agent") == "" {
				t.Errorf("missing client identifier for %+v", creds)
			}
		}
	})

	t.Run("empty secret sends no auth headers", func(t *testing.T) {
		creds := &Credentials{Method: CookieAuth}
		req := newReq(t)
		creds.Apply(req)

		if req.Header.Get("Cookie") != "" || req.Header.Get("x-api-key") != "" {
			t.Error("empty secret must not produce auth headers")
		}
	})
}

func TestParseAuthMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    AuthMethod
		wantErr bool
	}{
		{"cookie", CookieAuth, false},
		{"roblosecurity", CookieAuth, false},
		{"api_key", APIKeyAuth, false},
		{"x_api_key", APIKeyAuth, false},
		{"oauth", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseAuthMethod(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAuthMethod(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAuthMethod(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseAuthMethod(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
