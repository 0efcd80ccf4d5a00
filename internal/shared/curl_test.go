package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleCurl = `curl 'https://www.roblox.com/home' \
  -H 'accept: text/html' \
  -H 'accept-language: en-US' \
  -b '.ROBLOSECURITY=_|WARNING|_token123; GuestData=UserID=-1' \
  -H 'user-agent: Mozilla/5.0'`

func TestParseCurlCommand(t *testing.T) {
	t.Run("extracts headers and cookie", func(t *testing.T) {
		parsed, err := ParseCurlCommand([]byte(sampleCurl))
		if err != nil {
			t.Fatalf("ParseCurlCommand() error = %v", err)
		}

		if parsed.Headers["accept"] != "text/html" {
			t.Errorf("unexpected accept header: %q", parsed.Headers["accept"])
		}
		if parsed.Cookie == "" {
			t.Error("expected cookie to be extracted from -b flag")
		}
	})

	t.Run("cookie header is split out of headers", func(t *testing.T) {
		cmd := `curl 'https://example.com' -H 'Cookie: a=1; b=2' -H 'accept: */*'`
		parsed, err := ParseCurlCommand([]byte(cmd))
		if err != nil {
			t.Fatalf("ParseCurlCommand() error = %v", err)
		}

		if parsed.Cookie != "a=1; b=2" {
			t.Errorf("unexpected cookie: %q", parsed.Cookie)
		}
		if _, ok := parsed.Headers["Cookie"]; ok {
			t.Error("cookie should not stay in the headers map")
		}
	})

	t.Run("fails without headers", func(t *testing.T) {
		if _, err := ParseCurlCommand([]byte("curl 'https://example.com'")); err == nil {
			t.Error("expected error for a bare curl command")
		}
	})
}

func TestParseCurlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.sh")
	if err := os.WriteFile(path, []byte(sampleCurl), 0644); err != nil {
		t.Fatalf("failed to write curl file: %v", err)
	}

	parsed, err := ParseCurlFile(path)
	if err != nil {
		t.Fatalf("ParseCurlFile() error = %v", err)
	}
	if parsed.Cookie == "" {
		t.Error("expected cookie from file")
	}

	if _, err := ParseCurlFile(filepath.Join(t.TempDir(), "missing.sh")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRoblosecurity(t *testing.T) {
	t.Run("extracts the session token", func(t *testing.T) {
		parsed, err := ParseCurlCommand([]byte(sampleCurl))
		if err != nil {
			t.Fatalf("ParseCurlCommand() error = %v", err)
		}

		token, err := parsed.Roblosecurity()
		if err != nil {
			t.Fatalf("Roblosecurity() error = %v", err)
		}
		if token != "_|WARNING|_token123" {
			t.Errorf("unexpected token: %q", token)
		}
	})

	t.Run("fails without a cookie", func(t *testing.T) {
		c := &CurlHeaders{Headers: map[string]string{"accept": "*/*"}}
		if _, err := c.Roblosecurity(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("fails when the session cookie is absent", func(t *testing.T) {
		c := &CurlHeaders{Cookie: "GuestData=UserID=-1; theme=dark"}
		if _, err := c.Roblosecurity(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}
