package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/rbxup/internal/shared"
)

func TestPublish(t *testing.T) {
	ctx := context.Background()
	creds := &Credentials{Method: APIKeyAuth, Secret: "key"}
	content := &AssetContent{Bytes: []byte("raw-bytes"), Filename: "jump.mp3"}

	t.Run("sends metadata and file parts", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("expected multipart body: %v", err)
			}

			var meta uploadRequest
			if err := json.Unmarshal([]byte(r.FormValue("request")), &meta); err != nil {
				t.Fatalf("unparsable request part: %v", err)
			}
			if meta.AssetType != "Audio" || meta.DisplayName != "Jump" {
				t.Errorf("unexpected metadata: %+v", meta)
			}
			if !strings.HasPrefix(meta.Description, ReuploadMarker) {
				t.Errorf("description missing marker prefix: %q", meta.Description)
			}

			file, header, err := r.FormFile("fileContent")
			if err != nil {
				t.Fatalf("missing fileContent part: %v", err)
			}
			defer file.Close()
			if header.Filename != "jump.mp3" {
				t.Errorf("unexpected upload filename: %q", header.Filename)
			}

			w.Write([]byte(`{"assetId": 654321}`))
		}))
		defer srv.Close()

		svc := newTestService(t, creds, srv)
		id, err := svc.Publish(ctx, content, "Jump", "Audio")
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if id != 654321 {
			t.Errorf("expected asset id 654321, got %d", id)
		}
	})

	t.Run("accepts alternate id fields", func(t *testing.T) {
		bodies := []string{
			`{"id": "999"}`,
			`{"data": {"assetId": 999}}`,
			`{"assetId": "999"}`,
		}

		for _, body := range bodies {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))

			svc := newTestService(t, creds, srv)
			id, err := svc.Publish(ctx, content, "Jump", "Audio")
			srv.Close()

			if err != nil {
				t.Errorf("body %s: Publish() error = %v", body, err)
				continue
			}
			if id != 999 {
				t.Errorf("body %s: expected id 999, got %d", body, id)
			}
		}
	})

	t.Run("a 2xx without an asset id is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "accepted"}`))
		}))
		defer srv.Close()

		svc := newTestService(t, creds, srv)
		if _, err := svc.Publish(ctx, content, "Jump", "Audio"); !errors.Is(err, shared.ErrNoAssetID) {
			t.Errorf("expected ErrNoAssetID, got %v", err)
		}
	})

	t.Run("rejected uploads carry status and body excerpt", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message": "moderation rejected the name"}`))
		}))
		defer srv.Close()

		svc := newTestService(t, creds, srv)
		_, err := svc.Publish(ctx, content, "Jump", "Audio")
		if !errors.Is(err, shared.ErrUploadRejected) {
			t.Fatalf("expected ErrUploadRejected, got %v", err)
		}

		var pe *PublishError
		if !errors.As(err, &pe) {
			t.Fatalf("expected a PublishError, got %T", err)
		}
		if pe.Status != http.StatusUnprocessableEntity {
			t.Errorf("expected status 422, got %d", pe.Status)
		}
		if !strings.Contains(pe.Body, "moderation") {
			t.Errorf("expected body excerpt, got %q", pe.Body)
		}
	})

	t.Run("wraps transport failures", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		svc := newTestService(t, creds, srv)
		srv.Close()

		if _, err := svc.Publish(ctx, content, "Jump", "Audio"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestParseAssetID(t *testing.T) {
	tests := []struct {
		body string
		want int64
	}{
		{`{"assetId": 123}`, 123},
		{`{"assetId": "123"}`, 123},
		{`{"id": 456}`, 456},
		{`{"data": {"assetId": 789}}`, 789},
		{`{"path": "assets/123"}`, 0},
		{`not json`, 0},
		{``, 0},
	}

	for _, tc := range tests {
		if got := parseAssetID([]byte(tc.body)); got != tc.want {
			t.Errorf("parseAssetID(%q) = %d, want %d", tc.body, got, tc.want)
		}
	}
}

func TestGuessMime(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"jump.mp3", "audio/mpeg"},
		{"asset_123", "application/octet-stream"},
		{"weird.zzz", "application/octet-stream"},
	}

	for _, tc := range tests {
		if got := guessMime(tc.filename); got != tc.want {
			t.Errorf("guessMime(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}
