// Open Cloud asset upload client.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/rbxup/internal/shared"
)

// uploadRequest is the structured metadata part of a publish request.
type uploadRequest struct {
	AssetType       string         `json:"assetType"`
	DisplayName     string         `json:"displayName"`
	Description     string         `json:"description"`
	CreationContext map[string]any `json:"creationContext"`
}

// Publish uploads content as a new asset and returns the new asset id.
//
// The request is a multipart body: a "request" part carrying the JSON
// metadata (with the [ReuploadMarker]-prefixed description FindExisting keys
// on) and a "fileContent" part carrying the raw bytes with a MIME type
// inferred from the filename extension. A 2xx response without a parsable
// asset id is still a failure — the pipeline never reports success for an
// upload it cannot map to a new id.
func (s *RobloxService) Publish(ctx context.Context, content *AssetContent, displayName, assetKind string) (int64, error) {
	meta := uploadRequest{
		AssetType:       assetKind,
		DisplayName:     displayName,
		Description:     ReuploadMarker + time.Now().Format(time.ANSIC),
		CreationContext: map[string]any{},
	}

	body, contentType, err := buildUploadBody(meta, content)
	if err != nil {
		return 0, fmt.Errorf("failed to build upload request: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, s.endpoints.Upload, body, contentType, publishTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: upload: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode >= 400 {
		return 0, &PublishError{Status: resp.StatusCode, Body: excerpt(resp.Body, 600)}
	}

	newID := parseAssetID(resp.Body)
	if newID == 0 {
		return 0, fmt.Errorf("%w: body: %s", shared.ErrNoAssetID, excerpt(resp.Body, 300))
	}

	return newID, nil
}

// buildUploadBody assembles the multipart publish body.
func buildUploadBody(meta uploadRequest, content *AssetContent) (*bytes.Buffer, string, error) {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Disposition", `form-data; name="request"`)
	metaHeader.Set("Content-Type", "application/json")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return nil, "", err
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="fileContent"; filename=%q`, content.Filename))
	fileHeader.Set("Content-Type", guessMime(content.Filename))
	filePart, err := w.CreatePart(fileHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := filePart.Write(content.Bytes); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

// guessMime infers a MIME type from a filename extension, defaulting to an
// opaque octet-stream when the extension is unknown or absent.
//
// The audio extensions are mapped explicitly; the platform's mime table may
// not know them.
func guessMime(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	}

	if t := mime.TypeByExtension(path.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// parseAssetID extracts the new asset id from an upload response body.
//
// Field names vary across API versions: assetId, id, or data.assetId, as
// either a number or a numeric string. Returns 0 when none is present.
func parseAssetID(body []byte) int64 {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return 0
	}

	if id := coerceID(payload["assetId"]); id != 0 {
		return id
	}
	if id := coerceID(payload["id"]); id != 0 {
		return id
	}
	if data, ok := payload["data"].(map[string]any); ok {
		return coerceID(data["assetId"])
	}

	return 0
}

func coerceID(v any) int64 {
	switch id := v.(type) {
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return 0
		}
		return n
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
