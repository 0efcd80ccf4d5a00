// Asset delivery (download) client.
package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/rbxup/internal/shared"
)

// Fetch retrieves the raw bytes of an asset by id.
//
// The primary delivery endpoint is tried first; any status >= 400 triggers a
// single attempt against the fallback endpoint. Both failing yields a
// [FetchError] carrying both statuses. No further retries are made — the
// primary/fallback pair is the only resilience mechanism here.
func (s *RobloxService) Fetch(ctx context.Context, assetID int64) (*AssetContent, error) {
	primary := expandAssetID(s.endpoints.Download, assetID)
	resp, err := s.do(ctx, http.MethodGet, primary, nil, "", fetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode >= 400 {
		fallback := expandAssetID(s.endpoints.DownloadFallback, assetID)
		fbResp, fbErr := s.do(ctx, http.MethodGet, fallback, nil, "", fallbackTimeout)
		if fbErr != nil {
			return nil, fmt.Errorf("%w: download fallback: %v", shared.ErrAPIRequest, fbErr)
		}
		if fbResp.StatusCode >= 400 {
			return nil, &FetchError{
				AssetID:        assetID,
				PrimaryStatus:  resp.StatusCode,
				FallbackStatus: fbResp.StatusCode,
			}
		}
		resp = fbResp
	}

	return &AssetContent{
		Bytes:    resp.Body,
		Filename: suggestFilename(resp, assetID),
	}, nil
}

// expandAssetID substitutes the {assetId} placeholder in an endpoint template.
func expandAssetID(template string, assetID int64) string {
	return strings.ReplaceAll(template, "{assetId}", strconv.FormatInt(assetID, 10))
}

// suggestFilename derives a filename for downloaded content.
//
// Prefers the Content-Disposition filename; otherwise synthesizes
// "asset_{id}" with an extension guessed from the Content-Type. Unknown
// content types produce an extensionless name.
func suggestFilename(resp *apiResponse, assetID int64) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}

	ct := resp.Header.Get("Content-Type")
	ext := ""
	switch {
	case strings.Contains(ct, "mpeg"), strings.Contains(ct, "audio"):
		ext = ".mp3"
	case strings.Contains(ct, "xml"):
		ext = ".rbxm"
	}

	return fmt.Sprintf("asset_%d%s", assetID, ext)
}
