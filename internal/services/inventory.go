// Creations inventory search for duplicate detection.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/rbxup/internal/shared"
)

// creationsPageLimit is the fixed page size for inventory listings.
const creationsPageLimit = 100

// creationsPage represents one page of the creations listing.
type creationsPage struct {
	Data []struct {
		AssetID     int64  `json:"assetId"`
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"data"`
	NextPageCursor string `json:"nextPageCursor"`
}

// FindExisting searches the account's creations for a previously reuploaded
// asset matching displayName and assetKind.
//
// Only operational under cookie auth with a verified account id; API key auth
// has no per-account creations listing, so the search unconditionally reports
// not-found without touching the network. A match requires both an equal name
// and a description starting with [ReuploadMarker] — the first hit wins and
// pagination stops. Page errors are returned so callers can log them, but by
// contract a failing search means "not found", never a blocked migration.
func (s *RobloxService) FindExisting(ctx context.Context, displayName, assetKind string) (int64, bool, error) {
	if s.creds.Method != CookieAuth || s.creds.AccountID == 0 {
		return 0, false, nil
	}

	cursor := ""
	for {
		pageURL := s.creationsURL(assetKind, cursor)
		resp, err := s.do(ctx, http.MethodGet, pageURL, nil, "", pageTimeout)
		if err != nil {
			return 0, false, fmt.Errorf("%w: creations page: %v", shared.ErrAPIRequest, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return 0, false, fmt.Errorf("%w: creations page returned status %d", shared.ErrAPIRequest, resp.StatusCode)
		}

		var page creationsPage
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return 0, false, fmt.Errorf("%w: unparsable creations page: %v", shared.ErrAPIRequest, err)
		}

		for _, item := range page.Data {
			if item.Name == displayName && strings.HasPrefix(item.Description, ReuploadMarker) {
				return item.AssetID, true, nil
			}
		}

		if page.NextPageCursor == "" {
			return 0, false, nil
		}
		cursor = page.NextPageCursor
	}
}

// creationsURL builds one page request for the creations listing.
func (s *RobloxService) creationsURL(assetKind, cursor string) string {
	params := url.Values{}
	params.Set("assetType", assetKind)
	params.Set("isArchived", "false")
	params.Set("limit", strconv.Itoa(creationsPageLimit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	sep := "?"
	if strings.Contains(s.endpoints.Creations, "?") {
		sep = "&"
	}
	return s.endpoints.Creations + sep + params.Encode()
}
