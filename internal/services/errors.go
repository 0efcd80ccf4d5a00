package services

import (
	"fmt"

	"github.com/desertthunder/rbxup/internal/shared"
)

// FetchError reports both delivery endpoints rejecting an asset download.
type FetchError struct {
	AssetID        int64
	PrimaryStatus  int
	FallbackStatus int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("asset %d: download failed, primary status %d, fallback status %d",
		e.AssetID, e.PrimaryStatus, e.FallbackStatus)
}

func (e *FetchError) Unwrap() error {
	return shared.ErrDownloadFailed
}

// PublishError reports the upload endpoint rejecting a publish request.
type PublishError struct {
	Status int
	Body   string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("upload rejected with status %d: %s", e.Status, e.Body)
}

func (e *PublishError) Unwrap() error {
	return shared.ErrUploadRejected
}
