// package tasks implements the asset reupload batch pipeline.
//
// The core abstraction is ReuploadEngine, which drives per-asset migrations sequentially:
// optional duplicate check, download, upload. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/server/UI layers.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/rbxup/internal/services"
	"github.com/desertthunder/rbxup/internal/shared"
	"golang.org/x/time/rate"
)

// defaultItemDelay paces consecutive items to stay under upstream throttling.
const defaultItemDelay = 400 * time.Millisecond

// Status is the terminal outcome of one reupload item.
type Status string

const (
	StatusOK             Status = "ok"
	StatusOKExisting     Status = "ok_existing"
	StatusDownloadFailed Status = "download_failed"
	StatusUploadFailed   Status = "upload_failed"
)

// Item represents one asset migration request.
//
// Kind is a loose tag ("Animation", "Audio", "Model"; the original plugin also
// sends "Sound") normalized before upload. CheckExisting enables the
// duplicate search before downloading.
type Item struct {
	SourceID      int64  `json:"oldId"`
	Name          string `json:"name"`
	Kind          string `json:"type"`
	CheckExisting bool   `json:"checkExisting,omitempty"`
}

// ItemResult is the outcome record for one item.
//
// NewID is nil unless the item reached ok or ok_existing. Kind carries the
// normalized asset type actually used for the upload.
type ItemResult struct {
	SourceID int64  `json:"oldId"`
	NewID    *int64 `json:"newId"`
	Name     string `json:"name"`
	Kind     string `json:"type"`
	Status   Status `json:"status"`
	Error    string `json:"error,omitempty"`
}

// BatchResult aggregates one result per input item, in input order.
type BatchResult struct {
	BatchID       string       `json:"batchId"`
	Results       []ItemResult `json:"results"`
	OKCount       int          `json:"okCount"`
	ExistingCount int          `json:"existingCount"`
	FailedCount   int          `json:"failedCount"`
}

// Engine defines operations for reuploading batches of assets.
type Engine interface {
	// Run processes items strictly sequentially, yielding exactly one result
	// per item in input order regardless of per-item failures.
	Run(ctx context.Context, items []Item, progress chan<- ProgressUpdate) (*BatchResult, error)
}

// ReuploadEngine implements Engine against an [services.AssetService].
type ReuploadEngine struct {
	svc     services.AssetService
	limiter *rate.Limiter
}

// NewReuploadEngine creates a new ReuploadEngine with the provided service and inter-item delay.
//
// A non-positive delay falls back to the default pacing.
func NewReuploadEngine(svc services.AssetService, delay time.Duration) *ReuploadEngine {
	if delay <= 0 {
		delay = defaultItemDelay
	}

	return &ReuploadEngine{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ReuploadEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run processes a batch of reupload items sequentially.
//
// Every item reaches a terminal status and contributes one [ItemResult]; a
// failing item never aborts the batch. A fixed pause separates items
// regardless of outcome. The only early exit is context cancellation.
func (e *ReuploadEngine) Run(ctx context.Context, items []Item, progress chan<- ProgressUpdate) (*BatchResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: asset service not initialized", shared.ErrServiceUnavailable)
	}

	result := &BatchResult{
		BatchID: shared.GenerateID(),
		Results: make([]ItemResult, 0, len(items)),
	}

	total := len(items)
	for i, item := range items {
		if i > 0 {
			if err := e.limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		res := e.processItem(ctx, i+1, total, item, progress)
		result.Results = append(result.Results, res)

		switch res.Status {
		case StatusOK:
			result.OKCount++
		case StatusOKExisting:
			result.ExistingCount++
		default:
			result.FailedCount++
		}

		e.sendProgress(progress, itemDoneUpdate(i+1, total, res))
	}

	return result, nil
}

// processItem walks one item through the per-asset state machine:
// duplicate check (optional) → fetch → publish.
func (e *ReuploadEngine) processItem(ctx context.Context, step, total int, item Item, progress chan<- ProgressUpdate) ItemResult {
	kind := NormalizeKind(item.Kind)
	res := ItemResult{
		SourceID: item.SourceID,
		Name:     item.Name,
		Kind:     kind,
	}

	if item.CheckExisting {
		e.sendProgress(progress, checkExistingUpdate(step, total, item))

		existingID, found, err := e.svc.FindExisting(ctx, item.Name, kind)
		if err != nil {
			// A failing inventory search must never block a migration; fall
			// through to a fresh upload.
			e.sendProgress(progress, searchFailedUpdate(step, total, item, err))
		} else if found {
			res.NewID = &existingID
			res.Status = StatusOKExisting
			return res
		}
	}

	e.sendProgress(progress, fetchAssetUpdate(step, total, item))

	content, err := e.svc.Fetch(ctx, item.SourceID)
	if err != nil {
		res.Status = StatusDownloadFailed
		res.Error = err.Error()
		return res
	}

	e.sendProgress(progress, publishAssetUpdate(step, total, item))

	newID, err := e.svc.Publish(ctx, content, item.Name, kind)
	if err != nil {
		res.Status = StatusUploadFailed
		res.Error = err.Error()
		return res
	}

	res.NewID = &newID
	res.Status = StatusOK
	return res
}

// NormalizeKind maps loose item type tags to the upload API's asset types.
func NormalizeKind(kind string) string {
	k := strings.ToLower(kind)
	switch {
	case strings.HasPrefix(k, "anim"):
		return "Animation"
	case strings.HasPrefix(k, "audio"), strings.HasPrefix(k, "sound"):
		return "Audio"
	default:
		return "Model"
	}
}
