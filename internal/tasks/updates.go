package tasks

import "fmt"

// Phase identifies which stage of the per-item pipeline an update describes.
type Phase string

const (
	PhaseCheckExisting Phase = "check_existing"
	PhaseSearchFailed  Phase = "search_failed"
	PhaseFetch         Phase = "fetch"
	PhasePublish       Phase = "publish"
	PhaseItemDone      Phase = "item_done"
)

// ProgressUpdate is a point-in-time snapshot of batch execution, emitted on a
// best-effort channel. Result is only set for PhaseItemDone.
type ProgressUpdate struct {
	Phase    Phase
	Step     int
	Total    int
	SourceID int64
	Name     string
	Message  string
	Result   *ItemResult
}

func checkExistingUpdate(step, total int, item Item) ProgressUpdate {
	return ProgressUpdate{
		Phase:    PhaseCheckExisting,
		Step:     step,
		Total:    total,
		SourceID: item.SourceID,
		Name:     item.Name,
		Message:  fmt.Sprintf("searching creations for %q", item.Name),
	}
}

func searchFailedUpdate(step, total int, item Item, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:    PhaseSearchFailed,
		Step:     step,
		Total:    total,
		SourceID: item.SourceID,
		Name:     item.Name,
		Message:  fmt.Sprintf("duplicate search failed, uploading fresh copy: %v", err),
	}
}

func fetchAssetUpdate(step, total int, item Item) ProgressUpdate {
	return ProgressUpdate{
		Phase:    PhaseFetch,
		Step:     step,
		Total:    total,
		SourceID: item.SourceID,
		Name:     item.Name,
		Message:  fmt.Sprintf("downloading asset %d", item.SourceID),
	}
}

func publishAssetUpdate(step, total int, item Item) ProgressUpdate {
	return ProgressUpdate{
		Phase:    PhasePublish,
		Step:     step,
		Total:    total,
		SourceID: item.SourceID,
		Name:     item.Name,
		Message:  fmt.Sprintf("uploading %q", item.Name),
	}
}

func itemDoneUpdate(step, total int, res ItemResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:    PhaseItemDone,
		Step:     step,
		Total:    total,
		SourceID: res.SourceID,
		Name:     res.Name,
		Message:  fmt.Sprintf("finished with status %s", res.Status),
		Result:   &res,
	}
}
