package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/rbxup/internal/models"
	"github.com/desertthunder/rbxup/internal/shared"
	"github.com/urfave/cli/v3"
)

// historyRow is the JSON/plain projection of a persisted record.
type historyRow struct {
	ID        string `json:"id"`
	BatchID   string `json:"batchId"`
	SourceID  int64  `json:"oldId"`
	NewID     *int64 `json:"newId"`
	AssetKind string `json:"type,omitempty"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func toHistoryRows(records []*models.ReuploadRecord) []historyRow {
	rows := make([]historyRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, historyRow{
			ID:        rec.ID(),
			BatchID:   rec.BatchID(),
			SourceID:  rec.SourceID(),
			NewID:     rec.NewID(),
			AssetKind: rec.AssetKind(),
			Name:      rec.Name(),
			Status:    rec.Status(),
			Error:     rec.ErrorMessage(),
			CreatedAt: rec.CreatedAt().Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

// HistoryList prints recorded reuploads, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{
		"batch_id": cmd.String("batch"),
		"status":   cmd.String("status"),
	}

	records, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(toHistoryRows(records), true)
	}

	if len(records) == 0 {
		r.writePlain("No reuploads recorded\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Reupload history (%d)", len(records)))
	for _, rec := range records {
		newID := "-"
		if id := rec.NewID(); id != nil {
			newID = fmt.Sprintf("%d", *id)
		}
		r.writePlain("%s  %d → %s  %s [%s]\n",
			rec.CreatedAt().Format("2006-01-02 15:04"),
			rec.SourceID(), newID, rec.Name(), rec.Status())
		if msg := rec.ErrorMessage(); msg != "" {
			r.writePlain("    %s\n", msg)
		}
	}

	return nil
}

// HistoryExport writes history records to a JSON file.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repo.List(map[string]any{"batch_id": cmd.String("batch")})
	if err != nil {
		return err
	}

	data, err := shared.MarshalJSON(toHistoryRows(records), true)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	outputPath := cmd.String("output")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	r.writePlain("✓ Exported %d records to %s\n", len(records), outputPath)
	return nil
}
