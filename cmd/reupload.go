package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rbxup/internal/formatter"
	"github.com/desertthunder/rbxup/internal/models"
	"github.com/desertthunder/rbxup/internal/shared"
	"github.com/desertthunder/rbxup/internal/tasks"
	"github.com/desertthunder/rbxup/internal/ui"
	"github.com/urfave/cli/v3"
)

// loadManifest reads a batch manifest from a JSON file.
//
// Accepts either a bare array of items or an {"items": [...]} wrapper, the
// same shape the HTTP API takes.
func loadManifest(path string) ([]tasks.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var wrapper struct {
		Items []tasks.Item `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.Items) > 0 {
		return wrapper.Items, nil
	}

	var items []tasks.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: manifest must be a JSON array of items or an object with an items field: %v", shared.ErrInvalidInput, err)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: manifest contains no items", shared.ErrInvalidInput)
	}
	return items, nil
}

// ReuploadRun migrates a batch of assets from a JSON manifest.
func (r *Runner) ReuploadRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	items, err := loadManifest(cmd.String("input"))
	if err != nil {
		return err
	}

	r.logger.Info("verifying credentials before batch", "items", len(items))
	if err := r.service.Verify(ctx); err != nil {
		return err
	}

	r.writePlain("Reuploading %d assets...\n\n", len(items))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.PhaseCheckExisting:
				r.writePlain("🔍 [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.PhaseSearchFailed:
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.PhaseFetch:
				r.writePlain("📥 [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.PhasePublish:
				r.writePlain("📤 [%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	batch, err := r.engine.Run(ctx, items, progressCh)
	close(progressCh)
	<-drained
	if err != nil {
		return err
	}

	if !cmd.Bool("no-save") {
		r.saveBatch(batch)
	}

	format := cmd.String("format")
	if outputPath := cmd.String("output"); outputPath != "" {
		if err := formatter.WriteReport(batch, format, outputPath); err != nil {
			return err
		}
		r.writePlain("\nReport written to %s\n", outputPath)
	}

	r.writePlain("\n")
	r.writePlainHeader("Batch complete")
	r.writePlain("Uploaded: %d\nReused: %d\nFailed: %d\n", batch.OKCount, batch.ExistingCount, batch.FailedCount)

	for _, res := range batch.Results {
		if res.Error != "" {
			r.writePlain("  - %d %s [%s]: %s\n", res.SourceID, res.Name, res.Status, res.Error)
		}
	}

	return nil
}

// ReuploadUI runs a batch interactively in the terminal UI.
func (r *Runner) ReuploadUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	items, err := loadManifest(cmd.String("input"))
	if err != nil {
		return err
	}

	if err := r.service.Verify(ctx); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/rbxup-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, items)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// saveBatch records batch results in the history database. Persistence
// problems are logged, not fatal; the batch already ran.
func (r *Runner) saveBatch(batch *tasks.BatchResult) {
	db, repo, err := r.openHistory()
	if err != nil {
		r.logger.Warn("skipping history save", "error", err)
		return
	}
	defer db.Close()

	for _, res := range batch.Results {
		record := models.NewReuploadRecord(0, batch.BatchID, res.SourceID, res.Kind, res.Name, string(res.Status))
		record.SetNewID(res.NewID)
		record.SetErrorMessage(res.Error)

		if err := repo.Create(record); err != nil {
			r.logger.Error("failed to persist reupload record", "source_id", res.SourceID, "error", err)
		}
	}

	r.logger.Info("batch saved to history", "batch_id", batch.BatchID, "records", len(batch.Results))
}
