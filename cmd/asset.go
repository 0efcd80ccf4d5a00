package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/rbxup/internal/shared"
	"github.com/desertthunder/rbxup/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AssetFetch downloads a single asset's raw bytes to a file.
func (r *Runner) AssetFetch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	assetID := cmd.Int64("id")
	r.logger.Info("downloading asset", "id", assetID)

	content, err := r.service.Fetch(ctx, assetID)
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = content.Filename
	}

	if err := os.WriteFile(outputPath, content.Bytes, 0644); err != nil {
		return fmt.Errorf("failed to write asset: %w", err)
	}

	r.writePlain("✓ Saved asset %d to %s (%d bytes)\n", assetID, outputPath, len(content.Bytes))
	return nil
}

// AssetFind searches the account's creations for a previously reuploaded asset.
func (r *Runner) AssetFind(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	// The search needs a verified account id.
	if err := r.service.Verify(ctx); err != nil {
		return err
	}

	name := cmd.String("name")
	kind := tasks.NormalizeKind(cmd.String("type"))

	r.logger.Info("searching creations", "name", name, "type", kind)

	id, found, err := r.service.FindExisting(ctx, name, kind)
	if err != nil {
		return err
	}

	if !found {
		r.writePlain("No reuploaded copy of %q found\n", name)
		return nil
	}

	r.writePlain("✓ Found existing reupload of %q: asset %d\n", name, id)
	return nil
}

// AssetOpen opens an asset's library page in the default browser.
func (r *Runner) AssetOpen(ctx context.Context, cmd *cli.Command) error {
	assetID := cmd.Int64("id")
	url := fmt.Sprintf("https://www.roblox.com/library/%d", assetID)

	r.logger.Info("opening browser", "url", url)
	if err := shared.OpenBrowser(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
