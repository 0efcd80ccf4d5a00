package main

import (
	"context"

	"github.com/desertthunder/rbxup/internal/services"
	"github.com/urfave/cli/v3"
)

// AuthVerify checks the configured credentials against the platform.
//
// Under cookie auth a successful check also resolves the account id used for
// duplicate detection.
func (r *Runner) AuthVerify(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	r.logger.Info("verifying credentials", "service", r.service.Name())

	if err := r.service.Verify(ctx); err != nil {
		return err
	}

	summary := map[string]any{"service": r.service.Name(), "verified": true}
	if svc, ok := r.service.(*services.RobloxService); ok {
		creds := svc.Credentials()
		summary["method"] = creds.Method.String()
		if creds.AccountID != 0 {
			summary["account_id"] = creds.AccountID
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(summary, true)
	}

	r.writePlain("✓ Credentials verified\n")
	if method, ok := summary["method"]; ok {
		r.writePlain("Method: %v\n", method)
	}
	if id, ok := summary["account_id"]; ok {
		r.writePlain("Account id: %v\n", id)
	}
	return nil
}
