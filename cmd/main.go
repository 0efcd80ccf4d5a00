package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/rbxup/internal/services"
	"github.com/desertthunder/rbxup/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var assetService services.AssetService
	if creds, err := credentialsFromConfig(config); err == nil {
		if svc, err := services.NewRobloxService(creds, config.Endpoints, nil); err == nil {
			assetService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: assetService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "rbxup",
		Usage:    "Reupload Roblox assets to your own account",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

// credentialsFromConfig maps the config's credentials section to a service
// credential, selecting the secret matching the configured method.
func credentialsFromConfig(config *shared.Config) (*services.Credentials, error) {
	method, err := services.ParseAuthMethod(config.Credentials.Method)
	if err != nil {
		return nil, err
	}

	secret := config.Credentials.Cookie
	if method == services.APIKeyAuth {
		secret = config.Credentials.APIKey
	}

	if secret == "" {
		return nil, shared.ErrMissingCredentials
	}

	return &services.Credentials{Method: method, Secret: secret}, nil
}
