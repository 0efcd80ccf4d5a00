// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by commands that read config.toml.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles first-run configuration
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration, credentials and the history database",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the history database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:  "cookie",
				Usage: "Extract the .ROBLOSECURITY session cookie from a browser 'Copy as cURL' command",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command copied from the browser",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command",
					},
				},
				Action: r.SetupCookie,
			},
		},
	}
}

// authCommand handles credential verification
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Credential operations",
		Commands: []*cli.Command{
			{
				Name:  "verify",
				Usage: "Verify the configured credentials against the platform",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthVerify,
			},
		},
	}
}

// assetCommand handles single-asset operations
func assetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "asset",
		Usage: "Single asset operations",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Download an asset's raw bytes to a file",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Asset id to download",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to the suggested filename)",
					},
				},
				Action: r.AssetFetch,
			},
			{
				Name:  "find",
				Usage: "Search your creations for a previously reuploaded asset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Display name to search for",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Asset type (Audio, Animation, Model)",
						Value: "Audio",
					},
				},
				Action: r.AssetFind,
			},
			{
				Name:  "open",
				Usage: "Open an asset's library page in the browser",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Asset id to open",
						Required: true,
					},
				},
				Action: r.AssetOpen,
			},
		},
	}
}

// reuploadCommand handles batch migrations
func reuploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "reupload",
		Aliases: []string{"run"},
		Usage:   "Batch asset reuploads",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Reupload a batch of assets from a JSON manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to a JSON manifest of items",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Report format: text, json, csv, markdown",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the report to a file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "no-save",
						Usage: "Skip writing results to the history database",
					},
				},
				Action: r.ReuploadRun,
			},
			{
				Name:  "ui",
				Usage: "Run a batch interactively in the terminal UI",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to a JSON manifest of items",
						Required: true,
					},
				},
				Action: r.ReuploadUI,
			},
		},
	}
}

// serveCommand starts the plugin-facing HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the reupload HTTP API for the Studio plugin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (defaults to config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (defaults to config)",
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "Skip writing results to the history database",
			},
		},
		Action: r.Serve,
	}
}

// historyCommand inspects past reuploads
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect the reupload history database",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded reuploads",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "batch",
						Usage: "Filter by batch id",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (ok, ok_existing, download_failed, upload_failed)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "export",
				Usage: "Export history records to a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output file path",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "batch",
						Usage: "Filter by batch id",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}
