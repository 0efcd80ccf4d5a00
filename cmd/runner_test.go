package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/rbxup/internal/services"
	"github.com/desertthunder/rbxup/internal/shared"
	tu "github.com/desertthunder/rbxup/internal/testing"
	"github.com/urfave/cli/v3"
)

// runApp executes the CLI with the given args against a fresh command tree.
func runApp(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "rbxup", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"rbxup"}, args...))
}

func newTestRunner(t *testing.T, svc services.AssetService) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := shared.DefaultConfig()
	config.Reupload.DelayMS = 0
	config.Database.Path = filepath.Join(t.TempDir(), "history.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: svc,
		Logger:  shared.NewLogger(&bytes.Buffer{}),
		Output:  output,
	})
	return runner, output
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			svc := &tu.MockAssetService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Service:    svc,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.service != services.AssetService(svc) {
				t.Error("expected service to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built when a service is provided")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without service leaves engine nil", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.engine != nil {
				t.Error("expected no engine without a service")
			}
		})
	})

	t.Run("requireService", func(t *testing.T) {
		t.Run("fails without credentials", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			err := runner.requireService()
			if err == nil {
				t.Fatal("expected error without a service")
			}
			if !strings.Contains(err.Error(), "no credentials configured") {
				t.Errorf("expected credentials hint, got %v", err)
			}
		})

		t.Run("passes with a service", func(t *testing.T) {
			runner, _ := newTestRunner(t, &tu.MockAssetService{})

			if err := runner.requireService(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes formatted text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 6 {
			t.Errorf("expected 6 commands, got %d", len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestCredentialsFromConfig(t *testing.T) {
	t.Run("cookie method uses the cookie secret", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Method = "cookie"
		config.Credentials.Cookie = "session_token"

		creds, err := credentialsFromConfig(config)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if creds.Method != services.CookieAuth {
			t.Errorf("expected cookie auth, got %v", creds.Method)
		}
		if creds.Secret != "session_token" {
			t.Errorf("expected cookie secret, got %q", creds.Secret)
		}
	})

	t.Run("api_key method uses the api key secret", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Method = "api_key"
		config.Credentials.APIKey = "key123"
		config.Credentials.Cookie = "ignored"

		creds, err := credentialsFromConfig(config)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if creds.Method != services.APIKeyAuth {
			t.Errorf("expected api key auth, got %v", creds.Method)
		}
		if creds.Secret != "key123" {
			t.Errorf("expected api key secret, got %q", creds.Secret)
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Method = "cookie"
		config.Credentials.Cookie = ""

		if _, err := credentialsFromConfig(config); err == nil {
			t.Fatal("expected error for missing secret")
		}
	})

	t.Run("unknown method", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Method = "oauth"

		if _, err := credentialsFromConfig(config); err == nil {
			t.Fatal("expected error for unknown method")
		}
	})
}

func TestLoadManifest(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		path := writeManifest(t, `[{"oldId": 123, "name": "Song", "type": "Audio"}]`)

		items, err := loadManifest(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].SourceID != 123 || items[0].Name != "Song" {
			t.Errorf("unexpected item: %+v", items[0])
		}
	})

	t.Run("items wrapper", func(t *testing.T) {
		path := writeManifest(t, `{"items": [{"oldId": 1, "name": "A", "type": "Model"}, {"oldId": 2, "name": "B", "type": "Audio", "checkExisting": true}]}`)

		items, err := loadManifest(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if !items[1].CheckExisting {
			t.Error("expected checkExisting to carry through")
		}
	})

	t.Run("empty manifest", func(t *testing.T) {
		path := writeManifest(t, `[]`)

		if _, err := loadManifest(path); err == nil {
			t.Fatal("expected error for empty manifest")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := writeManifest(t, `not json`)

		if _, err := loadManifest(path); err == nil {
			t.Fatal("expected error for invalid JSON")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := loadManifest(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}

func TestReuploadRunCommand(t *testing.T) {
	manifest := `[{"oldId": 10, "name": "First", "type": "Audio"}, {"oldId": 20, "name": "Second", "type": "Model"}]`

	t.Run("runs a batch and prints a summary", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockAssetService{})
		path := writeManifest(t, manifest)

		err := runApp(t, runner, "reupload", "run", "--input", path, "--no-save")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Batch complete") {
			t.Errorf("expected summary header, got %s", result)
		}
		if !strings.Contains(result, "Uploaded: 2") {
			t.Errorf("expected 2 uploads, got %s", result)
		}
	})

	t.Run("writes a report file", func(t *testing.T) {
		runner, _ := newTestRunner(t, &tu.MockAssetService{})
		path := writeManifest(t, manifest)
		reportPath := filepath.Join(t.TempDir(), "report.json")

		err := runApp(t, runner, "reupload", "run", "--input", path, "--no-save", "--format", "json", "--output", reportPath)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		report := tu.MustReadFile(t, reportPath)
		if !strings.Contains(report, `"batchId"`) {
			t.Errorf("expected batch id in report, got %s", report)
		}
	})

	t.Run("persists results to history", func(t *testing.T) {
		runner, output := newTestRunner(t, &tu.MockAssetService{})
		path := writeManifest(t, manifest)

		if err := runApp(t, runner, "reupload", "run", "--input", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		output.Reset()
		if err := runApp(t, runner, "history", "list", "--json"); err != nil {
			t.Fatalf("expected no error listing history, got %v", err)
		}

		listed := output.String()
		if !strings.Contains(listed, `"oldId": 10`) || !strings.Contains(listed, `"oldId": 20`) {
			t.Errorf("expected both items in history, got %s", listed)
		}
	})

	t.Run("fails when verification fails", func(t *testing.T) {
		svc := &tu.MockAssetService{
			VerifyFunc: func(ctx context.Context) error {
				return shared.ErrInvalidCredentials
			},
		}
		runner, _ := newTestRunner(t, svc)
		path := writeManifest(t, manifest)

		err := runApp(t, runner, "reupload", "run", "--input", path, "--no-save")
		if err == nil {
			t.Fatal("expected verification error")
		}
	})

	t.Run("fails without credentials", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil)
		path := writeManifest(t, manifest)

		err := runApp(t, runner, "reupload", "run", "--input", path)
		if err == nil {
			t.Fatal("expected error without a service")
		}
	})
}

func TestHistoryExportCommand(t *testing.T) {
	runner, _ := newTestRunner(t, &tu.MockAssetService{})
	path := writeManifest(t, `[{"oldId": 5, "name": "Kept", "type": "Audio"}]`)

	if err := runApp(t, runner, "reupload", "run", "--input", path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	exportPath := filepath.Join(t.TempDir(), "export.json")
	if err := runApp(t, runner, "history", "export", "--output", exportPath); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	exported := tu.MustReadFile(t, exportPath)
	if !strings.Contains(exported, `"oldId": 5`) {
		t.Errorf("expected exported record, got %s", exported)
	}
	if !strings.Contains(exported, `"status": "ok"`) {
		t.Errorf("expected ok status, got %s", exported)
	}
}
