package formatter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/rbxup/internal/tasks"
)

func sampleBatch() *tasks.BatchResult {
	newID := int64(654321)
	return &tasks.BatchResult{
		BatchID: "batch-test",
		Results: []tasks.ItemResult{
			{SourceID: 111, NewID: &newID, Name: "Footsteps", Kind: "Audio", Status: tasks.StatusOK},
			{SourceID: 222, Name: "Broken", Kind: "Model", Status: tasks.StatusDownloadFailed, Error: "both delivery endpoints rejected the fetch"},
		},
		OKCount:     1,
		FailedCount: 1,
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleBatch())
	if err != nil {
		t.Fatalf("ExportToCSV() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[1][0] != "111" || records[1][1] != "654321" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	if records[2][1] != "" {
		t.Errorf("failed row should have an empty new id, got %q", records[2][1])
	}
	if records[2][5] == "" {
		t.Error("failed row should carry its error message")
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleBatch())
	if err != nil {
		t.Fatalf("ExportToMarkdown() error = %v", err)
	}

	out := string(data)
	for _, want := range []string{"# Reupload batch batch-test", "| 111 | 654321 |", "## Errors", "Broken"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleBatch())
	if err != nil {
		t.Fatalf("ExportToText() error = %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "ok 1, reused 0, failed 1") {
		t.Errorf("text output missing counts: %s", out)
	}
	if !strings.Contains(out, "111 -> 654321") {
		t.Errorf("text output missing mapping line: %s", out)
	}
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleBatch())
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded tasks.BatchResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(decoded.Results))
	}
}

func TestWriteReport(t *testing.T) {
	t.Run("writes the chosen format", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "reports", "batch.csv")

		if err := WriteReport(sampleBatch(), "csv", path); err != nil {
			t.Fatalf("WriteReport() error = %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.HasPrefix(string(content), "OldID,NewID,Name,Type,Status,Error") {
			t.Errorf("unexpected report content: %s", content)
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		err := WriteReport(sampleBatch(), "yaml", filepath.Join(t.TempDir(), "x"))
		if err == nil {
			t.Error("expected an error for an unknown format")
		}
	})

	t.Run("defaults to text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "batch.txt")
		if err := WriteReport(sampleBatch(), "", path); err != nil {
			t.Fatalf("WriteReport() error = %v", err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.HasPrefix(string(content), "Batch: batch-test") {
			t.Errorf("unexpected report content: %s", content)
		}
	})
}
