// package formatter provides functions to export batch reupload results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/rbxup/internal/shared"
	"github.com/desertthunder/rbxup/internal/tasks"
)

// ExportToCSV converts a BatchResult to CSV with columns: OldID, NewID, Name, Type, Status, Error
func ExportToCSV(batch *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"OldID", "NewID", "Name", "Type", "Status", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, res := range batch.Results {
		newID := ""
		if res.NewID != nil {
			newID = strconv.FormatInt(*res.NewID, 10)
		}
		record := []string{
			strconv.FormatInt(res.SourceID, 10),
			newID,
			res.Name,
			res.Kind,
			string(res.Status),
			res.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a BatchResult to a Markdown report
func ExportToMarkdown(batch *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Reupload batch %s\n\n", batch.BatchID))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n", len(batch.Results)))
	buf.WriteString(fmt.Sprintf("**Uploaded**: %d\n", batch.OKCount))
	buf.WriteString(fmt.Sprintf("**Reused**: %d\n", batch.ExistingCount))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n\n", batch.FailedCount))

	buf.WriteString("| Old ID | New ID | Name | Status |\n")
	buf.WriteString("| --- | --- | --- | --- |\n")
	for _, res := range batch.Results {
		newID := "-"
		if res.NewID != nil {
			newID = strconv.FormatInt(*res.NewID, 10)
		}
		name := strings.ReplaceAll(res.Name, "|", `\|`)
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", res.SourceID, newID, name, res.Status))
	}

	failed := false
	for _, res := range batch.Results {
		if res.Error != "" {
			if !failed {
				buf.WriteString("\n## Errors\n\n")
				failed = true
			}
			buf.WriteString(fmt.Sprintf("- `%d` %s: %s\n", res.SourceID, res.Name, res.Error))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a BatchResult to plain text
func ExportToText(batch *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Batch: %s\n", batch.BatchID))
	buf.WriteString(fmt.Sprintf("Items: %d (ok %d, reused %d, failed %d)\n\n",
		len(batch.Results), batch.OKCount, batch.ExistingCount, batch.FailedCount))

	for i, res := range batch.Results {
		line := fmt.Sprintf("%d. %d -> ", i+1, res.SourceID)
		if res.NewID != nil {
			line += strconv.FormatInt(*res.NewID, 10)
		} else {
			line += "(none)"
		}
		line += fmt.Sprintf("  %s [%s]", res.Name, res.Status)
		if res.Error != "" {
			line += ": " + res.Error
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ToJSON generates a pretty-printed JSON representation of a batch result
func ToJSON(batch *tasks.BatchResult) ([]byte, error) {
	return shared.MarshalJSON(batch, true)
}

// WriteReport renders a batch into format ("json", "csv", "markdown" or
// "text") and writes it to path, creating parent directories as needed.
func WriteReport(batch *tasks.BatchResult, format, path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(format) {
	case "json":
		data, err = ToJSON(batch)
	case "csv":
		data, err = ExportToCSV(batch)
	case "markdown", "md":
		data, err = ExportToMarkdown(batch)
	case "text", "txt", "":
		data, err = ExportToText(batch)
	default:
		return fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
