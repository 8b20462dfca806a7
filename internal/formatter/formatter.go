// package formatter provides functions to export worksheet progress to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
	}
}

// Export renders report in the given format.
func Export(report *models.WorksheetReport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(report)
	case FormatMarkdown:
		return ExportToMarkdown(report)
	case FormatText:
		return ExportToText(report)
	case FormatJSON:
		return ExportToJSON(report)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts a WorksheetReport to CSV format with columns: Position, Task ID, Type, Question, Completed, Answer
func ExportToCSV(report *models.WorksheetReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Task ID", "Type", "Question", "Completed", "Answer"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range report.Entries {
		record := []string{
			strconv.Itoa(entry.Position),
			entry.TaskID,
			string(entry.Type),
			entry.Question,
			strconv.FormatBool(entry.Completed),
			entry.Answer,
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

// ExportToMarkdown converts a WorksheetReport to Markdown with a checklist of tasks
func ExportToMarkdown(report *models.WorksheetReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", titleOf(report)))
	buf.WriteString(fmt.Sprintf("**Progress**: %s (%d of %d tasks)\n", FormatPercentage(report.Percentage), report.Completed, report.Total))
	if !report.GeneratedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Generated**: %s\n", report.GeneratedAt.Format(time.RFC3339)))
	}
	buf.WriteString("\n## Tasks\n\n")

	for _, entry := range report.Entries {
		box := " "
		if entry.Completed {
			box = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %d. %s _(%s)_\n", box, entry.Position, questionOf(entry), entry.Type.Label()))
		if entry.Answer != "" {
			buf.WriteString(fmt.Sprintf("  - Answer: %s\n", entry.Answer))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a WorksheetReport to plain text format
func ExportToText(report *models.WorksheetReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Worksheet: %s\n", titleOf(report)))
	buf.WriteString(fmt.Sprintf("Progress: %s (%d/%d)\n\n", FormatPercentage(report.Percentage), report.Completed, report.Total))

	for _, entry := range report.Entries {
		status := "pending"
		if entry.Completed {
			status = "done"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", entry.Position, status, questionOf(entry)))
		if entry.Answer != "" {
			buf.WriteString(fmt.Sprintf("   answer: %s\n", entry.Answer))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the report as indented JSON
func ExportToJSON(report *models.WorksheetReport) ([]byte, error) {
	return shared.MarshalJSON(report, true)
}

// FormatPercentage renders p with at most one decimal place.
func FormatPercentage(p float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(p, 'f', 1, 64), ".0") + "%"
}

// DefaultFilename is {slug}_progress.{format}.
func DefaultFilename(report *models.WorksheetReport, format Format) string {
	slug := shared.Slugify(report.Title)
	if slug == "" {
		slug = "worksheet"
	}
	return fmt.Sprintf("%s_progress.%s", slug, format)
}

// WriteExport renders report and writes it to path, defaulting to [DefaultFilename].
func WriteExport(report *models.WorksheetReport, format Format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(report, format)
	}

	data, err := Export(report, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

func titleOf(report *models.WorksheetReport) string {
	if report.Title == "" {
		return "Untitled worksheet"
	}
	return report.Title
}

func questionOf(entry models.ReportEntry) string {
	if entry.Question == "" {
		return "Task " + entry.TaskID
	}
	return entry.Question
}
