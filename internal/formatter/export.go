package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/surf/internal/content"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
)

// DefaultExportDir is used when neither an output directory nor a filename is available.
const DefaultExportDir = "surf-export"

// ExportMarkdown renders the overview and every registered section into one Markdown document.
func ExportMarkdown(result *models.UploadResult) ([]byte, error) {
	var buf bytes.Buffer

	title := "Learning Materials"
	if result != nil && result.UserContext.Filename != "" {
		title = result.UserContext.Filename
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.Write(RenderOverview(result))

	var raw []byte
	if result != nil {
		raw = result.Raw
	}

	reg := NewRegistry()
	for _, tab := range reg.Tabs() {
		buf.WriteString("\n")
		if err := reg.Render(&buf, raw, tab.Section); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", tab.Title, err)
		}
	}
	return buf.Bytes(), nil
}

// ExportFlashcardsCSV converts summary learning cards to CSV with columns: Front, Back, Category, Difficulty
func ExportFlashcardsCSV(summary *models.Summary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Front", "Back", "Category", "Difficulty"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	if summary != nil {
		for _, card := range summary.LearningCards {
			if err := writer.Write([]string{card.Front, card.Back, card.Category, card.Difficulty}); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a result to a dedicated directory.
//
// Directory name defaults to the uploaded filename without extension.
// Creates {dir}/README.md and {dir}/result.json, plus {dir}/flashcards.csv when the summary has
// learning cards and {dir}/diagram-N.svg for every diagram with SVG source.
func WriteMarkdownExport(result *models.UploadResult, outputDir string) (*MarkdownExportResult, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: no upload result to export", shared.ErrInvalidInput)
	}
	if outputDir == "" {
		outputDir = exportDirName(result.UserContext.Filename)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	export := &MarkdownExportResult{Directory: outputDir, Files: []string{}}
	write := func(name string, data []byte) error {
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		export.Files = append(export.Files, path)
		return nil
	}

	mdData, err := ExportMarkdown(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}
	if err := write("README.md", mdData); err != nil {
		return nil, err
	}

	jsonData, err := shared.MarshalJSON(result, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	if err := write("result.json", jsonData); err != nil {
		return nil, err
	}

	sections := content.Extract(result.Raw)
	if sections.Summary != nil && len(sections.Summary.LearningCards) > 0 {
		csvData, err := ExportFlashcardsCSV(sections.Summary)
		if err != nil {
			return nil, fmt.Errorf("failed to generate CSV: %w", err)
		}
		if err := write("flashcards.csv", csvData); err != nil {
			return nil, err
		}
	}

	if sections.Visualization != nil {
		n := 0
		for _, d := range sections.Visualization.Diagrams {
			if strings.TrimSpace(d.SVGCode) == "" {
				continue
			}
			n++
			if err := write(fmt.Sprintf("diagram-%d.svg", n), []byte(d.SVGCode)); err != nil {
				return nil, err
			}
		}
	}
	return export, nil
}

func exportDirName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return DefaultExportDir
	}
	return base
}
