// package formatter exports a favorites list to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/cocktailparty/internal/models"
	"github.com/desertthunder/cocktailparty/internal/shared"
)

// Supported export formats.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// Formats lists the values accepted by [WriteExport].
var Formats = []string{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// FavoritesExport is a snapshot of one account's favorites.
type FavoritesExport struct {
	Owner      models.Session
	Items      []models.FavoriteItem
	ExportedAt time.Time
	// RecipeURL links an item to its recipe page; optional.
	RecipeURL func(id string) string
	// Recipes holds looked-up recipes by drink id; Markdown includes their measures and instructions.
	Recipes map[string]*models.Cocktail
}

func (e *FavoritesExport) recipe(id string) string {
	if e.RecipeURL == nil {
		return ""
	}
	return e.RecipeURL(id)
}

// ExportToCSV writes columns: ID, Name, Thumbnail, Recipe
func ExportToCSV(export *FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "Thumbnail", "Recipe"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Items {
		record := []string{item.ID, item.Name, item.Thumb, export.recipe(item.ID)}
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

// ExportToMarkdown renders a heading per drink. images maps drink ids to local image paths that
// replace the remote thumbnail.
func ExportToMarkdown(export *FavoritesExport, images map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s's favorites\n\n", ownerName(export.Owner))
	fmt.Fprintf(&buf, "**Cocktails**: %d\n", len(export.Items))
	if !export.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.Format(time.RFC1123))
	}
	buf.WriteString("\n")

	for i, item := range export.Items {
		fmt.Fprintf(&buf, "## %d. %s\n\n", i+1, item.Name)
		image := item.Thumb
		if local, ok := images[item.ID]; ok {
			image = local
		}
		if image != "" {
			fmt.Fprintf(&buf, "![%s](%s)\n\n", item.Name, image)
		}
		if c := export.Recipes[item.ID]; c != nil {
			writeRecipe(&buf, c)
		}
		if url := export.recipe(item.ID); url != "" {
			fmt.Fprintf(&buf, "[Recipe](%s)\n\n", url)
		}
	}

	return buf.Bytes(), nil
}

func writeRecipe(buf *bytes.Buffer, c *models.Cocktail) {
	var meta []string
	for _, s := range []string{c.Category, c.Alcoholic, c.Glass} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		fmt.Fprintf(buf, "_%s_\n\n", strings.Join(meta, " · "))
	}
	for _, m := range c.Ingredients {
		fmt.Fprintf(buf, "- %s\n", m.String())
	}
	if len(c.Ingredients) > 0 {
		buf.WriteString("\n")
	}
	if c.Instructions != "" {
		fmt.Fprintf(buf, "%s\n\n", strings.TrimSpace(c.Instructions))
	}
}

// ExportToText lists one drink per line
func ExportToText(export *FavoritesExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Favorites of %s\n", ownerName(export.Owner))
	fmt.Fprintf(&buf, "Cocktails: %d\n\n", len(export.Items))

	for i, item := range export.Items {
		fmt.Fprintf(&buf, "%d. %s (#%s)\n", i+1, item.Name, item.ID)
	}

	return buf.Bytes(), nil
}

// ExportToJSON writes the items as stored, so the file can be re-imported.
func ExportToJSON(export *FavoritesExport) ([]byte, error) {
	items := export.Items
	if items == nil {
		items = []models.FavoriteItem{}
	}
	return shared.MarshalJSON(items)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	// Skipped maps drink ids to thumbnail download errors.
	Skipped map[string]error
}

// WriteMarkdownExport writes {dir}/README.md and, when client is not nil, downloads thumbnails to
// {dir}/images/{id}.jpg. A failed download keeps the remote link and is reported in Skipped.
func WriteMarkdownExport(ctx context.Context, export *FavoritesExport, outputDir string, client *http.Client) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "favorites"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}, Skipped: map[string]error{}}
	images := map[string]string{}

	if client != nil {
		imageDir := filepath.Join(outputDir, "images")
		if err := os.MkdirAll(imageDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create image directory: %w", err)
		}

		for _, item := range export.Items {
			if item.Thumb == "" {
				continue
			}
			data, err := DownloadImage(ctx, client, item.Thumb)
			if err != nil {
				result.Skipped[item.ID] = err
				continue
			}
			name := safeFilename(item.ID) + ".jpg"
			if err := os.WriteFile(filepath.Join(imageDir, name), data, 0644); err != nil {
				result.Skipped[item.ID] = err
				continue
			}
			images[item.ID] = "images/" + name
			result.Files = append(result.Files, filepath.Join(imageDir, name))
		}
	}

	mdData, err := ExportToMarkdown(export, images)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteExport renders export in a flat-file format and writes it to path.
//
// Defaults to favorites.{format} as the filename. Use [WriteMarkdownExport] for a Markdown directory.
func WriteExport(export *FavoritesExport, format, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = ExportToCSV(export)
	case FormatText:
		data, err = ExportToText(export)
	case FormatJSON:
		data, err = ExportToJSON(export)
	case FormatMarkdown:
		data, err = ExportToMarkdown(export, nil)
	default:
		return "", fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if path == "" {
		ext := format
		if format == FormatMarkdown {
			ext = "md"
		}
		path = "favorites." + ext
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return path, nil
}

func ownerName(s models.Session) string {
	if s.Name != "" {
		return s.Name
	}
	if s.Email != "" {
		return s.Email
	}
	return "Anonymous"
}

func safeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
