package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/pkg/formatter"
)

const (
	headingMaxRunes  = 100
	authorMaxRunes   = 50
	defaultHeading   = "LinkedIn Post"
	timestampLayout  = "2006-01-02 15:04:05"
	fileStampLayout  = "20060102_150405"
	combinedFileStem = "linkedin_posts"
)

// PostToMarkdown renders one post with the fixed human-readable template.
// Output is byte-identical for identical input.
func PostToMarkdown(post domain.SavedPost, headingLevel int, includeDivider bool) string {
	if headingLevel < 1 {
		headingLevel = 1
	}
	prefix := strings.Repeat("#", headingLevel)

	heading := defaultHeading
	if post.Content != "" {
		heading = formatter.Truncate(post.Content, headingMaxRunes)
	}

	lines := []string{
		prefix + " " + heading,
		"",
	}

	if post.Author != "" {
		lines = append(lines, "**Author:** "+post.Author)
	}
	if !post.PostedAt.IsZero() {
		lines = append(lines, "**Posted:** "+post.PostedAt.Format(timestampLayout))
	}
	if !post.SavedAt.IsZero() {
		lines = append(lines, "**Saved:** "+post.SavedAt.Format(timestampLayout))
	}
	if post.URL != "" {
		lines = append(lines, fmt.Sprintf("**URL:** [%s](%s)", post.URL, post.URL))
	}
	if post.URN != "" {
		lines = append(lines, "**URN:** `"+post.URN+"`")
	}

	lines = append(lines, "")

	if post.Content != "" {
		lines = append(lines, post.Content)
	}

	if includeDivider {
		lines = append(lines, "", "---")
	}

	return strings.Join(lines, "\n")
}

// ExportPosts writes one markdown file per post into a timestamped folder
// under outputDir and returns the folder path.
func ExportPosts(posts []domain.SavedPost, outputDir string) (string, error) {
	exportDir := filepath.Join(outputDir, "export_"+time.Now().Format(fileStampLayout))
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	for i, post := range posts {
		name := fmt.Sprintf("%03d_%s.md", i+1, sanitizeAuthor(post.Author))
		content := PostToMarkdown(post, 1, false)
		if err := os.WriteFile(filepath.Join(exportDir, name), []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return exportDir, nil
}

// CombinedFileName returns the default timestamped name for a combined export.
func CombinedFileName() string {
	return fmt.Sprintf("%s_%s.md", combinedFileStem, time.Now().Format(fileStampLayout))
}

// ExportSingle writes all posts into one combined markdown file and returns
// its path. When outputFile is empty a timestamped name in the current
// directory is used.
func ExportSingle(posts []domain.SavedPost, outputFile string) (string, error) {
	if outputFile == "" {
		outputFile = CombinedFileName()
	}
	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	lines := []string{
		"# LinkedIn Saved Posts Export",
		"",
		"**Export Date:** " + time.Now().Format(timestampLayout),
		"**Total Posts:** " + formatter.FormatNumber(len(posts)),
		"",
		"---",
		"",
	}

	for i, post := range posts {
		lines = append(lines,
			fmt.Sprintf("## Post %d", i+1),
			"",
			PostToMarkdown(post, 3, false),
			"",
			"---",
			"",
		)
	}

	if err := os.WriteFile(outputFile, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return "", fmt.Errorf("failed to write combined export: %w", err)
	}

	return outputFile, nil
}

// sanitizeAuthor makes an author name safe for use in a filename.
func sanitizeAuthor(author string) string {
	if author == "" {
		return "unknown"
	}
	author = strings.ReplaceAll(author, "/", "_")
	author = strings.ReplaceAll(author, "\\", "_")
	author = strings.Join(strings.Fields(author), " ")
	return formatter.Truncate(author, authorMaxRunes)
}
