// package formatter turns analyses and stories into display structures and files (plain text, Markdown, JSON)
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/shared"
)

// StoryFilename returns the save name for a story derived from base.
func StoryFilename(base string) string {
	if base == "" {
		base = "story"
	}
	return base + "_story.txt"
}

// ExportToText returns the story exactly as received.
func ExportToText(story string) []byte {
	return []byte(story)
}

// ExportToMarkdown renders a story document with the analysis summary above it.
func ExportToMarkdown(title string, view AnalysisView, story string) []byte {
	buf := bytes.NewBuffer(ExportAnalysisMarkdown(title, view))

	buf.WriteString("## Story\n\n")
	buf.WriteString(story)
	if !strings.HasSuffix(story, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ExportAnalysisMarkdown renders the title and, when there is one, the analysis summary.
func ExportAnalysisMarkdown(title string, view AnalysisView) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if view.Empty() {
		return buf.Bytes()
	}

	buf.WriteString("## Analysis\n\n")
	if len(view.Characters) > 0 {
		buf.WriteString(fmt.Sprintf("**Characters**: %s\n\n", joinTags(view.Characters)))
	}
	if len(view.Mood) > 0 {
		buf.WriteString(fmt.Sprintf("**Mood**: %s\n\n", joinTags(view.Mood)))
	}
	if view.Polarity != nil {
		buf.WriteString(fmt.Sprintf("**Polarity**: %s (%s)\n\n", view.Polarity.Label, view.Polarity.Class))
	}
	if view.Subjectivity != nil {
		buf.WriteString(fmt.Sprintf("**Subjectivity**: %s\n\n", view.Subjectivity.Label))
	}
	if len(view.Keywords) > 0 {
		buf.WriteString(fmt.Sprintf("**Keywords**: %s\n\n", joinTags(view.Keywords)))
	}
	return buf.Bytes()
}

func joinTags(tags []Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "`" + t.Full + "`"
	}
	return strings.Join(parts, ", ")
}

// ToAnalysisJSON encodes the raw analysis with its key order intact.
func ToAnalysisJSON(a *models.Analysis) ([]byte, error) {
	return shared.MarshalJSON(a, true)
}

// WriteStoryExport writes story byte-for-byte to {dir}/{base}_story.txt and returns the path.
//
// dir defaults to the working directory and is created when missing.
func WriteStoryExport(story, dir, base string) (string, error) {
	if story == "" {
		return "", shared.ErrNoStory
	}
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, StoryFilename(base))
	if err := os.WriteFile(path, ExportToText(story), 0644); err != nil {
		return "", fmt.Errorf("failed to write story file: %w", err)
	}
	return path, nil
}

// ExportResult contains the paths of files created by [WriteMarkdownExport].
type ExportResult struct {
	StoryFile    string
	AnalysisFile string
}

// WriteMarkdownExport writes {dir}/{base}_story.md and, when a is non-empty, {dir}/{base}_analysis.json.
func WriteMarkdownExport(a *models.Analysis, story, dir, base string) (*ExportResult, error) {
	if story == "" {
		return nil, shared.ErrNoStory
	}
	if dir == "" {
		dir = "."
	}
	if base == "" {
		base = "story"
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &ExportResult{StoryFile: filepath.Join(dir, base+"_story.md")}

	md := ExportToMarkdown(base, RenderAnalysis(a), story)
	if err := os.WriteFile(result.StoryFile, md, 0644); err != nil {
		return nil, fmt.Errorf("failed to write markdown file: %w", err)
	}

	if a.Empty() {
		return result, nil
	}

	data, err := ToAnalysisJSON(a)
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis JSON: %w", err)
	}

	result.AnalysisFile = filepath.Join(dir, base+"_analysis.json")
	if err := os.WriteFile(result.AnalysisFile, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write analysis file: %w", err)
	}
	return result, nil
}
