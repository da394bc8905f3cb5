package ui

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/storyx/internal/formatter"
	"github.com/desertthunder/storyx/internal/tasks"
)

const barWidth = 20

// renderSlots draws the three phase indicators on one line.
func renderSlots(slots [tasks.PhaseCount]tasks.Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = styles.slotStyle(s.State).Render(fmt.Sprintf("%s %s", s.Icon, s.Phase.Label()))
	}
	return strings.Join(parts, styles.dim.Render("  ─  "))
}

// renderBar draws a gauge of width cells filled to b.Fraction.
func renderBar(name string, b *formatter.Bar, width int) string {
	filled := int(math.Round(b.Fraction * float64(width)))
	filled = min(max(filled, 0), width)
	gauge := styles.barStyle(b.Class).Render(strings.Repeat("█", filled)) + styles.dim.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%-13s %s %s", name, gauge, b.Label)
}

func renderTags(tags []formatter.Tag, style lipgloss.Style) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = style.Render(t.Text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderFullTags lists the untruncated text of every shortened tag on its own line.
func renderFullTags(tags []formatter.Tag) string {
	var full []string
	for _, t := range tags {
		if t.Truncated() {
			full = append(full, t.Full)
		}
	}
	if len(full) == 0 {
		return ""
	}
	return "\n" + styles.help.Render("in full: "+strings.Join(full, " • "))
}

// renderAnalysis lays out the analysis view; absent fields are skipped.
func renderAnalysis(v formatter.AnalysisView) string {
	var b strings.Builder

	section := func(title, body string) {
		if body == "" {
			return
		}
		b.WriteString(styles.section.Render(title))
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	if len(v.Characters) > 0 {
		section("Characters", renderTags(v.Characters, styles.character))
	}
	if len(v.Mood) > 0 {
		section("Mood", renderTags(v.Mood, styles.mood))
	}

	var sentiment []string
	if v.Polarity != nil {
		sentiment = append(sentiment, renderBar("Polarity", v.Polarity, barWidth))
	}
	if v.Subjectivity != nil {
		sentiment = append(sentiment, renderBar("Subjectivity", v.Subjectivity, barWidth))
	}
	section("Sentiment", strings.Join(sentiment, "\n"))

	if len(v.Keywords) > 0 {
		section("Keywords", renderTags(v.Keywords, styles.keyword)+renderFullTags(v.Keywords))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderStory word-wraps the story to width as plain text, so the view matches what copy and save produce.
func renderStory(story string, width int) string {
	story = strings.TrimRight(story, "\n")
	if story == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	return lipgloss.NewStyle().Width(width).TabWidth(lipgloss.NoTabConversion).Render(story)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]*glamour.TermRenderer{}
)

// RenderMarkdown renders a markdown document for the terminal, returning it unchanged if rendering fails.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}

	r := markdownRenderer(width)
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownRenderer(width int) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if r, ok := renderers[width]; ok {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = r
	return r
}
