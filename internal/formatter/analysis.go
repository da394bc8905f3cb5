package formatter

import (
	"fmt"
	"math"

	"github.com/desertthunder/storyx/internal/models"
)

const (
	MaxCharacters = 6
	MaxMoodWords  = 8
	MaxKeywords   = 8
	// MaxKeywordRunes is the display width of a keyword tag before it is cut.
	MaxKeywordRunes = 25

	ellipsis          = "..."
	polarityThreshold = 0.1
)

// Bar classes
const (
	ClassPositive = "positive"
	ClassNegative = "negative"
	ClassNeutral  = "neutral"
)

// Tag is one discrete label. Full holds the untruncated value.
type Tag struct {
	Text string
	Full string
}

// Truncated reports whether Text is shorter than the value it stands for.
func (t Tag) Truncated() bool {
	return t.Text != t.Full
}

// Bar is a filled gauge with a color class and a printed label.
type Bar struct {
	Fraction float64 // 0..1
	Class    string
	Label    string
}

// AnalysisView is the display form of a [models.Analysis].
//
// Nil bars and empty tag slices mean the field was absent.
type AnalysisView struct {
	Characters   []Tag
	Mood         []Tag
	Polarity     *Bar
	Subjectivity *Bar
	Keywords     []Tag
}

// Empty reports whether the view has nothing to show.
func (v AnalysisView) Empty() bool {
	return len(v.Characters) == 0 && len(v.Mood) == 0 && v.Polarity == nil && v.Subjectivity == nil && len(v.Keywords) == 0
}

// RenderAnalysis builds the display form of a. It keeps no state and never modifies a.
func RenderAnalysis(a *models.Analysis) AnalysisView {
	var view AnalysisView
	if a == nil {
		return view
	}

	view.Characters = keyTags(models.OrderedKeys(a.Characters), MaxCharacters)
	view.Mood = keyTags(models.OrderedKeys(a.MoodWords), MaxMoodWords)

	if a.Sentiments != nil {
		view.Polarity = PolarityBar(a.Sentiments.Polarity)
		view.Subjectivity = SubjectivityBar(a.Sentiments.Subjectivity)
	}

	for i, kw := range a.Keywords {
		if i == MaxKeywords {
			break
		}
		view.Keywords = append(view.Keywords, Tag{Text: Truncate(kw, MaxKeywordRunes), Full: kw})
	}
	return view
}

func keyTags(keys []string, limit int) []Tag {
	if len(keys) > limit {
		keys = keys[:limit]
	}
	var tags []Tag
	for _, k := range keys {
		tags = append(tags, Tag{Text: k, Full: k})
	}
	return tags
}

// PolarityBar fills to |polarity| and labels it with a sign and two decimals.
func PolarityBar(polarity float64) *Bar {
	class := ClassNeutral
	switch {
	case polarity > polarityThreshold:
		class = ClassPositive
	case polarity < -polarityThreshold:
		class = ClassNegative
	}

	label := fmt.Sprintf("%.2f", roundHalfUp(polarity, 100))
	if polarity > 0 {
		label = "+" + label
	}

	return &Bar{Fraction: clamp(math.Abs(polarity)), Class: class, Label: label}
}

// SubjectivityBar fills to subjectivity and labels it as a whole percentage.
func SubjectivityBar(subjectivity float64) *Bar {
	return &Bar{
		Fraction: clamp(subjectivity),
		Class:    ClassNeutral,
		Label:    fmt.Sprintf("%.0f%%", roundHalfUp(subjectivity*100, 1)),
	}
}

// Truncate cuts s to max runes and appends an ellipsis when it was longer.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + ellipsis
}

// roundHalfUp rounds f to 1/scale, sending exact halves away from zero.
func roundHalfUp(f, scale float64) float64 {
	return math.Round(f*scale) / scale
}

func clamp(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
