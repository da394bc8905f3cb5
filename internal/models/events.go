package models

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FinalStep is the server step that carries the story and ends a session.
const FinalStep = 7

// ProgressEvent is one server-pushed message on the streaming channel.
//
// Status and Progress are the server's own display text and percentage.
type ProgressEvent struct {
	Step     int       `json:"step"`
	Error    string    `json:"error,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Story    string    `json:"story,omitempty"`
	Cached   bool      `json:"cached,omitempty"`
	Status   string    `json:"status,omitempty"`
	Progress int       `json:"progress,omitempty"`
}

// Terminal reports whether the event is the success signal of a session.
func (e ProgressEvent) Terminal() bool {
	return e.Step == FinalStep && e.Story != ""
}

// ProduceResponse is the single-shot endpoint's success body.
type ProduceResponse struct {
	Analysis *Analysis `json:"analysis,omitempty"`
	Story    string    `json:"story"`
}

// Analysis is the linguistic summary of a source text.
type Analysis struct {
	Characters *OrderedMap `json:"characters,omitempty"`
	MoodWords  *OrderedMap `json:"mood_words,omitempty"`
	Sentiments *Sentiments `json:"sentiments,omitempty"`
	Keywords   []string    `json:"keywords,omitempty"`
}

// Sentiments carries polarity in [-1,1] and subjectivity in [0,1].
type Sentiments struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// Empty reports whether a carries nothing worth displaying.
func (a *Analysis) Empty() bool {
	return a == nil ||
		(orderedLen(a.Characters) == 0 && orderedLen(a.MoodWords) == 0 && a.Sentiments == nil && len(a.Keywords) == 0)
}

// OrderedMap is a JSON object decoded with its keys kept in document order.
type OrderedMap = orderedmap.OrderedMap[string, json.RawMessage]

// Entry is one key/value pair of an [OrderedMap].
type Entry = orderedmap.Pair[string, json.RawMessage]

// NewOrderedMap builds a map from entries, in the given order.
func NewOrderedMap(entries ...Entry) *OrderedMap {
	m := orderedmap.New[string, json.RawMessage]()
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// OrderedKeys returns the keys of m in document order. A nil map has none.
func OrderedKeys(m *OrderedMap) []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

func orderedLen(m *OrderedMap) int {
	if m == nil {
		return 0
	}
	return m.Len()
}
