// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/storyx/internal/models"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// WriteSSE writes v as one "data:" frame and flushes it.
func WriteSSE(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal SSE payload: %v", err)
	}
	if _, err := w.Write(append(append([]byte("data: "), data...), '\n', '\n')); err != nil {
		return
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// SampleAnalysis returns a small analysis with every field populated.
func SampleAnalysis() *models.Analysis {
	return &models.Analysis{
		Characters: models.NewOrderedMap(
			models.Entry{Key: "Alice", Value: json.RawMessage("42")},
			models.Entry{Key: "Queen", Value: json.RawMessage("17")},
		),
		MoodWords: models.NewOrderedMap(
			models.Entry{Key: "curious", Value: json.RawMessage("0.8")},
		),
		Sentiments: &models.Sentiments{Polarity: 0.25, Subjectivity: 0.5},
		Keywords:    []string{"rabbit hole", "tea party"},
	}
}

// Recorder collects notifications for assertions.
type Recorder struct {
	mu      sync.Mutex
	entries []Note
}

// Note is one recorded notification.
type Note struct {
	Message string
	Error   bool
}

// Record appends a notification.
func (r *Recorder) Record(message string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Note{Message: message, Error: isError})
}

// Notes returns a copy of the recorded notifications.
func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.entries...)
}

// Errors returns only the error notifications.
func (r *Recorder) Errors() []Note {
	var out []Note
	for _, n := range r.Notes() {
		if n.Error {
			out = append(out, n)
		}
	}
	return out
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Discard is an [io.Writer] for loggers under test.
var Discard io.Writer = io.Discard
