package tasks

import (
	"errors"
	"testing"

	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/shared"
)

func TestMapStep(t *testing.T) {
	tests := []struct {
		step   int
		cached bool
		phase  Phase
		text   string
	}{
		{1, false, PhaseReading, "Reading file..."},
		{2, false, PhaseReading, "Cleaning text..."},
		{2, true, PhaseReading, "Loading from cache..."},
		{3, false, PhaseReading, "Sampling text..."},
		{3, true, PhaseReading, "Sampling text..."},
		{4, false, PhaseAnalyzing, "Running NLP analysis..."},
		{5, false, PhaseAnalyzing, "Analysis complete!"},
		{6, false, PhaseWriting, "Writing story..."},
		{7, false, PhaseWriting, "Done!"},
		{0, false, PhaseNone, ""},
		{8, true, PhaseNone, ""},
		{-1, false, PhaseNone, ""},
	}

	for _, tt := range tests {
		phase, text := MapStep(tt.step, tt.cached)
		if phase != tt.phase || text != tt.text {
			t.Errorf("MapStep(%d, %v) = (%v, %q), want (%v, %q)", tt.step, tt.cached, phase, text, tt.phase, tt.text)
		}
	}

	t.Run("Non-Decreasing Partition", func(t *testing.T) {
		prev := PhaseNone
		for step := 1; step <= models.FinalStep; step++ {
			phase, _ := MapStep(step, false)
			if phase < prev {
				t.Errorf("step %d maps to %v after %v", step, phase, prev)
			}
			prev = phase
		}
	})
}

func TestPhase(t *testing.T) {
	if PhaseReading.Icon() != "📖" || PhaseAnalyzing.Icon() != "🔍" || PhaseWriting.Icon() != "✍️" {
		t.Error("unexpected phase icons")
	}
	if PhaseAnalyzing.Label() != "Analyzing" {
		t.Errorf("unexpected label %q", PhaseAnalyzing.Label())
	}
	if PhaseNone.Valid() || Phase(4).Valid() {
		t.Error("expected out of range phases to be invalid")
	}
	if PhaseNone.Icon() != "" || PhaseNone.Label() != "" {
		t.Error("expected empty icon and label for PhaseNone")
	}
}

func TestStepProgress(t *testing.T) {
	t.Run("SetPhase", func(t *testing.T) {
		var p StepProgress
		p.SetPhase(PhaseAnalyzing, "")

		slots := p.Slots()
		want := []struct {
			state SlotState
			icon  string
		}{
			{Completed, DoneMarker},
			{Active, "🔍"},
			{Pending, "✍️"},
		}
		for i, w := range want {
			if slots[i].State != w.state || slots[i].Icon != w.icon {
				t.Errorf("slot %d: expected %v %s, got %v %s", i, w.state, w.icon, slots[i].State, slots[i].Icon)
			}
		}
		if p.Status() != "Analyzing" {
			t.Errorf("expected default label, got %q", p.Status())
		}
	})

	t.Run("Explicit Status", func(t *testing.T) {
		var p StepProgress
		p.SetPhase(PhaseReading, "Reading file...")
		if p.Status() != "Reading file..." {
			t.Errorf("expected explicit status, got %q", p.Status())
		}
		p.SetPhase(PhaseReading, "")
		if p.Status() != "Cleaning text" {
			t.Errorf("expected label fallback, got %q", p.Status())
		}
	})

	t.Run("Invalid Phase Ignored", func(t *testing.T) {
		var p StepProgress
		p.SetPhase(PhaseWriting, "Done!")
		p.SetPhase(Phase(9), "nope")
		if p.Phase() != PhaseWriting || p.Status() != "Done!" {
			t.Errorf("expected state unchanged, got %v %q", p.Phase(), p.Status())
		}
	})

	t.Run("Reset Is Idempotent", func(t *testing.T) {
		var p StepProgress
		p.SetPhase(PhaseWriting, "Done!")

		p.Reset()
		once := p.Slots()
		p.Reset()
		twice := p.Slots()

		if once != twice {
			t.Errorf("expected identical slots, got %+v and %+v", once, twice)
		}
		for i, s := range twice {
			if s.State != Pending || s.Icon != Phase(i+1).Icon() {
				t.Errorf("slot %d not reset: %+v", i, s)
			}
		}
		if p.Phase() != PhaseNone || p.Status() != "" {
			t.Errorf("expected no active phase, got %v %q", p.Phase(), p.Status())
		}
	})
}

func TestSelection(t *testing.T) {
	books := []models.Book{{Filename: "alice.txt"}, {Filename: "pride.txt"}}

	t.Run("Select", func(t *testing.T) {
		s := NewSelection(books)
		if s.CanGenerate() || s.ShowOptions() {
			t.Error("expected nothing enabled before selection")
		}

		if err := s.Select("pride.txt"); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if err := s.Select("alice.txt"); err != nil {
			t.Fatalf("Select failed: %v", err)
		}

		b, ok := s.Selected()
		if !ok || b.Filename != "alice.txt" {
			t.Errorf("expected only alice selected, got %+v", b)
		}
		if !s.CanGenerate() || !s.ShowOptions() {
			t.Error("expected generate and options enabled")
		}
	})

	t.Run("Unknown Book", func(t *testing.T) {
		s := NewSelection(books)
		if err := s.Select("missing.txt"); !errors.Is(err, shared.ErrBookNotFound) {
			t.Errorf("expected ErrBookNotFound, got %v", err)
		}
		if _, ok := s.Selected(); ok {
			t.Error("expected no selection")
		}
	})

	t.Run("Lock Gates Generate", func(t *testing.T) {
		s := NewSelection(books)
		_ = s.Select("alice.txt")

		s.Lock()
		if s.CanGenerate() {
			t.Error("expected generate disabled while locked")
		}
		s.Unlock()
		if !s.CanGenerate() {
			t.Error("expected generate enabled after unlock")
		}
	})

	t.Run("SetBooks Keeps Selection", func(t *testing.T) {
		s := NewSelection(books)
		_ = s.Select("pride.txt")

		s.SetBooks([]models.Book{{Filename: "emma.txt"}, {Filename: "pride.txt"}})
		if b, ok := s.Selected(); !ok || b.Filename != "pride.txt" {
			t.Errorf("expected pride kept, got %+v", b)
		}

		s.SetBooks([]models.Book{{Filename: "emma.txt"}})
		if _, ok := s.Selected(); ok {
			t.Error("expected selection dropped when book disappears")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		s := NewSelection(books)
		_ = s.Select("alice.txt")
		s.Clear()
		if s.CanGenerate() {
			t.Error("expected generate disabled after clear")
		}
	})
}
