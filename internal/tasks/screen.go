package tasks

import (
	"github.com/desertthunder/storyx/internal/formatter"
	"github.com/desertthunder/storyx/internal/models"
)

// Screen is a read-only snapshot of everything a UI binds to.
type Screen struct {
	State       SessionState
	Books       []models.Book
	Selected    string
	CanGenerate bool
	Locked      bool

	ShowOptions  bool
	ShowLoading  bool
	ShowAnalysis bool
	ShowResult   bool

	Slots  [PhaseCount]Slot
	Status string

	Analysis formatter.AnalysisView
	Story    string
	Message  string
}

// Screen builds the current snapshot.
func (c *Controller) Screen() Screen {
	scr := Screen{
		State:        c.State(),
		Books:        c.selection.Books(),
		CanGenerate:  c.selection.CanGenerate(),
		Locked:       c.selection.Locked(),
		ShowOptions:  c.selection.ShowOptions(),
		ShowLoading:  c.showLoading,
		ShowAnalysis: c.showAnalysis,
		ShowResult:   c.showResult,
		Slots:        c.progress.Slots(),
		Status:       c.progress.Status(),
	}

	if b, ok := c.selection.Selected(); ok {
		scr.Selected = b.Filename
	}

	if s := c.session; s != nil {
		scr.Analysis = s.View
		scr.Message = s.Message
		if s.State == Complete {
			scr.Story = s.Story
		}
	}
	return scr
}
