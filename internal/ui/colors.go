package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/storyx/internal/formatter"
	"github.com/desertthunder/storyx/internal/tasks"
)

var styles = NewPalette("#8B5CF6", "#10B981", "#EF4444", "#F59E0B", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	section lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	dim     lipgloss.Style

	// Tags
	character lipgloss.Style
	mood      lipgloss.Style
	keyword   lipgloss.Style

	// Phase slots
	pending   lipgloss.Style
	active    lipgloss.Style
	completed lipgloss.Style

	// Toasts
	toastOK  lipgloss.Style
	toastErr lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		section: NewBold(t),
		ok:      NewBold(s),
		err:     NewBold(e),
		warn:    NewStyle(w),
		help:    NewEm(h),
		dim:     NewStyle(h),

		character: NewTag("#A78BFA"),
		mood:      NewTag("#60A5FA"),
		keyword:   NewTag("#FB923C"),

		pending:   NewStyle(h),
		active:    NewBold(t),
		completed: NewStyle(s),

		toastOK:  NewToast(t),
		toastErr: NewToast(e),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func NewTag(fg string) lipgloss.Style {
	return NewStyle(fg).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(fg)).Padding(0, 1)
}

func NewToast(border string) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(border)).Padding(0, 1)
}

// barStyle colors a sentiment bar by its class.
func (p *Palette) barStyle(class string) lipgloss.Style {
	switch class {
	case formatter.ClassPositive:
		return p.ok
	case formatter.ClassNegative:
		return p.err
	default:
		return p.warn
	}
}

func (p *Palette) slotStyle(state tasks.SlotState) lipgloss.Style {
	switch state {
	case tasks.Active:
		return p.active
	case tasks.Completed:
		return p.completed
	default:
		return p.pending
	}
}

func (p *Palette) toastStyle(kind tasks.Kind) lipgloss.Style {
	if kind == tasks.KindError {
		return p.toastErr
	}
	return p.toastOK
}
