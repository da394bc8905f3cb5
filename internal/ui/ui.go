package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/shared"
	"github.com/desertthunder/storyx/internal/tasks"
)

// BookSource lists the selectable books.
type BookSource interface {
	Books() ([]models.Book, error)
}

// ModelOpts contains the dependencies of a [Model].
type ModelOpts struct {
	Controller *tasks.Controller
	Artifacts  *tasks.Artifacts
	Library    BookSource
	Toaster    *Toaster // must be the controller's notifier
	Length     models.Length
	Style      models.Style
	Logger     *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	ctrl      *tasks.Controller
	artifacts *tasks.Artifacts
	library   BookSource
	toaster   *Toaster
	logger    *log.Logger

	width    int
	height   int
	books    list.Model
	story    viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	length   int
	style    int
	ticking  bool
	rendered uint64 // session whose story is in the viewport
	err      error
}

// NewModel creates a new TUI model bound to a session controller.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.Toaster == nil {
		opts.Toaster = NewToaster()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	books := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	books.Title = "Library"
	books.SetShowHelp(false)

	return &Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		artifacts: opts.Artifacts,
		library:   opts.Library,
		toaster:   opts.Toaster,
		logger:    opts.Logger,
		books:     books,
		story:     viewport.New(0, 0),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.section)),
		help:      help.New(),
		keys:      newKeyMap(),
		length:    indexOf(models.Lengths, opts.Length),
		style:     indexOf(models.Styles, opts.Style),
	}
}

func indexOf[T comparable](values []T, v T) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return 0
}

// Init loads the library and starts listening for session events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadBooks(), m.waitForEvent(), m.spinner.Tick)
}

// Options returns the currently chosen length and style.
func (m *Model) Options() tasks.Options {
	return tasks.Options{Length: models.Lengths[m.length], Style: models.Styles[m.style]}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.books.SetSize(msg.Width/3, msg.Height-6)
		m.story.Width = msg.Width - msg.Width/3 - 4
		m.story.Height = msg.Height - 8
		m.rendered = 0
		m.syncStory()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgBooksLoaded:
			data := msg.data.(booksLoaded)
			if data.err != nil {
				m.err = data.err
				m.logger.Error("failed to load books", "err", data.err)
				return m, nil
			}
			m.ctrl.Selection().SetBooks(data.books)
			m.refreshBooks()
			return m, nil

		case MsgSessionEvent:
			if m.ctrl.Handle(msg.data.(tasks.Envelope)) {
				m.syncStory()
			}
			return m, tea.Batch(m.waitForEvent(), m.tick())

		case MsgToastTick:
			m.ticking = false
			return m, m.tick()
		}
	}

	var cmd tea.Cmd
	m.books, cmd = m.books.Update(msg)
	return m, cmd
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.books.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.books, cmd = m.books.Update(msg)
		return m, cmd
	}

	scr := m.ctrl.Screen()

	switch {
	case key.Matches(msg, m.keys.quit):
		m.ctrl.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if scr.Locked {
			return m, nil
		}
		if item, ok := m.books.SelectedItem().(bookItem); ok {
			if err := m.ctrl.Selection().Select(item.book.Filename); err != nil {
				m.toaster.Notify(err.Error(), tasks.KindError)
			}
			m.refreshBooks()
		}
		return m, m.tick()

	case key.Matches(msg, m.keys.generate):
		return m, m.start(m.ctrl.Start)

	case key.Matches(msg, m.keys.regenerate):
		if !scr.ShowResult {
			return m, nil
		}
		return m, m.start(m.ctrl.Regenerate)

	case key.Matches(msg, m.keys.length):
		if !scr.Locked {
			m.length = (m.length + 1) % len(models.Lengths)
		}
		return m, nil

	case key.Matches(msg, m.keys.style):
		if !scr.Locked {
			m.style = (m.style + 1) % len(models.Styles)
		}
		return m, nil

	case key.Matches(msg, m.keys.copy):
		if scr.Story != "" {
			m.artifacts.Copy(scr.Story)
		}
		return m, m.tick()

	case key.Matches(msg, m.keys.save):
		if s := m.ctrl.Session(); s != nil && scr.Story != "" {
			_, _ = m.artifacts.Save(scr.Story, s.Book.Title())
		}
		return m, m.tick()

	case key.Matches(msg, m.keys.reset):
		m.ctrl.ResetToIdle()
		m.story.SetContent("")
		m.story.GotoTop()
		m.rendered = 0
		m.books.ResetSelected()
		m.refreshBooks()
		return m, nil
	}

	var cmd tea.Cmd
	if scr.ShowResult {
		m.story, cmd = m.story.Update(msg)
	} else {
		m.books, cmd = m.books.Update(msg)
	}
	return m, cmd
}

type startFunc func(context.Context, tasks.Options) (*tasks.Session, error)

func (m *Model) start(fn startFunc) tea.Cmd {
	if !m.ctrl.Selection().CanGenerate() {
		return nil
	}
	if _, err := fn(m.ctx, m.Options()); err != nil {
		if !errors.Is(err, shared.ErrSessionActive) {
			m.toaster.Notify(err.Error(), tasks.KindError)
		}
		return m.tick()
	}
	m.story.SetContent("")
	m.story.GotoTop()
	m.rendered = 0
	return m.spinner.Tick
}

// syncStory renders a newly completed story into the viewport once per session.
func (m *Model) syncStory() {
	s := m.ctrl.Session()
	if s == nil || s.State != tasks.Complete || s.ID == m.rendered {
		return
	}
	m.story.SetContent(renderStory(s.Story, m.story.Width))
	m.story.GotoTop()
	m.rendered = s.ID
}

func (m *Model) refreshBooks() {
	scr := m.ctrl.Screen()
	m.books.SetItems(bookItems(scr.Books, scr.Selected))
}

// tick schedules toast redraws while a toast is on screen.
func (m *Model) tick() tea.Cmd {
	if m.ticking || !m.toaster.Active() {
		return nil
	}
	m.ticking = true
	return tea.Tick(toastTick, func(time.Time) tea.Msg { return toastTickMsg() })
}

func (m *Model) loadBooks() tea.Cmd {
	return func() tea.Msg {
		if m.library == nil {
			return booksLoadedMsg(nil, nil)
		}
		books, err := m.library.Books()
		return booksLoadedMsg(books, err)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.ctrl.Events()
	return func() tea.Msg {
		select {
		case env := <-events:
			return sessionEventMsg(env)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// View renders the library beside the current session.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	scr := m.ctrl.Screen()

	left := m.books.View()
	if scr.Locked {
		left = styles.dim.Render(left)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.renderSession(scr))

	return strings.Join([]string{
		styles.title.Render("storyx"),
		body,
		m.toaster.View(m.width),
		m.help.View(m.keys),
	}, "\n")
}

func (m *Model) renderSession(scr tasks.Screen) string {
	var sections []string

	if scr.ShowOptions {
		opts := m.Options()
		sections = append(sections, fmt.Sprintf("%s  %s\n%s  %s",
			styles.section.Render("Book"), scr.Selected,
			styles.section.Render("Options"), fmt.Sprintf("length: %s • style: %s", opts.Length, opts.Style),
		))
	} else {
		sections = append(sections, styles.help.Render("Select a book to begin."))
	}

	if scr.ShowLoading {
		sections = append(sections, renderSlots(scr.Slots)+"\n"+m.spinner.View()+" "+scr.Status)
	}

	if scr.State == tasks.Failed {
		sections = append(sections, styles.err.Render(scr.Message))
	}

	if scr.ShowAnalysis {
		sections = append(sections, renderAnalysis(scr.Analysis))
	}

	if scr.ShowResult {
		sections = append(sections, styles.ok.Render("✓ Your story")+"\n"+m.story.View())
	}

	return strings.Join(sections, "\n\n")
}
