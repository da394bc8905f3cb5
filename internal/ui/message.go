package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgBooksLoaded MsgKind = iota
	MsgSessionEvent
	MsgToastTick
)

type booksLoaded struct {
	books []models.Book
	err   error
}

// booksLoadedMsg is the constructor for [MsgBooksLoaded]
func booksLoadedMsg(books []models.Book, err error) Msg {
	return Msg{kind: MsgBooksLoaded, data: booksLoaded{books, err}}
}

// sessionEventMsg is the constructor for [MsgSessionEvent]
func sessionEventMsg(env tasks.Envelope) Msg {
	return Msg{kind: MsgSessionEvent, data: env}
}

// toastTickMsg is the constructor for [MsgToastTick]
func toastTickMsg() Msg {
	return Msg{kind: MsgToastTick}
}
