// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a single screen split in two:
//  1. The library list on the left, where a book is selected with enter
//  2. The session panel on the right: chosen options, the three phase indicators,
//     the analysis once it arrives, and finally the story in a scrollable viewport
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Session events flow from the transport goroutines through [tasks.Controller.Events]; the model drains them one at a
// time and hands each to [tasks.Controller.Handle], so all session state is mutated on the bubbletea goroutine.
//
// Transient feedback (saved, copied, failed) is shown by a [Toaster] that fades out after three seconds.
// Key bindings are listed with charmbracelet/bubbles/help.
package ui
