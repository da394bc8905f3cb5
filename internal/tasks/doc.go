// Package tasks orchestrates story generation sessions against the backend with real-time progress reporting.
//
// # Sessions
//
// [Controller.Start] turns the selected book and [Options] into one [Session]:
//
//  1. Retires the previous session's transport (cancel + new session id)
//  2. Locks the [Selection] and resets the [StepProgress]
//  3. Opens one transport goroutine
//
// Session state moves Idle → Generating → (AnalysisAvailable) → Complete | Failed.
// Complete and Failed are terminal: later events are discarded.
//
// # Events
//
// Transport goroutines never touch controller state. They send [Envelope] values tagged with their session id
// on [Controller.Events]; the single consumer (the TUI update loop or the CLI loop) passes each one to [Controller.Handle].
// Envelopes whose id does not match the current session are dropped.
//
// Per event, in arrival order:
//   - error text or a transport error fails the session with one error notification
//   - the step is projected onto a phase by [MapStep]; the indicator never moves backwards
//   - the first non-empty analysis is rendered with [formatter.RenderAnalysis]
//   - step 7 with a story completes the session with one success notification
//
// # Transports
//
//   - [TransportStream] : Server-Sent Events via [services.Service.Stream]
//   - [TransportSingle] : one POST via [services.Service.Produce], replayed as steps 4, 6 and 7
//   - [TransportAuto] : stream, falling back to single-shot when the stream endpoint is missing
//
// # Artifacts
//
// [Artifacts] copies the finished story to the clipboard (system clipboard, then OSC52) and saves it as {base}_story.txt.
// [Controller.ResetToIdle] clears everything for a new session.
package tasks
