package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/storyx/internal/formatter"
	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/services"
	"github.com/desertthunder/storyx/internal/shared"
)

const (
	eventBuffer          = 64
	defaultFallbackPause = 800 * time.Millisecond

	msgComplete         = "Story generated successfully! ✨"
	msgConnection       = "Connection error"
	msgTimeout          = "Connection timed out"
	msgGenerationFailed = "Story generation failed"
)

// SessionState is the lifecycle position of a session.
type SessionState int

const (
	Idle SessionState = iota
	AwaitingSelection
	Generating
	AnalysisAvailable // sub-state of Generating
	Complete
	Failed
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingSelection:
		return "awaiting_selection"
	case Generating:
		return "generating"
	case AnalysisAvailable:
		return "analysis_available"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Running reports whether a transport is still feeding the session.
func (s SessionState) Running() bool {
	return s == Generating || s == AnalysisAvailable
}

// Terminal reports whether no further events are applied.
func (s SessionState) Terminal() bool {
	return s == Complete || s == Failed
}

// Transport selects how a session talks to the backend.
type Transport string

const (
	TransportStream Transport = "stream"
	TransportSingle Transport = "single"
	TransportAuto   Transport = "auto" // stream, falling back to single-shot when the endpoint is missing
)

// ParseTransport validates a transport name. Empty means [TransportAuto].
func ParseTransport(name string) (Transport, error) {
	switch t := Transport(name); t {
	case "":
		return TransportAuto, nil
	case TransportStream, TransportSingle, TransportAuto:
		return t, nil
	default:
		return "", fmt.Errorf("%w: transport %q (want stream, single or auto)", shared.ErrInvalidFlag, name)
	}
}

// Options are the user's per-session choices.
type Options struct {
	Length models.Length
	Style  models.Style
}

// Session is one generation attempt. Only the [Controller]'s consumer goroutine mutates it.
type Session struct {
	ID       uint64
	TraceID  string
	Book     models.Book
	Request  models.GenerationRequest
	State    SessionState
	Cached   bool
	Analysis *models.Analysis
	View     formatter.AnalysisView
	Story    string
	Message  string // failure text shown to the user
	Err      error  // transport error behind a failure, if any
	Started  time.Time

	cancel context.CancelFunc
	logger *log.Logger
}

// Envelope carries one transport result tagged with the session it belongs to.
type Envelope struct {
	SessionID uint64
	Event     models.ProgressEvent
	Err       error
}

// Kind is a notification accent.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// Notifier shows transient status messages.
type Notifier interface {
	Notify(message string, kind Kind)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(message string, kind Kind)

func (f NotifierFunc) Notify(message string, kind Kind) { f(message, kind) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(message string, kind Kind) {
	if kind == KindError {
		n.Logger.Error(message)
		return
	}
	n.Logger.Info(message)
}

// ControllerOpts contains the collaborators of a [Controller].
type ControllerOpts struct {
	Service       services.Service
	Selection     *Selection
	Notifier      Notifier
	Logger        *log.Logger
	Transport     Transport
	FallbackPause time.Duration // pause between replayed phases of a single-shot result; negative disables it
}

// Controller owns the lifecycle of generation sessions.
//
// Transport goroutines only send [Envelope] values on [Controller.Events].
// Start, Handle, Regenerate and ResetToIdle must all be called from one goroutine.
type Controller struct {
	service   services.Service
	selection *Selection
	notifier  Notifier
	logger    *log.Logger
	transport Transport
	pause     time.Duration
	events    chan Envelope

	nextID   uint64
	session  *Session
	progress StepProgress

	showLoading  bool
	showAnalysis bool
	showResult   bool
}

// NewController creates a Controller with defaults for any unset option.
func NewController(opts ControllerOpts) *Controller {
	if opts.Selection == nil {
		opts.Selection = NewSelection(nil)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Logger: opts.Logger}
	}
	if opts.Transport == "" {
		opts.Transport = TransportAuto
	}
	if opts.FallbackPause == 0 {
		opts.FallbackPause = defaultFallbackPause
	}

	return &Controller{
		service:   opts.Service,
		selection: opts.Selection,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		transport: opts.Transport,
		pause:     opts.FallbackPause,
		events:    make(chan Envelope, eventBuffer),
	}
}

// Events is the channel the consumer drains into [Controller.Handle].
func (c *Controller) Events() <-chan Envelope {
	return c.events
}

// Selection returns the selection surface the controller locks.
func (c *Controller) Selection() *Selection {
	return c.selection
}

// Session returns the current session, or nil.
func (c *Controller) Session() *Session {
	return c.session
}

// Progress returns a copy of the phase indicator.
func (c *Controller) Progress() StepProgress {
	return c.progress
}

// State reports the current session's state, or whether a book is awaited.
func (c *Controller) State() SessionState {
	if c.session != nil {
		return c.session.State
	}
	if _, ok := c.selection.Selected(); ok {
		return Idle
	}
	return AwaitingSelection
}

// Start launches a session for the selected book.
//
// It returns [shared.ErrNoSelection] without a selection and [shared.ErrSessionActive] while a session is running.
func (c *Controller) Start(ctx context.Context, opts Options) (*Session, error) {
	if c.session != nil && c.session.State.Running() {
		return nil, shared.ErrSessionActive
	}
	if c.service == nil {
		return nil, fmt.Errorf("%w: story service not initialized", shared.ErrServiceUnavailable)
	}

	book, ok := c.selection.Selected()
	if !ok {
		return nil, shared.ErrNoSelection
	}

	req, err := models.NewGenerationRequest(book, opts.Length, opts.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	c.retire()
	c.nextID++

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:      c.nextID,
		TraceID: shared.GenerateID(),
		Book:    book,
		Request: req,
		State:   Generating,
		Started: time.Now(),
		cancel:  cancel,
	}
	s.logger = shared.WithLogger(c.logger, "session", s.ID, "trace", s.TraceID)
	c.session = s

	c.selection.Lock()
	c.progress.Reset()
	c.showLoading = true
	c.showAnalysis = false
	c.showResult = false

	s.logger.Info("session started", "book", book.Filename, "length", req.Length, "style", req.Style, "transport", c.transport)

	go c.run(ctx, s.ID, req, s.logger)
	return s, nil
}

// Regenerate resets the phase indicator and starts a new session for the same selection.
func (c *Controller) Regenerate(ctx context.Context, opts Options) (*Session, error) {
	if c.session != nil && c.session.State.Running() {
		return nil, shared.ErrSessionActive
	}
	c.progress.Reset()
	return c.Start(ctx, opts)
}

// Handle applies one envelope. It reports whether the envelope changed anything.
//
// Envelopes from retired sessions and anything after a terminal state are discarded.
func (c *Controller) Handle(env Envelope) bool {
	s := c.session
	if s == nil || env.SessionID != s.ID {
		c.logger.Debug("discarding stale event", "session", env.SessionID, "step", env.Event.Step)
		return false
	}
	if s.State.Terminal() {
		s.logger.Debug("discarding event after terminal state", "state", s.State, "step", env.Event.Step)
		return false
	}

	if env.Err != nil {
		c.fail(s, failureMessage(env.Err), env.Err)
		return true
	}

	ev := env.Event
	if ev.Status != "" || ev.Progress != 0 {
		s.logger.Debug("server progress", "step", ev.Step, "status", ev.Status, "progress", ev.Progress)
	}

	if ev.Error != "" {
		c.fail(s, "Error: "+ev.Error, nil)
		return true
	}

	if ev.Cached {
		s.Cached = true
	}

	if phase, text := MapStep(ev.Step, ev.Cached); phase.Valid() && phase >= c.progress.Phase() {
		c.progress.SetPhase(phase, text)
	}

	if s.Analysis == nil && !ev.Analysis.Empty() {
		s.Analysis = ev.Analysis
		s.View = formatter.RenderAnalysis(ev.Analysis)
		s.State = AnalysisAvailable
		c.showAnalysis = true
		s.logger.Info("analysis available", "step", ev.Step)
	}

	if ev.Terminal() {
		c.complete(s, ev.Story)
	}
	return true
}

// ResetToIdle retires any session and clears selection, results and progress.
func (c *Controller) ResetToIdle() {
	c.retire()
	c.session = nil
	c.selection.Clear()
	c.selection.Unlock()
	c.progress.Reset()
	c.showLoading = false
	c.showAnalysis = false
	c.showResult = false
}

// Close retires the current session's transport.
func (c *Controller) Close() {
	c.retire()
}

func (c *Controller) retire() {
	if c.session != nil && c.session.cancel != nil {
		c.session.cancel()
	}
}

func (c *Controller) complete(s *Session, story string) {
	s.cancel()
	s.Story = story
	s.State = Complete
	c.showLoading = false
	c.showResult = true
	c.selection.Unlock()

	s.logger.Info("session complete", "elapsed", time.Since(s.Started).Round(time.Millisecond), "cached", s.Cached)
	c.notifier.Notify(msgComplete, KindSuccess)
}

func (c *Controller) fail(s *Session, message string, err error) {
	s.cancel()
	s.State = Failed
	s.Message = message
	s.Err = err
	c.showLoading = false
	c.selection.Unlock()

	s.logger.Error("session failed", "message", message, "err", err)
	c.notifier.Notify(message, KindError)
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, shared.ErrGenerationFailed):
		return msgGenerationFailed
	case errors.Is(err, shared.ErrTimeout):
		return msgTimeout
	default:
		return msgConnection
	}
}

// run drives one transport and forwards its results as envelopes.
func (c *Controller) run(ctx context.Context, id uint64, req models.GenerationRequest, logger *log.Logger) {
	if c.transport == TransportSingle {
		c.runSingle(ctx, id, req, logger)
		return
	}

	err := c.runStream(ctx, id, req)
	switch {
	case err == nil:
	case c.transport == TransportAuto && errors.Is(err, shared.ErrStreamUnsupported):
		logger.Warn("streaming unavailable, falling back to single-shot", "err", err)
		c.runSingle(ctx, id, req, logger)
	default:
		c.emit(ctx, Envelope{SessionID: id, Err: err})
	}
}

// runStream returns an error only when the stream could not be opened.
func (c *Controller) runStream(ctx context.Context, id uint64, req models.GenerationRequest) error {
	ch, stop, err := c.service.Stream(ctx, req)
	if err != nil {
		return err
	}
	defer stop()

	for item := range ch {
		if !c.emit(ctx, Envelope{SessionID: id, Event: item.Event, Err: item.Err}) {
			return nil
		}
		if item.Err != nil || item.Event.Error != "" || item.Event.Terminal() {
			return nil
		}
	}

	// The channel closed without a reason or a terminal event.
	if ctx.Err() == nil {
		c.emit(ctx, Envelope{SessionID: id, Err: shared.ErrStreamClosed})
	}
	return nil
}

// runSingle replays a single-shot result as steps 4, 6 and 7, pausing between the analysis and writing phases.
func (c *Controller) runSingle(ctx context.Context, id uint64, req models.GenerationRequest, logger *log.Logger) {
	resp, err := c.service.Produce(ctx, req)
	if err != nil {
		if ctx.Err() == nil {
			c.emit(ctx, Envelope{SessionID: id, Err: err})
		}
		return
	}
	logger.Debug("single-shot response", "story_len", len(resp.Story), "analysis", !resp.Analysis.Empty())

	if !c.emit(ctx, Envelope{SessionID: id, Event: models.ProgressEvent{Step: 4}}) || !sleep(ctx, c.pause) {
		return
	}
	if !c.emit(ctx, Envelope{SessionID: id, Event: models.ProgressEvent{Step: 6}}) {
		return
	}
	c.emit(ctx, Envelope{SessionID: id, Event: models.ProgressEvent{
		Step:     models.FinalStep,
		Analysis: resp.Analysis,
		Story:    resp.Story,
	}})
}

func (c *Controller) emit(ctx context.Context, env Envelope) bool {
	select {
	case c.events <- env:
		return true
	case <-ctx.Done():
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
