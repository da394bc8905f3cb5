package services

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/shared"
	"golang.org/x/sync/errgroup"
)

const (
	defaultInactivityTimeout = 2 * time.Minute
	maxFrameSize             = 4 * 1024 * 1024
)

// StoryService implements [Service] over HTTP.
type StoryService struct {
	api               *APIService
	streamPath        string
	producePath       string
	inactivityTimeout time.Duration
	requestTimeout    time.Duration
	logger            *log.Logger
}

// StoryServiceOpts contains configuration options for creating a StoryService.
type StoryServiceOpts struct {
	API               *APIService
	StreamPath        string
	ProducePath       string
	InactivityTimeout time.Duration // Stream fails when no bytes arrive for this long
	RequestTimeout    time.Duration // Upper bound for a single-shot request; zero means none
	Logger            *log.Logger
}

// NewStoryService creates a StoryService with defaults for any unset option.
func NewStoryService(opts StoryServiceOpts) *StoryService {
	if opts.API == nil {
		opts.API = NewAPIService("", nil, 0)
	}
	if opts.StreamPath == "" {
		opts.StreamPath = "/produce-story-stream"
	}
	if opts.ProducePath == "" {
		opts.ProducePath = "/produce-story"
	}
	if opts.InactivityTimeout <= 0 {
		opts.InactivityTimeout = defaultInactivityTimeout
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &StoryService{
		api:               opts.API,
		streamPath:        opts.StreamPath,
		producePath:       opts.ProducePath,
		inactivityTimeout: opts.InactivityTimeout,
		requestTimeout:    opts.RequestTimeout,
		logger:            opts.Logger,
	}
}

// NewStoryServiceFromConfig wires a StoryService from the [shared.ServerConfig] section.
func NewStoryServiceFromConfig(cfg shared.ServerConfig, client *http.Client, logger *log.Logger) *StoryService {
	return NewStoryService(StoryServiceOpts{
		API:               NewAPIService(cfg.BaseURL, client, cfg.RateLimit),
		StreamPath:        cfg.StreamPath,
		ProducePath:       cfg.ProducePath,
		InactivityTimeout: cfg.InactivityTimeout,
		RequestTimeout:    cfg.RequestTimeout,
		Logger:            logger,
	})
}

// Stream opens the SSE progress channel for req.
//
// 404, 405 and 501 answers are reported as [shared.ErrStreamUnsupported] so callers can fall back to [StoryService.Produce].
// A server that sends no headers within the inactivity timeout yields [shared.ErrTimeout].
func (s *StoryService) Stream(ctx context.Context, req models.GenerationRequest) (<-chan StreamItem, func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	// The inactivity window also covers waiting for response headers.
	var stalled atomic.Bool
	watchdog := time.AfterFunc(s.inactivityTimeout, func() {
		stalled.Store(true)
		cancel()
	})

	resp, err := s.api.Open(ctx, s.streamPath, req.Query(), "text/event-stream")
	watchdog.Stop()
	if stalled.Load() {
		if err == nil {
			resp.Body.Close()
		}
		cancel()
		return nil, nil, fmt.Errorf("%w: no response headers within %s", shared.ErrTimeout, s.inactivityTimeout)
	}
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		switch resp.StatusCode {
		case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
			return nil, nil, fmt.Errorf("%w: status %d", shared.ErrStreamUnsupported, resp.StatusCode)
		default:
			return nil, nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
		}
	}

	s.logger.Debug("stream open", "book", req.BookFilename, "length", req.Length, "style", req.Style)

	ch := make(chan StreamItem, 16)
	go func() {
		defer close(ch)
		err := s.pump(ctx, cancel, resp, ch)
		if ctx.Err() != nil && !errors.Is(err, shared.ErrTimeout) {
			// Stopped by the caller; nobody is listening for a reason.
			return
		}
		s.logger.Debug("stream ended", "book", req.BookFilename, "reason", err)
		send(ctx, ch, StreamItem{Err: err})
	}()

	return ch, cancel, nil
}

// pump reads SSE frames from resp until it ends, racing an inactivity watchdog.
func (s *StoryService) pump(ctx context.Context, cancel context.CancelFunc, resp *http.Response, ch chan<- StreamItem) error {
	defer resp.Body.Close()

	var timedOut atomic.Bool
	activity := make(chan struct{}, 1)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		timer := time.NewTimer(s.inactivityTimeout)
		defer timer.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-activity:
				timer.Reset(s.inactivityTimeout)
			case <-timer.C:
				timedOut.Store(true)
				cancel()
				return fmt.Errorf("%w: no progress for %s", shared.ErrTimeout, s.inactivityTimeout)
			}
		}
	})

	g.Go(func() error {
		err := readFrames(resp, func() {
			select {
			case activity <- struct{}{}:
			default:
			}
		}, func(ev models.ProgressEvent) bool {
			return send(ctx, ch, StreamItem{Event: ev})
		})

		switch {
		case timedOut.Load():
			return fmt.Errorf("%w: no progress for %s", shared.ErrTimeout, s.inactivityTimeout)
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			return err
		default:
			return shared.ErrStreamClosed
		}
	})

	return g.Wait()
}

// readFrames parses "data:" lines into events, dispatching on blank lines.
//
// touch is called for every line read; emit returns false to stop reading.
// A nil return means the body reached EOF.
func readFrames(resp *http.Response, touch func(), emit func(models.ProgressEvent) bool) error {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	var dataLines []string

	for scanner.Scan() {
		touch()
		line := scanner.Text()
		if line == "" {
			if len(dataLines) == 0 {
				continue
			}
			payload := strings.Join(dataLines, "\n")
			dataLines = dataLines[:0]

			var event models.ProgressEvent
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrMalformedEvent, err)
			}
			if !emit(event) {
				return nil
			}
			continue
		}
		if strings.HasPrefix(line, "data:") {
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

func send(ctx context.Context, ch chan<- StreamItem, item StreamItem) bool {
	select {
	case ch <- item:
		return true
	case <-ctx.Done():
		// A timeout cancels ctx but still owes the listener its reason.
		if item.Err != nil && errors.Is(item.Err, shared.ErrTimeout) {
			select {
			case ch <- item:
				return true
			default:
			}
		}
		return false
	}
}

// Produce performs the single-shot request and decodes the finished story.
//
// Any non-2xx answer is [shared.ErrGenerationFailed]; the server's detail, when present, is attached for logs.
func (s *StoryService) Produce(ctx context.Context, req models.GenerationRequest) (*models.ProduceResponse, error) {
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.api.Post(ctx, s.producePath, body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: status %d%s", shared.ErrGenerationFailed, resp.StatusCode, detail(resp))
	}

	var out models.ProduceResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedEvent, err)
	}
	if out.Story == "" {
		return nil, fmt.Errorf("%w: response carried no story", shared.ErrGenerationFailed)
	}
	return &out, nil
}

// detail extracts FastAPI's {"detail": "..."} message when present.
func detail(resp *APIResponse) string {
	if obj, ok := resp.JSONData.(map[string]any); ok {
		if d, ok := obj["detail"].(string); ok && d != "" {
			return ": " + d
		}
	}
	return ""
}
