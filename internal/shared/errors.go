package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrTimeout       = fmt.Errorf("operation timed out")

	// Transport and service errors
	ErrAPIRequest          = fmt.Errorf("API request failed")
	ErrServiceUnavailable  = fmt.Errorf("service unavailable")
	ErrStreamUnsupported   = fmt.Errorf("streaming endpoint unavailable")
	ErrStreamClosed        = fmt.Errorf("stream closed before completion")
	ErrMalformedEvent      = fmt.Errorf("malformed progress event")
	ErrGenerationFailed    = fmt.Errorf("story generation failed")
	ErrBookNotFound        = fmt.Errorf("book not found")
	ErrUnsupportedBookType = fmt.Errorf("unsupported book file type")

	// Session errors
	ErrNoSelection   = fmt.Errorf("no book selected")
	ErrSessionActive = fmt.Errorf("a generation session is already running")
	ErrNoStory       = fmt.Errorf("no story available")

	// Artifact errors
	ErrClipboard = fmt.Errorf("clipboard write failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
