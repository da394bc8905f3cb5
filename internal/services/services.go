// package services defines interface Service for talking to the story backend
//
// Streaming (SSE) and single-shot (POST) transports, plus the local book library.
package services

import (
	"context"

	"github.com/desertthunder/storyx/internal/models"
)

// Service defines the two transports the story backend offers.
type Service interface {
	// Stream opens the server-push channel for req.
	// Items arrive in server order; a final item with Err set reports why the stream ended,
	// unless the returned stop function was called first.
	Stream(ctx context.Context, req models.GenerationRequest) (<-chan StreamItem, func(), error)

	// Produce issues one request carrying the full req and waits for the finished story.
	Produce(ctx context.Context, req models.GenerationRequest) (*models.ProduceResponse, error)
}

// StreamItem is one decoded progress event or the error that ended the stream.
type StreamItem struct {
	Event models.ProgressEvent
	Err   error
}
