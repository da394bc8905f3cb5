// Package services implements the client side of the story backend's wire contract.
//
// # Service Interface
//
// [Service] abstracts the two transports so the session controller can drive either one and be tested against fakes.
//
// # Streaming Transport
//
// [StoryService.Stream] opens GET /produce-story-stream?book_filename=&length=&style= as a Server-Sent Events channel.
// Each "data:" frame is a JSON [models.ProgressEvent]. Frames are delivered in arrival order on a buffered channel;
// the channel's last item carries the reason the stream ended:
//   - [shared.ErrStreamClosed] : server closed the body
//   - [shared.ErrTimeout] : no bytes for the inactivity window
//   - [shared.ErrMalformedEvent] : a frame was not valid JSON
//   - [shared.ErrAPIRequest] : the body read failed
//
// Calling the returned stop function cancels the request and suppresses that final item.
//
// # Single-Shot Transport
//
// [StoryService.Produce] POSTs {book_filename, length, style} to /produce-story and decodes {analysis?, story}.
// Any non-2xx answer is [shared.ErrGenerationFailed].
//
// # Rate Limiting
//
// Both transports go through [APIService], which waits on a shared limiter before each request.
//
// # Library
//
// [Library] lists .txt and .pdf books from a directory and from configuration.
package services
