// Package models defines the wire and domain types shared by the story client.
//
// The package contains two categories of types:
//
// 1. Request types: what the client sends to the story backend
//   - [Book] : A selectable source text, identified by its filename
//   - [GenerationRequest] : Book plus [Length] and [Style] options, validated before sending
//
// 2. Response types: what the backend sends back
//   - [ProgressEvent] : One server-pushed step of a streaming session
//   - [ProduceResponse] : The single-shot response body
//   - [Analysis] : Characters, mood words, sentiment and keywords of the source text
//
// [OrderedMap] is a github.com/wk8/go-ordered-map/v2 map that keeps JSON object keys
// in document order, since the analysis renderer shows the first N characters and
// mood words as the server ranked them.
package models
