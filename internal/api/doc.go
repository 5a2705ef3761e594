// Package api serves the clip editor over a local HTTP API.
//
// The server keeps one edit session per opened video and routes every
// mutation through it, so the HTTP surface observes the same selection
// gating and debounced persistence as the terminal editor. Bounds edits
// are accepted only for the selected clip; an edit for any other clip is
// answered with 409 and leaves the clip untouched.
//
// # Routes
//
//	GET    /api/health
//	GET    /api/videos/:id/clips?from=&to=
//	POST   /api/videos/:id/clips
//	DELETE /api/videos/:id/clips/:clip
//	PUT    /api/videos/:id/selection      {"clipId": "..."}
//	PATCH  /api/videos/:id/clips/:clip    {"start": 1.5, "end": 9}
//	POST   /api/videos/:id/duration       {"duration": 212.4}
//	POST   /api/videos/:id/flush
//	GET    /api/timecode?seconds=12.5 | ?text=00:00:12.500
//
// DTOs use camelCase JSON tags. Errors are {"error": "..."} with the status
// chosen by StatusFor.
package api
