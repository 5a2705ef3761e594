// Package editsync coordinates clip edits between the editor, the player,
// and persistence for one open video.
//
// A Controller accepts bound changes only for the selected clip; changes for
// any other clip are dropped silently, as if that clip's controls were
// disabled. An accepted change seeks the player to the moved bound, updates
// the in-memory registry immediately, and schedules a debounced write. Each
// clip has at most one pending write: a newer edit cancels and replaces the
// older one, so one quiescence window produces exactly one write carrying
// the latest bounds. Switching selection flushes the previous clip's pending
// write synchronously, and Close cancels everything still scheduled.
//
// Persistence failures never roll back the in-memory state. They are logged,
// reported through Err, and retried implicitly by the next edit.
package editsync
