// Package library binds the in-memory clip registry to a storage adapter.
//
// Each video is persisted under "<prefix><videoId>" as the JSON payload
// produced by clips.Marshal, with a time-to-live (30 days by default).
// Structural changes (add, remove, clear, delete) are written through
// immediately; bound edits arrive through PersistClip, which the edit
// synchronization controller calls once per quiescence window.
//
// Every write is a read-modify-write of the persisted copy: the stored
// payload is decoded into a scratch registry, the single change is applied,
// and the result is written back. When the payload is missing or unreadable
// the scratch copy is seeded from memory instead. Persistence failures are
// returned to the caller but never roll back the in-memory registry.
package library
