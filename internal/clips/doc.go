// Package clips owns the authoritative in-memory collection of clips per
// video and the JSON payload used to persist a video entry.
//
// The Registry enforces every clip invariant: ids are unique per video and
// immutable, bounds satisfy 0 <= start <= end <= duration, and callers only
// ever receive copies. Mutations happen exclusively through Registry methods;
// returned slices can be modified freely without affecting registry state.
package clips
