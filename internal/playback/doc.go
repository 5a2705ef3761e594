// Package playback abstracts the external video player the editor drives.
//
// Surface is the consumed contract: query state and duration, play, stop,
// seek, and load a video by id. Surfaces that can report asynchronous
// notifications (the player became ready with a duration, or changed state)
// also implement Notifier. Handle replaces an ambient global player: callers
// hold a Handle, a Surface is attached with Acquire and detached with
// Release, and every call on an empty Handle fails with ErrNoSurface.
//
// Two surfaces ship here. Recorder keeps everything in memory and records
// seeks; it backs tests and headless use. MPV speaks mpv's JSON IPC protocol
// over its unix socket.
package playback
