// Package export cuts clips out of a local media file with ffmpeg.
//
// Cuts are stream copies (no re-encode) seeked on the input side, so they
// start on the nearest preceding keyframe. Probe reads the media duration
// through ffprobe so a session opened from a file knows its real length.
package export
