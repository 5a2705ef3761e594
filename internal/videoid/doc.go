// Package videoid turns free-form user input into a YouTube video id and
// optionally confirms the video is reachable.
//
// Extract accepts a bare 11-character id or a standard watch, short
// (youtu.be), or embed URL. Validator additionally asks the oEmbed endpoint
// whether the video exists; that check needs no API key.
package videoid
