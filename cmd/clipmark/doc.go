// Command clipmark manages video clip bounds from the terminal.
//
// Subcommands open and inspect videos, edit clips one-shot, run the
// interactive editor (edit), serve the local HTTP API (serve), cut clips
// out of a local file with ffmpeg (export), and convert timecodes. Every
// command except config init and timecode loads the TOML configuration
// first; --json switches table output to indented JSON.
package main
