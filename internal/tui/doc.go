// Package tui is the terminal clip editor built on bubbletea.
//
// The model is a thin view over an editsync.Controller: every key that
// changes a bound goes through the controller, so the terminal shares the
// selection gating and debounced persistence of the HTTP API. Each endpoint
// has its own timecode editor so the cursor position survives switching
// between start and end with tab.
package tui
