// Package timecode converts between seconds and the fixed-width
// "HH:MM:SS.mmm" display form and provides the per-digit cursor editor used
// by clip boundary controls.
//
// The codec is a closed conversion: Parse only ever receives text produced by
// Format or spliced by the Editor, so it never reports errors. The Editor owns
// transient cursor state only; the value it edits belongs to the caller and
// every edit is reported back as a single clamped seconds value.
package timecode
