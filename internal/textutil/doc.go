// Package textutil provides filename sanitization for files clipmark
// writes, such as exported clips.
package textutil
