package tui

import (
	"fmt"
	"strings"

	"clipmark/internal/editsync"
	"clipmark/internal/timecode"
)

const helpLine = "←/→ cursor · ↑/↓ step · 0-9 type · ⌫ clear · tab start/end · j/k select · a add · x delete · space play · q quit"

// View implements tea.Model.
func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("clipmark · " + m.ctrl.VideoID()))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  duration %s  player %s",
		timecode.Format(m.ctrl.Duration()), m.ctrl.State().Label())))
	b.WriteString("\n\n")

	list := m.ctrl.Clips()
	selected := m.ctrl.Selected()
	if len(list) == 0 {
		b.WriteString(dimStyle.Render("  no clips yet, press a to add one"))
		b.WriteString("\n")
	}
	for i, c := range list {
		line := fmt.Sprintf("%2d  %s → %s  %s", i+1, timecode.Format(c.Start), timecode.Format(c.End), shortID(c.ID))
		if c.ID == selected {
			b.WriteString(selectedStyle.Render("▶ " + line))
		} else {
			b.WriteString(dimStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if clip, ok := m.selectedClip(); ok {
		b.WriteString("\n")
		start := m.renderField(editsync.Start, clip.Start)
		end := m.renderField(editsync.End, clip.End)
		b.WriteString(fieldStyle.Render("start " + start + "   end " + end))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if pending := len(m.ctrl.Pending()); pending > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d unsaved edit(s)  ", pending)))
	}
	switch {
	case m.Err != nil:
		b.WriteString(errorStyle.Render(m.Err.Error()))
	case m.ctrl.Err() != nil:
		b.WriteString(errorStyle.Render("not saved: " + m.ctrl.Err().Error()))
	case m.Status != "":
		b.WriteString(statusStyle.Render(m.Status))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(helpLine))
	b.WriteString("\n")
	return b.String()
}

// renderField draws a timecode, highlighting the cursor digit when the
// field is the one being edited.
func (m Model) renderField(endpoint editsync.Endpoint, value float64) string {
	text := timecode.Format(value)
	if endpoint != m.endpoint {
		return dimStyle.Render(text)
	}
	pos := m.editors[endpoint].Position()
	return text[:pos] + cursorStyle.Render(text[pos:pos+1]) + text[pos+1:]
}
