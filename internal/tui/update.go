package tui

import (
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"clipmark/internal/clips"
	"clipmark/internal/editsync"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m.quit()
	case "left":
		m.editors[m.endpoint].MoveLeft()
	case "right":
		m.editors[m.endpoint].MoveRight()
	case "up":
		return m.edit(func(v float64) (float64, bool) { return m.editors[m.endpoint].Step(v, 1) })
	case "down":
		return m.edit(func(v float64) (float64, bool) { return m.editors[m.endpoint].Step(v, -1) })
	case "backspace":
		return m.edit(m.editors[m.endpoint].Clear)
	case "tab":
		if m.endpoint == editsync.Start {
			m.endpoint = editsync.End
		} else {
			m.endpoint = editsync.Start
		}
	case "j", "k":
		return m.moveSelection(key)
	case "a":
		clip, err := m.ctrl.AddClip(context.Background())
		m = m.report(fmt.Sprintf("added clip %s", shortID(clip.ID)), err)
	case "x":
		selected := m.ctrl.Selected()
		if selected == "" {
			return m, nil
		}
		err := m.ctrl.RemoveClip(context.Background(), selected)
		m = m.report(fmt.Sprintf("removed clip %s", shortID(selected)), err)
	case " ":
		m = m.report("", m.ctrl.TogglePlayback())
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			d := int(key[0] - '0')
			return m.edit(func(v float64) (float64, bool) { return m.editors[m.endpoint].Digit(v, d) })
		}
	}
	return m, nil
}

// edit runs an editor transition on the selected clip's active endpoint
// and hands any change to the controller.
func (m Model) edit(step func(float64) (float64, bool)) (tea.Model, tea.Cmd) {
	clip, ok := m.selectedClip()
	if !ok {
		return m, nil
	}
	m.editors[m.endpoint].SetMax(m.ctrl.Duration())
	current := clip.Start
	if m.endpoint == editsync.End {
		current = clip.End
	}
	next, changed := step(current)
	if !changed {
		return m, nil
	}
	_, err := m.ctrl.ApplyValue(clip.ID, m.endpoint, next)
	return m.report("", err), nil
}

func (m Model) moveSelection(key string) (tea.Model, tea.Cmd) {
	list := m.ctrl.Clips()
	if len(list) == 0 {
		return m, nil
	}
	idx := slices.IndexFunc(list, func(c clips.Clip) bool { return c.ID == m.ctrl.Selected() })
	switch {
	case idx < 0:
		idx = 0
	case key == "j":
		idx = min(idx+1, len(list)-1)
	default:
		idx = max(idx-1, 0)
	}
	err := m.ctrl.Select(context.Background(), list[idx].ID)
	return m.report("", err), nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := m.ctrl.Flush(ctx); err != nil {
		m.Err = err
	}
	m.Quitting = true
	return m, tea.Quit
}

func (m Model) report(status string, err error) Model {
	m.Err = err
	if err == nil && status != "" {
		m.Status = status
	}
	return m
}

func (m Model) selectedClip() (clips.Clip, bool) {
	selected := m.ctrl.Selected()
	if selected == "" {
		return clips.Clip{}, false
	}
	return m.ctrl.Clip(selected)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
