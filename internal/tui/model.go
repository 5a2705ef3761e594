package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"clipmark/internal/editsync"
	"clipmark/internal/timecode"
)

const flushTimeout = 10 * time.Second

// Model is the bubbletea model of one edit session.
type Model struct {
	ctrl     *editsync.Controller
	editors  map[editsync.Endpoint]*timecode.Editor
	endpoint editsync.Endpoint

	// Status is the last action message shown under the clip list.
	Status string
	// Err is the last failed action, cleared by the next success.
	Err      error
	Quitting bool
}

// NewModel returns a model editing ctrl's video. The first clip is
// selected when nothing is.
func NewModel(ctrl *editsync.Controller) Model {
	m := Model{
		ctrl: ctrl,
		editors: map[editsync.Endpoint]*timecode.Editor{
			editsync.Start: timecode.NewEditor(ctrl.Duration()),
			editsync.End:   timecode.NewEditor(ctrl.Duration()),
		},
		endpoint: editsync.Start,
	}
	if ctrl.Selected() == "" {
		if list := ctrl.Clips(); len(list) > 0 {
			_ = ctrl.Select(context.Background(), list[0].ID)
		}
	}
	return m
}

// Endpoint returns the endpoint being edited.
func (m Model) Endpoint() editsync.Endpoint { return m.endpoint }

// Cursor returns the cursor position within the active timecode field.
func (m Model) Cursor() int { return m.editors[m.endpoint].Position() }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the terminal program and blocks until the user quits.
func Run(ctx context.Context, ctrl *editsync.Controller) error {
	_, err := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
