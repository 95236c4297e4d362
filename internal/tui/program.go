package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bookverseapp/bookverse/internal/dashboard"
)

// Run shows the dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctrl *dashboard.Controller, opts Options) error {
	opts.Context = ctx
	p := tea.NewProgram(New(ctrl, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	// Controller changes arrive from timers and request goroutines, and
	// from Update itself. A one-slot signal keeps Send off the event loop.
	signal := make(chan struct{}, 1)
	done := make(chan struct{})
	ctrl.OnChange(func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-signal:
				p.Send(changedMsg{})
			}
		}
	}()
	defer close(done)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
