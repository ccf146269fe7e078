// Package simtui renders a live terminal dashboard of an in-progress run
// by polling Engine.Clock/DispatchCount on a real wall-clock ticker. This
// is purely a human-observation aid: virtual time has no relationship to
// wall-clock time, so nothing here feeds back into scheduling, and a run
// executed without a Dashboard attached behaves identically (SPEC_FULL.md
// §4.18).
package simtui

import (
	"fmt"
	"time"

	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/jihwankim/matrixsim/pkg/sim"
)

// Dashboard polls a running Engine and redraws a small termui grid until
// Stop is called or the user presses q or Ctrl-C. It does not stop on its
// own when the polled Engine's run ends.
type Dashboard struct {
	engine      *sim.Engine
	scenario    string
	pollEvery   time.Duration
	stop        chan struct{}
	done        chan struct{}
}

// New creates a Dashboard for engine, labeled with scenario for the title
// bar. pollEvery defaults to 200ms if zero or negative.
func New(engine *sim.Engine, scenario string, pollEvery time.Duration) *Dashboard {
	if pollEvery <= 0 {
		pollEvery = 200 * time.Millisecond
	}
	return &Dashboard{
		engine:    engine,
		scenario:  scenario,
		pollEvery: pollEvery,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run initializes termui and blocks, redrawing on each tick, until Stop is
// called. Callers typically run it in its own goroutine alongside
// Simulation.Run on the main goroutine.
func (d *Dashboard) Run() error {
	if err := termui.Init(); err != nil {
		return fmt.Errorf("simtui: init termui: %w", err)
	}
	defer termui.Close()
	defer close(d.done)

	title := widgets.NewParagraph()
	title.Text = fmt.Sprintf("matrixsim — %s", d.scenario)
	title.Border = false
	title.TextStyle.Fg = termui.ColorGreen

	stats := widgets.NewParagraph()
	stats.Title = "run state"

	grid := termui.NewGrid()
	termWidth, termHeight := termui.TerminalDimensions()
	grid.SetRect(0, 0, termWidth, termHeight)
	grid.Set(
		termui.NewRow(1.0/6, title),
		termui.NewRow(5.0/6, stats),
	)

	render := func() {
		stats.Text = fmt.Sprintf(
			"virtual clock:     %d jiffies\nevents dispatched: %d\n\npress q to detach (run continues in background)",
			d.engine.Clock(), d.engine.DispatchCount(),
		)
		termui.Render(grid)
	}
	render()

	ticker := time.NewTicker(d.pollEvery)
	defer ticker.Stop()

	uiEvents := termui.PollEvents()
	for {
		select {
		case <-d.stop:
			return nil
		case e := <-uiEvents:
			if e.ID == "q" || e.ID == "<C-c>" {
				return nil
			}
		case <-ticker.C:
			render()
		}
	}
}

// Stop requests Run to return and waits for it to finish.
func (d *Dashboard) Stop() {
	close(d.stop)
	<-d.done
}
