package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgroleau/thalweg/pkg/geom"
	"github.com/dgroleau/thalweg/pkg/observability"
	"github.com/dgroleau/thalweg/pkg/pipeline"
)

// =============================================================================
// Messages
// =============================================================================

// reachDoneMsg reports one completed reach.
type reachDoneMsg struct {
	reach int
	moved int
}

// relaxDoneMsg signals that the whole run has finished.
type relaxDoneMsg struct{}

// =============================================================================
// Model
// =============================================================================

const progressBarWidth = 30

// relaxModel is the bubbletea model for the --progress display. It renders
// a bar of completed reaches and a running moved-vertex count.
type relaxModel struct {
	total     int
	completed int
	moved     int
}

func (m relaxModel) Init() tea.Cmd {
	return nil
}

func (m relaxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case reachDoneMsg:
		m.completed++
		m.moved += msg.moved
	case relaxDoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m relaxModel) View() string {
	filled := 0
	if m.total > 0 {
		filled = m.completed * progressBarWidth / m.total
	}
	bar := StyleHighlight.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", progressBarWidth-filled))

	return fmt.Sprintf("  %s %s %s\n",
		bar,
		StyleNumber.Render(fmt.Sprintf("%d/%d", m.completed, m.total)),
		StyleDim.Render(fmt.Sprintf("reaches · %d vertices moved", m.moved)),
	)
}

// =============================================================================
// Hook Bridge
// =============================================================================

// teaRelaxHooks forwards reach completions from the relaxation loop into
// the running bubbletea program.
type teaRelaxHooks struct {
	observability.NoopRelaxHooks
	prog *tea.Program
}

func (h *teaRelaxHooks) OnReachComplete(_ context.Context, reach, moved int, _ time.Duration, _ error) {
	h.prog.Send(reachDoneMsg{reach: reach, moved: moved})
}

// =============================================================================
// Runner Integration
// =============================================================================

type relaxOutcome struct {
	result *pipeline.RelaxResult
	err    error
}

// runRelaxWithProgress runs the relaxation pipeline while a bubbletea
// program displays per-reach progress on stderr.
func runRelaxWithProgress(ctx context.Context, runner *pipeline.Runner, lines []*geom.Line, surface pipeline.Surface, opts pipeline.RelaxOptions) (*pipeline.RelaxResult, error) {
	prog := tea.NewProgram(relaxModel{total: len(lines)},
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)

	observability.SetRelaxHooks(&teaRelaxHooks{prog: prog})
	defer observability.SetRelaxHooks(observability.NoopRelaxHooks{})

	outcome := make(chan relaxOutcome, 1)
	go func() {
		result, err := runner.Relax(ctx, lines, surface, opts)
		outcome <- relaxOutcome{result: result, err: err}
		prog.Send(relaxDoneMsg{})
	}()

	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		// Display failure only; the pipeline result still decides the outcome.
		loggerFromContext(ctx).Debug("progress display failed", "err", err)
	}

	out := <-outcome
	return out.result, out.err
}
