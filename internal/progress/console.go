package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	stageStyle    = lipgloss.NewStyle().Bold(true)
	startedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	detailStyle   = lipgloss.NewStyle().Faint(true)
)

// Console renders progress events as styled lines, one per event.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a Console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Report(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Status {
	case StatusStarted:
		fmt.Fprintf(c.out, "%s %s\n",
			startedStyle.Render("▸"),
			stageStyle.Render(e.Stage))
	case StatusSuccess:
		fmt.Fprintf(c.out, "%s %s %s\n",
			successStyle.Render("✓"),
			stageStyle.Render(e.Stage),
			detailStyle.Render(fmt.Sprintf("(%d attempt(s), %s)", e.Attempt, e.Elapsed.Round(10*time.Millisecond))))
	case StatusDegraded:
		fmt.Fprintf(c.out, "%s %s %s\n",
			degradedStyle.Render("~"),
			stageStyle.Render(e.Stage),
			detailStyle.Render(fmt.Sprintf("degraded (%d attempt(s), %s)", e.Attempt, e.Elapsed.Round(10*time.Millisecond))))
	case StatusFailed:
		fmt.Fprintf(c.out, "%s %s %s\n",
			failedStyle.Render("✗"),
			stageStyle.Render(e.Stage),
			detailStyle.Render(fmt.Sprintf("failed after %d attempt(s)", e.Attempt)))
	}
}
