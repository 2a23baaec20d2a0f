package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/doeshing/devflow-go/internal/ports"
)

// Console renders status lines for a single invocation.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	step    lipgloss.Style
	success lipgloss.Style
	notice  lipgloss.Style
	warning lipgloss.Style
	output  lipgloss.Style
}

// NewConsole styles output for w. Colors are dropped unless w is a terminal.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	if !isTerminal(w) {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Console{
		out:     w,
		step:    r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		notice:  r.NewStyle().Faint(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		output:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (c *Console) Step(format string, args ...any) {
	c.println(c.step, fmt.Sprintf(format, args...))
}

func (c *Console) Success(format string, args ...any) {
	c.println(c.success, "✓ "+fmt.Sprintf(format, args...))
}

func (c *Console) Notice(format string, args ...any) {
	c.println(c.notice, fmt.Sprintf(format, args...))
}

func (c *Console) Warning(format string, args ...any) {
	c.println(c.warning, "Warning: "+fmt.Sprintf(format, args...))
}

// Output echoes captured subprocess output, indented.
func (c *Console) Output(text string) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + strings.TrimRight(line, "\r")
	}
	c.println(c.output, strings.Join(lines, "\n"))
}

func (c *Console) println(style lipgloss.Style, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, style.Render(text))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var _ ports.Reporter = (*Console)(nil)
