package terminal

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors used for local output.
type Palette struct {
	Prompt  lipgloss.Color
	Control lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
	Notice  lipgloss.Color
}

// DefaultPalette is used unless a Printer is given another one.
var DefaultPalette = Palette{
	Prompt:  lipgloss.Color("#4d9375"),
	Control: lipgloss.Color("#d9739f"),
	Error:   lipgloss.Color("#cb7676"),
	Muted:   lipgloss.Color("#bfbaaa"),
	Notice:  lipgloss.Color("#e6cc77"),
}

// Printer writes styled local messages. Color support is decided by the
// renderer, so output to a pipe or a test buffer stays plain.
type Printer struct {
	w        io.Writer
	renderer *lipgloss.Renderer

	prompt  lipgloss.Style
	control lipgloss.Style
	err     lipgloss.Style
	muted   lipgloss.Style
	notice  lipgloss.Style
}

// NewPrinter writes to w and styles with r. A nil r detects color support
// from w.
func NewPrinter(w io.Writer, r *lipgloss.Renderer) *Printer {
	if r == nil {
		r = lipgloss.NewRenderer(w)
	}
	p := DefaultPalette
	return &Printer{
		w:        w,
		renderer: r,
		prompt:   r.NewStyle().Bold(true).Foreground(p.Prompt),
		control:  r.NewStyle().Bold(true).Foreground(p.Control),
		err:      r.NewStyle().Foreground(p.Error),
		muted:    r.NewStyle().Foreground(p.Muted),
		notice:   r.NewStyle().Foreground(p.Notice),
	}
}

// Renderer returns the renderer styles are built with.
func (p *Printer) Renderer() *lipgloss.Renderer {
	return p.renderer
}

// Prompt renders the top-level prompt.
func (p *Printer) Prompt(label string) string {
	return p.prompt.Render(label) + "> "
}

// ControlPrompt renders the control-mode prompt for the named session.
func (p *Printer) ControlPrompt(label, session string) string {
	return p.control.Render(label) + p.muted.Render("("+session+")") + "> "
}

// Println writes a plain line.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Printf writes plain formatted text.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Notice writes a highlighted informational line.
func (p *Printer) Notice(format string, a ...any) {
	fmt.Fprintln(p.w, p.notice.Render(fmt.Sprintf(format, a...)))
}

// Error writes err in the error color.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.err.Render("error: "+err.Error()))
}

// Clear erases the screen.
func (p *Printer) Clear() {
	Clear(p.w)
}
