// Package diag renders parse errors for terminal output: position, message
// and a source excerpt with the error span underlined.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dhamidi/gram/rule"
)

// Renderer writes diagnostics to a stream. The zero configuration renders
// with color when the stream supports it; see WithColor.
type Renderer struct {
	w io.Writer

	position *color.Color
	message  *color.Color
	caret    *color.Color
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithColor forces colored or plain output regardless of what the stream
// supports.
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		for _, c := range []*color.Color{r.position, r.message, r.caret} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		w:        w,
		position: color.New(color.Bold),
		message:  color.New(color.FgRed, color.Bold),
		caret:    color.New(color.FgRed),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes one diagnostic: a header line and, when the error carries an
// input, the source line with the error span marked.
func (r *Renderer) Render(err *rule.Error) error {
	if err.Context.Input == nil {
		_, werr := fmt.Fprintf(r.w, "%s: %s\n", err.Tag(), r.message.Sprint(err.Message()))
		return werr
	}

	pos := err.Position()
	header := fmt.Sprintf("%s: %s", r.position.Sprint(pos), r.message.Sprint(err.Message()))
	if err.Context.Production != "" {
		header += " (while parsing " + err.Context.Production + ")"
	}
	if _, werr := fmt.Fprintln(r.w, header); werr != nil {
		return werr
	}

	line := err.Context.Input.Line(err.Begin)
	if _, werr := fmt.Fprintf(r.w, "  %s\n", line); werr != nil {
		return werr
	}
	_, werr := fmt.Fprintf(r.w, "  %s%s\n",
		strings.Repeat(" ", pos.Column-1),
		r.caret.Sprint(strings.Repeat("^", r.caretWidth(err, line, pos.Column))))
	return werr
}

// caretWidth clips the marked span to the rendered line.
func (r *Renderer) caretWidth(err *rule.Error, line string, column int) int {
	width := 1
	if err.IsRange() {
		width = err.End - err.Begin
	}
	if rest := len(line) - (column - 1); width > rest && rest > 0 {
		width = rest
	}
	if width < 1 {
		width = 1
	}
	return width
}

// RenderAll renders each error in order and reports how many were written.
func (r *Renderer) RenderAll(errs []*rule.Error) (int, error) {
	for i, err := range errs {
		if werr := r.Render(err); werr != nil {
			return i, werr
		}
	}
	return len(errs), nil
}
