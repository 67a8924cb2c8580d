// Package format renders lossless parse trees for human and machine
// consumption.
package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/gram/tree"
)

// Encoder renders a parse tree to an output stream.
type Encoder interface {
	Encode(t *tree.Tree) error
}

// TextEncoder writes an indented dump, one node per line.
type TextEncoder struct {
	w io.Writer
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(t *tree.Tree) error {
	text, err := e.MarshalText(t)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText(t *tree.Tree) ([]byte, error) {
	var buf bytes.Buffer
	depth := 0
	for w := t.Walk(); ; {
		ev, ok := w.Next()
		if !ok {
			break
		}
		indent := strings.Repeat("  ", depth)
		switch ev.Kind {
		case tree.Enter:
			if ev.Node.Kind() == tree.KindRoot {
				fmt.Fprintf(&buf, "%sroot\n", indent)
			} else {
				fmt.Fprintf(&buf, "%s%s\n", indent, ev.Node.ProductionName())
			}
			depth++
		case tree.Leaf:
			lex := ev.Node.Lexeme()
			fmt.Fprintf(&buf, "%stoken %d [%d,%d) %q\n",
				indent, ev.Node.TokenKind(), lex.Begin, lex.End, ev.Node.Text())
		case tree.Exit:
			depth--
		}
	}
	return buf.Bytes(), nil
}
