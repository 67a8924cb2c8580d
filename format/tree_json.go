package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/gram/tree"
)

// JSONEncoder writes the tree as indented JSON.
type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(t *tree.Tree) error {
	text, err := e.MarshalText(t)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText(t *tree.Tree) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(t.Root()), "", "  ")
}

type jsonNode struct {
	Kind       string      `json:"kind"`
	Production string      `json:"production,omitempty"`
	Token      int         `json:"token,omitempty"`
	Text       string      `json:"text,omitempty"`
	Span       *jsonSpan   `json:"span,omitempty"`
	Children   []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

func nodeToJSON(n tree.Node) *jsonNode {
	jn := &jsonNode{}
	switch n.Kind() {
	case tree.KindRoot:
		jn.Kind = "root"
	case tree.KindProduction:
		jn.Kind = "production"
		jn.Production = n.ProductionName()
	case tree.KindToken:
		jn.Kind = "token"
		jn.Token = n.TokenKind()
		jn.Text = n.Text()
		lex := n.Lexeme()
		jn.Span = &jsonSpan{Begin: lex.Begin, End: lex.End}
	}
	for _, child := range n.Children() {
		jn.Children = append(jn.Children, nodeToJSON(child))
	}
	return jn
}
