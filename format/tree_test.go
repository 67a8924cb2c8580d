package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dhamidi/gram/text"
	"github.com/dhamidi/gram/tree"
)

func sampleTree() *tree.Tree {
	in := text.NewInput("test", []byte("ab,cd"))
	b := tree.NewBuilder(in)
	m := b.StartProduction("list", false)
	b.Token(1, 0, 2)
	b.Token(2, 2, 3)
	b.Token(1, 3, 5)
	b.FinishProduction(m)
	return b.Finish()
}

func TestTextEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(sampleTree()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `root
  list
    token 1 [0,2) "ab"
    token 2 [2,3) ","
    token 1 [3,5) "cd"
`
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(sampleTree()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var root jsonNode
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if root.Kind != "root" || len(root.Children) != 1 {
		t.Fatalf("root = %+v", root)
	}
	list := root.Children[0]
	if list.Kind != "production" || list.Production != "list" {
		t.Errorf("list node = %+v", list)
	}
	if len(list.Children) != 3 {
		t.Fatalf("len(tokens) = %d, want 3", len(list.Children))
	}
	first := list.Children[0]
	if first.Kind != "token" || first.Text != "ab" || first.Span == nil || first.Span.End != 2 {
		t.Errorf("first token = %+v", first)
	}
}
