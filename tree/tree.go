// Package tree implements the lossless parse tree. Nodes live in a single
// growable arena and are addressed by index; no node stores a parent pointer.
// Consecutive siblings chain forward through a single tagged link, and the
// last child's link designates its parent instead of a sibling, which is what
// makes pointer-free upward navigation and stack-free traversal possible.
package tree

import "github.com/dhamidi/gram/text"

type Kind uint8

const (
	KindRoot Kind = iota
	KindProduction
	KindToken
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindProduction:
		return "Production"
	case KindToken:
		return "Token"
	}
	return "Unknown"
}

// link is a tagged arena index: the high bit distinguishes "next sibling"
// from "up to parent". The zero link means unset; the root (index 0) is
// never the target of a sibling link, so no ambiguity arises.
type link uint32

const parentTag link = 1 << 31

func siblingLink(idx uint32) link { return link(idx) }

func parentLink(idx uint32) link { return link(idx) | parentTag }

func (l link) isParent() bool { return l&parentTag != 0 }

func (l link) index() uint32 { return uint32(l &^ parentTag) }

type node struct {
	kind  Kind
	token int    // token kind, tokens only
	begin int    // tokens only
	end   int    // tokens only
	name  string // production name, productions only
	next  link
	child uint32 // first child, 0 = none
}

// Tree is a sealed parse tree. It is immutable and safe for concurrent reads.
type Tree struct {
	in    *text.Input
	arena []node
}

func (t *Tree) Input() *text.Input { return t.in }

func (t *Tree) Root() Node { return Node{t: t, idx: 0} }

// Node is a lightweight reference into the tree's arena.
type Node struct {
	t   *Tree
	idx uint32
}

func (n Node) Kind() Kind { return n.t.arena[n.idx].kind }

// ProductionName returns the production identity of a production node.
func (n Node) ProductionName() string { return n.t.arena[n.idx].name }

// TokenKind returns the kind tag of a token node.
func (n Node) TokenKind() int { return n.t.arena[n.idx].token }

// Lexeme returns the span covered by a token node.
func (n Node) Lexeme() text.Lexeme {
	nd := &n.t.arena[n.idx]
	return text.Lexeme{Begin: nd.begin, End: nd.end}
}

// Text returns the source text of a token node.
func (n Node) Text() string {
	return n.Lexeme().String(n.t.in)
}

func (n Node) FirstChild() (Node, bool) {
	child := n.t.arena[n.idx].child
	if child == 0 {
		return Node{}, false
	}
	return Node{t: n.t, idx: child}, true
}

// NextSibling follows the node's link if it designates a sibling.
func (n Node) NextSibling() (Node, bool) {
	l := n.t.arena[n.idx].next
	if l == 0 || l.isParent() {
		return Node{}, false
	}
	return Node{t: n.t, idx: l.index()}, true
}

// Parent walks the sibling chain until it reaches the parent link. This is
// O(number of following siblings), the price of not storing a parent pointer.
func (n Node) Parent() (Node, bool) {
	if n.idx == 0 {
		return Node{}, false
	}
	cur := n.idx
	for {
		l := n.t.arena[cur].next
		if l.isParent() {
			return Node{t: n.t, idx: l.index()}, true
		}
		cur = l.index()
	}
}

// Children collects the node's children. Traversal-heavy callers should use
// FirstChild/NextSibling or a Walker instead.
func (n Node) Children() []Node {
	var result []Node
	child, ok := n.FirstChild()
	for ok {
		result = append(result, child)
		child, ok = child.NextSibling()
	}
	return result
}
