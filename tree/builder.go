package tree

import "github.com/dhamidi/gram/text"

// Builder records rule-engine events into a tree. One builder serves one
// parse; it is not safe for concurrent use.
type Builder struct {
	in    *text.Input
	arena []node
	cur   uint32 // active node
	last  uint32 // last child of the active node, 0 = none
}

func NewBuilder(in *text.Input) *Builder {
	return &Builder{
		in:    in,
		arena: []node{{kind: KindRoot}},
	}
}

// Marker is the resumption handle returned by StartProduction. It is valid
// only until the matching FinishProduction or BacktrackProduction call.
type Marker struct {
	prod        uint32
	parent      uint32
	prevLast    uint32
	top         int
	transparent bool
}

func (b *Builder) push(n node) uint32 {
	idx := uint32(len(b.arena))
	b.arena = append(b.arena, n)
	return idx
}

// appendChild links idx as the active node's last child.
func (b *Builder) appendChild(idx uint32) {
	if b.last == 0 {
		b.arena[b.cur].child = idx
	} else {
		b.arena[b.last].next = siblingLink(idx)
	}
	b.last = idx
}

// StartProduction appends a production node as the active node's last child
// and activates it.
func (b *Builder) StartProduction(name string, transparent bool) Marker {
	m := Marker{
		parent:      b.cur,
		prevLast:    b.last,
		top:         len(b.arena),
		transparent: transparent,
	}
	idx := b.push(node{kind: KindProduction, name: name})
	b.appendChild(idx)
	m.prod = idx
	b.cur = idx
	b.last = 0
	return m
}

// Token appends a leaf under the active node. If the immediately preceding
// sibling is a token of the identical kind, the new span is merged into it
// instead of creating a node.
func (b *Builder) Token(kind int, begin, end int) {
	if b.last != 0 {
		if prev := &b.arena[b.last]; prev.kind == KindToken && prev.token == kind {
			prev.end = end
			return
		}
	}
	idx := b.push(node{kind: KindToken, token: kind, begin: begin, end: end})
	b.appendChild(idx)
}

// FinishProduction deactivates the current production and reactivates its
// parent. A transparent production is elided: its children are relinked
// directly onto the grandparent by index surgery alone, no subtree is copied.
func (b *Builder) FinishProduction(m Marker) {
	if m.transparent {
		if b.last == 0 {
			// No children: the node leaves no trace.
			b.BacktrackProduction(m)
			return
		}
		first := b.arena[m.prod].child
		if m.prevLast != 0 {
			prev := &b.arena[m.prevLast]
			lead := &b.arena[first]
			if prev.kind == KindToken && lead.kind == KindToken && prev.token == lead.token {
				// The leading child continues the preceding token run;
				// merge it so elision stays indistinguishable from not
				// wrapping at all.
				prev.end = lead.end
				if first == b.last {
					// The run was the only child; nothing else survives.
					b.arena = b.arena[:m.top]
					b.cur = m.parent
					b.last = m.prevLast
					return
				}
				b.arena[m.prevLast].next = b.arena[first].next
				b.cur = m.parent
				return
			}
		}
		if m.prevLast == 0 {
			b.arena[m.parent].child = first
		} else {
			b.arena[m.prevLast].next = siblingLink(first)
		}
		// The elided node's slot becomes unreferenced; its former last
		// child is now the parent's last child and its link is completed
		// when the parent continues or finishes.
		b.cur = m.parent
		return
	}

	if b.last != 0 {
		b.arena[b.last].next = parentLink(m.prod)
	}
	b.cur = m.parent
	b.last = m.prod
}

// BacktrackProduction discards the active production and its entire subtree,
// reclaiming arena space by truncation, and reactivates the parent. The tree
// is restored exactly to its state before the matching StartProduction.
func (b *Builder) BacktrackProduction(m Marker) {
	b.arena = b.arena[:m.top]
	if m.prevLast == 0 {
		b.arena[m.parent].child = 0
	} else {
		b.arena[m.prevLast].next = 0
	}
	b.cur = m.parent
	b.last = m.prevLast
}

// Finish seals the tree. All productions must have been finished.
func (b *Builder) Finish() *Tree {
	if b.cur != 0 {
		panic("tree: Finish with an unfinished production")
	}
	if b.last != 0 {
		b.arena[b.last].next = parentLink(0)
	}
	t := &Tree{in: b.in, arena: b.arena}
	b.arena = nil
	return t
}

// Len reports the number of arena slots in use, including unreferenced slots
// left behind by transparent elision.
func (b *Builder) Len() int { return len(b.arena) }
