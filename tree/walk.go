package tree

// EventKind classifies traversal events. Productions produce an Enter/Exit
// pair; token nodes produce a single Leaf event.
type EventKind uint8

const (
	Enter EventKind = iota
	Leaf
	Exit
)

func (k EventKind) String() string {
	switch k {
	case Enter:
		return "Enter"
	case Leaf:
		return "Leaf"
	case Exit:
		return "Exit"
	}
	return "Unknown"
}

type Event struct {
	Kind EventKind
	Node Node
}

// Walker is a non-recursive depth-first iterator. It needs no auxiliary
// stack: the tree's own sibling/parent links are the call stack. Exhausting
// a node's sibling chain lands on the parent link, which produces the Exit
// event and continues from the parent's own link.
type Walker struct {
	t        *Tree
	cur      uint32
	entering bool
	done     bool
}

func (t *Tree) Walk() *Walker {
	return &Walker{t: t, cur: 0, entering: true}
}

func (w *Walker) Next() (Event, bool) {
	if w.done {
		return Event{}, false
	}

	n := &w.t.arena[w.cur]
	ev := Event{Node: Node{t: w.t, idx: w.cur}}

	if w.entering {
		if n.kind == KindToken {
			ev.Kind = Leaf
			w.follow(n.next)
			return ev, true
		}
		ev.Kind = Enter
		if n.child != 0 {
			w.cur = n.child
			w.entering = true
		} else {
			w.entering = false
		}
		return ev, true
	}

	ev.Kind = Exit
	if w.cur == 0 {
		w.done = true
		return ev, true
	}
	w.follow(n.next)
	return ev, true
}

func (w *Walker) follow(l link) {
	w.cur = l.index()
	w.entering = !l.isParent()
}
