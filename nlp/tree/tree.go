package tree

// Package tree holds constituency trees as an arena of nodes addressed by
// stable integer ids. Removing a node unlinks its id from the parent's child
// list; the node itself stays in the arena, detached.

import (
	"errors"
	"fmt"
	"strings"
)

const NONE = -1

var ErrPrune = errors.New("prune failed")

const (
	EDITED_LABEL = "EDITED"
	FILLER_LABEL = "UH"
	PRN_LABEL    = "PRN"
	TRACE_LABEL  = "-NONE-"
)

// Word holds the terminal attributes of a node
type Word struct {
	Text    string
	WordID  string
	Start   string
	End     string
	Punct   bool
	Trace   bool
	Partial bool
}

type Node struct {
	ID       int
	Label    string
	Parent   int
	Children []int

	IsWord bool
	Word
}

// Tree is a single sentence
type Tree struct {
	Nodes []Node
	Root  int

	GlobalID string
	Speaker  string
	TurnID   string
}

func New(label string) *Tree {
	t := &Tree{Nodes: make([]Node, 0, 32)}
	t.Root = t.add(NONE, label)
	return t
}

func (t *Tree) add(parent int, label string) int {
	id := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{ID: id, Label: label, Parent: parent})
	if parent != NONE {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, id)
	}
	return id
}

// AddNode appends a non-terminal under parent and returns its id
func (t *Tree) AddNode(parent int, label string) int {
	return t.add(parent, label)
}

// AddWord appends a terminal under parent and returns its id
func (t *Tree) AddWord(parent int, label string, w Word) int {
	id := t.add(parent, label)
	t.Nodes[id].IsWord = true
	t.Nodes[id].Word = w
	return id
}

func (t *Tree) Node(id int) *Node {
	return &t.Nodes[id]
}

// Attached reports whether id is still reachable from the root
func (t *Tree) Attached(id int) bool {
	for cur := id; cur != NONE; cur = t.Nodes[cur].Parent {
		if cur == t.Root {
			return true
		}
	}
	return false
}

// HasGrandparent is false for root-level tokens
func (t *Tree) HasGrandparent(id int) bool {
	parent := t.Nodes[id].Parent
	return parent != NONE && t.Nodes[parent].Parent != NONE
}

// IsEdited reports whether id sits under an EDITED node
func (t *Tree) IsEdited(id int) bool {
	for cur := t.Nodes[id].Parent; cur != NONE; cur = t.Nodes[cur].Parent {
		if t.Nodes[cur].Label == EDITED_LABEL {
			return true
		}
	}
	return false
}

// DepthList returns attached node ids in pre-order, starting with the root
func (t *Tree) DepthList() []int {
	return t.preorder(t.Root, make([]int, 0, len(t.Nodes)))
}

func (t *Tree) preorder(id int, acc []int) []int {
	acc = append(acc, id)
	for _, child := range t.Nodes[id].Children {
		acc = t.preorder(child, acc)
	}
	return acc
}

// ListWords returns the attached terminals of the whole sentence in order
func (t *Tree) ListWords() []int {
	return t.WordsUnder(t.Root)
}

// WordsUnder returns the terminals dominated by id in order
func (t *Tree) WordsUnder(id int) []int {
	words := make([]int, 0, 8)
	for _, n := range t.preorder(id, nil) {
		if t.Nodes[n].IsWord {
			words = append(words, n)
		}
	}
	return words
}

// Texts returns the surface text of the given terminals
func (t *Tree) Texts(ids []int) []string {
	texts := make([]string, len(ids))
	for i, id := range ids {
		texts[i] = t.Nodes[id].Text
	}
	return texts
}

// Prune detaches id from its parent. Ancestors left without children are
// detached as well; the sentence root itself is never removed.
func (t *Tree) Prune(id int) error {
	if id == t.Root {
		return fmt.Errorf("%w: cannot prune sentence root %s in sentence %s", ErrPrune, t.NodeString(id), t.GlobalID)
	}
	if !t.Attached(id) {
		return fmt.Errorf("%w: node %s is detached in sentence %s", ErrPrune, t.NodeString(id), t.GlobalID)
	}
	parent := t.Nodes[id].Parent
	siblings := t.Nodes[parent].Children
	pos := -1
	for i, child := range siblings {
		if child == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: node %s missing from parent %d in sentence %s", ErrPrune, t.NodeString(id), parent, t.GlobalID)
	}
	t.Nodes[parent].Children = append(siblings[:pos:pos], siblings[pos+1:]...)
	t.Nodes[id].Parent = NONE
	if len(t.Nodes[parent].Children) == 0 && parent != t.Root {
		return t.Prune(parent)
	}
	return nil
}

// NodeString renders the subtree under id, also for detached nodes
func (t *Tree) NodeString(id int) string {
	var b strings.Builder
	t.write(&b, id)
	return b.String()
}

func (t *Tree) write(b *strings.Builder, id int) {
	node := &t.Nodes[id]
	b.WriteByte('(')
	b.WriteString(node.Label)
	if node.IsWord {
		b.WriteByte(' ')
		b.WriteString(node.Text)
		b.WriteByte(')')
		return
	}
	for _, child := range node.Children {
		b.WriteByte(' ')
		t.write(b, child)
	}
	b.WriteByte(')')
}

// String is the bracketed (PTB .mrg) form of the sentence
func (t *Tree) String() string {
	return t.NodeString(t.Root)
}
