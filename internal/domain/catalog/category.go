package catalog

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound = errors.New("catalog: category not found")
	ErrTreeNotFound     = errors.New("catalog: category tree not found")
)

// Category is the read model of one PIM category.
type Category struct {
	ID   uuid.UUID
	Code string
	Name TranslatedString
}

// Tree is a named hierarchy of categories selected per channel. The same
// category may appear in several trees and maps to a distinct remote node in
// each.
type Tree struct {
	ID    uuid.UUID
	Code  string
	Name  TranslatedString
	Roots []Node
}

// Node is one tree position referencing a category by id.
type Node struct {
	CategoryID uuid.UUID
	Children   []Node
}

// Flatten walks the tree iteratively and returns every (category, parent)
// pair in an order that guarantees parents precede their children. Roots are
// returned with a nil parent.
func (t *Tree) Flatten() []NodeRef {
	type item struct {
		node   Node
		parent *uuid.UUID
	}
	queue := make([]item, 0, len(t.Roots))
	for _, root := range t.Roots {
		queue = append(queue, item{node: root})
	}
	var out []NodeRef
	for len(queue) > 0 {
		head := queue[0]
		queue = queue[1:]
		out = append(out, NodeRef{CategoryID: head.node.CategoryID, ParentID: head.parent})
		parent := head.node.CategoryID
		for _, child := range head.node.Children {
			queue = append(queue, item{node: child, parent: &parent})
		}
	}
	return out
}

// CategoryIDs returns the ids of every category in the tree.
func (t *Tree) CategoryIDs() []uuid.UUID {
	refs := t.Flatten()
	out := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.CategoryID)
	}
	return out
}

// NodeRef is one flattened tree entry.
type NodeRef struct {
	CategoryID uuid.UUID
	ParentID   *uuid.UUID
}
