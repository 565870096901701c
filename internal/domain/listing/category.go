package listing

import "strings"

// ---------------------------------------------------------------------------
// Category Taxonomy
// ---------------------------------------------------------------------------

// CategoryNode is one node of a marketplace category tree. Trees are supplied
// whole by the taxonomy service for the duration of a single resolution and
// are not cached here.
type CategoryNode struct {
	// ID is the marketplace category identifier
	ID string
	// Name is the category display name
	Name string
	// Leaf indicates the category accepts listings directly
	Leaf bool
	// Children are the subcategories in marketplace order
	Children []*CategoryNode
}

// FindLeaf searches the subtree rooted at n for a leaf category whose name
// case-insensitively equals name. Depth-first, first match wins: duplicate
// names on different branches resolve to whichever subtree is visited first
// in the given child ordering.
func (n *CategoryNode) FindLeaf(name string) *CategoryNode {
	if n == nil {
		return nil
	}
	if n.Leaf && strings.EqualFold(n.Name, name) {
		return n
	}
	for _, child := range n.Children {
		if found := child.FindLeaf(name); found != nil {
			return found
		}
	}
	return nil
}

// CategoryRef identifies one resolved category within a category tree
type CategoryRef struct {
	// TreeID is the marketplace category tree identifier
	TreeID string
	// ID is the resolved category identifier
	ID string
	// Name is the resolved category name as the marketplace spells it
	Name string
}
