package layout

import (
	"fmt"
	"slices"

	macheteerrors "machete.dev/machete/internal/errors"
)

// Insert returns a layout with node added under parent at the given position.
// An empty parent inserts a new root. A negative or out of range index appends.
func (l *BranchLayout) Insert(parent string, index int, node Node) (*BranchLayout, error) {
	if parent != "" && !l.Contains(parent) {
		return nil, macheteerrors.NewBranchNotFoundError(parent)
	}
	nodes, _ := rewriteSiblings(l.Nodes(), parent, func(siblings []Node) []Node {
		return insertAt(siblings, index, node)
	})
	return New(nodes...)
}

// Remove returns a layout without the named entry and its descendants, along with
// the detached subtree. The subtree holds no reference into either layout.
func (l *BranchLayout) Remove(name string) (*BranchLayout, Node, error) {
	entry, ok := l.Find(name)
	if !ok {
		return nil, Node{}, macheteerrors.NewBranchNotFoundError(name)
	}
	detached := entry.Node()
	nodes, _ := rewriteSiblings(l.Nodes(), parentName(entry), func(siblings []Node) []Node {
		return slices.DeleteFunc(siblings, func(n Node) bool { return n.Name == name })
	})
	updated, err := New(nodes...)
	if err != nil {
		return nil, Node{}, err
	}
	return updated, detached, nil
}

// Move returns a layout where the named subtree hangs under newParent at the given
// position. An empty newParent makes it a root. Moving an entry below itself fails
// with ErrInvalidMove.
func (l *BranchLayout) Move(name, newParent string, index int) (*BranchLayout, error) {
	entry, ok := l.Find(name)
	if !ok {
		return nil, macheteerrors.NewBranchNotFoundError(name)
	}
	if newParent != "" {
		target, ok := l.Find(newParent)
		if !ok {
			return nil, macheteerrors.NewBranchNotFoundError(newParent)
		}
		if target.id == entry.id || entry.IsAncestorOf(target) {
			return nil, fmt.Errorf("%w: %s cannot be moved under its own subtree (%s)",
				macheteerrors.ErrInvalidMove, name, newParent)
		}
	}
	without, subtree, err := l.Remove(name)
	if err != nil {
		return nil, err
	}
	return without.Insert(newParent, index, subtree)
}

// Rename returns a layout where oldName is called newName. It fails with a
// DuplicateNameError if newName is already declared.
func (l *BranchLayout) Rename(oldName, newName string) (*BranchLayout, error) {
	entry, ok := l.Find(oldName)
	if !ok {
		return nil, macheteerrors.NewBranchNotFoundError(oldName)
	}
	if oldName == newName {
		return l, nil
	}
	if err := ValidateName(newName); err != nil {
		return nil, err
	}
	if l.Contains(newName) {
		return nil, macheteerrors.NewDuplicateNameError(newName)
	}
	nodes, _ := rewriteSiblings(l.Nodes(), parentName(entry), func(siblings []Node) []Node {
		for i := range siblings {
			if siblings[i].Name == oldName {
				siblings[i].Name = newName
			}
		}
		return siblings
	})
	return New(nodes...)
}

// SlideOut returns a layout without the named entry, its children taking its place
// under its parent in the same order.
func (l *BranchLayout) SlideOut(name string) (*BranchLayout, error) {
	entry, ok := l.Find(name)
	if !ok {
		return nil, macheteerrors.NewBranchNotFoundError(name)
	}
	children := entry.Node().Children
	nodes, _ := rewriteSiblings(l.Nodes(), parentName(entry), func(siblings []Node) []Node {
		i := slices.IndexFunc(siblings, func(n Node) bool { return n.Name == name })
		return slices.Replace(siblings, i, i+1, children...)
	})
	return New(nodes...)
}

// Annotate returns a layout where the named entry carries the given annotation.
// An empty annotation clears it.
func (l *BranchLayout) Annotate(name, annotation string) (*BranchLayout, error) {
	entry, ok := l.Find(name)
	if !ok {
		return nil, macheteerrors.NewBranchNotFoundError(name)
	}
	nodes, _ := rewriteSiblings(l.Nodes(), parentName(entry), func(siblings []Node) []Node {
		for i := range siblings {
			if siblings[i].Name == name {
				siblings[i].Annotation = annotation
			}
		}
		return siblings
	})
	return New(nodes...)
}

// WithChildren returns a layout where the named entry keeps its name and annotation
// but holds the given children. Parent links of the new children point at it.
func (l *BranchLayout) WithChildren(name string, children []Node) (*BranchLayout, error) {
	if !l.Contains(name) {
		return nil, macheteerrors.NewBranchNotFoundError(name)
	}
	nodes, _ := rewriteSiblings(l.Nodes(), name, func([]Node) []Node {
		return slices.Clone(children)
	})
	return New(nodes...)
}

func parentName(e Entry) string {
	if p, ok := e.Parent(); ok {
		return p.Name()
	}
	return ""
}

// rewriteSiblings applies fn to the children of parent, or to the roots when parent
// is empty. It reports whether parent was found.
func rewriteSiblings(nodes []Node, parent string, fn func([]Node) []Node) ([]Node, bool) {
	if parent == "" {
		return fn(nodes), true
	}
	for i := range nodes {
		if nodes[i].Name == parent {
			nodes[i].Children = fn(nodes[i].Children)
			return nodes, true
		}
		if children, found := rewriteSiblings(nodes[i].Children, parent, fn); found {
			nodes[i].Children = children
			return nodes, true
		}
	}
	return nodes, false
}

func insertAt(nodes []Node, index int, node Node) []Node {
	if index < 0 || index > len(nodes) {
		index = len(nodes)
	}
	return slices.Insert(nodes, index, node)
}
