package layout

import (
	"fmt"
	"iter"
	"strings"
	"unicode"

	macheteerrors "machete.dev/machete/internal/errors"
)

// EntryID identifies an entry inside a single BranchLayout.
// IDs are reassigned on every rewrite and must not be carried across layouts.
type EntryID int

const noEntry EntryID = -1

// Node describes a branch entry and its subtree as plain data.
// An empty Annotation means the entry has no annotation.
type Node struct {
	Name       string
	Annotation string
	Children   []Node
}

// NewNode is a shorthand for building nodes in code and tests
func NewNode(name string, children ...Node) Node {
	return Node{Name: name, Children: children}
}

// WithAnnotation returns a copy of the node carrying the given annotation
func (n Node) WithAnnotation(annotation string) Node {
	n.Annotation = annotation
	return n
}

type record struct {
	name       string
	annotation string
	parent     EntryID
	children   []EntryID
}

// BranchLayout is an immutable, ordered forest of branch entries.
// Every branch name appears at most once in the whole forest.
type BranchLayout struct {
	records []record
	roots   []EntryID
	index   map[string]EntryID
}

// Empty returns a layout with no entries
func Empty() *BranchLayout {
	return &BranchLayout{index: map[string]EntryID{}}
}

// New builds a layout from root nodes, deriving every parent link.
// It fails with a DuplicateNameError if a name is declared twice.
func New(roots ...Node) (*BranchLayout, error) {
	l := &BranchLayout{index: make(map[string]EntryID)}
	for _, root := range roots {
		id, err := l.add(root, noEntry)
		if err != nil {
			return nil, err
		}
		l.roots = append(l.roots, id)
	}
	return l, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(roots ...Node) *BranchLayout {
	l, err := New(roots...)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *BranchLayout) add(n Node, parent EntryID) (EntryID, error) {
	if err := ValidateName(n.Name); err != nil {
		return noEntry, err
	}
	if err := ValidateAnnotation(n.Name, n.Annotation); err != nil {
		return noEntry, err
	}
	if _, exists := l.index[n.Name]; exists {
		return noEntry, macheteerrors.NewDuplicateNameError(n.Name)
	}
	id := EntryID(len(l.records))
	l.records = append(l.records, record{
		name:       n.Name,
		annotation: strings.TrimSpace(n.Annotation),
		parent:     parent,
	})
	l.index[n.Name] = id
	for _, child := range n.Children {
		childID, err := l.add(child, id)
		if err != nil {
			return noEntry, err
		}
		l.records[id].children = append(l.records[id].children, childID)
	}
	return id, nil
}

// ValidateName reports whether name can be stored in a layout file
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", macheteerrors.ErrInvalidName)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", macheteerrors.ErrInvalidName, name)
	}
	return nil
}

// ValidateAnnotation reports whether annotation fits on the branch's layout line.
// Tabs are allowed; line breaks and other control characters are not.
func ValidateAnnotation(name, annotation string) error {
	if strings.IndexFunc(annotation, func(r rune) bool { return r != '\t' && unicode.IsControl(r) }) >= 0 {
		return macheteerrors.NewInvalidAnnotationError(name, annotation)
	}
	return nil
}

// Len returns the number of entries in the layout
func (l *BranchLayout) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// IsEmpty returns true if the layout declares no branches
func (l *BranchLayout) IsEmpty() bool {
	return l.Len() == 0
}

// Roots returns the root entries in declared order
func (l *BranchLayout) Roots() []Entry {
	if l == nil {
		return nil
	}
	entries := make([]Entry, len(l.roots))
	for i, id := range l.roots {
		entries[i] = Entry{layout: l, id: id}
	}
	return entries
}

// Find returns the entry with the given name
func (l *BranchLayout) Find(name string) (Entry, bool) {
	if l == nil {
		return Entry{}, false
	}
	id, ok := l.index[name]
	if !ok {
		return Entry{}, false
	}
	return Entry{layout: l, id: id}, true
}

// Contains returns true if the name is declared anywhere in the layout
func (l *BranchLayout) Contains(name string) bool {
	_, ok := l.Find(name)
	return ok
}

// Get returns the entry with the given ID. It panics if the ID does not belong to the layout.
func (l *BranchLayout) Get(id EntryID) Entry {
	if id < 0 || int(id) >= len(l.records) {
		panic(fmt.Sprintf("layout: entry id %d out of range", id))
	}
	return Entry{layout: l, id: id}
}

// All iterates over every entry depth-first in declared order, yielding its depth
func (l *BranchLayout) All() iter.Seq2[Entry, int] {
	return func(yield func(Entry, int) bool) {
		if l == nil {
			return
		}
		var walk func(id EntryID, depth int) bool
		walk = func(id EntryID, depth int) bool {
			if !yield(Entry{layout: l, id: id}, depth) {
				return false
			}
			for _, child := range l.records[id].children {
				if !walk(child, depth+1) {
					return false
				}
			}
			return true
		}
		for _, root := range l.roots {
			if !walk(root, 0) {
				return
			}
		}
	}
}

// Names returns every branch name in depth-first declared order
func (l *BranchLayout) Names() []string {
	names := make([]string, 0, l.Len())
	for e := range l.All() {
		names = append(names, e.Name())
	}
	return names
}

// Nodes returns a deep copy of the forest as plain nodes
func (l *BranchLayout) Nodes() []Node {
	if l == nil {
		return nil
	}
	nodes := make([]Node, len(l.roots))
	for i, id := range l.roots {
		nodes[i] = l.node(id)
	}
	return nodes
}

func (l *BranchLayout) node(id EntryID) Node {
	r := l.records[id]
	n := Node{Name: r.name, Annotation: r.annotation}
	if len(r.children) > 0 {
		n.Children = make([]Node, len(r.children))
		for i, child := range r.children {
			n.Children[i] = l.node(child)
		}
	}
	return n
}

func (l *BranchLayout) String() string {
	return Serialize(l, DefaultIndent)
}

// Entry is a read-only handle to one branch of a layout
type Entry struct {
	layout *BranchLayout
	id     EntryID
}

// ID returns the entry's identifier within its layout
func (e Entry) ID() EntryID {
	return e.id
}

// Name returns the branch name
func (e Entry) Name() string {
	return e.layout.records[e.id].name
}

// Annotation returns the custom annotation, or an empty string if there is none
func (e Entry) Annotation() string {
	return e.layout.records[e.id].annotation
}

// HasAnnotation returns true if the entry carries a custom annotation
func (e Entry) HasAnnotation() bool {
	return e.Annotation() != ""
}

// Parent returns the entry that holds this one as a child
func (e Entry) Parent() (Entry, bool) {
	parent := e.layout.records[e.id].parent
	if parent == noEntry {
		return Entry{}, false
	}
	return Entry{layout: e.layout, id: parent}, true
}

// IsRoot returns true if the entry has no parent
func (e Entry) IsRoot() bool {
	return e.layout.records[e.id].parent == noEntry
}

// Children returns the direct children in declared order
func (e Entry) Children() []Entry {
	ids := e.layout.records[e.id].children
	children := make([]Entry, len(ids))
	for i, id := range ids {
		children[i] = Entry{layout: e.layout, id: id}
	}
	return children
}

// Depth returns the number of ancestors of the entry
func (e Entry) Depth() int {
	depth := 0
	for p, ok := e.Parent(); ok; p, ok = p.Parent() {
		depth++
	}
	return depth
}

// IsAncestorOf returns true if the entry is a strict ancestor of other
func (e Entry) IsAncestorOf(other Entry) bool {
	if e.layout != other.layout {
		return false
	}
	for p, ok := other.Parent(); ok; p, ok = p.Parent() {
		if p.id == e.id {
			return true
		}
	}
	return false
}

// Node returns a deep copy of the entry's subtree
func (e Entry) Node() Node {
	return e.layout.node(e.id)
}

func (e Entry) String() string {
	var b strings.Builder
	b.WriteString("Entry(")
	b.WriteString(e.Name())
	if e.HasAnnotation() {
		fmt.Fprintf(&b, " %q", e.Annotation())
	}
	if p, ok := e.Parent(); ok {
		fmt.Fprintf(&b, ", parent=%s", p.Name())
	}
	ids := e.layout.records[e.id].children
	if len(ids) > 0 {
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = e.layout.records[id].name
		}
		fmt.Fprintf(&b, ", children=[%s]", strings.Join(names, " "))
	}
	b.WriteString(")")
	return b.String()
}
