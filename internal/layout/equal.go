package layout

import (
	"io"
	"slices"
	"strings"

	"github.com/zeebo/xxh3"
)

// Equal reports whether two nodes have the same name, annotation and,
// recursively, the same set of children. Sibling order is ignored.
func (n Node) Equal(other Node) bool {
	return n.Name == other.Name &&
		n.Annotation == other.Annotation &&
		nodeSetsEqual(n.Children, other.Children)
}

// Hash returns a hash consistent with Equal
func (n Node) Hash() uint64 {
	h := xxh3.New()
	writeCanonical(h, n)
	return h.Sum64()
}

// Equal compares the subtrees rooted at both entries, ignoring sibling order.
// Entries from different layouts may be compared.
func (e Entry) Equal(other Entry) bool {
	return e.Node().Equal(other.Node())
}

// Hash returns a hash of the entry's subtree consistent with Equal
func (e Entry) Hash() uint64 {
	return e.Node().Hash()
}

// Equal reports whether both layouts declare the same forest, ignoring the
// order of roots and siblings
func (l *BranchLayout) Equal(other *BranchLayout) bool {
	if l.Len() == 0 || other.Len() == 0 {
		return l.Len() == other.Len()
	}
	return nodeSetsEqual(l.Nodes(), other.Nodes())
}

// Hash returns a hash of the whole forest consistent with Equal
func (l *BranchLayout) Hash() uint64 {
	h := xxh3.New()
	for _, n := range sortedByName(l.Nodes()) {
		writeCanonical(h, n)
	}
	return h.Sum64()
}

func nodeSetsEqual(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := sortedByName(a), sortedByName(b)
	for i := range sa {
		if !sa[i].Equal(sb[i]) {
			return false
		}
	}
	return true
}

// sortedByName returns a copy; the input keeps its declared order
func sortedByName(nodes []Node) []Node {
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b Node) int {
		return strings.Compare(a.Name, b.Name)
	})
	return sorted
}

func writeCanonical(w io.Writer, n Node) {
	_, _ = io.WriteString(w, n.Name)
	_, _ = w.Write([]byte{0x1f})
	_, _ = io.WriteString(w, n.Annotation)
	_, _ = w.Write([]byte{'('})
	for _, child := range sortedByName(n.Children) {
		writeCanonical(w, child)
	}
	_, _ = w.Write([]byte{')'})
}
