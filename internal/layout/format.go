package layout

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	macheteerrors "machete.dev/machete/internal/errors"
)

// DefaultIndent is used when serializing a layout without an explicit indent
const DefaultIndent = "  "

type parseNode struct {
	node     Node
	children []*parseNode
}

func (p *parseNode) build() Node {
	n := p.node
	for _, child := range p.children {
		n.Children = append(n.Children, child.build())
	}
	return n
}

// Parse reads a layout in the indented text format: one branch per line, an
// optional annotation after the first whitespace, nesting expressed by indentation.
// The indentation unit is taken from the first indented line.
func Parse(r io.Reader) (*BranchLayout, error) {
	var (
		roots  []*parseNode
		stack  []*parseNode
		unit   string
		seen   = map[string]int{}
		lineNo int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		content := strings.TrimLeft(line, " \t")
		prefix := line[:len(line)-len(content)]

		depth := 0
		if prefix != "" {
			if strings.Contains(prefix, " ") && strings.Contains(prefix, "\t") {
				return nil, macheteerrors.NewLayoutParseError(lineNo, "mixed tabs and spaces in indentation")
			}
			if unit == "" {
				unit = prefix
			}
			depth = len(prefix) / len(unit)
			if strings.Repeat(unit, depth) != prefix {
				return nil, macheteerrors.NewLayoutParseError(lineNo,
					"indentation is not a multiple of the first indented line (%q)", unit)
			}
		}
		if depth > len(stack) {
			return nil, macheteerrors.NewLayoutParseError(lineNo,
				"too much indentation, expected at most %d level(s)", len(stack))
		}

		name, annotation, _ := strings.Cut(content, " ")
		if strings.ContainsRune(name, '\t') {
			name, annotation, _ = strings.Cut(content, "\t")
		}
		if first, ok := seen[name]; ok {
			return nil, fmt.Errorf("line %d (first declared on line %d): %w",
				lineNo, first, macheteerrors.NewDuplicateNameError(name))
		}
		seen[name] = lineNo

		pn := &parseNode{node: Node{Name: name, Annotation: strings.TrimSpace(annotation)}}
		stack = stack[:depth]
		if depth == 0 {
			roots = append(roots, pn)
		} else {
			parent := stack[depth-1]
			parent.children = append(parent.children, pn)
		}
		stack = append(stack, pn)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read branch layout: %w", err)
	}

	nodes := make([]Node, len(roots))
	for i, root := range roots {
		nodes[i] = root.build()
	}
	return New(nodes...)
}

// ParseString parses a layout held in a string
func ParseString(s string) (*BranchLayout, error) {
	return Parse(strings.NewReader(s))
}

// Serialize renders the layout in the text format read by Parse
func Serialize(l *BranchLayout, indent string) string {
	var b strings.Builder
	_ = Write(&b, l, indent)
	return b.String()
}

// Write renders the layout to w, one entry per line
func Write(w io.Writer, l *BranchLayout, indent string) error {
	if indent == "" {
		indent = DefaultIndent
	}
	for e, depth := range l.All() {
		line := strings.Repeat(indent, depth) + e.Name()
		if e.HasAnnotation() {
			line += " " + e.Annotation()
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
