package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"machete.dev/machete/internal/engine"
	"machete.dev/machete/internal/layout"
)

// StatusOptions configures status rendering
type StatusOptions struct {
	CurrentBranch  string
	ShowForkPoints bool
	// ListCommits draws the commits between each fork point and branch tip above the branch
	ListCommits bool
}

// StatusRenderer draws a snapshot as an indented tree with one edge marker per
// branch describing its sync status to the parent
type StatusRenderer struct {
	palette *Palette
	opts    StatusOptions
}

// NewStatusRenderer creates a status renderer
func NewStatusRenderer(palette *Palette, opts StatusOptions) *StatusRenderer {
	return &StatusRenderer{palette: palette, opts: opts}
}

// Render returns the lines of the status tree, roots separated by a blank line
func (r *StatusRenderer) Render(s *engine.RepositorySnapshot) []string {
	var lines []string
	for i, root := range s.Layout().Roots() {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = r.renderEntry(lines, s, root, "")
	}
	return lines
}

func (r *StatusRenderer) renderEntry(lines []string, s *engine.RepositorySnapshot, entry layout.Entry, prefix string) []string {
	b, _ := s.Branch(entry.Name())
	if entry.IsRoot() {
		lines = append(lines, "  "+r.label(b))
	} else {
		edge := r.edgeStyle(b)
		lines = append(lines, "  "+prefix+edge.Render("|"))
		if r.opts.ListCommits {
			for _, c := range b.Commits {
				lines = append(lines, "  "+prefix+edge.Render("|")+" "+r.palette.Hash.Render(c.Short())+" "+c.Subject)
			}
		}
		lines = append(lines, "  "+prefix+edge.Render(edgeMarker(b)+"-")+r.label(b))
		prefix += continuation(entry)
	}

	for _, child := range entry.Children() {
		lines = r.renderEntry(lines, s, child, prefix)
	}
	return lines
}

// continuation is the column drawn below an entry while later siblings are pending
func continuation(entry layout.Entry) string {
	parent, ok := entry.Parent()
	if !ok {
		return ""
	}
	siblings := parent.Children()
	if siblings[len(siblings)-1].ID() == entry.ID() {
		return "  "
	}
	return "| "
}

func edgeMarker(b engine.Branch) string {
	if !b.HasStatus() {
		return " "
	}
	switch b.Status {
	case engine.InSync:
		return "o"
	case engine.OutOfSync:
		return "x"
	case engine.InSyncButForkPointOff:
		return "?"
	case engine.MergedToParent:
		return "m"
	default:
		return "!"
	}
}

func (r *StatusRenderer) edgeStyle(b engine.Branch) lipgloss.Style {
	if !b.HasStatus() {
		return r.palette.Dim
	}
	switch b.Status {
	case engine.InSync:
		return r.palette.InSync
	case engine.OutOfSync:
		return r.palette.OutOfSync
	case engine.InSyncButForkPointOff:
		return r.palette.ForkPointOff
	case engine.MergedToParent:
		return r.palette.Merged
	default:
		return r.palette.Unrelated
	}
}

func (r *StatusRenderer) label(b engine.Branch) string {
	name := b.Name
	if b.Name == r.opts.CurrentBranch {
		name = r.palette.Current.Render(name)
	}

	parts := []string{name}
	if b.Annotation != "" {
		parts = append(parts, r.palette.Annotation.Render(b.Annotation))
	}
	if note := r.note(b); note != "" {
		parts = append(parts, r.palette.Dim.Render("("+note+")"))
	}
	return strings.Join(parts, " ")
}

func (r *StatusRenderer) note(b engine.Branch) string {
	if !b.Managed {
		return "not in repository"
	}
	var notes []string
	if n := r.parentNote(b); n != "" {
		notes = append(notes, n)
	}
	if n := remoteNote(b); n != "" {
		notes = append(notes, n)
	}
	return strings.Join(notes, ", ")
}

func (r *StatusRenderer) parentNote(b engine.Branch) string {
	if !b.HasStatus() {
		return ""
	}

	var note string
	switch b.Status {
	case engine.MergedToParent:
		note = "merged into " + b.Upstream
	case engine.InSyncButForkPointOff:
		note = "fork point off"
	case engine.Diverged:
		note = "diverged from " + b.Upstream
	case engine.NoRelation:
		note = "no common history with " + b.Upstream
	}

	if r.opts.ShowForkPoints && b.ForkPoint != nil && b.Status != engine.MergedToParent {
		fp := fmt.Sprintf("fork point %s", r.palette.Hash.Render(b.ForkPoint.Short()))
		if note == "" {
			return fp
		}
		return note + ", " + fp
	}
	return note
}

func remoteNote(b engine.Branch) string {
	switch b.RemoteStatus {
	case engine.Untracked:
		return "untracked"
	case engine.AheadOfRemote:
		return "ahead of " + b.Remote.Remote
	case engine.BehindRemote:
		return "behind " + b.Remote.Remote
	case engine.DivergedFromAndNewerThanRemote:
		return "diverged from " + b.Remote.Remote
	case engine.DivergedFromAndOlderThanRemote:
		return "diverged from & older than " + b.Remote.Remote
	default:
		return ""
	}
}
