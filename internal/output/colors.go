package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Color modes accepted by --color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// IsTTY returns true if f is a terminal
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorProfile picks the color profile for writing to w in the given mode.
// "auto" colors only terminals and honors NO_COLOR.
func ColorProfile(mode string, w io.Writer) termenv.Profile {
	switch mode {
	case ColorAlways:
		return termenv.ANSI256
	case ColorNever:
		return termenv.Ascii
	}
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	f, ok := w.(*os.File)
	if !ok || !IsTTY(f) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}

// Palette holds the styles used by machete's output
type Palette struct {
	InSync       lipgloss.Style
	OutOfSync    lipgloss.Style
	ForkPointOff lipgloss.Style
	Merged       lipgloss.Style
	Unrelated    lipgloss.Style
	Dim          lipgloss.Style
	Current      lipgloss.Style
	Annotation   lipgloss.Style
	Hash         lipgloss.Style
}

// NewPalette creates styles rendering for w with the given profile
func NewPalette(w io.Writer, profile termenv.Profile) *Palette {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Palette{
		InSync:       r.NewStyle().Foreground(lipgloss.Color("2")),
		OutOfSync:    r.NewStyle().Foreground(lipgloss.Color("1")),
		ForkPointOff: r.NewStyle().Foreground(lipgloss.Color("3")),
		Merged:       r.NewStyle().Foreground(lipgloss.Color("8")),
		Unrelated:    r.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
		Dim:          r.NewStyle().Foreground(lipgloss.Color("8")),
		Current:      r.NewStyle().Bold(true).Underline(true),
		Annotation:   r.NewStyle().Foreground(lipgloss.Color("6")),
		Hash:         r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// PlainPalette renders without any escape codes
func PlainPalette(w io.Writer) *Palette {
	return NewPalette(w, termenv.Ascii)
}
