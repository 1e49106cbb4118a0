package layout_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	macheteerrors "machete.dev/machete/internal/errors"
	"machete.dev/machete/internal/layout"
)

func TestParse(t *testing.T) {
	t.Run("parses nesting and annotations", func(t *testing.T) {
		l, err := layout.ParseString("main\n  develop\n    feature PR #1 (rebase=no)\n\n  hotfix\nother\n")
		require.NoError(t, err)

		expected := layout.MustNew(
			layout.NewNode("main",
				layout.NewNode("develop", layout.NewNode("feature").WithAnnotation("PR #1 (rebase=no)")),
				layout.NewNode("hotfix"),
			),
			layout.NewNode("other"),
		)
		require.True(t, l.Equal(expected))
	})

	t.Run("accepts tab indentation", func(t *testing.T) {
		l, err := layout.ParseString("main\n\tfeature\n\t\tdeep\n")
		require.NoError(t, err)
		deep, ok := l.Find("deep")
		require.True(t, ok)
		require.Equal(t, 2, deep.Depth())
	})

	t.Run("dedents several levels at once", func(t *testing.T) {
		l, err := layout.ParseString("main\n  a\n    b\n      c\n  d\n")
		require.NoError(t, err)
		d, _ := l.Find("d")
		p, _ := d.Parent()
		require.Equal(t, "main", p.Name())
	})

	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "too deep", input: "main\n  a\n      b\n", line: 3},
		{name: "first line indented deeper than allowed", input: "  main\n", line: 1},
		{name: "not a multiple of the unit", input: "main\n  a\n   b\n", line: 3},
		{name: "mixed tabs and spaces", input: "main\n \tfeature\n", line: 2},
		{name: "unit mismatch", input: "main\n\ta\n  b\n", line: 3},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := layout.ParseString(tt.input)
			require.ErrorIs(t, err, macheteerrors.ErrLayoutParse)

			var parseErr *macheteerrors.LayoutParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, tt.line, parseErr.Line)
		})
	}

	t.Run("rejects duplicate branch", func(t *testing.T) {
		_, err := layout.ParseString("main\n  feature\nfeature\n")
		require.ErrorIs(t, err, macheteerrors.ErrDuplicateName)
		require.Contains(t, err.Error(), "line 3")
	})
}

func TestSerializeRoundTrip(t *testing.T) {
	layouts := []*layout.BranchLayout{
		layout.Empty(),
		layout.MustNew(layout.NewNode("main")),
		sampleLayout(t),
		layout.MustNew(
			layout.NewNode("a", layout.NewNode("b", layout.NewNode("c", layout.NewNode("d").WithAnnotation("x  y")))),
			layout.NewNode("e").WithAnnotation("only root annotation"),
		),
		layout.MustNew(layout.NewNode("main", layout.NewNode("feature").WithAnnotation("PR #1\tdraft \u2028 review"))),
	}

	for _, indent := range []string{"", "  ", "    ", "\t"} {
		for _, l := range layouts {
			text := layout.Serialize(l, indent)
			parsed, err := layout.ParseString(text)
			require.NoError(t, err, text)
			require.True(t, parsed.Equal(l), text)
			require.Equal(t, l.Names(), parsed.Names())
		}
	}
}

func TestAnnotationsStayOnOneLine(t *testing.T) {
	for _, annotation := range []string{"PR #1\nsecond line", "a\n  other", "carriage\rreturn", "bell\a"} {
		t.Run(fmt.Sprintf("%q", annotation), func(t *testing.T) {
			_, err := layout.New(layout.NewNode("main", layout.NewNode("feature").WithAnnotation(annotation)))
			require.ErrorIs(t, err, macheteerrors.ErrInvalidAnnotation)

			original := sampleLayout(t)
			_, err = original.Annotate("feature-a", annotation)
			var annotationErr *macheteerrors.InvalidAnnotationError
			require.ErrorAs(t, err, &annotationErr)
			require.Equal(t, "feature-a", annotationErr.BranchName)

			text := layout.Serialize(original, layout.DefaultIndent)
			parsed, err := layout.ParseString(text)
			require.NoError(t, err)
			require.True(t, parsed.Equal(original))
			require.Equal(t, original.Names(), parsed.Names())
		})
	}
}

func TestSerialize(t *testing.T) {
	require.Equal(t,
		"main\n  feature-a\n    feature-a2\n  feature-b PR #12\nhotfix\n",
		layout.Serialize(sampleLayout(t), layout.DefaultIndent))
}

func TestLoadSave(t *testing.T) {
	t.Run("missing file yields empty layout", func(t *testing.T) {
		l, err := layout.Load(filepath.Join(t.TempDir(), "machete"))
		require.NoError(t, err)
		require.True(t, l.IsEmpty())
	})

	t.Run("save then load", func(t *testing.T) {
		path := layout.DefaultPath(t.TempDir())
		require.NoError(t, layout.Save(path, sampleLayout(t), "\t"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "\tfeature-a\n")

		loaded, err := layout.Load(path)
		require.NoError(t, err)
		require.True(t, loaded.Equal(sampleLayout(t)))
	})

	t.Run("reports the file on parse errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "machete")
		require.NoError(t, os.WriteFile(path, []byte("  main\n"), 0600))
		_, err := layout.Load(path)
		require.ErrorIs(t, err, macheteerrors.ErrLayoutParse)
		require.Contains(t, err.Error(), path)
	})
}
