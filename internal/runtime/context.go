// Package runtime provides a context type that holds the repository, settings and
// output for use throughout a command. This avoids passing multiple parameters.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"machete.dev/machete/internal/config"
	"machete.dev/machete/internal/engine"
	macheteerrors "machete.dev/machete/internal/errors"
	"machete.dev/machete/internal/git"
	"machete.dev/machete/internal/hooks"
	"machete.dev/machete/internal/layout"
	"machete.dev/machete/internal/output"
)

// Options configure how a context is created
type Options struct {
	// Dir is any directory inside the repository; defaults to the working directory
	Dir   string
	Out   io.Writer
	Debug bool
	// Color overrides the configured color mode when set
	Color string
}

// Context provides access to the repository and output for commands
type Context struct {
	context.Context
	Repo     *git.Repository
	Settings config.Settings
	Splog    *output.Splog
	Palette  *output.Palette
	Hooks    *hooks.Runner
}

// GetContext opens the repository around opts.Dir and resolves its settings
func GetContext(ctx context.Context, opts Options) (*Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	// LoadGlobal falls back to defaults on error, reported once the log is up
	global, globalErr := config.LoadGlobal()

	repo, err := git.OpenRepository(ctx, dir)
	if err != nil {
		return nil, err
	}
	settings, err := config.Resolve(repo.GitDir(), global)
	if err != nil {
		return nil, err
	}
	if opts.Color != "" {
		settings.Color = opts.Color
	}

	splog, logErr := output.NewSplogWithConfig(opts.Out, opts.Debug, output.LogFileConfig{
		Path:       settings.Log.File,
		MaxSize:    settings.Log.MaxSize,
		MaxBackups: settings.Log.MaxBackups,
		MaxAge:     settings.Log.MaxAge,
	})
	if logErr != nil {
		splog = output.NewSplog(opts.Out, opts.Debug)
		splog.Warn("file logging disabled: %v", logErr)
	}
	if globalErr != nil {
		splog.Warn("ignoring global config: %v", globalErr)
	}

	return &Context{
		Context:  ctx,
		Repo:     repo,
		Settings: settings,
		Splog:    splog,
		Palette:  output.NewPalette(opts.Out, output.ColorProfile(settings.Color, opts.Out)),
		Hooks:    hooks.NewRunner(repo.Runner()),
	}, nil
}

// LoadLayout reads the branch layout. A missing file yields an empty layout.
func (c *Context) LoadLayout() (*layout.BranchLayout, error) {
	return layout.Load(c.Settings.LayoutPath)
}

// SaveLayout writes the branch layout with the configured indent
func (c *Context) SaveLayout(l *layout.BranchLayout) error {
	return layout.Save(c.Settings.LayoutPath, l, c.Settings.Indent)
}

// Snapshot builds a repository snapshot for the layout
func (c *Context) Snapshot(l *layout.BranchLayout) (*engine.RepositorySnapshot, error) {
	return engine.BuildSnapshot(c, l, c.Repo,
		engine.WithSquashMergeDetection(c.Settings.SquashMergeDetection),
		engine.WithLogger(c.Splog))
}

// LoadSnapshot reads the layout and builds a snapshot for it
func (c *Context) LoadSnapshot() (*engine.RepositorySnapshot, error) {
	l, err := c.LoadLayout()
	if err != nil {
		return nil, err
	}
	return c.Snapshot(l)
}

// CurrentBranch returns the checked out branch, or "" on a detached HEAD
func (c *Context) CurrentBranch() (string, error) {
	branch, err := c.Repo.CurrentBranch()
	if errors.Is(err, macheteerrors.ErrNotOnBranch) {
		return "", nil
	}
	return branch, err
}

// Close releases the log file
func (c *Context) Close() error {
	return c.Splog.Close()
}
