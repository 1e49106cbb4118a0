// Package errors provides sentinel errors and custom error types for machete.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrBranchNotFound indicates that a branch does not exist in the layout or repository
	ErrBranchNotFound = errors.New("branch not found")

	// ErrDuplicateName indicates that a branch name is already used in the layout
	ErrDuplicateName = errors.New("duplicate branch name")

	// ErrInvalidMove indicates a subtree move that would create a cycle
	ErrInvalidMove = errors.New("invalid move")

	// ErrInvalidName indicates a branch name that cannot be stored in a layout
	ErrInvalidName = errors.New("invalid branch name")

	// ErrInvalidAnnotation indicates an annotation that cannot be stored on a single layout line
	ErrInvalidAnnotation = errors.New("invalid annotation")

	// ErrUnknownRevision indicates a revision that does not name any commit
	ErrUnknownRevision = errors.New("unknown revision")

	// ErrRootBranch indicates an operation that needs a parent was invoked on a root branch
	ErrRootBranch = errors.New("invalid operation on root branch")

	// ErrRepositoryAccess indicates the underlying git store could not be read
	ErrRepositoryAccess = errors.New("repository access failed")

	// ErrUnresolvedForkPoint indicates no fork point could be determined for a branch
	ErrUnresolvedForkPoint = errors.New("fork point could not be resolved")

	// ErrHookRejected indicates that a hook exited with a non-zero code
	ErrHookRejected = errors.New("hook rejected")

	// ErrLayoutParse indicates a malformed layout file
	ErrLayoutParse = errors.New("malformed branch layout")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")
)

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// DuplicateNameError is returned when a layout rewrite would declare a branch twice
type DuplicateNameError struct {
	BranchName string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("branch %s is already present in the layout", e.BranchName)
}

// Is returns true if the target error is ErrDuplicateName
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// NewDuplicateNameError creates a new DuplicateNameError
func NewDuplicateNameError(branchName string) *DuplicateNameError {
	return &DuplicateNameError{BranchName: branchName}
}

// InvalidAnnotationError is returned when an annotation holds line breaks or
// other control characters
type InvalidAnnotationError struct {
	BranchName string
	Annotation string
}

func (e *InvalidAnnotationError) Error() string {
	return fmt.Sprintf("annotation %q of branch %s must be a single line of printable text", e.Annotation, e.BranchName)
}

// Is returns true if the target error is ErrInvalidAnnotation
func (e *InvalidAnnotationError) Is(target error) bool {
	return target == ErrInvalidAnnotation
}

// NewInvalidAnnotationError creates a new InvalidAnnotationError
func NewInvalidAnnotationError(branchName, annotation string) *InvalidAnnotationError {
	return &InvalidAnnotationError{BranchName: branchName, Annotation: annotation}
}

// RepositoryAccessError wraps a failure of the underlying git store.
// A snapshot build that hits one of these produces no snapshot at all.
type RepositoryAccessError struct {
	Op  string
	Ref string
	Err error
}

func (e *RepositoryAccessError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("repository access failed: %s %s: %v", e.Op, e.Ref, e.Err)
	}
	return fmt.Sprintf("repository access failed: %s: %v", e.Op, e.Err)
}

// Is returns true if the target error is ErrRepositoryAccess
func (e *RepositoryAccessError) Is(target error) bool {
	return target == ErrRepositoryAccess
}

func (e *RepositoryAccessError) Unwrap() error {
	return e.Err
}

// NewRepositoryAccessError creates a new RepositoryAccessError
func NewRepositoryAccessError(op, ref string, err error) *RepositoryAccessError {
	return &RepositoryAccessError{Op: op, Ref: ref, Err: err}
}

// UnresolvedForkPointError is returned when rebase parameters are requested for a
// branch whose fork point is unknown. Callers should fall back to a manually chosen
// fork point.
type UnresolvedForkPointError struct {
	BranchName string
	Reason     string
}

func (e *UnresolvedForkPointError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot find fork point for branch %s: %s", e.BranchName, e.Reason)
	}
	return fmt.Sprintf("cannot find fork point for branch %s", e.BranchName)
}

// Is returns true if the target error is ErrUnresolvedForkPoint
func (e *UnresolvedForkPointError) Is(target error) bool {
	return target == ErrUnresolvedForkPoint
}

// NewUnresolvedForkPointError creates a new UnresolvedForkPointError
func NewUnresolvedForkPointError(branchName, reason string) *UnresolvedForkPointError {
	return &UnresolvedForkPointError{BranchName: branchName, Reason: reason}
}

// HookRejectedError is returned when a hook exits with a non-zero code.
// The captured output is kept for display.
type HookRejectedError struct {
	Hook     string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *HookRejectedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s hook refused to proceed (exit code %d)", e.Hook, e.ExitCode)
	if strings.TrimSpace(e.Stdout) != "" {
		fmt.Fprintf(&b, "\nstdout:\n%s", e.Stdout)
	}
	if strings.TrimSpace(e.Stderr) != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", e.Stderr)
	}
	return b.String()
}

// Is returns true if the target error is ErrHookRejected
func (e *HookRejectedError) Is(target error) bool {
	return target == ErrHookRejected
}

// NewHookRejectedError creates a new HookRejectedError
func NewHookRejectedError(hook string, exitCode int, stdout, stderr string) *HookRejectedError {
	return &HookRejectedError{
		Hook:     hook,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

// LayoutParseError reports a malformed line of a layout file
type LayoutParseError struct {
	Line    int
	Message string
}

func (e *LayoutParseError) Error() string {
	return fmt.Sprintf("branch layout line %d: %s", e.Line, e.Message)
}

// Is returns true if the target error is ErrLayoutParse
func (e *LayoutParseError) Is(target error) bool {
	return target == ErrLayoutParse
}

// NewLayoutParseError creates a new LayoutParseError
func NewLayoutParseError(line int, format string, args ...any) *LayoutParseError {
	return &LayoutParseError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// RebaseConflictError represents an error when a rebase encounters a conflict
type RebaseConflictError struct {
	BranchName string
	Message    string
}

func (e *RebaseConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rebase conflict on branch %s: %s", e.BranchName, e.Message)
	}
	return fmt.Sprintf("rebase conflict on branch %s", e.BranchName)
}

// Is returns true if the target error is ErrRebaseConflict
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError
func NewRebaseConflictError(branchName string, message string) *RebaseConflictError {
	return &RebaseConflictError{
		BranchName: branchName,
		Message:    message,
	}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
