package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tidy-go/internal/tidy"
)

// StrictPolicy confines operations to a root directory and blocks symlink
// abuse. Symlink moves are disallowed unless explicitly enabled.
type StrictPolicy struct {
	allowSymlinks bool
}

// NewStrictPolicy creates a policy. allowSymlinks permits moving symlinks and
// validating symlinked targets.
func NewStrictPolicy(allowSymlinks bool) *StrictPolicy {
	return &StrictPolicy{allowSymlinks: allowSymlinks}
}

// ValidatePath reports whether target lies within root.
//
// Root must exist and is resolved through symlinks. An existing target is
// resolved the same way; a target that does not exist yet (a destination) is
// resolved against its nearest existing ancestor and the remainder is joined
// syntactically. Any resolution failure yields false.
func (p *StrictPolicy) ValidatePath(root, target string) bool {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false
	}

	if info, err := os.Lstat(target); err == nil {
		if !p.allowSymlinks && info.Mode()&os.ModeSymlink != 0 {
			return false
		}
	}

	realTarget, err := resolvePath(target)
	if err != nil {
		return false
	}

	return isWithin(realRoot, realTarget)
}

// ValidateMove fails with a BLOCKED_OPERATION error when src is a symlink and
// symlink moves are disabled. Called immediately before every move.
func (p *StrictPolicy) ValidateMove(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !p.allowSymlinks && info.Mode()&os.ModeSymlink != 0 {
		return tidy.NewBlockedOperation(fmt.Sprintf("symlink move blocked: %s", src))
	}
	return nil
}

// resolvePath canonicalizes a path that may not exist yet: symlinks are
// resolved for the longest existing prefix, and the non-existent remainder is
// appended syntactically.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	// Walk up until an existing ancestor resolves, then rejoin the rest.
	dir := abs
	var rest []string
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no existing ancestor for %s", abs)
		}
		rest = append([]string{filepath.Base(dir)}, rest...)
		dir = parent

		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
	}
}

// isWithin reports whether target equals root or is a descendant of it.
func isWithin(root, target string) bool {
	if target == root {
		return true
	}
	return strings.HasPrefix(target, root+string(filepath.Separator))
}

// Compile-time check that StrictPolicy implements tidy.SafetyPolicy
var _ tidy.SafetyPolicy = (*StrictPolicy)(nil)
