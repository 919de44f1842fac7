package tidy

// SafetyPolicy decides whether filesystem operations are allowed.
type SafetyPolicy interface {
	// ValidatePath reports whether target lies within root after resolving
	// symlinks. A target that does not exist yet is resolved syntactically
	// against its nearest existing ancestor.
	ValidatePath(root, target string) bool

	// ValidateMove returns a BLOCKED_OPERATION error when moving src is not
	// allowed (e.g. src is a symlink and symlink moves are disabled). It is
	// re-evaluated immediately before every move, never memoized, because
	// the filesystem may have changed since plan creation.
	ValidateMove(src, dest string) error
}
