package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidRecord indicates a discovery output line that does not
	// deserialize to a manifest record. Unlike a record with missing
	// fields, this is fatal for the whole read: it signals a broken
	// companion process, not a sloppy manifest.
	ErrInvalidRecord = errors.New("invalid manifest record")

	// ErrNotDirectory indicates a start path that is not a directory
	ErrNotDirectory = errors.New("not a directory")
)

// DiscoveryError represents a failure of the external discovery process for
// one plugin directory.
type DiscoveryError struct {
	Dir    string
	Stderr string
	Err    error
}

func (e *DiscoveryError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("discovery failed for %s: %v: %s", e.Dir, e.Err, e.Stderr)
	}
	return fmt.Sprintf("discovery failed for %s: %v", e.Dir, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// NewDiscoveryError creates a new DiscoveryError
func NewDiscoveryError(dir, stderr string, err error) *DiscoveryError {
	return &DiscoveryError{Dir: dir, Stderr: stderr, Err: err}
}

// TraversalError represents a filesystem failure during the directory walk.
// Traversal failures are fatal rather than skipped: a silently skipped
// directory would hide missing plugins from the build.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("traversal failed at %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// NewTraversalError creates a new TraversalError
func NewTraversalError(path string, err error) *TraversalError {
	return &TraversalError{Path: path, Err: err}
}
