package domain

import "context"

// Discoverer runs manifest extraction for one plugin directory and returns
// its raw output: zero or more newline-delimited JSON records, one per line.
// Implementations are expected to be synchronous and deterministic; the
// production implementation shells out to the companion extraction command,
// tests substitute a stub.
type Discoverer interface {
	// Discover returns the raw record output for dir
	Discover(ctx context.Context, dir string) ([]byte, error)
}

// DiscovererFunc adapts a function to the Discoverer interface
type DiscovererFunc func(ctx context.Context, dir string) ([]byte, error)

// Discover calls f(ctx, dir)
func (f DiscovererFunc) Discover(ctx context.Context, dir string) ([]byte, error) {
	return f(ctx, dir)
}
