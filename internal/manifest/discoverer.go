package manifest

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/learningequality/bundlescan/internal/domain"
	"github.com/learningequality/bundlescan/internal/utils"
)

// CommandDiscoverer runs the companion manifest-extraction command for one
// plugin directory and captures its stdout. The command receives the plugin
// directory as its final argument and is expected to print one JSON record
// per line. The invocation is synchronous and never retried: it is a local,
// deterministic process, so a retry would not change the outcome.
type CommandDiscoverer struct {
	command string
	args    []string
	timeout time.Duration
	logger  *utils.Logger
}

// CommandDiscovererOptions contains options for the command discoverer
type CommandDiscovererOptions struct {
	// Command is the executable to invoke, e.g. "python"
	Command string
	// Args are the fixed arguments placed before the plugin directory
	Args []string
	// Timeout bounds a single invocation; zero means no timeout
	Timeout time.Duration
	Logger  *utils.Logger
}

// NewCommandDiscoverer creates a discoverer that shells out to the given
// extraction command
func NewCommandDiscoverer(opts CommandDiscovererOptions) *CommandDiscoverer {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &CommandDiscoverer{
		command: opts.Command,
		args:    opts.Args,
		timeout: opts.Timeout,
		logger:  logger.WithComponent("discoverer"),
	}
}

// Discover runs the extraction command scoped to dir and returns its raw
// stdout. Any process failure is returned as a domain.DiscoveryError
// carrying the captured stderr.
func (d *CommandDiscoverer) Discover(ctx context.Context, dir string) ([]byte, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	args := append(append([]string{}, d.args...), dir)
	cmd := exec.CommandContext(ctx, d.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.logger.Debug().Str("dir", dir).Str("command", d.command).Msg("Running manifest extraction")

	if err := cmd.Run(); err != nil {
		return nil, domain.NewDiscoveryError(dir, strings.TrimSpace(stderr.String()), err)
	}

	return stdout.Bytes(), nil
}
