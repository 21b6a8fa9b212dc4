package buildconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/learningequality/bundlescan/internal/utils"
)

// ErrUnsupportedFormat indicates an output format other than json or yaml
var ErrUnsupportedFormat = errors.New("unsupported output format (use json or yaml)")

// Writer serializes a build config to the filesystem
type Writer struct {
	path   string
	format string
	force  bool
	dryRun bool
	logger *utils.Logger
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	// Path is the output file path
	Path string
	// Format is "json" or "yaml"
	Format string
	// Force overwrites an existing file
	Force bool
	// DryRun logs what would be written without touching the filesystem
	DryRun bool
	Logger *utils.Logger
}

// NewWriter creates a new build-config writer
func NewWriter(opts WriterOptions) *Writer {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	format := opts.Format
	if format == "" {
		format = "json"
	}
	return &Writer{
		path:   opts.Path,
		format: format,
		force:  opts.Force,
		dryRun: opts.DryRun,
		logger: logger.WithComponent("writer"),
	}
}

// Write serializes cfg to the configured path. An existing file is left
// untouched unless force is set.
func (w *Writer) Write(cfg *Config) error {
	data, err := w.marshal(cfg)
	if err != nil {
		return err
	}

	if w.dryRun {
		w.logger.Info().
			Str("path", w.path).
			Int("entries", len(cfg.Entries)).
			Msg("Dry run, skipping write")
		return nil
	}

	if !w.force {
		if _, err := os.Stat(w.path); err == nil {
			w.logger.Info().Str("path", w.path).Msg("Output exists, skipping (use force to overwrite)")
			return nil
		}
	}

	if err := utils.EnsureDir(w.path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write build config: %w", err)
	}

	w.logger.Info().
		Str("path", w.path).
		Int("entries", len(cfg.Entries)).
		Int("externals", len(cfg.Externals)).
		Msg("Wrote build config")

	return nil
}

func (w *Writer) marshal(cfg *Config) ([]byte, error) {
	switch w.format {
	case "json":
		return json.MarshalIndent(cfg, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, w.format)
	}
}
