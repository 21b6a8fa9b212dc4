package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/learningequality/bundlescan/internal/domain"
	"github.com/learningequality/bundlescan/internal/utils"
)

// Reader runs manifest discovery for one plugin directory and aggregates the
// parsed records into descriptor collections.
type Reader struct {
	discoverer domain.Discoverer
	logger     *utils.Logger
}

// NewReader creates a new manifest reader backed by the given discoverer
func NewReader(discoverer domain.Discoverer, logger *utils.Logger) *Reader {
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Reader{
		discoverer: discoverer,
		logger:     logger.WithComponent("manifest"),
	}
}

// Read invokes the discoverer for manifestDir and parses its output. Bundles
// are returned in line order; externals are keyed by name, where a repeated
// name overwrites the prior entry. A line that fails to deserialize is fatal
// for the whole read.
func (r *Reader) Read(ctx context.Context, manifestDir, rootDir string) ([]domain.BundleDescriptor, map[string]domain.ExternalDescriptor, error) {
	out, err := r.discoverer.Discover(ctx, manifestDir)
	if err != nil {
		return nil, nil, err
	}

	bundles := []domain.BundleDescriptor{}
	externals := map[string]domain.ExternalDescriptor{}

	for i, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var rec domain.RawBundleRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, nil, fmt.Errorf("%w: %s line %d: %v", domain.ErrInvalidRecord, manifestDir, i+1, err)
		}

		bundle, external := Parse(rec, rootDir)
		if bundle == nil {
			r.logger.Debug().
				Str("dir", manifestDir).
				Int("line", i+1).
				Str("name", rec.Name).
				Msg("Skipping incomplete manifest record")
			continue
		}

		bundles = append(bundles, *bundle)
		if external != nil {
			externals[external.Name] = *external
		}
	}

	r.logger.Debug().
		Str("dir", manifestDir).
		Int("bundles", len(bundles)).
		Int("externals", len(externals)).
		Msg("Read plugin manifests")

	return bundles, externals, nil
}
