package postprocessors

import (
	"github.com/ludica-labs/regle/internal/core/ports/driven"
	"github.com/ludica-labs/regle/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - target_words (int): Per-chunk word budget (default: 300)
//   - max_words (int): Single-chunk bound (default: 450)
//   - min_words (int): Trailing-fragment floor (default: 50)
//   - overlap_words (int): Words carried between chunks (default: 75)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if n := getIntFromConfig(cfg, "target_words"); n > 0 {
			opts = append(opts, chunker.WithTargetWords(n))
		}
		if n := getIntFromConfig(cfg, "max_words"); n > 0 {
			opts = append(opts, chunker.WithMaxWords(n))
		}
		if n := getIntFromConfig(cfg, "min_words"); n > 0 {
			opts = append(opts, chunker.WithMinWords(n))
		}
		if n := getIntFromConfig(cfg, "overlap_words"); n >= 0 {
			opts = append(opts, chunker.WithOverlapWords(n))
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
