package postprocessors

import (
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/postprocessors/segmenter"
	"github.com/leo-dower/ocr-rag-super-charged/internal/postprocessors/xmlsafe"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(segmenter.Name, buildSegmenter)
	r.Register(xmlsafe.Name, buildXMLSafe)
}

// DefaultRegistry returns a registry with the built-in processors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// buildSegmenter creates a segmenter from generic config.
// Supported config keys:
//   - min_length (int): blocks of this many runes or fewer are dropped (default: 10)
func buildSegmenter(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []segmenter.Option

	if cfg != nil {
		if _, ok := cfg["min_length"]; ok {
			opts = append(opts, segmenter.WithMinLength(getIntFromConfig(cfg, "min_length")))
		}
	}

	return segmenter.New(opts...), nil
}

// buildXMLSafe creates an xmlsafe stage from generic config.
// Supported config keys:
//   - replacement (string): text written for each invalid character (default: "")
func buildXMLSafe(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []xmlsafe.Option

	if s, ok := cfg["replacement"].(string); ok {
		opts = append(opts, xmlsafe.WithReplacement(s))
	}

	return xmlsafe.New(opts...), nil
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
