package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights maps a term to a score multiplier. A nil or empty table leaves
// scores untouched.
type Weights map[string]float64

// Apply returns the boosted score for term.
func (w Weights) Apply(term string, score float64) float64 {
	if m, ok := w[term]; ok {
		return score * m
	}
	return score
}

type weightsFile struct {
	Weights map[string]float64 `yaml:"weights"`
}

// LoadWeights reads a YAML weight table of the form
//
//	weights:
//	  kubernetes: 1.5
//	  machine learning: 2
//
// Terms are normalized the same way documents are. An empty path returns an
// empty table. Two keys that normalize to the same term are rejected.
func LoadWeights(path string) (Weights, error) {
	if path == "" {
		return Weights{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}
	return ParseWeights(data)
}

func ParseWeights(data []byte) (Weights, error) {
	var raw weightsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse weights file: %w", err)
	}

	w := make(Weights, len(raw.Weights))
	for term, m := range raw.Weights {
		if m <= 0 {
			return nil, fmt.Errorf("weight for %q must be positive, got %v", term, m)
		}
		key := Normalize(term)
		if key == "" {
			continue
		}
		if _, dup := w[key]; dup {
			return nil, fmt.Errorf("duplicate weight for %q", key)
		}
		w[key] = m
	}
	return w, nil
}
