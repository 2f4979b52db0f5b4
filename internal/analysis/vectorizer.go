package analysis

import (
	"math"
	"sort"
)

// Vectorizer computes TF-IDF weights over a small corpus of normalized
// documents. The zero value is not usable; build it with NewVectorizer.
type Vectorizer struct {
	maxFeatures int
}

func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{maxFeatures: maxFeatures}
}

// Matrix holds the fitted vocabulary and one L2-normalized row per document.
type Matrix struct {
	Features []string
	Rows     [][]float64
}

// FitTransform builds the vocabulary from docs and returns their TF-IDF rows.
//
// Features are sorted lexicographically. When the vocabulary exceeds the
// feature cap, the terms with the highest corpus count survive, ties going to
// the earlier feature. IDF is smoothed: ln((1+n)/(1+df)) + 1.
func (v *Vectorizer) FitTransform(docs []string) *Matrix {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	total := make(map[string]int)

	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, t := range terms(doc) {
			counts[i][t]++
			total[t]++
		}
		for t := range counts[i] {
			df[t]++
		}
	}

	features := make([]string, 0, len(total))
	for t := range total {
		features = append(features, t)
	}
	sort.Strings(features)

	if v.maxFeatures > 0 && len(features) > v.maxFeatures {
		ranked := make([]string, len(features))
		copy(ranked, features)
		sort.SliceStable(ranked, func(i, j int) bool {
			return total[ranked[i]] > total[ranked[j]]
		})
		kept := toSet(ranked[:v.maxFeatures])
		limited := features[:0]
		for _, f := range features {
			if kept[f] {
				limited = append(limited, f)
			}
		}
		features = limited
	}

	n := float64(len(docs))
	idf := make([]float64, len(features))
	for j, f := range features {
		idf[j] = math.Log((1+n)/(1+float64(df[f]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(features))
		var sq float64
		for j, f := range features {
			w := float64(counts[i][f]) * idf[j]
			row[j] = w
			sq += w * w
		}
		if sq > 0 {
			norm := math.Sqrt(sq)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}

	return &Matrix{Features: features, Rows: rows}
}

// Cosine returns the cosine similarity of two rows. Rows are already
// L2-normalized, so this is their dot product.
func (m *Matrix) Cosine(a, b int) float64 {
	var dot float64
	for j := range m.Features {
		dot += m.Rows[a][j] * m.Rows[b][j]
	}
	return dot
}
