package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello, World!", "hello world"},
		{"  C++/C#   and\tNode.js\n", "c c and node js"},
		{"snake_case stays", "snake_case stays"},
		{"Café — Zürich", "café zürich"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestTerms_SkipsStopWordsAndShortTokens(t *testing.T) {
	got := terms("a python developer with strong aws docker")
	assert.Equal(t, []string{
		"python", "developer", "strong", "aws", "docker",
		"python developer", "strong aws", "aws docker",
	}, got)
}

func TestFitTransform_SmoothedIDF(t *testing.T) {
	m := NewVectorizer(100).FitTransform([]string{"alpha beta", "alpha gamma"})

	assert.Equal(t, []string{"alpha", "alpha beta", "alpha gamma", "beta", "gamma"}, m.Features)

	unique := math.Log(3.0/2.0) + 1
	norm := math.Sqrt(1 + 2*unique*unique)
	assert.InDelta(t, 1/norm, m.Rows[1][0], 1e-12)
	assert.InDelta(t, 0.0, m.Rows[1][1], 1e-12)
	assert.InDelta(t, unique/norm, m.Rows[1][2], 1e-12)
	assert.InDelta(t, unique/norm, m.Rows[1][4], 1e-12)

	for _, row := range m.Rows {
		var sq float64
		for _, v := range row {
			sq += v * v
		}
		assert.InDelta(t, 1.0, sq, 1e-12)
	}
}

func TestFitTransform_FeatureCapKeepsMostFrequent(t *testing.T) {
	m := NewVectorizer(2).FitTransform([]string{"zeta zeta zeta", "alpha beta beta"})
	require.Len(t, m.Features, 2)
	assert.Equal(t, []string{"beta", "zeta"}, m.Features)
}

func TestFitTransform_FeatureCapTiesByOrder(t *testing.T) {
	m := NewVectorizer(1).FitTransform([]string{"delta", "charlie"})
	assert.Equal(t, []string{"charlie"}, m.Features)
}

func TestCosine(t *testing.T) {
	m := NewVectorizer(100).FitTransform([]string{"kafka streams", "kafka streams"})
	assert.InDelta(t, 1.0, m.Cosine(0, 1), 1e-12)

	m = NewVectorizer(100).FitTransform([]string{"kafka", "rabbitmq"})
	assert.InDelta(t, 0.0, m.Cosine(0, 1), 1e-12)
}
