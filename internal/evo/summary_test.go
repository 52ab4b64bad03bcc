package evo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"darwin/internal/model"
)

func TestSummarizeEmptyPopulation(t *testing.T) {
	stats := Summarize(nil, 0.9)
	assert.True(t, math.IsNaN(stats.MeanFitness))
	assert.Zero(t, stats.PerfectFitCount)
	assert.Equal(t, model.SummaryStats{}, stats.Reportable())
}

func TestSummarizeMeanAndPerfectFits(t *testing.T) {
	population := model.Population{{0}, {1, 2, 3}, {-4}}
	stats := Summarize(population, 0.9)

	want := (CosineFit(0) + CosineFit(6) + CosineFit(-4)) / 3
	assert.InDelta(t, want, stats.MeanFitness, 1e-12)
	// raw sums 0, 6, -4: only 6 exceeds 0.9
	assert.Equal(t, 1, stats.PerfectFitCount)
}

// Perfect fits compare the raw sum with the threshold, so a chromosome whose
// cosine fit is near zero can still count.
func TestSummarizePerfectFitIgnoresCosine(t *testing.T) {
	stats := Summarize(model.Population{{3}}, 0.9)
	assert.Less(t, CosineFit(3), 0.01)
	assert.Equal(t, 1, stats.PerfectFitCount)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	population := model.Population{{5, 5}, {2}, {7, -1, 3}}
	first := Summarize(population, 0.5)
	second := Summarize(population, 0.5)
	assert.Equal(t, first, second)
}

func TestReportableKeepsFiniteMean(t *testing.T) {
	stats := model.SummaryStats{MeanFitness: 0.25, PerfectFitCount: 3}
	assert.Equal(t, stats, stats.Reportable())
	assert.Zero(t, model.SummaryStats{MeanFitness: math.Inf(1)}.Reportable().MeanFitness)
}
