package evo

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"darwin/internal/model"
)

// Summarize reports the mean cosine fit and the number of perfect fits. A
// perfect fit compares the raw chromosome sum, not the cosine fit, against the
// proliferation threshold. An empty population yields a NaN mean.
func Summarize(population model.Population, proliferationThreshold float64) model.SummaryStats {
	if len(population) == 0 {
		return model.SummaryStats{MeanFitness: math.NaN()}
	}

	fits := make([]float64, len(population))
	perfect := 0
	for i, organism := range population {
		sum := organism.Sum()
		fits[i] = CosineFit(sum)
		if float64(sum) > proliferationThreshold {
			perfect++
		}
	}

	return model.SummaryStats{
		MeanFitness:     stat.Mean(fits, nil),
		PerfectFitCount: perfect,
	}
}
