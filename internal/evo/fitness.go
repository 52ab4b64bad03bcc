package evo

import (
	"fmt"
	"math"

	"darwin/internal/model"
	"darwin/internal/randsrc"
)

// FactorOffset is how far below the extinction threshold the per-generation
// factor range starts.
const FactorOffset = 0.04

type Verdict int

const (
	VerdictDropped Verdict = iota
	VerdictKept
	VerdictDuplicated
)

func (v Verdict) String() string {
	switch v {
	case VerdictDropped:
		return "dropped"
	case VerdictKept:
		return "kept"
	case VerdictDuplicated:
		return "duplicated"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Copies is the number of times an organism with this verdict appears in the
// next generation.
func (v Verdict) Copies() int {
	switch v {
	case VerdictDuplicated:
		return 2
	case VerdictKept:
		return 1
	default:
		return 0
	}
}

// CosineFit maps a raw chromosome sum into [0, 1]. The sum is fed to cos
// without any normalization.
func CosineFit(sum int) float64 {
	return math.Cos(float64(sum))/2 + 0.5
}

func Score(factor float64, sum int) float64 {
	return factor * CosineFit(sum)
}

// Classify checks proliferation first. Both checks read the same score; only
// the thresholds differ.
func Classify(score, proliferationThreshold, extinctionThreshold float64) Verdict {
	if score >= proliferationThreshold {
		return VerdictDuplicated
	}
	if score < extinctionThreshold {
		return VerdictDropped
	}
	return VerdictKept
}

// DrawFactor draws the factor shared by every organism of one generation.
func DrawFactor(src randsrc.Source, extinctionThreshold float64) float64 {
	return src.Uniform(extinctionThreshold-FactorOffset, 1.0)
}

type Tally struct {
	Duplicated int
	Kept       int
	Dropped    int
}

type Evaluation struct {
	Factor     float64
	Population model.Population
	Tally      Tally
}

// Evaluate draws one factor and applies it to the whole population.
func Evaluate(src randsrc.Source, population model.Population, proliferationThreshold, extinctionThreshold float64) (Evaluation, error) {
	if src == nil {
		return Evaluation{}, fmt.Errorf("random source is required")
	}
	factor := DrawFactor(src, extinctionThreshold)
	next, tally := EvaluateWithFactor(population, factor, proliferationThreshold, extinctionThreshold)
	return Evaluation{
		Factor:     factor,
		Population: next,
		Tally:      tally,
	}, nil
}

// EvaluateWithFactor builds the next population for a fixed factor.
func EvaluateWithFactor(population model.Population, factor, proliferationThreshold, extinctionThreshold float64) (model.Population, Tally) {
	var tally Tally
	next := make(model.Population, 0, len(population))
	for _, organism := range population {
		verdict := Classify(Score(factor, organism.Sum()), proliferationThreshold, extinctionThreshold)
		switch verdict {
		case VerdictDuplicated:
			tally.Duplicated++
			next = append(next, organism, organism.Clone())
		case VerdictKept:
			tally.Kept++
			next = append(next, organism)
		default:
			tally.Dropped++
		}
	}
	return next, tally
}
