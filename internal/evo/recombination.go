package evo

import (
	"errors"
	"fmt"

	"darwin/internal/model"
	"darwin/internal/randsrc"
)

var ErrOddHalves = errors.New("recombination needs an even number of halves")

// SplitPoint returns the index that separates the two halves of a chromosome
// of the given length. Odd lengths put the extra gene in the first half.
func SplitPoint(length int) int {
	if length%2 != 0 {
		return (length + 1) / 2
	}
	return length / 2
}

// SplitInHalf cuts every organism into [0, split) and [split, len), in input
// order. The result is twice as long as the input and shares no memory with it.
func SplitInHalf(organisms model.Population) model.Population {
	halves := make(model.Population, 0, 2*len(organisms))
	for _, organism := range organisms {
		split := SplitPoint(len(organism))
		halves = append(halves,
			organism[:split].Clone(),
			organism[split:].Clone(),
		)
	}
	return halves
}

// Recombine shuffles the half indices and joins them two at a time, the half
// at the first index followed by the half at the second.
func Recombine(src randsrc.Source, halves model.Population) (model.Population, error) {
	if src == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(halves)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddHalves, len(halves))
	}

	mixer := src.Perm(len(halves))
	out := make(model.Population, 0, len(halves)/2)
	for i := 0; i < len(mixer); i += 2 {
		first := halves[mixer[i]]
		second := halves[mixer[i+1]]

		joined := make(model.Organism, 0, len(first)+len(second))
		joined = append(joined, first...)
		joined = append(joined, second...)
		out = append(out, joined)
	}
	return out, nil
}

// RemoveEmpty returns a copy of population without zero-length organisms.
func RemoveEmpty(population model.Population) model.Population {
	out := make(model.Population, 0, len(population))
	for _, organism := range population {
		if len(organism) == 0 {
			continue
		}
		out = append(out, organism)
	}
	return out
}

// Merge appends the recombined organisms after the normalized survivors of
// selection. Duplicates are kept.
func Merge(original, recombined model.Population) model.Population {
	combined := RemoveEmpty(original)
	combined = append(combined, recombined...)
	return combined
}
