package evo

import (
	"errors"
	"fmt"
	"slices"

	"darwin/internal/model"
	"darwin/internal/randsrc"
)

var ErrInvalidPairCount = errors.New("pair count must be >= 0")

// Selection pairs the organisms chosen for recombination with the organisms
// left behind. It only lives for the duration of one generation.
type Selection struct {
	Requested int
	Pairs     int
	Selected  model.Population
	Remaining model.Population
}

// ResizePairCount shrinks k until the population can supply k disjoint pairs.
// Populations with fewer than two organisms always resize to zero pairs.
func ResizePairCount(size, k int) int {
	for k > size/2 {
		k = size / 3
	}
	return k
}

// SelectPairs draws k' random disjoint pairs out of population. The input is
// left untouched; Remaining is a new slice without the selected rows and
// Selected holds line1, line2 for every draw in order.
func SelectPairs(src randsrc.Source, population model.Population, k int) (Selection, error) {
	if src == nil {
		return Selection{}, fmt.Errorf("random source is required")
	}
	if k < 0 {
		return Selection{}, fmt.Errorf("%w: got %d", ErrInvalidPairCount, k)
	}

	pairs := ResizePairCount(len(population), k)
	remaining := slices.Clone(population)
	selected := make(model.Population, 0, 2*pairs)

	for i := 0; i < pairs; i++ {
		line1 := src.IntN(len(remaining))
		line2 := src.IntN(len(remaining))
		for line2 == line1 {
			line2 = src.IntN(len(remaining))
		}

		selected = append(selected, remaining[line1], remaining[line2])

		// higher index first so the lower one stays valid
		remaining = slices.Delete(remaining, max(line1, line2), max(line1, line2)+1)
		remaining = slices.Delete(remaining, min(line1, line2), min(line1, line2)+1)
	}

	return Selection{
		Requested: k,
		Pairs:     pairs,
		Selected:  selected,
		Remaining: remaining,
	}, nil
}
