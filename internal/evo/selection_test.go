package evo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darwin/internal/model"
	"darwin/internal/randsrc"
)

// scriptedSource replays fixed draws so tests can pin exact indices.
type scriptedSource struct {
	ints     []int
	uniforms []float64
	perms    [][]int
	intCalls int
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		panic("scriptedSource: no IntN draws left")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	s.intCalls++
	if v >= n {
		panic("scriptedSource: scripted draw out of range")
	}
	return v
}

func (s *scriptedSource) Uniform(lo, hi float64) float64 {
	if len(s.uniforms) == 0 {
		panic("scriptedSource: no Uniform draws left")
	}
	v := s.uniforms[0]
	s.uniforms = s.uniforms[1:]
	return v
}

func (s *scriptedSource) Perm(n int) []int {
	if len(s.perms) == 0 {
		panic("scriptedSource: no Perm draws left")
	}
	v := s.perms[0]
	s.perms = s.perms[1:]
	if len(v) != n {
		panic("scriptedSource: scripted permutation has wrong length")
	}
	return v
}

func labelled(n int) model.Population {
	population := make(model.Population, n)
	for i := range population {
		population[i] = model.Organism{i}
	}
	return population
}

func TestResizePairCount(t *testing.T) {
	cases := []struct {
		size, k, want int
	}{
		{size: 10, k: 2, want: 2},
		{size: 10, k: 5, want: 5},
		{size: 10, k: 6, want: 3},
		{size: 9, k: 5, want: 3},
		{size: 4, k: 1, want: 1},
		{size: 3, k: 1, want: 1},
		{size: 3, k: 2, want: 1},
		{size: 2, k: 1, want: 1},
		{size: 2, k: 5, want: 0},
		{size: 1, k: 1, want: 0},
		{size: 0, k: 3, want: 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ResizePairCount(tc.size, tc.k), "size=%d k=%d", tc.size, tc.k)
	}
}

func TestSelectPairsRejectsSelfPairingAndRemovesHigherIndexFirst(t *testing.T) {
	src := &scriptedSource{ints: []int{2, 2, 2, 0}}
	population := model.Population{{1}, {2}, {3}, {4}}

	selection, err := SelectPairs(src, population, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, src.intCalls, "line2 must be redrawn until it differs from line1")
	assert.Equal(t, model.Population{{3}, {1}}, selection.Selected)
	assert.Equal(t, model.Population{{2}, {4}}, selection.Remaining)
	assert.Equal(t, model.Population{{1}, {2}, {3}, {4}}, population, "input must not be modified")
}

func TestSelectPairsCounts(t *testing.T) {
	src := randsrc.NewSeeded(11)
	for size := 4; size <= 30; size++ {
		for k := 1; k <= size/2; k++ {
			population := labelled(size)
			selection, err := SelectPairs(src, population, k)
			require.NoError(t, err)

			assert.Equal(t, k, selection.Pairs)
			assert.Len(t, selection.Selected, 2*k)
			assert.Len(t, selection.Remaining, size-2*k)

			seen := make(map[int]bool, size)
			for _, organism := range append(append(model.Population{}, selection.Selected...), selection.Remaining...) {
				require.False(t, seen[organism[0]], "organism %d appears twice", organism[0])
				seen[organism[0]] = true
			}
			assert.Len(t, seen, size)
		}
	}
}

func TestSelectPairsNeverPairsAnOrganismWithItself(t *testing.T) {
	src := randsrc.NewSeeded(5)
	for i := 0; i < 200; i++ {
		selection, err := SelectPairs(src, labelled(6), 3)
		require.NoError(t, err)
		for p := 0; p < len(selection.Selected); p += 2 {
			assert.NotEqual(t, selection.Selected[p][0], selection.Selected[p+1][0])
		}
	}
}

func TestSelectPairsKeepsRemainingOrder(t *testing.T) {
	src := randsrc.NewSeeded(9)
	selection, err := SelectPairs(src, labelled(12), 3)
	require.NoError(t, err)
	for i := 1; i < len(selection.Remaining); i++ {
		assert.Less(t, selection.Remaining[i-1][0], selection.Remaining[i][0])
	}
}

func TestSelectPairsResizesOversizedRequest(t *testing.T) {
	src := randsrc.NewSeeded(1)
	selection, err := SelectPairs(src, labelled(10), 6)
	require.NoError(t, err)
	assert.Equal(t, 6, selection.Requested)
	assert.Equal(t, 3, selection.Pairs)
	assert.LessOrEqual(t, selection.Pairs, 10/3)
	assert.Len(t, selection.Selected, 6)
	assert.Len(t, selection.Remaining, 4)
}

// Fewer than two organisms clamp to zero pairs rather than failing.
func TestSelectPairsClampsTinyPopulations(t *testing.T) {
	for _, size := range []int{0, 1} {
		src := &scriptedSource{}
		selection, err := SelectPairs(src, labelled(size), 4)
		require.NoError(t, err)
		assert.Zero(t, selection.Pairs)
		assert.Empty(t, selection.Selected)
		assert.Len(t, selection.Remaining, size)
		assert.Zero(t, src.intCalls)
	}
}

func TestSelectPairsRejectsNegativeCount(t *testing.T) {
	_, err := SelectPairs(randsrc.NewSeeded(1), labelled(4), -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPairCount))
}

func TestSelectPairsRequiresSource(t *testing.T) {
	_, err := SelectPairs(nil, labelled(4), 1)
	require.Error(t, err)
}
