package model

import (
	"math"
	"time"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Organism is one chromosome: an ordered sequence of signed integers.
// Organisms are never mutated in place once they enter a population.
type Organism []int

// Sum returns the integer sum of the chromosome entries.
func (o Organism) Sum() int {
	sum := 0
	for _, gene := range o {
		sum += gene
	}
	return sum
}

// Clone returns an independent copy of the chromosome.
func (o Organism) Clone() Organism {
	if o == nil {
		return nil
	}
	out := make(Organism, len(o))
	copy(out, o)
	return out
}

// Population is an ordered collection of organisms. Order only matters for
// index based selection and removal.
type Population []Organism

// Clone returns a deep copy of the population.
func (p Population) Clone() Population {
	if p == nil {
		return nil
	}
	out := make(Population, len(p))
	for i, organism := range p {
		out[i] = organism.Clone()
	}
	return out
}

// GeneCount returns the total number of genes across every organism.
func (p Population) GeneCount() int {
	total := 0
	for _, organism := range p {
		total += len(organism)
	}
	return total
}

type Parameters struct {
	ExtinctionThreshold    float64 `json:"extinction_threshold"`
	ProliferationThreshold float64 `json:"proliferation_threshold"`
	Generations            int     `json:"generations"`
	PairsToCrossover       int     `json:"pairs_to_crossover"`
}

// SummaryStats is computed once from the final population. MeanFitness is NaN
// for an empty population; callers substitute a number before reporting.
type SummaryStats struct {
	MeanFitness     float64 `json:"mean_fitness"`
	PerfectFitCount int     `json:"perfect_fit_count"`
}

// Reportable replaces a non-finite mean with 0 so the stats can be written or
// encoded.
func (s SummaryStats) Reportable() SummaryStats {
	if math.IsNaN(s.MeanFitness) || math.IsInf(s.MeanFitness, 0) {
		s.MeanFitness = 0
	}
	return s
}

type GenerationDiagnostics struct {
	Generation     int     `json:"generation"`
	Factor         float64 `json:"factor"`
	PairsRequested int     `json:"pairs_requested"`
	PairsSelected  int     `json:"pairs_selected"`
	SizeBefore     int     `json:"size_before"`
	MergedSize     int     `json:"merged_size"`
	Duplicated     int     `json:"duplicated"`
	Kept           int     `json:"kept"`
	Dropped        int     `json:"dropped"`
	SizeAfter      int     `json:"size_after"`
}

type RunRecord struct {
	VersionedRecord
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	InputFile   string       `json:"input_file,omitempty"`
	OutputFile  string       `json:"output_file,omitempty"`
	Parameters  Parameters   `json:"parameters"`
	InitialSize int          `json:"initial_size"`
	FinalSize   int          `json:"final_size"`
	Summary     SummaryStats `json:"summary"`
}

type PopulationSnapshot struct {
	VersionedRecord
	RunID      string     `json:"run_id"`
	Generation int        `json:"generation"`
	Organisms  Population `json:"organisms"`
}
