package evo

import (
	"context"
	"fmt"
	"log/slog"

	"darwin/internal/model"
	"darwin/internal/randsrc"
)

type MonitorState int

const (
	StateInitializing MonitorState = iota
	StateRunning
	StateCompleted
)

func (s MonitorState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type RunResult struct {
	FinalPopulation model.Population
	Summary         model.SummaryStats
	Diagnostics     []model.GenerationDiagnostics
}

type MonitorConfig struct {
	Parameters model.Parameters
	Rand       randsrc.Source
	Logger     *slog.Logger
}

// PopulationMonitor drives the generation loop. It owns the working population
// for the duration of Run and can be run once.
type PopulationMonitor struct {
	cfg        MonitorConfig
	logger     *slog.Logger
	state      MonitorState
	generation int
}

func NewPopulationMonitor(cfg MonitorConfig) (*PopulationMonitor, error) {
	if cfg.Rand == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if cfg.Parameters.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if cfg.Parameters.PairsToCrossover <= 0 {
		return nil, fmt.Errorf("pairs to crossover must be > 0")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PopulationMonitor{
		cfg:    cfg,
		logger: logger,
		state:  StateInitializing,
	}, nil
}

func (m *PopulationMonitor) State() MonitorState {
	return m.state
}

// Generation is the number of completed generations.
func (m *PopulationMonitor) Generation() int {
	return m.generation
}

func (m *PopulationMonitor) Run(ctx context.Context, initial model.Population) (RunResult, error) {
	if m.state != StateInitializing {
		return RunResult{}, fmt.Errorf("population monitor is %s", m.state)
	}
	m.state = StateRunning

	population := initial.Clone()
	diagnostics := make([]model.GenerationDiagnostics, 0, m.cfg.Parameters.Generations)

	for gen := 0; gen < m.cfg.Parameters.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		next, diag, err := m.step(population, gen)
		if err != nil {
			return RunResult{}, fmt.Errorf("generation %d: %w", gen+1, err)
		}
		population = next
		diagnostics = append(diagnostics, diag)
		m.generation = gen + 1
	}

	m.state = StateCompleted
	return RunResult{
		FinalPopulation: population,
		Summary:         Summarize(population, m.cfg.Parameters.ProliferationThreshold),
		Diagnostics:     diagnostics,
	}, nil
}

// step runs select, split, recombine, merge and evaluate once.
func (m *PopulationMonitor) step(population model.Population, gen int) (model.Population, model.GenerationDiagnostics, error) {
	params := m.cfg.Parameters

	selection, err := SelectPairs(m.cfg.Rand, population, params.PairsToCrossover)
	if err != nil {
		return nil, model.GenerationDiagnostics{}, err
	}
	if selection.Pairs != selection.Requested {
		m.logger.Debug("pair count resized",
			"generation", gen+1,
			"requested", selection.Requested,
			"pairs", selection.Pairs,
			"population", len(population),
		)
	}

	halves := SplitInHalf(selection.Selected)
	recombined, err := Recombine(m.cfg.Rand, halves)
	if err != nil {
		return nil, model.GenerationDiagnostics{}, err
	}

	merged := Merge(selection.Remaining, recombined)
	evaluation, err := Evaluate(m.cfg.Rand, merged, params.ProliferationThreshold, params.ExtinctionThreshold)
	if err != nil {
		return nil, model.GenerationDiagnostics{}, err
	}

	m.logger.Info("generation complete",
		"generation", gen+1,
		"factor", evaluation.Factor,
		"size_before", len(population),
		"merged", len(merged),
		"duplicated", evaluation.Tally.Duplicated,
		"kept", evaluation.Tally.Kept,
		"dropped", evaluation.Tally.Dropped,
		"size_after", len(evaluation.Population),
	)

	return evaluation.Population, model.GenerationDiagnostics{
		Generation:     gen + 1,
		Factor:         evaluation.Factor,
		PairsRequested: selection.Requested,
		PairsSelected:  selection.Pairs,
		SizeBefore:     len(population),
		MergedSize:     len(merged),
		Duplicated:     evaluation.Tally.Duplicated,
		Kept:           evaluation.Tally.Kept,
		Dropped:        evaluation.Tally.Dropped,
		SizeAfter:      len(evaluation.Population),
	}, nil
}

// RunEvolution evolves initial with a clock seeded generator and returns the
// final population with its summary.
func RunEvolution(ctx context.Context, initial model.Population, params model.Parameters) (model.Population, model.SummaryStats, error) {
	monitor, err := NewPopulationMonitor(MonitorConfig{
		Parameters: params,
		Rand:       randsrc.NewClockSeeded(),
	})
	if err != nil {
		return nil, model.SummaryStats{}, err
	}
	result, err := monitor.Run(ctx, initial)
	if err != nil {
		return nil, model.SummaryStats{}, err
	}
	return result.FinalPopulation, result.Summary, nil
}
