// Package darwin is the programmatic entry point: it loads a population file,
// evolves it, writes the result and records the run in a store.
package darwin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	strftime "github.com/ncruces/go-strftime"

	"darwin/internal/config"
	"darwin/internal/evo"
	"darwin/internal/model"
	"darwin/internal/popfile"
	"darwin/internal/randsrc"
	"darwin/internal/storage"
)

const (
	defaultDBPath   = "darwin.db"
	defaultRunLimit = 20
	createdAtLayout = "%Y-%m-%dT%H:%M:%SZ"
)

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *slog.Logger
}

type Client struct {
	store  storage.Store
	logger *slog.Logger

	initOnce sync.Once
	initErr  error

	newSource func() randsrc.Source
	now       func() time.Time
}

type RunRequest struct {
	RunID                  string
	InputFile              string
	OutputFile             string
	ExtinctionThreshold    float64
	ProliferationThreshold float64
	Generations            int
	PairsToCrossover       int
}

// RunSummary describes a finished run. Summary.MeanFitness is NaN when the
// population went extinct; use Summary.Reportable() before displaying it.
type RunSummary struct {
	RunID       string
	InitialSize int
	FinalSize   int
	Summary     model.SummaryStats
	Diagnostics []model.GenerationDiagnostics
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	InputFile    string
	Generations  int
	Pairs        int
	InitialSize  int
	FinalSize    int
	MeanFitness  float64
	PerfectFits  int
}

type PopulationRequest struct {
	RunID  string
	Latest bool
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:     store,
		logger:    logger,
		newSource: randsrc.NewClockSeeded,
		now:       time.Now,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

// Run validates the request, evolves the population read from InputFile and
// writes the final population to OutputFile. Nothing is written or stored if
// the evolution fails.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	params := config.Parameters{
		InputFile:              req.InputFile,
		OutputFile:             req.OutputFile,
		ExtinctionThreshold:    req.ExtinctionThreshold,
		ProliferationThreshold: req.ProliferationThreshold,
		Generations:            req.Generations,
		PairsToCrossover:       req.PairsToCrossover,
	}
	if err := params.Validate(); err != nil {
		return RunSummary{}, err
	}
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := c.logger.With("run_id", runID)

	initial, err := popfile.ReadFile(params.InputFile)
	if err != nil {
		return RunSummary{}, err
	}
	logger.Info("population loaded", "file", params.InputFile, "organisms", len(initial))

	monitor, err := evo.NewPopulationMonitor(evo.MonitorConfig{
		Parameters: params.Model(),
		Rand:       c.newSource(),
		Logger:     logger,
	})
	if err != nil {
		return RunSummary{}, err
	}
	result, err := monitor.Run(ctx, initial)
	if err != nil {
		return RunSummary{}, fmt.Errorf("evolve %s: %w", runID, err)
	}

	if err := popfile.WriteFile(params.OutputFile, result.FinalPopulation, result.Summary); err != nil {
		return RunSummary{}, err
	}
	logger.Info("population written", "file", params.OutputFile, "organisms", len(result.FinalPopulation))

	record := model.RunRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              runID,
		CreatedAt:       c.now().UTC(),
		InputFile:       params.InputFile,
		OutputFile:      params.OutputFile,
		Parameters:      params.Model(),
		InitialSize:     len(initial),
		FinalSize:       len(result.FinalPopulation),
		Summary:         result.Summary.Reportable(),
	}
	if err := c.store.SaveRun(ctx, record); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SavePopulation(ctx, model.PopulationSnapshot{
		VersionedRecord: storage.CurrentVersion(),
		RunID:           runID,
		Generation:      monitor.Generation(),
		Organisms:       result.FinalPopulation,
	}); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, runID, result.Diagnostics); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:       runID,
		InitialSize: len(initial),
		FinalSize:   len(result.FinalPopulation),
		Summary:     result.Summary,
		Diagnostics: result.Diagnostics,
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = defaultRunLimit
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}

	out := make([]RunItem, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunItem{
			RunID:        run.ID,
			CreatedAtUTC: strftime.Format(createdAtLayout, run.CreatedAt.UTC()),
			InputFile:    run.InputFile,
			Generations:  run.Parameters.Generations,
			Pairs:        run.Parameters.PairsToCrossover,
			InitialSize:  run.InitialSize,
			FinalSize:    run.FinalSize,
			MeanFitness:  run.Summary.MeanFitness,
			PerfectFits:  run.Summary.PerfectFitCount,
		})
	}
	return out, nil
}

func (c *Client) Population(ctx context.Context, req PopulationRequest) (model.PopulationSnapshot, error) {
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest, "population")
	if err != nil {
		return model.PopulationSnapshot{}, err
	}
	snapshot, ok, err := c.store.GetPopulation(ctx, runID)
	if err != nil {
		return model.PopulationSnapshot{}, err
	}
	if !ok {
		return model.PopulationSnapshot{}, fmt.Errorf("population not found for run id: %s", runID)
	}
	return snapshot, nil
}

func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]model.GenerationDiagnostics, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest, "diagnostics")
	if err != nil {
		return nil, err
	}

	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(out, diagnostics)
	return out, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool, what string) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if err := c.Init(ctx); err != nil {
		return "", err
	}
	if latest {
		runs, err := c.store.ListRuns(ctx)
		if err != nil {
			return "", err
		}
		if len(runs) == 0 {
			return "", errors.New("no runs available")
		}
		return runs[0].ID, nil
	}
	if runID == "" {
		return "", fmt.Errorf("%s requires run id or latest", what)
	}
	return runID, nil
}
