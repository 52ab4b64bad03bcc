package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"darwin/internal/config"
	"darwin/internal/console"
	"darwin/internal/storage"
	darwinapi "darwin/pkg/darwin"
)

const defaultDBPath = "darwin.db"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}
	// darwinctl -i in.txt -o out.txt ... is shorthand for the run command.
	if strings.HasPrefix(args[0], "-") {
		return runRun(ctx, args)
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "population":
		return runPopulation(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	inputFile := fs.String("i", "", "input population file")
	outputFile := fs.String("o", "", "output population file")
	extinction := fs.Float64("w", 0, "extinction threshold in (0, 1]")
	proliferation := fs.Float64("r", 0, "proliferation threshold in (0, 1]")
	generations := fs.Int("p", 0, "number of generations")
	pairs := fs.Int("k", 0, "number of pairs to cross over per generation")
	configPath := fs.String("config", "", "optional TOML parameter file")
	runID := fs.String("run-id", "", "run id (generated when empty)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError(fmt.Sprintf("unexpected argument: %s", fs.Arg(0)))
	}

	params, err := loadRunParameters(*configPath, config.Parameters{
		InputFile:              *inputFile,
		OutputFile:             *outputFile,
		ExtinctionThreshold:    *extinction,
		ProliferationThreshold: *proliferation,
		Generations:            *generations,
		PairsToCrossover:       *pairs,
	})
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}

	printer := console.New(os.Stdout)
	printer.Banner()
	printer.Parameters(params)

	client, err := darwinapi.New(darwinapi.Options{
		StoreKind: *storeKind,
		DBPath:    *dbPath,
		Logger:    newLogger(*verbose),
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, runRequestFromParameters(*runID, params))
	if err != nil {
		return err
	}
	printer.Finished(summary.RunID, summary.InitialSize, summary.FinalSize, summary.Summary)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := darwinapi.New(darwinapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, darwinapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		type runsItem struct {
			RunID        string  `json:"run_id"`
			CreatedAtUTC string  `json:"created_at_utc"`
			InputFile    string  `json:"input_file"`
			Generations  int     `json:"generations"`
			Pairs        int     `json:"pairs_to_crossover"`
			InitialSize  int     `json:"initial_size"`
			FinalSize    int     `json:"final_size"`
			MeanFitness  float64 `json:"mean_fitness"`
			PerfectFits  int     `json:"perfect_fits"`
		}
		out := make([]runsItem, 0, len(items))
		for _, item := range items {
			out = append(out, runsItem(item))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, item := range items {
		fmt.Printf("run_id=%s created_at=%s input=%s gens=%d pairs=%d initial=%s final=%s mean_fitness=%.6f perfect_fits=%d\n",
			item.RunID,
			item.CreatedAtUTC,
			item.InputFile,
			item.Generations,
			item.Pairs,
			humanize.Comma(int64(item.InitialSize)),
			humanize.Comma(int64(item.FinalSize)),
			item.MeanFitness,
			item.PerfectFits,
		)
	}
	return nil
}

func runPopulation(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("population", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show the final population of the most recent run")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("population requires --run-id or --latest")
	}

	client, err := darwinapi.New(darwinapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	snapshot, err := client.Population(ctx, darwinapi.PopulationRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	fmt.Printf("run_id=%s generation=%d organisms=%s\n", snapshot.RunID, snapshot.Generation, humanize.Comma(int64(len(snapshot.Organisms))))
	for _, organism := range snapshot.Organisms {
		fields := make([]string, len(organism))
		for i, gene := range organism {
			fields[i] = fmt.Sprint(gene)
		}
		fmt.Println(strings.Join(fields, " "))
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show diagnostics for the most recent run")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", defaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("diagnostics requires --run-id or --latest")
	}
	if *limit < 0 {
		*limit = 0
	}

	client, err := darwinapi.New(darwinapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, darwinapi.DiagnosticsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(diagnostics) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diagnostics)
	}

	for _, d := range diagnostics {
		fmt.Printf("generation=%d factor=%.6f pairs=%d/%d size_before=%d merged=%d duplicated=%d kept=%d dropped=%d size_after=%d\n",
			d.Generation,
			d.Factor,
			d.PairsSelected,
			d.PairsRequested,
			d.SizeBefore,
			d.MergedSize,
			d.Duplicated,
			d.Kept,
			d.Dropped,
			d.SizeAfter,
		)
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: darwinctl <run|runs|population|diagnostics> [flags]\n       darwinctl -i input -o output -w extinction -r proliferation -p generations -k pairs", msg)
}
