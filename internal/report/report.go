// Package report runs one aggregation pass over a benchmark: it loads the
// baseline, discovers the runs, resolves every artifact and assembles the table.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/gapreport/internal/artifact"
	"github.com/dbsmedya/gapreport/internal/baseline"
	"github.com/dbsmedya/gapreport/internal/config"
	"github.com/dbsmedya/gapreport/internal/gap"
	"github.com/dbsmedya/gapreport/internal/logger"
	"github.com/dbsmedya/gapreport/internal/table"
)

// Result contains the assembled table and statistics of one pass.
type Result struct {
	Benchmark   string
	Baseline    string
	Table       *table.Table
	Runs        []artifact.Run
	Unavailable int
	Anomalies   int
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
}

// Engine produces report tables. It is safe to reuse across benchmarks.
type Engine struct {
	config   *config.Config
	resolver artifact.Resolver
	logger   *logger.Logger
	workers  int
}

// NewEngine creates an engine reading artifacts from the filesystem.
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	workers := cfg.Report.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Engine{
		config:   cfg,
		resolver: artifact.NewFileResolver(),
		logger:   log,
		workers:  workers,
	}, nil
}

// SetResolver replaces the artifact resolver.
func (e *Engine) SetResolver(r artifact.Resolver) {
	e.resolver = r
}

// Generate builds the report of a benchmark. When runs is non-empty only the
// named run directories are included. Either a complete table or an error is
// returned.
func (e *Engine) Generate(ctx context.Context, benchmark string, runs []string) (*Result, error) {
	started := time.Now()
	log := e.logger.WithBenchmark(benchmark)
	bc := e.config.GetBenchmark(benchmark)

	base, err := baseline.Load(bc.Baseline, baseline.Options{
		IDColumn:        bc.IDColumn,
		FormatColumn:    bc.FormatColumn,
		BestKnownColumn: bc.BestKnownColumn,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}
	log.Debugw("Baseline loaded", "path", bc.Baseline, "instances", base.Len())

	discovered, err := artifact.Discover(e.config.BenchmarkDir(benchmark), runs)
	if err != nil {
		return nil, err
	}
	log.Debugw("Runs discovered", "runs", len(discovered))

	res, err := e.Assemble(ctx, benchmark, base, discovered)
	if err != nil {
		return nil, err
	}
	res.Baseline = bc.Baseline
	res.StartedAt = started
	res.CompletedAt = time.Now()
	res.Duration = res.CompletedAt.Sub(started)

	log.Infow("Report assembled",
		"instances", base.Len(),
		"runs", len(res.Table.Schema.Runs),
		"unavailable", res.Unavailable,
		"anomalies", res.Anomalies,
		"duration", res.Duration)
	return res, nil
}

// Assemble builds the table of an already loaded baseline against the given
// runs. Artifacts are resolved in parallel; gaps and totals are then computed
// row by row in baseline order.
func (e *Engine) Assemble(ctx context.Context, benchmark string, base *baseline.Baseline, runs []artifact.Run) (*Result, error) {
	log := e.logger.WithBenchmark(benchmark)

	runNames := make([]string, len(runs))
	for i, r := range runs {
		runNames[i] = r.Name
	}
	schema, err := table.NewSchema(base.Columns, base.Options.IDColumn, base.Options.BestKnownColumn, runNames)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out columns: %w", err)
	}

	slots, err := e.fetch(ctx, base, schema, runs)
	if err != nil {
		return nil, err
	}

	res := &Result{Benchmark: benchmark, Runs: runs}
	asm := table.NewAssembler(benchmark, schema)
	for i, rec := range base.Records {
		results := make([]gap.Result, len(schema.Runs))
		for j, rc := range schema.Runs {
			resolution := slots[i][j]
			if resolution.Kind != artifact.Found {
				res.Unavailable++
				log.WithRun(rc.Name).WithInstance(rec.ID).Warnw("Result unavailable",
					"kind", resolution.Kind.String(),
					"path", resolution.Path,
					"error", resolution.Err)
			}

			r, err := gap.Evaluate(resolution.Achieved(), rec.BestKnown)
			if err != nil {
				var dz *gap.DivisionByZeroGapError
				if errors.As(err, &dz) {
					return nil, fmt.Errorf("instance %q (line %d) run %q: %w", rec.ID, rec.Line, rc.Name, err)
				}
				return nil, err
			}
			results[j] = r
		}
		if err := asm.Add(rec, results); err != nil {
			return nil, err
		}
	}

	tbl := asm.Finish()
	for _, a := range tbl.Anomalies {
		log.WithRun(a.Run).WithInstance(a.Instance).Warnw("Result better than best known",
			"value", a.Value,
			"best_known", a.BestKnown,
			"gap", a.Gap)
	}
	res.Table = tbl
	res.Anomalies = len(tbl.Anomalies)
	return res, nil
}

// fetch resolves every (instance, run) pair into slots[instance][run].
// Embedded runs are read from the baseline record itself.
func (e *Engine) fetch(ctx context.Context, base *baseline.Baseline, schema *table.Schema, runs []artifact.Run) ([][]artifact.Resolution, error) {
	slots := make([][]artifact.Resolution, len(base.Records))
	for i := range slots {
		slots[i] = make([]artifact.Resolution, len(schema.Runs))
	}

	dirRuns := make(map[int]artifact.Run, len(runs))
	next := 0
	for j, rc := range schema.Runs {
		if rc.Embedded {
			continue
		}
		dirRuns[j] = runs[next]
		next++
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, rec := range base.Records {
		for j, rc := range schema.Runs {
			if rc.Embedded {
				raw, _ := rec.Field(rc.Value)
				slots[i][j] = artifact.ParseEmbedded(raw)
				continue
			}
			if err := gctx.Err(); err != nil {
				break
			}
			i, j, rec := i, j, rec
			run := dirRuns[j]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				slots[i][j] = e.resolver.Resolve(run, rec.ID)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("artifact resolution interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("artifact resolution interrupted: %w", err)
	}
	return slots, nil
}
