// Package batch diagnoses many cases against one knowledge base. Cases are
// read from a JSON or YAML file and evaluated concurrently; results keep the
// order of the input cases.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/plantdx/internal/engine"
	"github.com/dshills/plantdx/internal/logging"
	"github.com/dshills/plantdx/internal/schema"
	"github.com/dshills/plantdx/internal/scoring"
	"github.com/dshills/plantdx/internal/store"
)

// MaxWorkers bounds the worker count accepted by Run.
const MaxWorkers = 64

// ReadCases decodes and validates a case file. Case ids must be unique.
func ReadCases(fs afero.Fs, path string) ([]schema.Case, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}
	var file schema.CaseFile
	if err := store.Unmarshal(path, data, &file); err != nil {
		return nil, err
	}
	for i := range file.Cases {
		if p, err := schema.ParsePlantCategory(string(file.Cases[i].Plant)); err == nil {
			file.Cases[i].Plant = p
		}
	}
	if err := schema.ValidateStruct(file); err != nil {
		return nil, fmt.Errorf("batch: %s: %w", path, err)
	}

	seen := make(map[string]int, len(file.Cases))
	for i, c := range file.Cases {
		if j, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("batch: %s: cases[%d] repeats id %q of cases[%d]", path, i, c.ID, j)
		}
		seen[c.ID] = i
	}
	return file.Cases, nil
}

// Run evaluates every case against base with at most workers concurrent
// inference runs. It stops scheduling new cases once ctx is done and then
// returns ctx's error.
func Run(ctx context.Context, base schema.KnowledgeBase, cases []schema.Case, workers int, log *zap.Logger) ([]schema.CaseResult, error) {
	log = logging.OrNop(log)
	if workers < 1 {
		workers = 1
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	start := time.Now()
	results := make([]schema.CaseResult, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range cases {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := engine.Infer(c.Symptoms, c.Plant, base)
			results[i] = schema.CaseResult{Case: c, Summary: scoring.Summarize(res), Result: res}
			log.Debug("case diagnosed",
				zap.String("case", c.ID),
				zap.String("plant", string(c.Plant)),
				zap.Int("diagnoses", len(res.Results)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	log.Info("batch complete",
		zap.Int("cases", len(cases)),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}
