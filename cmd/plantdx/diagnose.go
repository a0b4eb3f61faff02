package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/plantdx/internal/engine"
	"github.com/dshills/plantdx/internal/kb"
	"github.com/dshills/plantdx/internal/render"
	"github.com/dshills/plantdx/internal/schema"
	"github.com/dshills/plantdx/internal/scoring"
)

type diagnoseFlags struct {
	plant         string
	symptoms      []string
	out           string
	failOnNoMatch bool
}

func newDiagnoseCmd(a *app) *cobra.Command {
	var f diagnoseFlags
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Rank diseases for the observed symptoms and explain the reasoning",
		Example: `  plantdx diagnose --plant tomato --symptoms s1,s2,s3
  plantdx diagnose --plant potato --symptoms s16,s17 --format json --out report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), a, f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&f.plant, "plant", "p", "", "plant category: tomato, potato or chilli (required)")
	cmd.Flags().StringSliceVarP(&f.symptoms, "symptoms", "s", nil, "comma-separated symptom ids")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&f.failOnNoMatch, "fail-on-no-match", false, "exit 2 when no disease matched")
	return cmd
}

func runDiagnose(ctx context.Context, a *app, f diagnoseFlags, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(f.plant) == "" {
		return badInput(errors.New("diagnose: --plant is required"))
	}
	plant, err := schema.ParsePlantCategory(f.plant)
	if err != nil {
		return badInput(fmt.Errorf("diagnose: %w", err))
	}
	selected := cleanIDs(f.symptoms)

	base, source, err := a.loadKB(ctx)
	if err != nil {
		return err
	}

	idx := kb.NewIndex(base)
	for _, id := range selected {
		s, ok := idx.Symptom(id)
		switch {
		case !ok:
			a.log.Warn("unknown symptom id", zap.String("id", id))
		case !s.AppliesTo(plant):
			a.log.Warn("symptom does not apply to plant", zap.String("id", id), zap.String("plant", string(plant)))
		}
	}

	res := engine.Infer(selected, plant, base)
	report := &schema.Report{
		Tool:        toolName,
		Version:     version,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Input: schema.Input{
			Plant:         plant,
			Symptoms:      selected,
			KnowledgeBase: source,
		},
		Summary: scoring.Summarize(res),
		Result:  res,
	}
	a.log.Debug("diagnosis complete",
		zap.String("run_id", report.RunID),
		zap.Int("diagnoses", report.Summary.Diagnoses),
		zap.Int("rules_fired", report.Summary.RulesFired))

	b, err := renderReport(report, idx, a.cfg.Output.Format, a.cfg.Output.Color)
	if err != nil {
		return err
	}
	if err := a.writeOutput(w, f.out, b); err != nil {
		return err
	}

	if f.failOnNoMatch && len(res.Results) == 0 {
		return &exitError{code: exitCodeNoMatch, err: errors.New("diagnose: no disease matched the selected symptoms")}
	}
	return nil
}

func renderReport(report *schema.Report, idx kb.Index, format string, color bool) ([]byte, error) {
	switch format {
	case "json":
		b, err := render.RenderJSON(report)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "markdown":
		return []byte(render.RenderMarkdown(report, idx)), nil
	case "pretty":
		out, err := render.RenderPretty(render.RenderMarkdown(report, idx), 0)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	default:
		return []byte(render.RenderText(report, idx, color)), nil
	}
}

// cleanIDs trims ids and drops empty entries.
func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
