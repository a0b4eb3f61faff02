package main

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dshills/plantdx/internal/batch"
	"github.com/dshills/plantdx/internal/render"
	"github.com/dshills/plantdx/internal/schema"
)

type batchFlags struct {
	file string
	out  string
}

func newBatchCmd(a *app) *cobra.Command {
	var f batchFlags
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Diagnose every case in a JSON or YAML case file",
		Example: `  plantdx batch cases.yaml --workers 8
  plantdx batch cases.json --format json --out results.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.file = args[0]
			return runBatch(cmd.Context(), a, f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntP("workers", "w", 4, "concurrent inference runs (1-64)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the report to this file instead of stdout")
	cobra.CheckErr(a.v.BindPFlag("batch.workers", cmd.Flags().Lookup("workers")))
	return cmd
}

func runBatch(ctx context.Context, a *app, f batchFlags, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cases, err := batch.ReadCases(a.fs, f.file)
	if err != nil {
		return badInput(err)
	}

	base, source, err := a.loadKB(ctx)
	if err != nil {
		return err
	}

	results, err := batch.Run(ctx, base, cases, a.cfg.Batch.Workers, a.log)
	if err != nil {
		return err
	}
	report := &schema.BatchReport{
		Tool:          toolName,
		Version:       version,
		RunID:         uuid.NewString(),
		KnowledgeBase: source,
		Cases:         results,
	}

	var out []byte
	switch a.cfg.Output.Format {
	case "json":
		out, err = render.RenderBatchJSON(report)
		if err != nil {
			return err
		}
		out = append(out, '\n')
	case "pretty":
		s, err := render.RenderPretty(render.RenderBatchMarkdown(report), 0)
		if err != nil {
			return err
		}
		out = []byte(s)
	default:
		out = []byte(render.RenderBatchMarkdown(report))
	}
	return a.writeOutput(w, f.out, out)
}
