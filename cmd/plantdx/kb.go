package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/plantdx/internal/kb"
	"github.com/dshills/plantdx/internal/schema"
	"github.com/dshills/plantdx/internal/store"
)

func newKBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Inspect, export, import and edit the knowledge base",
	}
	cmd.AddCommand(
		newKBShowCmd(a),
		newKBExportCmd(a),
		newKBImportCmd(a),
		newKBResetCmd(a),
		newKBDiseaseCmd(a),
		newKBRuleCmd(a),
		newKBBuiltinsCmd(),
	)
	return cmd
}

// loadKB reads the configured knowledge base.
func (a *app) loadKB(ctx context.Context) (schema.KnowledgeBase, string, error) {
	var base schema.KnowledgeBase
	var source string
	err := a.withStore(ctx, func(ctx context.Context, st store.Store) error {
		var err error
		base, err = st.Load(ctx)
		source = st.Describe()
		return err
	})
	if err != nil {
		return schema.KnowledgeBase{}, "", storeFailure(err)
	}
	return base, source, nil
}

// editKB loads the knowledge base, applies edit and saves the result.
// Errors returned by edit are reported as bad input.
func (a *app) editKB(ctx context.Context, edit func(schema.KnowledgeBase) (schema.KnowledgeBase, error)) error {
	err := a.withStore(ctx, func(ctx context.Context, st store.Store) error {
		base, err := st.Load(ctx)
		if err != nil {
			return err
		}
		next, err := edit(base)
		if err != nil {
			return badInput(err)
		}
		if err := st.Save(ctx, next); err != nil {
			return err
		}
		a.log.Info("knowledge base saved",
			zap.String("store", st.Describe()),
			zap.Int("diseases", len(next.Diseases)),
			zap.Int("rules", kb.RuleCount(next)))
		return nil
	})
	if err != nil {
		return storeFailure(err)
	}
	return nil
}

func newKBShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize the knowledge base (full document with --format json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			base, source, err := a.loadKB(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.cfg.Output.Format == "json" {
				b, err := store.Marshal(".json", base)
				if err != nil {
					return err
				}
				_, err = w.Write(b)
				return err
			}
			return writeKBSummary(w, base, source)
		},
	}
}

func writeKBSummary(w io.Writer, base schema.KnowledgeBase, source string) error {
	counts := kb.DiseaseCounts(base)
	perPlant := make([]string, 0, len(schema.Plants))
	for _, p := range schema.Plants {
		perPlant = append(perPlant, fmt.Sprintf("%s %d", p, counts[p]))
	}
	_, err := fmt.Fprintf(w, "Knowledge base: %s\nSymptoms: %d\nDiseases: %d (%s)\nRules: %d\n",
		source, len(base.Symptoms), len(base.Diseases), strings.Join(perPlant, ", "), kb.RuleCount(base))
	return err
}

func newKBExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the knowledge base to a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, _, err := a.loadKB(cmdContext(cmd))
			if err != nil {
				return err
			}
			if _, err := store.FormatOf(args[0]); err != nil {
				return badInput(err)
			}
			if err := store.WriteFile(a.fs, args[0], base); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d disease(s) to %s\n", len(base.Diseases), args[0])
			return err
		},
	}
}

func newKBImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the stored knowledge base with a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imported, err := store.ReadFile(a.fs, args[0])
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return badInput(fmt.Errorf("import %s: %w", args[0], err))
				}
				return badInput(err)
			}
			err = a.editKB(cmdContext(cmd), func(schema.KnowledgeBase) (schema.KnowledgeBase, error) {
				return imported, nil
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d symptom(s) and %d disease(s) from %s\n",
				len(imported.Symptoms), len(imported.Diseases), args[0])
			return err
		},
	}
}

func newKBResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard edits so the default knowledge base is loaded again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withStore(cmdContext(cmd), func(ctx context.Context, st store.Store) error {
				return st.Reset(ctx)
			})
			if err != nil {
				return storeFailure(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "knowledge base reset to default")
			return err
		},
	}
}

func newKBBuiltinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the knowledge bases compiled into the binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, b := range kb.List() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", b.Name, b.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type diseaseFlags struct {
	id          string
	name        string
	plant       string
	description string
	treatment   string
}

func (f *diseaseFlags) register(cmd *cobra.Command, withID bool) {
	if withID {
		cmd.Flags().StringVar(&f.id, "id", "", "disease id (generated when empty)")
	}
	cmd.Flags().StringVar(&f.name, "name", "", "disease name")
	cmd.Flags().StringVarP(&f.plant, "plant", "p", "", "plant category: tomato, potato or chilli")
	cmd.Flags().StringVar(&f.description, "description", "", "short description")
	cmd.Flags().StringVar(&f.treatment, "treatment", "", "recommended treatment")
}

func newKBDiseaseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disease",
		Short: "Add, update or delete diseases",
	}

	var add diseaseFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a disease with no rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plant, err := schema.ParsePlantCategory(add.plant)
			if err != nil {
				return badInput(fmt.Errorf("disease add: %w", err))
			}
			var added schema.Disease
			err = a.editKB(cmdContext(cmd), func(base schema.KnowledgeBase) (schema.KnowledgeBase, error) {
				next, d, err := kb.AddDisease(base, kb.DiseaseInput{
					ID:            add.id,
					Name:          add.name,
					PlantCategory: plant,
					Description:   add.description,
					Treatment:     add.treatment,
				})
				added = d
				return next, err
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added disease %s (%s)\n", added.ID, added.Name)
			return err
		},
	}
	add.register(addCmd, true)

	var upd diseaseFlags
	updCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the fields of a disease; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			changed := cmd.Flags().Changed
			err := a.editKB(cmdContext(cmd), func(base schema.KnowledgeBase) (schema.KnowledgeBase, error) {
				cur, ok := kb.NewIndex(base).Disease(id)
				if !ok {
					return base, fmt.Errorf("%w %q", kb.ErrUnknownDisease, id)
				}
				in := kb.DiseaseInput{
					ID:            id,
					Name:          cur.Name,
					PlantCategory: cur.PlantCategory,
					Description:   cur.Description,
					Treatment:     cur.Treatment,
				}
				if changed("name") {
					in.Name = upd.name
				}
				if changed("plant") {
					p, err := schema.ParsePlantCategory(upd.plant)
					if err != nil {
						return base, err
					}
					in.PlantCategory = p
				}
				if changed("description") {
					in.Description = upd.description
				}
				if changed("treatment") {
					in.Treatment = upd.treatment
				}
				return kb.UpdateDisease(base, in)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "updated disease %s\n", id)
			return err
		},
	}
	upd.register(updCmd, false)

	delCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a disease and its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.editKB(cmdContext(cmd), func(base schema.KnowledgeBase) (schema.KnowledgeBase, error) {
				return kb.DeleteDisease(base, args[0])
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted disease %s\n", args[0])
			return err
		},
	}

	cmd.AddCommand(addCmd, updCmd, delCmd)
	return cmd
}

func newKBRuleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Add or delete production rules",
	}

	var in struct {
		id         string
		conditions []string
		weight     int
	}
	addCmd := &cobra.Command{
		Use:   "add DISEASE",
		Short: "Append a rule to a disease",
		Long: `Append a rule to a disease. Without --conditions the first two symptoms
applicable to the disease's plant are used; without --weight the weight is 5.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var added schema.ProductionRule
			err := a.editKB(cmdContext(cmd), func(base schema.KnowledgeBase) (schema.KnowledgeBase, error) {
				next, r, err := kb.AddRule(base, args[0], kb.RuleInput{
					ID:         in.id,
					Conditions: cleanIDs(in.conditions),
					Weight:     in.weight,
				})
				added = r
				return next, err
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added rule %s to %s: IF [%s] (weight %d)\n",
				added.ID, args[0], strings.Join(added.Conditions, " AND "), added.Weight)
			return err
		},
	}
	addCmd.Flags().StringVar(&in.id, "id", "", "rule id (generated when empty)")
	addCmd.Flags().StringSliceVar(&in.conditions, "conditions", nil, "comma-separated symptom ids")
	addCmd.Flags().IntVar(&in.weight, "weight", 0, "rule weight 1-10 (default 5)")

	delCmd := &cobra.Command{
		Use:   "delete DISEASE RULE",
		Short: "Delete one rule of a disease",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.editKB(cmdContext(cmd), func(base schema.KnowledgeBase) (schema.KnowledgeBase, error) {
				return kb.DeleteRule(base, args[0], args[1])
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted rule %s from %s\n", args[1], args[0])
			return err
		},
	}

	cmd.AddCommand(addCmd, delCmd)
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
