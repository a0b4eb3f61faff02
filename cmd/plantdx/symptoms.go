package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/plantdx/internal/kb"
	"github.com/dshills/plantdx/internal/render"
	"github.com/dshills/plantdx/internal/schema"
)

// catalogJSON is the json output of the symptoms command.
type catalogJSON struct {
	Plant         schema.PlantCategory         `json:"plant"`
	Groups        []kb.CategoryGroup           `json:"groups"`
	Diseases      []schema.Disease             `json:"diseases"`
	DiseaseCounts map[schema.PlantCategory]int `json:"disease_counts"`
}

func newSymptomsCmd(a *app) *cobra.Command {
	var plantFlag string
	cmd := &cobra.Command{
		Use:   "symptoms",
		Short: "List the symptoms and diseases recorded for a plant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if plantFlag == "" {
				return badInput(errors.New("symptoms: --plant is required"))
			}
			plant, err := schema.ParsePlantCategory(plantFlag)
			if err != nil {
				return badInput(fmt.Errorf("symptoms: %w", err))
			}

			base, _, err := a.loadKB(cmdContext(cmd))
			if err != nil {
				return err
			}

			var out []byte
			switch a.cfg.Output.Format {
			case "json":
				out, err = json.MarshalIndent(catalogJSON{
					Plant:         plant,
					Groups:        kb.GroupByCategory(kb.SymptomsFor(base, plant)),
					Diseases:      kb.DiseasesFor(base, plant),
					DiseaseCounts: kb.DiseaseCounts(base),
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("symptoms: %w", err)
				}
				out = append(out, '\n')
			case "pretty":
				s, err := render.RenderPretty(render.RenderCatalog(base, plant), 0)
				if err != nil {
					return err
				}
				out = []byte(s)
			default:
				out = []byte(render.RenderCatalog(base, plant))
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&plantFlag, "plant", "p", "", "plant category: tomato, potato or chilli (required)")
	return cmd
}
