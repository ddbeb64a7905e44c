package main

import (
	"fmt"

	"github.com/aleksaelezovic/carreg/internal/dataset"
	"github.com/spf13/cobra"
)

type queryOptions struct {
	dataPath     string
	manufacturer string
	model        string
	color        string
}

func newQueryCommand(root *rootOptions) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Load a fleet file and look up vehicle ids",
		Long: `Load every vehicle of a YAML fleet file into a fresh registry, then print
the ids matching the given manufacturer, model and color. Omitted or blank
dimensions match anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataPath, "data", "", "path to the YAML fleet file")
	cmd.Flags().StringVar(&opts.manufacturer, "manufacturer", "", "manufacturer to match")
	cmd.Flags().StringVar(&opts.model, "model", "", "model to match")
	cmd.Flags().StringVar(&opts.color, "color", "", "color to match")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func runQuery(cmd *cobra.Command, root *rootOptions, opts *queryOptions) error {
	fleet, err := dataset.Load(opts.dataPath)
	if err != nil {
		return err
	}

	registry, err := root.openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	if err := registry.PutBatch(fleet.ToVehicles()); err != nil {
		return fmt.Errorf("failed to load %s: %w", opts.dataPath, err)
	}
	root.logger.Info("fleet loaded", "path", opts.dataPath, "vehicles", len(fleet.Vehicles))

	result, err := runLookup(registry, opts.manufacturer, opts.model, opts.color)
	if err != nil {
		return err
	}
	return writeLookups(cmd.OutOrStdout(), root.format, []lookup{result})
}
