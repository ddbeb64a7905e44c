package main

import (
	"fmt"

	"github.com/aleksaelezovic/carreg/pkg/store"
	"github.com/spf13/cobra"
)

var demoFleet = []store.Vehicle{
	{Manufacturer: "Honda", Model: "Civic", Color: "Blue", ID: "123"},
	{Manufacturer: "Honda", Model: "Civic", Color: "Blue", ID: "456"},
	{Manufacturer: "Honda", Model: "Acord", Color: "Black", ID: "789"},
	{Manufacturer: "Honda", Model: "Acord", Color: "Black Metallic", ID: "098"},
	{Manufacturer: "Toyota", Model: "Corolla", Color: "Red", ID: "468"},
	{Manufacturer: "Toyota", Model: "Corolla", Color: "White", ID: "654"},
	{Manufacturer: "Toyota", Model: "Camry", Color: "Silver", ID: "246"},
	{Manufacturer: "Nissan", Model: "Juke", Color: "White", ID: "135"},
	{Manufacturer: "Nissan", Model: "Juke", Color: "Red Metallic", ID: "579"},
}

var demoQueries = [][3]string{
	{"Honda", "Civic", "Blue"},
	{"Honda", "Acord", "Black"},
	{"Honda", "Acord", "Black Metallic"},
	{"Honda", "", ""},
	{"Toyota", "", ""},
	{"Toyota", "Corolla", ""},
	{"", "Juke", ""},
	{"", "", "White"},
	{"", "", "Red"},
	{"", "", ""},
}

func newDemoCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a demo with a sample fleet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, root)
		},
	}
}

func runDemo(cmd *cobra.Command, root *rootOptions) error {
	out := cmd.OutOrStdout()
	text := root.format == "text"

	registry, err := root.openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	if text {
		fmt.Fprintf(out, "=== Car Registry Demo (%s backend) ===\n\n", root.cfg.Backend)
		fmt.Fprintln(out, "Inserting sample fleet...")
	}
	for _, v := range demoFleet {
		if err := registry.Put(v.Manufacturer, v.Model, v.Color, v.ID); err != nil {
			return fmt.Errorf("failed to insert vehicle %s: %w", v.ID, err)
		}
		if text {
			fmt.Fprintf(out, "  + %s %s %s -> %s\n", v.Manufacturer, v.Model, v.Color, v.ID)
		}
	}

	lookups := make([]lookup, 0, len(demoQueries))
	for _, q := range demoQueries {
		l, err := runLookup(registry, q[0], q[1], q[2])
		if err != nil {
			return err
		}
		lookups = append(lookups, l)
	}

	if text {
		fmt.Fprintln(out, "\n=== Lookups ===")
	}
	return writeLookups(out, root.format, lookups)
}
