// Package dataset reads vehicle fleet files for the registry CLI.
//
// A fleet file is YAML:
//
//	vehicles:
//	  - manufacturer: Honda
//	    model: Civic
//	    color: Blue
//	    id: "123"
//
// Only the shape of the file is checked here. Empty and blank values are
// left for the registry to reject so the caller gets the registry's field
// message.
package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/aleksaelezovic/carreg/pkg/store"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Record is one vehicle entry of a fleet file
type Record struct {
	Manufacturer string `yaml:"manufacturer"`
	Model        string `yaml:"model"`
	Color        string `yaml:"color"`
	ID           string `yaml:"id"`
}

// Fleet is the top-level document of a fleet file
type Fleet struct {
	Vehicles []Record `yaml:"vehicles" validate:"required,min=1,dive"`
}

// ToVehicles converts the fleet records into registry vehicles
func (f *Fleet) ToVehicles() []store.Vehicle {
	out := make([]store.Vehicle, 0, len(f.Vehicles))
	for _, r := range f.Vehicles {
		out = append(out, store.Vehicle{
			Manufacturer: r.Manufacturer,
			Model:        r.Model,
			Color:        r.Color,
			ID:           r.ID,
		})
	}
	return out
}

// Load reads a fleet file from disk
func Load(path string) (*Fleet, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open fleet file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes and validates a fleet document
func Read(r io.Reader) (*Fleet, error) {
	var fleet Fleet

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fleet); err != nil {
		return nil, fmt.Errorf("failed to parse fleet: %w", err)
	}

	if err := validate.Struct(&fleet); err != nil {
		return nil, fmt.Errorf("invalid fleet: %w", err)
	}
	return &fleet, nil
}
