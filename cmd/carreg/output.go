package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aleksaelezovic/carreg/pkg/keys"
	"github.com/aleksaelezovic/carreg/pkg/store"
)

// lookup is one query and the ids it returned
type lookup struct {
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Color        string   `json:"color,omitempty"`
	IDs          []string `json:"ids"`
}

func runLookup(r *store.CarRegistry, manufacturer, model, color string) (lookup, error) {
	ids, err := r.Get(manufacturer, model, color)
	if err != nil {
		return lookup{}, err
	}
	return lookup{Manufacturer: manufacturer, Model: model, Color: color, IDs: ids}, nil
}

// pattern renders the query with "*" for wildcard dimensions
func (l lookup) pattern() string {
	parts := []string{l.Manufacturer, l.Model, l.Color}
	for i, p := range parts {
		if keys.IsBlank(p) {
			parts[i] = "*"
		}
	}
	return strings.Join(parts, " / ")
}

func writeLookups(w io.Writer, format string, lookups []lookup) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lookups)
	}

	for _, l := range lookups {
		ids := "(none)"
		if len(l.IDs) > 0 {
			ids = strings.Join(l.IDs, ", ")
		}
		if _, err := fmt.Fprintf(w, "%-40s %s\n", l.pattern(), ids); err != nil {
			return err
		}
	}
	return nil
}
