package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aleksaelezovic/carreg/internal/encoding"
	"github.com/aleksaelezovic/carreg/internal/storage"
	"github.com/aleksaelezovic/carreg/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registries returns an empty registry per storage backend
func registries(t *testing.T) map[string]*store.CarRegistry {
	t.Helper()

	badgerStorage, err := storage.NewBadgerStorage()
	require.NoError(t, err)

	all := map[string]*store.CarRegistry{
		storage.BackendMemory: store.NewCarRegistry(storage.NewMemoryStorage(), encoding.NewKeyEncoder()),
		storage.BackendBadger: store.NewCarRegistry(badgerStorage, encoding.NewKeyEncoder()),
	}
	for _, r := range all {
		t.Cleanup(func() { _ = r.Close() })
	}
	return all
}

func get(t *testing.T, r *store.CarRegistry, manufacturer, model, color string) []string {
	t.Helper()

	ids, err := r.Get(manufacturer, model, color)
	require.NoError(t, err)
	return ids
}

var fleet = []store.Vehicle{
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

func putFleet(t *testing.T, r *store.CarRegistry) {
	t.Helper()

	for _, v := range fleet {
		require.NoError(t, r.Put(v.Manufacturer, v.Model, v.Color, v.ID))
	}
}

func TestPutRejectsInvalidArguments(t *testing.T) {
	const (
		manufacturerMsg = "Manufacturer must not be null, empty or blank."
		modelMsg        = "Model must not be null, empty or blank."
		colorMsg        = "Color must not be null, empty or blank."
		vehicleIDMsg    = "Vehicle Id must not be null, empty or blank."
	)

	tests := []struct {
		name                           string
		manufacturer, model, color, id string
		field, message                 string
	}{
		{"empty manufacturer", "", "Civic", "Blue", "123", store.FieldManufacturer, manufacturerMsg},
		{"blank manufacturer", "   ", "Civic", "Blue", "123", store.FieldManufacturer, manufacturerMsg},
		{"empty model", "Honda", "", "Blue", "123", store.FieldModel, modelMsg},
		{"blank model", "Honda", "   ", "Blue", "123", store.FieldModel, modelMsg},
		{"empty color", "Honda", "Civic", "", "123", store.FieldColor, colorMsg},
		{"blank color", "Honda", "Civic", "   ", "123", store.FieldColor, colorMsg},
		{"empty vehicle id", "Honda", "Civic", "Blue", "", store.FieldVehicleID, vehicleIDMsg},
		{"blank vehicle id", "Honda", "Civic", "Blue", "   ", store.FieldVehicleID, vehicleIDMsg},
		{"first failing field wins", "Honda", " ", "", "", store.FieldModel, modelMsg},
		{"everything blank", "", "", "", "", store.FieldManufacturer, manufacturerMsg},
	}

	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					err := r.Put(tt.manufacturer, tt.model, tt.color, tt.id)
					require.Error(t, err)
					assert.ErrorIs(t, err, store.ErrInvalidArgument)
					assert.EqualError(t, err, tt.message)

					var invalid *store.InvalidArgumentError
					require.True(t, errors.As(err, &invalid))
					assert.Equal(t, tt.field, invalid.Field)
				})
			}

			// No bucket was touched by any rejected call
			assert.Empty(t, get(t, r, "", "", ""))
			assert.Empty(t, get(t, r, "Honda", "Civic", "Blue"))
		})
	}
}

func TestGetOnEmptyRegistry(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			ids := get(t, r, "Honda", "Civic", "Blue")
			assert.NotNil(t, ids)
			assert.Empty(t, ids)

			assert.Empty(t, get(t, r, "", "", ""))
		})
	}
}

func TestPutOneEntryAllGeneralizations(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.Put("Honda", "Civic", "Blue", "123"))

			queries := [][3]string{
				{"Honda", "Civic", "Blue"},
				{"Honda", "Civic", ""},
				{"Honda", "", "Blue"},
				{"", "Civic", "Blue"},
				{"Honda", "", ""},
				{"", "Civic", ""},
				{"", "", "Blue"},
				{"", "", ""},
			}
			for _, q := range queries {
				assert.Equal(t, []string{"123"}, get(t, r, q[0], q[1], q[2]), "query %q", q)
			}
		})
	}
}

func TestPutTrimsValues(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.Put("Honda", "Civic", "Blue", "123"))
			require.NoError(t, r.Put("Honda  ", "Civic  ", " Blue ", " 456   "))

			assert.Equal(t, []string{"123", "456"}, get(t, r, "Honda", "Civic", "Blue"))
		})
	}
}

func TestPutKeepsInternalWhitespace(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.Put("Honda", "Acord", "Black Metallic", "098"))

			assert.Equal(t, []string{"098"}, get(t, r, "Honda", "Acord", "Black Metallic"))
			assert.Empty(t, get(t, r, "Honda", "Acord", "Black"))
			assert.Empty(t, get(t, r, "Honda", "Acord", "BlackMetallic"))
		})
	}
}

func TestGetDoesNotTrimLiterals(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.Put("Honda", "Civic", "Blue", "123"))

			assert.Empty(t, get(t, r, " Honda", "Civic", "Blue"))
			assert.Empty(t, get(t, r, "Honda", "Civic ", ""))
			assert.Equal(t, []string{"123"}, get(t, r, "Honda", "Civic", "\t"))
		})
	}
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.Put("Honda", "Civic", "Blue", "123"))

			ids := get(t, r, "Honda", "", "")
			ids[0] = "tampered"
			_ = append(ids, "extra")

			assert.Equal(t, []string{"123"}, get(t, r, "Honda", "", ""))
		})
	}
}

func TestGetExactMatches(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			putFleet(t, r)

			assert.Equal(t, []string{"123", "456"}, get(t, r, "Honda", "Civic", "Blue"))
			assert.Equal(t, []string{"789"}, get(t, r, "Honda", "Acord", "Black"))
			assert.Equal(t, []string{"098"}, get(t, r, "Honda", "Acord", "Black Metallic"))
			assert.Equal(t, []string{"468"}, get(t, r, "Toyota", "Corolla", "Red"))
			assert.Equal(t, []string{"654"}, get(t, r, "Toyota", "Corolla", "White"))
			assert.Equal(t, []string{"246"}, get(t, r, "Toyota", "Camry", "Silver"))
			assert.Equal(t, []string{"135"}, get(t, r, "Nissan", "Juke", "White"))
			assert.Equal(t, []string{"579"}, get(t, r, "Nissan", "Juke", "Red Metallic"))
		})
	}
}

func TestGetByWildcard(t *testing.T) {
	all := []string{"123", "456", "789", "098", "468", "654", "246", "135", "579"}

	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			putFleet(t, r)

			assert.Equal(t, []string{"123", "456"}, get(t, r, "Honda", "Civic", ""))
			assert.Equal(t, []string{"123", "456", "789", "098"}, get(t, r, "Honda", "", ""))
			assert.Equal(t, []string{"789", "098"}, get(t, r, "Honda", "Acord", ""))
			assert.Equal(t, []string{"123", "456"}, get(t, r, "", "Civic", ""))
			assert.Equal(t, []string{"123", "456"}, get(t, r, "", " ", "Blue"))
			assert.Equal(t, []string{"468", "654", "246"}, get(t, r, "Toyota", "", ""))
			assert.Equal(t, []string{"468", "654"}, get(t, r, "Toyota", "Corolla", ""))
			assert.Equal(t, []string{"468"}, get(t, r, " ", " ", "Red"))
			assert.Equal(t, []string{"135", "579"}, get(t, r, "", "Juke", ""))
			assert.Equal(t, []string{"654", "135"}, get(t, r, "", "", "White"))
			assert.Equal(t, []string{"579"}, get(t, r, "", "", "Red Metallic"))
			assert.Equal(t, []string{"654"}, get(t, r, "Toyota", "", "White"))
			assert.Equal(t, all, get(t, r, "", "", ""))
			assert.Equal(t, all, get(t, r, "", "  ", ""))
		})
	}
}

func TestSeparatorAndWildcardLiteralsDoNotCollide(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.Put("a_b", "c", "d", "1"))
			require.NoError(t, r.Put("a", "b_c", "d", "2"))
			require.NoError(t, r.Put("null", "x", "y", "3"))

			assert.Equal(t, []string{"1"}, get(t, r, "a_b", "c", ""))
			assert.Equal(t, []string{"2"}, get(t, r, "a", "b_c", ""))
			assert.Equal(t, []string{"3"}, get(t, r, "null", "", ""))
			assert.Equal(t, []string{"3"}, get(t, r, "", "x", "y"))
		})
	}
}

func TestPutLongValues(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.Put("Mercedes-Benz", "Sprinter 316 CDI Long", "Obsidian Black Metallic", "WDB9066331S123456"))

			assert.Equal(t, []string{"WDB9066331S123456"}, get(t, r, "Mercedes-Benz", "Sprinter 316 CDI Long", "Obsidian Black Metallic"))
			assert.Equal(t, []string{"WDB9066331S123456"}, get(t, r, "", "", "Obsidian Black Metallic"))
			assert.Empty(t, get(t, r, "", "", "Obsidian Black Metallic "))
		})
	}
}

func TestPutBatchIsAtomic(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			err := r.PutBatch([]store.Vehicle{
				{Manufacturer: "Honda", Model: "Civic", Color: "Blue", ID: "123"},
				{Manufacturer: "Honda", Model: "Civic", Color: " ", ID: "456"},
			})
			require.ErrorIs(t, err, store.ErrInvalidArgument)
			assert.EqualError(t, err, "Color must not be null, empty or blank.")
			assert.Empty(t, get(t, r, "", "", ""))

			require.NoError(t, r.PutBatch(fleet))
			assert.Equal(t, []string{"468", "654", "246"}, get(t, r, "Toyota", "", ""))
		})
	}
}

func TestPutBatchLargeFleet(t *testing.T) {
	const n = 12000

	manufacturers := []string{"Honda", "Toyota", "Nissan"}
	colors := []string{"Red", "White", "Black Metallic", "Silver"}

	vehicles := make([]store.Vehicle, 0, n)
	var nissanSilver []string
	for i := 0; i < n; i++ {
		v := store.Vehicle{
			Manufacturer: manufacturers[i%len(manufacturers)],
			Model:        fmt.Sprintf("Model %d", i%50),
			Color:        colors[i%len(colors)],
			ID:           fmt.Sprintf("VIN%06d", i),
		}
		if v.Manufacturer == "Nissan" && v.Color == "Silver" {
			nissanSilver = append(nissanSilver, v.ID)
		}
		vehicles = append(vehicles, v)
	}

	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.PutBatch(vehicles))

			count, err := r.Len()
			require.NoError(t, err)
			assert.Equal(t, len(vehicles), count)

			all := get(t, r, "", "", "")
			assert.Equal(t, "VIN000000", all[0])
			assert.Equal(t, fmt.Sprintf("VIN%06d", len(vehicles)-1), all[len(all)-1])

			assert.Equal(t, nissanSilver, get(t, r, "Nissan", "", "Silver"))
			assert.Equal(t, []string{"VIN000011", "VIN000161", "VIN000311"}, get(t, r, "Nissan", "Model 11", "")[:3])
		})
	}
}

func TestLen(t *testing.T) {
	for name, r := range registries(t) {
		t.Run(name, func(t *testing.T) {
			n, err := r.Len()
			require.NoError(t, err)
			assert.Zero(t, n)

			putFleet(t, r)
			require.NoError(t, r.Put("Honda", "Civic", "Blue", "123"))

			n, err = r.Len()
			require.NoError(t, err)
			assert.Equal(t, len(fleet)+1, n)
		})
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := store.NewCarRegistry(storage.NewMemoryStorage(), encoding.NewKeyEncoder())
	b := store.NewCarRegistry(storage.NewMemoryStorage(), encoding.NewKeyEncoder())

	require.NoError(t, a.Put("Honda", "Civic", "Blue", "123"))

	assert.Equal(t, []string{"123"}, get(t, a, "", "", ""))
	assert.Empty(t, get(t, b, "", "", ""))
}

// failingStorage refuses to commit
type failingStorage struct {
	store.Storage
}

type failingTxn struct {
	store.Transaction
}

var errCommit = errors.New("disk on fire")

func (s failingStorage) Begin(writable bool) (store.Transaction, error) {
	txn, err := s.Storage.Begin(writable)
	if err != nil {
		return nil, err
	}
	return failingTxn{txn}, nil
}

func (t failingTxn) Commit() error {
	return errCommit
}

func TestPutSurfacesStorageErrors(t *testing.T) {
	r := store.NewCarRegistry(failingStorage{storage.NewMemoryStorage()}, encoding.NewKeyEncoder())

	err := r.Put("Honda", "Civic", "Blue", "123")
	require.ErrorIs(t, err, errCommit)
	assert.NotErrorIs(t, err, store.ErrInvalidArgument)

	assert.Empty(t, get(t, r, "", "", ""))
}
