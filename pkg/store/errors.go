package store

import (
	"errors"
	"strings"
)

// ErrInvalidArgument is matched by every validation failure returned from Put
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError names the first field of a Put call that failed validation
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// Field names reported by InvalidArgumentError
const (
	FieldManufacturer = "manufacturer"
	FieldModel        = "model"
	FieldColor        = "color"
	FieldVehicleID    = "vehicle_id"
)

var fieldMessages = map[string]string{
	FieldManufacturer: "Manufacturer must not be null, empty or blank.",
	FieldModel:        "Model must not be null, empty or blank.",
	FieldColor:        "Color must not be null, empty or blank.",
	FieldVehicleID:    "Vehicle Id must not be null, empty or blank.",
}

// checkNotBlank returns value trimmed of surrounding white space, or an
// InvalidArgumentError for field when nothing is left.
func checkNotBlank(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &InvalidArgumentError{Field: field, Message: fieldMessages[field]}
	}
	return trimmed, nil
}
