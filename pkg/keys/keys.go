package keys

import (
	"strings"
)

const (
	// Wildcard marks an unspecified dimension in the rendered form of a key
	Wildcard = "null"

	// Separator joins the rendered dimensions of a key
	Separator = "_"

	// Dimensions is the fixed number of attributes in a triple
	Dimensions = 3

	// SubsetCount is the number of keys generated for one triple (2^Dimensions)
	SubsetCount = 1 << Dimensions
)

// Dimension identifies a position inside a Triple
type Dimension int

const (
	Manufacturer Dimension = iota
	Model
	Color
)

func (d Dimension) String() string {
	switch d {
	case Manufacturer:
		return "manufacturer"
	case Model:
		return "model"
	case Color:
		return "color"
	default:
		return "unknown"
	}
}

// Triple is the ordered (manufacturer, model, color) key used to classify a vehicle id
type Triple struct {
	Manufacturer string
	Model        string
	Color        string
}

// NewTriple creates a new triple
func NewTriple(manufacturer, model, color string) Triple {
	return Triple{Manufacturer: manufacturer, Model: model, Color: color}
}

// At returns the value stored at the given dimension
func (t Triple) At(d Dimension) string {
	switch d {
	case Manufacturer:
		return t.Manufacturer
	case Model:
		return t.Model
	case Color:
		return t.Color
	default:
		return ""
	}
}

func (t Triple) String() string {
	return "[" + t.Manufacturer + ", " + t.Model + ", " + t.Color + "]"
}

// Mask is the set of dimensions a SubsetKey keeps literal
type Mask uint8

const (
	MaskNone         Mask = 0
	MaskManufacturer Mask = 1 << Manufacturer
	MaskModel        Mask = 1 << Model
	MaskColor        Mask = 1 << Color
	MaskAll          Mask = MaskManufacturer | MaskModel | MaskColor
)

// Has reports whether the dimension is kept literal
func (m Mask) Has(d Dimension) bool {
	return m&(1<<d) != 0
}

// SubsetKey identifies one bucket of the index. Dimensions outside Mask are
// wildcards and always hold the empty string, so two keys compare equal
// exactly when they keep the same dimensions with the same values.
type SubsetKey struct {
	Mask   Mask
	Values [Dimensions]string
}

// NewSubsetKey builds the key that keeps the dimensions in mask from t
func NewSubsetKey(t Triple, mask Mask) SubsetKey {
	k := SubsetKey{Mask: mask & MaskAll}
	for d := Manufacturer; d <= Color; d++ {
		if k.Mask.Has(d) {
			k.Values[d] = t.At(d)
		}
	}
	return k
}

// IsWildcard reports whether the dimension is unspecified
func (k SubsetKey) IsWildcard(d Dimension) bool {
	return !k.Mask.Has(d)
}

// String renders the key as manufacturer_model_color with wildcards as "null"
func (k SubsetKey) String() string {
	var sb strings.Builder
	for d := Manufacturer; d <= Color; d++ {
		if d > Manufacturer {
			sb.WriteString(Separator)
		}
		if k.Mask.Has(d) {
			sb.WriteString(k.Values[d])
		} else {
			sb.WriteString(Wildcard)
		}
	}
	return sb.String()
}

// Subsets returns every key a triple is reachable under: the seven
// non-empty subsets of its dimensions followed by the fully wildcarded key.
func Subsets(t Triple) [SubsetCount]SubsetKey {
	return [SubsetCount]SubsetKey{
		NewSubsetKey(t, MaskManufacturer),
		NewSubsetKey(t, MaskManufacturer|MaskModel),
		NewSubsetKey(t, MaskManufacturer|MaskModel|MaskColor),
		NewSubsetKey(t, MaskManufacturer|MaskColor),
		NewSubsetKey(t, MaskModel),
		NewSubsetKey(t, MaskModel|MaskColor),
		NewSubsetKey(t, MaskColor),
		NewSubsetKey(t, MaskNone),
	}
}

// QueryKey normalizes a partial lookup into the single key it addresses.
// Empty or whitespace-only values become wildcards. Other values are used
// as given, without trimming.
func QueryKey(manufacturer, model, color string) SubsetKey {
	t := NewTriple(manufacturer, model, color)
	mask := MaskNone
	for d := Manufacturer; d <= Color; d++ {
		if !IsBlank(t.At(d)) {
			mask |= 1 << d
		}
	}
	return NewSubsetKey(t, mask)
}

// IsBlank reports whether s is empty or made only of white space
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
