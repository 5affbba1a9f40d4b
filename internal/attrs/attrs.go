// Package attrs holds the immutable table of named static parameters attached
// to a graph node at build time ("min", "max", "dims", "axes", "starts", ...).
package attrs

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/born-ml/tensorgrad/internal/tensor"
)

// Type tags the payload of an Attribute.
type Type int

// Attribute payload types.
const (
	TypeFloat Type = iota // scalar value
	TypeInts              // integer-shape value
)

// String returns the attribute type name.
func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeInts:
		return "ints"
	default:
		return "unknown"
	}
}

// Attribute is one named static parameter.
type Attribute struct {
	Name string
	Type Type
	F    float64 // FLOAT value
	Ints []int   // INTS value
}

// Float builds a scalar attribute.
func Float(name string, v float64) Attribute {
	return Attribute{Name: name, Type: TypeFloat, F: v}
}

// Ints builds an integer-shape attribute.
func Ints(name string, values ...int) Attribute {
	return Attribute{Name: name, Type: TypeInts, Ints: slices.Clone(values)}
}

// Vector is an immutable name → Attribute table. The zero value is an empty
// table.
type Vector struct {
	byName map[string]Attribute
}

// New builds a Vector. Duplicate names are an attribute error.
func New(attributes ...Attribute) (Vector, error) {
	v := Vector{byName: make(map[string]Attribute, len(attributes))}
	for _, a := range attributes {
		if a.Name == "" {
			return Vector{}, tensor.AttributeErrorf("attribute with empty name")
		}
		if _, dup := v.byName[a.Name]; dup {
			return Vector{}, tensor.AttributeErrorf("duplicate attribute %q", a.Name)
		}
		a.Ints = slices.Clone(a.Ints)
		v.byName[a.Name] = a
	}
	return v, nil
}

// MustNew is New that panics on error; meant for literals in tests and
// static graph definitions.
func MustNew(attributes ...Attribute) Vector {
	v, err := New(attributes...)
	if err != nil {
		panic(err)
	}
	return v
}

// Len returns the number of attributes.
func (v Vector) Len() int {
	return len(v.byName)
}

// Has reports whether name is present.
func (v Vector) Has(name string) bool {
	_, ok := v.byName[name]
	return ok
}

// Names returns the attribute names in sorted order.
func (v Vector) Names() []string {
	names := maps.Keys(v.byName)
	slices.Sort(names)
	return names
}

// Float returns a scalar attribute. ok is false when the attribute is absent;
// a present attribute of another type is an error.
func (v Vector) Float(name string) (value float64, ok bool, err error) {
	a, ok := v.byName[name]
	if !ok {
		return 0, false, nil
	}
	if a.Type != TypeFloat {
		return 0, true, tensor.AttributeErrorf("attribute %q is %s, expected float", name, a.Type)
	}
	return a.F, true, nil
}

// FloatOr returns a scalar attribute or defaultVal when absent.
func (v Vector) FloatOr(name string, defaultVal float64) (float64, error) {
	f, ok, err := v.Float(name)
	if err != nil || !ok {
		return defaultVal, err
	}
	return f, nil
}

// Ints returns a copy of an integer-shape attribute. ok is false when the
// attribute is absent; a present attribute of another type is an error.
func (v Vector) Ints(name string) (values []int, ok bool, err error) {
	a, ok := v.byName[name]
	if !ok {
		return nil, false, nil
	}
	if a.Type != TypeInts {
		return nil, true, tensor.AttributeErrorf("attribute %q is %s, expected ints", name, a.Type)
	}
	return slices.Clone(a.Ints), true, nil
}

// IntsOr returns an integer-shape attribute or defaultVal when absent.
func (v Vector) IntsOr(name string, defaultVal []int) ([]int, error) {
	ints, ok, err := v.Ints(name)
	if err != nil || !ok {
		return defaultVal, err
	}
	return ints, nil
}

// RequireInts returns an integer-shape attribute that must be present.
func (v Vector) RequireInts(name string) ([]int, error) {
	ints, ok, err := v.Ints(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, tensor.AttributeErrorf("required attribute %q is missing", name)
	}
	return ints, nil
}

// Only fails if the table holds a name outside allowed.
func (v Vector) Only(allowed ...string) error {
	for _, name := range v.Names() {
		if !slices.Contains(allowed, name) {
			return tensor.AttributeErrorf("unknown attribute %q (recognized: %s)", name, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// String formats the table as "{name=value, ...}".
func (v Vector) String() string {
	parts := make([]string, 0, v.Len())
	for _, name := range v.Names() {
		a := v.byName[name]
		switch a.Type {
		case TypeFloat:
			parts = append(parts, fmt.Sprintf("%s=%g", name, a.F))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", name, a.Ints))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
