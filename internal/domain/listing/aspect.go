package listing

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Aspect Value Objects
// ---------------------------------------------------------------------------

// AspectType represents the declared type of a category aspect
type AspectType string

const (
	// AspectTypeString represents a free-text or enumerated string aspect
	AspectTypeString AspectType = "string"
	// AspectTypeInteger represents a whole-number aspect
	AspectTypeInteger AspectType = "integer"
	// AspectTypeFloat represents a fractional-number aspect
	AspectTypeFloat AspectType = "float"
	// AspectTypeList represents a multi-value aspect
	AspectTypeList AspectType = "list"
	// AspectTypeMap represents a nested-object aspect
	AspectTypeMap AspectType = "map"
)

// IsValid returns true if the aspect type is valid
func (t AspectType) IsValid() bool {
	switch t {
	case AspectTypeString, AspectTypeInteger, AspectTypeFloat, AspectTypeList, AspectTypeMap:
		return true
	default:
		return false
	}
}

// String returns the string representation of AspectType
func (t AspectType) String() string {
	return string(t)
}

// AspectField describes one named, typed attribute a marketplace category
// accepts for a listing. An empty AllowedValues set means any value of the
// declared type is accepted.
type AspectField struct {
	// Name is the aspect name as the marketplace spells it
	Name string
	// Type is the declared value type
	Type AspectType
	// Required indicates the aspect must be present on every listing
	Required bool
	// AllowedValues restricts the value to an enumerated set when non-empty
	AllowedValues []string
}

// HasAllowedValues returns true if the field constrains values to an enumeration
func (f AspectField) HasAllowedValues() bool {
	return len(f.AllowedValues) > 0
}

// Allows reports whether v is a member of the field's enumeration.
// Fields without an enumeration allow everything.
func (f AspectField) Allows(v string) bool {
	if !f.HasAllowedValues() {
		return true
	}
	for _, allowed := range f.AllowedValues {
		if allowed == v {
			return true
		}
	}
	return false
}

// AspectValue is the validated runtime counterpart of an AspectField
type AspectValue struct {
	// Name is the aspect name
	Name string
	// Value is the submitted value, already type-checked
	Value any
	// Required mirrors the field's Required flag
	Required bool
}

// ---------------------------------------------------------------------------
// ProductStructure
// ---------------------------------------------------------------------------

// ProductStructure is the set of aspect fields one resolved category accepts,
// keyed by aspect name. It is rebuilt on every category resolution and never
// cached by this layer.
type ProductStructure struct {
	fields map[string]AspectField
	names  []string
}

// NewProductStructure builds a ProductStructure from the given fields.
// Field names must be unique.
func NewProductStructure(fields []AspectField) (*ProductStructure, error) {
	s := &ProductStructure{
		fields: make(map[string]AspectField, len(fields)),
		names:  make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: aspect field without a name", ErrInvalidAspectField)
		}
		if !f.Type.IsValid() {
			return nil, fmt.Errorf("%w: aspect %q has unknown type %q", ErrInvalidAspectField, f.Name, f.Type)
		}
		if _, exists := s.fields[f.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate aspect %q", ErrInvalidAspectField, f.Name)
		}
		s.fields[f.Name] = f
		s.names = append(s.names, f.Name)
	}
	return s, nil
}

// Fields returns the aspect fields in declaration order
func (s *ProductStructure) Fields() []AspectField {
	out := make([]AspectField, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.fields[name])
	}
	return out
}

// Field returns the field with the given name, if declared
func (s *ProductStructure) Field(name string) (AspectField, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Len returns the number of declared fields
func (s *ProductStructure) Len() int {
	return len(s.names)
}

// Validate checks a raw aspect map against the declared field set and returns
// one AspectValue per submitted key. It fails when raw contains an undeclared
// key, a value of the wrong type, a value outside a field's enumeration, or
// when any required field is never supplied. The missing-required message
// lists names in sorted order. Output ordering carries no meaning.
func (s *ProductStructure) Validate(raw map[string]any) ([]AspectValue, error) {
	values := make([]AspectValue, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for name, value := range raw {
		field, declared := s.fields[name]
		if !declared {
			return nil, fmt.Errorf("%w: unexpected aspect %q", ErrAspectValidation, name)
		}
		if !matchesAspectType(value, field.Type) {
			return nil, fmt.Errorf("%w: aspect %q expects %s, got %T", ErrAspectValidation, name, field.Type, value)
		}
		if field.HasAllowedValues() {
			str, ok := value.(string)
			if !ok || !field.Allows(str) {
				return nil, fmt.Errorf("%w: aspect %q does not allow value %v", ErrAspectValidation, name, value)
			}
		}
		seen[name] = true
		values = append(values, AspectValue{Name: name, Value: value, Required: field.Required})
	}

	var missing []string
	for _, name := range s.names {
		if s.fields[name].Required && !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: missing required aspects: %s", ErrAspectValidation, strings.Join(missing, ", "))
	}
	return values, nil
}

// matchesAspectType checks a runtime value against a declared aspect type.
// JSON decoding yields float64 for every number, so integer fields accept a
// float64 carrying a whole value. Containers are checked for container type
// only, not element-wise.
func matchesAspectType(value any, t AspectType) bool {
	switch t {
	case AspectTypeString:
		_, ok := value.(string)
		return ok
	case AspectTypeInteger:
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			return v == math.Trunc(v)
		default:
			return false
		}
	case AspectTypeFloat:
		switch value.(type) {
		case float32, float64, int, int64:
			return true
		default:
			return false
		}
	case AspectTypeList:
		switch value.(type) {
		case []any, []string:
			return true
		default:
			return false
		}
	case AspectTypeMap:
		_, ok := value.(map[string]any)
		return ok
	default:
		return false
	}
}
