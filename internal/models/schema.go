package models

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"auction-marketplace/internal/marketerrors"
)

// Kind is the storage type of an entity field
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	Time
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "integer"
	case Float:
		return "number"
	case Bool:
		return "boolean"
	case Time:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Field describes one column of an entity
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Enum     []string
	// Min and Max bound numeric fields when Bounded is set
	Min, Max float64
	Bounded  bool
	// Default is applied by constructors when the field is absent
	Default any
	// Now defaults a timestamp field to the construction time
	Now bool
	// Managed fields are maintained by the store and rejected in client payloads
	Managed bool
}

// Schema lists the fields an entity accepts, in column order
type Schema struct {
	Entity string
	Fields []Field
}

// system fields are managed by the store, never by partial updates
var systemFields = map[string]Kind{
	"id":         Int,
	"created_at": Time,
	"updated_at": Time,
}

// Field returns the named field definition
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// CheckWritable rejects a client payload that sets a managed field
func (s Schema) CheckWritable(input map[string]any) error {
	for _, f := range s.Fields {
		if _, ok := input[f.Name]; ok && f.Managed {
			return &marketerrors.ReadOnlyFieldError{Entity: s.Entity, Field: f.Name}
		}
	}
	return nil
}

// Names returns the field names in column order
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Coerce validates input against the schema and returns the values converted to their
// storage types. In partial mode required fields may be absent and system fields are dropped;
// otherwise every required field must be present.
func (s Schema) Coerce(input map[string]any, partial bool) (map[string]any, error) {
	out := make(map[string]any, len(input))

	for _, f := range s.Fields {
		raw, ok := input[f.Name]
		if !ok {
			if f.Required && !partial {
				return nil, &marketerrors.FieldTypeError{Entity: s.Entity, Field: f.Name, Expected: f.Kind.String(), Actual: "missing"}
			}
			continue
		}
		if raw == nil {
			if f.Required {
				return nil, &marketerrors.FieldTypeError{Entity: s.Entity, Field: f.Name, Expected: f.Kind.String(), Actual: "null"}
			}
			out[f.Name] = nil
			continue
		}

		v, err := s.convert(f, raw)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}

	unknown := make([]string, 0)
	for key := range input {
		if _, known := s.Field(key); known {
			continue
		}
		unknown = append(unknown, key)
	}
	sort.Strings(unknown)

	for _, key := range unknown {
		kind, system := systemFields[key]
		if !system {
			return nil, &marketerrors.FieldTypeError{Entity: s.Entity, Field: key, Actual: typeName(input[key])}
		}
		if partial || input[key] == nil {
			continue
		}
		v, err := s.convert(Field{Name: key, Kind: kind}, input[key])
		if err != nil {
			return nil, err
		}
		out[key] = v
	}

	return out, nil
}

func (s Schema) convert(f Field, raw any) (any, error) {
	typeErr := &marketerrors.FieldTypeError{Entity: s.Entity, Field: f.Name, Expected: f.Kind.String(), Actual: typeName(raw)}

	var v any
	switch f.Kind {
	case String:
		str, ok := raw.(string)
		if !ok {
			return nil, typeErr
		}
		v = str
	case Int:
		n, ok := toInt(raw)
		if !ok {
			return nil, typeErr
		}
		v = n
	case Float:
		n, ok := toFloat(raw)
		if !ok {
			return nil, typeErr
		}
		v = n
	case Bool:
		b, ok := raw.(bool)
		if !ok {
			return nil, typeErr
		}
		v = b
	case Time:
		t, ok, err := toTime(raw)
		if !ok {
			return nil, typeErr
		}
		if err != nil {
			return nil, &marketerrors.FieldValueError{Entity: s.Entity, Field: f.Name, Value: raw}
		}
		v = t
	}

	if len(f.Enum) > 0 {
		if str, _ := v.(string); !slices.Contains(f.Enum, str) {
			return nil, &marketerrors.FieldValueError{Entity: s.Entity, Field: f.Name, Value: v, Allowed: f.Enum}
		}
	}

	if f.Bounded {
		n, _ := toFloat(v)
		if n < f.Min || n > f.Max {
			return nil, &marketerrors.FieldValueError{Entity: s.Entity, Field: f.Name, Value: v}
		}
	}

	return v, nil
}

func toInt(raw any) (int64, bool) {
	switch n := raw.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// toTime reports ok=false when raw is not a timestamp-like type at all
func toTime(raw any) (time.Time, bool, error) {
	switch t := raw.(type) {
	case time.Time:
		return t.UTC(), true, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, false, nil
		}
		return t.UTC(), true, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), true, nil
			}
		}
		return time.Time{}, true, fmt.Errorf("unrecognised timestamp %q", t)
	default:
		return time.Time{}, false, nil
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64, json.Number:
		return "number"
	case int, int32, int64:
		return "integer"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case time.Time, *time.Time:
		return "timestamp"
	default:
		return fmt.Sprintf("%T", v)
	}
}
