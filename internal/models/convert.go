package models

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// construct validates fields against the schema, fills defaults and decodes the result into a new T
func construct[T any](s Schema, fields map[string]any) (*T, error) {
	values, err := s.Coerce(fields, false)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, f := range s.Fields {
		if _, ok := values[f.Name]; ok {
			continue
		}
		switch {
		case f.Default != nil:
			values[f.Name] = f.Default
		case f.Now:
			values[f.Name] = now
		}
	}
	for _, name := range []string{"created_at", "updated_at"} {
		if _, ok := values[name]; !ok {
			values[name] = now
		}
	}

	out := new(T)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return nil, fmt.Errorf("build %s decoder: %w", s.Entity, err)
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Entity, err)
	}
	return out, nil
}

// toMap returns the json-tagged fields of a struct as a map. Pointers are dereferenced and
// timestamps are rendered as RFC 3339 strings.
func toMap(v any) map[string]any {
	rv := reflect.Indirect(reflect.ValueOf(v))
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		out[name] = plain(rv.Field(i))
	}
	return out
}

func plain(fv reflect.Value) any {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}
	if t, ok := fv.Interface().(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return fv.Interface()
}
