package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Cycle marks a pointer that leads back to an object being converted.
const Cycle = "<cycle>"

// Generic converts a decoded value into plain maps, slices and scalars for
// export. Struct fields are keyed by their yaml tag name, or the Go name.
// Objects reachable through several pointers are repeated; a pointer back to
// an enclosing object becomes Cycle.
func Generic(v any) any {
	rv, ok := v.(reflect.Value)
	if !ok {
		rv = reflect.ValueOf(v)
	}
	return generic(rv, make(map[visit]bool))
}

type visit struct {
	addr uintptr
	typ  reflect.Type
}

func generic(v reflect.Value, visiting map[visit]bool) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		key := visit{addr: v.Pointer(), typ: v.Type()}
		if visiting[key] {
			return Cycle
		}
		visiting[key] = true
		out := generic(v.Elem(), visiting)
		delete(visiting, key)
		return out
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return generic(v.Elem(), visiting)
	case reflect.Struct:
		t := v.Type()
		out := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() || sf.Tag.Get("wire") == "-" {
				continue
			}
			out[fieldName(sf)] = generic(v.Field(i), visiting)
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Bytes()
		}
		fallthrough
	case reflect.Array:
		out := make([]any, v.Len())
		for i := range out {
			out[i] = generic(v.Index(i), visiting)
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = generic(iter.Value(), visiting)
		}
		return out
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	default:
		return v.Type().String()
	}
}

func fieldName(sf reflect.StructField) string {
	if name, _, _ := strings.Cut(sf.Tag.Get("yaml"), ","); name != "" && name != "-" {
		return name
	}
	return sf.Name
}
