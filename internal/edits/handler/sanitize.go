package handler

import (
	"reflect"
	"strings"
)

// sanitize trims whitespace from every string reachable from v: fields,
// nested structs, and slices of either.
func sanitize(v any) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return
	}
	sanitizeValue(val.Elem())
}

func sanitizeValue(val reflect.Value) {
	switch val.Kind() {
	case reflect.String:
		if val.CanSet() {
			val.SetString(strings.TrimSpace(val.String()))
		}
	case reflect.Struct:
		for i := 0; i < val.NumField(); i++ {
			if field := val.Field(i); field.CanSet() {
				sanitizeValue(field)
			}
		}
	case reflect.Slice:
		for j := 0; j < val.Len(); j++ {
			sanitizeValue(val.Index(j))
		}
	case reflect.Ptr:
		if !val.IsNil() {
			sanitizeValue(val.Elem())
		}
	}
}
