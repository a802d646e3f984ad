package reflectx

import (
	"reflect"
	"strings"
)

// TagValue looks up tag key on the named field of v (struct, pointer to
// struct or reflect.Type).
func TagValue(v any, field, key string) (string, bool) {
	sf, ok := LookupField(typeOf(v), field)
	if !ok {
		return "", false
	}
	return sf.Tag.Lookup(key)
}

// FieldsWithTag returns every visible field of v that carries tag key,
// in declaration order.
func FieldsWithTag(v any, key string) []reflect.StructField {
	t := IndirectType(typeOf(v))
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var out []reflect.StructField
	for _, sf := range reflect.VisibleFields(t) {
		if _, ok := sf.Tag.Lookup(key); ok {
			out = append(out, sf)
		}
	}
	return out
}

// HasTag reports whether the comma-separated tag key of f contains value
// (case-insensitive). `mapper:"audit,-"` has both "audit" and "-".
func HasTag(f reflect.StructField, key, value string) bool {
	tag, ok := f.Tag.Lookup(key)
	if !ok {
		return false
	}
	for _, part := range strings.Split(tag, ",") {
		if strings.EqualFold(strings.TrimSpace(part), value) {
			return true
		}
	}
	return false
}

// DisplayName returns the human name of the named field of v.
// Priority: display tag > json tag name > field name.
func DisplayName(v any, field string) string {
	sf, ok := LookupField(typeOf(v), field)
	if !ok {
		return field
	}
	return FieldDisplayName(sf)
}

// FieldDisplayName applies the DisplayName rule to a struct field. It
// returns "-" when the json tag disables the field.
func FieldDisplayName(sf reflect.StructField) string {
	if d := sf.Tag.Get("display"); d != "" {
		return d
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		name, _, _ := strings.Cut(jt, ",")
		if name != "" {
			return name
		}
	}
	return sf.Name
}

// StructToMap flattens the exported fields of v into a map keyed by
// FieldDisplayName. Fields disabled with json:"-" are skipped.
func StructToMap(v any) map[string]any {
	sv, err := structValue(reflect.ValueOf(v))
	if err != nil {
		return nil
	}
	out := make(map[string]any)
	for _, sf := range reflect.VisibleFields(sv.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name := FieldDisplayName(sf)
		if name == "-" {
			continue
		}
		fv, err := sv.FieldByIndexErr(sf.Index)
		if err != nil || !fv.CanInterface() {
			continue
		}
		out[name] = fv.Interface()
	}
	return out
}

func typeOf(v any) reflect.Type {
	if t, ok := v.(reflect.Type); ok {
		return t
	}
	return reflect.TypeOf(v)
}
