package transcript

import (
	"reflect"
	"strings"
)

// DictConverter is the explicit conversion step some caption entry types
// expose when their text is not reachable as a plain field.
type DictConverter interface {
	ToMap() map[string]any
}

// Container field names checked, in order, before iterating entries. Upstream
// caption backends have wrapped the entry list under each of these at some
// point.
var (
	containerKeys   = []string{"snippets", "segments", "items"}
	containerFields = []string{"Snippets", "Segments", "Items"}
)

// Normalize flattens a raw transcript response of any known shape into a
// single space-joined, trimmed string. It never fails: absent, empty or
// unrecognized input yields "".
func Normalize(raw any) string {
	if raw == nil {
		return ""
	}
	seq := reflect.ValueOf(unwrap(raw))
	if !seq.IsValid() || (seq.Kind() != reflect.Slice && seq.Kind() != reflect.Array) {
		return ""
	}
	texts := make([]string, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		if t := entryText(seq.Index(i).Interface()); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.TrimSpace(strings.Join(texts, " "))
}

// unwrap peels one known container layer off the response, if present.
func unwrap(raw any) any {
	if m, ok := raw.(map[string]any); ok {
		for _, k := range containerKeys {
			if inner, present := m[k]; present {
				return inner
			}
		}
		return raw
	}
	v := reflect.ValueOf(raw)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		for _, name := range containerFields {
			if f := v.FieldByName(name); f.IsValid() && f.CanInterface() {
				return f.Interface()
			}
		}
	}
	return raw
}

// entryText extracts the caption text of one entry, defaulting to "" at every
// step: mapping lookup first, then an exported Text field, then the explicit
// conversion operation.
func entryText(entry any) string {
	switch m := entry.(type) {
	case nil:
		return ""
	case map[string]any:
		t, _ := m["text"].(string)
		return t
	case map[string]string:
		return m["text"]
	}

	v := reflect.ValueOf(entry)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		if f := v.FieldByName("Text"); f.IsValid() && f.Kind() == reflect.String && f.String() != "" {
			return f.String()
		}
	}

	if c, ok := entry.(DictConverter); ok {
		if m := convert(c); m != nil {
			t, _ := m["text"].(string)
			return t
		}
	}
	return ""
}

// convert runs the entry's conversion, treating a panicking implementation the
// same as an absent one.
func convert(c DictConverter) (m map[string]any) {
	defer func() {
		if recover() != nil {
			m = nil
		}
	}()
	return c.ToMap()
}
