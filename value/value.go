// Package value provides a lossless JSON value used to store literal
// properties of graph nodes.
//
// Value is a closed sum over null, boolean, number, string, array and object.
// Objects keep their keys in insertion order so serialized graphs are
// deterministic. Numbers keep their literal text ("19.99" stays "19.99").
package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string // string payload or number literal
	arr  []Value
	obj  *Map
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number value from its JSON literal text.
func Number(raw string) Value { return Value{kind: KindNumber, s: raw} }

// Float returns a number value formatted with the shortest representation.
func Float(f float64) Value {
	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

// Int returns an integer number value.
func Int(i int64) Value { return Number(strconv.FormatInt(i, 10)) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array value holding items in order.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Object returns an object value. A nil map yields an empty object.
func Object(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindObject, obj: m}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsNumber returns the literal text of a number.
func (v Value) AsNumber() (string, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.s, true
}

// AsFloat parses a number value, or a string holding a finite number.
// A decimal comma is accepted ("12,50"). NaN and infinities are rejected.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindNumber, KindString:
		raw := strings.TrimSpace(strings.ReplaceAll(v.s, ",", "."))
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Items returns the elements of an array, or nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Fields returns the mapping of an object, or nil for other kinds.
func (v Value) Fields() *Map {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Get looks up key on an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Text coerces v into display text.
//
// Strings are returned as-is, numbers as their literal and booleans as
// "true"/"false". Arrays yield the first element with non-empty text. Objects
// yield the text of "@value", falling back to "name". Null has no text.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindNumber:
		return v.s, true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindArray:
		for _, item := range v.arr {
			if text, ok := item.Text(); ok && text != "" {
				return text, true
			}
		}
		return "", false
	case KindObject:
		if inner, ok := v.obj.Get("@value"); ok {
			return inner.Text()
		}
		if inner, ok := v.obj.Get("name"); ok {
			return inner.Text()
		}
		return "", false
	case KindNull:
		return "", false
	default:
		return "", false
	}
}

// Texts returns the text of every element of an array, or the text of v
// itself for scalars. Elements without text are skipped.
func (v Value) Texts() []string {
	switch v.kind {
	case KindArray:
		out := make([]string, 0, len(v.arr))
		for _, item := range v.arr {
			out = append(out, item.Texts()...)
		}
		return out
	case KindNull:
		return nil
	default:
		if text, ok := v.Text(); ok && text != "" {
			return []string{text}
		}
		return nil
	}
}

// Equal reports deep equality. Object key order is ignored.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber, KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		equal := true
		a.obj.Range(func(key string, av Value) bool {
			bv, ok := b.obj.Get(key)
			if !ok || !Equal(av, bv) {
				equal = false
				return false
			}
			return true
		})
		return equal
	default:
		return false
	}
}
