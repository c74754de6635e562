package table

import (
	"encoding/json"
	"strconv"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// Value is a single JSON value of a record field. Numbers and arrays keep their
// compact JSON text so nothing is lost to float conversion.
type Value struct {
	kind Kind
	str  string
	b    bool
	obj  *Record
}

func Null() Value {
	return Value{}
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number wraps a JSON number literal such as "42" or "1.5e3".
func Number(literal string) Value {
	return Value{kind: KindNumber, str: literal}
}

func Int(n int64) Value {
	return Number(strconv.FormatInt(n, 10))
}

func Object(r *Record) Value {
	if r == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: r}
}

// Array wraps compact JSON array text.
func Array(raw string) Value {
	return Value{kind: KindArray, str: raw}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Record returns the nested record of an object value.
func (v Value) Record() (*Record, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// String renders the value as a delimited-text cell.
func (v Value) String() string {
	switch v.kind {
	case KindString, KindNumber, KindArray:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindObject:
		raw, err := v.obj.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(raw)
	}
	return ""
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindObject:
		return v.obj.Equal(o.obj)
	}
	return v.str == o.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber, KindArray:
		return []byte(v.str), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindObject:
		return v.obj.MarshalJSON()
	}
	return []byte("null"), nil
}
