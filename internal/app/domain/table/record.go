package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var (
	ErrInvalidJSON = errors.New("invalid json")
	ErrNotObject   = errors.New("json value is not an object")
)

// Record is an ordered mapping of field names to values. Keys keep the order
// they were first set in, which for decoded records is document order.
type Record struct {
	keys []string
	vals map[string]Value
}

func NewRecord() *Record {
	return &Record{vals: make(map[string]Value)}
}

// ParseRecord decodes a JSON object into a Record.
func ParseRecord(raw []byte) (*Record, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	return FromJSON(gjson.ParseBytes(raw))
}

func FromJSON(res gjson.Result) (*Record, error) {
	if !res.IsObject() {
		return nil, ErrNotObject
	}
	return fromObject(res), nil
}

func fromObject(res gjson.Result) *Record {
	r := NewRecord()
	res.ForEach(func(key, value gjson.Result) bool {
		r.Set(key.String(), valueOf(value))
		return true
	})
	return r
}

func valueOf(v gjson.Result) Value {
	switch v.Type {
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(v.Raw)
	case gjson.String:
		return String(v.Str)
	case gjson.JSON:
		if v.IsObject() {
			return Object(fromObject(v))
		}
		return Array(string(pretty.Ugly([]byte(v.Raw))))
	}
	return Null()
}

// Set stores v under key. A new key is appended; an existing key keeps its position.
func (r *Record) Set(key string, v Value) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Text returns the rendered value of key, or "" when the key is missing or null.
func (r *Record) Text(key string) string {
	return r.vals[key].String()
}

func (r *Record) Has(key string) bool {
	_, ok := r.vals[key]
	return ok
}

func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r *Record) Len() int {
	return len(r.keys)
}

func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if len(r.keys) != len(o.keys) {
		return false
	}
	for i, k := range r.keys {
		if o.keys[i] != k || !r.vals[k].Equal(o.vals[k]) {
			return false
		}
	}
	return true
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := r.vals[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// without copies r minus the given keys.
func (r *Record) without(drop map[string]struct{}) *Record {
	out := &Record{
		keys: make([]string, 0, len(r.keys)),
		vals: make(map[string]Value, len(r.vals)),
	}
	for _, k := range r.keys {
		if _, ok := drop[k]; ok {
			continue
		}
		out.keys = append(out.keys, k)
		out.vals[k] = r.vals[k]
	}
	return out
}

func (r *Record) renamed(mapping map[string]string) *Record {
	out := &Record{
		keys: make([]string, 0, len(r.keys)),
		vals: make(map[string]Value, len(r.vals)),
	}
	for _, k := range r.keys {
		name := k
		if to, ok := mapping[k]; ok {
			name = to
		}
		out.keys = append(out.keys, name)
		out.vals[name] = r.vals[k]
	}
	return out
}
