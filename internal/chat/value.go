package chat

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Field is one key/value pair of a JSON object, kept in document order.
type Field struct {
	Key   string
	Value any
}

// Object is a decoded JSON object that remembers the order of its keys.
// Values are nil, string, float64, bool, []any or Object.
type Object []Field

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the object's keys in document order.
func (o Object) Keys() []string {
	out := make([]string, 0, len(o))
	for _, f := range o {
		out = append(out, f.Key)
	}
	return out
}

// Values returns the object's values in document order.
func (o Object) Values() []any {
	out := make([]any, 0, len(o))
	for _, f := range o {
		out = append(out, f.Value)
	}
	return out
}

// Decode parses a JSON document into the ordered value tree.
func Decode(body []byte) (any, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(body)), nil
}

// DecodeObject parses a JSON document that must be an object.
func DecodeObject(body []byte) (Object, error) {
	v, err := Decode(body)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func fromResult(r gjson.Result) any {
	switch {
	case r.IsObject():
		var obj Object
		index := make(map[string]int)
		r.ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			// a repeated key keeps its first position and takes the last value
			if i, dup := index[key]; dup {
				obj[i].Value = fromResult(v)
				return true
			}
			index[key] = len(obj)
			obj = append(obj, Field{Key: key, Value: fromResult(v)})
			return true
		})
		if obj == nil {
			obj = Object{}
		}
		return obj
	case r.IsArray():
		items := r.Array()
		out := make([]any, 0, len(items))
		for _, it := range items {
			out = append(out, fromResult(it))
		}
		return out
	}
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Num
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return nil
	}
}

// Stringify renders a decoded value as display text. The second result is
// false for absent values (nil), which callers render as an empty cell.
func Stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case float64:
		return formatNumber(t), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			s, _ := Stringify(it)
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	case Object:
		return t.JSON(), true
	default:
		return "", false
	}
}

// JSON re-encodes the object compactly, preserving key order.
func (o Object) JSON() string {
	var b strings.Builder
	writeJSON(&b, o)
	return b.String()
}

func writeJSON(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case string:
		q, _ := json.Marshal(t)
		b.Write(q)
	case float64:
		b.WriteString(formatNumber(t))
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case []any:
		b.WriteByte('[')
		for i, it := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, it)
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, f := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			q, _ := json.Marshal(f.Key)
			b.Write(q)
			b.WriteByte(':')
			writeJSON(b, f.Value)
		}
		b.WriteByte('}')
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// truthy reports whether a value counts as "present" for alias resolution:
// non-empty strings, non-zero numbers, true, and any object or array.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}
