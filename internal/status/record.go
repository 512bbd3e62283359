// Package status builds the flattened status record from the three API
// query responses.
package status

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is the flattened probe result: an ordered mapping from field
// name to scalar value. Assigning an existing key replaces the value but
// keeps its original position, so rendering stays deterministic and
// colliding dynamic keys resolve last-write-wins.
type Record struct {
	values map[string]any
	keys   []string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores value under key, appending the key on first write.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the raw value stored under key.
func (r *Record) Get(key string) (any, bool) {
	value, ok := r.values[key]
	return value, ok
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string { return r.keys }

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.keys) }

// String returns the value under key formatted for display, or an empty
// string when the key is absent.
func (r *Record) String(key string) string {
	value, ok := r.values[key]
	if !ok {
		return ""
	}

	return FormatValue(value)
}

// Int returns the value under key as an integer when it is numeric.
func (r *Record) Int(key string) int64 {
	switch v := r.values[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}

// Float returns the value under key as a float when it is numeric.
func (r *Record) Float(key string) float64 {
	switch v := r.values[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}

// Bool returns the value under key when it is a boolean.
func (r *Record) Bool(key string) bool {
	v, _ := r.values[key].(bool)
	return v
}

// MarshalJSON writes the record as one flat JSON object with keys in
// insertion order, booleans as JSON booleans and numbers unquoted.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')

		value, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// FormatValue renders a scalar record value as a plain string.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}
