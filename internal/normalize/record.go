package normalize

import (
	"database/sql"
	"encoding/json"
)

// Record is one raw JSON object from the upstream API. Every accessor
// tolerates a missing key, an explicit null, or a value of the wrong
// type by returning an invalid (absent) value instead of a default.
type Record map[string]interface{}

// Str returns the string value for key
func (r Record) Str(key string) sql.NullString {
	if s, ok := r[key].(string); ok {
		return sql.NullString{String: s, Valid: true}
	}
	return sql.NullString{}
}

// Int returns the integer value for key. JSON numbers decode as float64,
// so both forms are accepted.
func (r Record) Int(key string) sql.NullInt64 {
	switch v := r[key].(type) {
	case float64:
		return sql.NullInt64{Int64: int64(v), Valid: true}
	case int:
		return sql.NullInt64{Int64: int64(v), Valid: true}
	case int64:
		return sql.NullInt64{Int64: v, Valid: true}
	}
	return sql.NullInt64{}
}

// Float returns the numeric value for key
func (r Record) Float(key string) sql.NullFloat64 {
	switch v := r[key].(type) {
	case float64:
		return sql.NullFloat64{Float64: v, Valid: true}
	case int:
		return sql.NullFloat64{Float64: float64(v), Valid: true}
	case int64:
		return sql.NullFloat64{Float64: float64(v), Valid: true}
	}
	return sql.NullFloat64{}
}

// Bool returns the tri-state boolean for key: a missing key or explicit
// null stays unknown, anything else is cast by truthiness.
func (r Record) Bool(key string) sql.NullBool {
	v, ok := r[key]
	if !ok || v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: truthy(v), Valid: true}
}

// BoolDefault is Bool, except a missing key yields def instead of
// unknown. An explicit null still stays unknown.
func (r Record) BoolDefault(key string, def bool) sql.NullBool {
	if _, ok := r[key]; !ok {
		return sql.NullBool{Bool: def, Valid: true}
	}
	return r.Bool(key)
}

// Obj returns the nested object for key. An absent or non-object value
// yields an empty Record so chained reads stay safe.
func (r Record) Obj(key string) Record {
	if m, ok := r[key].(map[string]interface{}); ok {
		return Record(m)
	}
	return Record{}
}

// Objs returns the array of nested objects for key. Non-object entries
// (including nulls) become empty Records.
func (r Record) Objs(key string) []Record {
	arr, ok := r[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]interface{}); ok {
			out = append(out, Record(m))
		} else {
			out = append(out, Record{})
		}
	}
	return out
}

// EncodeArray serializes the array value for key as JSON. Absent or
// non-array values encode as the empty array, so the column is always
// valid JSON and round-trips losslessly.
func (r Record) EncodeArray(key string) string {
	if arr, ok := r[key].([]interface{}); ok {
		if b, err := json.Marshal(arr); err == nil {
			return string(b)
		}
	}
	return "[]"
}

// EncodeObject serializes the object value for key as JSON, defaulting
// to the empty object.
func (r Record) EncodeObject(key string) string {
	if m, ok := r[key].(map[string]interface{}); ok {
		if b, err := json.Marshal(m); err == nil {
			return string(b)
		}
	}
	return "{}"
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case string:
		return x != ""
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	}
	return true
}
