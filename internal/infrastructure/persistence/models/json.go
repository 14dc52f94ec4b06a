package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn stores a value as a JSON document (jsonb on PostgreSQL, text on
// SQLite). A NULL column scans as the zero value.
type JSONColumn[T any] struct {
	Data T
}

// NewJSONColumn wraps v
func NewJSONColumn[T any](v T) JSONColumn[T] {
	return JSONColumn[T]{Data: v}
}

// Value implements driver.Valuer
func (j JSONColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (j *JSONColumn[T]) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		var zero T
		j.Data = zero
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported json column source %T", src)
	}
	if len(raw) == 0 {
		var zero T
		j.Data = zero
		return nil
	}
	return json.Unmarshal(raw, &j.Data)
}
