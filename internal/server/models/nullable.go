package models

import (
	"bytes"
	"encoding/json"
)

// Nullable distinguishes the three states a clearable field can have in a
// partial update: absent (Set == false), explicit null (Set && !Valid) and a
// value (Set && Valid).
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// NewNullable returns a Nullable holding v.
func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

// Null returns an explicitly cleared Nullable.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON is only invoked when the key is present in the payload.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Valid = false
		var zero T
		n.Value = zero
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// IsZero makes absent values disappear under the omitzero tag option.
func (n Nullable[T]) IsZero() bool {
	return !n.Set
}

// MarshalJSON writes null for absent and cleared values.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the value as a pointer, nil when cleared.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
