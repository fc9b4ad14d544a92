package types

import "encoding/json"

// Optional is a JSON field that tells "absent" apart from "null". Set is true
// whenever the key was present; Value is nil when it was null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Validatable returns the wrapped value, or nil when absent or null, so
// binding tags apply to the value itself.
func (o Optional[T]) Validatable() interface{} {
	if o.Value == nil {
		return nil
	}
	return *o.Value
}
