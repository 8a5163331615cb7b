package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
)

// Session is the capability shared by the data container and every facade
// in front of it (lazy proxy, context accessors).
type Session interface {
	// Set stores a normalized copy of value under key.
	Set(key string, value any) error
	// Get returns the value stored under key, or the normalized def.
	Get(key string, def any) (any, error)
	// Lookup returns the value stored under key and whether it exists.
	Lookup(key string) (any, bool)
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
	// Clear drops every key.
	Clear()
	// Has reports whether key is present.
	Has(key string) bool
	// IsEmpty reports whether the session holds no keys.
	IsEmpty() bool
	// HasChanged reports whether the data differs from what was loaded.
	HasChanged() bool
	// Values returns a deep copy of the data, ready to be embedded in a token claim.
	Values() map[string]any
}

// Data is the mutable session container. It remembers the values it was
// built from so it can tell whether a round trip needs a new cookie.
//
// Data is not safe for concurrent use; a request owns its container.
type Data struct {
	values   map[string]any
	original map[string]any
}

// NewData returns an empty container.
func NewData() *Data {
	return &Data{
		values:   make(map[string]any),
		original: make(map[string]any),
	}
}

// NewDataFrom builds a container from previously serialized values,
// typically the session claim of a decoded token.
func NewDataFrom(values map[string]any) (*Data, error) {
	current, err := normalizeMap(values)
	if err != nil {
		return nil, err
	}

	return &Data{
		values:   current,
		original: cloneMap(current),
	}, nil
}

// Set normalizes value through a JSON round trip and stores it.
// Values that cannot be represented as JSON are rejected with ErrNotRepresentable.
func (d *Data) Set(key string, value any) error {
	normalized, err := normalize(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	d.values[key] = normalized
	return nil
}

// Get returns a copy of the stored value or the normalized default.
func (d *Data) Get(key string, def any) (any, error) {
	if v, ok := d.values[key]; ok {
		return clone(v), nil
	}
	if def == nil {
		return nil, nil
	}
	return normalize(def)
}

// Lookup returns a copy of the stored value and whether the key exists.
// Mutating the result does not change the session; use Set.
func (d *Data) Lookup(key string) (any, bool) {
	v, ok := d.values[key]
	if !ok {
		return nil, false
	}
	return clone(v), true
}

// Remove deletes key if present.
func (d *Data) Remove(key string) {
	delete(d.values, key)
}

// Clear removes all values.
func (d *Data) Clear() {
	d.values = make(map[string]any)
}

// Has reports whether key is present.
func (d *Data) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// IsEmpty reports whether the container has no keys.
func (d *Data) IsEmpty() bool {
	return len(d.values) == 0
}

// HasChanged compares current values with the snapshot taken at construction.
// Comparison is by value, so writing back an identical value is not a change.
func (d *Data) HasChanged() bool {
	return !reflect.DeepEqual(d.values, d.original)
}

// Values returns a deep copy of the current values.
func (d *Data) Values() map[string]any {
	return cloneMap(d.values)
}

// GetString retrieves a string value.
func GetString(s Session, key string) (string, bool) {
	val, ok := s.Lookup(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an integral number. Fractional numbers are rejected.
func GetInt(s Session, key string) (int, bool) {
	val, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	f, ok := val.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// GetFloat retrieves a number.
func GetFloat(s Session, key string) (float64, bool) {
	val, ok := s.Lookup(key)
	if !ok {
		return 0, false
	}
	f, ok := val.(float64)
	return f, ok
}

// GetBool retrieves a bool value.
func GetBool(s Session, key string) (bool, bool) {
	val, ok := s.Lookup(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Decode unmarshals the value stored under key into dst, which must be a pointer.
// It returns ErrNotFound when the key is absent.
func Decode(s Session, key string, dst any) error {
	val, ok := s.Lookup(key)
	if !ok {
		return ErrNotFound
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return errors.Join(ErrTypeMismatch, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Join(ErrTypeMismatch, err)
	}
	return nil
}
