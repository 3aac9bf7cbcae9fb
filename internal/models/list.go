// Package models defines the core data structures shared by converters and consumers.
// It includes the canonical dependency graph and the analyzer input documents.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// List decodes an analyzer array one element at a time. Elements that do not
// decode into T are recorded in Invalid instead of failing the whole document.
// An object element with some fields of the wrong type is kept with those
// fields left at their zero value, and the ignored fields land in Partial.
// A JSON object is accepted too; its values are taken in document order.
type List[T any] struct {
	Items   []T
	Invalid []ItemError
	Partial []ItemError
}

type ItemError struct {
	Index int
	Err   error
}

func (e ItemError) Error() string {
	if e.Index < 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func ListOf[T any](items ...T) List[T] {
	return List[T]{Items: items}
}

func (l List[T]) Len() int {
	return len(l.Items)
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	l.Items = nil
	l.Invalid = nil

	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		return nil
	}
	if !res.IsArray() && !res.IsObject() {
		l.Invalid = append(l.Invalid, ItemError{Index: -1, Err: fmt.Errorf("expected a list, got %s", res.Type)})
		return nil
	}

	index := 0
	res.ForEach(func(_, value gjson.Result) bool {
		defer func() { index++ }()

		if value.Type == gjson.Null {
			l.Invalid = append(l.Invalid, ItemError{Index: index, Err: fmt.Errorf("null item")})
			return true
		}

		item, ignored, err := DecodeRecord[T]([]byte(value.Raw))
		if err != nil {
			l.Invalid = append(l.Invalid, ItemError{Index: index, Err: err})
			return true
		}
		if ignored != nil {
			l.Partial = append(l.Partial, ItemError{Index: index, Err: ignored})
		}
		l.Items = append(l.Items, item)
		return true
	})

	return nil
}

// IgnoredFieldsError lists the top-level fields of a record that were dropped
// because their value did not fit the expected type.
type IgnoredFieldsError struct {
	Fields []string
}

func (e *IgnoredFieldsError) Error() string {
	return fmt.Sprintf("ignored fields with unexpected types: %s", strings.Join(e.Fields, ", "))
}

// Record is implemented by analyzer records that are meaningless without
// some of their fields, typically the name the record is keyed by.
type Record interface {
	RequiredFields() []string
}

// DecodeRecord decodes one analyzer record into T. When the record as a whole
// does not fit, each top-level field is tried on its own and the ones that
// fail are dropped; the returned *IgnoredFieldsError names them. A record with
// no usable field, a record that lost one of its required fields, or one that
// is not an object, is an error.
func DecodeRecord[T any](data []byte) (T, *IgnoredFieldsError, error) {
	var item T
	err := json.Unmarshal(data, &item)
	if err == nil {
		return item, nil, nil
	}

	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return item, nil, err
	}

	var (
		kept    bytes.Buffer
		ignored []string
		fields  int
	)
	kept.WriteByte('{')
	res.ForEach(func(key, value gjson.Result) bool {
		name, _ := json.Marshal(key.String())
		field := append(append(append([]byte{'{'}, name...), ':'), value.Raw...)
		field = append(field, '}')

		var single T
		if json.Unmarshal(field, &single) != nil {
			ignored = append(ignored, key.String())
			return true
		}

		if fields > 0 {
			kept.WriteByte(',')
		}
		kept.Write(field[1 : len(field)-1])
		fields++
		return true
	})
	kept.WriteByte('}')

	if fields == 0 {
		return *new(T), nil, err
	}
	if r, ok := any(item).(Record); ok {
		for _, required := range r.RequiredFields() {
			if slices.Contains(ignored, required) {
				return *new(T), nil, fmt.Errorf("field %s: %w", required, err)
			}
		}
	}

	item = *new(T)
	if err := json.Unmarshal(kept.Bytes(), &item); err != nil {
		return *new(T), nil, err
	}
	if len(ignored) == 0 {
		return item, nil, nil
	}
	return item, &IgnoredFieldsError{Fields: ignored}, nil
}

func (l List[T]) MarshalJSON() ([]byte, error) {
	if l.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.Items)
}

type Attribute struct {
	Key   string
	Value json.RawMessage
}

// Attributes is a JSON object that remembers the order of its keys.
type Attributes []Attribute

func (a *Attributes) UnmarshalJSON(data []byte) error {
	*a = nil

	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil
	}

	res.ForEach(func(key, value gjson.Result) bool {
		*a = append(*a, Attribute{Key: key.String(), Value: json.RawMessage(value.Raw)})
		return true
	})

	return nil
}

func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := json.Compact(&buf, attr.Value); err != nil {
			return nil, fmt.Errorf("attribute %q: %w", attr.Key, err)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CompactValue returns the attribute value as compact JSON text.
func (a Attribute) CompactValue() string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, a.Value); err != nil {
		return string(a.Value)
	}
	return buf.String()
}

// Map decodes the attributes into a plain map. Values that fail to decode are
// kept as their raw text.
func (a Attributes) Map() map[string]any {
	if len(a) == 0 {
		return nil
	}

	out := make(map[string]any, len(a))
	for _, attr := range a {
		var v any
		if err := json.Unmarshal(attr.Value, &v); err != nil {
			v = string(attr.Value)
		}
		out[attr.Key] = v
	}
	return out
}
