package tradesim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// orderedObject builds a JSON object whose keys keep their insertion order,
// so that persisted records read the same way on every line.
// Its zero value is an empty object. The first error sticks and is returned
// by MarshalJSON.
type orderedObject struct {
	fields []objectField
	err    error
}

type objectField struct {
	key   string
	value json.RawMessage
}

// Set appends key with the JSON encoding of value.
func (o *orderedObject) Set(key string, value any) *orderedObject {
	if o.err != nil {
		return o
	}
	raw, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return o
	}
	o.fields = append(o.fields, objectField{key, raw})
	return o
}

// SetNonZero appends key only if value is not the zero value of its type.
func (o *orderedObject) SetNonZero(key string, value any) *orderedObject {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return o
	}
	return o.Set(key, value)
}

// Merge appends the fields of the JSON object encoding v, in their order.
func (o *orderedObject) Merge(v any) *orderedObject {
	if o.err != nil {
		return o
	}
	raw, err := json.Marshal(v)
	if err != nil {
		o.err = fmt.Errorf("cannot encode merged object: %w", err)
		return o
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		o.err = fmt.Errorf("cannot merge %s: not an object", raw)
		return o
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			o.err = err
			return o
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			o.err = err
			return o
		}
		o.fields = append(o.fields, objectField{tok.(string), value})
	}
	return o
}

// MarshalJSON implements json.Marshaler.
func (o *orderedObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(f.key)
		b.Write(key)
		b.WriteByte(':')
		b.Write(f.value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
