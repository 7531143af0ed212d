package quest

import (
	"bytes"
	"encoding/json"
)

// Payload is a sealed interface representing canonical action input.
// The unexported marker method prevents external implementations.
// It is the shape produced by Normalize and consumed by the process
// invoker; the invoker matches exhaustively on the four variants.
type Payload interface {
	payload()
}

// Field is one named entry of a StructuredPayload. Fields keep the
// order they appeared in, which determines the order of command
// arguments the tool schema does not know about.
type Field struct {
	Name  string
	Value Value
}

// StructuredPayload maps argument names to values, preserving order.
type StructuredPayload struct {
	Fields []Field
}

func (StructuredPayload) payload() {}

// Get returns the value for the named field.
func (p StructuredPayload) Get(name string) (Value, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// ListPayload is an ordered sequence of values.
type ListPayload struct {
	Items []Value
}

func (ListPayload) payload() {}

// RawPayload is a single free-form string.
type RawPayload struct {
	Text string
}

func (RawPayload) payload() {}

// EmptyPayload carries no input at all.
type EmptyPayload struct{}

func (EmptyPayload) payload() {}

// Value is a sealed interface for the value side of a payload entry.
type Value interface {
	value()
}

// Scalar is a single string token. Non-string JSON values are carried
// by their literal text (numbers keep their exact notation).
type Scalar struct {
	Text string
}

func (Scalar) value() {}

// Sequence expands to one token per element.
type Sequence struct {
	Items []string
}

func (Sequence) value() {}

// Interface compliance checks.
var (
	_ Payload = StructuredPayload{}
	_ Payload = ListPayload{}
	_ Payload = RawPayload{}
	_ Payload = EmptyPayload{}

	_ Value = Scalar{}
	_ Value = Sequence{}
)

// MarshalJSON encodes the payload as an object, preserving field order.
func (p StructuredPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the payload as an array.
func (p ListPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range p.Items {
		if i > 0 {
			buf.WriteByte(',')
		}
		val, err := marshalValue(item)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the raw text as a JSON string.
func (p RawPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Text)
}

// MarshalJSON encodes the empty payload as an empty JSON string.
func (p EmptyPayload) MarshalJSON() ([]byte, error) {
	return []byte(`""`), nil
}

func marshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Scalar:
		return json.Marshal(val.Text)
	case Sequence:
		return json.Marshal(val.Items)
	default:
		return json.Marshal(nil)
	}
}
