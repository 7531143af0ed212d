package quest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize converts raw action input, as received from the completion
// backend, into its canonical Payload form. Objects and arrays pass
// through shape-preserved. Strings are trimmed; an empty string becomes
// EmptyPayload, a string that parses as a JSON literal adopts the
// parsed shape, and anything else is kept as RawPayload. Normalization
// is schema-agnostic: it never consults the target tool's arguments.
func Normalize(raw json.RawMessage) Payload {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return EmptyPayload{}
	}

	switch data[0] {
	case '{':
		if p, err := decodeStructured(data); err == nil {
			return p
		}
		return RawPayload{Text: string(data)}
	case '[':
		if p, err := decodeList(data); err == nil {
			return p
		}
		return RawPayload{Text: string(data)}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return RawPayload{Text: string(data)}
		}
		return normalizeText(s)
	default:
		// Bare number or boolean literal.
		return RawPayload{Text: string(data)}
	}
}

// normalizeText handles string input: trim, try one level of literal
// parsing, fall back to the trimmed text.
func normalizeText(s string) Payload {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return EmptyPayload{}
	}
	if !json.Valid([]byte(trimmed)) {
		return RawPayload{Text: trimmed}
	}
	switch trimmed[0] {
	case '{':
		if p, err := decodeStructured([]byte(trimmed)); err == nil {
			return p
		}
	case '[':
		if p, err := decodeList([]byte(trimmed)); err == nil {
			return p
		}
	case '"':
		// A quoted literal unwraps exactly once; the inner text is not
		// reparsed even if it looks like JSON.
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
			if inner == "" {
				return EmptyPayload{}
			}
			return RawPayload{Text: inner}
		}
	default:
		if trimmed == "null" {
			return EmptyPayload{}
		}
		return RawPayload{Text: trimmed}
	}
	return RawPayload{Text: trimmed}
}

// decodeStructured decodes a JSON object into a StructuredPayload,
// preserving key order. encoding/json maps discard order, so the keys
// are token-scanned and the values unmarshaled separately.
func decodeStructured(data []byte) (StructuredPayload, error) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return StructuredPayload{}, err
	}

	keys, err := objectKeys(data)
	if err != nil {
		return StructuredPayload{}, err
	}

	fields := make([]Field, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, Field{Name: key, Value: decodeValue(values[key])})
	}
	return StructuredPayload{Fields: fields}, nil
}

func decodeList(data []byte) (ListPayload, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return ListPayload{}, err
	}
	p := ListPayload{Items: make([]Value, len(items))}
	for i, item := range items {
		p.Items[i] = decodeValue(item)
	}
	return p, nil
}

// decodeValue converts one JSON value into a Value. Arrays become
// Sequences with stringified elements; everything else is a Scalar.
func decodeValue(raw json.RawMessage) Value {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 {
		return Scalar{}
	}
	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err == nil {
			seq := Sequence{Items: make([]string, len(items))}
			for i, item := range items {
				seq.Items[i] = scalarText(item)
			}
			return seq
		}
	}
	return Scalar{Text: scalarText(data)}
}

// scalarText renders one JSON value as a command-line token. Strings
// unwrap; numbers, booleans and null keep their literal text; nested
// objects and arrays are carried as compact JSON.
func scalarText(raw json.RawMessage) string {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 {
		return ""
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return s
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err == nil {
		return compact.String()
	}
	return string(data)
}

// objectKeys scans the top level of a JSON object and returns its keys
// in document order, skipping over nested values.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("not a JSON object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in object", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
