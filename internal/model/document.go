// Package model defines the payload shapes exchanged with callers and the upstream provider.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotObject is returned when a document body is not a JSON object.
var ErrNotObject = errors.New("document is not a JSON object")

// Field is a single top-level member of a Document.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Document is an untyped JSON object whose top-level members keep their
// original order. Member values are held as raw JSON and never re-encoded.
type Document struct {
	Fields []Field
}

// ParseDocument decodes a JSON object into a Document.
func ParseDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	doc := &Document{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("read value for %q: %w", key, err)
		}
		doc.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read document end: %w", err)
	}
	if _, err := dec.Token(); err == nil {
		return nil, errors.New("trailing data after document")
	}

	return doc, nil
}

// Get returns the raw value stored under key.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set stores value under key. An existing key keeps its position.
func (d *Document) Set(key string, value json.RawMessage) {
	for i := range d.Fields {
		if d.Fields[i].Key == key {
			d.Fields[i].Value = value
			return
		}
	}
	d.Fields = append(d.Fields, Field{Key: key, Value: value})
}

// Len returns the number of top-level members.
func (d *Document) Len() int {
	return len(d.Fields)
}

// MarshalJSON writes the members in their stored order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeKey encodes key as a JSON string without HTML escaping.
func writeKey(buf *bytes.Buffer, key string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// TruthyField returns the named member unless it is absent, null, false,
// an empty string, or a numeric zero.
func (d *Document) TruthyField(key string) (json.RawMessage, bool) {
	raw, ok := d.Get(key)
	if !ok || !truthy(raw) {
		return nil, false
	}
	return raw, true
}

func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case 'n', 'f':
		return false
	case '"':
		return len(v) > 2
	case '{', '[', 't':
		return true
	}
	f, err := strconv.ParseFloat(string(v), 64)
	// Out-of-range literals are non-zero.
	return err != nil || f != 0
}
