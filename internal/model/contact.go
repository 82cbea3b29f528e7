package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Contact is the sole persisted entity.
//
// Keys of the stored object other than the four known ones are kept in
// extra and written back untouched. They are never exposed through Public.
type Contact struct {
	ID        string
	FullName  string
	Number    string
	Timestamp string

	extra map[string]json.RawMessage
}

// PublicContact is the projection returned to API clients.
type PublicContact struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Number    string `json:"number"`
	Timestamp string `json:"timestamp"`
}

// Public projects c to its four public fields.
func (c Contact) Public() PublicContact {
	return PublicContact{
		ID:        c.ID,
		FullName:  c.FullName,
		Number:    c.Number,
		Timestamp: c.Timestamp,
	}
}

var contactKeys = []string{"id", "fullName", "number", "timestamp"}

func (c *Contact) fields() []*string {
	return []*string{&c.ID, &c.FullName, &c.Number, &c.Timestamp}
}

// UnmarshalJSON decodes a stored contact. Known keys take any JSON scalar,
// rendered as text (a number written by hand stays that number). An object
// or array under a known key is a shape mismatch and fails the whole decode.
func (c *Contact) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("contact must be an object")
	}

	*c = Contact{}
	fields := c.fields()
	for i, key := range contactKeys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		text, err := scalarText(value)
		if err != nil {
			return fmt.Errorf("contact field %q: %w", key, err)
		}
		*fields[i] = text
		delete(raw, key)
	}

	if len(raw) > 0 {
		c.extra = raw
	}
	return nil
}

// scalarText renders a JSON string, number, boolean or null as text.
func scalarText(value json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}

	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("want a scalar, got %T", v)
	}
}

// MarshalJSON writes the known keys first, in a fixed order, followed by any
// preserved keys sorted by name.
func (c Contact) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	fields := c.fields()
	for i, key := range contactKeys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, key, *fields[i]); err != nil {
			return nil, err
		}
	}

	for _, key := range slices.Sorted(maps.Keys(c.extra)) {
		buf.WriteByte(',')
		if err := writeRawMember(&buf, key, c.extra[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return writeRawMember(buf, key, encoded)
}

func writeRawMember(buf *bytes.Buffer, key string, value json.RawMessage) error {
	name, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(name)
	buf.WriteByte(':')
	buf.Write(value)
	return nil
}
