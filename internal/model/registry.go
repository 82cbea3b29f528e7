package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Registry is the decoded form of the stored file.
//
// Count always equals len(Contacts) once a registry went through Decode or
// Append; a drifted stored count is never trusted.
type Registry struct {
	Count    int
	Contacts []Contact

	extra map[string]json.RawMessage
}

// Empty returns the registry used when nothing (usable) is stored.
func Empty() Registry {
	return Registry{Count: 0, Contacts: []Contact{}}
}

// Reconcile restores the count invariant.
func (r *Registry) Reconcile() {
	if r.Contacts == nil {
		r.Contacts = []Contact{}
	}
	r.Count = len(r.Contacts)
}

// Append adds c at the end and recomputes the count.
func (r *Registry) Append(c Contact) {
	r.Contacts = append(r.Contacts, c)
	r.Reconcile()
}

// Public projects every contact to its public fields.
func (r Registry) Public() []PublicContact {
	out := make([]PublicContact, 0, len(r.Contacts))
	for _, c := range r.Contacts {
		out = append(out, c.Public())
	}
	return out
}

func (r *Registry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("registry must be an object")
	}

	*r = Registry{}
	if value, ok := raw["contacts"]; ok {
		if err := json.Unmarshal(value, &r.Contacts); err != nil {
			return fmt.Errorf("registry contacts: %w", err)
		}
	}
	// The stored count is ignored whatever its type; Reconcile recomputes it.
	delete(raw, "count")
	delete(raw, "contacts")

	if len(raw) > 0 {
		r.extra = raw
	}
	r.Reconcile()
	return nil
}

func (r Registry) MarshalJSON() ([]byte, error) {
	contacts := r.Contacts
	if contacts == nil {
		contacts = []Contact{}
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, "count", len(contacts)); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeMember(&buf, "contacts", contacts); err != nil {
		return nil, err
	}
	for _, key := range slices.Sorted(maps.Keys(r.extra)) {
		buf.WriteByte(',')
		if err := writeRawMember(&buf, key, r.extra[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
