package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// State tells how a Registry was obtained from stored bytes.
type State int

const (
	// StateEmpty means nothing was stored (absent file, blank or null content).
	StateEmpty State = iota
	// StateParsed means the content decoded cleanly.
	StateParsed
	// StateMalformed means the content failed to decode and was replaced by
	// an empty registry.
	StateMalformed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateParsed:
		return "parsed"
	case StateMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MalformedDataError describes stored content that is not a registry.
// It is recovered locally and only ever logged.
type MalformedDataError struct {
	Err error
}

func (e *MalformedDataError) Error() string {
	return "malformed registry data: " + e.Err.Error()
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

// Decoded is the outcome of Decode. Registry is always usable; Err is set
// only for StateMalformed.
type Decoded struct {
	Registry Registry
	State    State
	Err      *MalformedDataError
}

// Decode parses stored content. It never fails: anything that is not a
// registry-shaped JSON object yields an empty registry in StateMalformed.
func Decode(content []byte) Decoded {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Decoded{Registry: Empty(), State: StateEmpty}
	}

	var registry Registry
	if err := json.Unmarshal(trimmed, &registry); err != nil {
		return Decoded{
			Registry: Empty(),
			State:    StateMalformed,
			Err:      &MalformedDataError{Err: err},
		}
	}

	return Decoded{Registry: registry, State: StateParsed}
}

// Encode renders r as the stored file layout: UTF-8 JSON indented with two
// spaces, no trailing newline.
func Encode(r Registry) ([]byte, error) {
	r.Reconcile()
	return json.MarshalIndent(r, "", "  ")
}
