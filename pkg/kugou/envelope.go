package kugou

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Envelope is a tolerant accessor over a parsed JSON tree.
//
// The gateway's response schema varies by endpoint version, so callers
// probe a prioritized list of dotted paths and use the first that
// resolves. A path that does not resolve yields an absent Envelope,
// never an error; accessors on an absent Envelope return zero values.
type Envelope struct {
	value   interface{}
	present bool
}

// ParseEnvelope parses raw JSON into an Envelope.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &Envelope{value: v, present: true}, nil
}

var absent = &Envelope{}

// Present reports whether the envelope resolved to a value.
func (e *Envelope) Present() bool {
	return e != nil && e.present
}

// At resolves a dotted path ("data.lists") below the envelope.
func (e *Envelope) At(path string) *Envelope {
	if !e.Present() {
		return absent
	}
	cur := e.value
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return absent
		}
		next, ok := obj[part]
		if !ok {
			return absent
		}
		cur = next
	}
	return &Envelope{value: cur, present: true}
}

// First resolves the first of the given paths that is present.
func (e *Envelope) First(paths ...string) *Envelope {
	for _, p := range paths {
		if v := e.At(p); v.Present() {
			return v
		}
	}
	return absent
}

// String returns the value as a string. Numeric values are formatted
// (the gateway encodes some identifiers as numbers). Absent or
// non-scalar values yield "".
func (e *Envelope) String() string {
	if !e.Present() {
		return ""
	}
	switch v := e.value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int returns the value as an int, accepting JSON numbers and numeric
// strings. The second return reports whether a number was present.
func (e *Envelope) Int() (int, bool) {
	if !e.Present() {
		return 0, false
	}
	switch v := e.value.(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Array returns the value's elements when it is a JSON array.
func (e *Envelope) Array() []*Envelope {
	if !e.Present() {
		return nil
	}
	arr, ok := e.value.([]interface{})
	if !ok {
		return nil
	}
	out := make([]*Envelope, len(arr))
	for i, v := range arr {
		out[i] = &Envelope{value: v, present: true}
	}
	return out
}

// Index returns the i-th element of a JSON array.
func (e *Envelope) Index(i int) *Envelope {
	if !e.Present() || i < 0 {
		return absent
	}
	arr, ok := e.value.([]interface{})
	if !ok || i >= len(arr) {
		return absent
	}
	return &Envelope{value: arr[i], present: true}
}
