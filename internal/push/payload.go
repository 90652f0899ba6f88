package push

import (
	"context"

	"github.com/tidwall/gjson"
)

// Event names the server emits. The empty name is the default
// "message" event.
var boundEvents = map[string]bool{
	"":        true,
	"message": true,
	"article": true,
	"create":  true,
	"update":  true,
	"delete":  true,
	"ping":    true,
}

// Payload is one inbound event. The transport does not enforce a schema:
// Value holds the parsed JSON when Raw is valid JSON, otherwise
// Structured is false and only Raw is meaningful.
type Payload struct {
	Event      string
	Raw        string
	Structured bool
	Value      gjson.Result
}

// Parse builds a Payload, attempting JSON first and falling back to the
// raw text.
func Parse(event, raw string) Payload {
	p := Payload{Event: event, Raw: raw}
	if gjson.Valid(raw) {
		p.Structured = true
		p.Value = gjson.Parse(raw)
	}
	return p
}

// Text returns the payload as a text signal: the raw text when it is not
// JSON, or the value of a JSON string.
func (p Payload) Text() (string, bool) {
	if !p.Structured {
		return p.Raw, true
	}
	if p.Value.Type == gjson.String {
		return p.Value.String(), true
	}
	return "", false
}

// Handler receives every inbound event. ctx belongs to the connection
// that delivered it and is cancelled when that connection is replaced or
// closed.
type Handler func(ctx context.Context, p Payload)

// StatusFunc is told when the stream opens (true) or fails (false).
type StatusFunc func(connected bool)
