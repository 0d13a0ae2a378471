package llm

import (
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/eventpipe/event"
)

// Payload is the fixed response shape every extraction completion must
// produce: a top-level object with an "events" array.
type Payload struct {
	Events []event.Event `json:"events"`
}

// decodePayload strictly decodes raw JSON into a Payload. The top level must
// be an object carrying an "events" key whose value is an array.
func decodePayload(raw []byte) (*Payload, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, err
	}
	evRaw, ok := top["events"]
	if !ok {
		return nil, fmt.Errorf("missing events key")
	}
	var events []event.Event
	if err := json.Unmarshal(evRaw, &events); err != nil {
		return nil, err
	}
	return &Payload{Events: events}, nil
}

// SchemaDescription is embedded in prompts so the service knows the exact
// output contract.
const SchemaDescription = `Respond with JSON only, exactly this shape:
{"events":[{"name":"...","date":"YYYY-MM-DD","time":"HH:MM or empty","tag":"...",
"location":"...","description":"...","allDay":false,"isRecurring":false,
"recurrenceRule":"...","label":"...","endDate":"YYYY-MM-DD or empty","endTime":"HH:MM or empty"}]}
"name" and "date" are required for every event; all other fields may be empty.
"date" must be a real calendar date. "time" is 24-hour zero-padded. Use an
empty "events" array when nothing qualifies. No prose, no markdown.`
