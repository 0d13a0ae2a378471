package llm

import (
	"context"
	"errors"
	"testing"
)

func TestParseEventsDirect(t *testing.T) {
	p, err := ParseEvents(`{"events":[{"name":"HW 1","date":"2025-10-05"}]}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Events) != 1 || p.Events[0].Name != "HW 1" {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestParseEventsFence(t *testing.T) {
	// A fenced empty list parses successfully to zero events, not an error.
	p, err := ParseEvents("```json\n{\"events\":[]}\n```")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Events) != 0 {
		t.Fatalf("expected empty events, got %+v", p.Events)
	}
}

func TestParseEventsOuterBraces(t *testing.T) {
	p, err := ParseEvents(`Here is the result: {"events":[{"name":"X","date":"2025-01-01"}]} hope that helps`)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Events) != 1 {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestParseEventsTrailingComma(t *testing.T) {
	p, err := ParseEvents(`{"events":[{"name":"X","date":"2025-01-01"},]}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Events) != 1 {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestParseEventsMissingKey(t *testing.T) {
	if _, err := ParseEvents(`{"items":[]}`); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestParseEventsGarbage(t *testing.T) {
	if _, err := ParseEvents("complete nonsense"); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

// fakeCompleter returns canned responses in order.
type fakeCompleter struct {
	responses []Response
	calls     int
	lastReq   Request
	err       error
}

func (f *fakeCompleter) Complete(_ context.Context, req Request) (*Response, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	r := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return &r, nil
}

func TestParseEventsOrRepairNoCallWhenValid(t *testing.T) {
	fake := &fakeCompleter{}
	p, tokens, err := ParseEventsOrRepair(context.Background(), fake, `{"events":[]}`)
	if err != nil {
		t.Fatal(err)
	}
	if fake.calls != 0 {
		t.Fatalf("repair call issued for valid output")
	}
	if tokens != 0 || p == nil {
		t.Fatalf("tokens = %d, payload = %v", tokens, p)
	}
}

func TestParseEventsOrRepairSingleRetry(t *testing.T) {
	fake := &fakeCompleter{responses: []Response{{Text: `{"events":[{"name":"Fixed","date":"2025-03-01"}]}`, TokensUsed: 42}}}
	p, tokens, err := ParseEventsOrRepair(context.Background(), fake, "not json at all")
	if err != nil {
		t.Fatal(err)
	}
	if fake.calls != 1 {
		t.Fatalf("expected exactly 1 repair call, got %d", fake.calls)
	}
	if tokens != 42 || len(p.Events) != 1 || p.Events[0].Name != "Fixed" {
		t.Fatalf("unexpected result: tokens=%d payload=%+v", tokens, p)
	}
}

func TestParseEventsOrRepairTerminal(t *testing.T) {
	// The repair call itself returns garbage: terminal, no further retry.
	fake := &fakeCompleter{responses: []Response{{Text: "still not json", TokensUsed: 7}}}
	_, tokens, err := ParseEventsOrRepair(context.Background(), fake, "garbage")
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("expected exactly 1 repair call, got %d", fake.calls)
	}
	if tokens != 7 {
		t.Fatalf("repair tokens should still be accounted, got %d", tokens)
	}
}
