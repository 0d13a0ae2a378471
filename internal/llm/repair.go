package llm

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedOutput is the terminal error when the service's output cannot
// be shaped into valid JSON even after the bounded repair call.
var ErrMalformedOutput = errors.New("llm: malformed structured output")

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ParseEvents shapes raw completion text into the fixed payload, applying
// best-effort string surgery in order: direct parse, markdown fence strip,
// outermost-braces slice, trailing-comma strip. Returns ErrMalformedOutput
// when no step yields valid JSON. Isolated here so the fragile
// transformations stay unit-testable away from any network call.
func ParseEvents(raw string) (*Payload, error) {
	candidates := []string{strings.TrimSpace(raw)}

	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, m[1])
	}
	if i, j := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); i >= 0 && j > i {
		candidates = append(candidates, raw[i:j+1])
	}

	// Each candidate is also retried with trailing commas stripped.
	n := len(candidates)
	for i := 0; i < n; i++ {
		candidates = append(candidates, trailingCommaRe.ReplaceAllString(candidates[i], "$1"))
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if p, err := decodePayload([]byte(c)); err == nil {
			return p, nil
		}
	}
	return nil, ErrMalformedOutput
}

// ParseEventsOrRepair runs the ParseEvents ladder and, as a last resort,
// issues exactly one repair call asking the service to reshape its own
// previous output into the schema. A second failure is terminal: there is no
// further retry. The returned token count covers the repair call only.
func ParseEventsOrRepair(ctx context.Context, c Completer, raw string) (*Payload, int, error) {
	if p, err := ParseEvents(raw); err == nil {
		return p, 0, nil
	}
	if c == nil {
		return nil, 0, ErrMalformedOutput
	}

	resp, err := c.Complete(ctx, Request{
		System: RepairSystem,
		Prompt: RepairPrompt(raw),
	})
	if err != nil {
		return nil, 0, err
	}

	p, err := ParseEvents(resp.Text)
	if err != nil {
		return nil, resp.TokensUsed, ErrMalformedOutput
	}
	return p, resp.TokensUsed, nil
}
