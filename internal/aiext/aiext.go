// Package aiext implements the AI-assisted extractors: the image/OCR path,
// the PDF path, and the generic batched-text path used as fallback for every
// text-bearing format. Each path builds a strict prompt/schema request,
// sends size-bounded batches sequentially, and funnels the response through
// the shared JSON validation/repair ladder.
package aiext

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/teambition/rrule-go"

	"github.com/hazyhaar/eventpipe/event"
	"github.com/hazyhaar/eventpipe/internal/llm"
	"github.com/hazyhaar/eventpipe/internal/ocr"
)

// Extractor drives the AI-assisted paths. All fields except Completer are
// optional.
type Extractor struct {
	Completer llm.Completer
	OCR       ocr.Factory

	// BatchTokenLimit bounds one text batch (default: 6000 estimated tokens).
	BatchTokenLimit int

	// MaxResponseTokens bounds each completion (default: 4096).
	MaxResponseTokens int

	Logger *slog.Logger
}

func (x *Extractor) batchLimit() int {
	if x.BatchTokenLimit > 0 {
		return x.BatchTokenLimit
	}
	return 6000
}

func (x *Extractor) maxResponse() int {
	if x.MaxResponseTokens > 0 {
		return x.MaxResponseTokens
	}
	return 4096
}

func (x *Extractor) logger() *slog.Logger {
	if x.Logger != nil {
		return x.Logger
	}
	return slog.Default()
}

// Text extracts events from document text, splitting oversized input into
// sequential batches. Batches are never issued concurrently: external rate
// and cost limits apply, and sequential order keeps token accounting simple.
// A failed batch aborts the invocation; candidates from prior batches are
// discarded with it.
func (x *Extractor) Text(ctx context.Context, text string) ([]event.Event, int, error) {
	if x.Completer == nil {
		return nil, 0, fmt.Errorf("aiext: no completion client")
	}

	batches := splitBatches(text, x.batchLimit())
	var events []event.Event
	var tokens int

	for i, batch := range batches {
		resp, err := x.Completer.Complete(ctx, llm.Request{
			System:    llm.ExtractSystem,
			Prompt:    llm.TextPrompt(batch),
			MaxTokens: x.maxResponse(),
		})
		if err != nil {
			return nil, 0, fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}
		tokens += resp.TokensUsed

		payload, repairTokens, err := llm.ParseEventsOrRepair(ctx, x.Completer, resp.Text)
		tokens += repairTokens
		if err != nil {
			return nil, 0, fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}

		events = append(events, Sanitize(payload.Events)...)
	}

	x.logger().Debug("text extraction complete",
		"batches", len(batches), "events", len(events), "tokens", tokens)
	return events, tokens, nil
}

// Sanitize enforces the schema invariants on service output: events without
// a name or a real calendar date are dropped; malformed optional fields are
// cleared rather than propagated.
func Sanitize(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" || !event.ValidDate(e.Date) {
			continue
		}
		if e.Time != "" && !event.ValidTime(e.Time) {
			e.Time = ""
		}
		if e.EndDate != "" && !event.ValidDate(e.EndDate) {
			e.EndDate = ""
			e.EndTime = ""
		}
		if e.EndTime != "" && !event.ValidTime(e.EndTime) {
			e.EndTime = ""
		}
		if e.RecurrenceRule != "" {
			if _, err := rrule.StrToRRule(e.RecurrenceRule); err != nil {
				e.RecurrenceRule = ""
				e.IsRecurring = false
			} else {
				e.IsRecurring = true
			}
		}
		if e.Time == "" {
			e.AllDay = true
		}
		out = append(out, e)
	}
	return out
}

// EstimateTokens approximates the token count of text with a whitespace
// heuristic (subword expansion factor 1.3). Not a real tokenizer; accurate
// enough for batch sizing.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return int(math.Ceil(float64(len(strings.Fields(s))) * 1.3))
}

// splitBatches splits text on line boundaries into chunks of at most limit
// estimated tokens. A single line exceeding the limit is hard-split.
func splitBatches(text string, limit int) []string {
	if EstimateTokens(text) <= limit {
		return []string{text}
	}

	var batches []string
	var cur strings.Builder
	curTokens := 0

	flush := func() {
		if cur.Len() > 0 {
			batches = append(batches, cur.String())
			cur.Reset()
			curTokens = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		lt := EstimateTokens(line)
		if lt > limit {
			flush()
			for _, piece := range hardSplit(line, limit) {
				batches = append(batches, piece)
			}
			continue
		}
		if curTokens+lt > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
		curTokens += lt
	}
	flush()
	return batches
}

// hardSplit cuts an oversized single line into rune chunks sized from the
// token limit (≈4 runes per token).
func hardSplit(line string, limit int) []string {
	chunk := limit * 4
	runes := []rune(line)
	var out []string
	for len(runes) > 0 {
		n := chunk
		if n > len(runes) {
			n = len(runes)
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}
