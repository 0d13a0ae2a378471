package eventpipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/eventpipe/event"
	"github.com/hazyhaar/eventpipe/internal/aiext"
	"github.com/hazyhaar/eventpipe/internal/extract"
)

// Pipeline converts documents into normalized candidate events. Construct
// with New; a Pipeline is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
	ai     *aiext.Extractor
}

// New builds a Pipeline. Zero-valued budgets take family defaults.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
		ai: &aiext.Extractor{
			Completer:       cfg.Completer,
			OCR:             cfg.OCR,
			BatchTokenLimit: cfg.BatchTokenLimit,
			Logger:          cfg.Logger,
		},
	}
}

// ParseText extracts events from free-form text: line-anchored schedule rows
// and natural-language date references, with the AI-assisted path as fallback
// when deterministic extraction yields too few candidates.
func (p *Pipeline) ParseText(ctx context.Context, text string) (*ParseResult, error) {
	b := p.cfg.Text
	if err := checkChars(text, b); err != nil {
		return nil, err
	}
	events, tokens, err := p.textual(ctx, text, text)
	if err != nil {
		return nil, err
	}
	return p.finish(events, tokens, b), nil
}

// ParseFile dispatches an uploaded file to its format's extraction path.
func (p *Pipeline) ParseFile(ctx context.Context, f File) (*ParseResult, error) {
	format, err := Detect(f.MIMEType, f.Name)
	if err != nil {
		return nil, err
	}
	b := p.cfg.budgetFor(format)
	if err := p.preflight(format, f, b); err != nil {
		return nil, err
	}

	start := time.Now()
	var events []event.Event
	var tokens int

	switch format {
	case FormatText, FormatMarkdown:
		events, tokens, err = p.textual(ctx, string(f.Data), string(f.Data))

	case FormatCSV:
		events, err = extract.Delimited(string(f.Data), p.cfg.Now())
		if err == nil && len(events) < p.cfg.MinCandidates {
			events, tokens, err = p.fallback(ctx, events, string(f.Data))
		}

	case FormatXLSX:
		events, err = extract.Workbook(f.Data, p.cfg.Now())
		if err == nil && len(events) < p.cfg.MinCandidates {
			var text string
			if text, err = extract.SheetText(f.Data); err == nil {
				events, tokens, err = p.fallback(ctx, events, text)
			}
		}

	case FormatHTML:
		// Deterministic pass over visible text; the fallback gets a markdown
		// rendition so tables and lists keep their structure.
		var text string
		if text, err = aiext.HTMLText(f.Data); err == nil {
			if err = checkChars(text, b); err == nil {
				events, tokens, err = p.textual(ctx, text, aiext.HTMLMarkdown(f.Data))
			}
		}

	case FormatDocx, FormatODT:
		var text string
		if format == FormatDocx {
			text, err = aiext.DocxText(f.Data)
		} else {
			text, err = aiext.ODTText(f.Data)
		}
		if err == nil {
			if err = checkChars(text, b); err == nil {
				events, tokens, err = p.textual(ctx, text, text)
			}
		}

	case FormatPDF:
		events, tokens, err = p.pdf(ctx, f.Data, b)

	case FormatImage:
		if p.cfg.Completer == nil {
			return nil, ErrNoCompleter
		}
		events, tokens, err = p.ai.Image(ctx, f.Data, f.MIMEType)

	case FormatICS:
		// Calendar data is already structured; no AI fallback.
		events, err = extract.ICS(f.Data)

	default:
		return nil, &UnsupportedFormatError{MIMEType: f.MIMEType}
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", format, err)
	}

	p.logger.Info("file parsed",
		"file", f.Name,
		"format", string(format),
		"events", len(events),
		"tokens", tokens,
		"duration", time.Since(start))
	return p.finish(events, tokens, b), nil
}

// textual runs the deterministic text extractors and falls back to the
// completion service when they produce too few candidates. Schedule claims
// the date-bearing lines; FreeText sees only the rest, so a schedule row is
// never re-read as a natural-language anchor. detText feeds the deterministic
// pass, aiText the fallback; they differ only for HTML.
func (p *Pipeline) textual(ctx context.Context, detText, aiText string) ([]event.Event, int, error) {
	events, err := extract.Schedule(detText, p.cfg.Now())
	if err != nil {
		return nil, 0, err
	}
	free, err := extract.FreeText(extract.WithoutDatedLines(detText), p.cfg.Now())
	if err != nil {
		return nil, 0, err
	}
	events = append(events, free...)

	if len(events) >= p.cfg.MinCandidates {
		return events, 0, nil
	}
	return p.fallback(ctx, events, aiText)
}

// fallback augments thin deterministic results with the AI-assisted text
// path. Without a configured completion service the deterministic candidates
// stand as-is; deterministic extraction must never fail for lack of one.
func (p *Pipeline) fallback(ctx context.Context, deterministic []event.Event, text string) ([]event.Event, int, error) {
	if p.cfg.Completer == nil {
		return deterministic, 0, nil
	}
	p.logger.Debug("deterministic candidates below threshold, using completion service",
		"candidates", len(deterministic), "threshold", p.cfg.MinCandidates)

	aiEvents, tokens, err := p.ai.Text(ctx, text)
	if err != nil {
		return nil, tokens, err
	}
	// Deterministic candidates keep priority: dedupe is first-wins.
	return append(deterministic, aiEvents...), tokens, nil
}

// pdf extracts the PDF's text layer and routes it through the batched AI
// path. PDFs with no text layer produce no candidates rather than an error.
func (p *Pipeline) pdf(ctx context.Context, data []byte, b Budgets) ([]event.Event, int, error) {
	if p.cfg.Completer == nil {
		return nil, 0, ErrNoCompleter
	}
	text, err := aiext.PDFText(data, b.MaxPages)
	if err != nil {
		return nil, 0, err
	}
	if text == "" {
		return nil, 0, nil
	}
	if err := checkChars(text, b); err != nil {
		return nil, 0, err
	}
	return p.ai.Text(ctx, text)
}

// finish applies the closing stages every path shares: normalization with the
// family's name cap, first-wins deduplication, deterministic ordering.
func (p *Pipeline) finish(events []event.Event, tokens int, b Budgets) *ParseResult {
	events = event.Normalize(events, b.TruncationCap)
	events = event.Dedupe(events)
	event.Sort(events)
	return &ParseResult{Events: events, TokensUsed: tokens}
}
