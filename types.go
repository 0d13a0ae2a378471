// Package eventpipe converts user-supplied documents — free text, photographed
// or scanned calendars, PDFs, spreadsheets, word-processor files — into a
// normalized list of candidate calendar events.
//
// The pipeline is: format dispatch → preflight validation → extraction
// (deterministic first, AI-assisted fallback) → normalization → deduplication
// → ordering. Deterministic extractors cost nothing; image and PDF inputs go
// straight to the completion service.
//
// Usage:
//
//	pipe := eventpipe.New(eventpipe.Config{Completer: client})
//	res, err := pipe.ParseFile(ctx, eventpipe.File{Name: "syllabus.pdf", MIMEType: "application/pdf", Data: raw})
//	fmt.Println(len(res.Events), "events,", res.TokensUsed, "tokens")
package eventpipe

import "github.com/hazyhaar/eventpipe/event"

// Format identifies a supported input type. The set is closed: the dispatcher
// matches exhaustively over these values.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatPDF      Format = "pdf"
	FormatImage    Format = "image"
	FormatDocx     Format = "docx"
	FormatODT      Format = "odt"
	FormatHTML     Format = "html"
	FormatICS      Format = "ics"
)

// File is an uploaded input as received from the caller.
type File struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     []byte `json:"-"`
}

// ParseResult is the only value the pipeline returns: the final candidate
// events plus a best-effort token-cost figure (zero on deterministic-only
// paths).
type ParseResult struct {
	Events     []event.Event `json:"events"`
	TokensUsed int           `json:"tokensUsed"`
}

// SupportedFormats returns all supported format names.
func SupportedFormats() []string {
	return []string{"text", "markdown", "csv", "xlsx", "pdf", "image", "docx", "odt", "html", "ics"}
}
