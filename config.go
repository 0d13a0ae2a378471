package eventpipe

import (
	"log/slog"
	"time"

	"github.com/hazyhaar/eventpipe/internal/llm"
	"github.com/hazyhaar/eventpipe/internal/ocr"
)

// Budgets bounds one format family. Zero values take the family default.
type Budgets struct {
	// MaxBytes is the maximum raw input size.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`
	// MaxPages bounds paginated formats (PDF).
	MaxPages int `json:"max_pages" yaml:"max_pages"`
	// MaxSheets, MaxRows and MaxCells bound tabular formats.
	MaxSheets int `json:"max_sheets" yaml:"max_sheets"`
	MaxRows   int `json:"max_rows" yaml:"max_rows"`
	MaxCells  int `json:"max_cells" yaml:"max_cells"`
	// MaxChars bounds the extracted character count of text-bearing formats.
	MaxChars int `json:"max_chars" yaml:"max_chars"`
	// TruncationCap is the event-name length cap for this family.
	TruncationCap int `json:"truncation_cap" yaml:"truncation_cap"`
}

// Config configures a Pipeline. All budgets are explicit configuration
// threaded in at construction time; nothing is package-level state.
type Config struct {
	Text        Budgets `json:"text" yaml:"text"`
	Tabular     Budgets `json:"tabular" yaml:"tabular"`
	Spreadsheet Budgets `json:"spreadsheet" yaml:"spreadsheet"`
	PDF         Budgets `json:"pdf" yaml:"pdf"`
	Image       Budgets `json:"image" yaml:"image"`
	Document    Budgets `json:"document" yaml:"document"`

	// MinCandidates is the deterministic-result count below which the
	// AI-assisted fallback is tried on the same content (default: 2).
	MinCandidates int `json:"min_candidates" yaml:"min_candidates"`

	// BatchTokenLimit bounds each text batch sent to the completion service
	// (default: 6000 estimated tokens).
	BatchTokenLimit int `json:"batch_token_limit" yaml:"batch_token_limit"`

	// Completer is the structured-completion service client. Paths that need
	// it fail with ErrNoCompleter when unset; deterministic paths simply skip
	// the fallback.
	Completer llm.Completer `json:"-" yaml:"-"`

	// OCR acquires an OCR engine for one image. Optional: when nil the image
	// path sends only the image variants.
	OCR ocr.Factory `json:"-" yaml:"-"`

	// Now supplies the reference time for relative date resolution
	// ("tomorrow", "next Friday"). Defaults to time.Now.
	Now func() time.Time `json:"-" yaml:"-"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	def := func(b *Budgets, d Budgets) {
		if b.MaxBytes <= 0 {
			b.MaxBytes = d.MaxBytes
		}
		if b.MaxPages <= 0 {
			b.MaxPages = d.MaxPages
		}
		if b.MaxSheets <= 0 {
			b.MaxSheets = d.MaxSheets
		}
		if b.MaxRows <= 0 {
			b.MaxRows = d.MaxRows
		}
		if b.MaxCells <= 0 {
			b.MaxCells = d.MaxCells
		}
		if b.MaxChars <= 0 {
			b.MaxChars = d.MaxChars
		}
		if b.TruncationCap <= 0 {
			b.TruncationCap = d.TruncationCap
		}
	}
	def(&c.Text, Budgets{MaxBytes: 1 << 20, MaxChars: 200_000, TruncationCap: 60})
	def(&c.Tabular, Budgets{MaxBytes: 5 << 20, MaxRows: 2000, MaxCells: 20_000, MaxChars: 500_000, TruncationCap: 60})
	def(&c.Spreadsheet, Budgets{MaxBytes: 10 << 20, MaxSheets: 30, MaxRows: 5000, MaxCells: 50_000, TruncationCap: 60})
	def(&c.PDF, Budgets{MaxBytes: 25 << 20, MaxPages: 50, MaxChars: 400_000, TruncationCap: 80})
	def(&c.Image, Budgets{MaxBytes: 20 << 20, TruncationCap: 80})
	def(&c.Document, Budgets{MaxBytes: 15 << 20, MaxChars: 300_000, TruncationCap: 80})

	if c.MinCandidates <= 0 {
		c.MinCandidates = 2
	}
	if c.BatchTokenLimit <= 0 {
		c.BatchTokenLimit = 6000
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// budgetFor maps a format to its family budgets.
func (c *Config) budgetFor(f Format) Budgets {
	switch f {
	case FormatCSV:
		return c.Tabular
	case FormatXLSX:
		return c.Spreadsheet
	case FormatPDF:
		return c.PDF
	case FormatImage:
		return c.Image
	case FormatDocx, FormatODT, FormatHTML:
		return c.Document
	default: // text, markdown, ics
		return c.Text
	}
}
