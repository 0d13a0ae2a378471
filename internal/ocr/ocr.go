// Package ocr wraps the external OCR engine: a remote service that accepts an
// image and returns recognized text with bounding-box regions. An engine is
// acquired for exactly one image and released before the call returns; it is
// never shared across invocations.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrEngineFailure wraps OCR transport and status errors.
var ErrEngineFailure = errors.New("ocr: engine failure")

// Region is one recognized text region with its bounding box (pixel
// coordinates) and confidence in [0,1].
type Region struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Confidence float64 `json:"confidence"`
}

// Result is one image's recognition output. Blocks come from the coarse
// detect-regions pass, Words from the recognize pass; either may be empty
// depending on engine capability.
type Result struct {
	Text   string   `json:"text"`
	Blocks []Region `json:"blocks"`
	Words  []Region `json:"words"`
}

// Engine recognizes exactly one image, then is closed.
type Engine interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (*Result, error)
	Close() error
}

// Factory acquires a fresh engine for one image.
type Factory func() (Engine, error)

// EngineConfig configures the HTTP OCR engine.
type EngineConfig struct {
	URL     string        `json:"url" yaml:"url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	Logger  *slog.Logger  `json:"-" yaml:"-"`
}

// HTTPEngine posts a base64 image to a remote OCR service.
type HTTPEngine struct {
	cfg    EngineConfig
	client *http.Client
	logger *slog.Logger
	closed bool
}

// NewHTTPEngine creates an engine for one image.
func NewHTTPEngine(cfg EngineConfig) *HTTPEngine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &HTTPEngine{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}
}

// HTTPFactory returns a Factory producing one HTTPEngine per image.
func HTTPFactory(cfg EngineConfig) Factory {
	return func() (Engine, error) {
		return NewHTTPEngine(cfg), nil
	}
}

// Recognize sends the image and decodes the recognition result.
func (e *HTTPEngine) Recognize(ctx context.Context, image []byte, mimeType string) (*Result, error) {
	if e.closed {
		return nil, fmt.Errorf("%w: engine already closed", ErrEngineFailure)
	}

	payload, err := json.Marshal(map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
		"mime":  mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		e.logger.Error("ocr engine error", "status", resp.StatusCode, "body", string(raw))
		return nil, fmt.Errorf("%w: status %d", ErrEngineFailure, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrEngineFailure, err)
	}

	e.logger.Debug("ocr completed",
		"duration", time.Since(start),
		"blocks", len(result.Blocks),
		"words", len(result.Words),
		"text_length", len(result.Text))
	return &result, nil
}

// Close releases the engine. Further Recognize calls fail.
func (e *HTTPEngine) Close() error {
	e.closed = true
	return nil
}
