package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/eventpipe"
	"github.com/hazyhaar/eventpipe/internal/llm"
	"github.com/hazyhaar/eventpipe/internal/ocr"
)

// fileConfig is the YAML configuration: pipeline budgets inline, plus the
// external service endpoints.
type fileConfig struct {
	eventpipe.Config `yaml:",inline"`

	Completion llm.ClientConfig `yaml:"completion"`
	OCR        ocr.EngineConfig `yaml:"ocr"`
}

// loadConfig reads the optional YAML file and wires the external clients.
// Without a file, the environment supplies the completion credentials.
func loadConfig(path string, logger *slog.Logger) (eventpipe.Config, error) {
	var fc fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return eventpipe.Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return eventpipe.Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if fc.Completion.BaseURL == "" {
		fc.Completion.BaseURL = os.Getenv("EVENTPIPE_COMPLETION_URL")
	}
	if fc.Completion.APIKey == "" {
		fc.Completion.APIKey = os.Getenv("EVENTPIPE_API_KEY")
	}
	if fc.Completion.Model == "" {
		fc.Completion.Model = os.Getenv("EVENTPIPE_MODEL")
	}
	if fc.OCR.URL == "" {
		fc.OCR.URL = os.Getenv("EVENTPIPE_OCR_URL")
	}

	cfg := fc.Config
	cfg.Logger = logger

	if fc.Completion.BaseURL != "" {
		fc.Completion.Logger = logger
		cfg.Completer = llm.NewHTTPClient(fc.Completion)
	} else {
		logger.Warn("no completion service configured, deterministic extraction only")
	}
	if fc.OCR.URL != "" {
		fc.OCR.Logger = logger
		cfg.OCR = ocr.HTTPFactory(fc.OCR)
	}
	return cfg, nil
}
