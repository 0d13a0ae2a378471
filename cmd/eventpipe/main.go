// Command eventpipe extracts calendar events from a document and prints them
// as JSON.
//
// Usage:
//
//	eventpipe -file syllabus.pdf                  # parse a file
//	eventpipe -text "meeting tomorrow at 3pm"     # parse inline text
//	cat schedule.txt | eventpipe                  # parse stdin as text
//	eventpipe -config eventpipe.yaml -file x.xlsx # with service credentials
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hazyhaar/eventpipe"
)

func main() {
	configPath := flag.String("config", "", "path to eventpipe.yaml config file")
	filePath := flag.String("file", "", "file to parse")
	text := flag.String("text", "", "inline text to parse")
	mimeType := flag.String("mime", "", "MIME type override for -file")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *filePath, *text, *mimeType); err != nil {
		logger.Error("eventpipe: fatal", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func run(ctx context.Context, logger *slog.Logger, configPath, filePath, text, mimeType string) error {
	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return err
	}
	pipe := eventpipe.New(cfg)

	var res *eventpipe.ParseResult
	switch {
	case text != "":
		res, err = pipe.ParseText(ctx, text)

	case filePath != "":
		data, rerr := os.ReadFile(filePath)
		if rerr != nil {
			return fmt.Errorf("read file: %w", rerr)
		}
		res, err = pipe.ParseFile(ctx, eventpipe.File{
			Name:     filepath.Base(filePath),
			MIMEType: mimeType,
			Size:     int64(len(data)),
			Data:     data,
		})

	default:
		data, rerr := io.ReadAll(os.Stdin)
		if rerr != nil {
			return fmt.Errorf("read stdin: %w", rerr)
		}
		res, err = pipe.ParseText(ctx, string(data))
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
