// Command eventpiped serves the extraction pipeline over HTTP, or over MCP
// stdio with -mcp.
//
// Usage:
//
//	eventpiped -addr :8080 -config eventpipe.yaml
//	eventpiped -mcp -config eventpipe.yaml
//
// HTTP endpoints:
//
//	POST /v1/parse/text   {"text": "..."}
//	POST /v1/parse/file   multipart form, field "file"
//	GET  /v1/formats
//	GET  /healthz
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/eventpipe"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "path to eventpipe.yaml config file")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools over stdio instead of HTTP")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	if *mcpMode {
		err = runMCP(ctx, logger, *configPath)
	} else {
		err = run(ctx, logger, *addr, *configPath)
	}
	if err != nil {
		logger.Error("eventpiped: fatal", "error", err)
		os.Exit(1)
	}
}

func runMCP(ctx context.Context, logger *slog.Logger, configPath string) error {
	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return err
	}
	pipe := eventpipe.New(cfg)

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "eventpipe",
		Version: "1.0.0",
	}, nil)
	pipe.RegisterMCP(srv)

	logger.Info("serving MCP over stdio")
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func run(ctx context.Context, logger *slog.Logger, addr, configPath string) error {
	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("eventpiped listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
