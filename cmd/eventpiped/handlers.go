package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hazyhaar/eventpipe"
)

// maxUploadBytes bounds the multipart body before the pipeline's own budgets
// apply.
const maxUploadBytes = 64 << 20

type server struct {
	pipe   *eventpipe.Pipeline
	logger *slog.Logger
}

func newRouter(cfg eventpipe.Config, logger *slog.Logger) http.Handler {
	s := &server{pipe: eventpipe.New(cfg), logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse/text", s.handleParseText)
		r.Post("/parse/file", s.handleParseFile)
		r.Get("/formats", s.handleFormats)
	})
	return r
}

type parseTextBody struct {
	Text string `json:"text"`
}

type parseResponse struct {
	RequestID string `json:"requestId"`
	*eventpipe.ParseResult
}

func (s *server) handleParseText(w http.ResponseWriter, r *http.Request) {
	var body parseTextBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if body.Text == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("text is required"))
		return
	}

	res, err := s.pipe.ParseText(r.Context(), body.Text)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	s.writeResult(w, r, res)
}

func (s *server) handleParseFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := s.pipe.ParseFile(r.Context(), eventpipe.File{
		Name:     header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Size:     int64(len(data)),
		Data:     data,
	})
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}
	s.writeResult(w, r, res)
}

func (s *server) handleFormats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"formats": eventpipe.SupportedFormats(),
	})
}

// statusFor maps pipeline sentinels to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, eventpipe.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, eventpipe.ErrPreflight):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, eventpipe.ErrNoCompleter):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (s *server) writeResult(w http.ResponseWriter, r *http.Request, res *eventpipe.ParseResult) {
	s.writeJSON(w, r, http.StatusOK, parseResponse{
		RequestID:   requestID(r),
		ParseResult: res,
	})
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Warn("request failed",
		"request_id", requestID(r),
		"path", r.URL.Path,
		"status", status,
		"error", err)
	s.writeJSON(w, r, status, map[string]any{
		"requestId": requestID(r),
		"error":     err.Error(),
	})
}

func (s *server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "request_id", requestID(r), "error", err)
	}
}

// requestID prefers the middleware-assigned ID and falls back to a fresh
// UUID so every response carries one.
func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}
