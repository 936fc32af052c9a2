package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hookgate/hookgate/internal/event"
	"github.com/hookgate/hookgate/internal/journal"
	"github.com/hookgate/hookgate/internal/metrics"
)

// Server is the webhook HTTP server hosting the ingestion gate.
type Server struct {
	config     Config
	dispatcher EventDispatcher
	recorder   DeliveryRecorder // nil when the journal is disabled
	logger     *slog.Logger
	server     *http.Server
}

// New creates a new webhook server instance. recorder may be nil.
func New(config Config, dispatcher EventDispatcher, recorder DeliveryRecorder, logger *slog.Logger) *Server {
	// Apply defaults
	if config.SignatureHeader == "" {
		config.SignatureHeader = DefaultSignatureHeader
	}
	if config.MaxBodySize == 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}

	return &Server{
		config:     config,
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logger,
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting",
		"listen", s.config.Listen,
		"path", s.config.Path,
		"secret_configured", s.config.Secret != "",
	)
	if s.config.Secret == "" {
		s.logger.Warn("webhook secret is empty, all deliveries will be rejected")
	}

	// Run server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// Only POST is accepted on the webhook path. chi routes any other
	// method on a known path here, before the handler runs.
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Post(s.config.Path, s.handleWebhook)

	if s.config.MetricsPath != "" {
		r.Method(http.MethodGet, s.config.MetricsPath, metrics.Handler())
	}

	return r
}

// loggingMiddleware logs HTTP requests (excludes payload content).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Log request (no body content for security)
		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleWebhook handles incoming webhook POST requests.
//
// The stages are strictly ordered: body read, signature verification, JSON
// parse, dispatch. Verification happens before parsing so no work is done on
// unverified input and parse errors are never surfaced to unauthenticated
// callers. Each stage rejection is terminal for the request.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Enforce body size limit
	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	if int64(len(body)) > s.config.MaxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	// Extract headers; absence is an empty string, never an error.
	signature := r.Header.Get(s.config.SignatureHeader)
	eventType := r.Header.Get(EventHeader)
	deliveryID := r.Header.Get(DeliveryHeader)

	// Verify HMAC signature over the raw bytes (constant-time comparison).
	// Missing header, unset secret and mismatch all take this path; the
	// response never distinguishes them.
	if err := verifySignature(body, signature, s.config.Secret); err != nil {
		s.logger.Warn("webhook signature verification failed",
			"event", eventType,
			"delivery_id", deliveryID,
		)
		metrics.RecordSignatureFailure()
		metrics.RecordDelivery(eventType, journal.OutcomeUnauthorized)
		s.record(ctx, journal.Entry{
			DeliveryID: deliveryID,
			Event:      eventType,
			Outcome:    journal.OutcomeUnauthorized,
			Error:      "signature verification failed",
		})
		s.respondError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	// Parse the envelope. The delivery is already authenticated, so a parse
	// failure is a recoverable server-side error; the caller only gets a
	// generic message.
	var env event.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		s.logger.Error("failed to parse webhook payload",
			"event", eventType,
			"delivery_id", deliveryID,
			"error", err,
		)
		metrics.RecordDelivery(eventType, journal.OutcomeMalformed)
		s.record(ctx, journal.Entry{
			DeliveryID: deliveryID,
			Event:      eventType,
			Outcome:    journal.OutcomeMalformed,
			Error:      "payload parse failure",
		})
		s.respondError(w, http.StatusInternalServerError, "Internal server error",
			"Failed to process webhook")
		return
	}
	env.Raw = json.RawMessage(body)

	// Dispatch and await completion; the response is not written until the
	// router is done.
	if err := s.dispatch(ctx, eventType, &env); err != nil {
		s.logger.Error("event dispatch failed",
			"event", eventType,
			"delivery_id", deliveryID,
			"error", err,
		)
		metrics.RecordDelivery(eventType, journal.OutcomeDispatchFail)
		s.record(ctx, journal.Entry{
			DeliveryID: deliveryID,
			Event:      eventType,
			Action:     env.Action,
			Outcome:    journal.OutcomeDispatchFail,
			Error:      "dispatch failure",
		})
		s.respondError(w, http.StatusInternalServerError, "Internal server error",
			"Failed to process webhook")
		return
	}

	s.logger.Info("webhook processed",
		"event", eventType,
		"delivery_id", deliveryID,
		"action", env.Action,
		"repo", env.RepoFullName(),
	)
	metrics.RecordDelivery(eventType, journal.OutcomeAccepted)
	s.record(ctx, journal.Entry{
		DeliveryID: deliveryID,
		Event:      eventType,
		Action:     env.Action,
		Outcome:    journal.OutcomeAccepted,
	})

	s.respondJSON(w, http.StatusOK, ProcessedResponse{
		Message:  "Webhook processed successfully",
		Event:    eventType,
		Delivery: deliveryID,
	})
}

// dispatch invokes the event dispatcher, converting panics into errors so a
// misbehaving handler yields the same generic failure outcome as a returned
// error.
func (s *Server) dispatch(ctx context.Context, eventType string, env *event.Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatcher panic: %v", r)
		}
	}()
	return s.dispatcher.Dispatch(ctx, eventType, env)
}

// record writes a journal entry when a recorder is configured. Journal
// failures are logged and never change the HTTP outcome.
func (s *Server) record(ctx context.Context, e journal.Entry) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, e); err != nil {
		s.logger.Error("failed to record delivery", "delivery_id", e.DeliveryID, "error", err)
	}
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response. An optional second message is
// included for 500-class outcomes; it is always generic.
func (s *Server) respondError(w http.ResponseWriter, status int, errMsg string, message ...string) {
	resp := ErrorResponse{Error: errMsg}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	s.respondJSON(w, status, resp)
}
