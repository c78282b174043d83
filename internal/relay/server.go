package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/HamzaKV/ai-sdk/core/client"
	"github.com/HamzaKV/ai-sdk/core/sse"
	"github.com/HamzaKV/ai-sdk/internal/utils"
	"github.com/HamzaKV/ai-sdk/providers/ai"
)

// maxBodySize caps the JSON input accepted by a call endpoint.
const maxBodySize = 8 << 20

// streamer is implemented by streaming outputs such as *sse.Decoder.
type streamer interface {
	Values() iter.Seq2[any, error]
}

// Server serves the calls of a client.
type Server struct {
	client *client.Client
	logger *slog.Logger
}

// New returns a Server for c. A nil logger means slog.Default().
func New(c *client.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{client: c, logger: logger}
}

// Router returns the HTTP handler of the relay.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/calls", s.handleListCalls)
		v1.Post("/{provider}/{model}/{call}", s.handleCall)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListCalls(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"calls": s.client.Keys()})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	key := client.Key{
		Provider: chi.URLParam(r, "provider"),
		Model:    chi.URLParam(r, "model"),
		Call:     chi.URLParam(r, "call"),
	}
	if !s.client.Has(key) {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", client.ErrUnknownCall, key))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	var input any
	if len(body) > 0 {
		if !json.Valid(body) {
			writeError(w, http.StatusBadRequest, errors.New("request body is not valid JSON"))
			return
		}
		input = json.RawMessage(body)
	}

	ctx := r.Context()
	out, err := s.client.Invoke(ctx, key, input)
	if err != nil {
		status := statusFor(err)
		s.logger.WarnContext(ctx, "relay call failed",
			slog.String("call", key.String()),
			slog.String("request_id", middleware.GetReqID(ctx)),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
		writeError(w, status, err)
		return
	}

	if stream, ok := out.(streamer); ok {
		s.deliverStream(ctx, w, key, stream)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// deliverStream re-encodes a streaming output and pushes it to w.
func (s *Server) deliverStream(ctx context.Context, w http.ResponseWriter, key client.Key, stream streamer) {
	body := sse.NewStream(ctx, func(ctx context.Context, sw *sse.Writer) error {
		return sse.Merge(sw, stream.Values())
	}, sse.WithLogger(s.logger))

	// The producer reads from stream, so it must be done before stream closes.
	if closer, ok := stream.(io.Closer); ok {
		defer func() {
			<-body.Done()
			utils.CloseWithLog(closer)
		}()
	}

	_, err := sse.Deliver(ctx, body, w,
		sse.WithLogger(s.logger),
		sse.WithCloseHook(func() {
			s.logger.DebugContext(ctx, "relay stream finished", slog.String("call", key.String()))
		}),
	)
	if err != nil && !sse.IsClosed(err) {
		s.logger.WarnContext(ctx, "relay stream aborted",
			slog.String("call", key.String()),
			slog.String("error", err.Error()),
		)
	}
}

// statusFor maps an invocation error to an HTTP status.
func statusFor(err error) int {
	var apiErr *utils.APIError
	var gateErr *client.GateError
	switch {
	case errors.Is(err, client.ErrStoppedByMiddleware):
		return http.StatusForbidden
	case errors.Is(err, client.ErrUnknownCall):
		return http.StatusNotFound
	case errors.Is(err, ai.ErrInputType):
		return http.StatusBadRequest
	case errors.As(err, &gateErr):
		return http.StatusInternalServerError
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400:
		return apiErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
