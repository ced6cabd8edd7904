package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"sports_dashboard/internal/domain"
	dasherrs "sports_dashboard/internal/errors"
	"sports_dashboard/internal/logger"
)

func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("encode json response: %w", err)
	}
	return nil
}

// HandlerFuncE is a [http.HandlerFunc] that returns an error. Errors that are
// not already structured are mapped from the domain sentinels, or reported as
// a 500.
type HandlerFuncE func(w http.ResponseWriter, r *http.Request) error

func (f HandlerFuncE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil {
		return
	}

	sErr := &dasherrs.Error{}
	if !errors.As(err, &sErr) {
		sErr = fromDomain(err)
	}
	if sErr.Status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "error", err)
	}

	if err := WriteJSON(w, sErr.Status, sErr); err != nil {
		slog.ErrorContext(r.Context(), "error writing response", "error", err)
	}
}

func fromDomain(err error) *dasherrs.Error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return dasherrs.E(http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalid):
		return dasherrs.E(http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrUnavailable):
		return dasherrs.E(http.StatusBadGateway, "upstream unavailable")
	default:
		return dasherrs.E(http.StatusInternalServerError, "internal server error")
	}
}

// ErrRouter is a mux router that accepts handlers returning errors.
type ErrRouter struct {
	*mux.Router
}

func (r ErrRouter) HandleFuncE(path string, f HandlerFuncE) *mux.Route {
	return r.Handle(path, f)
}

// accessLog tags the request context with a request id and logs the outcome.
func accessLog(log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logger.Ctx(r.Context(), slog.String("request_id", uuid.NewString()))
			r = r.WithContext(ctx)

			writer := &respCodeWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(writer, r)

			log.InfoContext(ctx, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
				"status_code", writer.code,
			)
		})
	}
}

// To trap the response status code for logging later.
type respCodeWriter struct {
	http.ResponseWriter
	code int
}

func (w *respCodeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
