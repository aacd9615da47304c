package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"near2door-tracker/internal/apperr"
	"near2door-tracker/internal/auth"
	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/gateway/backend"
	"near2door-tracker/internal/logx"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn("json encode error", logx.String("req_id", reqID(r.Context())), logx.Err(err))
	}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	logger.Info("http error",
		logx.String("req_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", msg),
	)
	writeJSON(logger, w, r, status, ErrorResponse{Error: msg})
}

// writeServiceError translates a service error into an HTTP reply.
func writeServiceError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logx.String("req_id", reqID(r.Context())), logx.Err(err))
	}
	writeError(logger, w, r, status, msg)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperr.ErrOrderAlreadyFinalized):
		return http.StatusConflict, err.Error()
	}
	if he, ok := backend.AsHTTPError(err); ok {
		if he.StatusCode >= http.StatusInternalServerError {
			return http.StatusBadGateway, "backend unavailable"
		}
		msg := he.Message
		if msg == "" {
			msg = http.StatusText(he.StatusCode)
		}
		return he.StatusCode, msg
	}
	switch {
	case errors.Is(err, apperr.ErrInvalid), errors.Is(err, apperr.ErrInvalidCoordinate):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

const (
	bodyLimit = 1 << 20
)

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

func orderIDFromURL(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "orderID"))
	if id == "" {
		return "", errors.New("invalid order id")
	}
	return id, nil
}

// caller returns the authenticated identity and order id of the request.
func caller(logger logx.Logger, w http.ResponseWriter, r *http.Request) (domain.Identity, string, bool) {
	who, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeError(logger, w, r, http.StatusUnauthorized, "unauthorized")
		return domain.Identity{}, "", false
	}
	orderID, err := orderIDFromURL(r)
	if err != nil {
		writeError(logger, w, r, http.StatusBadRequest, err.Error())
		return domain.Identity{}, "", false
	}
	return who, orderID, true
}
