package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"todolist-service/apperrors"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

type contextKey int

const requestIDKey contextKey = iota

// RequestIDHeader is read from and echoed to every request
const RequestIDHeader = "X-Request-Id"

// WithRequestID tags the request with the caller's X-Request-Id, or a fresh
// uuid, and echoes it back in the response.
func WithRequestID(next func(context.Context, http.ResponseWriter, *http.Request)) func(context.Context, http.ResponseWriter, *http.Request) {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next(context.WithValue(ctx, requestIDKey, id), w, r)
	}
}

// RequestID returns the id stored by WithRequestID, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// logRequest logs message tagged with the route, the authenticated client
// and the request id
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	path := httpserver.GetRoutePath(ctx)

	logMsg := "[" + RequestID(ctx) + "] " + routeName + " " + httpserver.GetRouteMethod(ctx) + " " + path
	if auth := httpserver.GetRequestAuth(ctx); auth != nil {
		logMsg += " client=" + auth.Client
	}
	if message != "" {
		logMsg += ": " + message
	}

	fields = append(fields, zap.String("route", routeName), zap.String("path", path))
	switch level {
	case "error":
		logger.Error(logMsg, fields...)
	case "debug":
		logger.Debug(logMsg, fields...)
	default:
		logger.Info(logMsg, fields...)
	}
}

// CORS headers. Every endpoint is open to any origin.
const (
	allowOrigin  = "*"
	allowHeaders = "Content-Type, Authorization, " + RequestIDHeader
)

// Preflight answers CORS preflight requests for a path served with methods
func Preflight(methods ...string) func(context.Context, http.ResponseWriter, *http.Request) {
	allowed := strings.Join(methods, ", ") + ", " + http.MethodOptions
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", allowed)
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		w.Header().Set("Access-Control-Max-Age", "3600")
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeJSON encodes v with status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeRaw writes an already encoded JSON body
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
	w.Write(body)
}

// writeFailure renders err as an apperrors.Response whose status is also the
// HTTP status. Errors that are not failures are logged and reported as an
// internal error carrying message.
func writeFailure(ctx context.Context, w http.ResponseWriter, err error, message string) {
	resp, ok := apperrors.ToResponse(err)
	if !ok {
		logRequest(ctx, "error", message, zap.Error(err))
		resp, _ = apperrors.ToResponse(errs.NewInternalServerError(message))
	} else {
		logRequest(ctx, "info", resp.Message, zap.Int("status", resp.Status), zap.Any("errors", resp.Errors))
	}
	writeJSON(w, resp.Status, resp)
}

// decodeBody decodes the JSON request body into v, answering 400 on failure
func decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logRequest(ctx, "debug", "Invalid request body", zap.Error(err))
		writeFailure(ctx, w, apperrors.BadRequest("Invalid JSON"), "")
		return false
	}
	return true
}

// pathID parses the numeric path variable name, answering 400 on failure
func pathID(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeFailure(ctx, w, apperrors.BadRequest("Invalid "+name+": "+raw), "")
		return 0, false
	}
	return id, true
}
