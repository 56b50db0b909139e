package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"todolist-service/apperrors"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/logger"
)

func TestMain(m *testing.M) {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})
	os.Exit(m.Run())
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		seen = RequestID(ctx)
	})

	rec := httptest.NewRecorder()
	h(context.Background(), rec, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h(context.Background(), rec, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))

	assert.Empty(t, RequestID(context.Background()))
}

func TestWriteFailure(t *testing.T) {
	var c apperrors.Collector
	c.Add("username", "taken")
	c.Add("password", "required")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantFields int
	}{
		{name: "validation", err: c.Failure("Validation errors"), wantStatus: http.StatusBadRequest, wantFields: 2},
		{name: "not found", err: errs.NewNotFoundError("gone"), wantStatus: http.StatusNotFound},
		{name: "authentication", err: errs.NewAuthenticationError("no"), wantStatus: http.StatusUnauthorized},
		{name: "bad request", err: apperrors.BadRequest("Invalid JSON"), wantStatus: http.StatusBadRequest},
		{name: "internal", err: errors.New("disk I/O error"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeFailure(context.Background(), rec, tt.err, "Failed")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.NotContains(t, rec.Body.String(), "disk I/O")

			var resp apperrors.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Errors, tt.wantFields)
		})
	}
}

func TestPathID(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest("GET", "/task/7", nil), map[string]string{"id": "7"})
	rec := httptest.NewRecorder()
	id, ok := pathID(context.Background(), rec, req, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	req = mux.SetURLVars(httptest.NewRequest("GET", "/task/x", nil), map[string]string{"id": "x"})
	rec = httptest.NewRecorder()
	_, ok = pathID(context.Background(), rec, req, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertFailureBody(t, rec, http.StatusBadRequest)
}

func TestDecodeBody_MalformedUsesFailureShape(t *testing.T) {
	var v struct{ Name string }
	rec := httptest.NewRecorder()
	ok := decodeBody(context.Background(), rec, httptest.NewRequest("PUT", "/users", strings.NewReader("{bad")), &v)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertFailureBody(t, rec, http.StatusBadRequest)
}

// assertFailureBody checks that the body is an apperrors.Response agreeing
// with the HTTP status
func assertFailureBody(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	assert.Equal(t, float64(status), body["status"])
	assert.NotEmpty(t, body["message"])
	assert.NotContains(t, body, "Code")
}

func TestPreflight(t *testing.T) {
	h := Preflight(http.MethodPost, http.MethodPut)

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	rec := httptest.NewRecorder()
	h(context.Background(), rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, PUT, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
