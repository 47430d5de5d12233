// Copyright (c) 2026 Qumran. All rights reserved.

package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/internal/platform/middleware"
	"github.com/qumran/qumran/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
}

func (v stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return v.claims, nil
}

type stubConfig struct {
	development bool
	diagnostics bool
}

func (c stubConfig) IsDevelopment() bool { return c.development }
func (c stubConfig) Origins() []string   { return []string{"https://qumran.app"} }
func (c stubConfig) Diagnostics() bool   { return c.diagnostics }

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

/*
TestRequireRole walks the anonymous, editor and admin cases of the dashboard guard.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		header string
		role   sec.UserRole
		want   int
	}{
		{"anonymous", "", sec.RoleEditor, http.StatusUnauthorized},
		{"malformed_header", "Token good", sec.RoleEditor, http.StatusUnauthorized},
		{"bad_token", "Bearer nope", sec.RoleEditor, http.StatusUnauthorized},
		{"editor_allowed", "Bearer good", sec.RoleEditor, http.StatusOK},
		{"editor_denied_admin_route", "Bearer good", sec.RoleAdmin, http.StatusForbidden},
	}

	verifier := stubVerifier{claims: &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleEditor)}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(verifier)(middleware.RequireRole(tt.role)(okHandler))

			request := httptest.NewRequest(http.MethodDelete, "/api/v1/dashboard/books/1", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.want, recorder.Code)
		})
	}
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/books", nil)
	request.Header.Set("X-Request-ID", "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "client-id", seen)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, recorder.Body.String(), "boom")
}

func TestRateLimit_ReadsAndWritesHaveSeparateBuckets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limits := middleware.Limits{ReadRPS: 1, ReadBurst: 1, WriteRPS: 1, WriteBurst: 1}
	handler := middleware.RateLimit(ctx, limits)(okHandler)

	serve := func(method string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, "/api/v1/books", nil)
		request.RemoteAddr = "203.0.113.7:4711"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodGet).Code)

	limited := serve(http.MethodGet)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusOK, serve(http.MethodPost).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(http.MethodDelete).Code)
}

func TestStructuredLogger_RecordsActorAndCache(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	verifier := stubVerifier{claims: &sec.AuthClaims{UserID: "u1", Username: "librarian", Role: string(sec.RoleEditor)}}
	final := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("X-Cache", "HIT")
		_, _ = writer.Write([]byte(`{"data":[]}`))
	})
	handler := middleware.StructuredLogger(logger)(middleware.Authenticate(verifier)(final))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/books", nil)
	request.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "http_request_finished", entry["msg"])
	assert.Equal(t, "librarian", entry["actor"])
	assert.Equal(t, "HIT", entry["cache"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, float64(len(`{"data":[]}`)), entry["bytes"])
}

func TestStructuredLogger_AnonymousHasNoActor(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	handler := middleware.StructuredLogger(logger)(okHandler)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/books", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.NotContains(t, entry, "actor")
	assert.NotContains(t, entry, "cache")
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "198.51.100.2:5000"
	assert.Equal(t, "198.51.100.2", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "192.0.2.1")
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))
}

func TestCORS_Production(t *testing.T) {
	handler := middleware.CORS(stubConfig{})(okHandler)

	request := httptest.NewRequest(http.MethodGet, "/books", nil)
	request.Header.Set("Origin", "https://qumran.app")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "https://qumran.app", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodGet, "/books", nil)
	request.Header.Set("Origin", "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestDiagnostics(t *testing.T) {
	var enabled bool
	probe := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		enabled = ctxutil.Diagnostics(request.Context())
	})

	middleware.Diagnostics(stubConfig{diagnostics: true})(probe).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, enabled)

	middleware.Diagnostics(stubConfig{})(probe).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, enabled)
}
