// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package middleware holds the HTTP chain shared by the public catalog and the
dashboard API.

Order matters and is fixed in [api.NewRouter]:

	RequestID → StructuredLogger → Timeout → RateLimit → PanicRecovery →
	Diagnostics → CORS → Authenticate

Every error written here uses the same envelope as the handlers
([respond.Error]), so clients see one error shape whatever layer rejected
the request.
*/
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/ctxkey"
	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/internal/platform/respond"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/pkg/uuid"
)

// # Request Tracing

// RequestID keeps a client supplied X-Request-ID or issues a UUIDv7, stores it
// in the context and echoes it in the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *statusRecorder) Write(p []byte) (int, error) {
	n, err := recorder.ResponseWriter.Write(p)
	recorder.bytes += n
	return n, err
}

// StructuredLogger puts a request scoped logger in the context and writes one
// "http_request_finished" entry per request. Cached catalog views report their
// X-Cache status; dashboard requests report the acting editor.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			slot := &actorSlot{}
			ctx := context.WithValue(ctxutil.WithLogger(request.Context(), requestLogger), ctxkey.KeyActor, slot)
			next.ServeHTTP(recorder, request.WithContext(ctx))

			attrs := []any{
				slog.Int("status", recorder.status),
				slog.Int("bytes", recorder.bytes),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
			}
			if cache := writer.Header().Get(constants.HeaderCache); cache != "" {
				attrs = append(attrs, slog.String("cache", cache))
			}
			if slot.claims != nil {
				attrs = append(attrs, slog.String("actor", slot.claims.Username))
			}

			requestLogger.Log(request.Context(), levelFor(recorder.status), "http_request_finished", attrs...)
		})
	}
}

// actorSlot carries the verified claims from Authenticate, which runs later
// in the chain, back to StructuredLogger.
type actorSlot struct {
	claims *sec.AuthClaims
}

func recordActor(ctx context.Context, claims *sec.AuthClaims) {
	if slot, ok := ctx.Value(ctxkey.KeyActor).(*actorSlot); ok {
		slot.claims = claims
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// # Rate Limiting

// Limits sets the per-IP token buckets. Reads are the public catalog; writes
// are dashboard mutations, which also trigger view invalidation.
type Limits struct {
	ReadRPS    float64
	ReadBurst  int
	WriteRPS   float64
	WriteBurst int
}

// DefaultLimits are the limits used by the API server.
var DefaultLimits = Limits{
	ReadRPS:    constants.DefaultRateLimitRPS,
	ReadBurst:  constants.DefaultRateLimitBurst,
	WriteRPS:   constants.WriteRateLimitRPS,
	WriteBurst: constants.WriteRateLimitBurst,
}

type visitor struct {
	read     *rate.Limiter
	write    *rate.Limiter
	lastSeen time.Time
}

type visitors struct {
	mu     sync.Mutex
	limits Limits
	byIP   map[string]*visitor
}

func newVisitors(limits Limits) *visitors {
	return &visitors{limits: limits, byIP: make(map[string]*visitor)}
}

// allow consumes one token from the bucket matching method and, on refusal,
// returns how long the client should wait.
func (v *visitors) allow(ip, method string, now time.Time) (bool, time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, found := v.byIP[ip]
	if !found {
		entry = &visitor{
			read:  rate.NewLimiter(rate.Limit(v.limits.ReadRPS), v.limits.ReadBurst),
			write: rate.NewLimiter(rate.Limit(v.limits.WriteRPS), v.limits.WriteBurst),
		}
		v.byIP[ip] = entry
	}
	entry.lastSeen = now

	limiter := entry.read
	if isWrite(method) {
		limiter = entry.write
	}

	reservation := limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (v *visitors) sweep(now time.Time, idle time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for ip, entry := range v.byIP {
		if now.Sub(entry.lastSeen) > idle {
			delete(v.byIP, ip)
		}
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// RateLimit applies [Limits] per client IP and answers 429 with Retry-After
// when a bucket is empty. Idle clients are swept until context is cancelled.
func RateLimit(context context.Context, limits Limits) func(http.Handler) http.Handler {
	clients := newVisitors(limits)

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				clients.sweep(now, constants.RateLimitClientTTL)
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			allowed, wait := clients.allow(RealIP(request), request.Method, time.Now())
			if !allowed {
				seconds := int(math.Ceil(wait.Seconds()))
				writer.Header().Set("Retry-After", fmt.Sprint(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability

// PanicRecovery turns a panic into a 500 envelope and logs the stack.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				log := ctxutil.GetLogger(request.Context())
				if logger != nil && log == slog.Default() {
					log = logger
				}
				log.ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(stack)),
				)

				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig is the part of the configuration read by CORS and Diagnostics.
type AppConfig interface {
	IsDevelopment() bool
	Origins() []string
	Diagnostics() bool
}

// CORS lets the configured dashboard origins call the API with credentials
// (the refresh cookie). Development accepts any origin.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", constants.HeaderXRequestID},
		ExposedHeaders:   []string{constants.HeaderXRequestID, constants.HeaderCache, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	if cfg.IsDevelopment() {
		options.AllowOriginFunc = func(string) bool { return true }
	}

	return cors.New(options).Handler
}

// # Diagnostics

// Diagnostics lets [respond.Error] include raw error causes when the server
// runs in development with debug enabled.
func Diagnostics(cfg AppConfig) func(http.Handler) http.Handler {
	enabled := cfg.Diagnostics()
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithDiagnostics(request.Context(), true)))
		})
	}
}

// # Helpers

// RealIP prefers X-Real-IP, then the first X-Forwarded-For hop, then the
// connection address.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
