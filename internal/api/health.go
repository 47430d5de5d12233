// Copyright (c) 2026 Qumran. All rights reserved.

package api

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/respond"
)

// Checker reports whether a dependency answers.
type Checker func(context context.Context) error

// HealthDependencies holds the dependency checkers for the /ready endpoint,
// keyed by the name reported in the response.
type HealthDependencies map[string]Checker

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// checkResult is one entry of the /ready response.
type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health. It answers while the process is up.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness handles GET /ready: 200 when every dependency answers, 503
// otherwise.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.dependencies))
	ready := true

	for _, name := range slices.Sorted(maps.Keys(handler.dependencies)) {
		result := checkResult{Name: name, IsOK: true}
		if err := handler.dependencies[name](request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			ready = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	status, httpStatus := "ready", http.StatusOK
	if !ready {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.Envelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}
