// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package respond writes the JSON bodies of the API.

Successful responses are {"data": ...} with an optional "meta" block for
paginated listings. Errors are {"error", "code", "details"} built from an
[apperr.AppError]; any other error becomes a 500 whose cause is logged and
withheld.
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/pkg/pagination"
)

// Envelope wraps every successful body.
type Envelope struct {
	Data any              `json:"data"`
	Meta *pagination.Meta `json:"meta,omitempty"`
}

// ListEnvelope is the data of an unpaginated listing.
type ListEnvelope struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

// ErrorEnvelope is the body of every error response. Cause is only set when
// development diagnostics are on.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
	Cause   string              `json:"cause,omitempty"`
}

// JSON encodes payload with status. Encoding errors are dropped since the
// header is already sent.
func JSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, Envelope{Data: data})
}

func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, Envelope{Data: data})
}

// Paginated writes one page of a listing with its meta block.
func Paginated(writer http.ResponseWriter, data any, meta pagination.Meta) {
	JSON(writer, http.StatusOK, Envelope{Data: data, Meta: &meta})
}

// List writes a whole listing as {"data": {"items", "total"}}.
func List(writer http.ResponseWriter, items any, total int) {
	OK(writer, ListEnvelope{Items: items, Total: total})
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error writes err as an error envelope. Server errors are logged with the
// request id; client errors are left to the access log.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()

	appErr := apperr.As(err)
	if appErr == nil {
		appErr = apperr.Internal(err)
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "request_failed",
			slog.String("code", appErr.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("error", appErr.Cause),
		)
	}

	body := ErrorEnvelope{Error: appErr.Message, Code: appErr.Code, Details: appErr.Details}
	if appErr.Cause != nil && ctxutil.Diagnostics(ctx) {
		body.Cause = appErr.Cause.Error()
	}

	JSON(writer, appErr.HTTPStatus, body)
}
