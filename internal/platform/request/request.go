// Copyright (c) 2026 Qumran. All rights reserved.

// Package requestutil reads path parameters, JSON bodies and dashboard
// claims from a request, mapping every failure to an [apperr.AppError].
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/internal/platform/validate"
	"github.com/qumran/qumran/pkg/convert"
)

// MaxBodyBytes caps a JSON body. The largest submission is a book with a
// full description and tag list, well under this.
const MaxBodyBytes = 1 << 20

// ErrBodyTooLarge is returned for bodies above [MaxBodyBytes].
var ErrBodyTooLarge = apperr.ValidationError("Request body too large")

/*
DecodeJSON decodes exactly one JSON value from the body into target.

Returns:
  - error: ErrBodyTooLarge above MaxBodyBytes, validate.ErrInvalidJSON for
    malformed input or trailing data, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	body := io.LimitReader(request.Body, MaxBodyBytes+1)
	counted := &countingReader{reader: body}

	decoder := json.NewDecoder(counted)
	if err := decoder.Decode(target); err != nil {
		if counted.n > MaxBodyBytes {
			return ErrBodyTooLarge
		}
		return validate.ErrInvalidJSON
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if counted.n > MaxBodyBytes {
			return ErrBodyTooLarge
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

type countingReader struct {
	reader io.Reader
	n      int64
}

func (reader *countingReader) Read(p []byte) (int, error) {
	n, err := reader.reader.Read(p)
	reader.n += int64(n)
	return n, err
}

/*
IntID retrieves a numeric URL parameter.

Catalog ids are positive serials; anything else is reported as NotFound for
the given resource, the same as an id that matches no row.
*/
func IntID(request *http.Request, name, resource string) (int, error) {
	id := convert.ToInt(chi.URLParam(request, name))
	if id <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return id, nil
}

// Param returns a named path parameter such as {slug}.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// RequiredClaims returns the dashboard claims or Unauthorized.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}
