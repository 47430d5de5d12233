// Copyright (c) 2026 Qumran. All rights reserved.

// Package pagination reads ?page and ?limit and describes the resulting page
// of a listing.
package pagination

import (
	"net/http"

	"github.com/qumran/qumran/pkg/convert"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a 1-based page number and a page size.
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return max(p.Page-1, 0) * p.Limit
}

// Meta describes p for a listing of total rows.
func (p Params) Meta(total int) Meta {
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: TotalPages(total, p.Limit)}
}

// Meta is the "meta" block of a paginated response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TotalPages is ceil(total / limit), or 0 when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Page is one page of a filtered listing. A page past the end has no items
// but keeps the totals.
type Page[T any] struct {
	Items []T `json:"items"`
	Meta
}

// NewPage never leaves Items nil, so it encodes as [].
func NewPage[T any](items []T, total int, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: params.Meta(total)}
}

// FromRequest reads ?page and ?limit. Missing, malformed or non-positive
// values take the defaults; limit is capped at [MaxLimit].
func FromRequest(request *http.Request) Params {
	values := request.URL.Query()

	page := convert.ToIntD(values.Get("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	limit := convert.ToIntD(values.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: min(limit, MaxLimit)}
}

// Requested reports whether the client sent ?page or ?limit. Small entity
// listings are returned whole when it did not.
func Requested(request *http.Request) bool {
	values := request.URL.Query()
	return values.Has("page") || values.Has("limit")
}
