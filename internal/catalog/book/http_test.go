// Copyright (c) 2026 Qumran. All rights reserved.

package book_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qumran/qumran/internal/catalog/book"
	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/pkg/pagination"
)

func newRouter(f *fixture, role sec.UserRole) http.Handler {
	handler := book.NewHandler(f.service)

	router := chi.NewRouter()
	router.Route("/books", handler.RegisterPublic)
	router.Route("/dashboard/books", func(r chi.Router) {
		if role != "" {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
					claims := &sec.AuthClaims{UserID: "u1", Role: string(role)}
					next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
				})
			})
		}
		handler.RegisterDashboard(r)
	})
	return router
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

func TestHandler_CreateListAndGet(t *testing.T) {
	f := newFixture(nil)
	category := f.addNamed(f.categories, "Poesía")
	router := newRouter(f, sec.RoleEditor)

	body := fmt.Sprintf(`{
		"title": "Ficciones",
		"isbn": "978-950-04-2921-2",
		"author": {"first_name": "Jorge Luis", "last_name": "Borges"},
		"publisher": {"name": "Anagrama"},
		"category_id": %d,
		"tags": ["cuentos"]
	}`, category.ID)
	recorder := serve(router, http.MethodPost, "/dashboard/books", body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = serve(router, http.MethodGet, "/books?catslug=poesia&limit=5", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var list struct {
		Data []book.Book      `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Anagrama", list.Data[0].PublisherName)
	assert.Equal(t, pagination.Meta{Page: 1, Limit: 5, Total: 1, TotalPages: 1}, list.Meta)

	recorder = serve(router, http.MethodGet, fmt.Sprintf("/books/%d", list.Data[0].ID), "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"isbn":"9789500429212"`)
}

func TestHandler_Errors(t *testing.T) {
	f := newFixture(nil)

	public := newRouter(f, "")
	assert.Equal(t, http.StatusNotFound, serve(public, http.MethodGet, "/books/42", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(public, http.MethodGet, "/books/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(public, http.MethodGet, "/books?sort=rating", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(public, http.MethodPost, "/dashboard/books", `{}`).Code)

	editor := newRouter(f, sec.RoleEditor)
	assert.Equal(t, http.StatusBadRequest, serve(editor, http.MethodPost, "/dashboard/books", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(editor, http.MethodPatch, "/dashboard/books/1", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, serve(editor, http.MethodDelete, "/dashboard/books/1", "").Code)

	admin := newRouter(f, sec.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, serve(admin, http.MethodDelete, "/dashboard/books/1", "").Code)
}
