// Copyright (c) 2026 Qumran. All rights reserved.

package author_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qumran/qumran/internal/catalog/author"
	"github.com/qumran/qumran/internal/platform/ctxutil"
	"github.com/qumran/qumran/internal/platform/sec"
)

func newRouter(service *author.Service, role sec.UserRole) http.Handler {
	handler := author.NewHandler(service)

	router := chi.NewRouter()
	router.Route("/authors", handler.RegisterPublic)
	router.Route("/dashboard/authors", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				claims := &sec.AuthClaims{UserID: "u1", Role: string(role)}
				next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
			})
		})
		handler.RegisterDashboard(r)
	})
	return router
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

func TestHandler_CreateThenReadBySlug(t *testing.T) {
	service, _, _ := newService()
	router := newRouter(service, sec.RoleEditor)

	recorder := serve(router, http.MethodPost, "/dashboard/authors", `{"first_name":"Julio","last_name":"Cortázar"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = serve(router, http.MethodGet, "/authors/julio-cortazar", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data author.Author `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Cortázar", body.Data.LastName)
	require.NotNil(t, body.Data.FirstName)
	assert.Equal(t, "Julio", *body.Data.FirstName)
}

func TestHandler_Validation(t *testing.T) {
	service, _, _ := newService()
	router := newRouter(service, sec.RoleEditor)

	recorder := serve(router, http.MethodPost, "/dashboard/authors", `{"first_name":"Julio"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "last_name: This field is required")
}

func TestHandler_DeleteNeedsAdmin(t *testing.T) {
	service, _, _ := newService()
	created, err := service.Create(t.Context(), author.Input{LastName: "Homero"})
	require.NoError(t, err)

	editor := newRouter(service, sec.RoleEditor)
	assert.Equal(t, http.StatusForbidden, serve(editor, http.MethodDelete, "/dashboard/authors/1", "").Code)

	admin := newRouter(service, sec.RoleAdmin)
	assert.Equal(t, http.StatusNoContent, serve(admin, http.MethodDelete, "/dashboard/authors/1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(admin, http.MethodGet, "/dashboard/authors/1", "").Code)
	assert.Equal(t, 1, created.ID)
}
