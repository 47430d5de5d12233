// Copyright (c) 2026 Qumran. All rights reserved.

package author

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qumran/qumran/internal/catalog/listing"
	"github.com/qumran/qumran/internal/platform/middleware"
	requestutil "github.com/qumran/qumran/internal/platform/request"
	"github.com/qumran/qumran/internal/platform/respond"
	"github.com/qumran/qumran/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublic mounts the read-only author routes.
func (handler *Handler) RegisterPublic(router chi.Router) {
	router.Get("/", handler.listAuthors)
	router.Get("/{slug}", handler.getAuthorBySlug)
}

// RegisterDashboard mounts the author management routes.
func (handler *Handler) RegisterDashboard(router chi.Router) {
	router.Group(func(editorRoute chi.Router) {
		editorRoute.Use(middleware.RequireRole(sec.RoleEditor))

		editorRoute.Get("/", handler.listAuthors)
		editorRoute.Post("/", handler.createAuthor)
		editorRoute.Get("/{id}", handler.getAuthor)
		editorRoute.Patch("/{id}", handler.updateAuthor)

		// Admin strict only
		editorRoute.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.deleteAuthor)
	})
}

func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	params, limit, offset, paginated := listing.Window(request)
	filter := listing.FilterFromQuery(request.URL.Query())

	authors, total, err := handler.service.List(request.Context(), filter, limit, offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing.Write(writer, authors, total, params, paginated)
}

func (handler *Handler) getAuthorBySlug(writer http.ResponseWriter, request *http.Request) {
	author, err := handler.service.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) getAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.IntID(request, "id", Resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.Get(request.Context(), authorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) createAuthor(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, author)
}

func (handler *Handler) updateAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.IntID(request, "id", Resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	author, err := handler.service.Update(request.Context(), authorID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, author)
}

func (handler *Handler) deleteAuthor(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.IntID(request, "id", Resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), authorID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
