// Copyright (c) 2026 Qumran. All rights reserved.

package named

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qumran/qumran/internal/catalog/listing"
	"github.com/qumran/qumran/internal/platform/middleware"
	requestutil "github.com/qumran/qumran/internal/platform/request"
	"github.com/qumran/qumran/internal/platform/respond"
	"github.com/qumran/qumran/internal/platform/sec"
)

// Handler serves the public and dashboard routes of one entity type.
type Handler struct {
	service  Operations
	resource string
}

// NewHandler creates a handler; resource names the entity in 404 messages.
func NewHandler(service Operations, resource string) *Handler {
	return &Handler{service: service, resource: resource}
}

// RegisterPublic mounts the read-only routes: list and get by slug.
func (handler *Handler) RegisterPublic(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/{slug}", handler.getBySlug)
}

// RegisterDashboard mounts the management routes. Editors create and update;
// only admins delete.
func (handler *Handler) RegisterDashboard(router chi.Router) {
	router.Group(func(editorRoute chi.Router) {
		editorRoute.Use(middleware.RequireRole(sec.RoleEditor))

		editorRoute.Get("/", handler.list)
		editorRoute.Post("/", handler.create)
		editorRoute.Get("/{id}", handler.get)
		editorRoute.Patch("/{id}", handler.update)

		editorRoute.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.delete)
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params, limit, offset, paginated := listing.Window(request)
	filter := listing.FilterFromQuery(request.URL.Query())

	entities, total, err := handler.service.List(request.Context(), filter, limit, offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing.Write(writer, entities, total, params, paginated)
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.service.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entity)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id", handler.resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entity)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, entity)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id", handler.resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entity)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id", handler.resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
