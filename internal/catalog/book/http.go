// Copyright (c) 2026 Qumran. All rights reserved.

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qumran/qumran/internal/platform/middleware"
	requestutil "github.com/qumran/qumran/internal/platform/request"
	"github.com/qumran/qumran/internal/platform/respond"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/pkg/pagination"
)

// Handler serves the book endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates the book handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublic mounts the read-only book routes.
func (handler *Handler) RegisterPublic(router chi.Router) {
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)
}

// RegisterDashboard mounts the book management routes.
func (handler *Handler) RegisterDashboard(router chi.Router) {
	router.Group(func(editorRoute chi.Router) {
		editorRoute.Use(middleware.RequireRole(sec.RoleEditor))

		editorRoute.Get("/", handler.listBooks)
		editorRoute.Post("/", handler.createBook)
		editorRoute.Get("/{id}", handler.getBook)
		editorRoute.Patch("/{id}", handler.updateBook)

		// Admin strict only
		editorRoute.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.deleteBook)
	})
}

/*
GET /api/v1/books.

Request:
  - q | title: string (title substring)
  - authorSlug | authslug, publisherSlug | pubslug, categorySlug | catslug,
    locationSlug | locslug: string
  - tags | tag: comma separated, all must match
  - sort: author, -author, title, -title, created_at, -created_at
  - page, limit: int

Response:
  - 200: []Book with page metadata
  - 400: unknown sort
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := FilterFromQuery(request.URL.Query())

	page, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Items, page.Meta)
}

/*
GET /api/v1/books/{id}.

Response:
  - 200: Book, with links when the object store is configured
  - 404: unknown id
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "id", Resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Get(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

/*
POST /api/v1/dashboard/books.

Response:
  - 201: Book
  - 400: validation error
  - 409: duplicate ISBN
*/
func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, book)
}

/*
PATCH /api/v1/dashboard/books/{id}.

Response:
  - 200: Book
  - 400: validation error or empty body
  - 404: unknown id
  - 409: duplicate ISBN
*/
func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "id", Resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var changes Changes
	if err := requestutil.DecodeJSON(request, &changes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Update(request.Context(), bookID, changes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntID(request, "id", Resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
