// Copyright (c) 2026 Minbar. All rights reserved.

package dua

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/middleware"
	requestutil "github.com/minbarhq/minbar/internal/platform/request"
	"github.com/minbarhq/minbar/internal/platform/respond"
	"github.com/minbarhq/minbar/pkg/pagination"
)

// Handler implements the /dua_requests endpoints.
type Handler struct {
	duaService *Service
}

// NewHandler constructs a new dua [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{duaService: service}
}

// Routes returns the dua request router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/pray", handler.pray)
	})

	return router
}

// viewerID returns the caller's user ID, or "" for anonymous requests.
func viewerID(request *http.Request) string {
	return ctxutil.GetViewerID(request.Context())
}

/*
GET /api/v1/dua_requests.

Response:
  - 200: []Request with pagination meta, newest first
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	requests, total, err := handler.duaService.List(request.Context(), viewerID(request), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, requests, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/dua_requests/{id}.

Response:
  - 200: Request
  - 404: Dua request not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	dua, err := handler.duaService.Get(request.Context(), viewerID(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, dua)
}

type createRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	IsAnonymous bool   `json:"is_anonymous"`
}

/*
POST /api/v1/dua_requests.

Response:
  - 201: Request (requested_by = caller)
  - 400: Validation failure
  - 401: Authentication required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	dua, err := handler.duaService.Create(request.Context(), actor, Draft(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, dua)
}

type updateRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

/*
PATCH /api/v1/dua_requests/{id}.

Response:
  - 200: Request
  - 403: Caller is not the requester
  - 404: Dua request not found
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	dua, err := handler.duaService.Update(request.Context(), actor, requestutil.Param(request, "id"), Patch(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, dua)
}

/*
DELETE /api/v1/dua_requests/{id}.

Response:
  - 200: {"id": string}
  - 403: Caller is neither the requester nor a chief imam
  - 404: Dua request not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")
	if err := handler.duaService.Delete(request.Context(), actor, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"id": id})
}

/*
POST /api/v1/dua_requests/{id}/pray.

Response:
  - 200: PrayResult
  - 401: Authentication required
  - 404: Dua request not found
*/
func (handler *Handler) pray(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.duaService.Pray(request.Context(), actor, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
