// Copyright (c) 2026 Minbar. All rights reserved.

package article

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/minbarhq/minbar/internal/platform/middleware"
	requestutil "github.com/minbarhq/minbar/internal/platform/request"
	"github.com/minbarhq/minbar/internal/platform/respond"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/pkg/pagination"
)

// Handler implements the /articles endpoints.
type Handler struct {
	articleService *Service
}

// NewHandler constructs a new article [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{articleService: service}
}

// Routes returns the article router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.With(middleware.RequireAnyRole(sec.ScholarRoles...)).Post("/", handler.publish)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/like", handler.toggleLike)
	})

	return router
}

/*
GET /api/v1/articles.

Request:
  - page, limit: pagination
  - category: string (optional)
  - q: string (optional, title or body search)

Response:
  - 200: []Article with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Category: strings.TrimSpace(query.Get("category")),
		Query:    strings.TrimSpace(query.Get("q")),
	}

	articles, total, err := handler.articleService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, articles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/articles/{id}.

Description: {id} accepts either the UUID or the slug.

Response:
  - 200: Article
  - 404: Article not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.articleService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

type publishRequest struct {
	Title         string  `json:"title"`
	Body          string  `json:"body"`
	Category      string  `json:"category"`
	CoverImageURL *string `json:"cover_image_url"`
}

/*
POST /api/v1/articles.

Response:
  - 201: Article
  - 400: Validation failure
  - 403: Caller is not a scholar
*/
func (handler *Handler) publish(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input publishRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.articleService.Publish(request.Context(), actor, Draft(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, article)
}

type updateRequest struct {
	Title         *string `json:"title"`
	Body          *string `json:"body"`
	Category      *string `json:"category"`
	CoverImageURL *string `json:"cover_image_url"`
}

/*
PATCH /api/v1/articles/{id}.

Response:
  - 200: Article
  - 400: Validation failure or empty patch
  - 403: Caller is neither the author nor a chief imam
  - 404: Article not found
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

	article, err := handler.articleService.Update(request.Context(), actor, requestutil.Param(request, "id"), Patch(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

/*
DELETE /api/v1/articles/{id}.

Response:
  - 200: {"id": string}
  - 403: Caller is neither the author nor a chief imam
  - 404: Article not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")
	if err := handler.articleService.Delete(request.Context(), actor, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"id": id})
}

/*
POST /api/v1/articles/{id}/like.

Response:
  - 200: LikeResult
  - 404: Article not found
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.articleService.ToggleLike(request.Context(), actor, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
