// Copyright (c) 2026 Minbar. All rights reserved.

package qa

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/minbarhq/minbar/internal/platform/middleware"
	requestutil "github.com/minbarhq/minbar/internal/platform/request"
	"github.com/minbarhq/minbar/internal/platform/respond"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/platform/validate"
	"github.com/minbarhq/minbar/pkg/convert"
	"github.com/minbarhq/minbar/pkg/pagination"
)

const (
	maxQuestionLength = 5000
	maxAnswerLength   = 20000
)

// Handler implements the /questions_and_answers endpoints.
type Handler struct {
	qaService *Service
}

// NewHandler constructs a new Q&A [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{qaService: service}
}

// Routes returns the Q&A router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/", handler.ask)
		r.Patch("/{id}", handler.patch)
		r.Patch("/{id}/question", handler.editQuestion)
		r.Delete("/{id}", handler.delete)
		r.Post("/{id}/like", handler.toggleLike)

		r.With(middleware.RequireAnyRole(sec.ScholarRoles...)).Put("/{id}/answer", handler.submitAnswer)
	})

	return router
}

// # Read Endpoints

/*
GET /api/v1/questions_and_answers.

Request:
  - page, limit: pagination
  - category: string (optional)
  - answered: bool (optional)

Response:
  - 200: []QuestionAndAnswer with pagination meta, newest first
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		Category: strings.TrimSpace(query.Get("category")),
		Answered: convert.ToBoolPtr(query.Get("answered")),
	}

	records, total, err := handler.qaService.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, records, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/questions_and_answers/{id}.

Response:
  - 200: QuestionAndAnswer
  - 404: Question not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	record, err := handler.qaService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

// # Write Endpoints

type askRequest struct {
	QuestionCategory string `json:"questionCategory" validate:"required,notblank,max=100"`
	Question         string `json:"question" validate:"required,notblank,max=5000"`
}

/*
POST /api/v1/questions_and_answers.

Request:
  - body: askRequest

Response:
  - 201: QuestionAndAnswer (Pending, askedBy = caller)
  - 400: Validation failure
  - 401: Authentication required
*/
func (handler *Handler) ask(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input askRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validate.Struct(&input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.qaService.Ask(request.Context(), actor, AskQuestion{
		Category: input.QuestionCategory,
		Text:     input.Question,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}

// patchRequest is the body of the combined PATCH endpoint. Exactly one field must be set.
type patchRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

/*
PATCH /api/v1/questions_and_answers/{id}.

Description: Compatibility endpoint. A body with "question" edits the question, a body
with "answer" submits an answer. Both or neither is rejected.

Request:
  - body: patchRequest

Response:
  - 200: QuestionAndAnswer
  - 400: Ambiguous or empty body
  - 403: Policy violation
  - 404: Question not found
*/
func (handler *Handler) patch(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input patchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	shape := &validate.Validator{}
	shape.Custom("body", (input.Question == nil) == (input.Answer == nil), "Provide exactly one of 'question' or 'answer'")
	if err := shape.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	var record *QuestionAndAnswer
	if input.Question != nil {
		if err := validateText("question", *input.Question, maxQuestionLength); err != nil {
			respond.Error(writer, request, err)
			return
		}
		record, err = handler.qaService.EditQuestion(request.Context(), actor, id, EditQuestion{Text: *input.Question})
	} else {
		if err := validateText("answer", *input.Answer, maxAnswerLength); err != nil {
			respond.Error(writer, request, err)
			return
		}
		record, err = handler.qaService.SubmitAnswer(request.Context(), actor, id, SubmitAnswer{Text: *input.Answer})
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

type editQuestionRequest struct {
	Question string `json:"question"`
}

/*
PATCH /api/v1/questions_and_answers/{id}/question.

Response:
  - 200: QuestionAndAnswer
  - 403: Answered, or caller is not the asker
  - 404: Question not found
*/
func (handler *Handler) editQuestion(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input editQuestionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validateText("question", input.Question, maxQuestionLength); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.qaService.EditQuestion(request.Context(), actor, requestutil.Param(request, "id"), EditQuestion{Text: input.Question})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

/*
PUT /api/v1/questions_and_answers/{id}/answer.

Response:
  - 200: QuestionAndAnswer (Answered)
  - 403: Caller is not a scholar
  - 404: Question not found
*/
func (handler *Handler) submitAnswer(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitAnswerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := validateText("answer", input.Answer, maxAnswerLength); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.qaService.SubmitAnswer(request.Context(), actor, requestutil.Param(request, "id"), SubmitAnswer{Text: input.Answer})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
DELETE /api/v1/questions_and_answers/{id}.

Response:
  - 200: {"id": string}
  - 403: Policy violation
  - 404: Question not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")
	if err := handler.qaService.Delete(request.Context(), actor, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"id": id})
}

/*
POST /api/v1/questions_and_answers/{id}/like.

Response:
  - 200: LikeResult
  - 401: Authentication required
  - 404: Question not found
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.qaService.ToggleLike(request.Context(), actor, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

func validateText(field, value string, max int) error {
	v := &validate.Validator{}
	v.Required(field, strings.TrimSpace(value)).MaxLen(field, value, max)
	return v.Err()
}
