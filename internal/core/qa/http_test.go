// Copyright (c) 2026 Minbar. All rights reserved.

package qa_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbarhq/minbar/internal/core/qa"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func serve(t *testing.T, router http.Handler, actor *sec.Principal, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if actor != nil {
		claims := &sec.AuthClaims{UserID: actor.UserID, Role: string(actor.Role)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var payload envelope
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	}
	return recorder, payload
}

func seed(t *testing.T, service *qa.Service) *qa.QuestionAndAnswer {
	t.Helper()
	record, err := service.Ask(context.Background(), asker, qa.AskQuestion{Category: "fiqh", Text: "Question"})
	require.NoError(t, err)
	return record
}

/*
TestHandler_PatchShim checks that the combined PATCH accepts exactly one field.
*/
func TestHandler_PatchShim(t *testing.T) {
	service, _ := newService()
	router := qa.NewHandler(service).Routes()
	record := seed(t, service)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"both_fields", `{"question":"q","answer":"a"}`, http.StatusBadRequest},
		{"neither_field", `{}`, http.StatusBadRequest},
		{"blank_question", `{"question":"   "}`, http.StatusBadRequest},
		{"edit_question", `{"question":"edited"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, _ := serve(t, router, &asker, http.MethodPatch, "/"+record.ID, tt.body)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestHandler_AnswerRoleGate checks that a community member cannot answer while an imam can.
*/
func TestHandler_AnswerRoleGate(t *testing.T) {
	service, _ := newService()
	router := qa.NewHandler(service).Routes()
	record := seed(t, service)

	recorder, payload := serve(t, router, &asker, http.MethodPatch, "/"+record.ID, `{"answer":"mine"}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "FORBIDDEN", payload.Code)

	recorder, _ = serve(t, router, &asker, http.MethodPut, "/"+record.ID+"/answer", `{"answer":"mine"}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder, payload = serve(t, router, &imam, http.MethodPatch, "/"+record.ID, `{"answer":"Answer"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var updated qa.QuestionAndAnswer
	require.NoError(t, json.Unmarshal(payload.Data, &updated))
	assert.True(t, updated.IsAnswered)
	require.NotNil(t, updated.AnsweredBy)
	assert.Equal(t, imam.UserID, *updated.AnsweredBy)
	assert.NotNil(t, updated.DateAnswered)

	recorder, _ = serve(t, router, &asker, http.MethodPatch, "/"+record.ID+"/question", `{"question":"edited"}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

/*
TestHandler_Lifecycle covers create, fetch, list, like and delete over HTTP.
*/
func TestHandler_Lifecycle(t *testing.T) {
	service, _ := newService()
	router := qa.NewHandler(service).Routes()

	recorder, _ := serve(t, router, nil, http.MethodPost, "/", `{"questionCategory":"fiqh","question":"Q"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder, _ = serve(t, router, &asker, http.MethodPost, "/", `{"questionCategory":"fiqh"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder, payload := serve(t, router, &asker, http.MethodPost, "/", `{"questionCategory":"fiqh","question":"Q"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created qa.QuestionAndAnswer
	require.NoError(t, json.Unmarshal(payload.Data, &created))
	assert.Equal(t, asker.UserID, created.AskedBy)
	assert.Contains(t, string(payload.Data), `"answeredBy":null`)

	recorder, _ = serve(t, router, nil, http.MethodGet, "/"+created.ID, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder, payload = serve(t, router, nil, http.MethodGet, "/?category=fiqh&answered=false", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, string(payload.Data), created.ID)

	recorder, _ = serve(t, router, nil, http.MethodPost, "/"+created.ID+"/like", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder, payload = serve(t, router, &stranger, http.MethodPost, "/"+created.ID+"/like", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"likes":1,"liked":true}`, string(payload.Data))

	recorder, _ = serve(t, router, &stranger, http.MethodDelete, "/"+created.ID, "")
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder, _ = serve(t, router, &asker, http.MethodDelete, "/"+created.ID, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder, _ = serve(t, router, &asker, http.MethodDelete, "/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
