package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScoreService struct {
	gpaScores  []model.GpaScore
	gpaUpdates []model.UpdateGpaScoreCommand
	listPages  []int
	updateErr  error
}

func (s *stubScoreService) ListGpaScores(_ context.Context, _ model.ScoreSearchCondition, page int) (model.PageResponse[model.GpaScore], error) {
	s.listPages = append(s.listPages, page)
	return model.PageResponse[model.GpaScore]{Content: append([]model.GpaScore(nil), s.gpaScores...), TotalElements: len(s.gpaScores), TotalPages: 1}, nil
}

func (s *stubScoreService) ListLanguageTestScores(context.Context, model.ScoreSearchCondition, int) (model.PageResponse[model.LanguageTestScore], error) {
	return model.PageResponse[model.LanguageTestScore]{}, nil
}

func (s *stubScoreService) UpdateGpaScore(_ context.Context, cmd model.UpdateGpaScoreCommand) (model.GpaScore, error) {
	s.gpaUpdates = append(s.gpaUpdates, cmd)
	if s.updateErr != nil {
		return model.GpaScore{}, s.updateErr
	}
	for i := range s.gpaScores {
		if s.gpaScores[i].ID == cmd.ID {
			s.gpaScores[i] = *cmd.Snapshot
			s.gpaScores[i].VerifyStatus = cmd.Decision.VerifyStatus
		}
	}
	return *cmd.Snapshot, nil
}

func (s *stubScoreService) UpdateLanguageTestScore(_ context.Context, cmd model.UpdateLanguageTestScoreCommand) (model.LanguageTestScore, error) {
	return *cmd.Snapshot, nil
}

func (s *stubScoreService) Overview(context.Context) (model.ScoreOverview, error) {
	return model.ScoreOverview{PendingGpaScores: len(s.gpaScores)}, nil
}

func newTestScoreRouter(svc *stubScoreService) *echo.Echo {
	e := echo.New()
	NewScoreHandler(e, validator.New(), svc, service.NewExportService(),
		service.NewGpaBoard(svc),
		service.NewLanguageTestBoard(svc),
	)
	return e
}

func call(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestScoreHandlerListAndApprove(t *testing.T) {
	svc := &stubScoreService{gpaScores: []model.GpaScore{
		{ID: 42, Gpa: 3.5, GpaCriteria: 4.5, VerifyStatus: model.VerifyStatusPending},
	}}
	e := newTestScoreRouter(svc)

	rec := call(e, http.MethodGet, "/scores/gpas?verifyStatus=PENDING&page=3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.BoardView[model.GpaScore]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, model.VerifyStatusPending, view.VerifyStatus)
	require.Len(t, view.Content, 1)
	assert.Equal(t, []service.VerificationAction{service.ActionApprove, service.ActionReject}, view.Content[0].Actions)

	rec = call(e, http.MethodPost, "/scores/gpas/42/approve", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, svc.gpaUpdates, 1)
	assert.Equal(t, int64(42), svc.gpaUpdates[0].ID)
	assert.Equal(t, model.VerifyStatusApproved, svc.gpaUpdates[0].Decision.VerifyStatus)
	assert.Equal(t, []int{3, 3}, svc.listPages)
}

func TestScoreHandlerRejectFlow(t *testing.T) {
	svc := &stubScoreService{gpaScores: []model.GpaScore{
		{ID: 42, Gpa: 3.5, GpaCriteria: 4.5, VerifyStatus: model.VerifyStatusPending},
	}}
	e := newTestScoreRouter(svc)

	require.Equal(t, http.StatusOK, call(e, http.MethodGet, "/scores/gpas", "").Code)

	rec := call(e, http.MethodPost, "/scores/gpas/42/reject/confirm", `{"reason":"blurry"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, http.StatusOK, call(e, http.MethodPost, "/scores/gpas/42/reject", "").Code)

	rec = call(e, http.MethodPost, "/scores/gpas/42/reject/confirm", `{"reason":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.gpaUpdates)

	rec = call(e, http.MethodPost, "/scores/gpas/42/reject/confirm", `{"reason":"blurry"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.gpaUpdates, 1)
	assert.Equal(t, "blurry", svc.gpaUpdates[0].Decision.RejectedReason)
}

func TestScoreHandlerErrors(t *testing.T) {
	svc := &stubScoreService{gpaScores: []model.GpaScore{
		{ID: 42, Gpa: 3.5, GpaCriteria: 4.5, VerifyStatus: model.VerifyStatusPending},
	}}
	e := newTestScoreRouter(svc)

	assert.Equal(t, http.StatusNotFound, call(e, http.MethodGet, "/scores/toefl", "").Code)
	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodGet, "/scores/gpas?verifyStatus=DONE", "").Code)
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodPost, "/scores/gpas/42/approve", "").Code)

	require.Equal(t, http.StatusOK, call(e, http.MethodGet, "/scores/gpas", "").Code)
	svc.updateErr = model.ErrSignInRequired
	rec := call(e, http.MethodPost, "/scores/gpas/42/approve", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(e, http.MethodGet, "/scores/gpas", "")
	var view service.BoardView[model.GpaScore]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Notice)

	svc.updateErr = nil
	rec = call(e, http.MethodDelete, "/scores/gpas/notice", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScoreHandlerEditAndExport(t *testing.T) {
	svc := &stubScoreService{gpaScores: []model.GpaScore{
		{ID: 42, Gpa: 3.5, GpaCriteria: 4.5, VerifyStatus: model.VerifyStatusPending},
	}}
	e := newTestScoreRouter(svc)

	require.Equal(t, http.StatusOK, call(e, http.MethodGet, "/scores/gpas", "").Code)

	rec := call(e, http.MethodPut, "/scores/gpas/42", `{"gpa":3.8,"gpaCriteria":4.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.gpaUpdates, 1)
	assert.Equal(t, 3.8, svc.gpaUpdates[0].Snapshot.Gpa)
	assert.Equal(t, model.VerifyStatusPending, svc.gpaUpdates[0].Decision.VerifyStatus)

	rec = call(e, http.MethodPut, "/scores/gpas/42", `{"gpa":5,"gpaCriteria":4.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e, http.MethodGet, "/scores/gpas/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=\"gpas-")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "ID,Nickname"))

	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodGet, "/scores/gpas/export?format=pdf", "").Code)

	rec = call(e, http.MethodGet, "/scores/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pendingGpaScores":1,"pendingLanguageTestScores":0}`, rec.Body.String())
}
