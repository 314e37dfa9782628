package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_GetGpaScores_Query(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/scores/gpas", r.URL.Path)
		assert.Equal(t, "PENDING", r.URL.Query().Get("verifyStatus"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))

		_, _ = w.Write([]byte(`{
			"content":[{"id":42,"gpa":3.8,"gpaCriteria":4.5,"verifyStatus":"PENDING","reportUrl":"reports/42.pdf",
				"user":{"id":7,"nickname":"kim","profileImageUrl":"p.png"}}],
			"totalElements":1,"totalPages":1,"size":10,"number":0}`))
	}))
	t.Cleanup(srv.Close)

	repo := NewScoreRepository(srv.URL, srv.Client())
	page, err := repo.GetGpaScores(context.Background(), model.ScoreSearchCondition{VerifyStatus: model.VerifyStatusPending}, model.Pagination{Page: 1})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Content, 1)
	require.Equal(t, int64(42), page.Content[0].ID)
	require.Equal(t, 3.8, page.Content[0].Gpa)
	require.Equal(t, "kim", page.Content[0].User.Nickname)
}

func TestScore_GetLanguageTestScores_NoFilterMeansAllStatuses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scores/language-tests", r.URL.Path)
		assert.False(t, r.URL.Query().Has("verifyStatus"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"content":[],"totalElements":0,"totalPages":0,"size":10,"number":2}`))
	}))
	t.Cleanup(srv.Close)

	repo := NewScoreRepository(srv.URL, srv.Client())
	page, err := repo.GetLanguageTestScores(context.Background(), model.ScoreSearchCondition{}, model.Pagination{Page: 3})
	require.NoError(t, err)
	require.Empty(t, page.Content)
}

func TestScore_UpdateGpaScore_Body(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/scores/gpas/42", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, map[string]any{"gpa": 3.8, "gpaCriteria": 4.5, "verifyStatus": "APPROVED"}, body)

		_, _ = w.Write([]byte(`{"id":42,"gpa":3.8,"gpaCriteria":4.5,"verifyStatus":"APPROVED"}`))
	}))
	t.Cleanup(srv.Close)

	repo := NewScoreRepository(srv.URL, srv.Client())
	updated, err := repo.UpdateGpaScore(context.Background(), 42, model.UpdateGpaScoreRequest{
		Gpa: 3.8, GpaCriteria: 4.5, VerifyStatus: model.VerifyStatusApproved,
	})
	require.NoError(t, err)
	require.Equal(t, model.VerifyStatusApproved, updated.VerifyStatus)
}

func TestScore_UpdateLanguageTestScore_BackendRejects(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scores/language-tests/9", r.URL.Path)

		var body model.UpdateLanguageTestScoreRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "blurry scan", util.Value(body.RejectedReason))

		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"score is malformed"}`))
	}))
	t.Cleanup(srv.Close)

	repo := NewScoreRepository(srv.URL, srv.Client())
	_, err := repo.UpdateLanguageTestScore(context.Background(), 9, model.UpdateLanguageTestScoreRequest{
		LanguageTestType:  model.LanguageTestTOEIC,
		LanguageTestScore: "900",
		VerifyStatus:      model.VerifyStatusRejected,
		RejectedReason:    util.Pointer("blurry scan"),
	})

	var backendErr *model.BackendError
	require.ErrorAs(t, err, &backendErr)
	require.Equal(t, http.StatusBadRequest, backendErr.StatusCode)
	require.Equal(t, "score is malformed", backendErr.Message)
}
