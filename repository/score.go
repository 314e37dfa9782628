package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
)

const (
	gpaScorePath          = "/scores/gpas"
	languageTestScorePath = "/scores/language-tests"
)

// Score reads and replaces score records on the protected backend. The client
// given to NewScoreRepository is expected to carry the token interceptor.
type Score interface {
	GetGpaScores(ctx context.Context, condition model.ScoreSearchCondition, paging model.Pagination) (model.PageResponse[model.GpaScore], error)
	UpdateGpaScore(ctx context.Context, id int64, req model.UpdateGpaScoreRequest) (model.GpaScore, error)
	GetLanguageTestScores(ctx context.Context, condition model.ScoreSearchCondition, paging model.Pagination) (model.PageResponse[model.LanguageTestScore], error)
	UpdateLanguageTestScore(ctx context.Context, id int64, req model.UpdateLanguageTestScoreRequest) (model.LanguageTestScore, error)
}

type score struct {
	rest *restClient
}

func NewScoreRepository(baseURL string, client *http.Client) Score {
	return &score{
		rest: &restClient{baseURL: baseURL, client: client},
	}
}

func (r *score) GetGpaScores(ctx context.Context, condition model.ScoreSearchCondition, paging model.Pagination) (page model.PageResponse[model.GpaScore], err error) {
	err = r.rest.do(ctx, restRequest{
		method: http.MethodGet,
		path:   gpaScorePath,
		query:  searchQuery(condition, paging),
	}, &page)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.PageResponse[model.GpaScore]{}, err
	}
	return page, nil
}

func (r *score) UpdateGpaScore(ctx context.Context, id int64, req model.UpdateGpaScoreRequest) (updated model.GpaScore, err error) {
	err = r.rest.do(ctx, restRequest{
		method: http.MethodPut,
		path:   gpaScorePath + "/" + strconv.FormatInt(id, 10),
		body:   req,
	}, &updated)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.GpaScore{}, err
	}
	return updated, nil
}

func (r *score) GetLanguageTestScores(ctx context.Context, condition model.ScoreSearchCondition, paging model.Pagination) (page model.PageResponse[model.LanguageTestScore], err error) {
	err = r.rest.do(ctx, restRequest{
		method: http.MethodGet,
		path:   languageTestScorePath,
		query:  searchQuery(condition, paging),
	}, &page)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.PageResponse[model.LanguageTestScore]{}, err
	}
	return page, nil
}

func (r *score) UpdateLanguageTestScore(ctx context.Context, id int64, req model.UpdateLanguageTestScoreRequest) (updated model.LanguageTestScore, err error) {
	err = r.rest.do(ctx, restRequest{
		method: http.MethodPut,
		path:   languageTestScorePath + "/" + strconv.FormatInt(id, 10),
		body:   req,
	}, &updated)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.LanguageTestScore{}, err
	}
	return updated, nil
}

// searchQuery leaves verifyStatus out when no status is selected so the
// backend answers every status.
func searchQuery(condition model.ScoreSearchCondition, paging model.Pagination) url.Values {
	paging.AssignDefault()

	query := url.Values{}
	if condition.VerifyStatus != "" {
		query.Set("verifyStatus", string(condition.VerifyStatus))
	}
	query.Set("page", strconv.Itoa(paging.Page))
	query.Set("size", strconv.Itoa(paging.Size))
	return query
}
