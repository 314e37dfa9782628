package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/kinkando/score-admin/repository"
	"github.com/sourcegraph/conc/pool"
)

type Score interface {
	ListGpaScores(ctx context.Context, condition model.ScoreSearchCondition, page int) (model.PageResponse[model.GpaScore], error)
	ListLanguageTestScores(ctx context.Context, condition model.ScoreSearchCondition, page int) (model.PageResponse[model.LanguageTestScore], error)
	UpdateGpaScore(ctx context.Context, cmd model.UpdateGpaScoreCommand) (model.GpaScore, error)
	UpdateLanguageTestScore(ctx context.Context, cmd model.UpdateLanguageTestScoreCommand) (model.LanguageTestScore, error)
	Overview(ctx context.Context) (model.ScoreOverview, error)
}

type score struct {
	scoreRepository repository.Score
	reportLinker    ReportLinker
	validate        *validator.Validate
	pageSize        int
}

func NewScoreService(
	scoreRepository repository.Score,
	reportLinker ReportLinker,
	validate *validator.Validate,
	pageSize int,
) Score {
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	return &score{
		scoreRepository: scoreRepository,
		reportLinker:    reportLinker,
		validate:        validate,
		pageSize:        pageSize,
	}
}

func (s *score) ListGpaScores(ctx context.Context, condition model.ScoreSearchCondition, page int) (model.PageResponse[model.GpaScore], error) {
	paging, err := s.paging(condition, page)
	if err != nil {
		return model.PageResponse[model.GpaScore]{}, err
	}

	res, err := s.scoreRepository.GetGpaScores(ctx, condition, paging)
	if err != nil {
		return res, err
	}

	for i := range res.Content {
		res.Content[i].ReportURL = s.reportLinker.Link(ctx, res.Content[i].ReportURL)
	}
	return res, nil
}

func (s *score) ListLanguageTestScores(ctx context.Context, condition model.ScoreSearchCondition, page int) (model.PageResponse[model.LanguageTestScore], error) {
	paging, err := s.paging(condition, page)
	if err != nil {
		return model.PageResponse[model.LanguageTestScore]{}, err
	}

	res, err := s.scoreRepository.GetLanguageTestScores(ctx, condition, paging)
	if err != nil {
		return res, err
	}

	for i := range res.Content {
		res.Content[i].ReportURL = s.reportLinker.Link(ctx, res.Content[i].ReportURL)
	}
	return res, nil
}

// UpdateGpaScore replaces the whole record on the backend: the snapshot
// provides the fields the decision does not change.
func (s *score) UpdateGpaScore(ctx context.Context, cmd model.UpdateGpaScoreCommand) (model.GpaScore, error) {
	if cmd.Snapshot == nil {
		return model.GpaScore{}, missingSnapshotError()
	}
	if err := checkDecision(cmd.ID, cmd.Snapshot.ID, cmd.Decision); err != nil {
		return model.GpaScore{}, err
	}

	req := model.UpdateGpaScoreRequest{
		Gpa:            cmd.Snapshot.Gpa,
		GpaCriteria:    cmd.Snapshot.GpaCriteria,
		VerifyStatus:   cmd.Decision.VerifyStatus,
		RejectedReason: cmd.Decision.Reason(),
	}
	if err := s.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return model.GpaScore{}, &model.ValidationError{Message: err.Error()}
	}

	updated, err := s.scoreRepository.UpdateGpaScore(ctx, cmd.ID, req)
	if err != nil {
		return model.GpaScore{}, err
	}
	updated.ReportURL = s.reportLinker.Link(ctx, updated.ReportURL)
	return updated, nil
}

func (s *score) UpdateLanguageTestScore(ctx context.Context, cmd model.UpdateLanguageTestScoreCommand) (model.LanguageTestScore, error) {
	if cmd.Snapshot == nil {
		return model.LanguageTestScore{}, missingSnapshotError()
	}
	if err := checkDecision(cmd.ID, cmd.Snapshot.ID, cmd.Decision); err != nil {
		return model.LanguageTestScore{}, err
	}

	req := model.UpdateLanguageTestScoreRequest{
		LanguageTestType:  cmd.Snapshot.LanguageTestType,
		LanguageTestScore: cmd.Snapshot.LanguageTestScore,
		VerifyStatus:      cmd.Decision.VerifyStatus,
		RejectedReason:    cmd.Decision.Reason(),
	}
	if err := s.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return model.LanguageTestScore{}, &model.ValidationError{Message: err.Error()}
	}

	updated, err := s.scoreRepository.UpdateLanguageTestScore(ctx, cmd.ID, req)
	if err != nil {
		return model.LanguageTestScore{}, err
	}
	updated.ReportURL = s.reportLinker.Link(ctx, updated.ReportURL)
	return updated, nil
}

// Overview counts the pending records of both kinds side by side.
func (s *score) Overview(ctx context.Context) (overview model.ScoreOverview, err error) {
	pending := model.ScoreSearchCondition{VerifyStatus: model.VerifyStatusPending}
	paging := model.Pagination{Page: 1, Size: 1}

	conc := pool.New().WithContext(ctx).WithCancelOnError()
	conc.Go(func(ctx context.Context) error {
		page, err := s.scoreRepository.GetGpaScores(ctx, pending, paging)
		overview.PendingGpaScores = page.TotalElements
		return err
	})
	conc.Go(func(ctx context.Context) error {
		page, err := s.scoreRepository.GetLanguageTestScores(ctx, pending, paging)
		overview.PendingLanguageTestScores = page.TotalElements
		return err
	})
	if err = conc.Wait(); err != nil {
		logger.Context(ctx).Error(err)
		return model.ScoreOverview{}, err
	}
	return overview, nil
}

func (s *score) paging(condition model.ScoreSearchCondition, page int) (model.Pagination, error) {
	if page < 1 {
		return model.Pagination{}, &model.ValidationError{Field: "page", Message: "page starts at 1"}
	}
	if condition.VerifyStatus != "" && !condition.VerifyStatus.IsValid() {
		return model.Pagination{}, &model.ValidationError{Field: "verifyStatus", Message: "unknown verify status " + string(condition.VerifyStatus)}
	}
	return model.Pagination{Page: page, Size: s.pageSize}, nil
}

func missingSnapshotError() error {
	return &model.ValidationError{Field: "snapshot", Message: "current record is required to build a full update"}
}

// checkDecision keeps rejectedReason present exactly when the record is rejected.
func checkDecision(id, snapshotID int64, decision model.VerifyDecision) error {
	if id != snapshotID {
		return &model.ValidationError{Field: "snapshot", Message: "snapshot belongs to another record"}
	}
	if !decision.VerifyStatus.IsValid() {
		return &model.ValidationError{Field: "verifyStatus", Message: "unknown verify status " + string(decision.VerifyStatus)}
	}
	if decision.VerifyStatus == model.VerifyStatusRejected && strings.TrimSpace(decision.RejectedReason) == "" {
		return model.ErrRejectReasonRequired
	}
	return nil
}
