package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
	"github.com/kinkando/score-admin/service"
	"github.com/labstack/echo/v4"
)

// scoreBoard is a board of either score kind with its views erased, so one
// set of handlers serves both kinds.
type scoreBoard interface {
	load(ctx context.Context, condition model.ScoreSearchCondition, page int) (any, error)
	approve(ctx context.Context, id int64) (any, error)
	beginReject(ctx context.Context, id int64) (any, error)
	cancelReject(ctx context.Context, id int64) (any, error)
	confirmReject(ctx context.Context, id int64, reason string) (any, error)
	dismissNotice() any
	export(ctx context.Context, format model.ExportFormat) (model.ExportFile, error)
}

type boardAdapter[T model.Record] struct {
	board  *service.Board[T]
	render func(ctx context.Context, records []T, format model.ExportFormat) (model.ExportFile, error)
}

func (a boardAdapter[T]) load(ctx context.Context, condition model.ScoreSearchCondition, page int) (any, error) {
	return a.board.Load(ctx, condition, page)
}

func (a boardAdapter[T]) approve(ctx context.Context, id int64) (any, error) {
	return a.board.Approve(ctx, id)
}

func (a boardAdapter[T]) beginReject(ctx context.Context, id int64) (any, error) {
	return a.board.BeginReject(ctx, id)
}

func (a boardAdapter[T]) cancelReject(ctx context.Context, id int64) (any, error) {
	return a.board.CancelReject(ctx, id)
}

func (a boardAdapter[T]) confirmReject(ctx context.Context, id int64, reason string) (any, error) {
	return a.board.ConfirmReject(ctx, id, reason)
}

func (a boardAdapter[T]) dismissNotice() any {
	return a.board.DismissNotice()
}

func (a boardAdapter[T]) export(ctx context.Context, format model.ExportFormat) (model.ExportFile, error) {
	return a.render(ctx, a.board.Records(), format)
}

type ScoreHandler struct {
	scoreService      service.Score
	gpaBoard          *service.Board[model.GpaScore]
	languageTestBoard *service.Board[model.LanguageTestScore]
	boards            map[model.ScoreKind]scoreBoard
	validate          *validator.Validate
}

func NewScoreHandler(
	e *echo.Echo,
	validate *validator.Validate,
	scoreService service.Score,
	exportService service.Export,
	gpaBoard *service.Board[model.GpaScore],
	languageTestBoard *service.Board[model.LanguageTestScore],
	middlewares ...echo.MiddlewareFunc,
) {
	handler := &ScoreHandler{
		scoreService:      scoreService,
		gpaBoard:          gpaBoard,
		languageTestBoard: languageTestBoard,
		boards: map[model.ScoreKind]scoreBoard{
			model.ScoreKindGPA:          boardAdapter[model.GpaScore]{board: gpaBoard, render: exportService.GpaScores},
			model.ScoreKindLanguageTest: boardAdapter[model.LanguageTestScore]{board: languageTestBoard, render: exportService.LanguageTestScores},
		},
		validate: validate,
	}

	route := e.Group("/scores", middlewares...)
	route.GET("/overview", handler.overview)
	route.PUT("/gpas/:id", handler.editGpaScore)
	route.PUT("/language-tests/:id", handler.editLanguageTestScore)
	route.GET("/:kind", handler.getScores)
	route.GET("/:kind/export", handler.exportScores)
	route.DELETE("/:kind/notice", handler.dismissNotice)
	route.POST("/:kind/:id/approve", handler.approve)
	route.POST("/:kind/:id/reject", handler.beginReject)
	route.POST("/:kind/:id/reject/cancel", handler.cancelReject)
	route.POST("/:kind/:id/reject/confirm", handler.confirmReject)
}

func (h *ScoreHandler) overview(c echo.Context) error {
	overview, err := h.scoreService.Overview(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, overview)
}

func (h *ScoreHandler) getScores(c echo.Context) error {
	ctx := c.Request().Context()

	board, err := h.board(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}

	var req model.ScoreListRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	req.AssignDefault()

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	view, err := board.load(ctx, model.ScoreSearchCondition{VerifyStatus: req.VerifyStatus}, req.Page)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *ScoreHandler) approve(c echo.Context) error {
	return h.act(c, func(ctx context.Context, board scoreBoard, req model.ScoreActionRequest) (any, error) {
		return board.approve(ctx, req.ID)
	})
}

func (h *ScoreHandler) beginReject(c echo.Context) error {
	return h.act(c, func(ctx context.Context, board scoreBoard, req model.ScoreActionRequest) (any, error) {
		return board.beginReject(ctx, req.ID)
	})
}

func (h *ScoreHandler) cancelReject(c echo.Context) error {
	return h.act(c, func(ctx context.Context, board scoreBoard, req model.ScoreActionRequest) (any, error) {
		return board.cancelReject(ctx, req.ID)
	})
}

func (h *ScoreHandler) confirmReject(c echo.Context) error {
	return h.act(c, func(ctx context.Context, board scoreBoard, req model.ScoreActionRequest) (any, error) {
		return board.confirmReject(ctx, req.ID, req.Reason)
	})
}

func (h *ScoreHandler) dismissNotice(c echo.Context) error {
	board, err := h.board(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, board.dismissNotice())
}

func (h *ScoreHandler) exportScores(c echo.Context) error {
	ctx := c.Request().Context()

	board, err := h.board(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}

	var req model.ExportRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	file, err := board.export(ctx, req.Format)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

func (h *ScoreHandler) editGpaScore(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.EditGpaScoreRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	view, err := h.gpaBoard.Edit(ctx, req.ID, func(s model.GpaScore) model.GpaScore {
		s.Gpa, s.GpaCriteria = req.Gpa, req.GpaCriteria
		return s
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *ScoreHandler) editLanguageTestScore(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.EditLanguageTestScoreRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	view, err := h.languageTestBoard.Edit(ctx, req.ID, func(s model.LanguageTestScore) model.LanguageTestScore {
		s.LanguageTestType, s.LanguageTestScore = req.LanguageTestType, req.LanguageTestScore
		return s
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *ScoreHandler) act(c echo.Context, action func(ctx context.Context, board scoreBoard, req model.ScoreActionRequest) (any, error)) error {
	ctx := c.Request().Context()

	board, err := h.board(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}

	var req model.ScoreActionRequest
	if err := c.Bind(&req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.validate.Struct(req); err != nil {
		logger.Context(ctx).Error(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	view, err := action(ctx, board, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *ScoreHandler) board(c echo.Context) (scoreBoard, error) {
	kind, ok := model.ParseScoreKind(c.Param("kind"))
	if !ok {
		return nil, fmt.Errorf("unknown score kind %q", c.Param("kind"))
	}
	return h.boards[kind], nil
}
