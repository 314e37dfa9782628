package service

import (
	"context"
	"errors"
	"sync"

	"github.com/kinkando/score-admin/model"
	"github.com/kinkando/score-admin/pkg/logger"
)

type listFunc[T model.Record] func(ctx context.Context, condition model.ScoreSearchCondition, page int) (model.PageResponse[T], error)

type updateFunc[T model.Record] func(ctx context.Context, decision model.VerifyDecision, snapshot T) (T, error)

// Board is the table of one score kind as the operator sees it: the page on
// screen, the verification workflow of every row and the last failure. It
// keeps the current page only; every mutation is followed by a refetch of the
// same filter and page.
type Board[T model.Record] struct {
	kind   model.ScoreKind
	list   listFunc[T]
	update updateFunc[T]

	mu         sync.Mutex
	condition  model.ScoreSearchCondition
	page       int
	current    model.PageResponse[T]
	rows       map[int64]*Verification
	generation uint64
	notice     string
}

type BoardRow[T model.Record] struct {
	Score   T                    `json:"score"`
	State   VerificationState    `json:"state"`
	Actions []VerificationAction `json:"actions"`
}

type BoardView[T model.Record] struct {
	Kind          model.ScoreKind    `json:"kind"`
	VerifyStatus  model.VerifyStatus `json:"verifyStatus,omitempty"`
	Page          int                `json:"page"`
	TotalPages    int                `json:"totalPages"`
	TotalElements int                `json:"totalElements"`
	Content       []BoardRow[T]      `json:"content"`
	Notice        string             `json:"notice,omitempty"`
}

func NewGpaBoard(scoreService Score) *Board[model.GpaScore] {
	return newBoard[model.GpaScore](model.ScoreKindGPA,
		scoreService.ListGpaScores,
		func(ctx context.Context, decision model.VerifyDecision, snapshot model.GpaScore) (model.GpaScore, error) {
			return scoreService.UpdateGpaScore(ctx, model.UpdateGpaScoreCommand{ID: snapshot.ID, Decision: decision, Snapshot: &snapshot})
		},
	)
}

func NewLanguageTestBoard(scoreService Score) *Board[model.LanguageTestScore] {
	return newBoard[model.LanguageTestScore](model.ScoreKindLanguageTest,
		scoreService.ListLanguageTestScores,
		func(ctx context.Context, decision model.VerifyDecision, snapshot model.LanguageTestScore) (model.LanguageTestScore, error) {
			return scoreService.UpdateLanguageTestScore(ctx, model.UpdateLanguageTestScoreCommand{ID: snapshot.ID, Decision: decision, Snapshot: &snapshot})
		},
	)
}

func newBoard[T model.Record](kind model.ScoreKind, list listFunc[T], update updateFunc[T]) *Board[T] {
	return &Board[T]{
		kind:   kind,
		list:   list,
		update: update,
		page:   1,
		rows:   map[int64]*Verification{},
	}
}

// Load fetches a page and puts it on screen, clearing the notice. When a later
// load started while this one was in flight, the older result is dropped.
func (b *Board[T]) Load(ctx context.Context, condition model.ScoreSearchCondition, page int) (BoardView[T], error) {
	b.mu.Lock()
	b.generation++
	generation := b.generation
	b.mu.Unlock()

	res, err := b.list(ctx, condition, page)

	b.mu.Lock()
	defer b.mu.Unlock()

	if generation != b.generation {
		logger.Context(ctx).Debugf("board %s: dropping stale page %d", b.kind, page)
		return b.viewLocked(), nil
	}
	if err != nil {
		b.notice = err.Error()
		return b.viewLocked(), err
	}

	b.condition, b.page, b.current, b.notice = condition, page, res, ""
	b.rows = make(map[int64]*Verification, len(res.Content))
	for _, record := range res.Content {
		b.rows[record.ScoreID()] = NewVerification(record.Status(), b.committer(record))
	}
	return b.viewLocked(), nil
}

// Refresh refetches the filter and page currently on screen.
func (b *Board[T]) Refresh(ctx context.Context) (BoardView[T], error) {
	b.mu.Lock()
	condition, page := b.condition, b.page
	b.mu.Unlock()

	return b.Load(ctx, condition, page)
}

func (b *Board[T]) Approve(ctx context.Context, id int64) (BoardView[T], error) {
	return b.mutate(ctx, id, func(v *Verification) error {
		return v.Approve(ctx)
	})
}

func (b *Board[T]) ConfirmReject(ctx context.Context, id int64, reason string) (BoardView[T], error) {
	return b.mutate(ctx, id, func(v *Verification) error {
		return v.ConfirmReject(ctx, reason)
	})
}

func (b *Board[T]) BeginReject(ctx context.Context, id int64) (BoardView[T], error) {
	verification, err := b.row(id)
	if err == nil {
		err = verification.BeginReject()
	}
	return b.result(ctx, err)
}

func (b *Board[T]) CancelReject(ctx context.Context, id int64) (BoardView[T], error) {
	verification, err := b.row(id)
	if err == nil {
		verification.CancelReject()
	}
	return b.result(ctx, err)
}

// Edit replaces the subject fields of a record and keeps its verification
// status and reason as they are.
func (b *Board[T]) Edit(ctx context.Context, id int64, apply func(T) T) (BoardView[T], error) {
	snapshot, err := b.snapshot(id)
	if err != nil {
		return b.result(ctx, err)
	}

	decision := model.VerifyDecision{VerifyStatus: snapshot.Status(), RejectedReason: snapshot.Reason()}
	if _, err := b.update(ctx, decision, apply(snapshot)); err != nil {
		return b.result(ctx, err)
	}
	return b.Refresh(ctx)
}

// Records returns the records currently on screen.
func (b *Board[T]) Records() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]T(nil), b.current.Content...)
}

func (b *Board[T]) View() BoardView[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

func (b *Board[T]) DismissNotice() BoardView[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = ""
	return b.viewLocked()
}

func (b *Board[T]) mutate(ctx context.Context, id int64, action func(*Verification) error) (BoardView[T], error) {
	verification, err := b.row(id)
	if err != nil {
		return b.result(ctx, err)
	}
	if err := action(verification); err != nil {
		return b.result(ctx, err)
	}
	return b.Refresh(ctx)
}

// result records err as the notice on screen; the displayed page stays.
func (b *Board[T]) result(ctx context.Context, err error) (BoardView[T], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		if !errors.Is(err, model.ErrSignInRequired) {
			logger.Context(ctx).Warnf("board %s: %v", b.kind, err)
		}
		b.notice = err.Error()
	}
	return b.viewLocked(), err
}

func (b *Board[T]) committer(snapshot T) Committer {
	return func(ctx context.Context, decision model.VerifyDecision) error {
		_, err := b.update(ctx, decision, snapshot)
		return err
	}
}

func (b *Board[T]) row(id int64) (*Verification, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	verification, ok := b.rows[id]
	if !ok {
		return nil, model.ErrScoreNotFound
	}
	return verification, nil
}

func (b *Board[T]) snapshot(id int64) (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, record := range b.current.Content {
		if record.ScoreID() == id {
			return record, nil
		}
	}
	var zero T
	return zero, model.ErrScoreNotFound
}

func (b *Board[T]) viewLocked() BoardView[T] {
	view := BoardView[T]{
		Kind:          b.kind,
		VerifyStatus:  b.condition.VerifyStatus,
		Page:          b.page,
		TotalPages:    b.current.TotalPages,
		TotalElements: b.current.TotalElements,
		Content:       make([]BoardRow[T], 0, len(b.current.Content)),
		Notice:        b.notice,
	}
	for _, record := range b.current.Content {
		row := BoardRow[T]{Score: record, State: StateViewing, Actions: []VerificationAction{}}
		if verification, ok := b.rows[record.ScoreID()]; ok {
			row.State = verification.State()
			row.Actions = verification.Actions()
		}
		view.Content = append(view.Content, row)
	}
	return view
}
