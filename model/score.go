package model

import (
	"strings"
	"time"

	"github.com/kinkando/score-admin/pkg/util"
)

type VerifyStatus string

const (
	VerifyStatusPending  VerifyStatus = "PENDING"
	VerifyStatusApproved VerifyStatus = "APPROVED"
	VerifyStatusRejected VerifyStatus = "REJECTED"
)

func (s VerifyStatus) IsValid() bool {
	switch s {
	case VerifyStatusPending, VerifyStatusApproved, VerifyStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further verification transition exists.
func (s VerifyStatus) IsTerminal() bool {
	return s == VerifyStatusApproved || s == VerifyStatusRejected
}

func (s VerifyStatus) Label() string {
	switch s {
	case VerifyStatusPending:
		return "Pending"
	case VerifyStatusApproved:
		return "Approved"
	case VerifyStatusRejected:
		return "Rejected"
	}
	return string(s)
}

type ScoreKind string

const (
	ScoreKindGPA          ScoreKind = "gpas"
	ScoreKindLanguageTest ScoreKind = "language-tests"
)

func ParseScoreKind(s string) (ScoreKind, bool) {
	switch ScoreKind(s) {
	case ScoreKindGPA, ScoreKindLanguageTest:
		return ScoreKind(s), true
	}
	return "", false
}

type LanguageTestType string

const (
	LanguageTestTOEIC    LanguageTestType = "TOEIC"
	LanguageTestTOEFLIBT LanguageTestType = "TOEFL_IBT"
	LanguageTestTOEFLITP LanguageTestType = "TOEFL_ITP"
	LanguageTestIELTS    LanguageTestType = "IELTS"
	LanguageTestJLPT     LanguageTestType = "JLPT"
	LanguageTestNewHSK   LanguageTestType = "NEW_HSK"
	LanguageTestDALF     LanguageTestType = "DALF"
	LanguageTestCEFR     LanguageTestType = "CEFR"
	LanguageTestTCF      LanguageTestType = "TCF"
	LanguageTestTEF      LanguageTestType = "TEF"
	LanguageTestDuolingo LanguageTestType = "DUOLINGO"
	LanguageTestETC      LanguageTestType = "ETC"
)

type ScoreSearchCondition struct {
	VerifyStatus VerifyStatus `query:"verifyStatus" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

type GpaScore struct {
	ID             int64        `json:"id"`
	Gpa            float64      `json:"gpa"`
	GpaCriteria    float64      `json:"gpaCriteria"`
	VerifyStatus   VerifyStatus `json:"verifyStatus"`
	RejectedReason *string      `json:"rejectedReason,omitempty"`
	ReportURL      string       `json:"reportUrl"`
	User           *UserSummary `json:"user,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

type LanguageTestScore struct {
	ID                int64            `json:"id"`
	LanguageTestType  LanguageTestType `json:"languageTestType"`
	LanguageTestScore string           `json:"languageTestScore"`
	VerifyStatus      VerifyStatus     `json:"verifyStatus"`
	RejectedReason    *string          `json:"rejectedReason,omitempty"`
	ReportURL         string           `json:"reportUrl"`
	User              *UserSummary     `json:"user,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// Record is the part of a score the verification workflow works with.
type Record interface {
	ScoreID() int64
	Status() VerifyStatus
	Reason() string
}

func (s GpaScore) ScoreID() int64                { return s.ID }
func (s GpaScore) Status() VerifyStatus          { return s.VerifyStatus }
func (s GpaScore) Reason() string                { return util.Value(s.RejectedReason) }
func (s LanguageTestScore) ScoreID() int64       { return s.ID }
func (s LanguageTestScore) Status() VerifyStatus { return s.VerifyStatus }
func (s LanguageTestScore) Reason() string       { return util.Value(s.RejectedReason) }

// UpdateGpaScoreRequest is the full-replace body of PUT /scores/gpas/{id}.
type UpdateGpaScoreRequest struct {
	Gpa            float64      `json:"gpa" validate:"gte=0,ltefield=GpaCriteria"`
	GpaCriteria    float64      `json:"gpaCriteria" validate:"gt=0"`
	VerifyStatus   VerifyStatus `json:"verifyStatus" validate:"required,oneof=PENDING APPROVED REJECTED"`
	RejectedReason *string      `json:"rejectedReason,omitempty"`
}

// UpdateLanguageTestScoreRequest is the full-replace body of PUT /scores/language-tests/{id}.
type UpdateLanguageTestScoreRequest struct {
	LanguageTestType  LanguageTestType `json:"languageTestType" validate:"required,oneof=TOEIC TOEFL_IBT TOEFL_ITP IELTS JLPT NEW_HSK DALF CEFR TCF TEF DUOLINGO ETC"`
	LanguageTestScore string           `json:"languageTestScore" validate:"required"`
	VerifyStatus      VerifyStatus     `json:"verifyStatus" validate:"required,oneof=PENDING APPROVED REJECTED"`
	RejectedReason    *string          `json:"rejectedReason,omitempty"`
}

// VerifyDecision is a status change requested by the operator.
type VerifyDecision struct {
	VerifyStatus   VerifyStatus
	RejectedReason string
}

// Reason returns the reason to send for the decision: only REJECTED carries one.
func (d VerifyDecision) Reason() *string {
	if d.VerifyStatus != VerifyStatusRejected {
		return nil
	}
	reason := strings.TrimSpace(d.RejectedReason)
	return &reason
}

type UpdateGpaScoreCommand struct {
	ID       int64
	Decision VerifyDecision
	Snapshot *GpaScore
}

type UpdateLanguageTestScoreCommand struct {
	ID       int64
	Decision VerifyDecision
	Snapshot *LanguageTestScore
}

// EditGpaScoreRequest carries the inline-edited GPA fields.
type EditGpaScoreRequest struct {
	ID          int64   `param:"id" validate:"required"`
	Gpa         float64 `json:"gpa" validate:"gte=0,ltefield=GpaCriteria"`
	GpaCriteria float64 `json:"gpaCriteria" validate:"gt=0"`
}

// EditLanguageTestScoreRequest carries the inline-edited language test fields.
type EditLanguageTestScoreRequest struct {
	ID                int64            `param:"id" validate:"required"`
	LanguageTestType  LanguageTestType `json:"languageTestType" validate:"required,oneof=TOEIC TOEFL_IBT TOEFL_ITP IELTS JLPT NEW_HSK DALF CEFR TCF TEF DUOLINGO ETC"`
	LanguageTestScore string           `json:"languageTestScore" validate:"required"`
}

type ScoreListRequest struct {
	VerifyStatus VerifyStatus `query:"verifyStatus" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Page         int          `query:"page" validate:"gte=0"`
}

func (r *ScoreListRequest) AssignDefault() {
	if r.Page == 0 {
		r.Page = 1
	}
}

// ScoreActionRequest addresses one record on the board; Reason is only read
// when a rejection is confirmed.
type ScoreActionRequest struct {
	ID     int64  `param:"id" validate:"required"`
	Reason string `json:"reason"`
}

type ScoreOverview struct {
	PendingGpaScores          int `json:"pendingGpaScores"`
	PendingLanguageTestScores int `json:"pendingLanguageTestScores"`
}
