package service

import (
	"context"
	"strings"
	"sync"

	"github.com/kinkando/score-admin/model"
)

type VerificationState string

const (
	StateViewing              VerificationState = "VIEWING"
	StateAwaitingRejectReason VerificationState = "AWAITING_REJECT_REASON"
)

type VerificationAction string

const (
	ActionApprove       VerificationAction = "APPROVE"
	ActionReject        VerificationAction = "REJECT"
	ActionConfirmReject VerificationAction = "CONFIRM_REJECT"
	ActionCancelReject  VerificationAction = "CANCEL_REJECT"
)

// Committer persists a verification decision for one record.
type Committer func(ctx context.Context, decision model.VerifyDecision) error

// Verification is the approve/reject workflow of a single record. Its state
// lives in the console only; nothing is persisted until a decision is
// committed. A failed commit leaves the workflow where it was.
type Verification struct {
	mu     sync.Mutex
	status model.VerifyStatus
	state  VerificationState
	commit Committer
}

func NewVerification(status model.VerifyStatus, commit Committer) *Verification {
	return &Verification{
		status: status,
		state:  StateViewing,
		commit: commit,
	}
}

func (v *Verification) State() VerificationState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Verification) Status() model.VerifyStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Actions lists what the operator may do next. Verified records offer nothing.
func (v *Verification) Actions() []VerificationAction {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.status != model.VerifyStatusPending {
		return []VerificationAction{}
	}
	if v.state == StateAwaitingRejectReason {
		return []VerificationAction{ActionApprove, ActionConfirmReject, ActionCancelReject}
	}
	return []VerificationAction{ActionApprove, ActionReject}
}

func (v *Verification) Approve(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.status != model.VerifyStatusPending {
		return model.ErrAlreadyVerified
	}
	if err := v.commit(ctx, model.VerifyDecision{VerifyStatus: model.VerifyStatusApproved}); err != nil {
		return err
	}

	v.status, v.state = model.VerifyStatusApproved, StateViewing
	return nil
}

// BeginReject asks for a reason before the rejection can be confirmed.
func (v *Verification) BeginReject() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.status != model.VerifyStatusPending {
		return model.ErrAlreadyVerified
	}
	v.state = StateAwaitingRejectReason
	return nil
}

func (v *Verification) CancelReject() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = StateViewing
}

// ToggleReject opens the reason prompt, or closes it when it is already open.
func (v *Verification) ToggleReject() error {
	if v.State() == StateAwaitingRejectReason {
		v.CancelReject()
		return nil
	}
	return v.BeginReject()
}

// ConfirmReject commits the rejection. A blank reason is refused before
// anything is sent.
func (v *Verification) ConfirmReject(ctx context.Context, reason string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.status != model.VerifyStatusPending {
		return model.ErrAlreadyVerified
	}
	if v.state != StateAwaitingRejectReason {
		return model.ErrRejectNotInitiated
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.ErrRejectReasonRequired
	}

	if err := v.commit(ctx, model.VerifyDecision{VerifyStatus: model.VerifyStatusRejected, RejectedReason: reason}); err != nil {
		return err
	}

	v.status, v.state = model.VerifyStatusRejected, StateViewing
	return nil
}
