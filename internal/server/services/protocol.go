package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/logging"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/signature"
	"github.com/dmitrijs2005/gophattend/internal/timex"
)

// Outcome classifies a submission.
type Outcome string

const (
	OutcomeCheckedIn            Outcome = "checked_in"
	OutcomeCheckedOut           Outcome = "checked_out"
	OutcomeConfirmationRequired Outcome = "confirmation_required"
	OutcomeAlreadyCheckedOut    Outcome = "already_checked_out_today"
	OutcomeRejected             Outcome = "rejected"
)

// SubmitRequest is one presentation of a challenge by a holder.
type SubmitRequest struct {
	Challenge       models.Challenge
	HolderPublicKey string
	HolderSignature string
	ConfirmCheckout bool
}

// SubmitResult is reported back to the holder. Age is the signed
// difference between the verification time and the challenge slot, in
// seconds.
type SubmitResult struct {
	Success      bool
	Outcome      Outcome
	Reason       string
	Message      string
	Action       string
	EmployeeID   string
	EmployeeName string
	InTime       string
	OutTime      string
	Status       string
	Age          int64
}

type identityFinder interface {
	FindByPublicKey(ctx context.Context, publicKey string) (*models.Employee, error)
}

type ledger interface {
	Apply(ctx context.Context, emp *models.Employee, now time.Time, slot int64, confirm bool) (*Transition, error)
}

// ProtocolOptions tunes AuthenticationProtocol.
type ProtocolOptions struct {
	Grace   time.Duration
	Clock   timex.Clock
	Logger  logging.Logger
	Metrics Metrics
}

// AuthenticationProtocol verifies a presentation and applies it to the
// ledger.
//
// Checks run in a fixed order and the first failure is reported: unknown
// identity, wrong server, invalid challenge signature, expired challenge,
// replay, invalid holder signature. The replay check, the holder signature,
// the ledger update and the replay mark run under one lock per identity.
type AuthenticationProtocol struct {
	identities      identityFinder
	serverPublicKey string
	replay          *ReplayGuard
	ledger          ledger
	locks           *KeyedMutex
	grace           time.Duration
	clock           timex.Clock
	log             logging.Logger
	metrics         Metrics
}

func NewAuthenticationProtocol(identities identityFinder, serverPublicKey string, replay *ReplayGuard, l ledger, opts ProtocolOptions) *AuthenticationProtocol {
	if opts.Clock == nil {
		opts.Clock = timex.SystemClock
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics{}
	}
	return &AuthenticationProtocol{
		identities:      identities,
		serverPublicKey: serverPublicKey,
		replay:          replay,
		ledger:          l,
		locks:           NewKeyedMutex(),
		grace:           opts.Grace,
		clock:           opts.Clock,
		log:             opts.Logger.With("module", "protocol"),
		metrics:         opts.Metrics,
	}
}

// Submit runs the verification pipeline and, when it passes, the ledger
// transition. A verification failure returns both a result with Success
// false and the matching common error. Storage failures return a nil
// result.
func (p *AuthenticationProtocol) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	now := p.clock()
	ch := req.Challenge

	emp, err := p.identities.FindByPublicKey(ctx, req.HolderPublicKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return p.reject(ctx, common.ErrUnknownIdentity, "Employee not registered or invalid key", 0)
		}
		return nil, err
	}

	if ch.ServerPublicKey != p.serverPublicKey {
		return p.reject(ctx, common.ErrWrongServer, "Invalid QR code - wrong server", 0, "emp_id", emp.ID)
	}

	if ch.Message != BuildMessage(ch.SlotStart, p.serverPublicKey) ||
		!signature.VerifyEncoded(p.serverPublicKey, ch.Message, ch.Signature) {
		return p.reject(ctx, common.ErrInvalidChallengeSignature, "Invalid QR code signature", 0, "emp_id", emp.ID)
	}

	age := now.Unix() - ch.SlotStart
	if age > int64(p.grace/time.Second) || -age > int64(p.grace/time.Second) {
		err := fmt.Errorf("%w (age: %ds)", common.ErrChallengeExpired, age)
		return p.reject(ctx, err, fmt.Sprintf("QR code expired (age: %ds)", age), age, "emp_id", emp.ID)
	}

	unlock := p.locks.Lock(emp.ID)
	defer unlock()

	if !req.ConfirmCheckout {
		if err := p.replay.Check(emp.ID, ch.SlotStart, now); err != nil {
			return p.reject(ctx, err, "QR code already used recently", age, "emp_id", emp.ID)
		}
	}

	if !signature.VerifyEncoded(req.HolderPublicKey, ch.Message, req.HolderSignature) {
		return p.reject(ctx, common.ErrInvalidHolderSignature, "Invalid employee signature", age, "emp_id", emp.ID)
	}

	t, err := p.ledger.Apply(ctx, emp, now, ch.SlotStart, req.ConfirmCheckout)
	if err != nil {
		p.log.Error(ctx, "ledger update failed", "emp_id", emp.ID, "error", err)
		return nil, err
	}

	// The slot counts as used only once the ledger accepted it.
	p.replay.Mark(emp.ID, ch.SlotStart, now)

	res := resultOf(emp, t)
	res.Age = age
	p.metrics.SubmissionObserved(res.Outcome, res.Reason)
	p.log.Info(ctx, "submission accepted",
		"emp_id", emp.ID, "outcome", string(res.Outcome), "slot", ch.SlotStart, "confirm", req.ConfirmCheckout)
	return res, nil
}

func (p *AuthenticationProtocol) reject(ctx context.Context, err error, message string, age int64, kv ...any) (*SubmitResult, error) {
	reason := common.ReasonOf(err)
	p.metrics.SubmissionObserved(OutcomeRejected, reason)
	p.log.Warn(ctx, "submission rejected", append(kv, "reason", reason, "age", age)...)
	return &SubmitResult{
		Success: false,
		Outcome: OutcomeRejected,
		Reason:  reason,
		Message: message,
		Age:     age,
	}, err
}

func resultOf(emp *models.Employee, t *Transition) *SubmitResult {
	rec := t.Record
	res := &SubmitResult{
		Outcome:      t.Outcome,
		EmployeeID:   emp.ID,
		EmployeeName: emp.DisplayName,
		InTime:       rec.InTime,
	}
	if rec.OutTime != nil {
		res.OutTime = *rec.OutTime
	}

	switch t.Outcome {
	case OutcomeCheckedIn:
		res.Success = true
		res.Action = common.ActionCheckIn
		res.Message = "Check-in successful"
		res.Status = common.StatusPresent
	case OutcomeCheckedOut:
		res.Success = true
		res.Action = common.ActionCheckOut
		res.Message = "Check-out successful"
		res.Status = common.StatusPresent
	case OutcomeConfirmationRequired:
		res.Reason = common.ReasonConfirmationRequired
		res.Message = "Confirm check-out"
		res.OutTime = t.TentativeOut
		res.Status = common.StatusPendingCheckout
	case OutcomeAlreadyCheckedOut:
		res.Reason = common.ReasonAlreadyCheckedOutToday
		res.Message = "Already checked out today"
		res.Status = common.StatusAlreadyPresent
	}
	return res
}
