package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/dbx"
	"github.com/dmitrijs2005/gophattend/internal/server/models"
	"github.com/dmitrijs2005/gophattend/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// State is the position of one identity in the per-day automaton.
type State int

const (
	StateNoRecord State = iota
	StateCheckedIn
	StatePendingCheckout
	StateCheckedOut
)

func (s State) String() string {
	switch s {
	case StateNoRecord:
		return "no_record"
	case StateCheckedIn:
		return "checked_in"
	case StatePendingCheckout:
		return "pending_checkout"
	case StateCheckedOut:
		return "checked_out"
	}
	return "unknown"
}

// Transition is the effect of one accepted presentation on the ledger.
type Transition struct {
	Outcome Outcome
	From    State
	Record  *models.AttendanceRecord
	// TentativeOut is the out time a confirmation would record, set for
	// OutcomeConfirmationRequired.
	TentativeOut string
}

// AttendanceLedger keeps one record per identity and local day.
//
// A record moves NoRecord -> CheckedIn -> PendingCheckout -> CheckedOut.
// PendingCheckout lives in memory only; the stored record is left open
// until the confirmation arrives.
type AttendanceLedger struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	loc         *time.Location

	mu      sync.Mutex
	pending map[string]string // employee id -> day awaiting confirmation
}

func NewAttendanceLedger(tx dbx.Transactor, m repomanager.RepositoryManager, loc *time.Location) *AttendanceLedger {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceLedger{
		tx:          tx,
		repomanager: m,
		loc:         loc,
		pending:     make(map[string]string),
	}
}

// Location returns the zone attendance days are computed in.
func (l *AttendanceLedger) Location() *time.Location { return l.loc }

// Day returns the local calendar day of t as YYYY-MM-DD.
func (l *AttendanceLedger) Day(t time.Time) string {
	return t.In(l.loc).Format(common.DateLayout)
}

// State reports where employeeID stands on day.
func (l *AttendanceLedger) State(ctx context.Context, employeeID, day string) (State, *models.AttendanceRecord, error) {
	rec, err := l.repomanager.Attendance(l.tx.Conn()).Get(ctx, employeeID, day)
	if errors.Is(err, common.ErrorNotFound) {
		return StateNoRecord, nil, nil
	}
	if err != nil {
		return StateNoRecord, nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return l.stateOf(rec), rec, nil
}

func (l *AttendanceLedger) stateOf(rec *models.AttendanceRecord) State {
	if rec.CheckedOut() {
		return StateCheckedOut
	}
	l.mu.Lock()
	day, ok := l.pending[rec.EmployeeID]
	l.mu.Unlock()
	if ok && day == rec.Date {
		return StatePendingCheckout
	}
	return StateCheckedIn
}

// Apply advances the automaton of emp for the day containing now. slot is
// the challenge slot that authorised the presentation. Callers must
// serialise Apply per identity.
func (l *AttendanceLedger) Apply(ctx context.Context, emp *models.Employee, now time.Time, slot int64, confirm bool) (*Transition, error) {
	local := now.In(l.loc)
	day := local.Format(common.DateLayout)
	clock := local.Format(common.TimeLayout)

	var t *Transition
	err := l.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := l.repomanager.Attendance(tx)

		rec, err := repo.Get(ctx, emp.ID, day)
		if errors.Is(err, common.ErrorNotFound) {
			rec = &models.AttendanceRecord{
				ID:          uuid.NewString(),
				EmployeeID:  emp.ID,
				DisplayName: emp.DisplayName,
				Date:        day,
				InTime:      clock,
				InAt:        now.UTC(),
				Status:      common.StatusPresent,
				SourceSlot:  slot,
				Verified:    true,
			}
			if err := repo.Create(ctx, rec); err != nil {
				return err
			}
			t = &Transition{Outcome: OutcomeCheckedIn, From: StateNoRecord, Record: rec}
			return nil
		}
		if err != nil {
			return err
		}

		from := l.stateOf(rec)
		switch {
		case from == StateCheckedOut:
			t = &Transition{Outcome: OutcomeAlreadyCheckedOut, From: from, Record: rec}
		case !confirm:
			t = &Transition{Outcome: OutcomeConfirmationRequired, From: from, Record: rec, TentativeOut: clock}
		default:
			outAt := now.UTC()
			if err := repo.CloseOut(ctx, emp.ID, day, clock, outAt); err != nil {
				return err
			}
			rec.OutTime = &clock
			rec.OutAt = &outAt
			t = &Transition{Outcome: OutcomeCheckedOut, From: from, Record: rec}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	l.mu.Lock()
	switch t.Outcome {
	case OutcomeConfirmationRequired:
		l.pending[emp.ID] = day
	case OutcomeCheckedIn, OutcomeCheckedOut, OutcomeAlreadyCheckedOut:
		delete(l.pending, emp.ID)
	}
	l.mu.Unlock()

	return t, nil
}

// List returns the records matching filter, ordered by day and check-in.
func (l *AttendanceLedger) List(ctx context.Context, filter models.AttendanceFilter) ([]*models.AttendanceRecord, error) {
	list, err := l.repomanager.Attendance(l.tx.Conn()).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return list, nil
}
