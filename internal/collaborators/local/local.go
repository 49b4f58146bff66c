// Package local adapts the persisted operational record into the
// collaborator interfaces. It stands in for the surrounding systems when
// the engine runs self-contained.
package local

import (
	"context"
	"errors"

	"github.com/anchorline/tripgate/internal/collaborators"
	"github.com/anchorline/tripgate/internal/storage"
)

// Directory serves every collaborator interface from the ops-signal store.
type Directory struct {
	signals storage.OpsSignalStore
}

// NewDirectory wires a directory over the given signal store.
func NewDirectory(signals storage.OpsSignalStore) *Directory {
	return &Directory{signals: signals}
}

var _ collaborators.CertificationDirectory = (*Directory)(nil)
var _ collaborators.ApprovalLog = (*Directory)(nil)
var _ collaborators.AttendanceLog = (*Directory)(nil)
var _ collaborators.HandoverLog = (*Directory)(nil)
var _ collaborators.TaskBoard = (*Directory)(nil)
var _ collaborators.ExpenseLedger = (*Directory)(nil)

func (d *Directory) get(ctx context.Context, tripID string) (storage.OpsSignals, error) {
	signals, err := d.signals.GetOpsSignals(ctx, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.OpsSignals{}, collaborators.ErrNoRecord
	}
	return signals, err
}

// CrewCertified reports whether the assigned crew holds valid
// certifications.
func (d *Directory) CrewCertified(ctx context.Context, tripID string) (bool, error) {
	signals, err := d.get(ctx, tripID)
	if err != nil {
		return false, err
	}
	return signals.CrewCertified, nil
}

// Approved reports whether operations signed off on the trip.
func (d *Directory) Approved(ctx context.Context, tripID string) (bool, error) {
	signals, err := d.get(ctx, tripID)
	if err != nil {
		return false, err
	}
	return signals.OpsApproved, nil
}

// CheckedIn reports whether the crew checked in before departure.
func (d *Directory) CheckedIn(ctx context.Context, tripID string) (bool, error) {
	signals, err := d.get(ctx, tripID)
	if err != nil {
		return false, err
	}
	return signals.AttendanceCheckedIn, nil
}

// CheckedOut reports whether the crew checked out after return.
func (d *Directory) CheckedOut(ctx context.Context, tripID string) (bool, error) {
	signals, err := d.get(ctx, tripID)
	if err != nil {
		return false, err
	}
	return signals.AttendanceCheckedOut, nil
}

// InboundCompleted reports the inbound handover state. A trip without a
// recorded handover returns ErrNoRecord so the completion gate can treat
// the sub-check as not-applicable.
func (d *Directory) InboundCompleted(ctx context.Context, tripID string) (bool, error) {
	signals, err := d.get(ctx, tripID)
	if err != nil {
		return false, err
	}
	if !signals.HandoverRecorded {
		return false, collaborators.ErrNoRecord
	}
	return signals.HandoverCompleted, nil
}

// RequiredProgress reports completed and total required tasks.
func (d *Directory) RequiredProgress(ctx context.Context, tripID string) (int, int, error) {
	signals, err := d.get(ctx, tripID)
	if err != nil {
		return 0, 0, err
	}
	return signals.TasksRequiredCompleted, signals.TasksRequiredTotal, nil
}

// Submitted reports whether trip expenses have been filed.
func (d *Directory) Submitted(ctx context.Context, tripID string) (bool, error) {
	signals, err := d.get(ctx, tripID)
	if err != nil {
		return false, err
	}
	return signals.ExpensesSubmitted, nil
}

// SplitCalculated reports whether the payment split has been produced.
func (d *Directory) SplitCalculated(ctx context.Context, tripID string) (bool, error) {
	signals, err := d.get(ctx, tripID)
	if err != nil {
		return false, err
	}
	return signals.PaymentSplitCalculated, nil
}
