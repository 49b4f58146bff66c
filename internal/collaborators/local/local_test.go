package local

import (
	"context"
	"errors"
	"testing"

	"github.com/anchorline/tripgate/internal/collaborators"
	"github.com/anchorline/tripgate/internal/storage"
)

type memorySignals struct {
	records map[string]storage.OpsSignals
}

func (m *memorySignals) PutOpsSignals(_ context.Context, signals storage.OpsSignals) error {
	if m.records == nil {
		m.records = make(map[string]storage.OpsSignals)
	}
	m.records[signals.TripID] = signals
	return nil
}

func (m *memorySignals) GetOpsSignals(_ context.Context, tripID string) (storage.OpsSignals, error) {
	signals, ok := m.records[tripID]
	if !ok {
		return storage.OpsSignals{}, storage.ErrNotFound
	}
	return signals, nil
}

func TestDirectoryReadsSignals(t *testing.T) {
	signals := &memorySignals{}
	signals.PutOpsSignals(context.Background(), storage.OpsSignals{
		TripID:                 "trip-1",
		AttendanceCheckedIn:    true,
		CrewCertified:          true,
		HandoverRecorded:       true,
		HandoverCompleted:      true,
		TasksRequiredTotal:     4,
		TasksRequiredCompleted: 2,
		ExpensesSubmitted:      true,
	})
	directory := NewDirectory(signals)
	ctx := context.Background()

	if got, err := directory.CrewCertified(ctx, "trip-1"); err != nil || !got {
		t.Fatalf("CrewCertified() = %v, %v", got, err)
	}
	if got, err := directory.Approved(ctx, "trip-1"); err != nil || got {
		t.Fatalf("Approved() = %v, %v, want false", got, err)
	}
	if got, err := directory.CheckedIn(ctx, "trip-1"); err != nil || !got {
		t.Fatalf("CheckedIn() = %v, %v", got, err)
	}
	if got, err := directory.CheckedOut(ctx, "trip-1"); err != nil || got {
		t.Fatalf("CheckedOut() = %v, %v, want false", got, err)
	}
	if got, err := directory.InboundCompleted(ctx, "trip-1"); err != nil || !got {
		t.Fatalf("InboundCompleted() = %v, %v", got, err)
	}
	completed, total, err := directory.RequiredProgress(ctx, "trip-1")
	if err != nil || completed != 2 || total != 4 {
		t.Fatalf("RequiredProgress() = %d/%d, %v", completed, total, err)
	}
	if got, err := directory.Submitted(ctx, "trip-1"); err != nil || !got {
		t.Fatalf("Submitted() = %v, %v", got, err)
	}
}

func TestDirectoryMissingTripIsNoRecord(t *testing.T) {
	directory := NewDirectory(&memorySignals{})
	if _, err := directory.CrewCertified(context.Background(), "missing"); !errors.Is(err, collaborators.ErrNoRecord) {
		t.Fatalf("CrewCertified() error = %v, want ErrNoRecord", err)
	}
}

func TestDirectoryUnrecordedHandoverIsNoRecord(t *testing.T) {
	signals := &memorySignals{}
	signals.PutOpsSignals(context.Background(), storage.OpsSignals{TripID: "trip-1"})
	directory := NewDirectory(signals)

	if _, err := directory.InboundCompleted(context.Background(), "trip-1"); !errors.Is(err, collaborators.ErrNoRecord) {
		t.Fatalf("InboundCompleted() error = %v, want ErrNoRecord", err)
	}
}
