// Package tripfakes provides in-memory fakes for service and transport
// tests. The fakes honor the same guarded-update semantics as the SQLite
// store so concurrency paths can be exercised without a database.
package tripfakes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/anchorline/tripgate/internal/storage"
	"github.com/anchorline/tripgate/internal/trip/domain"
	"github.com/anchorline/tripgate/internal/trip/risk"
)

// Store is an in-memory implementation of every storage interface.
type Store struct {
	mu          sync.Mutex
	trips       map[string]domain.Trip
	assignments map[string]domain.CrewAssignment
	passengers  map[string]domain.Passenger
	checklists  map[string]map[string]bool
	assessments []risk.Assessment
	signals     map[string]storage.OpsSignals
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		trips:       make(map[string]domain.Trip),
		assignments: make(map[string]domain.CrewAssignment),
		passengers:  make(map[string]domain.Passenger),
		checklists:  make(map[string]map[string]bool),
		signals:     make(map[string]storage.OpsSignals),
	}
}

func (s *Store) CreateTrip(_ context.Context, trip domain.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.trips[trip.ID]; exists {
		return fmt.Errorf("trip %s already exists", trip.ID)
	}
	s.trips[trip.ID] = trip
	return nil
}

func (s *Store) GetTrip(_ context.Context, tripID string) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.trips[tripID]
	if !ok {
		return domain.Trip{}, storage.ErrNotFound
	}
	return trip, nil
}

func (s *Store) ListTrips(_ context.Context) ([]domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trips := make([]domain.Trip, 0, len(s.trips))
	for _, trip := range s.trips {
		trips = append(trips, trip)
	}
	sort.Slice(trips, func(i, j int) bool {
		if !trips[i].DepartureDate.Equal(trips[j].DepartureDate) {
			return trips[i].DepartureDate.Before(trips[j].DepartureDate)
		}
		return trips[i].ID < trips[j].ID
	})
	return trips, nil
}

func (s *Store) TransitionPhase(_ context.Context, tripID string, from, to domain.Phase, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.trips[tripID]
	if !ok {
		return storage.ErrNotFound
	}
	if trip.Phase != from {
		return storage.ErrConflict
	}
	trip.Phase = to
	trip.UpdatedAt = at
	if to == domain.PhasePostTrip {
		completedAt := at
		trip.CompletedAt = &completedAt
	}
	s.trips[tripID] = trip
	return nil
}

func (s *Store) SetDocumentationURL(_ context.Context, tripID, url string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.trips[tripID]
	if !ok {
		return storage.ErrNotFound
	}
	trip.DocumentationURL = url
	trip.UpdatedAt = at
	s.trips[tripID] = trip
	return nil
}

func (s *Store) SetNeedsReassignment(_ context.Context, tripID string, needs bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip, ok := s.trips[tripID]
	if !ok {
		return storage.ErrNotFound
	}
	trip.NeedsReassignment = needs
	trip.UpdatedAt = at
	s.trips[tripID] = trip
	return nil
}

func (s *Store) CreateAssignment(_ context.Context, assignment domain.CrewAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.TripID == assignment.TripID && existing.GuideID == assignment.GuideID {
			return fmt.Errorf("guide %s is already assigned to trip %s", assignment.GuideID, assignment.TripID)
		}
	}
	s.assignments[assignment.ID] = assignment
	return nil
}

func (s *Store) GetAssignment(_ context.Context, tripID, guideID string) (domain.CrewAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, assignment := range s.assignments {
		if assignment.TripID == tripID && assignment.GuideID == guideID {
			return assignment, nil
		}
	}
	return domain.CrewAssignment{}, storage.ErrNotFound
}

func (s *Store) ListAssignments(_ context.Context, tripID string) ([]domain.CrewAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var assignments []domain.CrewAssignment
	for _, assignment := range s.assignments {
		if assignment.TripID == tripID {
			assignments = append(assignments, assignment)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		if !assignments[i].CreatedAt.Equal(assignments[j].CreatedAt) {
			return assignments[i].CreatedAt.Before(assignments[j].CreatedAt)
		}
		return assignments[i].ID < assignments[j].ID
	})
	return assignments, nil
}

func (s *Store) UpdateAssignmentStatus(_ context.Context, assignmentID string, from, to domain.AssignmentStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignment, ok := s.assignments[assignmentID]
	if !ok {
		return storage.ErrNotFound
	}
	if assignment.Status != from {
		return storage.ErrConflict
	}
	assignment.Status = to
	assignment.UpdatedAt = at
	s.assignments[assignmentID] = assignment
	return nil
}

func (s *Store) AddPassenger(_ context.Context, passenger domain.Passenger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passengers[passenger.ID] = passenger
	return nil
}

func (s *Store) GetPassenger(_ context.Context, tripID, passengerID string) (domain.Passenger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	passenger, ok := s.passengers[passengerID]
	if !ok || passenger.TripID != tripID {
		return domain.Passenger{}, storage.ErrNotFound
	}
	return passenger, nil
}

func (s *Store) ListPassengers(_ context.Context, tripID string) ([]domain.Passenger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var passengers []domain.Passenger
	for _, passenger := range s.passengers {
		if passenger.TripID == tripID {
			passengers = append(passengers, passenger)
		}
	}
	sort.Slice(passengers, func(i, j int) bool {
		return passengers[i].ManifestOrder < passengers[j].ManifestOrder
	})
	return passengers, nil
}

func (s *Store) UpdatePassengerStatus(_ context.Context, passengerID string, from, to domain.PassengerStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	passenger, ok := s.passengers[passengerID]
	if !ok {
		return storage.ErrNotFound
	}
	if passenger.Status != from {
		return storage.ErrConflict
	}
	passenger.Status = to
	passenger.UpdatedAt = at
	s.passengers[passengerID] = passenger
	return nil
}

func checklistKey(tripID string, namespace domain.ChecklistNamespace) string {
	return tripID + "/" + string(namespace)
}

func (s *Store) SetChecklistItem(_ context.Context, tripID string, namespace domain.ChecklistNamespace, code string, checked bool, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := checklistKey(tripID, namespace)
	if s.checklists[key] == nil {
		s.checklists[key] = make(map[string]bool)
	}
	s.checklists[key][code] = checked
	return nil
}

func (s *Store) ChecklistState(_ context.Context, tripID string, namespace domain.ChecklistNamespace) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := make(map[string]bool)
	for code, checked := range s.checklists[checklistKey(tripID, namespace)] {
		state[code] = checked
	}
	return state, nil
}

func (s *Store) AppendAssessment(_ context.Context, assessment risk.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments = append(s.assessments, assessment)
	return nil
}

func (s *Store) LatestAssessment(_ context.Context, tripID string) (risk.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest risk.Assessment
	found := false
	for _, assessment := range s.assessments {
		if assessment.TripID != tripID {
			continue
		}
		if !found || assessment.CreatedAt.After(latest.CreatedAt) {
			latest = assessment
			found = true
		}
	}
	if !found {
		return risk.Assessment{}, storage.ErrNotFound
	}
	return latest, nil
}

func (s *Store) ListAssessments(_ context.Context, tripID string) ([]risk.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var assessments []risk.Assessment
	for _, assessment := range s.assessments {
		if assessment.TripID == tripID {
			assessments = append(assessments, assessment)
		}
	}
	sort.Slice(assessments, func(i, j int) bool {
		return assessments[i].CreatedAt.After(assessments[j].CreatedAt)
	})
	return assessments, nil
}

func (s *Store) PutOpsSignals(_ context.Context, signals storage.OpsSignals) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals[signals.TripID] = signals
	return nil
}

func (s *Store) GetOpsSignals(_ context.Context, tripID string) (storage.OpsSignals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	signals, ok := s.signals[tripID]
	if !ok {
		return storage.OpsSignals{}, storage.ErrNotFound
	}
	return signals, nil
}

// FailingCollaborator implements every collaborator interface and returns
// the configured error from each call, for degradation tests.
type FailingCollaborator struct {
	Err error
}

func (f FailingCollaborator) CrewCertified(context.Context, string) (bool, error) {
	return false, f.Err
}

func (f FailingCollaborator) Approved(context.Context, string) (bool, error) {
	return false, f.Err
}

func (f FailingCollaborator) CheckedIn(context.Context, string) (bool, error) {
	return false, f.Err
}

func (f FailingCollaborator) CheckedOut(context.Context, string) (bool, error) {
	return false, f.Err
}

func (f FailingCollaborator) InboundCompleted(context.Context, string) (bool, error) {
	return false, f.Err
}

func (f FailingCollaborator) RequiredProgress(context.Context, string) (int, int, error) {
	return 0, 0, f.Err
}

func (f FailingCollaborator) Submitted(context.Context, string) (bool, error) {
	return false, f.Err
}

func (f FailingCollaborator) SplitCalculated(context.Context, string) (bool, error) {
	return false, f.Err
}

// SequentialIDs returns an ID generator producing id-1, id-2, and so on.
func SequentialIDs() func() (string, error) {
	var counter int
	var mu sync.Mutex
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		counter++
		return fmt.Sprintf("id-%d", counter), nil
	}
}

// FixedClock returns a clock pinned to the given time.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
