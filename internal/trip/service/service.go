// Package service orchestrates trip operations over storage, the role
// policy, and the readiness and completion evaluators.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/anchorline/tripgate/internal/collaborators"
	"github.com/anchorline/tripgate/internal/collaborators/weather"
	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/storage"
	"github.com/anchorline/tripgate/internal/trip/authz"
	"github.com/anchorline/tripgate/internal/trip/catalog"
	"github.com/anchorline/tripgate/internal/trip/domain"
)

// DefaultPassengerVisibilityTier lets the lead guide and operations read
// clear passenger data while support guides get the masked view.
const DefaultPassengerVisibilityTier = 2

// WeatherProvider pre-fills risk assessment inputs from a marine forecast.
// *weather.Client satisfies it.
type WeatherProvider interface {
	Fetch(ctx context.Context, latitude, longitude float64) (weather.Conditions, error)
}

// Stores bundles the persistence interfaces the service depends on.
type Stores struct {
	Trips      storage.TripStore
	Crew       storage.CrewStore
	Manifest   storage.ManifestStore
	Checklists storage.ChecklistStore
	Risks      storage.RiskStore
	OpsSignals storage.OpsSignalStore
}

// Collaborators bundles the external systems consulted by the gates.
// Any field may be nil; the matching sub-check then reads as unavailable.
type Collaborators struct {
	Certifications collaborators.CertificationDirectory
	Approvals      collaborators.ApprovalLog
	Attendance     collaborators.AttendanceLog
	Handover       collaborators.HandoverLog
	Tasks          collaborators.TaskBoard
	Expenses       collaborators.ExpenseLedger
}

// Config tunes service behavior.
type Config struct {
	// PassengerVisibilityTier is the minimum role tier that reads clear
	// passenger data. Zero falls back to the default.
	PassengerVisibilityTier int
	// Now overrides the clock, for tests.
	Now func() time.Time
	// NewID overrides ID generation, for tests.
	NewID func() (string, error)
}

// Service is the trip engine's orchestration layer. All mutating
// operations consult the role policy before touching storage.
type Service struct {
	stores        Stores
	collaborators Collaborators
	catalog       *catalog.Catalog
	weather       WeatherProvider

	visibilityTier int
	now            func() time.Time
	newID          func() (string, error)
	tracer         trace.Tracer
}

// New wires a service. The catalog may be nil, in which case the built-in
// default is used. The weather provider may be nil; suggestions then fail
// as upstream-unavailable.
func New(stores Stores, collab Collaborators, cat *catalog.Catalog, weather WeatherProvider, cfg Config) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	tier := cfg.PassengerVisibilityTier
	if tier == 0 {
		tier = DefaultPassengerVisibilityTier
	}
	return &Service{
		stores:         stores,
		collaborators:  collab,
		catalog:        cat,
		weather:        weather,
		visibilityTier: tier,
		now:            cfg.Now,
		newID:          cfg.NewID,
		tracer:         otel.Tracer("tripgate/service"),
	}
}

// Actor identifies the caller as resolved by transport. Role carries only
// the transport-asserted claim; crew roles are re-derived from confirmed
// assignments per trip and the claim is ignored for them.
type Actor struct {
	ID   string
	Role authz.Role
}

// resolveRole derives the actor's effective role for one trip.
//
// The ops_admin claim is trusted from transport (the back office is not a
// crew member). Lead and support come only from a confirmed assignment on
// this trip; anything else is RoleNone.
func (s *Service) resolveRole(ctx context.Context, tripID string, actor Actor) (authz.Role, error) {
	if actor.Role == authz.RoleOpsAdmin {
		return authz.RoleOpsAdmin, nil
	}
	if actor.ID == "" {
		return authz.RoleNone, nil
	}
	assignment, err := s.stores.Crew.GetAssignment(ctx, tripID, actor.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return authz.RoleNone, nil
	}
	if err != nil {
		return authz.RoleNone, fmt.Errorf("resolve actor role: %w", err)
	}
	if assignment.Status != domain.AssignmentStatusConfirmed {
		return authz.RoleNone, nil
	}
	switch assignment.Role {
	case domain.CrewRoleLead:
		return authz.RoleLead, nil
	case domain.CrewRoleSupport:
		return authz.RoleSupport, nil
	default:
		return authz.RoleNone, nil
	}
}

// CreateTripRequest carries trip creation metadata from transport.
type CreateTripRequest struct {
	Name              string
	DepartureDate     time.Time
	PackageCode       string
	PassengerTracking bool
	LogisticsTracking bool
}

// CreateTrip creates a trip in the pre-trip phase. When a package code is
// given the matching checklist template is snapshotted onto the trip; an
// unknown code is rejected. Without a package code the trip starts with
// empty checklists, which read as trivially complete.
func (s *Service) CreateTrip(ctx context.Context, req CreateTripRequest) (domain.Trip, error) {
	input := domain.CreateTripInput{
		Name:              req.Name,
		DepartureDate:     req.DepartureDate,
		PackageCode:       req.PackageCode,
		PassengerTracking: req.PassengerTracking,
		LogisticsTracking: req.LogisticsTracking,
	}
	normalized, err := domain.NormalizeCreateTripInput(input)
	if err != nil {
		return domain.Trip{}, err
	}
	if normalized.PackageCode != "" {
		snapshot, err := s.catalog.Snapshot(normalized.PackageCode)
		if err != nil {
			return domain.Trip{}, err
		}
		normalized.Checklists = snapshot
	}

	trip, err := domain.CreateTrip(normalized, s.now, s.newID)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := s.stores.Trips.CreateTrip(ctx, trip); err != nil {
		return domain.Trip{}, fmt.Errorf("persist trip: %w", err)
	}
	return trip, nil
}

// GetTrip loads one trip.
func (s *Service) GetTrip(ctx context.Context, tripID string) (domain.Trip, error) {
	trip, err := s.stores.Trips.GetTrip(ctx, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Trip{}, notFound("trip", tripID)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("load trip: %w", err)
	}
	return trip, nil
}

// ListTrips returns all trips ordered by departure date.
func (s *Service) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.stores.Trips.ListTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

// SetDocumentationURL records the trip's documentation reference. This is
// an operational edit, open to the confirmed crew.
func (s *Service) SetDocumentationURL(ctx context.Context, actor Actor, tripID, url string) error {
	role, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return err
	}
	if err := authz.ValidateAction(authz.ActionEditChecklistItem, role); err != nil {
		return err
	}
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return err
	}
	if err := s.stores.Trips.SetDocumentationURL(ctx, tripID, url, s.clock()); err != nil {
		return fmt.Errorf("set documentation url: %w", err)
	}
	return nil
}

// RecordOpsSignals ingests the operational record fed by surrounding
// systems. Back office only.
func (s *Service) RecordOpsSignals(ctx context.Context, actor Actor, signals storage.OpsSignals) error {
	role, err := s.resolveRole(ctx, signals.TripID, actor)
	if err != nil {
		return err
	}
	if err := authz.ValidateAction(authz.ActionRecordOpsSignals, role); err != nil {
		return err
	}
	if _, err := s.GetTrip(ctx, signals.TripID); err != nil {
		return err
	}
	if err := s.stores.OpsSignals.PutOpsSignals(ctx, signals); err != nil {
		return fmt.Errorf("persist ops signals: %w", err)
	}
	return nil
}

// clock returns the current UTC time from the configured clock.
func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// notFound builds the standard missing-record error.
func notFound(kind, id string) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		fmt.Sprintf("%s %s does not exist", kind, id),
		map[string]string{"Kind": kind, "ID": id},
	)
}
