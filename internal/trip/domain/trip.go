package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/platform/id"
)

// Trip represents a guided tour moving through the operational lifecycle.
//
// The checklist snapshot is copied from the catalog at creation time so
// historical readiness evaluations remain reproducible even when operations
// later reconfigures the package templates.
type Trip struct {
	ID                string
	Name              string
	DepartureDate     time.Time
	Phase             Phase
	PackageCode       string
	PassengerTracking bool
	LogisticsTracking bool
	DocumentationURL  string
	NeedsReassignment bool
	Checklists        ChecklistSnapshot
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateTripInput describes the metadata needed to create a trip.
type CreateTripInput struct {
	Name              string
	DepartureDate     time.Time
	PackageCode       string
	PassengerTracking bool
	LogisticsTracking bool
	Checklists        ChecklistSnapshot
}

// CreateTrip creates a new trip in the pre-trip phase with a generated ID
// and timestamps.
func CreateTrip(input CreateTripInput, now func() time.Time, idGenerator func() (string, error)) (Trip, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateTripInput(input)
	if err != nil {
		return Trip{}, err
	}

	tripID, err := idGenerator()
	if err != nil {
		return Trip{}, fmt.Errorf("generate trip id: %w", err)
	}

	createdAt := now().UTC()
	return Trip{
		ID:                tripID,
		Name:              normalized.Name,
		DepartureDate:     normalized.DepartureDate.UTC(),
		Phase:             PhasePreTrip,
		PackageCode:       normalized.PackageCode,
		PassengerTracking: normalized.PassengerTracking,
		LogisticsTracking: normalized.LogisticsTracking,
		Checklists:        normalized.Checklists,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}, nil
}

// NormalizeCreateTripInput trims and validates trip input metadata.
func NormalizeCreateTripInput(input CreateTripInput) (CreateTripInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateTripInput{}, apperrors.New(apperrors.CodeTripNameEmpty, "trip name is required")
	}
	if input.DepartureDate.IsZero() {
		return CreateTripInput{}, apperrors.New(apperrors.CodeTripDateMissing, "trip departure date is required")
	}
	input.PackageCode = strings.TrimSpace(input.PackageCode)
	return input, nil
}
