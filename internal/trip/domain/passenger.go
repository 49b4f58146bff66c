package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/platform/id"
)

// PassengerStatus describes a passenger's position in the boarding flow.
type PassengerStatus string

const (
	PassengerStatusUnspecified PassengerStatus = ""
	PassengerStatusPending     PassengerStatus = "pending"
	PassengerStatusBoarded     PassengerStatus = "boarded"
	PassengerStatusReturned    PassengerStatus = "returned"
)

// NormalizePassengerStatus canonicalizes passenger status labels.
func NormalizePassengerStatus(value string) (PassengerStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pending":
		return PassengerStatusPending, true
	case "boarded":
		return PassengerStatusBoarded, true
	case "returned":
		return PassengerStatusReturned, true
	default:
		return PassengerStatusUnspecified, false
	}
}

// IsPassengerStatusTransitionAllowed enforces the monotonic forward-only
// boarding flow: pending, then boarded, then returned. No step may be
// skipped or reversed.
func IsPassengerStatusTransitionAllowed(from, to PassengerStatus) bool {
	switch from {
	case PassengerStatusPending:
		return to == PassengerStatusBoarded
	case PassengerStatusBoarded:
		return to == PassengerStatusReturned
	default:
		return false
	}
}

// Passenger belongs to a trip's ordered manifest.
type Passenger struct {
	ID            string
	TripID        string
	FullName      string
	Phone         string
	Notes         string
	Status        PassengerStatus
	ManifestOrder int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPassenger creates a pending manifest entry.
func NewPassenger(tripID, fullName, phone, notes string, order int, now func() time.Time, idGenerator func() (string, error)) (Passenger, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	passengerID, err := idGenerator()
	if err != nil {
		return Passenger{}, fmt.Errorf("generate passenger id: %w", err)
	}

	createdAt := now().UTC()
	return Passenger{
		ID:            passengerID,
		TripID:        tripID,
		FullName:      strings.TrimSpace(fullName),
		Phone:         strings.TrimSpace(phone),
		Notes:         strings.TrimSpace(notes),
		Status:        PassengerStatusPending,
		ManifestOrder: order,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

// AdvancePassenger moves a passenger one step forward in the boarding flow.
func AdvancePassenger(passenger Passenger, to PassengerStatus, now func() time.Time) (Passenger, error) {
	if now == nil {
		now = time.Now
	}
	if !IsPassengerStatusTransitionAllowed(passenger.Status, to) {
		return Passenger{}, apperrors.WithMetadata(
			apperrors.CodePassengerInvalidStatusTransition,
			fmt.Sprintf("passenger status %s does not allow transition to %s", passenger.Status, to),
			map[string]string{"From": string(passenger.Status), "To": string(to)},
		)
	}
	passenger.Status = to
	passenger.UpdatedAt = now().UTC()
	return passenger, nil
}

// CountReturned tallies returned passengers against the manifest total.
func CountReturned(passengers []Passenger) (returned, total int) {
	for _, passenger := range passengers {
		total++
		if passenger.Status == PassengerStatusReturned {
			returned++
		}
	}
	return returned, total
}
