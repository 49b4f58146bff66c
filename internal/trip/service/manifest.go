package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/storage"
	"github.com/anchorline/tripgate/internal/trip/authz"
	"github.com/anchorline/tripgate/internal/trip/domain"
)

// PassengerView is a manifest entry shaped for the requesting actor.
// Masked views hide direct identifiers but keep enough to run a roll call.
type PassengerView struct {
	ID            string
	FullName      string
	Phone         string
	Notes         string
	Status        domain.PassengerStatus
	ManifestOrder int
	Masked        bool
}

// AddPassenger appends a pending passenger to the manifest. Back office
// only; the crew works the boarding flow, not the roster.
func (s *Service) AddPassenger(ctx context.Context, actor Actor, tripID, fullName, phone, notes string) (domain.Passenger, error) {
	role, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return domain.Passenger{}, err
	}
	if err := authz.ValidateAction(authz.ActionManageManifest, role); err != nil {
		return domain.Passenger{}, err
	}
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return domain.Passenger{}, err
	}

	existing, err := s.stores.Manifest.ListPassengers(ctx, tripID)
	if err != nil {
		return domain.Passenger{}, fmt.Errorf("list passengers: %w", err)
	}
	passenger, err := domain.NewPassenger(tripID, fullName, phone, notes, len(existing)+1, s.now, s.newID)
	if err != nil {
		return domain.Passenger{}, err
	}
	if err := s.stores.Manifest.AddPassenger(ctx, passenger); err != nil {
		return domain.Passenger{}, fmt.Errorf("persist passenger: %w", err)
	}
	return passenger, nil
}

// UpdatePassengerStatus advances one passenger through the boarding flow.
func (s *Service) UpdatePassengerStatus(ctx context.Context, actor Actor, tripID, passengerID, status string) (domain.Passenger, error) {
	role, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return domain.Passenger{}, err
	}
	if err := authz.ValidateAction(authz.ActionUpdatePassengerStatus, role); err != nil {
		return domain.Passenger{}, err
	}

	target, ok := domain.NormalizePassengerStatus(status)
	if !ok {
		return domain.Passenger{}, apperrors.WithMetadata(
			apperrors.CodePassengerInvalidStatusTransition,
			fmt.Sprintf("passenger status %q is not recognized", status),
			map[string]string{"Status": status},
		)
	}

	passenger, err := s.stores.Manifest.GetPassenger(ctx, tripID, passengerID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Passenger{}, notFound("passenger", passengerID)
	}
	if err != nil {
		return domain.Passenger{}, fmt.Errorf("load passenger: %w", err)
	}

	updated, err := domain.AdvancePassenger(passenger, target, s.now)
	if err != nil {
		return domain.Passenger{}, err
	}
	err = s.stores.Manifest.UpdatePassengerStatus(ctx, passenger.ID, passenger.Status, updated.Status, updated.UpdatedAt)
	if errors.Is(err, storage.ErrConflict) {
		return domain.Passenger{}, apperrors.WithMetadata(
			apperrors.CodePassengerInvalidStatusTransition,
			"the passenger status changed while this update was in flight, reload and retry",
			map[string]string{"PassengerID": passenger.ID},
		)
	}
	if err != nil {
		return domain.Passenger{}, fmt.Errorf("persist passenger status: %w", err)
	}
	return updated, nil
}

// Manifest returns the trip's manifest shaped for the actor's visibility
// tier. Roles below the configured tier read masked identifiers.
func (s *Service) Manifest(ctx context.Context, actor Actor, tripID string) ([]PassengerView, error) {
	role, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	passengers, err := s.stores.Manifest.ListPassengers(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("list passengers: %w", err)
	}

	masked := authz.Tier(role) < s.visibilityTier
	views := make([]PassengerView, 0, len(passengers))
	for _, passenger := range passengers {
		view := PassengerView{
			ID:            passenger.ID,
			FullName:      passenger.FullName,
			Phone:         passenger.Phone,
			Notes:         passenger.Notes,
			Status:        passenger.Status,
			ManifestOrder: passenger.ManifestOrder,
		}
		if masked {
			view.FullName = maskName(passenger.FullName)
			view.Phone = maskPhone(passenger.Phone)
			view.Notes = ""
			view.Masked = true
		}
		views = append(views, view)
	}
	return views, nil
}

// maskName reduces a full name to initials.
func maskName(name string) string {
	var initials []string
	for _, part := range strings.Fields(name) {
		initials = append(initials, string([]rune(part)[0])+".")
	}
	return strings.Join(initials, " ")
}

// maskPhone keeps the last two digits, enough to disambiguate on a roll
// call without exposing the number.
func maskPhone(phone string) string {
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 2 {
		return ""
	}
	return "***" + string(digits[len(digits)-2:])
}
