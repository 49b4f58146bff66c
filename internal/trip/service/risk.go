package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/storage"
	"github.com/anchorline/tripgate/internal/trip/authz"
	"github.com/anchorline/tripgate/internal/trip/domain"
	"github.com/anchorline/tripgate/internal/trip/risk"
)

// SubmitRiskAssessment validates, scores, and appends an immutable
// assessment snapshot. Assessments are accepted until the trip ends; the
// readiness gate only reads the latest one.
func (s *Service) SubmitRiskAssessment(ctx context.Context, actor Actor, tripID string, input risk.Input) (risk.Assessment, error) {
	role, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return risk.Assessment{}, err
	}
	if err := authz.ValidateAction(authz.ActionSubmitRiskAssessment, role); err != nil {
		return risk.Assessment{}, err
	}

	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return risk.Assessment{}, err
	}
	if trip.Phase == domain.PhasePostTrip {
		return risk.Assessment{}, apperrors.WithMetadata(
			apperrors.CodeTripInvalidPhase,
			"a completed trip does not accept risk assessments",
			map[string]string{"TripID": tripID, "Phase": string(trip.Phase)},
		)
	}

	assessment, err := risk.NewAssessment(tripID, input, s.now, s.newID)
	if err != nil {
		return risk.Assessment{}, err
	}
	if err := s.stores.Risks.AppendAssessment(ctx, assessment); err != nil {
		return risk.Assessment{}, fmt.Errorf("persist risk assessment: %w", err)
	}
	return assessment, nil
}

// LatestRiskAssessment returns the assessment the readiness gate would
// consult right now.
func (s *Service) LatestRiskAssessment(ctx context.Context, tripID string) (risk.Assessment, error) {
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return risk.Assessment{}, err
	}
	assessment, err := s.stores.Risks.LatestAssessment(ctx, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		return risk.Assessment{}, notFound("risk assessment for trip", tripID)
	}
	if err != nil {
		return risk.Assessment{}, fmt.Errorf("load latest risk assessment: %w", err)
	}
	return assessment, nil
}

// RiskHistory returns a trip's full assessment history, newest first.
func (s *Service) RiskHistory(ctx context.Context, tripID string) ([]risk.Assessment, error) {
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	history, err := s.stores.Risks.ListAssessments(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("list risk assessments: %w", err)
	}
	return history, nil
}

// SuggestRiskInput pre-fills assessment inputs from the marine forecast at
// a position. The suggestion is a convenience: the caller reviews and
// submits it like any manual entry, and a provider outage only disables
// the shortcut.
func (s *Service) SuggestRiskInput(ctx context.Context, tripID string, latitude, longitude float64) (risk.Input, error) {
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return risk.Input{}, err
	}
	if s.weather == nil {
		return risk.Input{}, apperrors.New(
			apperrors.CodeUpstreamUnavailable,
			"no weather provider is configured",
		)
	}

	conditions, err := s.weather.Fetch(ctx, latitude, longitude)
	if err != nil {
		return risk.Input{}, apperrors.Wrap(
			apperrors.CodeUpstreamUnavailable,
			"the weather provider did not answer",
			err,
		)
	}

	wave := conditions.WaveHeightM
	wind := conditions.WindSpeedKmh
	return risk.Input{
		WaveHeightM:  &wave,
		WindSpeedKmh: &wind,
		Weather:      conditions.Weather,
		Latitude:     &latitude,
		Longitude:    &longitude,
	}, nil
}
