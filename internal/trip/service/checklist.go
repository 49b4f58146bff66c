package service

import (
	"context"
	"fmt"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/trip/authz"
	"github.com/anchorline/tripgate/internal/trip/domain"
)

// ChecklistItemState is one snapshot item joined with its checked flag.
type ChecklistItemState struct {
	Code     string
	Label    string
	Included bool
	Checked  bool
}

// ChecklistView is one namespace's items plus progress over the included
// ones.
type ChecklistView struct {
	Namespace domain.ChecklistNamespace
	Items     []ChecklistItemState
	Progress  domain.ChecklistProgress
}

// SetChecklistItem toggles one item's checked flag. The item must exist in
// the trip's snapshot for the given namespace; excluded items may still be
// toggled, they just never count.
func (s *Service) SetChecklistItem(ctx context.Context, actor Actor, tripID, namespace, code string, checked bool) error {
	role, err := s.resolveRole(ctx, tripID, actor)
	if err != nil {
		return err
	}
	if err := authz.ValidateAction(authz.ActionEditChecklistItem, role); err != nil {
		return err
	}

	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	ns, ok := domain.NormalizeChecklistNamespace(namespace)
	if !ok {
		return apperrors.New(apperrors.CodeChecklistInvalidNamespace, "checklist namespace must be facility or equipment")
	}
	if err := trip.Checklists.ValidateChecklistItem(ns, code); err != nil {
		return err
	}

	if err := s.stores.Checklists.SetChecklistItem(ctx, tripID, ns, code, checked, s.clock()); err != nil {
		return fmt.Errorf("persist checklist item: %w", err)
	}
	return nil
}

// Checklists returns both namespaces' item states for a trip.
func (s *Service) Checklists(ctx context.Context, tripID string) ([]ChecklistView, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	views := make([]ChecklistView, 0, 2)
	for _, namespace := range []domain.ChecklistNamespace{
		domain.ChecklistNamespaceFacility,
		domain.ChecklistNamespaceEquipment,
	} {
		checked, err := s.stores.Checklists.ChecklistState(ctx, tripID, namespace)
		if err != nil {
			return nil, fmt.Errorf("load %s checklist state: %w", namespace, err)
		}
		items := trip.Checklists.Items(namespace)
		view := ChecklistView{
			Namespace: namespace,
			Items:     make([]ChecklistItemState, 0, len(items)),
			Progress:  domain.MeasureChecklist(items, checked),
		}
		for _, item := range items {
			view.Items = append(view.Items, ChecklistItemState{
				Code:     item.Code,
				Label:    item.Label,
				Included: item.Included,
				Checked:  checked[item.Code],
			})
		}
		views = append(views, view)
	}
	return views, nil
}
