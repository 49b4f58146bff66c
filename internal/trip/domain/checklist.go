package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
)

// ChecklistNamespace separates the independent checklist item sets.
// Facility and equipment codes live in disjoint namespaces; the snapshot
// keeps one item list per namespace so codes can never collide across them.
type ChecklistNamespace string

const (
	ChecklistNamespaceUnspecified ChecklistNamespace = ""
	ChecklistNamespaceFacility    ChecklistNamespace = "facility"
	ChecklistNamespaceEquipment   ChecklistNamespace = "equipment"
)

// NormalizeChecklistNamespace canonicalizes namespace labels.
func NormalizeChecklistNamespace(value string) (ChecklistNamespace, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "facility":
		return ChecklistNamespaceFacility, true
	case "equipment":
		return ChecklistNamespaceEquipment, true
	default:
		return ChecklistNamespaceUnspecified, false
	}
}

// ChecklistItemSpec is one configured checklist item.
//
// Items marked excluded stay visible for crews but are informational only:
// they never count toward checklist completion.
type ChecklistItemSpec struct {
	Code     string `json:"code" yaml:"code"`
	Label    string `json:"label" yaml:"label"`
	Included bool   `json:"included" yaml:"included"`
}

// ChecklistSnapshot is the per-trip copy of the configured item sets,
// taken from the catalog when the trip is created.
type ChecklistSnapshot struct {
	Facility  []ChecklistItemSpec `json:"facility" yaml:"facility"`
	Equipment []ChecklistItemSpec `json:"equipment" yaml:"equipment"`
}

// Items returns the item specs for a namespace.
func (s ChecklistSnapshot) Items(namespace ChecklistNamespace) []ChecklistItemSpec {
	switch namespace {
	case ChecklistNamespaceFacility:
		return s.Facility
	case ChecklistNamespaceEquipment:
		return s.Equipment
	default:
		return nil
	}
}

// ValidateChecklistItem checks that an item code exists in the trip's
// snapshot for the given namespace.
func (s ChecklistSnapshot) ValidateChecklistItem(namespace ChecklistNamespace, code string) error {
	items := s.Items(namespace)
	if namespace == ChecklistNamespaceUnspecified {
		return apperrors.New(apperrors.CodeChecklistInvalidNamespace, "checklist namespace must be facility or equipment")
	}
	for _, item := range items {
		if item.Code == code {
			return nil
		}
	}
	return apperrors.WithMetadata(
		apperrors.CodeChecklistUnknownItem,
		fmt.Sprintf("checklist item %q is not configured for namespace %s", code, namespace),
		map[string]string{"Namespace": string(namespace), "Code": code},
	)
}

// ChecklistProgress summarizes how many included items are checked.
type ChecklistProgress struct {
	Checked int
	Total   int
}

// Complete reports whether every included item is checked.
// A namespace with no included items is trivially complete.
func (p ChecklistProgress) Complete() bool {
	return p.Checked >= p.Total
}

// MeasureChecklist computes progress for a namespace from the stored
// checked state. Excluded items never appear in either count.
func MeasureChecklist(items []ChecklistItemSpec, checked map[string]bool) ChecklistProgress {
	var progress ChecklistProgress
	for _, item := range items {
		if !item.Included {
			continue
		}
		progress.Total++
		if checked[item.Code] {
			progress.Checked++
		}
	}
	return progress
}
