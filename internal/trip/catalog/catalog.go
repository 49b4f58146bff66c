// Package catalog loads the operations-configured checklist templates.
//
// Operations defines which facility and equipment items apply to each trip
// package. Creating a trip snapshots the matching template onto the trip,
// so later template edits never rewrite history.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/anchorline/tripgate/internal/platform/errors"
	"github.com/anchorline/tripgate/internal/trip/domain"
)

// Package is one configured trip package template.
type Package struct {
	Code      string                     `yaml:"code"`
	Label     string                     `yaml:"label"`
	Facility  []domain.ChecklistItemSpec `yaml:"facility"`
	Equipment []domain.ChecklistItemSpec `yaml:"equipment"`
}

// Catalog holds every configured package template.
type Catalog struct {
	Packages []Package `yaml:"packages"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checklist catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog from YAML bytes and validates it.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode checklist catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(catalog.Packages))
	for _, pkg := range catalog.Packages {
		if pkg.Code == "" {
			return nil, fmt.Errorf("checklist catalog contains a package without a code")
		}
		if _, dup := seen[pkg.Code]; dup {
			return nil, fmt.Errorf("checklist catalog defines package %q twice", pkg.Code)
		}
		seen[pkg.Code] = struct{}{}
		if err := validateItems(pkg.Code, "facility", pkg.Facility); err != nil {
			return nil, err
		}
		if err := validateItems(pkg.Code, "equipment", pkg.Equipment); err != nil {
			return nil, err
		}
	}
	return &catalog, nil
}

// validateItems rejects duplicate or empty item codes within a namespace.
func validateItems(pkgCode, namespace string, items []domain.ChecklistItemSpec) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Code == "" {
			return fmt.Errorf("package %q has a %s item without a code", pkgCode, namespace)
		}
		if _, dup := seen[item.Code]; dup {
			return fmt.Errorf("package %q defines %s item %q twice", pkgCode, namespace, item.Code)
		}
		seen[item.Code] = struct{}{}
	}
	return nil
}

// Snapshot copies the template for a package code onto a new trip.
func (c *Catalog) Snapshot(packageCode string) (domain.ChecklistSnapshot, error) {
	for _, pkg := range c.Packages {
		if pkg.Code != packageCode {
			continue
		}
		snapshot := domain.ChecklistSnapshot{
			Facility:  make([]domain.ChecklistItemSpec, len(pkg.Facility)),
			Equipment: make([]domain.ChecklistItemSpec, len(pkg.Equipment)),
		}
		copy(snapshot.Facility, pkg.Facility)
		copy(snapshot.Equipment, pkg.Equipment)
		return snapshot, nil
	}
	return domain.ChecklistSnapshot{}, apperrors.WithMetadata(
		apperrors.CodeCatalogUnknownPackage,
		fmt.Sprintf("trip package %q is not configured", packageCode),
		map[string]string{"PackageCode": packageCode},
	)
}

// Default returns the built-in catalog used when no file is configured.
func Default() *Catalog {
	return &Catalog{
		Packages: []Package{
			{
				Code:  "day-cruise",
				Label: "Day cruise",
				Facility: []domain.ChecklistItemSpec{
					{Code: "dock_clear", Label: "Dock area clear", Included: true},
					{Code: "fuel_topped", Label: "Fuel topped up", Included: true},
					{Code: "first_aid_onboard", Label: "First aid kit on board", Included: true},
					{Code: "lounge_stocked", Label: "Lounge stocked", Included: false},
				},
				Equipment: []domain.ChecklistItemSpec{
					{Code: "life_jackets", Label: "Life jackets counted", Included: true},
					{Code: "radio_check", Label: "Radio check complete", Included: true},
					{Code: "flares_inspected", Label: "Flares inspected", Included: true},
				},
			},
		},
	}
}
