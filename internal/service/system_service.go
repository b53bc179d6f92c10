package service

import (
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/profile"
	"github.com/ndewijer/Fund-Reporting-Dashboard-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	profiles profile.Set
	opts     DashboardOptions
}

// NewSystemService creates a new SystemService
func NewSystemService(profiles profile.Set, opts DashboardOptions) *SystemService {
	return &SystemService{
		profiles: profiles,
		opts:     opts,
	}
}

// CheckHealth reports whether the active workbook profiles are usable.
func (s *SystemService) CheckHealth() error {
	return s.profiles.Validate()
}

// CheckVersion returns the application version, optional features and profile names.
func (s *SystemService) CheckVersion() (*model.VersionInfo, error) {
	return &model.VersionInfo{
		AppVersion: version.Version,
		Features: map[string]bool{
			"xlsx":                   true,
			"xls":                    true,
			"life_settlement":        true,
			"reconciliation":         true,
			"normalize_policy_ids":   s.opts.NormalizePolicyIDs,
			"status_reference_as_of": s.opts.StatusReference == model.StatusReferenceAsOf,
		},
		Profiles: s.profiles.Names(),
	}, nil
}

// ProfilesResponse is the active profile set with its end-user layout contract.
type ProfilesResponse struct {
	Profiles profile.Set           `json:"profiles"`
	Layout   []profile.LayoutEntry `json:"layout"`
}

// Profiles returns the active workbook profiles and the layout they accept.
func (s *SystemService) Profiles() ProfilesResponse {
	return ProfilesResponse{
		Profiles: s.profiles,
		Layout:   s.profiles.Layout(),
	}
}
