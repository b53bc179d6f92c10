package model

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion string          `json:"app_version"`
	Features   map[string]bool `json:"features"`
	Profiles   []string        `json:"profiles"`
}
