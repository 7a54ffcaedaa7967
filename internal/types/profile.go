// Package types provides type definitions for structured data used throughout the interview-screener system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Profile represents the anonymized structured data extracted from a résumé.
// The pipeline treats it as an opaque payload; only the question generator
// and the CLI printers look inside.
type Profile struct {
	Skills          []string  `json:"skills"`
	Projects        []Project `json:"projects"`
	ExperienceYears float64   `json:"experience_years"`
	Education       string    `json:"education,omitempty"`
	Summary         string    `json:"summary,omitempty"`
}

// Project represents one project entry on a résumé
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	TechStack   []string `json:"tech_stack,omitempty"`
	Role        string   `json:"role,omitempty"`
	Years       float64  `json:"years,omitempty"`
}
