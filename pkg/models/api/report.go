package api

import "time"

// GenerateRequest is the body of POST /api/v1/reports.
type GenerateRequest struct {
	Kind      string `json:"kind"`
	Period    string `json:"period"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	StartupID string `json:"startupId,omitempty"`
	Format    string `json:"format"`
}

// HistoryEntry is a persisted report descriptor as exposed over HTTP.
// The payload body itself is not included; it is reachable via the
// download route.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	TypeName    string    `json:"typeName"`
	Period      string    `json:"period"`
	StartupName string    `json:"startupName,omitempty"`
	Format      string    `json:"format"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type Startup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Error is the uniform error body for the admin surface.
type Error struct {
	Error string `json:"error"`
}
