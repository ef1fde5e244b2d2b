package store

import (
	"encoding/json"
	"time"
)

// StoredReport is a history entry as persisted at rest. Data keeps the full
// payload body so a later re-download can re-invoke the renderers without
// re-fetching from the admin API.
type StoredReport struct {
	ID          string
	Kind        string
	TypeName    string
	Period      string
	StartupName string
	Format      string
	GeneratedAt time.Time
	Data        json.RawMessage
}
