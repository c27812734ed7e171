package domain

import "time"

type ApplicationKind string

const (
	ApplicationKindOrganization ApplicationKind = "ORGANIZATION"
	ApplicationKindEvent        ApplicationKind = "EVENT"
)

// Application is a pending request to join an organization or one of its
// events. Resolved applications are removed from the pending table.
type Application struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	OrgCode        string    `json:"ngo_code"`
	EventID        *int64    `json:"event_id,omitempty"`
	EventTitle     string    `json:"event_title,omitempty"`
	VolunteerName  string    `json:"volunteer_name"`
	VolunteerEmail string    `json:"volunteer_email"`
	CreatedAt      time.Time `json:"created_at"`
}

func (a Application) Kind() ApplicationKind {
	if a.EventID != nil {
		return ApplicationKindEvent
	}
	return ApplicationKindOrganization
}

type ApplicationStatus struct {
	ApplicationID int64     `json:"application_id"`
	UserID        string    `json:"user_id"`
	OrgCode       string    `json:"ngo_code"`
	EventID       *int64    `json:"event_id,omitempty"`
	Approved      bool      `json:"result"`
	Reason        string    `json:"reason,omitempty"`
	ResolvedBy    int64     `json:"resolved_by"`
	ResolvedAt    time.Time `json:"resolved_at"`
}
