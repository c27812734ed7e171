package domain

import (
	"strings"
	"time"
)

// ParticipationStatus is the approval state of a volunteer on an event. It is
// distinct from EventStatus even though legacy rows reuse ONGOING.
type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "PENDING"
	ParticipationApproved ParticipationStatus = "APPROVED"
	ParticipationRejected ParticipationStatus = "REJECTED"
)

// legacyApproved is written by older clients in place of APPROVED.
const legacyApproved = "ONGOING"

// ParseParticipationStatus maps a stored value onto the approval vocabulary.
// Both APPROVED and the legacy ONGOING are read as approved.
func ParseParticipationStatus(raw string) ParticipationStatus {
	switch v := strings.ToUpper(strings.TrimSpace(raw)); v {
	case string(ParticipationApproved), legacyApproved:
		return ParticipationApproved
	case string(ParticipationRejected):
		return ParticipationRejected
	default:
		return ParticipationPending
	}
}

type Participation struct {
	EventID  int64               `json:"event_id"`
	UserID   string              `json:"user_id"`
	Status   ParticipationStatus `json:"status"`
	JoinedAt time.Time           `json:"joined_at"`
}
