package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a named set of members within an organization (tags/lists used
// for campaigns and reporting).
type Group struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	MemberCount    int       `json:"member_count,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
