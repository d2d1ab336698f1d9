package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentTemplate is an organization-scoped HTML template with {{alan}}
// placeholders. Rendering to PDF/DOCX happens outside this service.
type DocumentTemplate struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Kind           string    `json:"kind"` // letter | receipt | roster
	BodyHTML       string    `json:"body_html"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
