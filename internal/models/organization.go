package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant association (dernek).
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Organization user roles.
const (
	OrgRoleOwner   = "owner"
	OrgRoleManager = "manager"
	OrgRoleViewer  = "viewer"
)

// OrganizationUser links a platform user to an organization with a role.
type OrganizationUser struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
