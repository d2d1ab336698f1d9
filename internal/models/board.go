package models

import (
	"time"

	"github.com/google/uuid"
)

// BoardType distinguishes the two standing bodies of an association.
type BoardType string

const (
	BoardExecutive BoardType = "EXECUTIVE" // yönetim kurulu
	BoardAudit     BoardType = "AUDIT"     // denetim kurulu
)

// BoardRole is the role a member holds within a term's roster.
type BoardRole string

const (
	RolePresident     BoardRole = "PRESIDENT"
	RoleVicePresident BoardRole = "VICE_PRESIDENT"
	RoleSecretary     BoardRole = "SECRETARY"
	RoleTreasurer     BoardRole = "TREASURER"
	RoleMember        BoardRole = "MEMBER"
	RoleSupervisor    BoardRole = "SUPERVISOR"
)

// BoardMemberType marks principal vs substitute status in a roster.
type BoardMemberType string

const (
	MemberTypeAsil  BoardMemberType = "ASIL"
	MemberTypeYedek BoardMemberType = "YEDEK"
)

// Board is one of exactly two standing bodies per organization.
type Board struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Type           BoardType `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}

// BoardTerm is a time-boxed incarnation of a board. At most one term per
// board may be active at a time.
type BoardTerm struct {
	ID        uuid.UUID  `json:"id"`
	BoardID   uuid.UUID  `json:"board_id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BoardMember is a seat in a term's roster: (member, term) → (role, type, order).
type BoardMember struct {
	ID         uuid.UUID       `json:"id"`
	TermID     uuid.UUID       `json:"term_id"`
	MemberID   uuid.UUID       `json:"member_id"`
	Role       BoardRole       `json:"role"`
	MemberType BoardMemberType `json:"member_type"`
	Order      int             `json:"order"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
