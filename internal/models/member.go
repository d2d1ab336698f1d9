package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberTitle is the denormalized board title stored on a member. It mirrors
// the member's seat in the currently active term of one of the two boards;
// TitleUye (or a NULL column) means no board seat.
type MemberTitle string

const (
	TitleBaskan               MemberTitle = "BASKAN"
	TitleBaskanYardimcisi     MemberTitle = "BASKAN_YARDIMCISI"
	TitleSekreter             MemberTitle = "SEKRETER"
	TitleSayman               MemberTitle = "SAYMAN"
	TitleYonetimKuruluAsil    MemberTitle = "YONETIM_KURULU_ASIL"
	TitleDenetimKuruluBaskani MemberTitle = "DENETIM_KURULU_BASKANI"
	TitleDenetimKuruluAsil    MemberTitle = "DENETIM_KURULU_ASIL"
	TitleYonetimKuruluYedek   MemberTitle = "YONETIM_KURULU_YEDEK"
	TitleDenetimKuruluYedek   MemberTitle = "DENETIM_KURULU_YEDEK"
	TitleUye                  MemberTitle = "UYE"
)

// Member represents a person registered in an association.
type Member struct {
	ID             uuid.UUID    `json:"id"`
	OrganizationID uuid.UUID    `json:"organization_id"`
	MemberNo       string       `json:"member_no"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Title          *MemberTitle `json:"title"`
	JoinedAt       *time.Time   `json:"joined_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// FullName returns the member's display name.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
