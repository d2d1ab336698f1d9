// Package boards keeps the two representations of "who holds what role" —
// the normalized term roster (board_members) and the denormalized
// Member.Title column — consistent under every mutation path, and validates
// roster composition and role uniqueness.
package boards

import (
	"github.com/dernekos/backend/internal/models"
)

// RoleToTitle derives the member title for a seat. Substitute status
// dominates: the role value is ignored for YEDEK seats.
func RoleToTitle(role models.BoardRole, memberType models.BoardMemberType, boardType models.BoardType) models.MemberTitle {
	if memberType == models.MemberTypeYedek {
		if boardType == models.BoardExecutive {
			return models.TitleYonetimKuruluYedek
		}
		return models.TitleDenetimKuruluYedek
	}
	if boardType == models.BoardExecutive {
		switch role {
		case models.RolePresident:
			return models.TitleBaskan
		case models.RoleVicePresident:
			return models.TitleBaskanYardimcisi
		case models.RoleSecretary:
			return models.TitleSekreter
		case models.RoleTreasurer:
			return models.TitleSayman
		default:
			return models.TitleYonetimKuruluAsil
		}
	}
	if role == models.RoleSupervisor {
		return models.TitleDenetimKuruluBaskani
	}
	return models.TitleDenetimKuruluAsil
}

// TitleToRole is the inverse lookup for the five titles that name a role
// 1:1. Every other title (including nil/UYE and the four generic
// ASIL/YEDEK titles) collapses to MEMBER; the seat's (role, member_type,
// board_type) triple is the source of truth, the title is derived.
func TitleToRole(title *models.MemberTitle) models.BoardRole {
	if title == nil {
		return models.RoleMember
	}
	switch *title {
	case models.TitleBaskan:
		return models.RolePresident
	case models.TitleBaskanYardimcisi:
		return models.RoleVicePresident
	case models.TitleSekreter:
		return models.RoleSecretary
	case models.TitleSayman:
		return models.RoleTreasurer
	case models.TitleDenetimKuruluBaskani:
		return models.RoleSupervisor
	default:
		return models.RoleMember
	}
}

// TitleToMemberType reports whether a title denotes a substitute seat.
func TitleToMemberType(title *models.MemberTitle) models.BoardMemberType {
	if title == nil {
		return models.MemberTypeAsil
	}
	switch *title {
	case models.TitleYonetimKuruluYedek, models.TitleDenetimKuruluYedek:
		return models.MemberTypeYedek
	default:
		return models.MemberTypeAsil
	}
}

// BoardTypeForTitle partitions titles into the board they belong to.
// Returns nil for UYE/nil: not a board-related title.
func BoardTypeForTitle(title *models.MemberTitle) *models.BoardType {
	if title == nil {
		return nil
	}
	switch *title {
	case models.TitleBaskan, models.TitleBaskanYardimcisi, models.TitleSekreter,
		models.TitleSayman, models.TitleYonetimKuruluAsil, models.TitleYonetimKuruluYedek:
		bt := models.BoardExecutive
		return &bt
	case models.TitleDenetimKuruluBaskani, models.TitleDenetimKuruluAsil, models.TitleDenetimKuruluYedek:
		bt := models.BoardAudit
		return &bt
	default:
		return nil
	}
}

// IsExclusiveTitle reports whether a title may be held by at most one
// member per organization. The generic ASIL/YEDEK titles and UYE permit
// multiple concurrent holders.
func IsExclusiveTitle(title *models.MemberTitle) bool {
	if title == nil {
		return false
	}
	switch *title {
	case models.TitleBaskan, models.TitleBaskanYardimcisi, models.TitleSekreter,
		models.TitleSayman, models.TitleDenetimKuruluBaskani:
		return true
	default:
		return false
	}
}

// roleLabels are the Turkish display names used in validation and
// conflict messages.
var roleLabels = map[models.BoardRole]string{
	models.RolePresident:     "Başkan",
	models.RoleVicePresident: "Başkan Yardımcısı",
	models.RoleSecretary:     "Sekreter",
	models.RoleTreasurer:     "Sayman",
	models.RoleMember:        "Üye",
	models.RoleSupervisor:    "Denetim Kurulu Başkanı",
}

// RoleLabel returns the Turkish display name for a role.
func RoleLabel(role models.BoardRole) string {
	if l, ok := roleLabels[role]; ok {
		return l
	}
	return string(role)
}

// boardLabels are the Turkish display names for the two boards.
var boardLabels = map[models.BoardType]string{
	models.BoardExecutive: "Yönetim Kurulu",
	models.BoardAudit:     "Denetim Kurulu",
}

// BoardLabel returns the Turkish display name for a board type.
func BoardLabel(bt models.BoardType) string {
	if l, ok := boardLabels[bt]; ok {
		return l
	}
	return string(bt)
}
