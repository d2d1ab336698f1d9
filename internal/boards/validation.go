package boards

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dernekos/backend/internal/models"
)

// Validation error codes.
const (
	CodeMinAsilMembers      = "MIN_ASIL_MEMBERS"
	CodeMinYedekMembers     = "MIN_YEDEK_MEMBERS"
	CodeMissingRequiredRole = "MISSING_REQUIRED_ROLE"
	CodeDuplicateRole       = "DUPLICATE_ROLE"
	CodeDuplicateMember     = "DUPLICATE_MEMBER"
)

// ValidationError is one structural problem in a proposed roster.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RosterEntry is one proposed seat in a roster submission. Order is
// optional; zero means "use submission index".
type RosterEntry struct {
	MemberID   uuid.UUID              `json:"member_id"`
	Role       models.BoardRole       `json:"role"`
	MemberType models.BoardMemberType `json:"member_type"`
	Order      int                    `json:"order,omitempty"`
}

// minimum roster sizes per board type, applied to both partitions.
var minRosterSize = map[models.BoardType]int{
	models.BoardExecutive: 5,
	models.BoardAudit:     3,
}

// Roles the executive ASIL partition must cover.
var requiredExecutiveRoles = []models.BoardRole{
	models.RolePresident,
	models.RoleVicePresident,
	models.RoleSecretary,
	models.RoleTreasurer,
}

// ValidateComposition checks a proposed roster against structural rules.
// All rules are evaluated independently and errors accumulate; an empty
// result means the roster is valid. The function never mutates its input.
// Callers decide whether a non-empty result blocks the write or is only
// reported back (this layer reports, it does not reject).
func ValidateComposition(boardType models.BoardType, entries []RosterEntry) []ValidationError {
	var errs []ValidationError

	var asil, yedek []RosterEntry
	for _, e := range entries {
		if e.MemberType == models.MemberTypeYedek {
			yedek = append(yedek, e)
		} else {
			asil = append(asil, e)
		}
	}

	min := minRosterSize[boardType]
	if min == 0 {
		min = minRosterSize[models.BoardAudit]
	}
	label := BoardLabel(boardType)
	if len(asil) < min {
		errs = append(errs, ValidationError{
			Code:    CodeMinAsilMembers,
			Message: fmt.Sprintf("%s için en az %d asıl üye gereklidir (şu an %d)", label, min, len(asil)),
		})
	}
	if len(yedek) < min {
		errs = append(errs, ValidationError{
			Code:    CodeMinYedekMembers,
			Message: fmt.Sprintf("%s için en az %d yedek üye gereklidir (şu an %d)", label, min, len(yedek)),
		})
	}

	if boardType == models.BoardExecutive {
		present := make(map[models.BoardRole]bool, len(asil))
		for _, e := range asil {
			present[e.Role] = true
		}
		for _, role := range requiredExecutiveRoles {
			if !present[role] {
				errs = append(errs, ValidationError{
					Code:    CodeMissingRequiredRole,
					Message: fmt.Sprintf("Yönetim Kurulu asıl üyeleri arasında %s bulunmalıdır", RoleLabel(role)),
				})
			}
		}
	}

	errs = append(errs, duplicateRoleErrors(asil, models.MemberTypeAsil)...)
	errs = append(errs, duplicateRoleErrors(yedek, models.MemberTypeYedek)...)

	// Duplicate-member check spans both partitions and stops at the first
	// repeated member, unlike the per-rule accumulation above.
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		if seen[e.MemberID] {
			errs = append(errs, ValidationError{
				Code:    CodeDuplicateMember,
				Message: "Aynı üye listede birden fazla kez yer alamaz",
			})
			break
		}
		seen[e.MemberID] = true
	}

	return errs
}

// duplicateRoleErrors emits one error per repeat of a named role within a
// partition. MEMBER is exempt; the first occurrence of any role is free.
func duplicateRoleErrors(entries []RosterEntry, partition models.BoardMemberType) []ValidationError {
	var errs []ValidationError
	counts := make(map[models.BoardRole]int, len(entries))
	partitionLabel := "asıl"
	if partition == models.MemberTypeYedek {
		partitionLabel = "yedek"
	}
	for _, e := range entries {
		if e.Role == models.RoleMember {
			continue
		}
		counts[e.Role]++
		if counts[e.Role] > 1 {
			errs = append(errs, ValidationError{
				Code:    CodeDuplicateRole,
				Message: fmt.Sprintf("%s listesinde %s rolü birden fazla kez atanmış", partitionLabel, RoleLabel(e.Role)),
			})
		}
	}
	return errs
}
