package boards

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dernekos/backend/internal/models"
)

// UniquenessResult reports whether a title is free to assign.
type UniquenessResult struct {
	IsUnique          bool               `json:"is_unique"`
	ConflictingMember *ConflictingMember `json:"conflicting_member,omitempty"`
}

// AssignmentResult reports whether a (role, memberType) seat may be
// assigned in a term.
type AssignmentResult struct {
	IsValid           bool               `json:"is_valid"`
	Error             string             `json:"error,omitempty"`
	ConflictingMember *ConflictingMember `json:"conflicting_member,omitempty"`
}

// CheckTitleUniqueness reports whether the title can be assigned within the
// organization. Non-exclusive titles (UYE, nil and the four generic
// ASIL/YEDEK titles) are always unique without querying; for the five
// exclusive titles any other holder is a conflict.
func CheckTitleUniqueness(ctx context.Context, store Store, orgID uuid.UUID, title *models.MemberTitle, excludeMemberID *uuid.UUID) (UniquenessResult, error) {
	if !IsExclusiveTitle(title) {
		return UniquenessResult{IsUnique: true}, nil
	}
	holder, err := store.FindMemberByTitle(ctx, orgID, *title, excludeMemberID)
	if err != nil {
		return UniquenessResult{}, err
	}
	if holder != nil {
		return UniquenessResult{IsUnique: false, ConflictingMember: holder}, nil
	}
	return UniquenessResult{IsUnique: true}, nil
}

// ValidateRoleAssignment checks a candidate seat at both layers: the term's
// roster (same role+type already taken) and the denormalized member titles
// (exclusive title already held). MEMBER seats are non-exclusive and skip
// all checks. The first failing layer is returned; both could fail
// independently but the roster layer is checked first.
func ValidateRoleAssignment(ctx context.Context, store Store, orgID uuid.UUID, role models.BoardRole, memberType models.BoardMemberType, boardType models.BoardType, termID uuid.UUID, excludeMemberID *uuid.UUID) (AssignmentResult, error) {
	if role == models.RoleMember {
		return AssignmentResult{IsValid: true}, nil
	}

	holder, err := store.FindSeatByRole(ctx, termID, role, memberType, excludeMemberID)
	if err != nil {
		return AssignmentResult{}, err
	}
	if holder != nil {
		return AssignmentResult{
			IsValid:           false,
			Error:             fmt.Sprintf("%s rolü bu dönemde zaten atanmış", RoleLabel(role)),
			ConflictingMember: holder,
		}, nil
	}

	title := RoleToTitle(role, memberType, boardType)
	res, err := CheckTitleUniqueness(ctx, store, orgID, &title, excludeMemberID)
	if err != nil {
		return AssignmentResult{}, err
	}
	if !res.IsUnique {
		return AssignmentResult{
			IsValid:           false,
			Error:             fmt.Sprintf("%s statüsü dernekte zaten başka bir üyede", RoleLabel(role)),
			ConflictingMember: res.ConflictingMember,
		}, nil
	}
	return AssignmentResult{IsValid: true}, nil
}
