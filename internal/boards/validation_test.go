package boards

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dernekos/backend/internal/models"
)

func entry(role models.BoardRole, mt models.BoardMemberType) RosterEntry {
	return RosterEntry{MemberID: uuid.New(), Role: role, MemberType: mt}
}

func validExecutiveRoster() []RosterEntry {
	entries := []RosterEntry{
		entry(models.RolePresident, models.MemberTypeAsil),
		entry(models.RoleVicePresident, models.MemberTypeAsil),
		entry(models.RoleSecretary, models.MemberTypeAsil),
		entry(models.RoleTreasurer, models.MemberTypeAsil),
		entry(models.RoleMember, models.MemberTypeAsil),
	}
	for i := 0; i < 5; i++ {
		entries = append(entries, entry(models.RoleMember, models.MemberTypeYedek))
	}
	return entries
}

func codesOf(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateComposition_ValidExecutiveRoster(t *testing.T) {
	errs := ValidateComposition(models.BoardExecutive, validExecutiveRoster())
	assert.Empty(t, errs)
}

func TestValidateComposition_ValidAuditRoster(t *testing.T) {
	entries := []RosterEntry{
		entry(models.RoleSupervisor, models.MemberTypeAsil),
		entry(models.RoleMember, models.MemberTypeAsil),
		entry(models.RoleMember, models.MemberTypeAsil),
		entry(models.RoleMember, models.MemberTypeYedek),
		entry(models.RoleMember, models.MemberTypeYedek),
		entry(models.RoleMember, models.MemberTypeYedek),
	}
	assert.Empty(t, ValidateComposition(models.BoardAudit, entries))
}

func TestValidateComposition_MinimumSizes(t *testing.T) {
	errs := ValidateComposition(models.BoardExecutive, nil)
	codes := codesOf(errs)
	assert.Contains(t, codes, CodeMinAsilMembers)
	assert.Contains(t, codes, CodeMinYedekMembers)

	// Audit board needs three per partition.
	entries := []RosterEntry{
		entry(models.RoleSupervisor, models.MemberTypeAsil),
		entry(models.RoleMember, models.MemberTypeAsil),
	}
	errs = ValidateComposition(models.BoardAudit, entries)
	codes = codesOf(errs)
	assert.Contains(t, codes, CodeMinAsilMembers)
	assert.Contains(t, codes, CodeMinYedekMembers)
}

func TestValidateComposition_MissingRequiredRoles(t *testing.T) {
	entries := validExecutiveRoster()
	// Demote the president to a plain member: size rules still pass, the
	// required-role rule fires once.
	entries[0].Role = models.RoleMember
	errs := ValidateComposition(models.BoardExecutive, entries)
	codes := codesOf(errs)
	assert.Equal(t, []string{CodeMissingRequiredRole}, codes)
	assert.Contains(t, errs[0].Message, "Başkan")
}

func TestValidateComposition_RequiredRolesOnlyCountAsil(t *testing.T) {
	entries := validExecutiveRoster()
	// Move the treasurer to the substitute partition: a YEDEK treasurer
	// does not satisfy the requirement.
	entries[3].MemberType = models.MemberTypeYedek
	errs := ValidateComposition(models.BoardExecutive, entries)
	codes := codesOf(errs)
	assert.Contains(t, codes, CodeMissingRequiredRole)
	assert.Contains(t, codes, CodeMinAsilMembers)
}

func TestValidateComposition_DuplicateRolePerPartition(t *testing.T) {
	entries := validExecutiveRoster()
	entries = append(entries,
		entry(models.RolePresident, models.MemberTypeAsil),
		entry(models.RolePresident, models.MemberTypeAsil),
	)
	errs := ValidateComposition(models.BoardExecutive, entries)
	var dupes int
	for _, e := range errs {
		if e.Code == CodeDuplicateRole {
			dupes++
		}
	}
	// One error per repeat beyond the first occurrence.
	assert.Equal(t, 2, dupes)
}

func TestValidateComposition_SameRoleAcrossPartitionsAllowed(t *testing.T) {
	entries := validExecutiveRoster()
	// A YEDEK president does not clash with the ASIL president.
	entries[5].Role = models.RolePresident
	errs := ValidateComposition(models.BoardExecutive, entries)
	assert.NotContains(t, codesOf(errs), CodeDuplicateRole)
}

func TestValidateComposition_MemberRoleRepeatsFreely(t *testing.T) {
	errs := ValidateComposition(models.BoardExecutive, validExecutiveRoster())
	assert.NotContains(t, codesOf(errs), CodeDuplicateRole)
}

func TestValidateComposition_DuplicateMemberShortCircuits(t *testing.T) {
	entries := validExecutiveRoster()
	// Repeat the same member twice more; only one error is reported.
	entries[1].MemberID = entries[0].MemberID
	entries[2].MemberID = entries[0].MemberID
	errs := ValidateComposition(models.BoardExecutive, entries)
	var dupes int
	for _, e := range errs {
		if e.Code == CodeDuplicateMember {
			dupes++
		}
	}
	assert.Equal(t, 1, dupes)
}

func TestValidateComposition_ErrorsAccumulate(t *testing.T) {
	// One entry trips size rules on both partitions plus every required role.
	entries := []RosterEntry{entry(models.RoleMember, models.MemberTypeAsil)}
	errs := ValidateComposition(models.BoardExecutive, entries)
	codes := codesOf(errs)
	assert.Contains(t, codes, CodeMinAsilMembers)
	assert.Contains(t, codes, CodeMinYedekMembers)
	assert.Contains(t, codes, CodeMissingRequiredRole)
	assert.GreaterOrEqual(t, len(errs), 6)
}
