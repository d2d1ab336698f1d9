package boards

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dernekos/backend/internal/models"
)

func titlePtr(t models.MemberTitle) *models.MemberTitle { return &t }

func TestRoleToTitle_Executive(t *testing.T) {
	assert.Equal(t, models.TitleBaskan, RoleToTitle(models.RolePresident, models.MemberTypeAsil, models.BoardExecutive))
	assert.Equal(t, models.TitleBaskanYardimcisi, RoleToTitle(models.RoleVicePresident, models.MemberTypeAsil, models.BoardExecutive))
	assert.Equal(t, models.TitleSekreter, RoleToTitle(models.RoleSecretary, models.MemberTypeAsil, models.BoardExecutive))
	assert.Equal(t, models.TitleSayman, RoleToTitle(models.RoleTreasurer, models.MemberTypeAsil, models.BoardExecutive))
	assert.Equal(t, models.TitleYonetimKuruluAsil, RoleToTitle(models.RoleMember, models.MemberTypeAsil, models.BoardExecutive))
}

func TestRoleToTitle_Audit(t *testing.T) {
	assert.Equal(t, models.TitleDenetimKuruluBaskani, RoleToTitle(models.RoleSupervisor, models.MemberTypeAsil, models.BoardAudit))
	assert.Equal(t, models.TitleDenetimKuruluAsil, RoleToTitle(models.RoleMember, models.MemberTypeAsil, models.BoardAudit))
	// A named role on the audit board still collapses to the generic title.
	assert.Equal(t, models.TitleDenetimKuruluAsil, RoleToTitle(models.RolePresident, models.MemberTypeAsil, models.BoardAudit))
}

func TestRoleToTitle_YedekDominates(t *testing.T) {
	// Substitute status wins over any role value.
	assert.Equal(t, models.TitleYonetimKuruluYedek, RoleToTitle(models.RolePresident, models.MemberTypeYedek, models.BoardExecutive))
	assert.Equal(t, models.TitleYonetimKuruluYedek, RoleToTitle(models.RoleMember, models.MemberTypeYedek, models.BoardExecutive))
	assert.Equal(t, models.TitleDenetimKuruluYedek, RoleToTitle(models.RoleSupervisor, models.MemberTypeYedek, models.BoardAudit))
}

func TestTitleToRole_ExactInverses(t *testing.T) {
	assert.Equal(t, models.RolePresident, TitleToRole(titlePtr(models.TitleBaskan)))
	assert.Equal(t, models.RoleVicePresident, TitleToRole(titlePtr(models.TitleBaskanYardimcisi)))
	assert.Equal(t, models.RoleSecretary, TitleToRole(titlePtr(models.TitleSekreter)))
	assert.Equal(t, models.RoleTreasurer, TitleToRole(titlePtr(models.TitleSayman)))
	assert.Equal(t, models.RoleSupervisor, TitleToRole(titlePtr(models.TitleDenetimKuruluBaskani)))
}

func TestTitleToRole_CollapsesGenericTitles(t *testing.T) {
	assert.Equal(t, models.RoleMember, TitleToRole(nil))
	assert.Equal(t, models.RoleMember, TitleToRole(titlePtr(models.TitleUye)))
	assert.Equal(t, models.RoleMember, TitleToRole(titlePtr(models.TitleYonetimKuruluAsil)))
	assert.Equal(t, models.RoleMember, TitleToRole(titlePtr(models.TitleYonetimKuruluYedek)))
	assert.Equal(t, models.RoleMember, TitleToRole(titlePtr(models.TitleDenetimKuruluAsil)))
	assert.Equal(t, models.RoleMember, TitleToRole(titlePtr(models.TitleDenetimKuruluYedek)))
}

func TestTitleToMemberType(t *testing.T) {
	assert.Equal(t, models.MemberTypeYedek, TitleToMemberType(titlePtr(models.TitleYonetimKuruluYedek)))
	assert.Equal(t, models.MemberTypeYedek, TitleToMemberType(titlePtr(models.TitleDenetimKuruluYedek)))
	assert.Equal(t, models.MemberTypeAsil, TitleToMemberType(titlePtr(models.TitleBaskan)))
	assert.Equal(t, models.MemberTypeAsil, TitleToMemberType(nil))
}

func TestBoardTypeForTitle(t *testing.T) {
	executive := []models.MemberTitle{
		models.TitleBaskan, models.TitleBaskanYardimcisi, models.TitleSekreter,
		models.TitleSayman, models.TitleYonetimKuruluAsil, models.TitleYonetimKuruluYedek,
	}
	for _, title := range executive {
		bt := BoardTypeForTitle(titlePtr(title))
		if assert.NotNil(t, bt, string(title)) {
			assert.Equal(t, models.BoardExecutive, *bt, string(title))
		}
	}
	audit := []models.MemberTitle{
		models.TitleDenetimKuruluBaskani, models.TitleDenetimKuruluAsil, models.TitleDenetimKuruluYedek,
	}
	for _, title := range audit {
		bt := BoardTypeForTitle(titlePtr(title))
		if assert.NotNil(t, bt, string(title)) {
			assert.Equal(t, models.BoardAudit, *bt, string(title))
		}
	}
	assert.Nil(t, BoardTypeForTitle(nil))
	assert.Nil(t, BoardTypeForTitle(titlePtr(models.TitleUye)))
}

func TestIsExclusiveTitle(t *testing.T) {
	exclusive := []models.MemberTitle{
		models.TitleBaskan, models.TitleBaskanYardimcisi, models.TitleSekreter,
		models.TitleSayman, models.TitleDenetimKuruluBaskani,
	}
	for _, title := range exclusive {
		assert.True(t, IsExclusiveTitle(titlePtr(title)), string(title))
	}
	shared := []models.MemberTitle{
		models.TitleYonetimKuruluAsil, models.TitleYonetimKuruluYedek,
		models.TitleDenetimKuruluAsil, models.TitleDenetimKuruluYedek, models.TitleUye,
	}
	for _, title := range shared {
		assert.False(t, IsExclusiveTitle(titlePtr(title)), string(title))
	}
	assert.False(t, IsExclusiveTitle(nil))
}
