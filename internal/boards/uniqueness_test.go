package boards

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dernekos/backend/internal/models"
)

func TestCheckTitleUniqueness_NonExclusiveAlwaysUnique(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	// Two members already hold the generic title; a third is still fine.
	store.addMember(orgID, titlePtr(models.TitleYonetimKuruluAsil))
	store.addMember(orgID, titlePtr(models.TitleYonetimKuruluAsil))

	res, err := CheckTitleUniqueness(ctx, store, orgID, titlePtr(models.TitleYonetimKuruluAsil), nil)
	require.NoError(t, err)
	assert.True(t, res.IsUnique)

	res, err = CheckTitleUniqueness(ctx, store, orgID, nil, nil)
	require.NoError(t, err)
	assert.True(t, res.IsUnique)
}

func TestCheckTitleUniqueness_ExclusiveConflict(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	holder := store.addMember(orgID, titlePtr(models.TitleBaskan))

	res, err := CheckTitleUniqueness(ctx, store, orgID, titlePtr(models.TitleBaskan), nil)
	require.NoError(t, err)
	assert.False(t, res.IsUnique)
	require.NotNil(t, res.ConflictingMember)
	assert.Equal(t, holder.ID, res.ConflictingMember.ID)
}

func TestCheckTitleUniqueness_ScopedToOrganization(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addMember(uuid.New(), titlePtr(models.TitleBaskan))

	res, err := CheckTitleUniqueness(ctx, store, uuid.New(), titlePtr(models.TitleBaskan), nil)
	require.NoError(t, err)
	assert.True(t, res.IsUnique)
}

func TestCheckTitleUniqueness_ExcludesSelf(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	holder := store.addMember(orgID, titlePtr(models.TitleSayman))

	// Re-assigning a member their own title is not a conflict.
	res, err := CheckTitleUniqueness(ctx, store, orgID, titlePtr(models.TitleSayman), &holder.ID)
	require.NoError(t, err)
	assert.True(t, res.IsUnique)
}

func TestValidateRoleAssignment_MemberRoleSkipsChecks(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	res, err := ValidateRoleAssignment(ctx, store, uuid.New(), models.RoleMember, models.MemberTypeAsil,
		models.BoardExecutive, uuid.New(), nil)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
}

func TestValidateRoleAssignment_RosterLayerConflict(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	holder := store.addMember(orgID, nil)
	require.NoError(t, store.UpsertSeat(ctx, term.ID, holder.ID, models.RolePresident, models.MemberTypeAsil))

	res, err := ValidateRoleAssignment(ctx, store, orgID, models.RolePresident, models.MemberTypeAsil,
		models.BoardExecutive, term.ID, nil)
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "bu dönemde zaten atanmış")
	require.NotNil(t, res.ConflictingMember)
	assert.Equal(t, holder.ID, res.ConflictingMember.ID)
}

func TestValidateRoleAssignment_TitleLayerConflict(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	// No seat in this term, but the title is already held in the org
	// (for example via a seat in another term).
	holder := store.addMember(orgID, titlePtr(models.TitleBaskan))

	res, err := ValidateRoleAssignment(ctx, store, orgID, models.RolePresident, models.MemberTypeAsil,
		models.BoardExecutive, term.ID, nil)
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "dernekte zaten başka bir üyede")
	require.NotNil(t, res.ConflictingMember)
	assert.Equal(t, holder.ID, res.ConflictingMember.ID)
}

func TestValidateRoleAssignment_RosterLayerWinsWhenBothConflict(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	seated := store.addMember(orgID, nil)
	store.addMember(orgID, titlePtr(models.TitleBaskan))
	require.NoError(t, store.UpsertSeat(ctx, term.ID, seated.ID, models.RolePresident, models.MemberTypeAsil))

	res, err := ValidateRoleAssignment(ctx, store, orgID, models.RolePresident, models.MemberTypeAsil,
		models.BoardExecutive, term.ID, nil)
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "bu dönemde zaten atanmış")
	require.NotNil(t, res.ConflictingMember)
	assert.Equal(t, seated.ID, res.ConflictingMember.ID)
}

func TestValidateRoleAssignment_YedekSeatChecksGenericTitle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	// A YEDEK president maps to the non-exclusive substitute title, so the
	// title layer never conflicts; only the roster layer can.
	store.addMember(orgID, titlePtr(models.TitleYonetimKuruluYedek))

	res, err := ValidateRoleAssignment(ctx, store, orgID, models.RolePresident, models.MemberTypeYedek,
		models.BoardExecutive, term.ID, nil)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
}

func TestValidateRoleAssignment_Available(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardAudit)
	term := store.addTerm(board.ID, true)

	res, err := ValidateRoleAssignment(ctx, store, orgID, models.RoleSupervisor, models.MemberTypeAsil,
		models.BoardAudit, term.ID, nil)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Error)
}
