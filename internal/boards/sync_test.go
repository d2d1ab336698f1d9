package boards

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dernekos/backend/internal/models"
)

func TestSyncTitleToBoard_AssignsSeatInActiveTerm(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	m := store.addMember(orgID, nil)

	err := NewEngine(store).SyncTitleToBoard(ctx, m.ID, orgID, titlePtr(models.TitleBaskan))
	require.NoError(t, err)

	seat := store.seatFor(term.ID, m.ID)
	require.NotNil(t, seat)
	assert.Equal(t, models.RolePresident, seat.Role)
	assert.Equal(t, models.MemberTypeAsil, seat.MemberType)
}

func TestSyncTitleToBoard_GenericTitleCollapsesToMemberRole(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	m := store.addMember(orgID, nil)

	err := NewEngine(store).SyncTitleToBoard(ctx, m.ID, orgID, titlePtr(models.TitleYonetimKuruluYedek))
	require.NoError(t, err)

	seat := store.seatFor(term.ID, m.ID)
	require.NotNil(t, seat)
	assert.Equal(t, models.RoleMember, seat.Role)
	assert.Equal(t, models.MemberTypeYedek, seat.MemberType)
}

func TestSyncTitleToBoard_OrgMismatchFatal(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m := store.addMember(uuid.New(), nil)

	engine := NewEngine(store)
	err := engine.SyncTitleToBoard(ctx, m.ID, uuid.New(), titlePtr(models.TitleBaskan))
	assert.ErrorIs(t, err, ErrMemberOrgMismatch)

	err = engine.SyncTitleToBoard(ctx, uuid.New(), m.OrganizationID, titlePtr(models.TitleBaskan))
	assert.ErrorIs(t, err, ErrMemberOrgMismatch)
}

func TestSyncTitleToBoard_ClearingTitleRemovesAllSeats(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	m := store.addMember(orgID, titlePtr(models.TitleBaskan))
	require.NoError(t, store.UpsertSeat(ctx, term.ID, m.ID, models.RolePresident, models.MemberTypeAsil))

	engine := NewEngine(store)
	require.NoError(t, engine.SyncTitleToBoard(ctx, m.ID, orgID, nil))
	assert.Nil(t, store.seatFor(term.ID, m.ID))

	// UYE behaves the same as nil.
	require.NoError(t, store.UpsertSeat(ctx, term.ID, m.ID, models.RolePresident, models.MemberTypeAsil))
	require.NoError(t, engine.SyncTitleToBoard(ctx, m.ID, orgID, titlePtr(models.TitleUye)))
	assert.Nil(t, store.seatFor(term.ID, m.ID))
}

func TestSyncTitleToBoard_MissingBoardOrTermIsSilent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	m := store.addMember(orgID, nil)
	engine := NewEngine(store)

	// No audit board exists at all.
	require.NoError(t, engine.SyncTitleToBoard(ctx, m.ID, orgID, titlePtr(models.TitleDenetimKuruluBaskani)))
	assert.Empty(t, store.seats)

	// Board exists but has no active term.
	board := store.addBoard(orgID, models.BoardExecutive)
	store.addTerm(board.ID, false)
	require.NoError(t, engine.SyncTitleToBoard(ctx, m.ID, orgID, titlePtr(models.TitleBaskan)))
	assert.Empty(t, store.seats)
}

func TestSyncTitleToBoard_EvictsSeatsOnOtherBoard(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	exec := store.addBoard(orgID, models.BoardExecutive)
	audit := store.addBoard(orgID, models.BoardAudit)
	execTerm := store.addTerm(exec.ID, true)
	auditTerm := store.addTerm(audit.ID, true)
	m := store.addMember(orgID, titlePtr(models.TitleBaskan))
	require.NoError(t, store.UpsertSeat(ctx, execTerm.ID, m.ID, models.RolePresident, models.MemberTypeAsil))

	// Moving to the audit board removes the executive seat.
	err := NewEngine(store).SyncTitleToBoard(ctx, m.ID, orgID, titlePtr(models.TitleDenetimKuruluBaskani))
	require.NoError(t, err)
	assert.Nil(t, store.seatFor(execTerm.ID, m.ID))
	seat := store.seatFor(auditTerm.ID, m.ID)
	require.NotNil(t, seat)
	assert.Equal(t, models.RoleSupervisor, seat.Role)
}

func TestSyncTitleToBoard_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	m := store.addMember(orgID, nil)
	engine := NewEngine(store)

	require.NoError(t, engine.SyncTitleToBoard(ctx, m.ID, orgID, titlePtr(models.TitleSekreter)))
	require.NoError(t, engine.SyncTitleToBoard(ctx, m.ID, orgID, titlePtr(models.TitleSekreter)))

	assert.Len(t, store.seats, 1)
	seat := store.seatFor(term.ID, m.ID)
	require.NotNil(t, seat)
	assert.Equal(t, models.RoleSecretary, seat.Role)
}

func TestSyncSeatToTitle_DerivesTitleFromSeat(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	m := store.addMember(orgID, nil)

	err := NewEngine(store).SyncSeatToTitle(ctx, m.ID, term.ID, orgID, models.RoleTreasurer, models.MemberTypeAsil)
	require.NoError(t, err)
	require.NotNil(t, m.Title)
	assert.Equal(t, models.TitleSayman, *m.Title)
}

func TestSyncSeatToTitle_YedekSeatYieldsYedekTitle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardAudit)
	term := store.addTerm(board.ID, true)
	m := store.addMember(orgID, nil)

	err := NewEngine(store).SyncSeatToTitle(ctx, m.ID, term.ID, orgID, models.RoleSupervisor, models.MemberTypeYedek)
	require.NoError(t, err)
	require.NotNil(t, m.Title)
	assert.Equal(t, models.TitleDenetimKuruluYedek, *m.Title)
}

func TestSyncSeatToTitle_InactiveTermDoesNotDriveTitle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, false)
	m := store.addMember(orgID, titlePtr(models.TitleUye))

	err := NewEngine(store).SyncSeatToTitle(ctx, m.ID, term.ID, orgID, models.RolePresident, models.MemberTypeAsil)
	require.NoError(t, err)
	require.NotNil(t, m.Title)
	assert.Equal(t, models.TitleUye, *m.Title)
}

func TestSyncSeatToTitle_TermOrgMismatchFatal(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	m := store.addMember(orgID, nil)
	engine := NewEngine(store)

	err := engine.SyncSeatToTitle(ctx, m.ID, term.ID, uuid.New(), models.RolePresident, models.MemberTypeAsil)
	assert.ErrorIs(t, err, ErrTermOrgMismatch)

	err = engine.SyncSeatToTitle(ctx, m.ID, uuid.New(), orgID, models.RolePresident, models.MemberTypeAsil)
	assert.ErrorIs(t, err, ErrTermOrgMismatch)
}

func TestSyncSeatRemoval_ResetsBoardDerivedTitle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	m := store.addMember(orgID, titlePtr(models.TitleBaskan))
	require.NoError(t, store.UpsertSeat(ctx, term.ID, m.ID, models.RolePresident, models.MemberTypeAsil))

	err := NewEngine(store).SyncSeatRemoval(ctx, m.ID, term.ID, orgID)
	require.NoError(t, err)
	require.NotNil(t, m.Title)
	assert.Equal(t, models.TitleUye, *m.Title)
}

func TestSyncSeatRemoval_LeavesNonBoardTitleUntouched(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	term := store.addTerm(board.ID, true)
	m := store.addMember(orgID, nil)

	err := NewEngine(store).SyncSeatRemoval(ctx, m.ID, term.ID, orgID)
	require.NoError(t, err)
	assert.Nil(t, m.Title)
}

func TestSyncSeatRemoval_FallsBackToRemainingActiveSeat(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	exec := store.addBoard(orgID, models.BoardExecutive)
	audit := store.addBoard(orgID, models.BoardAudit)
	execTerm := store.addTerm(exec.ID, true)
	auditTerm := store.addTerm(audit.ID, true)
	m := store.addMember(orgID, titlePtr(models.TitleBaskan))
	require.NoError(t, store.UpsertSeat(ctx, execTerm.ID, m.ID, models.RolePresident, models.MemberTypeAsil))
	require.NoError(t, store.UpsertSeat(ctx, auditTerm.ID, m.ID, models.RoleMember, models.MemberTypeAsil))

	// Removing the executive seat re-derives from the remaining audit seat.
	err := NewEngine(store).SyncSeatRemoval(ctx, m.ID, execTerm.ID, orgID)
	require.NoError(t, err)
	require.NotNil(t, m.Title)
	assert.Equal(t, models.TitleDenetimKuruluAsil, *m.Title)
}

func TestSyncSeatRemoval_PrefersExecutiveFallback(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	exec := store.addBoard(orgID, models.BoardExecutive)
	audit := store.addBoard(orgID, models.BoardAudit)
	execTerm := store.addTerm(exec.ID, true)
	auditTerm := store.addTerm(audit.ID, true)
	removed := store.addTerm(exec.ID, true) // seat being deleted lives here
	m := store.addMember(orgID, titlePtr(models.TitleBaskan))
	require.NoError(t, store.UpsertSeat(ctx, removed.ID, m.ID, models.RolePresident, models.MemberTypeAsil))
	require.NoError(t, store.UpsertSeat(ctx, auditTerm.ID, m.ID, models.RoleSupervisor, models.MemberTypeAsil))
	require.NoError(t, store.UpsertSeat(ctx, execTerm.ID, m.ID, models.RoleSecretary, models.MemberTypeAsil))

	err := NewEngine(store).SyncSeatRemoval(ctx, m.ID, removed.ID, orgID)
	require.NoError(t, err)
	require.NotNil(t, m.Title)
	assert.Equal(t, models.TitleSekreter, *m.Title)
}

func TestSyncSeatRemoval_IgnoresInactiveTermSeats(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	board := store.addBoard(orgID, models.BoardExecutive)
	active := store.addTerm(board.ID, true)
	old := store.addTerm(board.ID, false)
	m := store.addMember(orgID, titlePtr(models.TitleBaskan))
	require.NoError(t, store.UpsertSeat(ctx, active.ID, m.ID, models.RolePresident, models.MemberTypeAsil))
	require.NoError(t, store.UpsertSeat(ctx, old.ID, m.ID, models.RoleSecretary, models.MemberTypeAsil))

	// The inactive-term seat is not a fallback; the title resets to UYE.
	err := NewEngine(store).SyncSeatRemoval(ctx, m.ID, active.ID, orgID)
	require.NoError(t, err)
	require.NotNil(t, m.Title)
	assert.Equal(t, models.TitleUye, *m.Title)
}

func TestSyncSeatRemoval_MissingMemberIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	orgID := uuid.New()
	m := store.addMember(uuid.New(), titlePtr(models.TitleBaskan))

	engine := NewEngine(store)
	assert.NoError(t, engine.SyncSeatRemoval(ctx, uuid.New(), uuid.New(), orgID))
	// Organization mismatch is also a no-op, not an error.
	assert.NoError(t, engine.SyncSeatRemoval(ctx, m.ID, uuid.New(), orgID))
	require.NotNil(t, m.Title)
	assert.Equal(t, models.TitleBaskan, *m.Title)
}
