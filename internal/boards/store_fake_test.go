package boards

import (
	"context"

	"github.com/google/uuid"

	"github.com/dernekos/backend/internal/models"
)

// fakeStore is an in-memory Store for engine and uniqueness tests.
type fakeStore struct {
	members map[uuid.UUID]*models.Member
	boards  []*models.Board
	terms   []*models.BoardTerm
	seats   []Seat
}

func newFakeStore() *fakeStore {
	return &fakeStore{members: make(map[uuid.UUID]*models.Member)}
}

func (f *fakeStore) addMember(orgID uuid.UUID, title *models.MemberTitle) *models.Member {
	m := &models.Member{ID: uuid.New(), OrganizationID: orgID, FirstName: "Test", LastName: "Üye", Title: title}
	f.members[m.ID] = m
	return m
}

func (f *fakeStore) addBoard(orgID uuid.UUID, bt models.BoardType) *models.Board {
	b := &models.Board{ID: uuid.New(), OrganizationID: orgID, Type: bt}
	f.boards = append(f.boards, b)
	return b
}

func (f *fakeStore) addTerm(boardID uuid.UUID, active bool) *models.BoardTerm {
	t := &models.BoardTerm{ID: uuid.New(), BoardID: boardID, IsActive: active}
	f.terms = append(f.terms, t)
	return t
}

func (f *fakeStore) boardByID(id uuid.UUID) *models.Board {
	for _, b := range f.boards {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *fakeStore) GetMember(_ context.Context, memberID uuid.UUID) (*models.Member, error) {
	return f.members[memberID], nil
}

func (f *fakeStore) UpdateMemberTitle(_ context.Context, memberID uuid.UUID, title *models.MemberTitle) error {
	if m, ok := f.members[memberID]; ok {
		m.Title = title
	}
	return nil
}

func (f *fakeStore) FindMemberByTitle(_ context.Context, orgID uuid.UUID, title models.MemberTitle, excludeMemberID *uuid.UUID) (*ConflictingMember, error) {
	for _, m := range f.members {
		if m.OrganizationID != orgID || m.Title == nil || *m.Title != title {
			continue
		}
		if excludeMemberID != nil && m.ID == *excludeMemberID {
			continue
		}
		return &ConflictingMember{ID: m.ID, FullName: m.FullName(), Title: m.Title}, nil
	}
	return nil, nil
}

func (f *fakeStore) GetBoardByType(_ context.Context, orgID uuid.UUID, boardType models.BoardType) (*models.Board, error) {
	for _, b := range f.boards {
		if b.OrganizationID == orgID && b.Type == boardType {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetActiveTerm(_ context.Context, boardID uuid.UUID) (*models.BoardTerm, error) {
	for _, t := range f.terms {
		if t.BoardID == boardID && t.IsActive {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetTermWithBoard(_ context.Context, termID uuid.UUID) (*models.BoardTerm, *models.Board, error) {
	for _, t := range f.terms {
		if t.ID == termID {
			return t, f.boardByID(t.BoardID), nil
		}
	}
	return nil, nil, nil
}

func (f *fakeStore) FindSeatByRole(_ context.Context, termID uuid.UUID, role models.BoardRole, memberType models.BoardMemberType, excludeMemberID *uuid.UUID) (*ConflictingMember, error) {
	for _, s := range f.seats {
		if s.TermID != termID || s.Role != role || s.MemberType != memberType {
			continue
		}
		if excludeMemberID != nil && s.MemberID == *excludeMemberID {
			continue
		}
		m := f.members[s.MemberID]
		if m == nil {
			continue
		}
		return &ConflictingMember{ID: m.ID, FullName: m.FullName(), Title: m.Title}, nil
	}
	return nil, nil
}

func (f *fakeStore) ListSeatsForMember(_ context.Context, memberID uuid.UUID) ([]Seat, error) {
	var out []Seat
	for _, s := range f.seats {
		if s.MemberID == memberID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertSeat(_ context.Context, termID, memberID uuid.UUID, role models.BoardRole, memberType models.BoardMemberType) error {
	for i := range f.seats {
		if f.seats[i].TermID == termID && f.seats[i].MemberID == memberID {
			f.seats[i].Role = role
			f.seats[i].MemberType = memberType
			return nil
		}
	}
	var term *models.BoardTerm
	for _, t := range f.terms {
		if t.ID == termID {
			term = t
			break
		}
	}
	s := Seat{ID: uuid.New(), TermID: termID, MemberID: memberID, Role: role, MemberType: memberType}
	if term != nil {
		s.TermActive = term.IsActive
		s.BoardID = term.BoardID
		if b := f.boardByID(term.BoardID); b != nil {
			s.BoardType = b.Type
		}
	}
	f.seats = append(f.seats, s)
	return nil
}

func (f *fakeStore) DeleteSeat(_ context.Context, termID, memberID uuid.UUID) error {
	f.deleteSeatsWhere(func(s Seat) bool { return s.TermID == termID && s.MemberID == memberID })
	return nil
}

func (f *fakeStore) DeleteSeatsForMember(_ context.Context, memberID uuid.UUID) error {
	f.deleteSeatsWhere(func(s Seat) bool { return s.MemberID == memberID })
	return nil
}

func (f *fakeStore) DeleteSeatsForMemberOnOtherBoards(_ context.Context, memberID uuid.UUID, keep models.BoardType) error {
	f.deleteSeatsWhere(func(s Seat) bool { return s.MemberID == memberID && s.BoardType != keep })
	return nil
}

func (f *fakeStore) deleteSeatsWhere(match func(Seat) bool) {
	kept := f.seats[:0]
	for _, s := range f.seats {
		if !match(s) {
			kept = append(kept, s)
		}
	}
	f.seats = kept
}

func (f *fakeStore) seatFor(termID, memberID uuid.UUID) *Seat {
	for i := range f.seats {
		if f.seats[i].TermID == termID && f.seats[i].MemberID == memberID {
			return &f.seats[i]
		}
	}
	return nil
}

var _ Store = (*fakeStore)(nil)
