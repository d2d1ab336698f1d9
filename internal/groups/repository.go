package groups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/pkg/database"
)

// Repository handles group and member_group persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a groups repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// Create creates a group.
func (r *Repository) Create(ctx context.Context, g *models.Group) error {
	const q = `INSERT INTO groups (organization_id, name, description)
		VALUES ($1, $2, NULLIF($3,''))
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, q, g.OrganizationID, g.Name, g.Description).Scan(&g.ID, &g.CreatedAt)
}

// GetByID returns a group, or (nil, nil) if absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	const q = `SELECT id, organization_id, name, COALESCE(description,''), created_at FROM groups WHERE id = $1`
	var g models.Group
	err := r.db.QueryRow(ctx, q, id).Scan(&g.ID, &g.OrganizationID, &g.Name, &g.Description, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns an organization's groups with member counts.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.Group, error) {
	const q = `SELECT g.id, g.organization_id, g.name, COALESCE(g.description,''),
		COUNT(mg.member_id), g.created_at
		FROM groups g
		LEFT JOIN member_groups mg ON mg.group_id = g.id
		WHERE g.organization_id = $1
		GROUP BY g.id
		ORDER BY g.name`
	rows, err := r.db.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.OrganizationID, &g.Name, &g.Description, &g.MemberCount, &g.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// Update renames a group.
func (r *Repository) Update(ctx context.Context, g *models.Group) error {
	_, err := r.db.Exec(ctx, `UPDATE groups SET name = $2, description = NULLIF($3,'') WHERE id = $1`,
		g.ID, g.Name, g.Description)
	return err
}

// Delete removes a group; member links cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}

// AddMember links a member to a group (idempotent).
func (r *Repository) AddMember(ctx context.Context, groupID, memberID uuid.UUID) error {
	const q = `INSERT INTO member_groups (member_id, group_id) VALUES ($1, $2)
		ON CONFLICT (member_id, group_id) DO NOTHING`
	_, err := r.db.Exec(ctx, q, memberID, groupID)
	return err
}

// RemoveMember unlinks a member from a group.
func (r *Repository) RemoveMember(ctx context.Context, groupID, memberID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM member_groups WHERE member_id = $1 AND group_id = $2`, memberID, groupID)
	return err
}

// ListGroupsForMember returns the groups a member belongs to.
func (r *Repository) ListGroupsForMember(ctx context.Context, memberID uuid.UUID) ([]models.Group, error) {
	const q = `SELECT g.id, g.organization_id, g.name, COALESCE(g.description,''), g.created_at
		FROM groups g
		INNER JOIN member_groups mg ON mg.group_id = g.id
		WHERE mg.member_id = $1
		ORDER BY g.name`
	rows, err := r.db.Query(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.OrganizationID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// ListMemberIDs returns the member IDs in a group.
func (r *Repository) ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT member_id FROM member_groups WHERE group_id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
