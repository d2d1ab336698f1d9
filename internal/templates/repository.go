package templates

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/pkg/database"
)

// Repository handles document template persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a templates repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// Create inserts a template.
func (r *Repository) Create(ctx context.Context, t *models.DocumentTemplate) error {
	const q = `INSERT INTO document_templates (organization_id, name, kind, body_html)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, q, t.OrganizationID, t.Name, t.Kind, t.BodyHTML).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID returns a template, or (nil, nil) if absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.DocumentTemplate, error) {
	const q = `SELECT id, organization_id, name, kind, body_html, created_at, updated_at
		FROM document_templates WHERE id = $1`
	var t models.DocumentTemplate
	err := r.db.QueryRow(ctx, q, id).Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Kind, &t.BodyHTML, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns an organization's templates (body omitted for listing weight).
func (r *Repository) List(ctx context.Context, orgID uuid.UUID) ([]models.DocumentTemplate, error) {
	const q = `SELECT id, organization_id, name, kind, created_at, updated_at
		FROM document_templates WHERE organization_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.DocumentTemplate
	for rows.Next() {
		var t models.DocumentTemplate
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Kind, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update overwrites a template.
func (r *Repository) Update(ctx context.Context, t *models.DocumentTemplate) error {
	const q = `UPDATE document_templates SET name = $2, kind = $3, body_html = $4, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, q, t.ID, t.Name, t.Kind, t.BodyHTML)
	return err
}

// Delete removes a template.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM document_templates WHERE id = $1`, id)
	return err
}
