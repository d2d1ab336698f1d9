package finance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/pkg/database"
)

// Repository handles due periods, charges and payments.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a finance repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// UpsertDuePeriod sets the yearly dues amount for an organization.
func (r *Repository) UpsertDuePeriod(ctx context.Context, p *models.DuePeriod) error {
	const q = `INSERT INTO due_periods (organization_id, year, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (organization_id, year) DO UPDATE SET amount = EXCLUDED.amount
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, q, p.OrganizationID, p.Year, p.Amount).Scan(&p.ID, &p.CreatedAt)
}

// ListDuePeriods returns an organization's dues configuration, newest year first.
func (r *Repository) ListDuePeriods(ctx context.Context, orgID uuid.UUID) ([]models.DuePeriod, error) {
	const q = `SELECT id, organization_id, year, amount, created_at
		FROM due_periods WHERE organization_id = $1 ORDER BY year DESC`
	rows, err := r.db.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.DuePeriod
	for rows.Next() {
		var p models.DuePeriod
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.Year, &p.Amount, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CreateCharge records an amount owed by a member.
func (r *Repository) CreateCharge(ctx context.Context, ch *models.Charge) error {
	const q = `INSERT INTO charges (organization_id, member_id, kind, description, amount, due_date)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, $6)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, q, ch.OrganizationID, ch.MemberID, string(ch.Kind), ch.Description, ch.Amount, ch.DueDate).
		Scan(&ch.ID, &ch.CreatedAt)
}

// GetCharge returns a charge, or (nil, nil) if absent.
func (r *Repository) GetCharge(ctx context.Context, id uuid.UUID) (*models.Charge, error) {
	const q = `SELECT id, organization_id, member_id, kind, COALESCE(description,''), amount, due_date, created_at
		FROM charges WHERE id = $1`
	var ch models.Charge
	err := r.db.QueryRow(ctx, q, id).Scan(&ch.ID, &ch.OrganizationID, &ch.MemberID, &ch.Kind, &ch.Description, &ch.Amount, &ch.DueDate, &ch.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// ListChargesByMember returns a member's charges, newest first.
func (r *Repository) ListChargesByMember(ctx context.Context, memberID uuid.UUID) ([]models.Charge, error) {
	const q = `SELECT id, organization_id, member_id, kind, COALESCE(description,''), amount, due_date, created_at
		FROM charges WHERE member_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Charge
	for rows.Next() {
		var ch models.Charge
		if err := rows.Scan(&ch.ID, &ch.OrganizationID, &ch.MemberID, &ch.Kind, &ch.Description, &ch.Amount, &ch.DueDate, &ch.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, ch)
	}
	return list, rows.Err()
}

// CreatePayment records a payment against a charge.
func (r *Repository) CreatePayment(ctx context.Context, p *models.Payment) error {
	const q = `INSERT INTO payments (charge_id, amount, method, paid_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, q, p.ChargeID, p.Amount, p.Method, p.PaidAt).Scan(&p.ID, &p.CreatedAt)
}

// ListPaymentsByCharge returns payments against a charge.
func (r *Repository) ListPaymentsByCharge(ctx context.Context, chargeID uuid.UUID) ([]models.Payment, error) {
	const q = `SELECT id, charge_id, amount, method, paid_at, created_at
		FROM payments WHERE charge_id = $1 ORDER BY paid_at`
	rows, err := r.db.Query(ctx, q, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.ChargeID, &p.Amount, &p.Method, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetMemberBalance computes charged vs paid totals for one member.
func (r *Repository) GetMemberBalance(ctx context.Context, memberID uuid.UUID) (*models.MemberBalance, error) {
	const q = `SELECT
		COALESCE(SUM(c.amount), 0),
		COALESCE((SELECT SUM(p.amount) FROM payments p
			INNER JOIN charges c2 ON c2.id = p.charge_id
			WHERE c2.member_id = $1), 0)
		FROM charges c WHERE c.member_id = $1`
	var b models.MemberBalance
	b.MemberID = memberID
	if err := r.db.QueryRow(ctx, q, memberID).Scan(&b.TotalCharged, &b.TotalPaid); err != nil {
		return nil, err
	}
	b.Balance = b.TotalCharged - b.TotalPaid
	return &b, nil
}
