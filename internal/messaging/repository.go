package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/pkg/database"
)

// Repository handles campaign and message log persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a messaging repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

// CreateCampaign inserts a campaign in PENDING state.
func (r *Repository) CreateCampaign(ctx context.Context, cp *models.Campaign) error {
	const q = `INSERT INTO campaigns (organization_id, channel, subject, body, status, total_count)
		VALUES ($1, $2, NULLIF($3,''), $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, q, cp.OrganizationID, string(cp.Channel), cp.Subject, cp.Body, cp.Status, cp.TotalCount).
		Scan(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
}

// GetCampaign returns a campaign, or (nil, nil) if absent.
func (r *Repository) GetCampaign(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	const q = `SELECT id, organization_id, channel, COALESCE(subject,''), body, status,
		total_count, sent_count, failed_count, created_at, updated_at
		FROM campaigns WHERE id = $1`
	var cp models.Campaign
	err := r.db.QueryRow(ctx, q, id).Scan(&cp.ID, &cp.OrganizationID, &cp.Channel, &cp.Subject, &cp.Body,
		&cp.Status, &cp.TotalCount, &cp.SentCount, &cp.FailedCount, &cp.CreatedAt, &cp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// ListCampaigns returns an organization's campaigns, newest first.
func (r *Repository) ListCampaigns(ctx context.Context, orgID uuid.UUID) ([]models.Campaign, error) {
	const q = `SELECT id, organization_id, channel, COALESCE(subject,''), body, status,
		total_count, sent_count, failed_count, created_at, updated_at
		FROM campaigns WHERE organization_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Campaign
	for rows.Next() {
		var cp models.Campaign
		if err := rows.Scan(&cp.ID, &cp.OrganizationID, &cp.Channel, &cp.Subject, &cp.Body,
			&cp.Status, &cp.TotalCount, &cp.SentCount, &cp.FailedCount, &cp.CreatedAt, &cp.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, cp)
	}
	return list, rows.Err()
}

// UpdateCampaignStatus moves a campaign between states.
func (r *Repository) UpdateCampaignStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE campaigns SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

// FinishCampaign records final counters and status after dispatch.
func (r *Repository) FinishCampaign(ctx context.Context, id uuid.UUID, sent, failed int, status string) error {
	const q = `UPDATE campaigns SET sent_count = $2, failed_count = $3, status = $4, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id, sent, failed, status)
	return err
}

// CreateLog inserts a PENDING message log for one recipient.
func (r *Repository) CreateLog(ctx context.Context, l *models.MessageLog) error {
	const q = `INSERT INTO message_logs (campaign_id, member_id, recipient, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, q, l.CampaignID, l.MemberID, l.Recipient, l.Status).Scan(&l.ID, &l.CreatedAt)
}

// ListLogs returns a campaign's message logs.
func (r *Repository) ListLogs(ctx context.Context, campaignID uuid.UUID) ([]models.MessageLog, error) {
	const q = `SELECT id, campaign_id, member_id, recipient, status, COALESCE(error_message,''), sent_at, created_at
		FROM message_logs WHERE campaign_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, q, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.MessageLog
	for rows.Next() {
		var l models.MessageLog
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.MemberID, &l.Recipient, &l.Status, &l.ErrorMessage, &l.SentAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// ListPendingLogs returns the logs still awaiting dispatch.
func (r *Repository) ListPendingLogs(ctx context.Context, campaignID uuid.UUID) ([]models.MessageLog, error) {
	const q = `SELECT id, campaign_id, member_id, recipient, status, COALESCE(error_message,''), sent_at, created_at
		FROM message_logs WHERE campaign_id = $1 AND status = $2 ORDER BY created_at`
	rows, err := r.db.Query(ctx, q, campaignID, models.MessagePending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.MessageLog
	for rows.Next() {
		var l models.MessageLog
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.MemberID, &l.Recipient, &l.Status, &l.ErrorMessage, &l.SentAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// MarkLogSent records a successful delivery.
func (r *Repository) MarkLogSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE message_logs SET status = $2, sent_at = $3 WHERE id = $1`,
		id, models.MessageSent, sentAt)
	return err
}

// MarkLogFailed records a delivery failure.
func (r *Repository) MarkLogFailed(ctx context.Context, id uuid.UUID, msg string) error {
	_, err := r.db.Exec(ctx, `UPDATE message_logs SET status = $2, error_message = NULLIF($3,'') WHERE id = $1`,
		id, models.MessageFailed, msg)
	return err
}

// Recipient is a resolved campaign recipient with a usable address.
type Recipient struct {
	MemberID  uuid.UUID
	FirstName string
	LastName  string
	Address   string // email or phone, per channel
}

// ListRecipients resolves the recipient set for a campaign: all members of
// the organization, one group, or an explicit ID list. Members without an
// address for the channel are skipped.
func (r *Repository) ListRecipients(ctx context.Context, orgID uuid.UUID, channel models.CampaignChannel, groupID *uuid.UUID, memberIDs []uuid.UUID) ([]Recipient, error) {
	addressCol := "m.email"
	if channel == models.ChannelSMS {
		addressCol = "m.phone"
	}
	q := `SELECT DISTINCT m.id, m.first_name, m.last_name, ` + addressCol + `
		FROM members m
		LEFT JOIN member_groups mg ON mg.member_id = m.id
		WHERE m.organization_id = $1
		  AND ` + addressCol + ` IS NOT NULL AND ` + addressCol + ` <> ''
		  AND ($2::uuid IS NULL OR mg.group_id = $2)
		  AND (cardinality($3::uuid[]) = 0 OR m.id = ANY($3))
		ORDER BY m.last_name, m.first_name`
	if memberIDs == nil {
		memberIDs = []uuid.UUID{}
	}
	rows, err := r.db.Query(ctx, q, orgID, groupID, memberIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Recipient
	for rows.Next() {
		var rec Recipient
		if err := rows.Scan(&rec.MemberID, &rec.FirstName, &rec.LastName, &rec.Address); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
