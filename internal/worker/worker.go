package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dernekos/backend/internal/members"
	"github.com/dernekos/backend/internal/messaging"
	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/pkg/queue"
)

// CampaignProcessor processes campaign dispatch jobs: fan out the campaign
// body to every PENDING recipient log, personalize, send, record outcomes.
type CampaignProcessor struct {
	msgRepo    *messaging.Repository
	memberRepo *members.Repository
	emails     Sender
	sms        Sender
	queue      *queue.Queue
	logger     *zap.Logger
}

// NewCampaignProcessor creates a campaign dispatch processor.
func NewCampaignProcessor(msgRepo *messaging.Repository, memberRepo *members.Repository, emails, sms Sender, q *queue.Queue, logger *zap.Logger) *CampaignProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignProcessor{msgRepo: msgRepo, memberRepo: memberRepo, emails: emails, sms: sms, queue: q, logger: logger}
}

// Process executes one campaign dispatch job. Re-running a job is safe:
// only logs still in PENDING are attempted.
func (p *CampaignProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeCampaignDispatch {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.CampaignDispatchPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	cp, err := p.msgRepo.GetCampaign(ctx, payload.CampaignID)
	if err != nil || cp == nil {
		return fmt.Errorf("campaign not found: %s", payload.CampaignID)
	}
	if cp.Status == models.CampaignCompleted {
		p.logger.Info("campaign already completed", zap.String("campaign_id", cp.ID.String()))
		return nil
	}

	if err := p.msgRepo.UpdateCampaignStatus(ctx, cp.ID, models.CampaignSending); err != nil {
		return fmt.Errorf("mark sending: %w", err)
	}

	logs, err := p.msgRepo.ListPendingLogs(ctx, cp.ID)
	if err != nil {
		return fmt.Errorf("load pending logs: %w", err)
	}

	sender := p.emails
	if cp.Channel == models.ChannelSMS {
		sender = p.sms
	}

	sent := cp.SentCount
	failed := cp.FailedCount
	for _, l := range logs {
		body := cp.Body
		if m, err := p.memberRepo.GetByID(ctx, l.MemberID); err == nil && m != nil {
			body = personalize(cp.Body, m)
		}
		if err := sender.Send(ctx, l.Recipient, cp.Subject, body); err != nil {
			failed++
			p.logger.Warn("delivery failed",
				zap.String("campaign_id", cp.ID.String()),
				zap.String("recipient", l.Recipient),
				zap.Error(err))
			if dbErr := p.msgRepo.MarkLogFailed(ctx, l.ID, err.Error()); dbErr != nil {
				p.logger.Error("mark log failed", zap.Error(dbErr))
			}
			continue
		}
		sent++
		if dbErr := p.msgRepo.MarkLogSent(ctx, l.ID, time.Now()); dbErr != nil {
			p.logger.Error("mark log sent", zap.Error(dbErr))
		}
	}

	status := models.CampaignCompleted
	if sent == 0 && failed > 0 {
		status = models.CampaignFailed
	}
	if err := p.msgRepo.FinishCampaign(ctx, cp.ID, sent, failed, status); err != nil {
		return fmt.Errorf("finish campaign: %w", err)
	}

	p.logger.Info("campaign dispatched",
		zap.String("campaign_id", cp.ID.String()),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
		zap.String("status", status))
	return nil
}

// personalize substitutes the {{ad}}, {{soyad}} and {{ad_soyad}} placeholders
// with the recipient's name.
func personalize(body string, m *models.Member) string {
	return strings.NewReplacer(
		"{{ad}}", m.FirstName,
		"{{soyad}}", m.LastName,
		"{{ad_soyad}}", m.FullName(),
	).Replace(body)
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *CampaignProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("campaign worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
