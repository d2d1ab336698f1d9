package models

import (
	"time"

	"github.com/google/uuid"
)

// CampaignChannel is the delivery channel of a bulk campaign.
type CampaignChannel string

const (
	ChannelEmail CampaignChannel = "EMAIL"
	ChannelSMS   CampaignChannel = "SMS"
)

// Campaign statuses.
const (
	CampaignPending   = "PENDING"
	CampaignSending   = "SENDING"
	CampaignCompleted = "COMPLETED"
	CampaignFailed    = "FAILED"
)

// Message log statuses.
const (
	MessagePending = "PENDING"
	MessageSent    = "SENT"
	MessageFailed  = "FAILED"
)

// Campaign is a bulk email/SMS send to a recipient set, dispatched
// asynchronously by the worker.
type Campaign struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Channel        CampaignChannel `json:"channel"`
	Subject        string          `json:"subject,omitempty"`
	Body           string          `json:"body"`
	Status         string          `json:"status"`
	TotalCount     int             `json:"total_count"`
	SentCount      int             `json:"sent_count"`
	FailedCount    int             `json:"failed_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MessageLog records the delivery outcome for one campaign recipient.
type MessageLog struct {
	ID           uuid.UUID  `json:"id"`
	CampaignID   uuid.UUID  `json:"campaign_id"`
	MemberID     uuid.UUID  `json:"member_id"`
	Recipient    string     `json:"recipient"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
