package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
)

type Type string

const (
	TypeCall    Type = "CALL"
	TypeEmail   Type = "EMAIL"
	TypeMeeting Type = "MEETING"
	TypeTask    Type = "TASK"
	TypeNote    Type = "NOTE"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCall, TypeEmail, TypeMeeting, TypeTask, TypeNote:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

type Activity struct {
	ID           snowflake.ID           `gorm:"primaryKey" json:"id"`
	TenantID     snowflake.ID           `gorm:"not null;index" json:"tenant_id"`
	Type         Type                   `gorm:"not null" json:"type"`
	Title        string                 `gorm:"not null" json:"title"`
	Description  string                 `json:"description,omitempty"`
	Status       Status                 `gorm:"not null;default:PLANNED" json:"status"`
	DueDate      *time.Time             `gorm:"index" json:"due_date,omitempty"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
	AssignedToID snowflake.ID           `gorm:"not null;index" json:"assigned_to_id"`
	AssignedTo   *authdomain.User       `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CompanyID    *snowflake.ID          `gorm:"index" json:"company_id,omitempty"`
	Company      *companydomain.Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	ContactID    *snowflake.ID          `gorm:"index" json:"contact_id,omitempty"`
	Contact      *contactdomain.Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	DealID       *snowflake.ID          `gorm:"index" json:"deal_id,omitempty"`
	Deal         *dealdomain.Deal       `gorm:"foreignKey:DealID" json:"deal,omitempty"`
	CreatedAt    time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
