package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusProspect Status = "PROSPECT"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusProspect:
		return true
	default:
		return false
	}
}

type Contact struct {
	ID        snowflake.ID           `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID           `gorm:"not null;index" json:"tenant_id"`
	FirstName string                 `gorm:"not null" json:"first_name"`
	LastName  string                 `gorm:"not null" json:"last_name"`
	Email     string                 `json:"email,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Position  string                 `json:"position,omitempty"`
	Status    Status                 `gorm:"not null;default:ACTIVE" json:"status"`
	CompanyID *snowflake.ID          `gorm:"index" json:"company_id,omitempty"`
	Company   *companydomain.Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CreatedAt time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
