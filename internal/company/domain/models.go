package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Size string

const (
	SizeStartup    Size = "STARTUP"
	SizeSmall      Size = "SMALL"
	SizeMedium     Size = "MEDIUM"
	SizeLarge      Size = "LARGE"
	SizeEnterprise Size = "ENTERPRISE"
)

func (s Size) Valid() bool {
	switch s {
	case SizeStartup, SizeSmall, SizeMedium, SizeLarge, SizeEnterprise:
		return true
	default:
		return false
	}
}

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

type Company struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Name      string       `gorm:"not null" json:"name"`
	Industry  string       `json:"industry,omitempty"`
	Website   string       `json:"website,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Email     string       `json:"email,omitempty"`
	Address   string       `json:"address,omitempty"`
	Size      Size         `json:"size,omitempty"`
	Status    Status       `gorm:"not null;default:ACTIVE" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
