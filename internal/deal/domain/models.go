package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
)

type Stage string

const (
	StageProspecting   Stage = "PROSPECTING"
	StageQualification Stage = "QUALIFICATION"
	StageProposal      Stage = "PROPOSAL"
	StageNegotiation   Stage = "NEGOTIATION"
	StageClosedWon     Stage = "CLOSED_WON"
	StageClosedLost    Stage = "CLOSED_LOST"
)

func (s Stage) Valid() bool {
	switch s {
	case StageProspecting, StageQualification, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusOpen Status = "OPEN"
	StatusWon  Status = "WON"
	StatusLost Status = "LOST"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusWon, StatusLost:
		return true
	default:
		return false
	}
}

type Deal struct {
	ID          snowflake.ID           `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID           `gorm:"not null;index" json:"tenant_id"`
	Title       string                 `gorm:"not null" json:"title"`
	Value       float64                `gorm:"not null;default:0" json:"value"`
	Currency    string                 `gorm:"not null;default:USD" json:"currency"`
	Stage       Stage                  `gorm:"not null;default:PROSPECTING" json:"stage"`
	Status      Status                 `gorm:"not null;default:OPEN" json:"status"`
	Probability int                    `gorm:"not null;default:0" json:"probability"`
	CloseDate   *time.Time             `json:"close_date,omitempty"`
	OwnerID     snowflake.ID           `gorm:"not null;index" json:"owner_id"`
	Owner       *authdomain.User       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CompanyID   *snowflake.ID          `gorm:"index" json:"company_id,omitempty"`
	Company     *companydomain.Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	ContactID   *snowflake.ID          `gorm:"index" json:"contact_id,omitempty"`
	Contact     *contactdomain.Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	CreatedAt   time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
