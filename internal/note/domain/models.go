package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/relaycrm/internal/auth/domain"
	companydomain "github.com/smallbiznis/relaycrm/internal/company/domain"
	contactdomain "github.com/smallbiznis/relaycrm/internal/contact/domain"
	dealdomain "github.com/smallbiznis/relaycrm/internal/deal/domain"
)

type Note struct {
	ID        snowflake.ID           `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID           `gorm:"not null;index" json:"tenant_id"`
	Content   string                 `gorm:"not null" json:"content"`
	AuthorID  snowflake.ID           `gorm:"not null;index" json:"author_id"`
	Author    *authdomain.User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CompanyID *snowflake.ID          `gorm:"index" json:"company_id,omitempty"`
	Company   *companydomain.Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	ContactID *snowflake.ID          `gorm:"index" json:"contact_id,omitempty"`
	Contact   *contactdomain.Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	DealID    *snowflake.ID          `gorm:"index" json:"deal_id,omitempty"`
	Deal      *dealdomain.Deal       `gorm:"foreignKey:DealID" json:"deal,omitempty"`
	CreatedAt time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
