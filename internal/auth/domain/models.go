package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/smallbiznis/relaycrm/internal/tenant/domain"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	default:
		return false
	}
}

type User struct {
	ID           snowflake.ID         `gorm:"primaryKey" json:"id"`
	TenantID     snowflake.ID         `gorm:"not null;uniqueIndex:idx_users_tenant_email" json:"tenant_id"`
	Email        string               `gorm:"not null;uniqueIndex:idx_users_tenant_email" json:"email"`
	PasswordHash string               `gorm:"not null" json:"-"`
	FirstName    string               `json:"first_name"`
	LastName     string               `json:"last_name"`
	Role         Role                 `gorm:"not null;default:USER" json:"role"`
	IsActive     bool                 `gorm:"not null;default:true" json:"is_active"`
	Tenant       *tenantdomain.Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	CreatedAt    time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
