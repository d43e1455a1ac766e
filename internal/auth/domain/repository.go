package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	// FindByEmail searches across all tenants; login happens before the
	// caller's tenant is known.
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindByEmailInTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, email string) (*User, error)
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*User, error)
}
