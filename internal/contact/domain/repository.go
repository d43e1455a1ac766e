package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListContactFilter struct {
	Search    string
	Status    Status
	CompanyID *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, contact *Contact) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Contact, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListContactFilter, page pagination.Params) ([]Contact, int64, error)
	Update(ctx context.Context, db *gorm.DB, contact *Contact) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*Stats, error)
}
