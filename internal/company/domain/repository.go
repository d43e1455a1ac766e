package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListCompanyFilter struct {
	Search   string
	Status   Status
	Industry string
	Size     Size
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, company *Company) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Company, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListCompanyFilter, page pagination.Params) ([]Company, int64, error)
	Update(ctx context.Context, db *gorm.DB, company *Company) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*Stats, error)
}
