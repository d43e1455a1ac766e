package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListDealFilter struct {
	Search    string
	Stage     Stage
	Status    Status
	OwnerID   *snowflake.ID
	CompanyID *snowflake.ID
	ContactID *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, deal *Deal) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Deal, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListDealFilter, page pagination.Params) ([]Deal, int64, error)
	Update(ctx context.Context, db *gorm.DB, deal *Deal) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*Stats, error)
	Pipeline(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]PipelineEntry, error)
}
