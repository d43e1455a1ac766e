package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListNoteFilter struct {
	Search    string
	AuthorID  *snowflake.ID
	CompanyID *snowflake.ID
	ContactID *snowflake.ID
	DealID    *snowflake.ID
}

type StatsFilter struct {
	AuthorID *snowflake.ID
	Since    time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, note *Note) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Note, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListNoteFilter, page pagination.Params) ([]Note, int64, error)
	Update(ctx context.Context, db *gorm.DB, note *Note) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter StatsFilter) (*Stats, error)
}
