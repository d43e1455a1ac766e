package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListActivityFilter struct {
	Search       string
	Type         Type
	Status       Status
	AssignedToID *snowflake.ID
	CompanyID    *snowflake.ID
	ContactID    *snowflake.ID
	DealID       *snowflake.ID
	Overdue      bool
	Now          time.Time
}

type UpcomingFilter struct {
	From         time.Time
	To           time.Time
	AssignedToID *snowflake.ID
	Limit        int
}

type StatsFilter struct {
	AssignedToID *snowflake.ID
	Now          time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, activity *Activity) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Activity, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListActivityFilter, page pagination.Params) ([]Activity, int64, error)
	Upcoming(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter UpcomingFilter) ([]Activity, error)
	Update(ctx context.Context, db *gorm.DB, activity *Activity) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter StatsFilter) (*Stats, error)
}
