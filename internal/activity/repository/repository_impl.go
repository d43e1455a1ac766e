package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/activity/domain"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, activity *domain.Activity) error {
	return db.WithContext(ctx).Create(activity).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Activity, error) {
	var activity domain.Activity
	err := db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("Company").
		Preload("Contact").
		Preload("Deal").
		First(&activity, "activities.tenant_id = ? AND activities.id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListActivityFilter, page pagination.Params) ([]domain.Activity, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Activity{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.AssignedToID != nil {
		stmt = stmt.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.CompanyID != nil {
		stmt = stmt.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.ContactID != nil {
		stmt = stmt.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.DealID != nil {
		stmt = stmt.Where("deal_id = ?", *filter.DealID)
	}
	if filter.Overdue {
		stmt = stmt.Where("due_date < ? AND status IN ?", filter.Now,
			[]domain.Status{domain.StatusPlanned, domain.StatusInProgress})
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []domain.Activity
	err := page.Apply(stmt).
		Preload("AssignedTo").
		Preload("Company").
		Preload("Contact").
		Preload("Deal").
		Order("due_date ASC").
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

func (r *repo) Upcoming(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.UpcomingFilter) ([]domain.Activity, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Activity{}).
		Where("tenant_id = ?", tenantID).
		Where("due_date >= ? AND due_date <= ?", filter.From, filter.To).
		Where("status IN ?", []domain.Status{domain.StatusPlanned, domain.StatusInProgress})

	if filter.AssignedToID != nil {
		stmt = stmt.Where("assigned_to_id = ?", *filter.AssignedToID)
	}

	var activities []domain.Activity
	err := stmt.
		Preload("AssignedTo").
		Preload("Company").
		Preload("Contact").
		Preload("Deal").
		Order("due_date ASC").
		Limit(filter.Limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, activity *domain.Activity) error {
	return db.WithContext(ctx).
		Where("tenant_id = ?", activity.TenantID).
		Save(activity).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Activity{}).Error
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.StatsFilter) (*domain.Stats, error) {
	base := func() *gorm.DB {
		stmt := db.WithContext(ctx).Model(&domain.Activity{}).Where("tenant_id = ?", tenantID)
		if filter.AssignedToID != nil {
			stmt = stmt.Where("assigned_to_id = ?", *filter.AssignedToID)
		}
		return stmt
	}

	stats := &domain.Stats{ByType: map[domain.Type]int64{}}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusPlanned).Count(&stats.Planned).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusInProgress).Count(&stats.InProgress).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusCompleted).Count(&stats.Completed).Error; err != nil {
		return nil, err
	}
	if err := base().
		Where("due_date < ? AND status IN ?", filter.Now,
			[]domain.Status{domain.StatusPlanned, domain.StatusInProgress}).
		Count(&stats.Overdue).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Type  domain.Type
		Count int64
	}
	if err := base().
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByType[row.Type] = row.Count
	}

	return stats, nil
}
