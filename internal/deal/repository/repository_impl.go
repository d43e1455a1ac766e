package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/deal/domain"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, deal *domain.Deal) error {
	return db.WithContext(ctx).Create(deal).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Deal, error) {
	var deal domain.Deal
	err := db.WithContext(ctx).
		Preload("Owner").
		Preload("Company").
		Preload("Contact").
		First(&deal, "deals.tenant_id = ? AND deals.id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListDealFilter, page pagination.Params) ([]domain.Deal, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		stmt = stmt.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.Stage != "" {
		stmt = stmt.Where("stage = ?", filter.Stage)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.OwnerID != nil {
		stmt = stmt.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.CompanyID != nil {
		stmt = stmt.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.ContactID != nil {
		stmt = stmt.Where("contact_id = ?", *filter.ContactID)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deals []domain.Deal
	err := page.Apply(stmt).
		Preload("Owner").
		Preload("Company").
		Preload("Contact").
		Order("created_at DESC, id DESC").
		Find(&deals).Error
	if err != nil {
		return nil, 0, err
	}
	return deals, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, deal *domain.Deal) error {
	return db.WithContext(ctx).
		Where("tenant_id = ?", deal.TenantID).
		Save(deal).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Deal{}).Error
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*domain.Stats, error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.Deal{}).Where("tenant_id = ?", tenantID)
	}

	stats := &domain.Stats{ByStage: map[domain.Stage]domain.StageStats{}}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusOpen).Count(&stats.Open).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusWon).Count(&stats.Won).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusLost).Count(&stats.Lost).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Stage domain.Stage
		Count int64
		Value float64
	}
	if err := base().
		Select("stage, COUNT(*) AS count, COALESCE(SUM(value), 0) AS value").
		Group("stage").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStage[row.Stage] = domain.StageStats{Count: row.Count, Value: row.Value}
		stats.TotalValue += row.Value
	}
	if stats.Total > 0 {
		stats.AvgValue = stats.TotalValue / float64(stats.Total)
	}

	return stats, nil
}

func (r *repo) Pipeline(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]domain.PipelineEntry, error) {
	var entries []domain.PipelineEntry
	err := db.WithContext(ctx).
		Model(&domain.Deal{}).
		Select("stage, COUNT(*) AS count, COALESCE(SUM(value), 0) AS value").
		Where("tenant_id = ? AND status = ?", tenantID, domain.StatusOpen).
		Group("stage").
		Order("stage ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
