package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/company/domain"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Create(company).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).First(&company, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListCompanyFilter, page pagination.Params) ([]domain.Company, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(industry) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
			like, like, like,
		)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Industry != "" {
		stmt = stmt.Where("industry = ?", filter.Industry)
	}
	if filter.Size != "" {
		stmt = stmt.Where("size = ?", filter.Size)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []domain.Company
	err := page.Apply(stmt).
		Order("created_at DESC, id DESC").
		Find(&companies).Error
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).
		Where("tenant_id = ?", company.TenantID).
		Save(company).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Company{}).Error
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*domain.Stats, error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.Company{}).Where("tenant_id = ?", tenantID)
	}

	stats := &domain.Stats{BySize: map[string]int64{}}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusActive).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusProspect).Count(&stats.Prospects).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Size  string
		Count int64
	}
	if err := base().
		Select("size, COUNT(*) AS count").
		Group("size").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		size := row.Size
		if size == "" {
			size = "UNKNOWN"
		}
		stats.BySize[size] = row.Count
	}

	return stats, nil
}
