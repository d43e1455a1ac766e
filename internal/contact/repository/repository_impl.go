package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/contact/domain"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, contact *domain.Contact) error {
	return db.WithContext(ctx).Create(contact).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Contact, error) {
	var contact domain.Contact
	err := db.WithContext(ctx).
		Preload("Company").
		First(&contact, "contacts.tenant_id = ? AND contacts.id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListContactFilter, page pagination.Params) ([]domain.Contact, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where(
			"LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(position) LIKE LOWER(?)",
			like, like, like, like,
		)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CompanyID != nil {
		stmt = stmt.Where("company_id = ?", *filter.CompanyID)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []domain.Contact
	err := page.Apply(stmt).
		Preload("Company").
		Order("created_at DESC, id DESC").
		Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, contact *domain.Contact) error {
	return db.WithContext(ctx).
		Where("tenant_id = ?", contact.TenantID).
		Save(contact).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Contact{}).Error
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*domain.Stats, error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.Contact{}).Where("tenant_id = ?", tenantID)
	}

	stats := &domain.Stats{}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusActive).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", domain.StatusProspect).Count(&stats.Prospects).Error; err != nil {
		return nil, err
	}
	if err := base().Where("company_id IS NOT NULL").Count(&stats.WithCompany).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
