package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/relaycrm/internal/note/domain"
	"github.com/smallbiznis/relaycrm/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, note *domain.Note) error {
	return db.WithContext(ctx).Create(note).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Note, error) {
	var note domain.Note
	err := db.WithContext(ctx).
		Preload("Author").
		Preload("Company").
		Preload("Contact").
		Preload("Deal").
		First(&note, "notes.tenant_id = ? AND notes.id = ?", tenantID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListNoteFilter, page pagination.Params) ([]domain.Note, int64, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Note{}).
		Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		stmt = stmt.Where("LOWER(content) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.AuthorID != nil {
		stmt = stmt.Where("author_id = ?", *filter.AuthorID)
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

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []domain.Note
	err := page.Apply(stmt).
		Preload("Author").
		Preload("Company").
		Preload("Contact").
		Preload("Deal").
		Order("created_at DESC, id DESC").
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, note *domain.Note) error {
	return db.WithContext(ctx).
		Where("tenant_id = ?", note.TenantID).
		Save(note).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Note{}).Error
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.StatsFilter) (*domain.Stats, error) {
	base := func() *gorm.DB {
		stmt := db.WithContext(ctx).Model(&domain.Note{}).Where("tenant_id = ?", tenantID)
		if filter.AuthorID != nil {
			stmt = stmt.Where("author_id = ?", *filter.AuthorID)
		}
		return stmt
	}

	stats := &domain.Stats{}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("created_at >= ?", filter.Since).Count(&stats.RecentCount).Error; err != nil {
		return nil, err
	}
	if err := base().Where("company_id IS NOT NULL").Count(&stats.ByEntity.Companies).Error; err != nil {
		return nil, err
	}
	if err := base().Where("contact_id IS NOT NULL").Count(&stats.ByEntity.Contacts).Error; err != nil {
		return nil, err
	}
	if err := base().Where("deal_id IS NOT NULL").Count(&stats.ByEntity.Deals).Error; err != nil {
		return nil, err
	}
	if err := base().
		Where("company_id IS NULL AND contact_id IS NULL AND deal_id IS NULL").
		Count(&stats.ByEntity.Unattached).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
