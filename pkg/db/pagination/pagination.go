package pagination

import "gorm.io/gorm"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params carries 1-indexed page/limit query parameters.
type Params struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}

// Meta is the list-response envelope metadata.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Normalize clamps page and limit to usable values.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	normalized := p.Normalize()
	return (normalized.Page - 1) * normalized.Limit
}

// Apply adds offset/limit to a GORM statement.
func (p Params) Apply(stmt *gorm.DB) *gorm.DB {
	normalized := p.Normalize()
	return stmt.Offset(normalized.Offset()).Limit(normalized.Limit)
}

// BuildMeta computes the response metadata. total_pages == ceil(total/limit);
// pages past the end are valid and yield empty data, never an error.
func BuildMeta(total int64, p Params) Meta {
	normalized := p.Normalize()
	totalPages := int((total + int64(normalized.Limit) - 1) / int64(normalized.Limit))
	return Meta{
		Total:      total,
		Page:       normalized.Page,
		Limit:      normalized.Limit,
		TotalPages: totalPages,
	}
}
