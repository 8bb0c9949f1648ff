package services

import "billing-backend/internal/models"

const (
	defaultPerPage = 30
	maxPerPage     = 100
)

// NormalizePage clamps raw pagination parameters to sane values.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func NewPageMeta(total, deleted, page, perPage int) *models.PageMeta {
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	return &models.PageMeta{
		Total:      total,
		Deleted:    deleted,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
