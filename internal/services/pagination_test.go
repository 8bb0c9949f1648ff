package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	page, perPage := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 30, perPage)

	page, perPage = NormalizePage(3, 500)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, perPage)
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(61, 4, 2, 30)
	assert.Equal(t, 61, meta.Total)
	assert.Equal(t, 4, meta.Deleted)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 30, meta.PerPage)
}
