package repository

import (
	"errors"

	repo "medkit/internal/repository"

	"gorm.io/gorm"
)

// page/limit を補正して offset を返す
func pageWindow(page, limit, max int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > max {
		limit = max
	}
	return limit, (page - 1) * limit
}

// gormのNotFoundをrepoのErrNotFoundに揃える
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	return err
}
