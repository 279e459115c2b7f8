package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hbenmansour/cashops/pkg/domain"
)

// MapGormErrorToDomain translates gorm-level errors into domain sentinels so
// callers never depend on the persistence library.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrInvalidValue):
		return domain.ErrInvalidIDFormat
	default:
		return err
	}
}
