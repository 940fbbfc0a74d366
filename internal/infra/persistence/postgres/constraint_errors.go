package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domainerrors "unified-push-server/internal/domain/errors"
)

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKeyConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}

func isCheckConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated)
}

// classifyStoreErr maps a raw GORM/driver error to the §7 store-error
// kind (ErrStorePermanent or ErrStoreTransient) callers can test for: a
// constraint violation will not heal on retry, anything else (timeout,
// connection reset, deadlock victim) might.
func classifyStoreErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.ErrStoreTransient.WrapMessage(err.Error())
	}

	switch {
	case isUniqueConstraintViolation(err),
		isForeignKeyConstraintViolation(err),
		isNotNullConstraintViolation(err),
		isCheckConstraintViolation(err):
		return domainerrors.ErrStorePermanent.WrapMessage(err.Error())
	default:
		return domainerrors.ErrStoreTransient.WrapMessage(err.Error())
	}
}
