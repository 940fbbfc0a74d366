package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"unified-push-server/internal/domain/entity"
)

// ErrVariantNotFound is returned when a variant is not found.
var ErrVariantNotFound = errors.New("variant not found")

// VariantRepository persists Variant records and backs SenderConfiguration
// (C1) lookups of per-variant transport credentials (§3, §4.1).
type VariantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Variant, error)
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]entity.Variant, error)
}
