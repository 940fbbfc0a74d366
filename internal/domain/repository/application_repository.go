package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"unified-push-server/internal/domain/entity"
)

// ErrApplicationNotFound is returned when an application is not found.
var ErrApplicationNotFound = errors.New("application not found")

// ApplicationRepository persists PushApplication records (§3).
type ApplicationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PushApplication, error)
}
