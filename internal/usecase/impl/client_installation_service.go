package impl

import (
	"context"

	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/domain/service"
)

// clientInstallationService implements service.ClientInstallationService,
// backing the dispatcher's token cleanup on permanent rejections (§4.10).
type clientInstallationService struct {
	installations repository.InstallationRepository
}

// NewClientInstallationService constructs the installation cleanup service.
func NewClientInstallationService(installations repository.InstallationRepository) service.ClientInstallationService {
	return &clientInstallationService{installations: installations}
}

func (s *clientInstallationService) RemoveInstallationsForVariantByDeviceTokens(ctx context.Context, variant entity.Variant, tokens []string) error {
	return s.installations.DeleteByTokens(ctx, variant.ID, tokens)
}
