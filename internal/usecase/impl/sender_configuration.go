package impl

import (
	"unified-push-server/config"
	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/usecase"
)

// senderConfiguration is C1: an immutable, startup-loaded registry
// merging constants.DefaultSenderConfiguration with any per-platform
// overrides from config.Config.Push.Networks (§4.1).
type senderConfiguration struct {
	byPlatform map[constants.Platform]constants.SenderDefault
}

// NewSenderConfiguration builds the registry once at startup.
func NewSenderConfiguration(cfg *config.Config) usecase.SenderConfiguration {
	merged := make(map[constants.Platform]constants.SenderDefault, len(constants.DefaultSenderConfiguration))
	for platform, def := range constants.DefaultSenderConfiguration {
		merged[platform] = def
	}

	for platform, override := range cfg.Push.Networks {
		merged[platform] = override
	}

	return &senderConfiguration{byPlatform: merged}
}

func (s *senderConfiguration) ConfigurationFor(platform constants.Platform) constants.SenderDefault {
	if def, ok := s.byPlatform[platform]; ok {
		return def
	}

	return constants.SenderDefault{}
}
