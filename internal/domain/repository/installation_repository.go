package repository

import (
	"context"

	"github.com/google/uuid"
)

// TokenPage is one keyset-paginated window of recipient tokens for a
// variant, as read by TokenLoader (C2, §4.2).
type TokenPage struct {
	Tokens     []string
	NextCursor string // "" once HasMore is false
	HasMore    bool
}

// InstallationRepository is the TokenLoader's store of client
// installations (§3, §4.2, §4.10).
type InstallationRepository interface {
	// FindTokenPage returns up to limit tokens for variantID ordered
	// after cursor (the empty cursor starts from the beginning),
	// filtered by the installation filter carried on the message.
	FindTokenPage(ctx context.Context, variantID uuid.UUID, cursor string, limit int, categories, aliases, deviceTypes []string) (TokenPage, error)

	// DeleteByTokens removes installations whose token the transport
	// reported as permanently rejected (§4.10).
	DeleteByTokens(ctx context.Context, variantID uuid.UUID, tokens []string) error
}
