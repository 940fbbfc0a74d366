package usecase

import "unified-push-server/internal/domain/constants"

// SenderConfiguration resolves the batching parameters a variant's
// platform should use (C1, §4.1). Per-variant transport credentials
// live on entity.Variant itself and need no separate lookup.
type SenderConfiguration interface {
	ConfigurationFor(platform constants.Platform) constants.SenderDefault
}
