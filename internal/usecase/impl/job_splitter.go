package impl

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/infra/cache"
	"unified-push-server/internal/queue"
	"unified-push-server/internal/usecase"
)

// jobSplitter is C6 (§4.4): resolves targeted variants, persists the
// PushMessageInformation aggregate, and seeds one VariantJob per
// variant.
type jobSplitter struct {
	variants     repository.VariantRepository
	txm          repository.TransactionManager
	broker       queue.Broker
	metricsCache *cache.MetricsCache
	logger       *slog.Logger
}

// NewJobSplitter constructs C6.
func NewJobSplitter(variants repository.VariantRepository, txm repository.TransactionManager, broker queue.Broker, metricsCache *cache.MetricsCache, logger *slog.Logger) usecase.JobSplitter {
	return &jobSplitter{variants: variants, txm: txm, broker: broker, metricsCache: metricsCache, logger: logger}
}

func newPushMessageID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

func (s *jobSplitter) Split(ctx context.Context, appID string, message entity.UnifiedPushMessage, ipAddress, clientIdentifier string) (*entity.PushMessageInformation, error) {
	applicationID, err := uuid.Parse(appID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid appId")
	}

	all, err := s.variants.FindByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	targeted := selectTargetedVariants(all, message.Variants)

	rawJSON, err := json.Marshal(message)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	info := &entity.PushMessageInformation{
		ID:               newPushMessageID(),
		AppID:            appID,
		RawJSONMessage:   string(rawJSON),
		SubmitDate:       time.Now(),
		IPAddress:        ipAddress,
		ClientIdentifier: clientIdentifier,
		TotalVariants:    len(targeted),
	}

	if len(targeted) == 0 {
		info.ServedVariants = 0
		s.logger.Info("push message completed", slog.String("push_message_id", info.ID), slog.Int("total_variants", 0))
	}

	err = s.txm.Execute(ctx, func(tx repository.RepositoryFactory) error {
		return tx.NewPushMessageRepository().Create(ctx, info)
	})
	if err != nil {
		return nil, err
	}

	s.metricsCache.Add(appID, "total", 1)

	for _, variant := range targeted {
		job := entity.VariantJob{
			PushMessageInformationID: info.ID,
			VariantID:                variant.ID,
			SerializedMessage:        string(rawJSON),
		}

		if sendErr := s.enqueueSeedJob(ctx, variant, job); sendErr != nil {
			s.logger.Error("failed to enqueue seed variant job after commit",
				slog.String("push_message_id", info.ID),
				slog.String("variant_id", variant.ID.String()),
				slog.Any("error", sendErr),
			)
		}
	}

	return info, nil
}

// enqueueSeedJob retries a few times: the store write already
// committed, and the dedup id makes re-enqueue after a partial
// failure safe (§4.4 Open Question resolution). VariantJob is the
// generic work queue a fixed loader worker pool drains regardless of
// which variant a given message names (§4.7.2 reserves per-variant
// sub-topics for the BatchLoaded/AllBatchesLoaded markers only), so it
// is published flat rather than through queue.VariantTopicName.
func (s *jobSplitter) enqueueSeedJob(ctx context.Context, variant entity.Variant, job entity.VariantJob) error {
	topicName := constants.QueueVariantJob

	body, err := json.Marshal(job)
	if err != nil {
		return errors.WithStack(err)
	}

	const maxAttempts = 3
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		topic, openErr := s.broker.Topic(ctx, topicName)
		if openErr == nil {
			lastErr = topic.Send(ctx, body, map[string]string{constants.PropertyVariantID: variant.ID.String()}, queue.PublishOptions{
				DuplicateDetectionID: job.DuplicateDetectionID(),
			})
			if lastErr == nil {
				return nil
			}
		} else {
			lastErr = openErr
		}

		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}

	return lastErr
}

// selectTargetedVariants filters candidates against the message's
// variant id allow-list (empty allow-list means "every variant").
func selectTargetedVariants(candidates []entity.Variant, allowList []string) []entity.Variant {
	if len(allowList) == 0 {
		return candidates
	}

	targeted := make([]entity.Variant, 0, len(candidates))
	for _, v := range candidates {
		if slices.Contains(allowList, v.ID.String()) {
			targeted = append(targeted, v)
		}
	}

	return targeted
}
