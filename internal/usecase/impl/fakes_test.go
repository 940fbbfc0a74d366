package impl

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"unified-push-server/internal/domain/constants"
	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/domain/service"
	"unified-push-server/internal/usecase"
)

// fakePushMessageRepository is an in-memory stand-in for
// repository.PushMessageRepository, used in place of the generated
// mocks the original tests relied on (no mockery config ships with
// this tree).
type fakePushMessageRepository struct {
	mu       sync.Mutex
	byID     map[string]*entity.PushMessageInformation
	errors   []entity.VariantErrorStatus
	saveErr  error
	findErr  error
	createErr error
}

func newFakePushMessageRepository() *fakePushMessageRepository {
	return &fakePushMessageRepository{byID: make(map[string]*entity.PushMessageInformation)}
}

func (r *fakePushMessageRepository) put(info entity.PushMessageInformation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[info.ID] = &info
}

func (r *fakePushMessageRepository) Create(ctx context.Context, info *entity.PushMessageInformation) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *info
	r.byID[info.ID] = &cp
	return nil
}

func (r *fakePushMessageRepository) FindByIDForUpdate(ctx context.Context, id string) (*entity.PushMessageInformation, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrPushMessageNotFound
	}
	cp := *info
	cp.VariantInformation = append([]entity.VariantMetricInformation(nil), info.VariantInformation...)
	return &cp, nil
}

func (r *fakePushMessageRepository) FindByID(ctx context.Context, id string) (*entity.PushMessageInformation, error) {
	return r.FindByIDForUpdate(ctx, id)
}

func (r *fakePushMessageRepository) Save(ctx context.Context, info *entity.PushMessageInformation) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *info
	r.byID[info.ID] = &cp
	return nil
}

func (r *fakePushMessageRepository) FindIncomplete(ctx context.Context, cutoff time.Time) ([]entity.PushMessageInformation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.PushMessageInformation
	for _, info := range r.byID {
		if info.SubmitDate.Before(cutoff) && info.ServedVariants < info.TotalVariants {
			out = append(out, *info)
		}
	}
	return out, nil
}

func (r *fakePushMessageRepository) FindByAppID(ctx context.Context, appID string, page, perPage int, ascending bool, search string) ([]entity.PushMessageInformation, int64, error) {
	return nil, 0, nil
}

func (r *fakePushMessageRepository) RecordVariantError(ctx context.Context, status entity.VariantErrorStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, status)
	return nil
}

// fakeTxManager runs fn against a single fakeRepositoryFactory wrapping
// the same fakePushMessageRepository, with no real rollback semantics:
// sufficient for exercising MetricsCollector's read-merge-write logic.
type fakeTxManager struct {
	pushMessages *fakePushMessageRepository
}

func (m *fakeTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepositoryFactory{pushMessages: m.pushMessages})
}

type fakeRepositoryFactory struct {
	pushMessages *fakePushMessageRepository
}

func (f *fakeRepositoryFactory) NewApplicationRepository() repository.ApplicationRepository { return nil }
func (f *fakeRepositoryFactory) NewVariantRepository() repository.VariantRepository         { return nil }
func (f *fakeRepositoryFactory) NewInstallationRepository() repository.InstallationRepository {
	return nil
}
func (f *fakeRepositoryFactory) NewPushMessageRepository() repository.PushMessageRepository {
	return f.pushMessages
}

// fakeInstallationRepository backs TokenLoader and
// ClientInstallationService tests.
type fakeInstallationRepository struct {
	mu       sync.Mutex
	page     repository.TokenPage
	pageErr  error
	deleted  []string
	deleteErr error
}

func newPageFor(tokens []string) repository.TokenPage {
	return repository.TokenPage{Tokens: tokens, HasMore: false}
}

func (r *fakeInstallationRepository) FindTokenPage(ctx context.Context, variantID uuid.UUID, cursor string, limit int, categories, aliases, deviceTypes []string) (repository.TokenPage, error) {
	return r.page, r.pageErr
}

func (r *fakeInstallationRepository) DeleteByTokens(ctx context.Context, variantID uuid.UUID, tokens []string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, tokens...)
	return nil
}

// fakeVariantRepository backs JobSplitter tests with a fixed roster
// of variants per application.
type fakeVariantRepository struct {
	byApplication map[uuid.UUID][]entity.Variant
	findErr       error
}

func (r *fakeVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Variant, error) {
	for _, variants := range r.byApplication {
		for _, v := range variants {
			if v.ID == id {
				return &v, nil
			}
		}
	}
	return nil, repository.ErrVariantNotFound
}

func (r *fakeVariantRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]entity.Variant, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.byApplication[applicationID], nil
}

// fakeSenderRegistry resolves a single pre-registered fakeSender, or
// reports "no sender configured" when platform is unset.
type fakeSenderRegistry struct {
	senders map[constants.Platform]service.PushNotificationSender
}

func newFakeSenderRegistry() *fakeSenderRegistry {
	return &fakeSenderRegistry{senders: make(map[constants.Platform]service.PushNotificationSender)}
}

func (r *fakeSenderRegistry) register(s service.PushNotificationSender) {
	r.senders[s.Platform()] = s
}

func (r *fakeSenderRegistry) SenderFor(platform constants.Platform) (service.PushNotificationSender, bool) {
	s, ok := r.senders[platform]
	return s, ok
}

// fakeSender is a scriptable service.PushNotificationSender.
type fakeSender struct {
	platform constants.Platform
	results  []service.SenderResult
	err      error
	delay    time.Duration
}

func (s *fakeSender) Platform() constants.Platform { return s.platform }

func (s *fakeSender) Send(ctx context.Context, credentials map[string]string, serializedMessage string, tokens []string) ([]service.SenderResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

// fakeMetricsCollector scripts Reconcile's outcome/error for
// TriggerLoop tests.
type fakeMetricsCollector struct {
	outcome usecase.CollectorOutcome
	err     error
	calls   int
}

func (c *fakeMetricsCollector) HandleMetric(ctx context.Context, pushMessageInformationID string, variantID uuid.UUID, receivers, servedBatches, totalBatches int, delivered bool, reason string) (usecase.CollectorOutcome, error) {
	return usecase.CollectorOutcome{}, nil
}

func (c *fakeMetricsCollector) Reconcile(ctx context.Context, pushMessageInformationID string) (usecase.CollectorOutcome, error) {
	c.calls++
	return c.outcome, c.err
}

// fakeApplicationRepository backs MetricsReader tests.
type fakeApplicationRepository struct {
	byID map[uuid.UUID]*entity.PushApplication
}

func (r *fakeApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PushApplication, error) {
	app, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	return app, nil
}

// fakeClientInstallationService records which variant/tokens were
// asked to be removed.
type fakeClientInstallationService struct {
	mu       sync.Mutex
	calls    int
	tokens   []string
	removeErr error
}

func (s *fakeClientInstallationService) RemoveInstallationsForVariantByDeviceTokens(ctx context.Context, variant entity.Variant, tokens []string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.tokens = append(s.tokens, tokens...)
	return nil
}
