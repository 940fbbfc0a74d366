package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"unified-push-server/internal/domain/entity"
	"unified-push-server/internal/domain/repository"
	"unified-push-server/internal/infra/persistence/model"
)

// pushMessageRepository implements repository.PushMessageRepository
// using GORM directly (not gorm/gen): FindByIDForUpdate's row lock and
// the aggregate's nested slice of variant rows are easier to express
// against *gorm.DB than through the generated query builder.
type pushMessageRepository struct {
	db *gorm.DB
}

// NewPushMessageRepository is the constructor for pushMessageRepository.
func NewPushMessageRepository(db *gorm.DB) repository.PushMessageRepository {
	return &pushMessageRepository{db: db}
}

func (r *pushMessageRepository) Create(ctx context.Context, info *entity.PushMessageInformation) error {
	return classifyStoreErr(r.db.WithContext(ctx).Create(fromPushMessageDomain(info)).Error)
}

func (r *pushMessageRepository) FindByIDForUpdate(ctx context.Context, id string) (*entity.PushMessageInformation, error) {
	var infoM model.PushMessageInformationModel

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("VariantInformation").
		Where("id = ?", id).
		First(&infoM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPushMessageNotFound
		}

		return nil, err
	}

	return toPushMessageDomain(&infoM), nil
}

func (r *pushMessageRepository) FindByID(ctx context.Context, id string) (*entity.PushMessageInformation, error) {
	var infoM model.PushMessageInformationModel

	err := r.db.WithContext(ctx).
		Preload("VariantInformation").
		Where("id = ?", id).
		First(&infoM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPushMessageNotFound
		}

		return nil, err
	}

	return toPushMessageDomain(&infoM), nil
}

func (r *pushMessageRepository) Save(ctx context.Context, info *entity.PushMessageInformation) error {
	infoM := fromPushMessageDomain(info)

	return classifyStoreErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(infoM).Error; err != nil {
			return err
		}

		for i := range infoM.VariantInformation {
			infoM.VariantInformation[i].PushMessageInformationID = infoM.ID
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&infoM.VariantInformation[i]).Error; err != nil {
				return err
			}
		}

		return nil
	}))
}

func (r *pushMessageRepository) FindIncomplete(ctx context.Context, cutoff time.Time) ([]entity.PushMessageInformation, error) {
	var infoMs []model.PushMessageInformationModel

	err := r.db.WithContext(ctx).
		Preload("VariantInformation").
		Where("submit_date < ?", cutoff).
		Where("served_variants < total_variants").
		Find(&infoMs).Error
	if err != nil {
		return nil, err
	}

	infos := make([]entity.PushMessageInformation, 0, len(infoMs))
	for i := range infoMs {
		infos = append(infos, *toPushMessageDomain(&infoMs[i]))
	}

	return infos, nil
}

func (r *pushMessageRepository) FindByAppID(ctx context.Context, appID string, page, perPage int, ascending bool, search string) ([]entity.PushMessageInformation, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PushMessageInformationModel{}).Where("app_id = ?", appID)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("id ILIKE ? OR raw_json_message ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "submit_date DESC"
	if ascending {
		order = "submit_date ASC"
	}

	var infoMs []model.PushMessageInformationModel
	err := q.Preload("VariantInformation").
		Order(order).
		Offset(page * perPage).
		Limit(perPage).
		Find(&infoMs).Error
	if err != nil {
		return nil, 0, err
	}

	infos := make([]entity.PushMessageInformation, 0, len(infoMs))
	for i := range infoMs {
		infos = append(infos, *toPushMessageDomain(&infoMs[i]))
	}

	return infos, total, nil
}

func (r *pushMessageRepository) RecordVariantError(ctx context.Context, status entity.VariantErrorStatus) error {
	errM := &model.VariantErrorStatusModel{
		PushJobID:   status.PushJobID,
		VariantID:   status.VariantID.String(),
		ErrorReason: status.ErrorReason,
	}

	return classifyStoreErr(r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(errM).Error)
}

func toPushMessageDomain(m *model.PushMessageInformationModel) *entity.PushMessageInformation {
	info := &entity.PushMessageInformation{
		ID:               m.ID,
		AppID:            m.AppID,
		RawJSONMessage:   m.RawJSONMessage,
		SubmitDate:       m.SubmitDate,
		IPAddress:        m.IPAddress,
		ClientIdentifier: m.ClientIdentifier,
		TotalReceivers:   m.TotalReceivers,
		ServedVariants:   m.ServedVariants,
		TotalVariants:    m.TotalVariants,
	}

	info.VariantInformation = make([]entity.VariantMetricInformation, 0, len(m.VariantInformation))
	for _, variantM := range m.VariantInformation {
		variantID, err := uuid.Parse(variantM.VariantID)
		if err != nil {
			continue
		}

		info.VariantInformation = append(info.VariantInformation, entity.VariantMetricInformation{
			VariantID:      variantID,
			Receivers:      variantM.Receivers,
			ServedBatches:  variantM.ServedBatches,
			TotalBatches:   variantM.TotalBatches,
			DeliveryStatus: entity.DeliveryStatus(variantM.DeliveryStatus),
			Reason:         variantM.Reason,
		})
	}

	return info
}

func fromPushMessageDomain(e *entity.PushMessageInformation) *model.PushMessageInformationModel {
	infoM := &model.PushMessageInformationModel{
		ID:               e.ID,
		AppID:            e.AppID,
		RawJSONMessage:   e.RawJSONMessage,
		SubmitDate:       e.SubmitDate,
		IPAddress:        e.IPAddress,
		ClientIdentifier: e.ClientIdentifier,
		TotalReceivers:   e.TotalReceivers,
		ServedVariants:   e.ServedVariants,
		TotalVariants:    e.TotalVariants,
	}

	infoM.VariantInformation = make([]model.VariantMetricInformationModel, 0, len(e.VariantInformation))
	for _, v := range e.VariantInformation {
		infoM.VariantInformation = append(infoM.VariantInformation, model.VariantMetricInformationModel{
			PushMessageInformationID: e.ID,
			VariantID:                v.VariantID.String(),
			Receivers:                v.Receivers,
			ServedBatches:            v.ServedBatches,
			TotalBatches:             v.TotalBatches,
			DeliveryStatus:           int(v.DeliveryStatus),
			Reason:                   v.Reason,
		})
	}

	return infoM
}
