package model

import "time"

// PushMessageInformationModel is the GORM-specific struct for the
// 'push_message_information' table, the collector's (C7) durable
// aggregate (§3, §4.7).
type PushMessageInformationModel struct {
	ID               string    `gorm:"type:varchar(32);primary_key"` // ULID
	AppID            string    `gorm:"type:varchar(255);not null;index"`
	RawJSONMessage   string    `gorm:"type:text;not null"`
	SubmitDate       time.Time `gorm:"not null"`
	IPAddress        string    `gorm:"type:varchar(64)"`
	ClientIdentifier string    `gorm:"type:varchar(255)"`
	TotalReceivers   int       `gorm:"not null;default:0"`
	ServedVariants   int       `gorm:"not null;default:0"`
	TotalVariants    int       `gorm:"not null;default:0"`

	VariantInformation []VariantMetricInformationModel `gorm:"foreignKey:PushMessageInformationID"`
}

// TableName explicitly sets the table name for GORM.
func (PushMessageInformationModel) TableName() string {
	return "push_message_information"
}

// VariantMetricInformationModel is the GORM-specific struct for the
// 'variant_metric_information' table: one row per (job, variant) pair.
type VariantMetricInformationModel struct {
	PushMessageInformationID string `gorm:"type:varchar(32);primary_key"`
	VariantID                string `gorm:"type:uuid;primary_key"`
	Receivers                int    `gorm:"not null;default:0"`
	ServedBatches            int    `gorm:"not null;default:0"`
	TotalBatches             int    `gorm:"not null;default:0"`
	DeliveryStatus           int    `gorm:"not null;default:0"`
	Reason                   string `gorm:"type:text"`
}

// TableName explicitly sets the table name for GORM.
func (VariantMetricInformationModel) TableName() string {
	return "variant_metric_information"
}

// VariantErrorStatusModel is the GORM-specific struct for the
// 'variant_error_status' table (§4.11): an append-only log of transport
// rejections, keyed per invariant 7.
type VariantErrorStatusModel struct {
	PushJobID  string    `gorm:"type:varchar(32);primary_key"`
	VariantID  string    `gorm:"type:uuid;primary_key"`
	ErrorReason string   `gorm:"type:text"`
	RecordedAt time.Time `gorm:"not null;autoCreateTime"`
}

// TableName explicitly sets the table name for GORM.
func (VariantErrorStatusModel) TableName() string {
	return "variant_error_status"
}
