package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VariantModel is the GORM-specific struct for the 'variants' table.
// Credentials is stored as JSONB; its shape is platform-specific and
// interpreted only by internal/infra/senders.
type VariantModel struct {
	ID            uuid.UUID                  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ApplicationID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Platform      string                     `gorm:"type:varchar(32);not null"`
	Production    bool                       `gorm:"not null;default:false"`
	Credentials   datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
}

// TableName explicitly sets the table name for GORM.
func (VariantModel) TableName() string {
	return "variants"
}
