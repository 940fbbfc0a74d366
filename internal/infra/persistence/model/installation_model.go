package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InstallationModel is the GORM-specific struct for the 'installations'
// table: one device registration under a variant. Indexed on
// variant_id, with id as the primary key, for TokenLoader's keyset
// pagination (§4.2) past a cursor.
type InstallationModel struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	VariantID  uuid.UUID                   `gorm:"type:uuid;not null;index:idx_installations_variant_id"`
	Token      string                      `gorm:"type:text;not null"`
	Categories datatypes.JSONType[[]string] `gorm:"type:jsonb"`
	Alias      string                      `gorm:"type:varchar(255)"`
	DeviceType string                      `gorm:"type:varchar(64)"`
}

// TableName explicitly sets the table name for GORM.
func (InstallationModel) TableName() string {
	return "installations"
}
