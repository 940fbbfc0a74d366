package model

import "github.com/google/uuid"

// ApplicationModel is the GORM-specific struct for the 'push_applications' table.
type ApplicationModel struct {
	ID       uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name     string         `gorm:"type:varchar(255);not null"`
	Variants []VariantModel `gorm:"foreignKey:ApplicationID"`
}

// TableName explicitly sets the table name for GORM.
func (ApplicationModel) TableName() string {
	return "push_applications"
}
