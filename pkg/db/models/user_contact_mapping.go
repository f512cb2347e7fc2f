package models

import "time"

// UserContactMapping places a ContactDetails row into a user's contact book.
// A user holds at most one live mapping per details row (user_contact_mappings_live_key).
type UserContactMapping struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID           int64           `gorm:"column:user_id;not null;index:user_contact_mappings_user_id_idx;uniqueIndex:user_contact_mappings_live_key,where:is_deleted = false"`
	ContactDetailsID int64           `gorm:"column:contact_details_id;not null;index:user_contact_mappings_details_id_idx;uniqueIndex:user_contact_mappings_live_key,where:is_deleted = false"`
	ContactDetails   *ContactDetails `gorm:"foreignKey:ContactDetailsID"`
	IsDeleted        bool            `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserContactMapping) TableName() string { return "user_contact_mappings" }
