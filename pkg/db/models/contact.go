package models

import "time"

// Contact is the deduplicated email identity shared by every user's contact book.
// At most one live row exists per email (contacts_email_live_key).
type Contact struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex:contacts_email_live_key,where:is_deleted = false"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Contact) TableName() string { return "contacts" }
