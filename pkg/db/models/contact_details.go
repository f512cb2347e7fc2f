package models

import "time"

// ContactDetails is a named profile pointing at a Contact. Users own it through
// UserContactMapping rows; it is soft deleted once no live mapping references it.
type ContactDetails struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ContactID   int64     `gorm:"column:contact_id;not null;index:contact_details_contact_id_idx"`
	Contact     *Contact  `gorm:"foreignKey:ContactID"`
	CreatedBy   int64     `gorm:"column:created_by;not null"`
	Name        string    `gorm:"column:name;type:text;not null"`
	PhoneNumber *string   `gorm:"column:phone_number"`
	Company     *string   `gorm:"column:company"`
	Address     *string   `gorm:"column:address"`
	Notes       *string   `gorm:"column:notes"`
	IsDeleted   bool      `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ContactDetails) TableName() string { return "contact_details" }
