package contacts

import (
	"database/sql"
	"strings"
	"time"

	"github.com/angelmondragon/contactbook-backend/pkg/db/models"
)

// CreateContactInput carries the fields accepted when adding a contact.
type CreateContactInput struct {
	Email       string  `json:"email" validate:"required,email,max=254"`
	Name        string  `json:"name" validate:"required,max=255"`
	PhoneNumber *string `json:"phone_number" validate:"omitnil,max=32"`
	Company     *string `json:"company" validate:"omitnil,max=255"`
	Address     *string `json:"address" validate:"omitnil,max=512"`
	Notes       *string `json:"notes" validate:"omitnil,max=2000"`
}

// Normalize trims every string field in place.
func (in *CreateContactInput) Normalize() {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = trimPtr(in.PhoneNumber)
	in.Company = trimPtr(in.Company)
	in.Address = trimPtr(in.Address)
	in.Notes = trimPtr(in.Notes)
}

func (in CreateContactInput) toModel(contactID, userID int64) *models.ContactDetails {
	return &models.ContactDetails{
		ContactID:   contactID,
		CreatedBy:   userID,
		Name:        in.Name,
		PhoneNumber: blankToNil(in.PhoneNumber),
		Company:     blankToNil(in.Company),
		Address:     blankToNil(in.Address),
		Notes:       blankToNil(in.Notes),
	}
}

// UpdateContactInput changes an existing entry. Nil fields keep their current value;
// an empty optional field clears it.
type UpdateContactInput struct {
	ContactDetailsID int64   `json:"contact_details"`
	Email            *string `json:"email" validate:"omitnil,email,max=254"`
	Name             *string `json:"name" validate:"omitnil,min=1,max=255"`
	PhoneNumber      *string `json:"phone_number" validate:"omitnil,max=32"`
	Company          *string `json:"company" validate:"omitnil,max=255"`
	Address          *string `json:"address" validate:"omitnil,max=512"`
	Notes            *string `json:"notes" validate:"omitnil,max=2000"`
}

// Normalize trims every provided string field in place.
func (in *UpdateContactInput) Normalize() {
	in.Email = trimPtr(in.Email)
	in.Name = trimPtr(in.Name)
	in.PhoneNumber = trimPtr(in.PhoneNumber)
	in.Company = trimPtr(in.Company)
	in.Address = trimPtr(in.Address)
	in.Notes = trimPtr(in.Notes)
}

func (in UpdateContactInput) detailUpdates() map[string]any {
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	optional := map[string]*string{
		"phone_number": in.PhoneNumber,
		"company":      in.Company,
		"address":      in.Address,
		"notes":        in.Notes,
	}
	for column, value := range optional {
		if value == nil {
			continue
		}
		if *value == "" {
			updates[column] = nil
			continue
		}
		updates[column] = *value
	}
	return updates
}

// CreateResult is returned after a successful create.
type CreateResult struct {
	Status           bool   `json:"status"`
	ContactDetailsID int64  `json:"contact_details"`
	Message          string `json:"message"`
}

// MutationResult is returned after update and delete.
type MutationResult struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// ContactDTO is the read model for one entry of a user's contact book.
type ContactDTO struct {
	ContactDetailsID int64     `json:"contact_details"`
	MappingID        int64     `json:"mapping_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PhoneNumber      *string   `json:"phone_number,omitempty"`
	Company          *string   `json:"company,omitempty"`
	Address          *string   `json:"address,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ContactRecord is the joined row scanned by list and search queries.
type ContactRecord struct {
	MappingID        int64          `gorm:"column:mapping_id"`
	ContactDetailsID int64          `gorm:"column:contact_details_id"`
	Name             string         `gorm:"column:name"`
	Email            string         `gorm:"column:email"`
	PhoneNumber      sql.NullString `gorm:"column:phone_number"`
	Company          sql.NullString `gorm:"column:company"`
	Address          sql.NullString `gorm:"column:address"`
	Notes            sql.NullString `gorm:"column:notes"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (r ContactRecord) toDTO() ContactDTO {
	return ContactDTO{
		ContactDetailsID: r.ContactDetailsID,
		MappingID:        r.MappingID,
		Name:             r.Name,
		Email:            r.Email,
		PhoneNumber:      nullStringPtr(r.PhoneNumber),
		Company:          nullStringPtr(r.Company),
		Address:          nullStringPtr(r.Address),
		Notes:            nullStringPtr(r.Notes),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toDTOs(records []ContactRecord) []ContactDTO {
	out := make([]ContactDTO, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDTO())
	}
	return out
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}

func blankToNil(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
