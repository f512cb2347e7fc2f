package contacts

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/contactbook-backend/internal/repo"
	"github.com/angelmondragon/contactbook-backend/pkg/db/models"
	"gorm.io/gorm"
)

// The partial unique index contacts_email_live_key backs this statement, so concurrent
// creators of the same email converge on one live row.
const insertContactIfMissing = `INSERT INTO contacts (email, is_deleted, created_at, updated_at)
VALUES (?, false, ?, ?)
ON CONFLICT (email) WHERE is_deleted = false DO NOTHING`

var contactColumns = []string{
	"ucm.id AS mapping_id",
	"cd.id AS contact_details_id",
	"cd.name",
	"c.email",
	"cd.phone_number",
	"cd.company",
	"cd.address",
	"cd.notes",
	"cd.created_at",
	"cd.updated_at",
}

type repository struct {
	repo.Base
}

// NewRepository builds a contacts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

// GetOrCreateContact returns the live contact for email, inserting it when absent.
func (r *repository) GetOrCreateContact(ctx context.Context, email string) (*models.Contact, error) {
	now := time.Now().UTC()
	if err := r.DB(ctx).Exec(insertContactIfMissing, email, now, now).Error; err != nil {
		return nil, err
	}
	return r.FindLiveContactByEmail(ctx, email)
}

func (r *repository) FindLiveContactByEmail(ctx context.Context, email string) (*models.Contact, error) {
	var contact models.Contact
	err := r.DB(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *repository) CreateContactDetails(ctx context.Context, details *models.ContactDetails) error {
	return r.DB(ctx).Omit("Contact").Create(details).Error
}

func (r *repository) CreateMapping(ctx context.Context, mapping *models.UserContactMapping) error {
	return r.DB(ctx).Omit("ContactDetails").Create(mapping).Error
}

// FindLiveMappings returns every live mapping of a live contact details row, oldest first.
func (r *repository) FindLiveMappings(ctx context.Context, contactDetailsID int64) ([]models.UserContactMapping, error) {
	var mappings []models.UserContactMapping
	err := r.DB(ctx).
		Joins("JOIN contact_details cd ON cd.id = user_contact_mappings.contact_details_id").
		Where("user_contact_mappings.contact_details_id = ?", contactDetailsID).
		Where("user_contact_mappings.is_deleted = ? AND cd.is_deleted = ?", false, false).
		Order("user_contact_mappings.id ASC").
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// UpdateContactDetails applies updates to a live row and reports how many rows changed.
func (r *repository) UpdateContactDetails(ctx context.Context, contactDetailsID int64, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.DB(ctx).
		Model(&models.ContactDetails{}).
		Where("id = ? AND is_deleted = ?", contactDetailsID, false).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) SoftDeleteMapping(ctx context.Context, mappingID int64) (int64, error) {
	res := r.DB(ctx).
		Model(&models.UserContactMapping{}).
		Where("id = ? AND is_deleted = ?", mappingID, false).
		Updates(map[string]any{"is_deleted": true, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *repository) CountLiveMappings(ctx context.Context, contactDetailsID int64) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.UserContactMapping{}).
		Where("contact_details_id = ? AND is_deleted = ?", contactDetailsID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) SoftDeleteContactDetails(ctx context.Context, contactDetailsID int64) error {
	return r.DB(ctx).
		Model(&models.ContactDetails{}).
		Where("id = ?", contactDetailsID).
		Updates(map[string]any{"is_deleted": true, "updated_at": time.Now().UTC()}).Error
}

// ListUserContacts returns the user's live entries ordered by when they were added.
func (r *repository) ListUserContacts(ctx context.Context, userID int64) ([]ContactRecord, error) {
	var records []ContactRecord
	err := r.userContactsQuery(ctx, userID).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SearchUserContacts matches a case-sensitive substring of the name or a
// case-insensitive exact email.
func (r *repository) SearchUserContacts(ctx context.Context, userID int64, keyword string) ([]ContactRecord, error) {
	var records []ContactRecord
	err := r.userContactsQuery(ctx, userID).
		Where("("+r.nameContainsClause()+" OR LOWER(c.email) = LOWER(?))", keyword, keyword).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) userContactsQuery(ctx context.Context, userID int64) *gorm.DB {
	return r.DB(ctx).
		Table("user_contact_mappings AS ucm").
		Select(strings.Join(contactColumns, ", ")).
		Joins("JOIN contact_details cd ON cd.id = ucm.contact_details_id").
		Joins("JOIN contacts c ON c.id = cd.contact_id").
		Where("ucm.user_id = ?", userID).
		Where("ucm.is_deleted = ? AND cd.is_deleted = ?", false, false).
		Order("ucm.id ASC")
}

// LIKE is case-insensitive for ASCII on SQLite, so substring matching goes through
// the position functions each dialect provides.
func (r *repository) nameContainsClause() string {
	if r.Dialect() == "sqlite" {
		return "instr(cd.name, ?) > 0"
	}
	return "strpos(cd.name, ?) > 0"
}
