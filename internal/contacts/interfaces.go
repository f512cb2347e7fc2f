package contacts

import (
	"context"

	"github.com/angelmondragon/contactbook-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the contact book tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetOrCreateContact(ctx context.Context, email string) (*models.Contact, error)
	FindLiveContactByEmail(ctx context.Context, email string) (*models.Contact, error)
	CreateContactDetails(ctx context.Context, details *models.ContactDetails) error
	CreateMapping(ctx context.Context, mapping *models.UserContactMapping) error
	FindLiveMappings(ctx context.Context, contactDetailsID int64) ([]models.UserContactMapping, error)
	UpdateContactDetails(ctx context.Context, contactDetailsID int64, updates map[string]any) (int64, error)
	SoftDeleteMapping(ctx context.Context, mappingID int64) (int64, error)
	CountLiveMappings(ctx context.Context, contactDetailsID int64) (int64, error)
	SoftDeleteContactDetails(ctx context.Context, contactDetailsID int64) error
	ListUserContacts(ctx context.Context, userID int64) ([]ContactRecord, error)
	SearchUserContacts(ctx context.Context, userID int64, keyword string) ([]ContactRecord, error)
}

// PermissionChecker decides whether a user may mutate the contact book entry behind a mapping.
type PermissionChecker interface {
	CheckObjectPermission(ctx context.Context, userID int64, mapping *models.UserContactMapping) error
}

// FieldValidator applies field-level rules to an input struct.
type FieldValidator interface {
	Struct(v any) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OperationRecorder observes the outcome of contact operations.
type OperationRecorder interface {
	Observe(operation string, err error)
}
