package contacts

import (
	"context"
	"errors"

	"github.com/angelmondragon/contactbook-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/contactbook-backend/pkg/errors"
	"github.com/angelmondragon/contactbook-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	MsgCreated               = "Successfully added!"
	MsgUpdated               = "Successfully updated!"
	MsgDeleted               = "Successfully deleted!"
	MsgDetailsRequired       = "Contact details is required"
	MsgDetailsMissing        = "Contact details does not exist."
	MsgContactMissing        = "Contact does not exist."
	MsgNoContacts            = "Contact is not available."
	MsgUserRequired          = "user identity missing"
	operationCreate          = "create"
	operationUpdate          = "update"
	operationDelete          = "delete"
	operationList            = "list"
	operationSearch          = "search"
	defaultContactsPageLimit = pagination.DefaultPageSize
)

// Service exposes the contact book operations for an authenticated user.
type Service interface {
	Create(ctx context.Context, userID int64, input CreateContactInput) (*CreateResult, error)
	Update(ctx context.Context, userID int64, input UpdateContactInput) (*MutationResult, error)
	Delete(ctx context.Context, userID, contactDetailsID int64) (*MutationResult, error)
	List(ctx context.Context, userID int64, rawPage string) (pagination.Page[ContactDTO], error)
	Search(ctx context.Context, userID int64, keyword, rawPage string) (pagination.Page[ContactDTO], error)
}

// ServiceParams groups dependencies for the contacts service.
type ServiceParams struct {
	Repo        Repository
	Tx          txRunner
	Permissions PermissionChecker
	Validator   FieldValidator
	PageSize    int
	Recorder    OperationRecorder
}

type service struct {
	repo        Repository
	tx          txRunner
	permissions PermissionChecker
	validator   FieldValidator
	pageSize    int
	recorder    OperationRecorder
}

// NewService builds a contacts service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "contacts repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Validator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "field validator required")
	}
	permissions := params.Permissions
	if permissions == nil {
		permissions = OwnerPermission{}
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = defaultContactsPageLimit
	}
	return &service{
		repo:        params.Repo,
		tx:          params.Tx,
		permissions: permissions,
		validator:   params.Validator,
		pageSize:    pagination.NormalizePageSize(pageSize),
		recorder:    params.Recorder,
	}, nil
}

func (s *service) Create(ctx context.Context, userID int64, input CreateContactInput) (result *CreateResult, err error) {
	defer func() { s.observe(operationCreate, err) }()

	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgUserRequired)
	}
	input.Normalize()
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	var details *models.ContactDetails
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		contact, err := repo.GetOrCreateContact(ctx, input.Email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get or create contact")
		}

		details = input.toModel(contact.ID, userID)
		if err := repo.CreateContactDetails(ctx, details); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact details")
		}

		mapping := &models.UserContactMapping{UserID: userID, ContactDetailsID: details.ID}
		if err := repo.CreateMapping(ctx, mapping); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact mapping")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateResult{Status: true, ContactDetailsID: details.ID, Message: MsgCreated}, nil
}

func (s *service) Update(ctx context.Context, userID int64, input UpdateContactInput) (result *MutationResult, err error) {
	defer func() { s.observe(operationUpdate, err) }()

	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgUserRequired)
	}
	if input.ContactDetailsID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, MsgDetailsRequired)
	}

	mapping, err := s.resolveOwnedMapping(ctx, userID, input.ContactDetailsID, MsgDetailsMissing)
	if err != nil {
		return nil, err
	}

	input.Normalize()
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		updates := input.detailUpdates()
		if input.Email != nil {
			contact, err := repo.GetOrCreateContact(ctx, *input.Email)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get or create contact")
			}
			updates["contact_id"] = contact.ID
		}
		if len(updates) == 0 {
			return nil
		}

		affected, err := repo.UpdateContactDetails(ctx, mapping.ContactDetailsID, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update contact details")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeBadRequest, MsgDetailsMissing)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &MutationResult{Status: true, Message: MsgUpdated}, nil
}

// Delete hides the entry from the caller's book. The shared details row is
// tombstoned only once no other user still maps it.
func (s *service) Delete(ctx context.Context, userID, contactDetailsID int64) (result *MutationResult, err error) {
	defer func() { s.observe(operationDelete, err) }()

	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgUserRequired)
	}
	if contactDetailsID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, MsgDetailsRequired)
	}

	mapping, err := s.resolveOwnedMapping(ctx, userID, contactDetailsID, MsgContactMissing)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		affected, err := repo.SoftDeleteMapping(ctx, mapping.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contact mapping")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeBadRequest, MsgContactMissing)
		}

		remaining, err := repo.CountLiveMappings(ctx, mapping.ContactDetailsID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count contact mappings")
		}
		if remaining > 0 {
			return nil
		}
		if err := repo.SoftDeleteContactDetails(ctx, mapping.ContactDetailsID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contact details")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &MutationResult{Status: true, Message: MsgDeleted}, nil
}

func (s *service) List(ctx context.Context, userID int64, rawPage string) (page pagination.Page[ContactDTO], err error) {
	defer func() { s.observe(operationList, err) }()

	if userID <= 0 {
		return pagination.Page[ContactDTO]{}, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgUserRequired)
	}
	records, err := s.repo.ListUserContacts(ctx, userID)
	if err != nil {
		return pagination.Page[ContactDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contacts")
	}
	if len(records) == 0 {
		return pagination.Page[ContactDTO]{}, pkgerrors.New(pkgerrors.CodeBadRequest, MsgNoContacts)
	}
	return pagination.Paginate(toDTOs(records), rawPage, s.pageSize), nil
}

// Search never reports "no contacts": zero matches yield an empty first page.
func (s *service) Search(ctx context.Context, userID int64, keyword, rawPage string) (page pagination.Page[ContactDTO], err error) {
	defer func() { s.observe(operationSearch, err) }()

	if userID <= 0 {
		return pagination.Page[ContactDTO]{}, pkgerrors.New(pkgerrors.CodeUnauthorized, MsgUserRequired)
	}
	records, err := s.repo.SearchUserContacts(ctx, userID, keyword)
	if err != nil {
		return pagination.Page[ContactDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search contacts")
	}
	return pagination.Paginate(toDTOs(records), rawPage, s.pageSize), nil
}

// resolveOwnedMapping finds the caller's live mapping for a contact details row.
// A row with no live mapping is reported with missingMsg; a row mapped only by
// other users is rejected by the permission checker.
func (s *service) resolveOwnedMapping(ctx context.Context, userID, contactDetailsID int64, missingMsg string) (*models.UserContactMapping, error) {
	mappings, err := s.repo.FindLiveMappings(ctx, contactDetailsID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, missingMsg)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact mapping")
	}
	if len(mappings) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, missingMsg)
	}

	var denied error
	for i := range mappings {
		if err := s.permissions.CheckObjectPermission(ctx, userID, &mappings[i]); err != nil {
			denied = err
			continue
		}
		return &mappings[i], nil
	}
	return nil, denied
}

func (s *service) observe(operation string, err error) {
	if s.recorder != nil {
		s.recorder.Observe(operation, err)
	}
}
