package contacts

import (
	"context"

	"github.com/angelmondragon/contactbook-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/contactbook-backend/pkg/errors"
)

const permissionDeniedMessage = "You do not have permission to perform this action."

// OwnerPermission allows a mutation only when the mapping belongs to the acting user.
type OwnerPermission struct{}

func (OwnerPermission) CheckObjectPermission(_ context.Context, userID int64, mapping *models.UserContactMapping) error {
	if mapping == nil || userID <= 0 || mapping.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, permissionDeniedMessage)
	}
	return nil
}
