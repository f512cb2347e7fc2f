package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/angelmondragon/contactbook-backend/api/middleware"
	"github.com/angelmondragon/contactbook-backend/api/responses"
	"github.com/angelmondragon/contactbook-backend/api/validators"
	"github.com/angelmondragon/contactbook-backend/internal/contacts"
	pkgerrors "github.com/angelmondragon/contactbook-backend/pkg/errors"
	"github.com/angelmondragon/contactbook-backend/pkg/logger"
	"github.com/angelmondragon/contactbook-backend/pkg/pagination"
)

const emptyPageMessage = "Empty Page! Page limit Exceed no data."

type contactPageResponse struct {
	Items      []contacts.ContactDTO `json:"items"`
	Pagination pagination.Meta       `json:"pagination"`
}

type deleteContactRequest struct {
	ContactDetailsID int64 `json:"contact_details"`
}

// ContactsList returns one page of the caller's contact book.
func ContactsList(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
			return
		}

		page, err := svc.List(r.Context(), middleware.UserIDFromContext(r.Context()), r.URL.Query().Get("page"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeContactPage(w, page)
	}
}

// ContactsSearch filters the caller's contact book by name or email.
func ContactsSearch(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
			return
		}

		keyword, err := validators.RequireQueryParam(r, "kw")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.Search(r.Context(), middleware.UserIDFromContext(r.Context()), keyword, r.URL.Query().Get("page"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeContactPage(w, page)
	}
}

// ContactsCreate adds a contact to the caller's book.
func ContactsCreate(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
			return
		}

		var body contacts.CreateContactInput
		if err := validators.DecodeJSON(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithContactDetailsID(r.Context(), result.ContactDetailsID), "contacts.created")
		}
		responses.WriteSuccess(w, result)
	}
}

// ContactsUpdate edits an entry of the caller's book.
func ContactsUpdate(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
			return
		}

		var body contacts.UpdateContactInput
		if err := decodeMutationBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ContactsDelete removes an entry from the caller's book.
func ContactsDelete(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contacts service unavailable"))
			return
		}

		var body deleteContactRequest
		if err := decodeMutationBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), body.ContactDetailsID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithContactDetailsID(r.Context(), body.ContactDetailsID), "contacts.deleted")
		}
		responses.WriteSuccess(w, result)
	}
}

func writeContactPage(w http.ResponseWriter, page pagination.Page[contacts.ContactDTO]) {
	if page.Empty() {
		responses.WriteSuccess(w, map[string]string{"message": emptyPageMessage})
		return
	}
	items := page.Items
	if items == nil {
		items = []contacts.ContactDTO{}
	}
	responses.WriteSuccess(w, contactPageResponse{Items: items, Pagination: page.Meta})
}

// decodeMutationBody treats an empty body as a request without a contact
// details id, which the service reports as missing.
func decodeMutationBody(r *http.Request, dest any) error {
	if err := validators.DecodeJSON(r, dest); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
