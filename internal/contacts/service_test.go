package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/contactbook-backend/pkg/db"
	"github.com/angelmondragon/contactbook-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/contactbook-backend/pkg/errors"
	"github.com/angelmondragon/contactbook-backend/pkg/pagination"
)

type recordedOp struct {
	operation string
	err       error
}

type stubRecorder struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (r *stubRecorder) Observe(operation string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{operation: operation, err: err})
}

type testEnv struct {
	db       *gorm.DB
	svc      Service
	recorder *stubRecorder
}

func newTestService(t *testing.T) testEnv {
	t.Helper()
	conn := newContactsTestDB(t)
	recorder := &stubRecorder{}
	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(conn),
		Tx:        db.NewFromGorm(conn),
		Validator: validator.New(),
		Recorder:  recorder,
	})
	require.NoError(t, err)
	return testEnv{db: conn, svc: svc, recorder: recorder}
}

func strPtr(v string) *string { return &v }

func requireCode(t *testing.T, err error, code pkgerrors.Code, message string) {
	t.Helper()
	require.Error(t, err)
	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed), "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
	if message != "" {
		assert.Equal(t, message, typed.Message())
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)

	conn := newContactsTestDB(t)
	_, err = NewService(ServiceParams{Repo: NewRepository(conn)})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Repo: NewRepository(conn), Tx: db.NewFromGorm(conn)})
	require.Error(t, err)
}

func TestCreateAddsEntryToBook(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	res, err := env.svc.Create(ctx, 1, CreateContactInput{
		Email:       "  ada@example.com ",
		Name:        " Ada ",
		PhoneNumber: strPtr("555-0100"),
		Company:     strPtr(""),
	})
	require.NoError(t, err)
	assert.True(t, res.Status)
	assert.Equal(t, MsgCreated, res.Message)
	assert.NotZero(t, res.ContactDetailsID)

	page, err := env.svc.List(ctx, 1, "1")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	item := page.Items[0]
	assert.Equal(t, res.ContactDetailsID, item.ContactDetailsID)
	assert.Equal(t, "Ada", item.Name)
	assert.Equal(t, "ada@example.com", item.Email)
	require.NotNil(t, item.PhoneNumber)
	assert.Equal(t, "555-0100", *item.PhoneNumber)
	assert.Nil(t, item.Company)

	var details models.ContactDetails
	require.NoError(t, env.db.First(&details, res.ContactDetailsID).Error)
	assert.Equal(t, int64(1), details.CreatedBy)
}

func TestCreateSharesContactAcrossUsers(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	a, err := env.svc.Create(ctx, 1, CreateContactInput{Email: "x@example.com", Name: "X"})
	require.NoError(t, err)
	b, err := env.svc.Create(ctx, 2, CreateContactInput{Email: "x@example.com", Name: "Mr X"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ContactDetailsID, b.ContactDetailsID)

	var contacts int64
	require.NoError(t, env.db.Model(&models.Contact{}).Count(&contacts).Error)
	assert.EqualValues(t, 1, contacts)

	var detailRows []models.ContactDetails
	require.NoError(t, env.db.Find(&detailRows).Error)
	require.Len(t, detailRows, 2)
	assert.Equal(t, detailRows[0].ContactID, detailRows[1].ContactID)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	cases := []CreateContactInput{
		{Email: "", Name: "Ada"},
		{Email: "not-an-email", Name: "Ada"},
		{Email: "ada@example.com", Name: "   "},
		{Email: "ada@example.com", Name: "Ada", PhoneNumber: strPtr(strings.Repeat("1", 33))},
	}
	for i, input := range cases {
		_, err := env.svc.Create(ctx, 1, input)
		assert.Error(t, err, "case %d", i)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.ContactDetails{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRequiresUser(t *testing.T) {
	env := newTestService(t)
	_, err := env.svc.Create(context.Background(), 0, CreateContactInput{Email: "a@example.com", Name: "A"})
	requireCode(t, err, pkgerrors.CodeUnauthorized, "")
}

func TestCreateConcurrentSameEmailConverges(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Create(ctx, int64(i+1), CreateContactInput{Email: "race@example.com", Name: fmt.Sprintf("R%d", i)})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var contacts int64
	require.NoError(t, env.db.Model(&models.Contact{}).Where("is_deleted = ?", false).Count(&contacts).Error)
	assert.EqualValues(t, 1, contacts)
}

func TestUpdatePartialKeepsUnsetFields(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, CreateContactInput{
		Email:   "ada@example.com",
		Name:    "Ada",
		Company: strPtr("Engines Ltd"),
		Notes:   strPtr("met at the salon"),
	})
	require.NoError(t, err)

	res, err := env.svc.Update(ctx, 1, UpdateContactInput{
		ContactDetailsID: created.ContactDetailsID,
		Name:             strPtr("Ada Lovelace"),
		Notes:            strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, MsgUpdated, res.Message)

	var details models.ContactDetails
	require.NoError(t, env.db.First(&details, created.ContactDetailsID).Error)
	assert.Equal(t, "Ada Lovelace", details.Name)
	require.NotNil(t, details.Company)
	assert.Equal(t, "Engines Ltd", *details.Company)
	assert.Nil(t, details.Notes)
}

func TestUpdateEmailRepointsContact(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, CreateContactInput{Email: "old@example.com", Name: "Ada"})
	require.NoError(t, err)

	_, err = env.svc.Update(ctx, 1, UpdateContactInput{
		ContactDetailsID: created.ContactDetailsID,
		Email:            strPtr("new@example.com"),
	})
	require.NoError(t, err)

	page, err := env.svc.List(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "new@example.com", page.Items[0].Email)
	assert.Equal(t, "Ada", page.Items[0].Name)
}

func TestUpdateErrors(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, CreateContactInput{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)

	_, err = env.svc.Update(ctx, 1, UpdateContactInput{})
	requireCode(t, err, pkgerrors.CodeBadRequest, MsgDetailsRequired)

	_, err = env.svc.Update(ctx, 1, UpdateContactInput{ContactDetailsID: 9999, Name: strPtr("x")})
	requireCode(t, err, pkgerrors.CodeBadRequest, MsgDetailsMissing)

	_, err = env.svc.Update(ctx, 2, UpdateContactInput{ContactDetailsID: created.ContactDetailsID, Name: strPtr("Hijack")})
	requireCode(t, err, pkgerrors.CodeForbidden, permissionDeniedMessage)

	_, err = env.svc.Update(ctx, 1, UpdateContactInput{ContactDetailsID: created.ContactDetailsID, Email: strPtr("bad")})
	require.Error(t, err)

	var details models.ContactDetails
	require.NoError(t, env.db.First(&details, created.ContactDetailsID).Error)
	assert.Equal(t, "Ada", details.Name)
}

func TestDeleteHidesEntryAndTombstonesDetails(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, CreateContactInput{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)

	res, err := env.svc.Delete(ctx, 1, created.ContactDetailsID)
	require.NoError(t, err)
	assert.Equal(t, MsgDeleted, res.Message)

	_, err = env.svc.List(ctx, 1, "")
	requireCode(t, err, pkgerrors.CodeBadRequest, MsgNoContacts)

	var details models.ContactDetails
	require.NoError(t, env.db.First(&details, created.ContactDetailsID).Error)
	assert.True(t, details.IsDeleted)

	_, err = env.svc.Delete(ctx, 1, created.ContactDetailsID)
	requireCode(t, err, pkgerrors.CodeBadRequest, MsgContactMissing)
}

func TestDeleteKeepsSharedDetailsForOtherOwners(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, CreateContactInput{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.UserContactMapping{UserID: 2, ContactDetailsID: created.ContactDetailsID}).Error)

	_, err = env.svc.Delete(ctx, 2, created.ContactDetailsID)
	require.NoError(t, err)

	var details models.ContactDetails
	require.NoError(t, env.db.First(&details, created.ContactDetailsID).Error)
	assert.False(t, details.IsDeleted)

	page, err := env.svc.List(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = env.svc.List(ctx, 2, "")
	requireCode(t, err, pkgerrors.CodeBadRequest, MsgNoContacts)
}

func TestDeleteErrors(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, 1, CreateContactInput{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)

	_, err = env.svc.Delete(ctx, 1, 0)
	requireCode(t, err, pkgerrors.CodeBadRequest, MsgDetailsRequired)

	_, err = env.svc.Delete(ctx, 1, 4242)
	requireCode(t, err, pkgerrors.CodeBadRequest, MsgContactMissing)

	_, err = env.svc.Delete(ctx, 3, created.ContactDetailsID)
	requireCode(t, err, pkgerrors.CodeForbidden, "")
}

func TestListPaginates(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		_, err := env.svc.Create(ctx, 1, CreateContactInput{Email: fmt.Sprintf("c%02d@example.com", i), Name: fmt.Sprintf("C%02d", i)})
		require.NoError(t, err)
	}

	first, err := env.svc.List(ctx, 1, "abc")
	require.NoError(t, err)
	assert.Equal(t, pagination.OutcomeCoercedToFirstPage, first.Outcome)
	require.Len(t, first.Items, 10)
	assert.Equal(t, "C00", first.Items[0].Name)

	last, err := env.svc.List(ctx, 1, "3")
	require.NoError(t, err)
	require.Len(t, last.Items, 3)
	assert.Equal(t, "C22", last.Items[2].Name)
	assert.Equal(t, 3, last.Meta.TotalPages)

	beyond, err := env.svc.List(ctx, 1, "4")
	require.NoError(t, err)
	assert.True(t, beyond.Empty())
}

func TestSearchReturnsEmptyPageOnNoMatch(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, 1, CreateContactInput{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)

	page, err := env.svc.Search(ctx, 1, "Zed", "1")
	require.NoError(t, err)
	assert.Equal(t, pagination.OutcomeOK, page.Outcome)
	assert.Empty(t, page.Items)

	hit, err := env.svc.Search(ctx, 1, "ADA@EXAMPLE.COM", "")
	require.NoError(t, err)
	assert.Len(t, hit.Items, 1)

	other, err := env.svc.Search(ctx, 2, "Ada", "")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestOperationsAreRecorded(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	_, _ = env.svc.Create(ctx, 1, CreateContactInput{Email: "ada@example.com", Name: "Ada"})
	_, _ = env.svc.List(ctx, 2, "")

	require.Len(t, env.recorder.ops, 2)
	assert.Equal(t, operationCreate, env.recorder.ops[0].operation)
	assert.NoError(t, env.recorder.ops[0].err)
	assert.Equal(t, operationList, env.recorder.ops[1].operation)
	assert.Error(t, env.recorder.ops[1].err)
}

type failingRepo struct {
	Repository
	err error
}

func (f failingRepo) WithTx(*gorm.DB) Repository { return f }

func (f failingRepo) ListUserContacts(context.Context, int64) ([]ContactRecord, error) {
	return nil, f.err
}

func (f failingRepo) GetOrCreateContact(context.Context, string) (*models.Contact, error) {
	return nil, f.err
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func TestRepositoryFailuresSurfaceAsDependencyErrors(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Repo:      failingRepo{err: errors.New("connection reset")},
		Tx:        passthroughTx{},
		Validator: validator.New(),
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.List(ctx, 1, "")
	requireCode(t, err, pkgerrors.CodeDependency, "")

	_, err = svc.Create(ctx, 1, CreateContactInput{Email: "a@example.com", Name: "A"})
	requireCode(t, err, pkgerrors.CodeDependency, "")
}
