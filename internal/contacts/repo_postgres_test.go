package contacts

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/angelmondragon/contactbook-backend/internal/repo"
	"github.com/angelmondragon/contactbook-backend/pkg/db/models"
)

// openPostgresTestDB expects a database already migrated with cmd/migrate.
func openPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("CONTACTBOOK_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("CONTACTBOOK_TEST_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestNameContainsClausePerDialect(t *testing.T) {
	pg, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=contactbook dbname=contactbook sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	pgRepo := &repository{Base: repo.NewBase(pg)}
	assert.Equal(t, "strpos(cd.name, ?) > 0", pgRepo.nameContainsClause())

	liteRepo := &repository{Base: repo.NewBase(newContactsTestDB(t))}
	assert.Equal(t, "instr(cd.name, ?) > 0", liteRepo.nameContainsClause())
}

func TestSearchUserContactsOnPostgres(t *testing.T) {
	conn := openPostgresTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	r := NewRepository(tx)
	ctx := context.Background()
	suffix := uuid.NewString()

	owner := &models.User{Email: fmt.Sprintf("owner_%s@example.com", suffix), PasswordHash: "x", FirstName: "O", LastName: "W"}
	other := &models.User{Email: fmt.Sprintf("other_%s@example.com", suffix), PasswordHash: "x", FirstName: "O", LastName: "T"}
	require.NoError(t, tx.Create(owner).Error)
	require.NoError(t, tx.Create(other).Error)

	adaEmail := fmt.Sprintf("Ada_%s@Example.com", suffix)
	seedEntry(t, r, owner.ID, adaEmail, "Ada Lovelace")
	seedEntry(t, r, owner.ID, fmt.Sprintf("grace_%s@example.com", suffix), "Grace Hopper")
	seedEntry(t, r, other.ID, fmt.Sprintf("alan_%s@example.com", suffix), "Ada Turing")

	byName, err := r.SearchUserContacts(ctx, owner.ID, "Love")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Ada Lovelace", byName[0].Name)

	caseSensitive, err := r.SearchUserContacts(ctx, owner.ID, "love")
	require.NoError(t, err)
	assert.Empty(t, caseSensitive)

	byEmail, err := r.SearchUserContacts(ctx, owner.ID, fmt.Sprintf("ada_%s@example.COM", suffix))
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, adaEmail, byEmail[0].Email)

	partialEmail, err := r.SearchUserContacts(ctx, owner.ID, "@example.com")
	require.NoError(t, err)
	assert.Empty(t, partialEmail)

	everything, err := r.SearchUserContacts(ctx, owner.ID, "")
	require.NoError(t, err)
	assert.Len(t, everything, 2)
}
