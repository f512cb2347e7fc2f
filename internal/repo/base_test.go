package repo

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestNewBaseStoresConnection(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	if base.db != db {
		t.Fatalf("expected base db to match provided connection")
	}
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)

	if withCtx == nil {
		t.Fatalf("expected non-nil DB when context provided")
	}
	if withCtx.Statement == nil {
		t.Fatalf("expected statement created after WithContext")
	}
	if withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", withCtx.Statement.Context)
	}

	withoutCtx := base.DB(nil)
	if withoutCtx != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseWithTxRebinds(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	tx := db.Session(&gorm.Session{NewDB: true})
	rebound := base.WithTx(tx)
	if rebound.db != tx {
		t.Fatalf("expected rebound base to use tx handle")
	}
	if same := base.WithTx(nil); same.db != db {
		t.Fatalf("expected nil tx to keep the original connection")
	}
}

func TestBaseDialect(t *testing.T) {
	if got := NewBase(newTestDB(t)).Dialect(); got != "sqlite" {
		t.Fatalf("expected sqlite dialect, got %q", got)
	}
	if got := NewBase(nil).Dialect(); got != "" {
		t.Fatalf("expected empty dialect for nil db, got %q", got)
	}
}
