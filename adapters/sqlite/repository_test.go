package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/evolvus/dateformats/adapters/sqlite/gormsqlite"
	"github.com/evolvus/dateformats/domain"
	"github.com/evolvus/dateformats/migrations"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := gormsqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	sqlDB, err := db.WriteSQLDB()
	if err != nil {
		t.Fatalf("writer sql db: %v", err)
	}
	if err := migrations.Up(ctx, sqlDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return NewRepository(db)
}

func TestSaveAssignsIDAndDefaults(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	saved, err := repo.Save(ctx, domain.DateFormat{TenantID: "t1", FormatCode: "fmt1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected a store-assigned id")
	}
	if saved.EnabledFlag != domain.FlagEnabled {
		t.Fatalf("expected enabledFlag default %q, got %q", domain.FlagEnabled, saved.EnabledFlag)
	}
	if saved.TenantID != "t1" || saved.FormatCode != "fmt1" {
		t.Fatalf("saved record lost fields: %+v", saved)
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Fatal("expected bookkeeping timestamps to be set")
	}
}

func TestSaveDuplicateFormatCode(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	if _, err := repo.Save(ctx, domain.DateFormat{TenantID: "t1", FormatCode: "fmt1"}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	_, err := repo.Save(ctx, domain.DateFormat{TenantID: "t2", FormatCode: "fmt1"})
	var constraint *domain.ErrConstraintViolation
	if !errors.As(err, &constraint) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestSaveMissingRequiredFieldRejectedByStore(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	// The check constraints are the second line of defense behind the schema
	// validator.
	_, err := repo.Save(ctx, domain.DateFormat{TenantID: "t1"})
	var constraint *domain.ErrConstraintViolation
	if !errors.As(err, &constraint) {
		t.Fatalf("expected constraint violation for empty formatCode, got %v", err)
	}
}

func TestFindAllLimitSemantics(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, code := range []string{"fmt1", "fmt2", "fmt3"} {
		if _, err := repo.Save(ctx, domain.DateFormat{TenantID: "t1", FormatCode: code}); err != nil {
			t.Fatalf("seed save %s: %v", code, err)
		}
	}

	all, err := repo.FindAll(ctx, 0)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records with no limit, got %d", len(all))
	}

	capped, err := repo.FindAll(ctx, 2)
	if err != nil {
		t.Fatalf("find all limited: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("expected 2 records with limit 2, got %d", len(capped))
	}

	over, err := repo.FindAll(ctx, 10)
	if err != nil {
		t.Fatalf("find all over-limit: %v", err)
	}
	if len(over) != 3 {
		t.Fatalf("expected 3 records with limit 10, got %d", len(over))
	}
}

func TestFindOneAndFindMany(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	seed := []domain.DateFormat{
		{TenantID: "t1", FormatCode: "fmt1", TimeFormat: "HH:mm"},
		{TenantID: "t1", FormatCode: "fmt2", TimeFormat: "HH:mm"},
		{TenantID: "t2", FormatCode: "fmt3"},
	}
	for _, rec := range seed {
		if _, err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("seed save %s: %v", rec.FormatCode, err)
		}
	}

	rec, found, err := repo.FindOne(ctx, domain.Filter{Attribute: domain.AttrFormatCode, Value: "fmt2"})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if !found || rec.FormatCode != "fmt2" {
		t.Fatalf("expected fmt2, got found=%v rec=%+v", found, rec)
	}

	_, found, err = repo.FindOne(ctx, domain.Filter{Attribute: domain.AttrFormatCode, Value: "nope"})
	if err != nil {
		t.Fatalf("find one miss: %v", err)
	}
	if found {
		t.Fatal("expected a miss for unknown formatCode")
	}

	many, err := repo.FindMany(ctx, domain.Filter{Attribute: domain.AttrTenantID, Value: "t1"})
	if err != nil {
		t.Fatalf("find many: %v", err)
	}
	if len(many) != 2 {
		t.Fatalf("expected 2 records for tenant t1, got %d", len(many))
	}

	none, err := repo.FindMany(ctx, domain.Filter{Attribute: domain.AttrTenantID, Value: "absent"})
	if err != nil {
		t.Fatalf("find many miss: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}
}

func TestFindManyRejectsUnknownAttribute(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.FindMany(ctx, domain.Filter{Attribute: "evil; DROP TABLE", Value: "x"})
	if !errors.Is(err, domain.ErrIllegalArgument) {
		t.Fatalf("expected illegal argument, got %v", err)
	}
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	saved, err := repo.Save(ctx, domain.DateFormat{TenantID: "t1", FormatCode: "fmt1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	rec, found, err := repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if !found || rec.ID != saved.ID {
		t.Fatalf("expected saved record, got found=%v rec=%+v", found, rec)
	}

	_, found, err = repo.FindByID(ctx, "b2f3a8de-0000-4000-8000-000000000000")
	if err != nil {
		t.Fatalf("find by unknown id: %v", err)
	}
	if found {
		t.Fatal("expected a miss for unknown id")
	}

	_, _, err = repo.FindByID(ctx, "not-an-identifier")
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected invalid identifier, got %v", err)
	}
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, code := range []string{"fmt1", "fmt2"} {
		if _, err := repo.Save(ctx, domain.DateFormat{TenantID: "t1", FormatCode: code}); err != nil {
			t.Fatalf("seed save %s: %v", code, err)
		}
	}

	count, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 removed records, got %d", count)
	}

	all, err := repo.FindAll(ctx, 0)
	if err != nil {
		t.Fatalf("find all after delete: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %d records", len(all))
	}
}
