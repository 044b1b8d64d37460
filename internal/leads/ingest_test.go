package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newLeadsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Lead{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestIngestor(t *testing.T, db *gorm.DB) *Ingestor {
	t.Helper()
	ingestor, err := NewIngestor(IngestorConfig{
		Database: db,
		Clock:    func() time.Time { return time.Unix(1700000000, 0).UTC() },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ingestor
}

func TestIngestCountsInsertedAndFailed(t *testing.T) {
	db := newLeadsTestDB(t)
	ingestor := newTestIngestor(t, db)

	csvText := "email,first_name\nfoo@bar.com,Foo\nnotanemail,Bar\n"
	result, err := ingestor.Ingest(context.Background(), strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 1 || result.Updated != 0 || result.Failed != 1 || result.Total != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var stored Lead
	if err := db.Where("email = ?", "foo@bar.com").Take(&stored).Error; err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if stored.FirstName != "Foo" {
		t.Fatalf("unexpected first name %q", stored.FirstName)
	}
	if stored.CallStatus != "NEW" {
		t.Fatalf("expected default call status NEW, got %q", stored.CallStatus)
	}
	if stored.CreatedDate == "" {
		t.Fatalf("expected created_date to default from the clock")
	}
}

func TestIngestUpdatesExistingLead(t *testing.T) {
	db := newLeadsTestDB(t)
	ingestor := newTestIngestor(t, db)

	first := "email,first_name\nfoo@bar.com,Foo\nnotanemail,Bar\n"
	if _, err := ingestor.Ingest(context.Background(), strings.NewReader(first)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := "email,first_name\nfoo@bar.com,Foobar\nnotanemail,Bar\n"
	result, err := ingestor.Ingest(context.Background(), strings.NewReader(second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 0 || result.Updated != 1 || result.Failed != 1 || result.Total != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var count int64
	if err := db.Model(&Lead{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 1 {
		t.Fatalf("re-ingest must not duplicate rows, got %d", count)
	}
	var stored Lead
	if err := db.Where("email = ?", "foo@bar.com").Take(&stored).Error; err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if stored.FirstName != "Foobar" {
		t.Fatalf("expected updated first name, got %q", stored.FirstName)
	}
}

func TestIngestNormalizesHeadersAndEmail(t *testing.T) {
	db := newLeadsTestDB(t)
	ingestor := newTestIngestor(t, db)

	csvText := "E-Mail,FirstName,SO (Media),GEO,Date\nUPPER@Bar.com,Ana,facebook,BR,2026-02-01\n"
	result, err := ingestor.Ingest(context.Background(), strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 1 || result.Total != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var stored Lead
	if err := db.Take(&stored).Error; err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if stored.Email != "upper@bar.com" {
		t.Fatalf("expected lowercased email, got %q", stored.Email)
	}
	if stored.FirstName != "Ana" || stored.SoMedia != "facebook" || stored.Country != "BR" {
		t.Fatalf("aliased headers must resolve, got %+v", stored)
	}
	if stored.CreatedDate != "2026-02-01" {
		t.Fatalf("expected created_date from csv, got %q", stored.CreatedDate)
	}
}

func TestIngestSameEmailDifferentDatesInsertsBoth(t *testing.T) {
	db := newLeadsTestDB(t)
	ingestor := newTestIngestor(t, db)

	csvText := "email,created\nfoo@bar.com,2026-01-01\nfoo@bar.com,2026-01-02\n"
	result, err := ingestor.Ingest(context.Background(), strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 2 || result.Updated != 0 {
		t.Fatalf("distinct dates are distinct leads, got %+v", result)
	}
}

func TestIngestCollapsesDuplicateKeysWithinBatch(t *testing.T) {
	db := newLeadsTestDB(t)
	ingestor := newTestIngestor(t, db)

	// No date column: both rows take the same clock default, so they
	// share the (email, created_date) key inside one batch.
	csvText := "email,first_name\nfoo@bar.com,First\nfoo@bar.com,Second\n"
	result, err := ingestor.Ingest(context.Background(), strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Inserted != 1 || result.Updated != 1 || result.Failed != 0 || result.Total != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var count int64
	if err := db.Model(&Lead{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate keys must collapse to one row, got %d", count)
	}
	var stored Lead
	if err := db.Where("email = ?", "foo@bar.com").Take(&stored).Error; err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if stored.FirstName != "Second" {
		t.Fatalf("last row must win, got %q", stored.FirstName)
	}
}

func TestIngestDropsInvalidOriginalResponse(t *testing.T) {
	db := newLeadsTestDB(t)
	ingestor := newTestIngestor(t, db)

	csvText := "email,original_response\nfoo@bar.com,notjson\nbaz@bar.com,\"{\"\"ok\"\":true}\"\n"
	if _, err := ingestor.Ingest(context.Background(), strings.NewReader(csvText)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var invalid Lead
	if err := db.Where("email = ?", "foo@bar.com").Take(&invalid).Error; err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if invalid.OriginalResponse != nil {
		t.Fatalf("invalid json must be dropped, got %q", *invalid.OriginalResponse)
	}
	var valid Lead
	if err := db.Where("email = ?", "baz@bar.com").Take(&valid).Error; err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if valid.OriginalResponse == nil || *valid.OriginalResponse != `{"ok":true}` {
		t.Fatalf("valid json must be kept, got %v", valid.OriginalResponse)
	}
}

func TestIngestRejectsFileLevelProblems(t *testing.T) {
	db := newLeadsTestDB(t)
	ingestor := newTestIngestor(t, db)

	_, err := ingestor.Ingest(context.Background(), strings.NewReader(""))
	if !errors.Is(err, ErrEmptyCSV) {
		t.Fatalf("expected empty csv error, got %v", err)
	}

	_, err = ingestor.Ingest(context.Background(), strings.NewReader("email\n"))
	if !errors.Is(err, ErrEmptyCSV) {
		t.Fatalf("expected empty csv error for header-only file, got %v", err)
	}

	_, err = ingestor.Ingest(context.Background(), strings.NewReader("first_name,phone\nFoo,123\n"))
	if !errors.Is(err, ErrMissingEmailColumn) {
		t.Fatalf("expected missing email column error, got %v", err)
	}
}

func TestIngestBatchesLargeFiles(t *testing.T) {
	db := newLeadsTestDB(t)
	ingestor := newTestIngestor(t, db)

	var builder strings.Builder
	builder.WriteString("email,created\n")
	for index := 0; index < 120; index++ {
		fmt.Fprintf(&builder, "lead%d@example.com,2026-01-15\n", index)
	}

	result, err := ingestor.Ingest(context.Background(), strings.NewReader(builder.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 120 {
		t.Fatalf("expected 120 rows, got %d", result.Total)
	}
	if result.Inserted != 120 || result.Failed != 0 {
		t.Fatalf("every row must land across batches, got %+v", result)
	}

	var count int64
	if err := db.Model(&Lead{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 120 {
		t.Fatalf("expected 120 stored rows, got %d", count)
	}
}

func TestCanonicalHeader(t *testing.T) {
	cases := map[string]string{
		"E-Mail":     "email",
		" Email ":    "email",
		"SO (Media)": "so_media",
		"FirstName":  "first_name",
		"GEO":        "country",
		"Date":       "created_date",
		"Status":     "call_status",
		"Campaign":   "campaign",
	}
	for input, want := range cases {
		if got := canonicalHeader(input); got != want {
			t.Fatalf("canonicalHeader(%q) = %q, want %q", input, got, want)
		}
	}
}
