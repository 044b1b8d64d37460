package leads

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 50

var (
	// ErrEmptyCSV indicates the file parsed but contained no data rows.
	ErrEmptyCSV = errors.New("leads: no data found in csv file")
	// ErrMissingEmailColumn indicates the header lacks the required email column.
	ErrMissingEmailColumn = errors.New("leads: missing required column email")
	errMissingDatabase    = errors.New("database handle is required")

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonAlnum     = regexp.MustCompile(`[^a-z0-9]+`)
)

// headerAliases maps normalized variants of known external headers to
// their canonical field names.
var headerAliases = map[string]string{
	"e_mail":       "email",
	"mail":         "email",
	"so_media":     "so_media",
	"so":           "so_media",
	"firstname":    "first_name",
	"lastname":     "last_name",
	"phone_number": "phone",
	"date":         "created_date",
	"created":      "created_date",
	"geo":          "country",
	"status":       "call_status",
}

// Result summarizes one ingest. Per-row problems are counted, never
// surfaced individually.
type Result struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// IngestorConfig bundles the ingest pipeline's dependencies.
type IngestorConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Ingestor parses uploaded CSV text and upserts leads into the
// destination store in fixed-size batches.
type Ingestor struct {
	db     *gorm.DB
	logger *zap.Logger
	clock  func() time.Time
}

// NewIngestor constructs the ingest pipeline.
func NewIngestor(cfg IngestorConfig) (*Ingestor, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("leads: %w", errMissingDatabase)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Ingestor{db: cfg.Database, logger: logger, clock: clock}, nil
}

// Ingest reads CSV text and upserts every valid row keyed on
// (email, created_date). Rows with malformed emails are dropped and
// counted as failed. Only file-level malformation (unparseable CSV, no
// rows, missing email column) returns an error.
func (i *Ingestor) Ingest(ctx context.Context, reader io.Reader) (Result, error) {
	records, columns, err := i.parse(reader)
	if err != nil {
		return Result{}, err
	}

	result := Result{Total: len(records)}
	batch := make([]Lead, 0, batchSize)
	for _, record := range records {
		lead, ok := i.buildLead(record, columns)
		if !ok {
			result.Failed++
			continue
		}
		batch = append(batch, lead)
		if len(batch) == batchSize {
			i.flush(ctx, batch, &result)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		i.flush(ctx, batch, &result)
	}

	i.logger.Info("lead csv ingested",
		zap.Int("total", result.Total),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (i *Ingestor) parse(reader io.Reader) ([][]string, map[string]int, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyCSV
		}
		return nil, nil, fmt.Errorf("leads: read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for index, name := range header {
		columns[canonicalHeader(name)] = index
	}
	if _, ok := columns["email"]; !ok {
		return nil, nil, ErrMissingEmailColumn
	}

	var records [][]string
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("leads: csv parsing failed: %w", err)
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyCSV
	}
	return records, columns, nil
}

// canonicalHeader lowercases, collapses non-alphanumerics to
// underscores, trims, then resolves known aliases, so headers like
// "SO (Media)" land on so_media.
func canonicalHeader(name string) string {
	normalized := strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if canonical, ok := headerAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

func (i *Ingestor) buildLead(record []string, columns map[string]int) (Lead, bool) {
	field := func(name string) string {
		index, ok := columns[name]
		if !ok || index >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[index])
	}

	email := strings.ToLower(field("email"))
	if !emailPattern.MatchString(email) {
		return Lead{}, false
	}

	createdDate := field("created_date")
	if createdDate == "" {
		createdDate = i.clock().UTC().Format(time.RFC3339)
	}
	callStatus := field("call_status")
	if callStatus == "" {
		callStatus = "NEW"
	}

	lead := Lead{
		Email:       email,
		CreatedDate: createdDate,
		Country:     field("country"),
		Campaign:    field("campaign"),
		Affiliate:   field("affiliate"),
		Box:         field("box"),
		CallStatus:  callStatus,
		SoMedia:     field("so_media"),
		FirstName:   field("first_name"),
		LastName:    field("last_name"),
		Phone:       field("phone"),
	}
	if deposit := field("deposit_date"); deposit != "" {
		lead.DepositDate = &deposit
	}
	// original_response carries embedded JSON; invalid payloads are
	// dropped silently rather than failing the row.
	if response := field("original_response"); response != "" && json.Valid([]byte(response)) {
		lead.OriginalResponse = &response
	}
	return lead, true
}

// flush upserts one batch. Inserted and updated are segmented by a
// pre-upsert existence check on the batch keys, since a native upsert
// does not report which conflict path each row took.
func (i *Ingestor) flush(ctx context.Context, batch []Lead, result *Result) {
	// Postgres rejects a multi-row upsert touching the same key twice,
	// so duplicate keys within a batch collapse to the last row.
	deduped := make([]Lead, 0, len(batch))
	position := make(map[string]int, len(batch))
	for _, lead := range batch {
		key := leadKey(lead.Email, lead.CreatedDate)
		if at, ok := position[key]; ok {
			deduped[at] = lead
			continue
		}
		position[key] = len(deduped)
		deduped = append(deduped, lead)
	}
	collapsed := len(batch) - len(deduped)
	batch = deduped

	existing, err := i.existingKeys(ctx, batch)
	if err != nil {
		i.logger.Error("lead batch lookup failed", zap.Error(err))
		result.Failed += len(batch) + collapsed
		return
	}

	err = i.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}, {Name: "created_date"}},
			UpdateAll: true,
		}).
		Create(&batch).Error
	if err != nil {
		i.logger.Error("lead batch upsert failed", zap.Error(err))
		result.Failed += len(batch) + collapsed
		return
	}

	result.Updated += collapsed

	for _, lead := range batch {
		if _, ok := existing[leadKey(lead.Email, lead.CreatedDate)]; ok {
			result.Updated++
		} else {
			result.Inserted++
		}
	}
}

func (i *Ingestor) existingKeys(ctx context.Context, batch []Lead) (map[string]struct{}, error) {
	emails := make([]string, 0, len(batch))
	for _, lead := range batch {
		emails = append(emails, lead.Email)
	}

	var stored []Lead
	if err := i.db.WithContext(ctx).
		Select("email", "created_date").
		Where("email IN ?", emails).
		Find(&stored).Error; err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(stored))
	for _, lead := range stored {
		keys[leadKey(lead.Email, lead.CreatedDate)] = struct{}{}
	}
	return keys, nil
}

func leadKey(email, createdDate string) string {
	return email + "\x00" + createdDate
}

// List returns stored leads, newest first, for the dashboard table.
func (i *Ingestor) List(ctx context.Context) ([]Lead, error) {
	var rows []Lead
	if err := i.db.WithContext(ctx).
		Order("created_date DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("leads: list: %w", err)
	}
	return rows, nil
}
