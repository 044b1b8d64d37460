package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leadkitchen/dealdesk/internal/catalog"
	"github.com/leadkitchen/dealdesk/internal/notion"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingDatabase  = errors.New("database handle is required")
	errMissingWorkspace = errors.New("workspace reader is required")
	errMissingGuard     = errors.New("sync guard is required")
	errMissingSources   = errors.New("at least one collection source is required")
	noOpLogger          = zap.NewNop()
)

// WorkspaceReader is the read surface the orchestrator needs from the
// workspace store: full enumeration of a collection, pagination hidden
// behind the call.
type WorkspaceReader interface {
	QueryAll(ctx context.Context, databaseID string) ([]notion.Page, error)
}

// CollectionSource binds a mapped collection to its workspace database
// identifier.
type CollectionSource struct {
	Collection catalog.Collection
	DatabaseID string
}

// ServiceConfig bundles the orchestrator's dependencies.
type ServiceConfig struct {
	Database  *gorm.DB
	Workspace WorkspaceReader
	Guard     *Guard
	Sources   []CollectionSource
	Logger    *zap.Logger
	Clock     func() time.Time
	// OnComplete, when set, receives every non-skipped report after the
	// run finishes. Used to feed the dashboard event stream.
	OnComplete func(*Report)
}

// Service copies the workspace collections into the destination store.
// Sync is best-effort: per-record failures are recorded and skipped,
// and partial completion is an accepted terminal state.
type Service struct {
	db         *gorm.DB
	workspace  WorkspaceReader
	guard      *Guard
	sources    []CollectionSource
	logger     *zap.Logger
	clock      func() time.Time
	onComplete func(*Report)
}

// NewService constructs the orchestrator with validated configuration.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("syncer: %w", errMissingDatabase)
	}
	if cfg.Workspace == nil {
		return nil, fmt.Errorf("syncer: %w", errMissingWorkspace)
	}
	if cfg.Guard == nil {
		return nil, fmt.Errorf("syncer: %w", errMissingGuard)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("syncer: %w", errMissingSources)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		db:         cfg.Database,
		workspace:  cfg.Workspace,
		guard:      cfg.Guard,
		sources:    cfg.Sources,
		logger:     logger,
		clock:      clock,
		onComplete: cfg.OnComplete,
	}, nil
}

// Run enumerates every configured collection, maps each record, and
// upserts it by notion_id. The four collections run concurrently; a
// collection whose enumeration fails outright is recorded and skipped
// while its siblings complete. Within the cooldown window Run is a
// no-op returning an empty report with no external calls made.
func (s *Service) Run(ctx context.Context) *Report {
	start := s.clock().UTC()
	names := make([]string, 0, len(s.sources))
	for _, source := range s.sources {
		names = append(names, source.Collection.Name)
	}
	report := newReport(uuid.NewString(), start, names)

	if !s.guard.Begin() {
		s.logger.Info("skipping sync, cooldown window still open",
			zap.Duration("cooldown", s.guard.Cooldown()))
		report.Skipped = true
		report.finish(s.clock().UTC())
		return report
	}

	// An admitted run must finish even if the triggering request goes
	// away; only the guard decides when a run ends.
	ctx = context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for _, source := range s.sources {
		wg.Add(1)
		go func(source CollectionSource) {
			defer wg.Done()
			s.syncCollection(ctx, source, report)
		}(source)
	}
	wg.Wait()

	end := s.clock().UTC()
	report.finish(end)
	s.guard.Complete(end)

	s.logger.Info("sync run finished",
		zap.String("run_id", report.RunID),
		zap.Int("records", report.Total()),
		zap.Int("errors", len(report.Errors)),
		zap.Int64("duration_ms", report.DurationMillis))

	if s.onComplete != nil {
		s.onComplete(report)
	}
	return report
}

func (s *Service) syncCollection(ctx context.Context, source CollectionSource, report *Report) {
	name := source.Collection.Name

	pages, err := s.workspace.QueryAll(ctx, source.DatabaseID)
	if err != nil {
		// Enumeration failure aborts this collection only.
		s.logger.Error("collection enumeration failed",
			zap.String("collection", name),
			zap.Error(err))
		report.addError(name, fmt.Errorf("query collection: %w", err))
		return
	}

	for _, page := range pages {
		if err := s.upsertPage(ctx, source, page); err != nil {
			s.logger.Warn("record sync failed",
				zap.String("collection", name),
				zap.String("notion_id", page.ID),
				zap.Error(err))
			report.addError(name, err)
			continue
		}
		report.addSuccess(name)
	}
}

func (s *Service) upsertPage(ctx context.Context, source CollectionSource, page notion.Page) error {
	if mismatched := catalog.MismatchedFields(page.Properties, source.Collection.Fields); len(mismatched) > 0 {
		s.logger.Debug("property variant mismatch, degrading to defaults",
			zap.String("collection", source.Collection.Name),
			zap.String("notion_id", page.ID),
			zap.Strings("columns", mismatched))
	}

	row := catalog.MapProperties(page.Properties, source.Collection.Fields)
	row["notion_id"] = page.ID
	row["created_at"] = page.CreatedTime
	row["updated_at"] = page.LastEditedTime
	row["last_synced_at"] = s.clock().UTC()

	assignments := make(map[string]any, len(row))
	for column, value := range row {
		if column == "notion_id" {
			continue
		}
		assignments[column] = value
	}

	return s.db.WithContext(ctx).
		Table(source.Collection.Table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "notion_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(row).Error
}
