package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leadkitchen/dealdesk/internal/notion"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase  = errors.New("database handle is required")
	errMissingWorkspace = errors.New("workspace writer is required")
	// ErrRecordNotFound indicates no stored row carries the requested
	// workspace identifier.
	ErrRecordNotFound = errors.New("catalog: record not found")
	noOpLogger        = zap.NewNop()
)

const (
	opServiceNew = "catalog.service.new"
	opList       = "catalog.list"
	opPush       = "catalog.push"
)

// WorkspaceWriter is the single write operation the catalog needs from
// the workspace store.
type WorkspaceWriter interface {
	UpdatePage(ctx context.Context, pageID string, properties map[string]notion.PropertyValue) error
}

// ServiceConfig bundles the dependencies for the catalog service.
type ServiceConfig struct {
	Database  *gorm.DB
	Workspace WorkspaceWriter
	Logger    *zap.Logger
}

// Service serves stored destination rows and pushes edited rows back to
// the workspace store through the reverse mapper.
type Service struct {
	db        *gorm.DB
	workspace WorkspaceWriter
	logger    *zap.Logger
}

// NewService constructs the catalog service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("%s: %w", opServiceNew, errMissingDatabase)
	}
	if cfg.Workspace == nil {
		return nil, fmt.Errorf("%s: %w", opServiceNew, errMissingWorkspace)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{db: cfg.Database, workspace: cfg.Workspace, logger: logger}, nil
}

// List returns every stored row of a collection, most recently synced
// first.
func (s *Service) List(ctx context.Context, collectionName string) ([]map[string]any, error) {
	collection, err := CollectionByName(collectionName)
	if err != nil {
		return nil, err
	}

	rows := []map[string]any{}
	if err := s.db.WithContext(ctx).
		Table(collection.Table).
		Order("last_synced_at DESC").
		Find(&rows).Error; err != nil {
		s.logger.Error("catalog list failed",
			zap.String("operation", opList),
			zap.String("collection", collection.Name),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", opList, err)
	}
	return rows, nil
}

// Push reverse-maps the stored row identified by its workspace id and
// writes the resulting properties upstream. Validation of required
// identifying columns happens before any network call.
func (s *Service) Push(ctx context.Context, collectionName, notionID string) error {
	collection, err := CollectionByName(collectionName)
	if err != nil {
		return err
	}
	notionID = strings.TrimSpace(notionID)
	if notionID == "" {
		return fmt.Errorf("%s: %w", opPush, ErrRecordNotFound)
	}

	row := map[string]any{}
	err = s.db.WithContext(ctx).
		Table(collection.Table).
		Where("notion_id = ?", notionID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", opPush, ErrRecordNotFound)
	}
	if err != nil {
		s.logger.Error("catalog push read failed",
			zap.String("operation", opPush),
			zap.String("collection", collection.Name),
			zap.String("notion_id", notionID),
			zap.Error(err))
		return fmt.Errorf("%s: %w", opPush, err)
	}

	properties, err := collection.BuildProperties(row)
	if err != nil {
		return err
	}

	if err := s.workspace.UpdatePage(ctx, notionID, properties); err != nil {
		s.logger.Error("catalog push write failed",
			zap.String("operation", opPush),
			zap.String("collection", collection.Name),
			zap.String("notion_id", notionID),
			zap.Error(err))
		return fmt.Errorf("%s: %w", opPush, err)
	}

	s.logger.Info("pushed record to workspace store",
		zap.String("collection", collection.Name),
		zap.String("notion_id", notionID),
		zap.Time("at", time.Now().UTC()))
	return nil
}
