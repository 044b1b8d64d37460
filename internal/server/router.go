package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/leadkitchen/dealdesk/internal/catalog"
	"github.com/leadkitchen/dealdesk/internal/leads"
	"github.com/leadkitchen/dealdesk/internal/syncer"
	"go.uber.org/zap"
)

var (
	errMissingSyncRunner   = errors.New("sync runner dependency required")
	errMissingCatalog      = errors.New("catalog service dependency required")
	errMissingLeadIngestor = errors.New("lead ingestor dependency required")
	errMissingDispatcher   = errors.New("event dispatcher dependency required")
)

// SyncRunner triggers one sync run and reports its outcome.
type SyncRunner interface {
	Run(ctx context.Context) *syncer.Report
}

// CatalogReader serves stored collection rows and pushes edits back to
// the workspace store.
type CatalogReader interface {
	List(ctx context.Context, collectionName string) ([]map[string]any, error)
	Push(ctx context.Context, collectionName, notionID string) error
}

// LeadIngestor accepts CSV uploads and lists stored leads.
type LeadIngestor interface {
	Ingest(ctx context.Context, reader io.Reader) (leads.Result, error)
	List(ctx context.Context) ([]leads.Lead, error)
}

type Dependencies struct {
	SyncRunner   SyncRunner
	Catalog      CatalogReader
	LeadIngestor LeadIngestor
	Dispatcher   *EventDispatcher
	Logger       *zap.Logger
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.SyncRunner == nil {
		return nil, errMissingSyncRunner
	}
	if deps.Catalog == nil {
		return nil, errMissingCatalog
	}
	if deps.LeadIngestor == nil {
		return nil, errMissingLeadIngestor
	}
	if deps.Dispatcher == nil {
		return nil, errMissingDispatcher
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		sync:       deps.SyncRunner,
		catalog:    deps.Catalog,
		ingestor:   deps.LeadIngestor,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}

	api := router.Group("/api")
	api.GET("/sync", handler.handleSync)
	api.POST("/sync", handler.handleSync)
	api.GET("/sync/events", handler.handleSyncEvents)
	api.POST("/leads/upload", handler.handleLeadUpload)
	api.GET("/leads", handler.handleListLeads)
	for _, name := range []string{"deals", "offers", "brands", "advertisers"} {
		api.GET("/"+name, handler.listCollection(name))
	}
	api.POST("/:collection/:id/push", handler.handlePush)

	return router, nil
}

type httpHandler struct {
	sync       SyncRunner
	catalog    CatalogReader
	ingestor   LeadIngestor
	dispatcher *EventDispatcher
	logger     *zap.Logger
}

func (h *httpHandler) handleSync(c *gin.Context) {
	report := h.sync.Run(c.Request.Context())
	c.JSON(http.StatusOK, report)
}

func (h *httpHandler) handleSyncEvents(c *gin.Context) {
	stream, cleanup := h.dispatcher.Subscribe(c.Request.Context())
	defer cleanup()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-stream:
			if !ok {
				return
			}
			c.SSEvent(event.EventType, event)
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent(syncEventHeartbeat, gin.H{"timestamp": time.Now().UTC()})
			c.Writer.Flush()
		}
	}
}

func (h *httpHandler) handleLeadUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_file"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_file_type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload_failed"})
		return
	}
	defer file.Close()

	result, err := h.ingestor.Ingest(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, leads.ErrEmptyCSV) || errors.Is(err, leads.ErrMissingEmailColumn) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("lead ingest failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest_failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *httpHandler) handleListLeads(c *gin.Context) {
	stored, err := h.ingestor.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list leads", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": stored, "count": len(stored)})
}

func (h *httpHandler) listCollection(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := h.catalog.List(c.Request.Context(), name)
		if err != nil {
			h.logger.Error("failed to list collection",
				zap.String("collection", name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"collection": name, "rows": rows, "count": len(rows)})
	}
}

func (h *httpHandler) handlePush(c *gin.Context) {
	collection := c.Param("collection")
	notionID := c.Param("id")

	err := h.catalog.Push(c.Request.Context(), collection, notionID)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"collection": collection, "id": notionID, "pushed": true})
		return
	}

	var missing *catalog.MissingRequiredFieldError
	switch {
	case errors.Is(err, catalog.ErrUnknownCollection):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_collection"})
	case errors.Is(err, catalog.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record_not_found"})
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "missing_required_field",
			"column": missing.Column,
		})
	default:
		h.logger.Error("push failed",
			zap.String("collection", collection), zap.String("id", notionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "push_failed"})
	}
}
