package main

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jphoke/tlsinspect/pkg/logger"
	"github.com/jphoke/tlsinspect/pkg/report"
	"github.com/jphoke/tlsinspect/pkg/store"
)

// scanStore is the persistence the API needs. *store.Store satisfies it.
type scanStore interface {
	CreateScan(ctx context.Context, domain string, priority int) (*store.Scan, error)
	GetScan(ctx context.Context, id string) (*store.Scan, error)
	ListScans(ctx context.Context, limit, offset int) ([]*store.Scan, error)
	Reports(ctx context.Context, id string) ([]*report.Report, error)
	ClaimNext(ctx context.Context) (*store.Scan, error)
	CompleteScan(ctx context.Context, id string, reports []*report.Report) error
	FailScan(ctx context.Context, id string, reason string) error
	QueueLength(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

type Server struct {
	store     scanStore
	updates   *updateBus
	log       *logger.Logger
	pollEvery time.Duration
}

type ScanRequest struct {
	Domain   string `json:"domain" binding:"required"`
	Priority int    `json:"priority" binding:"omitempty,min=0,max=10"`
}

type ScanResponse struct {
	ID      string    `json:"id"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

type ScanResultResponse struct {
	*store.Scan
	Reports []*report.Report `json:"reports"`
}

type ScanListResponse struct {
	Scans []*store.Scan `json:"scans"`
	Total int           `json:"total"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to configured origins once the API has a UI in front of it
		return true
	},
}

func (s *Server) routes(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	api := r.Group("/api/v1")
	{
		api.POST("/scans", s.createScan)
		api.GET("/scans", s.listScans)
		api.GET("/scans/:id", s.getScan)
		api.GET("/scans/:id/rows", s.getScanRows)
		api.GET("/scans/:id/stream", s.streamScan)
		api.GET("/health", s.healthCheck)
	}
}

// createScan godoc
// @Summary Submit a domain for TLS inspection
// @Accept json
// @Produce json
// @Param scan body ScanRequest true "Scan request"
// @Success 202 {object} ScanResponse
// @Router /scans [post]
func (s *Server) createScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domain, err := validateDomain(req.Domain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid domain: " + err.Error()})
		return
	}

	scan, err := s.store.CreateScan(c.Request.Context(), domain, req.Priority)
	if err != nil {
		s.log.LogError(err, "Failed to create scan", "domain", domain)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create scan"})
		return
	}
	s.updates.publish(c.Request.Context(), scan)

	c.JSON(http.StatusAccepted, ScanResponse{
		ID:      scan.ID,
		Status:  scan.Status,
		Message: "Scan has been queued",
		Created: scan.CreatedAt,
	})
}

// listScans godoc
// @Summary List scans, newest first
// @Produce json
// @Param limit query int false "page size (max 200)"
// @Param offset query int false "offset"
// @Success 200 {object} ScanListResponse
// @Router /scans [get]
func (s *Server) listScans(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	scans, err := s.store.ListScans(c.Request.Context(), limit, offset)
	if err != nil {
		s.log.LogError(err, "Failed to list scans")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, ScanListResponse{Scans: scans, Total: len(scans)})
}

// getScan godoc
// @Summary Get a scan and its reports
// @Produce json
// @Param id path string true "Scan ID"
// @Success 200 {object} ScanResultResponse
// @Failure 404 {object} map[string]string
// @Router /scans/{id} [get]
func (s *Server) getScan(c *gin.Context) {
	scan, reports, ok := s.loadScan(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ScanResultResponse{Scan: scan, Reports: reports})
}

// getScanRows godoc
// @Summary Get the reports of a scan as CSV rows
// @Produce text/csv
// @Param id path string true "Scan ID"
// @Router /scans/{id}/rows [get]
func (s *Server) getScanRows(c *gin.Context) {
	scan, reports, ok := s.loadScan(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+scan.Domain+`.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(report.Headers)
	_ = w.WriteAll(report.ToRows(reports))
	if err := w.Error(); err != nil {
		s.log.LogError(err, "Failed to write CSV rows", "scan_id", scan.ID)
	}
}

func (s *Server) loadScan(c *gin.Context) (*store.Scan, []*report.Report, bool) {
	ctx := c.Request.Context()
	scan, err := s.store.GetScan(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
		return nil, nil, false
	}
	if err != nil {
		s.log.LogError(err, "Failed to load scan", "scan_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, nil, false
	}

	reports, err := s.store.Reports(ctx, scan.ID)
	if err != nil {
		s.log.LogError(err, "Failed to load reports", "scan_id", scan.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, nil, false
	}
	return scan, reports, true
}

// streamScan sends the scan status over a websocket whenever it changes,
// until the scan finishes.
func (s *Server) streamScan(c *gin.Context) {
	scanID := c.Param("id")
	ctx := c.Request.Context()

	if _, err := s.store.GetScan(ctx, scanID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warnw("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	notify, unsubscribe := s.updates.subscribe(ctx, scanID)
	defer unsubscribe()

	ticker := time.NewTicker(s.pollEvery)
	defer ticker.Stop()

	lastStatus := ""
	for {
		scan, err := s.store.GetScan(ctx, scanID)
		if err != nil {
			return
		}
		if scan.Status != lastStatus {
			lastStatus = scan.Status
			if err := conn.WriteJSON(gin.H{"id": scan.ID, "status": scan.Status}); err != nil {
				return
			}
		}
		if scan.Done() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-notify:
		case <-ticker.C:
		}
	}
}

// healthCheck godoc
// @Summary Check the API and its dependencies
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "down"})
		return
	}
	if err := s.updates.ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "redis": "down"})
		return
	}

	response := gin.H{"status": "healthy"}
	if n, err := s.store.QueueLength(ctx); err == nil {
		response["queue_length"] = n
	}
	c.JSON(http.StatusOK, response)
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
