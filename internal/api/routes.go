package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ringlens/muling-engine/internal/db"
	"github.com/ringlens/muling-engine/internal/detect"
	"github.com/ringlens/muling-engine/internal/ledger"
)

// maxLedgerBytes caps uploaded ledger size at 32 MiB.
const maxLedgerBytes = 32 << 20

type APIHandler struct {
	dbStore        *db.PostgresStore
	wsHub          *Hub
	alertThreshold float64
}

func SetupRouter(dbStore *db.PostgresStore, wsHub *Hub, alertThreshold float64) *gin.Engine {
	r := gin.Default()

	// CORS — configurable via ALLOWED_ORIGINS env var.
	// Production: ALLOWED_ORIGINS=https://dashboard.example.com
	// Development: leave empty for *
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{dbStore: dbStore, wsHub: wsHub, alertThreshold: alertThreshold}

	// Analysis is CPU-bound, so it runs on a tighter budget than reads.
	analyzeLimiter := NewRateLimiter(6, 2)
	readLimiter := NewRateLimiter(60, 20)

	api := r.Group("/api/v1")
	{
		api.POST("/analyze", AuthMiddleware(), analyzeLimiter.Middleware(), handler.handleAnalyze)
		api.GET("/runs", AuthMiddleware(), readLimiter.Middleware(), handler.handleListRuns)
		api.GET("/health", handler.handleHealth)
		api.GET("/stream", wsHub.Subscribe)
	}

	return r
}

// handleAnalyze accepts one ledger batch as a raw CSV body or as a
// multipart "ledger" file field, runs the full detection pipeline, and
// returns {result, graphData}.
func (h *APIHandler) handleAnalyze(c *gin.Context) {
	raw, err := readLedgerPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read ledger payload", "details": err.Error()})
		return
	}
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty ledger payload"})
		return
	}

	report, err := detect.Analyze(c.Request.Context(), string(raw))
	if err != nil {
		var schemaErr *ledger.SchemaError
		var rowErr *ledger.RowValidationError
		switch {
		case errors.As(err, &schemaErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": schemaErr.Error(), "field": schemaErr.Field})
		case errors.As(err, &rowErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": rowErr.Error(), "row": rowErr.Row})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed", "details": err.Error()})
		}
		return
	}

	if h.dbStore != nil {
		if err := h.dbStore.SaveRun(context.Background(), report.Result); err != nil {
			log.Printf("Failed to save analysis run to DB: %v", err)
		}
	}

	BroadcastRingAlerts(h.wsHub, report.Result.RunID, report.Result.FraudRings, h.alertThreshold)

	c.JSON(http.StatusOK, report)
}

// readLedgerPayload pulls the CSV either from a multipart "ledger" field
// or from the raw request body.
func readLedgerPayload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("ledger"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxLedgerBytes))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxLedgerBytes))
}

// handleListRuns returns the persisted run history, newest first.
func (h *APIHandler) handleListRuns(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not connected"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, totalCount, err := h.dbStore.ListRuns(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch run history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       runs,
		"totalCount": totalCount,
		"page":       page,
		"limit":      limit,
	})
}

// handleHealth returns engine status and capabilities for service discovery.
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "Ringlens Muling Detection Engine v1.0",
		"capabilities": gin.H{
			"cycle_detection":    true,
			"smurfing_detection": true,
			"shell_chains":       true,
			"velocity_bursts":    true,
			"ring_assembly":      true,
			"graph_snapshot":     true,
		},
		"dbConnected": h.dbStore != nil,
	})
}
