package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/crashlens/crashlens/internal/core"
	"github.com/crashlens/crashlens/internal/engine"
	"github.com/crashlens/crashlens/internal/ingest"
	"github.com/crashlens/crashlens/internal/storage"
	"github.com/crashlens/crashlens/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func healthHandler(db *storage.PostgresClient, config *core.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := db.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   config.App.Version,
		})
	}
}

func readyHandler(db *storage.PostgresClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := db.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"reason": "database unavailable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func statusHandler(config *core.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   config.App.Name,
			"version":   config.App.Version,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// classifyHandler evaluates one event. Classification itself never fails; a
// storage write failure is logged and the finding still returned.
func classifyHandler(eng *engine.Engine, db *storage.PostgresClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event engine.Event
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid event payload: " + err.Error(),
			})
			return
		}

		finding := eng.Classify(event)
		ingest.ObserveFinding(finding)
		persistFinding(c.Request.Context(), db, finding)

		c.JSON(http.StatusOK, finding)
	}
}

func classifyBatchHandler(eng *engine.Engine, db *storage.PostgresClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var events []engine.Event
		if err := c.ShouldBindJSON(&events); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid event payload: " + err.Error(),
			})
			return
		}

		findings := eng.ClassifyAll(events)
		for _, finding := range findings {
			ingest.ObserveFinding(finding)
			persistFinding(c.Request.Context(), db, finding)
		}

		c.JSON(http.StatusOK, gin.H{
			"findings":     findings,
			"count":        len(findings),
			"health_score": eng.ScoreHealth(findings),
		})
	}
}

func scoreHealthHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var findings []engine.Finding
		if err := c.ShouldBindJSON(&findings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid findings payload: " + err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"health_score": eng.ScoreHealth(findings),
			"findings":     len(findings),
		})
	}
}

func healthHistoryHandler(db *storage.PostgresClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryLimit(c, 50)

		snapshots, err := db.RecentHealthSnapshots(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"snapshots": snapshots,
			"count":     len(snapshots),
		})
	}
}

func recentFindingsHandler(db *storage.PostgresClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryLimit(c, 20)

		findings, err := db.RecentFindings(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"findings": findings,
			"count":    len(findings),
		})
	}
}

func findingsByCategoryHandler(db *storage.PostgresClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Param("category")
		limit := queryLimit(c, 20)

		findings, err := db.FindingsByCategory(c.Request.Context(), category, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"category": category,
			"findings": findings,
			"count":    len(findings),
		})
	}
}

func rulesHandler(rb *engine.RuleBase) gin.HandlerFunc {
	type ruleSummary struct {
		Category     string `json:"category"`
		ImpactWeight int    `json:"impact_weight"`
		HighImpact   bool   `json:"high_impact"`
		Patterns     int    `json:"patterns"`
		HasMetric    bool   `json:"has_metric_rule"`
		Actions      int    `json:"actions"`
	}

	return func(c *gin.Context) {
		rules := rb.Rules()
		summaries := make([]ruleSummary, 0, len(rules))
		for _, r := range rules {
			summaries = append(summaries, ruleSummary{
				Category:     r.Category,
				ImpactWeight: r.BaseImpactWeight,
				HighImpact:   rb.HighImpact(r.Category),
				Patterns:     len(r.TextPatterns),
				HasMetric:    r.MetricRule != nil,
				Actions:      len(r.Actions),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"rules": summaries,
			"count": len(summaries),
		})
	}
}

func persistFinding(ctx context.Context, db *storage.PostgresClient, finding engine.Finding) {
	detail, err := json.Marshal(finding)
	if err != nil {
		logger.Error("Failed to marshal finding", zap.Error(err))
		return
	}

	record := &storage.FindingRecord{
		EventID:       finding.EventID,
		Category:      finding.Category,
		Severity:      string(finding.Severity),
		Confidence:    finding.Confidence,
		ImpactScore:   finding.ImpactScore,
		PriorityScore: finding.Impact.PriorityScore,
		Detail:        detail,
	}
	if err := db.SaveFinding(ctx, record); err != nil {
		logger.Error("Failed to save finding",
			zap.String("event_id", finding.EventID),
			zap.Error(err),
		)
	}
}

func queryLimit(c *gin.Context, fallback int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(fallback)))
	if err != nil || limit <= 0 || limit > 500 {
		return fallback
	}
	return limit
}
