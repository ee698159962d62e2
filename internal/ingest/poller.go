// Package ingest turns live Prometheus metrics into metric-snapshot events
// and feeds them through the classification engine on a fixed interval.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/crashlens/crashlens/internal/engine"
	"github.com/crashlens/crashlens/internal/storage"
	"go.uber.org/zap"
)

// MetricsPoller periodically queries configured app metrics, classifies one
// event per metric snapshot, persists the findings and records an aggregate
// health snapshot.
type MetricsPoller struct {
	prometheus *PrometheusClient
	engine     *engine.Engine
	db         *storage.PostgresClient
	appName    string
	queries    map[string]string // metric name -> PromQL
	interval   time.Duration
	logger     *zap.Logger
}

func NewMetricsPoller(
	prometheusURL string,
	eng *engine.Engine,
	db *storage.PostgresClient,
	appName string,
	queries map[string]string,
	interval time.Duration,
	logger *zap.Logger,
) (*MetricsPoller, error) {
	promClient, err := NewPrometheusClient(prometheusURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus client: %w", err)
	}

	return &MetricsPoller{
		prometheus: promClient,
		engine:     eng,
		db:         db,
		appName:    appName,
		queries:    queries,
		interval:   interval,
		logger:     logger,
	}, nil
}

// Start runs the poll loop until the context is cancelled.
func (m *MetricsPoller) Start(ctx context.Context) error {
	m.logger.Info("Metrics poller started",
		zap.String("app", m.appName),
		zap.Duration("interval", m.interval),
		zap.Int("queries", len(m.queries)),
	)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Metrics poller stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := m.pollOnce(ctx); err != nil {
				pollErrorsTotal.Inc()
				m.logger.Error("Metric poll failed", zap.Error(err))
			}
		}
	}
}

// pollOnce queries every configured metric, classifies each snapshot, and
// stores the findings plus one aggregate health snapshot.
func (m *MetricsPoller) pollOnce(ctx context.Context) error {
	metrics := make([]string, 0, len(m.queries))
	for name := range m.queries {
		metrics = append(metrics, name)
	}
	sort.Strings(metrics)

	now := time.Now()
	var findings []engine.Finding

	for _, metric := range metrics {
		value, ok, err := m.prometheus.QueryValue(ctx, m.queries[metric])
		if err != nil {
			return err
		}
		if !ok {
			m.logger.Debug("Metric query returned no samples",
				zap.String("metric", metric),
			)
			continue
		}

		event := engine.Event{
			ID:      fmt.Sprintf("%s:%s:%d", m.appName, metric, now.Unix()),
			Metrics: map[string]float64{metric: value},
		}

		finding := m.engine.Classify(event)
		ObserveFinding(finding)
		findings = append(findings, finding)

		if err := m.saveFinding(ctx, finding); err != nil {
			m.logger.Error("Failed to save finding",
				zap.String("event_id", finding.EventID),
				zap.Error(err),
			)
		}
	}

	score := m.engine.ScoreHealth(findings)
	ObserveHealth(m.appName, score)

	if m.db != nil {
		snapshot := &storage.HealthSnapshot{
			AppName:      m.appName,
			Score:        score,
			FindingCount: len(findings),
			CreatedAt:    now,
		}
		if err := m.db.SaveHealthSnapshot(ctx, snapshot); err != nil {
			m.logger.Error("Failed to save health snapshot", zap.Error(err))
		}
	}

	m.logger.Info("Metric poll complete",
		zap.String("app", m.appName),
		zap.Int("findings", len(findings)),
		zap.Float64("health_score", score),
	)
	return nil
}

func (m *MetricsPoller) saveFinding(ctx context.Context, finding engine.Finding) error {
	if m.db == nil {
		return nil
	}
	detail, err := json.Marshal(finding)
	if err != nil {
		return fmt.Errorf("failed to marshal finding: %w", err)
	}
	return m.db.SaveFinding(ctx, &storage.FindingRecord{
		EventID:       finding.EventID,
		Category:      finding.Category,
		Severity:      string(finding.Severity),
		Confidence:    finding.Confidence,
		ImpactScore:   finding.ImpactScore,
		PriorityScore: finding.Impact.PriorityScore,
		Detail:        detail,
	})
}

// Healthy reports whether the upstream Prometheus endpoint is reachable.
func (m *MetricsPoller) Healthy(ctx context.Context) bool {
	return m.prometheus.Healthy(ctx)
}
