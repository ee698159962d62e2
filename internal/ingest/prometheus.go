package ingest

import (
	"context"
	"fmt"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"go.uber.org/zap"
)

// PrometheusClient wraps the Prometheus HTTP API for instant queries.
type PrometheusClient struct {
	api    promv1.API
	url    string
	logger *zap.Logger
}

func NewPrometheusClient(prometheusURL string, logger *zap.Logger) (*PrometheusClient, error) {
	client, err := promapi.NewClient(promapi.Config{
		Address: prometheusURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus client: %w", err)
	}

	return &PrometheusClient{
		api:    promv1.NewAPI(client),
		url:    prometheusURL,
		logger: logger,
	}, nil
}

// QueryValue runs an instant query and returns the first sample value.
// A query returning no samples reports ok=false with no error.
func (p *PrometheusClient) QueryValue(ctx context.Context, promql string) (float64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, warnings, err := p.api.Query(ctx, promql, time.Now())
	if err != nil {
		return 0, false, fmt.Errorf("prometheus query failed: %w", err)
	}
	for _, w := range warnings {
		p.logger.Warn("Prometheus query warning",
			zap.String("query", promql),
			zap.String("warning", w),
		)
	}

	vector, ok := result.(model.Vector)
	if !ok || len(vector) == 0 {
		return 0, false, nil
	}
	return float64(vector[0].Value), true, nil
}

// Healthy reports whether the Prometheus endpoint answers queries.
func (p *PrometheusClient) Healthy(ctx context.Context) bool {
	_, _, err := p.QueryValue(ctx, "up")
	return err == nil
}
