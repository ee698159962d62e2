package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

func (c *PostgresClient) SaveFinding(ctx context.Context, record *FindingRecord) error {
	query := `
		INSERT INTO findings (
			event_id, category, severity, confidence,
			impact_score, priority_score, detail, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	err := c.pool.QueryRow(
		ctx,
		query,
		record.EventID,
		record.Category,
		record.Severity,
		record.Confidence,
		record.ImpactScore,
		record.PriorityScore,
		record.Detail,
		record.CreatedAt,
	).Scan(&record.ID)

	if err != nil {
		return fmt.Errorf("failed to save finding: %w", err)
	}

	c.logger.Debug("Finding saved",
		zap.Int64("id", record.ID),
		zap.String("event_id", record.EventID),
		zap.String("category", record.Category),
	)
	return nil
}

func (c *PostgresClient) RecentFindings(ctx context.Context, limit int) ([]*FindingRecord, error) {
	query := `
		SELECT id, event_id, category, severity, confidence,
		       impact_score, priority_score, detail, created_at
		FROM findings
		ORDER BY created_at DESC
		LIMIT $1
	`
	return c.queryFindings(ctx, query, limit)
}

func (c *PostgresClient) FindingsByCategory(ctx context.Context, category string, limit int) ([]*FindingRecord, error) {
	query := `
		SELECT id, event_id, category, severity, confidence,
		       impact_score, priority_score, detail, created_at
		FROM findings
		WHERE category = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return c.queryFindings(ctx, query, category, limit)
}

func (c *PostgresClient) queryFindings(ctx context.Context, query string, args ...any) ([]*FindingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var records []*FindingRecord
	for rows.Next() {
		var r FindingRecord
		if err := rows.Scan(
			&r.ID,
			&r.EventID,
			&r.Category,
			&r.Severity,
			&r.Confidence,
			&r.ImpactScore,
			&r.PriorityScore,
			&r.Detail,
			&r.CreatedAt,
		); err != nil {
			c.logger.Error("Failed to scan finding", zap.Error(err))
			continue
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func (c *PostgresClient) SaveHealthSnapshot(ctx context.Context, snapshot *HealthSnapshot) error {
	query := `
		INSERT INTO health_snapshots (app_name, score, finding_count, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}

	err := c.pool.QueryRow(
		ctx,
		query,
		snapshot.AppName,
		snapshot.Score,
		snapshot.FindingCount,
		snapshot.CreatedAt,
	).Scan(&snapshot.ID)

	if err != nil {
		return fmt.Errorf("failed to save health snapshot: %w", err)
	}
	return nil
}

func (c *PostgresClient) RecentHealthSnapshots(ctx context.Context, limit int) ([]*HealthSnapshot, error) {
	query := `
		SELECT id, app_name, score, finding_count, created_at
		FROM health_snapshots
		ORDER BY created_at DESC
		LIMIT $1
	`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := c.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query health snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*HealthSnapshot
	for rows.Next() {
		var s HealthSnapshot
		if err := rows.Scan(&s.ID, &s.AppName, &s.Score, &s.FindingCount, &s.CreatedAt); err != nil {
			c.logger.Error("Failed to scan health snapshot", zap.Error(err))
			continue
		}
		snapshots = append(snapshots, &s)
	}
	return snapshots, rows.Err()
}
