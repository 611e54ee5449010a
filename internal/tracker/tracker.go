// Package tracker persists per-campaign usage records in SQLite.
package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/adforge/ad-voice-service/internal/core"
)

const createUsageTable = `
CREATE TABLE IF NOT EXISTS usage_records (
	id TEXT PRIMARY KEY,
	campaign_id TEXT NOT NULL,
	operation TEXT NOT NULL,
	model TEXT NOT NULL,
	input_tokens INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	total_tokens INTEGER NOT NULL,
	characters INTEGER NOT NULL,
	cost REAL NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_usage_campaign_time ON usage_records(campaign_id, created_at);
`

// Summary aggregates the usage of one campaign.
type Summary struct {
	CampaignID      string
	Requests        int64
	TotalTokens     int64
	TotalCharacters int64
	TotalCost       float64
}

// SQLiteTracker implements core.UsageRecorder with a SQLite database.
type SQLiteTracker struct {
	db *sql.DB
}

// New creates a SQLiteTracker and runs auto-migration.
func New(dbPath string) (*SQLiteTracker, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}

	_, err = db.Exec(createUsageTable)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate usage db: %w", err)
	}

	return &SQLiteTracker{db: db}, nil
}

// Record stores a usage record. An empty ID or zero timestamp is filled in.
func (t *SQLiteTracker) Record(ctx context.Context, rec core.UsageRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := t.db.ExecContext(ctx,
		`INSERT INTO usage_records
		 (id, campaign_id, operation, model, input_tokens, output_tokens, total_tokens, characters, cost, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CampaignID, rec.Operation, rec.Model,
		rec.InputTokens, rec.OutputTokens, rec.TotalTokens, rec.Characters,
		rec.Cost, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record usage for campaign %q: %w", rec.CampaignID, err)
	}

	return nil
}

// ByCampaign returns the usage records for a campaign, oldest first.
func (t *SQLiteTracker) ByCampaign(ctx context.Context, campaignID string) ([]core.UsageRecord, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, campaign_id, operation, model, input_tokens, output_tokens, total_tokens, characters, cost, created_at
		 FROM usage_records WHERE campaign_id = ? ORDER BY created_at`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("query usage for campaign %q: %w", campaignID, err)
	}
	defer rows.Close()

	var records []core.UsageRecord

	for rows.Next() {
		var rec core.UsageRecord

		err = rows.Scan(&rec.ID, &rec.CampaignID, &rec.Operation, &rec.Model,
			&rec.InputTokens, &rec.OutputTokens, &rec.TotalTokens, &rec.Characters,
			&rec.Cost, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan usage record: %w", err)
		}

		records = append(records, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate usage records: %w", err)
	}

	return records, nil
}

// CampaignSummary returns aggregated usage for a campaign.
func (t *SQLiteTracker) CampaignSummary(ctx context.Context, campaignID string) (Summary, error) {
	summary := Summary{
		CampaignID:      campaignID,
		Requests:        0,
		TotalTokens:     0,
		TotalCharacters: 0,
		TotalCost:       0,
	}

	err := t.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_tokens), 0), COALESCE(SUM(characters), 0), COALESCE(SUM(cost), 0)
		 FROM usage_records WHERE campaign_id = ?`,
		campaignID,
	).Scan(&summary.Requests, &summary.TotalTokens, &summary.TotalCharacters, &summary.TotalCost)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize usage for campaign %q: %w", campaignID, err)
	}

	return summary, nil
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	err := t.db.Close()
	if err != nil {
		return fmt.Errorf("close usage db: %w", err)
	}

	return nil
}
