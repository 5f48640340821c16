package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	"SentiPull/internal/services/sentiment"
	pkgch "SentiPull/pkg/clickhouse"
	applogger "SentiPull/pkg/logger"
)

const (
	observationsTable = "fng_observations"
	insertChunkSize   = 2000
)

// ObservationSchema returns the DDL for the observation archive. Rows are
// deduplicated per provider and UTC day, the latest ingest wins.
func ObservationSchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s.%s (
            provider    LowCardinality(String),
            ts          DateTime64(3, 'UTC'),
            score       Float64,
            rating      LowCardinality(String),
            ingested_at DateTime64(3, 'UTC')
        )
        ENGINE = ReplacingMergeTree(ingested_at)
        ORDER BY (provider, toDate(ts))
    `, database, observationsTable),
	}
}

// ClickHouseStore implements Storage for ClickHouse.
type ClickHouseStore struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
	l     *applogger.Logger
	now   func() time.Time
}

// NewClickHouseStore creates the observation archive.
func NewClickHouseStore(ch *pkgch.Client, l *applogger.Logger) *ClickHouseStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &ClickHouseStore{
		ch:    ch,
		db:    ch.DB(),
		table: ch.Database() + "." + observationsTable,
		l:     l.With(applogger.String("component", "clickhouse_store")),
		now:   time.Now,
	}
}

var _ drepo.Storage = (*ClickHouseStore)(nil)

func (s *ClickHouseStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, ObservationSchema(s.ch.Database()))
}

// StoreBatch inserts observations in chunks. Scores that do not coerce to a
// finite number are skipped with a warning.
func (s *ClickHouseStore) StoreBatch(ctx context.Context, provider string, obs []models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	ingested := s.now().UTC()
	for start := 0; start < len(obs); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(obs) {
			end = len(obs)
		}
		q, args, skipped := buildInsert(s.table, provider, obs[start:end], ingested)
		if skipped > 0 {
			s.l.Warn("skipped observations with invalid score",
				applogger.String("provider", provider),
				applogger.Int("skipped", skipped),
			)
		}
		if q == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("clickhouse insert failed", applogger.String("provider", provider), applogger.Error(err))
			return fmt.Errorf("store observations: %w", err)
		}
	}
	return nil
}

// Latest returns up to n observations of provider, most recent first.
func (s *ClickHouseStore) Latest(ctx context.Context, provider string, n int) ([]models.Observation, error) {
	rows, err := s.db.QueryContext(ctx, latestQuery(s.table), provider, drepo.ClampLimit(n))
	if err != nil {
		return nil, fmt.Errorf("latest observations: %w", err)
	}
	defer rows.Close()

	out := make([]models.Observation, 0, n)
	for rows.Next() {
		var (
			ts     time.Time
			score  float64
			rating string
		)
		if err := rows.Scan(&ts, &score, &rating); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, models.Observation{Date: ts.UTC(), Score: score, Rating: rating})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *ClickHouseStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *ClickHouseStore) Close() error {
	return nil // Managed by pkg
}

func latestQuery(table string) string {
	return fmt.Sprintf("SELECT ts, score, rating FROM %s FINAL WHERE provider = ? ORDER BY ts DESC LIMIT ?", table)
}

func buildInsert(table, provider string, obs []models.Observation, ingested time.Time) (string, []interface{}, int) {
	values := make([]string, 0, len(obs))
	args := make([]interface{}, 0, len(obs)*5)
	skipped := 0
	for _, o := range obs {
		score, err := sentiment.CoerceScore(o.Score)
		if err != nil || o.Date.IsZero() {
			skipped++
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?)")
		args = append(args, provider, o.Date.UTC(), score, o.Rating, ingested)
	}
	if len(values) == 0 {
		return "", nil, skipped
	}
	q := fmt.Sprintf("INSERT INTO %s (provider, ts, score, rating, ingested_at) VALUES %s", table, strings.Join(values, ","))
	return q, args, skipped
}
