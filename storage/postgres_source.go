package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"vehicle-dashboard/models"
	"vehicle-dashboard/utils"
)

// PostgresSource loads the raw vehicle table from PostgreSQL. Columns are read
// as text so the cleaner applies the same coercions as for CSV input, and SQL
// NULL becomes a missing value.
type PostgresSource struct {
	db       querier
	table    string
	checksum string
}

// rowIterator is the part of *sql.Rows that FetchRaw walks.
type rowIterator interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// querier runs the raw select. sqlQuerier adapts *sql.DB.
type querier interface {
	QueryRows(ctx context.Context, query string) (rowIterator, error)
	Close() error
}

type sqlQuerier struct {
	db *sql.DB
}

func (q sqlQuerier) QueryRows(ctx context.Context, query string) (rowIterator, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (q sqlQuerier) Close() error { return q.db.Close() }

// NewPostgresSource opens a connection and waits for the server to answer.
func NewPostgresSource(ctx context.Context, dsn, table string, retry *utils.RetryConfig) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	err = retry.DoContext(ctx, "postgres-ping", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return &PostgresSource{db: sqlQuerier{db: db}, table: table}, nil
}

func (ps *PostgresSource) Describe() string { return "postgres:" + ps.table }

func (ps *PostgresSource) Checksum() string { return ps.checksum }

// FetchRaw retrieves every row of the configured table.
func (ps *PostgresSource) FetchRaw(ctx context.Context) ([]models.RawListing, error) {
	rows, err := ps.db.QueryRows(ctx, selectRawQuery(ps.table))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch raw: %w", err)
	}
	defer rows.Close()

	hasher := newRowHasher()
	var listings []models.RawListing

	values := make([]sql.NullString, len(models.Columns))
	dest := make([]any, len(models.Columns))
	for i := range values {
		dest[i] = &values[i]
	}
	record := make([]string, len(models.Columns))

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		row := make(models.RawListing, len(models.Columns))
		for i, col := range models.Columns {
			record[i] = values[i].String
			if values[i].Valid {
				row[col.Source] = values[i].String
			}
		}
		hasher.add(record)
		listings = append(listings, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate rows: %w", err)
	}

	ps.checksum = hasher.sum()
	return listings, nil
}

func (ps *PostgresSource) Close() error {
	return ps.db.Close()
}

// selectRawQuery builds the text-cast projection over every required column.
func selectRawQuery(table string) string {
	cols := make([]string, len(models.Columns))
	for i, c := range models.Columns {
		cols[i] = pq.QuoteIdentifier(c.Source) + "::text"
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), quoteTable(table))
}

// quoteTable quotes an optionally schema-qualified table name.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
