package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/predictdash/predict-relay/internal/config"
)

// Action is the kind of order request being journaled.
type Action string

const (
	ActionSubmit Action = "submit"
	ActionRemove Action = "remove"
)

// Entry is one forwarded order request and its upstream answer.
type Entry struct {
	RequestID  string
	Action     Action
	StatusCode int // 0 when the upstream was unreachable
	Request    []byte
	Response   []byte
	CreatedAt  time.Time
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS order_journal (
	id            BIGSERIAL PRIMARY KEY,
	request_id    TEXT        NOT NULL,
	action        TEXT        NOT NULL,
	status_code   INTEGER     NOT NULL,
	request_body  TEXT,
	response_body TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS order_journal_created_at_idx ON order_journal (created_at);
`

const insertEntrySQL = `
INSERT INTO order_journal (request_id, action, status_code, request_body, response_body, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// execer is the subset of *pgxpool.Pool the journal uses.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Journal writes order entries to PostgreSQL.
// The zero value and a Journal built from a nil pool are no-ops.
type Journal struct {
	db      execer
	pool    *pgxpool.Pool
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewJournal wraps pool. A nil pool yields a disabled journal.
func NewJournal(pool *pgxpool.Pool, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	j := &Journal{
		pool:    pool,
		logger:  logger,
		timeout: 5 * time.Second,
		now:     time.Now,
	}
	if pool != nil {
		j.db = pool
	}
	return j
}

// Open connects to the configured database and creates the journal table.
// When cfg is not enabled it returns a disabled journal and no error.
func Open(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*Journal, error) {
	if !cfg.Enabled() {
		return NewJournal(nil, logger), nil
	}

	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	j := NewJournal(pool, logger)
	if err := j.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return j, nil
}

// Connect creates a single connection pool.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := BuildConnString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Enabled reports whether entries are persisted.
func (j *Journal) Enabled() bool {
	return j != nil && j.db != nil
}

// Migrate creates the journal table if absent.
func (j *Journal) Migrate(ctx context.Context) error {
	if !j.Enabled() {
		return nil
	}
	if _, err := j.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create journal table: %w", err)
	}
	return nil
}

// Record persists an entry. Failures are logged and never returned so a
// journal outage cannot fail an order request.
func (j *Journal) Record(ctx context.Context, e Entry) {
	if !j.Enabled() {
		return
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = j.now()
	}

	// The request may already be finished; keep its values but not its deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), j.timeout)
	defer cancel()

	_, err := j.db.Exec(ctx, insertEntrySQL,
		e.RequestID,
		string(e.Action),
		e.StatusCode,
		nullableText(e.Request),
		nullableText(e.Response),
		e.CreatedAt,
	)
	if err != nil {
		j.logger.Error("failed to record order journal entry",
			"request_id", e.RequestID,
			"action", e.Action,
			"err", err,
		)
	}
}

// Ping verifies the connection is healthy.
func (j *Journal) Ping(ctx context.Context) error {
	if j == nil || j.pool == nil {
		return nil
	}
	if err := j.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping journal: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (j *Journal) Close() {
	if j != nil && j.pool != nil {
		j.pool.Close()
	}
}

func nullableText(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
