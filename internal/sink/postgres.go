package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/eduplex/perfmetrics/internal/customerrors"
	"github.com/eduplex/perfmetrics/internal/logger"
	"github.com/eduplex/perfmetrics/internal/model"
)

const defaultWriteTimeout = 10 * time.Second

// PostgresStore delivers metric batches to the performance_metrics
// table and serves the read side of the report endpoint. Connection is
// lazy: the first operation opens, pings, and creates the table.
type PostgresStore struct {
	dsn          string
	writeTimeout time.Duration
	db           *sql.DB
	mu           sync.Mutex
	connected    bool
	closeOnce    sync.Once
}

func NewPostgresStore(dsn string, writeTimeout time.Duration) *PostgresStore {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &PostgresStore{
		dsn:          dsn,
		writeTimeout: writeTimeout,
	}
}

func (p *PostgresStore) resetConnection() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		p.db.Close()
		p.db = nil
	}
	p.connected = false
}

func (p *PostgresStore) ensureConnected(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.connected {
		return nil
	}

	if p.dsn == "" {
		return customerrors.ErrNotConnected
	}

	db, err := sql.Open("pgx", p.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := withPGRetry(func() error { return db.PingContext(pingCtx) }); err != nil {
		db.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := p.createTable(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to create table: %w", err)
	}

	p.db = db
	p.connected = true
	return nil
}

func (p *PostgresStore) createTable(db *sql.DB) error {
	query := `
        CREATE TABLE IF NOT EXISTS performance_metrics (
            id SERIAL PRIMARY KEY,
            metric_name VARCHAR(255) NOT NULL,
            metric_value DOUBLE PRECISION NOT NULL,
            metric_type VARCHAR(20) NOT NULL,
            page_url TEXT NOT NULL,
            user_id VARCHAR(128),
            user_agent TEXT NOT NULL,
            timestamp TIMESTAMPTZ NOT NULL,
            additional_data JSONB
        )
    `
	_, err := db.Exec(query)
	return err
}

// Write inserts the whole batch in a single multi-row INSERT, bounded
// by the configured write timeout so a hung connection surfaces as an
// error and takes the normal requeue path.
func (p *PostgresStore) Write(ctx context.Context, batch []model.Metric) error {
	if len(batch) == 0 {
		return nil
	}

	if err := p.ensureConnected(ctx); err != nil {
		return err
	}

	wctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	query, args, err := buildInsert(batch)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := p.db.ExecContext(wctx, query, args...); err != nil {
		if isConnectionError(err) {
			logger.Log.Warn().Err(err).Msg("connection error on batch insert, resetting")
			p.resetConnection()
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func buildInsert(batch []model.Metric) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO performance_metrics
        (metric_name, metric_value, metric_type, page_url, user_id, user_agent, timestamp, additional_data)
        VALUES `)

	args := make([]any, 0, len(batch)*8)
	for i, m := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 8
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)

		var userID any
		if m.UserID != "" {
			userID = m.UserID
		}

		var extra any
		if m.Extra != nil {
			if f := m.Extra.Fields(); len(f) > 0 {
				raw, err := json.Marshal(f)
				if err != nil {
					return "", nil, err
				}
				extra = raw
			}
		}

		args = append(args, m.Name, m.Value, m.Kind, m.PageURL, userID, m.UserAgent, m.Timestamp, extra)
	}

	return sb.String(), args, nil
}

// ListSince returns all metrics captured at or after since, newest
// first.
func (p *PostgresStore) ListSince(ctx context.Context, since time.Time) ([]model.Metric, error) {
	if err := p.ensureConnected(ctx); err != nil {
		return nil, err
	}

	query := `SELECT metric_name, metric_value, metric_type, page_url, user_id, user_agent, timestamp, additional_data
        FROM performance_metrics
        WHERE timestamp >= $1
        ORDER BY timestamp DESC`

	rows, err := p.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []model.Metric
	for rows.Next() {
		var (
			m      model.Metric
			userID sql.NullString
			raw    []byte
		)
		if err := rows.Scan(&m.Name, &m.Value, &m.Kind, &m.PageURL, &userID, &m.UserAgent, &m.Timestamp, &raw); err != nil {
			return nil, err
		}
		if userID.Valid {
			m.UserID = userID.String
		}
		if len(raw) > 0 {
			var extra model.CustomExtra
			if err := json.Unmarshal(raw, &extra); err != nil {
				return nil, fmt.Errorf("decode additional_data: %w", err)
			}
			m.Extra = extra
		}
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	if err := p.ensureConnected(ctx); err != nil {
		return customerrors.ErrNotConnected
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.connected {
		return customerrors.ErrNotConnected
	}
	return p.db.PingContext(ctx)
}

func (p *PostgresStore) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.connected {
		return nil
	}

	var err error
	p.closeOnce.Do(func() {
		err = p.db.Close()
		p.connected = false
	})
	return err
}

func isConnectionError(err error) bool {
	return err == sql.ErrConnDone ||
		err == sql.ErrTxDone ||
		strings.Contains(strings.ToLower(err.Error()), "connection")
}
