package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"signalAnalytics/internal/domain"
	"signalAnalytics/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.ExecutionRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/executions.db" // Default path
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
			cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
			return nil, err
		}
	}

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Execution log database ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS execution_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		provider TEXT NOT NULL,
		strategy TEXT NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL DEFAULT '',
		signal_type TEXT NOT NULL DEFAULT '',
		direction TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL,
		quantity REAL NOT NULL,
		executed_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_execution_log_provider_time ON execution_log (provider, executed_at);
	CREATE INDEX IF NOT EXISTS idx_execution_log_strategy_time ON execution_log (provider, strategy, executed_at);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// CreateExecution saves a new raw record and returns its assigned ID.
func (r *Repository) CreateExecution(ctx context.Context, ev *domain.RawEvent) (int64, error) {
	const query = `
	INSERT INTO execution_log (provider, strategy, symbol, side, signal_type, direction, price, quantity, executed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	qty := ev.Quantity
	if qty == 0 {
		qty = ev.Contracts
	}
	result, err := r.db.ExecContext(ctx, query,
		ev.Provider, ev.Strategy, ev.Symbol, ev.Side, ev.SignalType, ev.Direction, ev.Price, qty, ev.ExecutedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert execution for %s/%s: %w: %w", ev.Provider, ev.Symbol, ports.ErrQueryFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for execution %s/%s: %w", ev.Provider, ev.Symbol, err)
	}
	ev.ID = id
	r.logger.Debug(ctx, "Execution recorded", map[string]interface{}{"id": id, "provider": ev.Provider, "symbol": ev.Symbol})
	return id, nil
}

const selectColumns = `id, provider, strategy, symbol, side, signal_type, direction, price, quantity, executed_at`

// FindByProvider retrieves all records for a provider executed at or after
// the cutoff, ordered ascending by execution time (ties by insertion order,
// preserving FIFO determinism).
func (r *Repository) FindByProvider(ctx context.Context, provider string, since time.Time) ([]*domain.RawEvent, error) {
	const query = `
	SELECT ` + selectColumns + `
	FROM execution_log
	WHERE provider = ? AND executed_at >= ?
	ORDER BY executed_at ASC, id ASC`

	return r.queryEvents(ctx, query, provider, since)
}

// FindByStrategy retrieves all records for one strategy of a provider,
// ordered the same way as FindByProvider.
func (r *Repository) FindByStrategy(ctx context.Context, provider, strategy string, since time.Time) ([]*domain.RawEvent, error) {
	const query = `
	SELECT ` + selectColumns + `
	FROM execution_log
	WHERE provider = ? AND strategy = ? AND executed_at >= ?
	ORDER BY executed_at ASC, id ASC`

	return r.queryEvents(ctx, query, provider, strategy, since)
}

// ListProviders returns the distinct providers present in the log.
func (r *Repository) ListProviders(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT provider FROM execution_log ORDER BY provider`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	providers := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan provider row: %w", err)
		}
		providers = append(providers, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating provider rows: %w", err)
	}
	return providers, nil
}

func (r *Repository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*domain.RawEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	events := make([]*domain.RawEvent, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution row: %w", err)
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating execution rows: %w", err)
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (*domain.RawEvent, error) {
	ev := &domain.RawEvent{}
	err := rows.Scan(
		&ev.ID, &ev.Provider, &ev.Strategy, &ev.Symbol, &ev.Side,
		&ev.SignalType, &ev.Direction, &ev.Price, &ev.Quantity, &ev.ExecutedAt,
	)
	if err != nil {
		return nil, err
	}
	return ev, nil
}
