// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/ideaforge/internal/model"
	"github.com/alfredjeanlab/ideaforge/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) UpsertSession(ctx context.Context, sess *model.ClarificationSession) error {
	return queryUpsertSession(ctx, s.db, sess)
}

func (s *PostgresStore) GetSession(ctx context.Context, ideaID string) (*model.ClarificationSession, error) {
	return queryGetSession(ctx, s.db, ideaID)
}

func (s *PostgresStore) UpsertBreakdown(ctx context.Context, b *model.BreakdownSession) error {
	return queryUpsertBreakdown(ctx, s.db, b)
}

func (s *PostgresStore) GetBreakdown(ctx context.Context, ideaID string) (*model.BreakdownSession, error) {
	return queryGetBreakdown(ctx, s.db, ideaID)
}

func (s *PostgresStore) DeleteBreakdown(ctx context.Context, ideaID string) error {
	return queryDeleteBreakdown(ctx, s.db, ideaID)
}

func (s *PostgresStore) ListBreakdowns(ctx context.Context, limit, offset int) ([]*model.BreakdownSession, int, error) {
	return queryListBreakdowns(ctx, s.db, limit, offset)
}

func (s *PostgresStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetEvents(ctx context.Context, ideaID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.db, ideaID)
}

// RunInTransaction executes fn inside a database transaction. The Store passed
// to fn shares the transaction; any error rolls the whole transaction back.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txStore := &transactionStore{tx: sqlTx}
	if err := fn(txStore); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// transactionStore implements store.Store over an open transaction.
type transactionStore struct {
	tx *sql.Tx
}

var _ store.Store = (*transactionStore)(nil)

func (t *transactionStore) UpsertSession(ctx context.Context, sess *model.ClarificationSession) error {
	return queryUpsertSession(ctx, t.tx, sess)
}

func (t *transactionStore) GetSession(ctx context.Context, ideaID string) (*model.ClarificationSession, error) {
	return queryGetSession(ctx, t.tx, ideaID)
}

func (t *transactionStore) UpsertBreakdown(ctx context.Context, b *model.BreakdownSession) error {
	return queryUpsertBreakdown(ctx, t.tx, b)
}

func (t *transactionStore) GetBreakdown(ctx context.Context, ideaID string) (*model.BreakdownSession, error) {
	return queryGetBreakdown(ctx, t.tx, ideaID)
}

func (t *transactionStore) DeleteBreakdown(ctx context.Context, ideaID string) error {
	return queryDeleteBreakdown(ctx, t.tx, ideaID)
}

func (t *transactionStore) ListBreakdowns(ctx context.Context, limit, offset int) ([]*model.BreakdownSession, int, error) {
	return queryListBreakdowns(ctx, t.tx, limit, offset)
}

func (t *transactionStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, t.tx, event)
}

func (t *transactionStore) GetEvents(ctx context.Context, ideaID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, t.tx, ideaID)
}

// RunInTransaction on an already-open transaction just runs fn in place;
// nested transactions are not supported by the driver.
func (t *transactionStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(t)
}

func (t *transactionStore) Close() error {
	return nil
}
