package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the table read by PostgresSource.
const Schema = `CREATE TABLE IF NOT EXISTS packaging_options (
	position             SERIAL PRIMARY KEY,
	name                 TEXT NOT NULL UNIQUE,
	cost                 DOUBLE PRECISION NOT NULL CHECK (cost >= 0),
	durability           DOUBLE PRECISION NOT NULL,
	environmental_impact DOUBLE PRECISION NOT NULL,
	reusability          DOUBLE PRECISION NOT NULL
)`

const optionColumns = `name, cost, durability, environmental_impact, reusability`

// PostgresSource reads options from the packaging_options table, ordered by
// insertion position so table order is preserved.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresSource) Load(ctx context.Context) ([]Option, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+optionColumns+` FROM packaging_options ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query packaging options: %w", err)
	}
	opts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Option, error) {
		var o Option
		err := row.Scan(&o.Name, &o.Cost, &o.Durability, &o.EnvironmentalImpact, &o.Reusability)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan packaging options: %w", err)
	}
	if len(opts) == 0 {
		return nil, ErrEmptyCatalog
	}
	return opts, nil
}

// Replace truncates the table and inserts opts in order inside one
// transaction.
func (s *PostgresSource) Replace(ctx context.Context, opts []Option) error {
	if err := Validate(opts); err != nil {
		return err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := tx.Exec(ctx, `TRUNCATE packaging_options RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	batch := &pgx.Batch{}
	for _, o := range opts {
		batch.Queue(`INSERT INTO packaging_options (`+optionColumns+`) VALUES ($1, $2, $3, $4, $5)`,
			o.Name, o.Cost, o.Durability, o.EnvironmentalImpact, o.Reusability)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert options: %w", err)
	}
	return tx.Commit(ctx)
}
