package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connect2sanju/cricket-auction-system/internal/auction"
)

// PostgresStore keeps one row per auction with the current state and
// the prior generation in separate jsonb columns. The upsert moves the
// old state into backup in the same statement, so the rotate-then-write
// contract holds atomically.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS auction_states (
	id         TEXT PRIMARY KEY,
	config     JSONB,
	state      JSONB,
	backup     JSONB,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) SaveConfig(ctx context.Context, id string, cfg auction.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO auction_states (id, config) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET config = EXCLUDED.config, updated_at = now()`,
		id, data)
	return err
}

func (p *PostgresStore) LoadConfig(ctx context.Context, id string) (auction.Config, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT config FROM auction_states WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return auction.Config{}, ErrNotFound
	}
	if err != nil {
		return auction.Config{}, err
	}
	if len(data) == 0 {
		return auction.Config{}, ErrNotFound
	}
	var cfg auction.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return auction.Config{}, fmt.Errorf("%w: config for %q: %v", ErrCorrupt, id, err)
	}
	return cfg, nil
}

func (p *PostgresStore) SaveState(ctx context.Context, id string, st *auction.State) error {
	data, err := json.Marshal(stateRecord{SavedAt: time.Now().UTC(), State: st})
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO auction_states (id, state) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET backup = auction_states.state, state = EXCLUDED.state, updated_at = now()`,
		id, data)
	return err
}

func (p *PostgresStore) LoadState(ctx context.Context, id string) (*auction.State, error) {
	return p.loadStateColumn(ctx, id, "state")
}

func (p *PostgresStore) LoadBackupState(ctx context.Context, id string) (*auction.State, error) {
	return p.loadStateColumn(ctx, id, "backup")
}

func (p *PostgresStore) loadStateColumn(ctx context.Context, id, column string) (*auction.State, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT `+column+` FROM auction_states WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: state for %q: %v", ErrCorrupt, id, err)
	}
	if rec.State == nil {
		return nil, fmt.Errorf("%w: state for %q: empty record", ErrCorrupt, id)
	}
	return rec.State, nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM auction_states WHERE id = $1`, id)
	return err
}

func (p *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT id FROM auction_states ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (p *PostgresStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}
