package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	key        TEXT NOT NULL,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, key)
)`

// Postgres keeps documents in a single jsonb table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a pool, pings the server and creates the documents table.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, collection, key string) (Document, error) {
	var body []byte

	err := p.pool.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND key = $2`,
		collection, key,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s/%s: %w", collection, key, err)
	}

	return unmarshal(body)
}

func (p *Postgres) Put(ctx context.Context, collection, key string, doc Document) error {
	body, err := marshal(doc)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO documents (collection, key, body, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, key)
		DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		collection, key, body,
	)
	if err != nil {
		return fmt.Errorf("postgres put %s/%s: %w", collection, key, err)
	}

	return nil
}

// Query uses jsonb containment, so filter values must match the stored JSON exactly.
func (p *Postgres) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if filter == nil {
		filter = Filter{}
	}
	containment, err := marshal(Document(filter))
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND body @> $2::jsonb ORDER BY key`,
		collection, containment,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres query %s: %w", collection, err)
	}
	defer rows.Close()

	var result []Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("postgres scan %s: %w", collection, err)
		}
		doc, err := unmarshal(body)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres query %s: %w", collection, err)
	}

	if result == nil {
		result = []Document{}
	}
	return result, nil
}

func (p *Postgres) Delete(ctx context.Context, collection, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND key = $2`, collection, key)
	if err != nil {
		return fmt.Errorf("postgres delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
