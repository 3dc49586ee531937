package names

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres resolves display names from a users table. The account system
// itself is an external collaborator; this resolver is strictly read-only.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Resolve looks up display names for the given ids in one query. Unknown ids
// are omitted from the result.
func (p *Postgres) Resolve(ctx context.Context, userIDs []string) (map[string]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, display_name FROM users WHERE id = ANY($1)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("names: query users: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(userIDs))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("names: scan user row: %w", err)
		}
		out[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("names: read user rows: %w", err)
	}
	return out, nil
}
