// Package db provides a PostgreSQL-backed implementation of the ServerService interface.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parleychat/parley-server/internal/chat"
	"github.com/parleychat/parley-server/internal/filtering"
	"github.com/parleychat/parley-server/internal/service"
)

// Base collection query. Member IDs are aggregated per server so the filter
// pipeline can evaluate membership and counts without further round trips.
// Ordered by id for a deterministic listing order.
const listServersQuery = `
SELECT
    s.id,
    s.name,
    COALESCE(s.description, ''),
    s.owner_id,
    c.name,
    COALESCE(s.icon_path, ''),
    COALESCE(s.banner_path, ''),
    COALESCE(array_agg(m.user_id ORDER BY m.user_id) FILTER (WHERE m.user_id IS NOT NULL), '{}')
FROM servers s
JOIN categories c ON c.id = s.category_id
LEFT JOIN server_members m ON m.server_id = s.id
GROUP BY s.id, c.name
ORDER BY s.id`

const listCategoriesQuery = `
SELECT id, name, COALESCE(description, '')
FROM categories
ORDER BY id`

const setServerIconQuery = `
UPDATE servers SET icon_path = $2 WHERE id = $1`

// options holds configuration options for the database service
type options struct {
	pool *pgxpool.Pool
}

// Option is a functional option for configuring the database service
type Option func(*options) error

// WithConnectionPool configures the service with the given pgx pool. The
// caller is responsible for closing the pool when it is done.
func WithConnectionPool(pool *pgxpool.Pool) Option {
	return func(o *options) error {
		if pool == nil {
			return fmt.Errorf("pgx pool is required")
		}
		o.pool = pool
		return nil
	}
}

// dbService implements the ServerService interface using a database backend
type dbService struct {
	pool *pgxpool.Pool
}

var _ service.ServerService = (*dbService)(nil)

// New creates a new database-backed server service with the given options
func New(opts ...Option) (service.ServerService, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.pool == nil {
		return nil, fmt.Errorf("a connection pool is required")
	}

	return &dbService{pool: o.pool}, nil
}

// CheckReadiness checks if the service is ready to serve requests
func (s *dbService) CheckReadiness(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// ListServers loads the base server collection and runs the filter pipeline
// over it. The store is only read; narrowing happens on the in-memory view.
func (s *dbService) ListServers(ctx context.Context, req filtering.Request) ([]filtering.AnnotatedServer, error) {
	servers, err := s.loadServers(ctx)
	if err != nil {
		return nil, err
	}
	return filtering.Apply(servers, req)
}

func (s *dbService) loadServers(ctx context.Context) ([]chat.Server, error) {
	rows, err := s.pool.Query(ctx, listServersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query servers: %w", err)
	}
	defer rows.Close()

	servers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (chat.Server, error) {
		var srv chat.Server
		err := row.Scan(
			&srv.ID,
			&srv.Name,
			&srv.Description,
			&srv.OwnerID,
			&srv.Category,
			&srv.IconPath,
			&srv.BannerPath,
			&srv.Members,
		)
		return srv, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan servers: %w", err)
	}
	return servers, nil
}

// ListCategories returns all categories
func (s *dbService) ListCategories(ctx context.Context) ([]chat.Category, error) {
	rows, err := s.pool.Query(ctx, listCategoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (chat.Category, error) {
		var c chat.Category
		err := row.Scan(&c.ID, &c.Name, &c.Description)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}

// SetServerIcon records the stored icon path for a server
func (s *dbService) SetServerIcon(ctx context.Context, serverID int64, iconPath string) error {
	tag, err := s.pool.Exec(ctx, setServerIconQuery, serverID, iconPath)
	if err != nil {
		return fmt.Errorf("failed to update server icon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrServerNotFound
	}
	return nil
}
