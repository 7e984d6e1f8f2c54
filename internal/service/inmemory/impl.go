// Package inmemory provides an in-memory implementation of the ServerService
// interface, used by tests and database-less development setups.
package inmemory

import (
	"context"
	"sync"

	"github.com/parleychat/parley-server/internal/chat"
	"github.com/parleychat/parley-server/internal/filtering"
	"github.com/parleychat/parley-server/internal/service"
)

// memService implements the ServerService interface over a seeded slice of
// servers. Listing works on a snapshot, so a concurrent icon update never
// mutates a working set mid-pipeline.
type memService struct {
	mu         sync.RWMutex
	servers    []chat.Server
	categories []chat.Category
}

var _ service.ServerService = (*memService)(nil)

// New creates an in-memory server service seeded with the given records.
func New(servers []chat.Server, categories []chat.Category) service.ServerService {
	return &memService{
		servers:    servers,
		categories: categories,
	}
}

// CheckReadiness always succeeds; there is no backing store to wait for.
func (*memService) CheckReadiness(context.Context) error {
	return nil
}

// ListServers runs the filter pipeline over a snapshot of the seeded servers.
func (s *memService) ListServers(_ context.Context, req filtering.Request) ([]filtering.AnnotatedServer, error) {
	s.mu.RLock()
	snapshot := make([]chat.Server, len(s.servers))
	copy(snapshot, s.servers)
	s.mu.RUnlock()

	return filtering.Apply(snapshot, req)
}

// ListCategories returns the seeded categories.
func (s *memService) ListCategories(context.Context) ([]chat.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]chat.Category, len(s.categories))
	copy(categories, s.categories)
	return categories, nil
}

// SetServerIcon records the stored icon path for a server.
func (s *memService) SetServerIcon(_ context.Context, serverID int64, iconPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.servers {
		if s.servers[i].ID == serverID {
			s.servers[i].IconPath = iconPath
			return nil
		}
	}
	return service.ErrServerNotFound
}
