// Package service provides the business logic for the chat-server API.
package service

import (
	"context"
	"errors"

	"github.com/parleychat/parley-server/internal/chat"
	"github.com/parleychat/parley-server/internal/filtering"
)

var (
	// ErrServerNotFound is returned when an operation targets a server id
	// that does not exist.
	ErrServerNotFound = errors.New("server not found")
)

// ServerService defines the operations the API exposes over chat servers.
type ServerService interface {
	// CheckReadiness checks if the service is ready to serve requests.
	CheckReadiness(ctx context.Context) error

	// ListServers runs the filter pipeline over the stored server collection.
	ListServers(ctx context.Context, req filtering.Request) ([]filtering.AnnotatedServer, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]chat.Category, error)

	// SetServerIcon records the stored icon path for a server.
	SetServerIcon(ctx context.Context, serverID int64, iconPath string) error
}
