// Package chat defines the core domain types for the Parley chat-server backend.
package chat

// Category is a named grouping label attached to servers.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Server is a community entity with members and a category, analogous to a
// chat-application guild. The listing pipeline only reads these records; the
// storage layer owns their lifecycle.
type Server struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	OwnerID     int64   `json:"owner_id"`
	Category    string  `json:"category"`
	IconPath    string  `json:"icon,omitempty"`
	BannerPath  string  `json:"banner,omitempty"`
	Members     []int64 `json:"-"`
}

// HasMember reports whether the given user is a member of the server.
func (s *Server) HasMember(userID int64) bool {
	for _, id := range s.Members {
		if id == userID {
			return true
		}
	}
	return false
}
