package filtering

import (
	"net/url"
	"strconv"

	"github.com/parleychat/parley-server/internal/auth"
	"github.com/parleychat/parley-server/internal/chat"
)

// literalTrue is the only value accepted as true for boolean query parameters.
const literalTrue = "true"

// Request is the transient, request-scoped filter value threaded through the
// pipeline. Quantity and ServerID stay unparsed so that each is validated at
// the step that consumes it, after any authentication check that precedes it.
// An empty string means the corresponding filter is absent.
type Request struct {
	// Category narrows to servers whose category name exactly equals it.
	Category string

	// Quantity caps the result count. Parsed at the quantity-limit step.
	Quantity string

	// ByUser restricts to servers the calling user is a member of.
	ByUser bool

	// ServerID narrows the limited working set to one server id. Parsed at
	// the by-id step.
	ServerID string

	// WithMemberCount requests a member count annotation per result.
	WithMemberCount bool

	// User is the ambient caller identity.
	User auth.Identity
}

// ParseRequest builds a pipeline request from the listing endpoint's query
// parameters. Boolean parameters accept only the literal "true".
func ParseRequest(query url.Values, user auth.Identity) Request {
	return Request{
		Category:        query.Get("category"),
		Quantity:        query.Get("qty"),
		ByUser:          query.Get("by_user") == literalTrue,
		ServerID:        query.Get("by_serverid"),
		WithMemberCount: query.Get("with_num_members") == literalTrue,
		User:            user,
	}
}

// AnnotatedServer is a pipeline result item: a server record plus the optional
// member-count annotation.
type AnnotatedServer struct {
	chat.Server
	MemberCount *int
}

// Apply runs the filter pipeline over the given base collection and returns
// the filtered, ordered view. The input slice is never modified; order of the
// input is preserved throughout.
func Apply(servers []chat.Server, req Request) ([]AnnotatedServer, error) {
	working := servers

	if req.Category != "" {
		narrowed := make([]chat.Server, 0, len(working))
		for _, s := range working {
			if s.Category == req.Category {
				narrowed = append(narrowed, s)
			}
		}
		working = narrowed
	}

	if req.ByUser {
		if !req.User.Authenticated {
			return nil, ErrUnauthenticated
		}
		narrowed := make([]chat.Server, 0, len(working))
		for _, s := range working {
			if s.HasMember(req.User.UserID) {
				narrowed = append(narrowed, s)
			}
		}
		working = narrowed
	}

	// The annotation is computed over the set as narrowed so far.
	results := make([]AnnotatedServer, len(working))
	for i := range working {
		results[i].Server = working[i]
		if req.WithMemberCount {
			n := len(working[i].Members)
			results[i].MemberCount = &n
		}
	}

	if req.Quantity != "" {
		qty, err := strconv.Atoi(req.Quantity)
		if err != nil || qty < 0 {
			return nil, &ParameterError{Param: "qty", Value: req.Quantity}
		}
		if qty < len(results) {
			results = results[:qty]
		}
	}

	if req.ServerID != "" {
		// The authentication check comes before id parsing so that an
		// anonymous caller gets 401 even for a malformed id.
		if !req.User.Authenticated {
			return nil, ErrUnauthenticated
		}
		id, err := strconv.ParseInt(req.ServerID, 10, 64)
		if err != nil {
			return nil, &ParameterError{Param: "by_serverid", Value: req.ServerID}
		}
		narrowed := make([]AnnotatedServer, 0, 1)
		for _, s := range results {
			if s.ID == id {
				narrowed = append(narrowed, s)
			}
		}
		if len(narrowed) == 0 {
			return nil, &NotFoundError{ID: id}
		}
		results = narrowed
	}

	return results, nil
}
