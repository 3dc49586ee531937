// Package names resolves opaque user ids to display names. The engine only
// needs the mapping at game creation; ids it cannot resolve fall back to a
// User_<id> placeholder there.
package names

import "context"

// Resolver maps user ids to display names. Ids with no known name are simply
// absent from the result; that is not an error.
type Resolver interface {
	Resolve(ctx context.Context, userIDs []string) (map[string]string, error)
}

// Static is a fixed in-memory resolver, used in tests and in deployments
// without a user database.
type Static map[string]string

// Resolve returns the subset of requested ids present in the map.
func (s Static) Resolve(_ context.Context, userIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		if name, ok := s[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}
