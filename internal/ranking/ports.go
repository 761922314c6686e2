package ranking

import (
	"context"
	"time"
)

// The engine itself never touches storage; these interfaces are what a
// caller assembles a ViewerContext from. internal/db provides the
// postgres-backed implementations.

// PreferenceStore supplies per-user content-type affinities.
type PreferenceStore interface {
	GetPreferences(ctx context.Context, userID string) (Preferences, error)
}

// InteractionStore supplies the viewer's recent engagement with other
// users, bounded to the given window.
type InteractionStore interface {
	GetRecentInteractions(ctx context.Context, userID string, window time.Duration) ([]Interaction, error)
}

// ModerationStore supplies the viewer's exclusion lists.
type ModerationStore interface {
	GetMutedUserIDs(ctx context.Context, userID string) (map[string]bool, error)
	GetHiddenPostIDs(ctx context.Context, userID string) (map[string]bool, error)
	GetMutedWords(ctx context.Context, userID string) ([]string, error)
}
