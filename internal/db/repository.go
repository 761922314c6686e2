package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pawgather/pawfeed/internal/models"
	"github.com/pawgather/pawfeed/internal/ranking"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetCandidatesByAuthors retrieves published, non-deleted posts by the
// given authors, newest first. A non-empty cursor restricts the page to
// posts with IDs below it.
func (r *PostRepository) GetCandidatesByAuthors(ctx context.Context, authorIDs []string, limit int, cursor string) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Where("deleted_at IS NULL").
		Where("published_at IS NOT NULL")
	if cursor != "" {
		q = q.Where("id < ?", cursor)
	}
	if err := q.Order("published_at DESC, id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPublicRecent retrieves public posts for the explore feed, ordered
// by stored relevance then publish time.
func (r *PostRepository) GetPublicRecent(ctx context.Context, limit int, cursor string) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.WithContext(ctx).
		Where("visibility = ?", "public").
		Where("deleted_at IS NULL").
		Where("published_at IS NOT NULL")
	if cursor != "" {
		q = q.Where("id < ?", cursor)
	}
	if err := q.Order("relevance_score DESC, published_at DESC, id DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// InteractionRepository provides interaction-history database
// operations. It satisfies ranking.InteractionStore.
type InteractionRepository struct {
	*Repository
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(repo *Repository) *InteractionRepository {
	return &InteractionRepository{Repository: repo}
}

// GetRecentInteractions returns the user's outbound interactions within
// the window, already bounded so the scoring path never has to apply
// expiry itself.
func (r *InteractionRepository) GetRecentInteractions(ctx context.Context, userID string, window time.Duration) ([]ranking.Interaction, error) {
	var rows []models.Interaction
	since := time.Now().UTC().Add(-window)
	if err := r.db.WithContext(ctx).
		Where("actor_id = ? AND created_at >= ?", userID, since).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	interactions := make([]ranking.Interaction, 0, len(rows))
	for _, row := range rows {
		interactions = append(interactions, ranking.Interaction{
			TargetUserID: row.TargetUserID,
			Type:         ranking.InteractionType(row.Type),
			Timestamp:    row.CreatedAt,
		})
	}
	return interactions, nil
}

// SettingsRepository provides viewer-settings database operations. It
// satisfies ranking.ModerationStore and ranking.PreferenceStore.
type SettingsRepository struct {
	*Repository
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(repo *Repository) *SettingsRepository {
	return &SettingsRepository{Repository: repo}
}

// GetFollowedIDs returns the IDs of users the given user follows.
func (r *SettingsRepository) GetFollowedIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followed_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMutedUserIDs returns the user's mute list as a set.
func (r *SettingsRepository) GetMutedUserIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Mute{}).
		Where("user_id = ?", userID).
		Pluck("muted_user_id", &ids).Error; err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// GetHiddenPostIDs returns the user's hidden-post list as a set.
func (r *SettingsRepository) GetHiddenPostIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.HiddenPost{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// GetMutedWords returns the user's muted words.
func (r *SettingsRepository) GetMutedWords(ctx context.Context, userID string) ([]string, error) {
	var words []string
	if err := r.db.WithContext(ctx).
		Model(&models.MutedWord{}).
		Where("user_id = ?", userID).
		Pluck("word", &words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

// GetPreferences returns the user's learned content-type affinities.
func (r *SettingsRepository) GetPreferences(ctx context.Context, userID string) (ranking.Preferences, error) {
	var rows []models.ContentPreference
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return ranking.Preferences{}, err
	}

	if len(rows) == 0 {
		return ranking.Preferences{}, nil
	}
	prefs := make(map[string]float64, len(rows))
	for _, row := range rows {
		prefs[row.PostType] = row.Weight
	}
	return ranking.Preferences{PreferredContentTypes: prefs}, nil
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
