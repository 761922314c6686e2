package feed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pawgather/pawfeed/internal/models"
	"github.com/pawgather/pawfeed/internal/ranking"
	"github.com/pawgather/pawfeed/pkg/config"
	"github.com/pawgather/pawfeed/pkg/logging"
	"github.com/pawgather/pawfeed/pkg/telemetry"
)

// PostStore supplies candidate posts. Implemented by db.PostRepository.
type PostStore interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetCandidatesByAuthors(ctx context.Context, authorIDs []string, limit int, cursor string) ([]models.Post, error)
	GetPublicRecent(ctx context.Context, limit int, cursor string) ([]models.Post, error)
}

// FollowStore supplies the viewer's follow list. Implemented by
// db.SettingsRepository.
type FollowStore interface {
	GetFollowedIDs(ctx context.Context, userID string) ([]string, error)
}

// Stores bundles the data providers the feed service reads from.
type Stores struct {
	Posts        PostStore
	Follows      FollowStore
	Moderation   ranking.ModerationStore
	Preferences  ranking.PreferenceStore
	Interactions ranking.InteractionStore
}

// Item is one feed entry: a post with its relevance score. Score is 0
// for chronological feeds, which do not rank.
type Item struct {
	Post  models.Post `json:"post"`
	Score float64     `json:"score"`
}

// Page is one page of feed results.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// ErrPostNotFound is returned by GetSignals for an unknown post ID.
var ErrPostNotFound = fmt.Errorf("post not found")

// Service assembles viewer context from the stores and delivers the
// home, following, and explore feeds.
type Service struct {
	engine            *ranking.Engine
	stores            Stores
	overfetchFactor   int
	interactionWindow time.Duration
	logger            *zap.Logger
}

// NewService creates a feed service.
func NewService(engine *ranking.Engine, stores Stores, cfg *config.FeedConfig) *Service {
	return &Service{
		engine:            engine,
		stores:            stores,
		overfetchFactor:   cfg.OverfetchFactor,
		interactionWindow: time.Duration(cfg.InteractionWindowDays) * 24 * time.Hour,
		logger:            logging.GetLogger().With(zap.String("component", "feed-service")),
	}
}

// GetHomeFeed returns the ranked home feed: posts from followed
// authors, over-fetched so the diversity pass has room to reorder,
// scored and ordered by the ranking engine. Excluded (zero-scored)
// posts are dropped before delivery.
//
// The cursor tracks the fetch order (publish time descending), not the
// ranked order, so pages remain stable while scores shift.
func (s *Service) GetHomeFeed(ctx context.Context, userID string, limit int, cursor string) (*Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.home")
	defer span.End()

	followedIDs, err := s.stores.Follows.GetFollowedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load follow list: %w", err)
	}
	if len(followedIDs) == 0 {
		return &Page{Items: []Item{}}, nil
	}

	fetchLimit := limit * s.overfetchFactor
	candidates, err := s.stores.Posts.GetCandidatesByAuthors(ctx, followedIDs, fetchLimit, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	if len(candidates) == 0 {
		return &Page{Items: []Item{}}, nil
	}

	vctx, err := s.buildViewerContext(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	ranked := s.engine.RankPosts(toRankingPosts(candidates), vctx)

	byID := make(map[string]models.Post, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}

	items := make([]Item, 0, limit)
	for _, sp := range ranked {
		if sp.Score <= 0 {
			// Excluded or zero-engagement posts never ship.
			continue
		}
		items = append(items, Item{Post: byID[sp.Post.ID], Score: sp.Score})
		if len(items) == limit {
			break
		}
	}

	page := &Page{Items: items}
	if len(candidates) == fetchLimit {
		page.HasMore = true
		page.NextCursor = candidates[len(candidates)-1].ID
	}

	s.logger.Debug("home feed built",
		zap.String("user_id", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("delivered", len(items)))

	return page, nil
}

// GetFollowingFeed returns a purely chronological feed from followed
// authors with muted content filtered out. No ranking is applied.
func (s *Service) GetFollowingFeed(ctx context.Context, userID string, limit int, cursor string) (*Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.following")
	defer span.End()

	followedIDs, err := s.stores.Follows.GetFollowedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load follow list: %w", err)
	}
	if len(followedIDs) == 0 {
		return &Page{Items: []Item{}}, nil
	}

	posts, err := s.stores.Posts.GetCandidatesByAuthors(ctx, followedIDs, limit+1, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	return s.chronologicalPage(ctx, userID, posts, limit)
}

// GetExploreFeed returns public recent posts for discovery, ordered by
// stored relevance then publish time, with muted content filtered out.
func (s *Service) GetExploreFeed(ctx context.Context, userID string, limit int, cursor string) (*Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.explore")
	defer span.End()

	posts, err := s.stores.Posts.GetPublicRecent(ctx, limit+1, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	return s.chronologicalPage(ctx, userID, posts, limit)
}

// GetSignals returns the full score decomposition for one post as seen
// by one viewer, for explainability tooling.
func (s *Service) GetSignals(ctx context.Context, userID, postID string) (*ranking.Signals, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.signals")
	defer span.End()

	post, err := s.stores.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	vctx, err := s.buildViewerContext(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	signals := s.engine.ComputeSignals(toRankingPost(*post), vctx)
	return &signals, nil
}

// chronologicalPage applies the limit+1 paging convention and the
// muted-content filter shared with the ranked path.
func (s *Service) chronologicalPage(ctx context.Context, userID string, posts []models.Post, limit int) (*Page, error) {
	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	// Exclusion only needs the moderation lists, not affinity data.
	vctx, err := s.buildViewerContext(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(posts))
	for _, p := range posts {
		if s.engine.ComputeSignals(toRankingPost(p), vctx).NegativeSignals < 0 {
			continue
		}
		items = append(items, Item{Post: p})
	}

	page := &Page{Items: items, HasMore: hasMore}
	if hasMore && len(posts) > 0 {
		page.NextCursor = posts[len(posts)-1].ID
	}
	return page, nil
}

// buildViewerContext assembles the ranking context for a viewer. The
// moderation lists are always loaded; preference and interaction data
// only when the caller ranks.
func (s *Service) buildViewerContext(ctx context.Context, userID string, forRanking bool) (ranking.ViewerContext, error) {
	vctx := ranking.ViewerContext{UserID: userID}

	muted, err := s.stores.Moderation.GetMutedUserIDs(ctx, userID)
	if err != nil {
		return vctx, fmt.Errorf("failed to load muted users: %w", err)
	}
	hidden, err := s.stores.Moderation.GetHiddenPostIDs(ctx, userID)
	if err != nil {
		return vctx, fmt.Errorf("failed to load hidden posts: %w", err)
	}
	words, err := s.stores.Moderation.GetMutedWords(ctx, userID)
	if err != nil {
		return vctx, fmt.Errorf("failed to load muted words: %w", err)
	}
	vctx.MutedUserIDs = muted
	vctx.HiddenPostIDs = hidden
	vctx.MutedWords = words

	if !forRanking {
		return vctx, nil
	}

	prefs, err := s.stores.Preferences.GetPreferences(ctx, userID)
	if err != nil {
		return vctx, fmt.Errorf("failed to load preferences: %w", err)
	}
	interactions, err := s.stores.Interactions.GetRecentInteractions(ctx, userID, s.interactionWindow)
	if err != nil {
		return vctx, fmt.Errorf("failed to load interactions: %w", err)
	}
	vctx.Preferences = prefs
	vctx.RecentInteractions = interactions

	return vctx, nil
}

func toRankingPost(p models.Post) ranking.Post {
	return ranking.Post{
		ID:            p.ID,
		AuthorID:      p.AuthorID,
		PostType:      p.PostType,
		TextContent:   p.TextContent,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		SharesCount:   p.SharesCount,
		SavesCount:    p.SavesCount,
		CreatedAt:     p.CreatedAt,
		PublishedAt:   p.PublishedAt,
	}
}

func toRankingPosts(posts []models.Post) []ranking.Post {
	out := make([]ranking.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, toRankingPost(p))
	}
	return out
}
