package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawgather/pawfeed/internal/cache"
	"github.com/pawgather/pawfeed/internal/feed"
	"github.com/pawgather/pawfeed/pkg/config"
	"github.com/pawgather/pawfeed/pkg/logging"
)

// FeedAPI exposes the feed.* JSON-RPC methods.
type FeedAPI struct {
	svc      *feed.Service
	cache    *cache.Cache
	maxLimit int
	logger   *zap.Logger
}

// NewFeedAPI creates a new feed API
func NewFeedAPI(svc *feed.Service, redisCache *cache.Cache, cfg *config.FeedConfig) *FeedAPI {
	return &FeedAPI{
		svc:      svc,
		cache:    redisCache,
		maxLimit: cfg.MaxLimit,
		logger:   logging.GetLogger().With(zap.String("component", "feed-api")),
	}
}

// feedParams are the common parameters of the feed methods.
type feedParams struct {
	userID string
	limit  int
	cursor string
}

func (a *FeedAPI) parseFeedParams(params json.RawMessage) (feedParams, error) {
	var pMap map[string]interface{}
	if err := json.Unmarshal(params, &pMap); err != nil {
		return feedParams{}, NewError(ErrInvalidParams, "invalid parameters format")
	}

	userID, _ := pMap["user_id"].(string)
	if userID == "" {
		return feedParams{}, NewError(ErrInvalidParams, "missing required parameter: user_id")
	}

	limit := 20
	if l, ok := pMap["limit"].(float64); ok {
		limit = int(l)
		if limit < 1 {
			limit = 1
		}
		if limit > a.maxLimit {
			limit = a.maxLimit
		}
	}

	cursor := ""
	if c, ok := pMap["cursor"].(string); ok {
		cursor = c
	}

	return feedParams{userID: userID, limit: limit, cursor: cursor}, nil
}

// GetRanked handles feed.get_ranked
func (a *FeedAPI) GetRanked(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := a.parseFeedParams(params)
	if err != nil {
		return nil, err
	}

	cacheKey := cache.HashKey("feed_get_ranked", p.userID, fmt.Sprintf("%d", p.limit), p.cursor)
	if a.cache != nil {
		var cached feed.Page
		if err := a.cache.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	page, err := a.svc.GetHomeFeed(ctx.Request.Context(), p.userID, p.limit, p.cursor)
	if err != nil {
		return nil, err
	}

	a.cacheResult(cacheKey, page, 30*time.Second)
	return page, nil
}

// GetFollowing handles feed.get_following
func (a *FeedAPI) GetFollowing(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := a.parseFeedParams(params)
	if err != nil {
		return nil, err
	}

	cacheKey := cache.HashKey("feed_get_following", p.userID, fmt.Sprintf("%d", p.limit), p.cursor)
	if a.cache != nil {
		var cached feed.Page
		if err := a.cache.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	page, err := a.svc.GetFollowingFeed(ctx.Request.Context(), p.userID, p.limit, p.cursor)
	if err != nil {
		return nil, err
	}

	// Chronological feeds go stale the moment someone posts.
	a.cacheResult(cacheKey, page, 3*time.Second)
	return page, nil
}

// GetExplore handles feed.get_explore
func (a *FeedAPI) GetExplore(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	p, err := a.parseFeedParams(params)
	if err != nil {
		return nil, err
	}

	cacheKey := cache.HashKey("feed_get_explore", p.userID, fmt.Sprintf("%d", p.limit), p.cursor)
	if a.cache != nil {
		var cached feed.Page
		if err := a.cache.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	page, err := a.svc.GetExploreFeed(ctx.Request.Context(), p.userID, p.limit, p.cursor)
	if err != nil {
		return nil, err
	}

	a.cacheResult(cacheKey, page, 60*time.Second)
	return page, nil
}

// GetSignals handles feed.get_signals: the per-post score breakdown
// used to answer "why was this boosted/suppressed". Never cached; it
// is a diagnostics surface and recency decay shifts it continuously.
func (a *FeedAPI) GetSignals(ctx *gin.Context, params json.RawMessage) (interface{}, error) {
	var pMap map[string]interface{}
	if err := json.Unmarshal(params, &pMap); err != nil {
		return nil, NewError(ErrInvalidParams, "invalid parameters format")
	}

	userID, _ := pMap["user_id"].(string)
	if userID == "" {
		return nil, NewError(ErrInvalidParams, "missing required parameter: user_id")
	}
	postID, _ := pMap["post_id"].(string)
	if postID == "" {
		return nil, NewError(ErrInvalidParams, "missing required parameter: post_id")
	}

	signals, err := a.svc.GetSignals(ctx.Request.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, feed.ErrPostNotFound) {
			return nil, NewError(ErrInvalidParams, "post not found")
		}
		return nil, err
	}
	return signals, nil
}

func (a *FeedAPI) cacheResult(key string, page *feed.Page, ttl time.Duration) {
	if a.cache == nil {
		return
	}
	if err := a.cache.SetJSON(key, page, ttl); err != nil {
		a.logger.Warn("failed to cache feed page", zap.Error(err))
	}
}
