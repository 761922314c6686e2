package ranking

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Post is the read-only view of a candidate post the engine scores.
// Engagement counters are non-negative and maintained externally.
type Post struct {
	ID            string
	AuthorID      string
	PostType      string
	TextContent   string
	LikesCount    int64
	CommentsCount int64
	SharesCount   int64
	SavesCount    int64
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// InteractionType identifies how a viewer engaged with another user.
type InteractionType string

// Interaction types recognized by the affinity calculation. Unknown
// types contribute nothing.
const (
	InteractionMessage InteractionType = "message"
	InteractionComment InteractionType = "comment"
	InteractionShare   InteractionType = "share"
	InteractionLike    InteractionType = "like"
	InteractionView    InteractionType = "view"
)

// Interaction is one recent engagement by the viewer with another user.
type Interaction struct {
	TargetUserID string
	Type         InteractionType
	Timestamp    time.Time
}

// Preferences holds per-user content-type affinities in [0, 1].
type Preferences struct {
	PreferredContentTypes map[string]float64
}

// ViewerContext carries everything about the viewing user that scoring
// needs. All fields besides UserID are optional; a zero value means
// "no effect", never an error. RecentInteractions is expected to be
// pre-bounded to a recent window by the caller; the engine applies no
// expiry of its own.
type ViewerContext struct {
	UserID             string
	Preferences        Preferences
	RecentInteractions []Interaction
	MutedUserIDs       map[string]bool
	HiddenPostIDs      map[string]bool
	MutedWords         []string
}

// Signals is the full score decomposition for one post. Operators use
// it to explain why a post was boosted or suppressed, so every
// component is exposed rather than just the final float.
type Signals struct {
	EngagementScore   float64 `json:"engagement_score"`
	RecencyMultiplier float64 `json:"recency_multiplier"`
	AffinityBoost     float64 `json:"affinity_boost"`
	ContentTypeBoost  float64 `json:"content_type_boost"`
	DiversityPenalty  float64 `json:"diversity_penalty"`
	NegativeSignals   float64 `json:"negative_signals"`
	FinalScore        float64 `json:"final_score"`
}

// ScoredPost pairs a post with its (possibly diversity-penalized) score.
type ScoredPost struct {
	Post  Post
	Score float64
}

// Per-metric log scales. log10(count+1) divided by these saturates
// near 1.0 for a typical very popular count (~10k likes, ~1k others).
const (
	likesLogScale    = 4.0
	commentsLogScale = 3.0
	sharesLogScale   = 3.0
	savesLogScale    = 3.0
)

// Engine scores candidate posts for a viewer. It is a pure computation
// over its inputs plus immutable tuning tables; instances are safe for
// concurrent use.
type Engine struct {
	weights Weights

	// now is injectable so tests can pin post age.
	now func() time.Time
}

// NewEngine creates an engine with the given weights. A nil weights
// pointer selects the defaults.
func NewEngine(w *Weights) *Engine {
	merged := MergeWeights(DefaultWeights(), w)
	return &Engine{
		weights: *merged,
		now:     time.Now,
	}
}

// ComputeScore returns the final relevance score for a single post in
// [0, 1]. Convenience wrapper around ComputeSignals.
func (e *Engine) ComputeScore(post Post, vctx ViewerContext) float64 {
	return e.ComputeSignals(post, vctx).FinalScore
}

// ComputeSignals computes the full signal decomposition for one post.
//
// Negative signals are a hard gate: a muted author, hidden post, or
// muted word zeroes everything regardless of other signals. Otherwise
// the base score is engagement gated by recency, and affinity plus
// content-type preference act as multipliers on top of that base. A
// zero-engagement post cannot be rescued by boosts; personalization
// only amplifies content that is already relevant. Only the final
// result is clamped beyond the two component clamps.
func (e *Engine) ComputeSignals(post Post, vctx ViewerContext) Signals {
	if e.isExcluded(post, vctx) {
		return Signals{NegativeSignals: -1}
	}

	engagement := e.engagementScore(post)
	recency := e.recencyMultiplier(post)
	affinity := e.affinityBoost(post.AuthorID, vctx)
	contentType := e.contentTypeBoost(post, vctx)

	base := engagement * recency
	boosted := base * (1 + affinity + contentType)

	return Signals{
		EngagementScore:   engagement,
		RecencyMultiplier: recency,
		AffinityBoost:     affinity,
		ContentTypeBoost:  contentType,
		DiversityPenalty:  0, // applied at batch level only
		NegativeSignals:   0,
		FinalScore:        clamp01(boosted),
	}
}

// BatchComputeScores scores a candidate list and applies the diversity
// penalty, returning post ID -> score.
//
// The penalty pass walks the score-sorted sequence with a sliding
// window of the last DiversityWindow authors; once an author already
// holds MaxAuthorRepeats slots in the window, further posts by them
// are halved (once each, not compounding). Excluded posts stay in the
// result scored 0 and sort last; callers typically drop them before
// display.
//
// The returned map is NOT re-sorted after penalizing, matching the
// historical behavior this engine replaces: a penalized score can be
// inconsistent with the pre-penalty order. Use RankPosts for a
// presentation order that reflects the penalty.
func (e *Engine) BatchComputeScores(posts []Post, vctx ViewerContext) map[string]float64 {
	ranked := e.rankWithDiversity(posts, vctx)

	scores := make(map[string]float64, len(ranked))
	for _, sp := range ranked {
		scores[sp.Post.ID] = sp.Score
	}
	return scores
}

// RankPosts scores a candidate list, applies the diversity penalty,
// and re-sorts by the penalized score so the penalty visibly affects
// placement. This is the intended ordering for feed delivery.
func (e *Engine) RankPosts(posts []Post, vctx ViewerContext) []ScoredPost {
	ranked := e.rankWithDiversity(posts, vctx)
	sortByScoreDesc(ranked)
	return ranked
}

// rankWithDiversity returns penalized scores in pre-penalty sorted
// order (score descending, post ID ascending on ties for
// reproducibility; the tie-break is otherwise unspecified).
func (e *Engine) rankWithDiversity(posts []Post, vctx ViewerContext) []ScoredPost {
	ranked := make([]ScoredPost, 0, len(posts))
	for _, post := range posts {
		ranked = append(ranked, ScoredPost{
			Post:  post,
			Score: e.ComputeScore(post, vctx),
		})
	}

	sortByScoreDesc(ranked)

	window := e.weights.Diversity.Window
	maxRepeats := e.weights.Diversity.MaxAuthorRepeats

	recentAuthors := make([]string, 0, len(ranked))
	for i := range ranked {
		author := ranked[i].Post.AuthorID

		recent := recentAuthors
		if len(recent) > window {
			recent = recent[len(recent)-window:]
		}
		repeats := 0
		for _, id := range recent {
			if id == author {
				repeats++
			}
		}
		if repeats >= maxRepeats {
			ranked[i].Score *= e.weights.Diversity.Penalty
		}

		recentAuthors = append(recentAuthors, author)
	}

	return ranked
}

// isExcluded reports whether any hard exclusion applies: muted author,
// hidden post, or muted word (case-insensitive substring).
func (e *Engine) isExcluded(post Post, vctx ViewerContext) bool {
	if vctx.MutedUserIDs[post.AuthorID] {
		return true
	}
	if vctx.HiddenPostIDs[post.ID] {
		return true
	}
	if post.TextContent != "" && len(vctx.MutedWords) > 0 {
		content := strings.ToLower(post.TextContent)
		for _, word := range vctx.MutedWords {
			if word != "" && strings.Contains(content, strings.ToLower(word)) {
				return true
			}
		}
	}
	return false
}

// engagementScore computes the log-compressed weighted engagement sum,
// clamped to 1. The weights deliberately sum below 1: each normalized
// term can slightly exceed 1 for extreme counts, and the final clamp
// absorbs the headroom.
func (e *Engine) engagementScore(post Post) float64 {
	w := e.weights.Engagement

	likes := math.Log10(float64(post.LikesCount)+1) / likesLogScale
	comments := math.Log10(float64(post.CommentsCount)+1) / commentsLogScale
	shares := math.Log10(float64(post.SharesCount)+1) / sharesLogScale
	saves := math.Log10(float64(post.SavesCount)+1) / savesLogScale

	score := likes*w.Likes + comments*w.Comments + shares*w.Shares + saves*w.Saves

	return math.Min(1, score)
}

// recencyMultiplier returns the step-function decay for the post's age
// in hours. PublishedAt supersedes CreatedAt when set: scheduled
// content ages from publication, not creation. Buckets are half-open;
// a post exactly 24h old lands in the 24-48h bucket.
func (e *Engine) recencyMultiplier(post Post) float64 {
	postTime := post.CreatedAt
	if post.PublishedAt != nil {
		postTime = *post.PublishedAt
	}
	ageHours := e.now().Sub(postTime).Hours()

	switch {
	case ageHours < 1:
		return 1.0
	case ageHours < 3:
		return 0.9
	case ageHours < 6:
		return 0.7
	case ageHours < 12:
		return 0.5
	case ageHours < 24:
		return 0.3
	case ageHours < 48:
		return 0.1
	default:
		return 0.05
	}
}

// affinityBoost sums per-type weights over the viewer's recent
// interactions with the post's author, normalized so roughly ten
// message-equivalent interactions saturate the boost at 1.
func (e *Engine) affinityBoost(authorID string, vctx ViewerContext) float64 {
	if len(vctx.RecentInteractions) == 0 {
		return 0
	}

	w := e.weights.Affinity
	typeWeights := map[InteractionType]float64{
		InteractionMessage: w.Message,
		InteractionComment: w.Comment,
		InteractionShare:   w.Share,
		InteractionLike:    w.Like,
		InteractionView:    w.View,
	}

	var sum float64
	for _, in := range vctx.RecentInteractions {
		if in.TargetUserID != authorID {
			continue
		}
		sum += typeWeights[in.Type]
	}
	if sum == 0 {
		return 0
	}

	return math.Min(1, sum/10)
}

// contentTypeBoost maps the viewer's preference for the post's content
// type to at most half the supplied preference value.
func (e *Engine) contentTypeBoost(post Post, vctx ViewerContext) float64 {
	pref, ok := vctx.Preferences.PreferredContentTypes[post.PostType]
	if !ok {
		return 0
	}
	return pref * 0.5
}

func sortByScoreDesc(posts []ScoredPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Score != posts[j].Score {
			return posts[i].Score > posts[j].Score
		}
		return posts[i].Post.ID < posts[j].Post.ID
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
