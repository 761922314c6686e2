package feed

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pawgather/pawfeed/internal/models"
	"github.com/pawgather/pawfeed/internal/ranking"
	"github.com/pawgather/pawfeed/pkg/config"
)

// fakeStores is an in-memory implementation of every store the service
// reads from.
type fakeStores struct {
	posts        []models.Post
	follows      []string
	muted        map[string]bool
	hidden       map[string]bool
	words        []string
	prefs        ranking.Preferences
	interactions []ranking.Interaction
}

func (f *fakeStores) GetByID(_ context.Context, id string) (*models.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			post := p
			return &post, nil
		}
	}
	return nil, nil
}

func (f *fakeStores) GetCandidatesByAuthors(_ context.Context, authorIDs []string, limit int, cursor string) ([]models.Post, error) {
	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	var out []models.Post
	for _, p := range f.posts {
		if !authors[p.AuthorID] {
			continue
		}
		if cursor != "" && p.ID >= cursor {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStores) GetPublicRecent(_ context.Context, limit int, cursor string) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.Visibility != "public" {
			continue
		}
		if cursor != "" && p.ID >= cursor {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStores) GetFollowedIDs(_ context.Context, _ string) ([]string, error) {
	return f.follows, nil
}

func (f *fakeStores) GetMutedUserIDs(_ context.Context, _ string) (map[string]bool, error) {
	return f.muted, nil
}

func (f *fakeStores) GetHiddenPostIDs(_ context.Context, _ string) (map[string]bool, error) {
	return f.hidden, nil
}

func (f *fakeStores) GetMutedWords(_ context.Context, _ string) ([]string, error) {
	return f.words, nil
}

func (f *fakeStores) GetPreferences(_ context.Context, _ string) (ranking.Preferences, error) {
	return f.prefs, nil
}

func (f *fakeStores) GetRecentInteractions(_ context.Context, _ string, _ time.Duration) ([]ranking.Interaction, error) {
	return f.interactions, nil
}

func newTestService(f *fakeStores) *Service {
	cfg := &config.FeedConfig{
		OverfetchFactor:       3,
		InteractionWindowDays: 30,
		MaxLimit:              100,
	}
	return NewService(ranking.NewEngine(nil), Stores{
		Posts:        f,
		Follows:      f,
		Moderation:   f,
		Preferences:  f,
		Interactions: f,
	}, cfg)
}

func testPost(id, author string, likes int64, publishedAgo time.Duration) models.Post {
	now := time.Now().UTC()
	published := now.Add(-publishedAgo)
	return models.Post{
		ID:          id,
		AuthorID:    author,
		PostType:    "standard",
		Visibility:  "public",
		LikesCount:  likes,
		CreatedAt:   published,
		PublishedAt: &published,
	}
}

func TestGetHomeFeedRanksAndFilters(t *testing.T) {
	f := &fakeStores{
		posts: []models.Post{
			testPost("p5", "friend", 10, 10*time.Minute),
			testPost("p4", "muted-user", 100000, 10*time.Minute),
			testPost("p3", "friend", 10000, 10*time.Minute),
			testPost("p2", "friend", 0, 10*time.Minute), // zero engagement
			testPost("p1", "friend", 500, 10*time.Minute),
		},
		follows: []string{"friend", "muted-user"},
		muted:   map[string]bool{"muted-user": true},
	}
	svc := newTestService(f)

	page, err := svc.GetHomeFeed(context.Background(), "viewer", 10, "")
	if err != nil {
		t.Fatalf("GetHomeFeed() error: %v", err)
	}

	gotIDs := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		gotIDs = append(gotIDs, item.Post.ID)
		if item.Score <= 0 {
			t.Errorf("delivered item %s has non-positive score %v", item.Post.ID, item.Score)
		}
	}

	// Muted author's viral post and the zero-engagement post are gone;
	// the rest are ordered by score (likes, all else equal).
	want := []string{"p3", "p1", "p5"}
	if len(gotIDs) != len(want) {
		t.Fatalf("got items %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Errorf("rank %d = %s, want %s", i+1, gotIDs[i], want[i])
		}
	}
}

func TestGetHomeFeedEmptyFollowList(t *testing.T) {
	svc := newTestService(&fakeStores{})

	page, err := svc.GetHomeFeed(context.Background(), "loner", 20, "")
	if err != nil {
		t.Fatalf("GetHomeFeed() error: %v", err)
	}
	if len(page.Items) != 0 || page.HasMore {
		t.Errorf("expected empty page, got %+v", page)
	}
}

func TestGetHomeFeedPagination(t *testing.T) {
	f := &fakeStores{follows: []string{"friend"}}
	// Exactly fills the over-fetch window (limit 2 x factor 3).
	for i := 0; i < 6; i++ {
		f.posts = append(f.posts, testPost(
			// IDs descend with recency so the cursor comparison holds.
			string(rune('z'-i)), "friend", int64(100+i), time.Duration(i)*time.Hour))
	}
	svc := newTestService(f)

	page, err := svc.GetHomeFeed(context.Background(), "viewer", 2, "")
	if err != nil {
		t.Fatalf("GetHomeFeed() error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("got %d items, want 2", len(page.Items))
	}
	if !page.HasMore {
		t.Error("expected HasMore when the fetch window is full")
	}
	if page.NextCursor != "u" {
		t.Errorf("NextCursor = %q, want %q (last fetched candidate)", page.NextCursor, "u")
	}
}

func TestGetFollowingFeedChronologicalAndFiltered(t *testing.T) {
	f := &fakeStores{
		posts: []models.Post{
			testPost("p4", "friend", 50, 1*time.Hour),
			{
				ID:          "p3",
				AuthorID:    "friend",
				PostType:    "standard",
				Visibility:  "public",
				TextContent: "adopt this adorable TARANTULA today",
				CreatedAt:   time.Now().UTC(),
			},
			testPost("p2", "friend", 10, 3*time.Hour),
			testPost("p1", "friend", 0, 5*time.Hour), // zero engagement still shows chronologically
		},
		follows: []string{"friend"},
		words:   []string{"tarantula"},
	}
	svc := newTestService(f)

	page, err := svc.GetFollowingFeed(context.Background(), "viewer", 10, "")
	if err != nil {
		t.Fatalf("GetFollowingFeed() error: %v", err)
	}

	want := []string{"p4", "p2", "p1"}
	if len(page.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(page.Items), len(want))
	}
	for i, item := range page.Items {
		if item.Post.ID != want[i] {
			t.Errorf("position %d = %s, want %s", i, item.Post.ID, want[i])
		}
		if item.Score != 0 {
			t.Errorf("chronological feed item %s has score %v, want 0", item.Post.ID, item.Score)
		}
	}
}

func TestGetFollowingFeedPagination(t *testing.T) {
	f := &fakeStores{follows: []string{"friend"}}
	for _, id := range []string{"p5", "p4", "p3", "p2", "p1"} {
		f.posts = append(f.posts, testPost(id, "friend", 10, time.Hour))
	}
	svc := newTestService(f)

	page, err := svc.GetFollowingFeed(context.Background(), "viewer", 2, "")
	if err != nil {
		t.Fatalf("GetFollowingFeed() error: %v", err)
	}
	if len(page.Items) != 2 || !page.HasMore || page.NextCursor != "p4" {
		t.Errorf("page = %+v, want 2 items, HasMore, cursor p4", page)
	}

	next, err := svc.GetFollowingFeed(context.Background(), "viewer", 2, page.NextCursor)
	if err != nil {
		t.Fatalf("GetFollowingFeed() error: %v", err)
	}
	if len(next.Items) != 2 || next.Items[0].Post.ID != "p3" {
		t.Errorf("second page = %+v, want to start at p3", next)
	}
}

func TestGetExploreFeedSkipsNonPublic(t *testing.T) {
	private := testPost("p2", "someone", 10, time.Hour)
	private.Visibility = "followers_only"

	f := &fakeStores{
		posts: []models.Post{
			testPost("p3", "someone", 10, time.Hour),
			private,
			testPost("p1", "someone-else", 10, time.Hour),
		},
	}
	svc := newTestService(f)

	page, err := svc.GetExploreFeed(context.Background(), "viewer", 10, "")
	if err != nil {
		t.Fatalf("GetExploreFeed() error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(page.Items))
	}
	for _, item := range page.Items {
		if item.Post.ID == "p2" {
			t.Error("non-public post delivered in explore feed")
		}
	}
}

func TestGetSignals(t *testing.T) {
	f := &fakeStores{
		posts: []models.Post{testPost("p1", "friend", 100, 10*time.Minute)},
		interactions: []ranking.Interaction{
			{TargetUserID: "friend", Type: ranking.InteractionComment},
		},
	}
	svc := newTestService(f)

	signals, err := svc.GetSignals(context.Background(), "viewer", "p1")
	if err != nil {
		t.Fatalf("GetSignals() error: %v", err)
	}
	if signals.FinalScore <= 0 {
		t.Errorf("FinalScore = %v, want > 0", signals.FinalScore)
	}
	if math.Abs(signals.AffinityBoost-0.03) > 1e-9 {
		t.Errorf("AffinityBoost = %v, want 0.03", signals.AffinityBoost)
	}

	if _, err := svc.GetSignals(context.Background(), "viewer", "nope"); err != ErrPostNotFound {
		t.Errorf("GetSignals(unknown) error = %v, want ErrPostNotFound", err)
	}
}
