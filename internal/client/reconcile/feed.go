package reconcile

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultFeedSize = 512

// Feed keeps the last known version of recently seen posts, bounded by an
// LRU. All updates go through Merge so enrichment survives partial payloads.
type Feed struct {
	mu    sync.Mutex
	posts *lru.Cache[string, models.Post]
}

func NewFeed(size int) (*Feed, error) {
	if size <= 0 {
		size = DefaultFeedSize
	}
	c, err := lru.New[string, models.Post](size)
	if err != nil {
		return nil, fmt.Errorf("create feed cache: %w", err)
	}
	return &Feed{posts: c}, nil
}

// Apply merges next into the known version of the same post, stores and
// returns the result. Posts without an id are returned unchanged.
func (f *Feed) Apply(next models.Post) models.Post {
	if next.ID == "" {
		return next
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if prev, ok := f.posts.Get(next.ID); ok {
		next = Merge(prev, next)
	}
	f.posts.Add(next.ID, next)
	return next
}

// ApplyAll applies each post in order.
func (f *Feed) ApplyAll(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i, p := range posts {
		out[i] = f.Apply(p)
	}
	return out
}

// Put stores p as is, replacing any known version.
func (f *Feed) Put(p models.Post) {
	if p.ID == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts.Add(p.ID, p)
}

func (f *Feed) Get(id string) (models.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts.Get(id)
}

func (f *Feed) Forget(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts.Remove(id)
}

func (f *Feed) Len() int {
	return f.posts.Len()
}

func (f *Feed) Purge() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts.Purge()
}

// AdjustComments shifts the comment count of a known post by delta, never
// going below zero. It reports false when the post is unknown.
func (f *Feed) AdjustComments(postID string, delta int) (models.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.posts.Get(postID)
	if !ok {
		return models.Post{}, false
	}
	p.CommentCount = max(p.CommentCount+delta, 0)
	f.posts.Add(postID, p)
	return p, true
}

// ToggleLike flips userID's like on a known post locally and returns the
// version before and after the change. The caller restores prev with Put
// when the server rejects the toggle.
func (f *Feed) ToggleLike(postID, userID string) (prev, updated models.Post, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, ok = f.posts.Get(postID)
	if !ok || userID == "" {
		return prev, prev, false
	}

	updated = prev
	if i := slices.Index(prev.LikedByIDs, userID); i >= 0 {
		updated.LikedByIDs = slices.Delete(slices.Clone(prev.LikedByIDs), i, i+1)
		updated.LikeCount = max(prev.LikeCount-1, 0)
	} else {
		updated.LikedByIDs = append(slices.Clone(prev.LikedByIDs), userID)
		updated.LikeCount = prev.LikeCount + 1
	}
	f.posts.Add(postID, updated)
	return prev, updated, true
}
