package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/normalize"
	"github.com/dmitrijs2005/recipekeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

const DefaultPageSize = 20

// NewPost is the payload of a post being created.
type NewPost struct {
	Content  string   `json:"content"`
	RecipeID string   `json:"recipeId,omitempty"`
	Images   []string `json:"images,omitempty"`
}

type PostService interface {
	Feed(ctx context.Context, page int) (models.FeedPage, error)
	Get(ctx context.Context, id string) (models.Post, error)
	Create(ctx context.Context, p NewPost) (models.Post, error)
	// ToggleLike flips userID's like optimistically and reconciles the
	// server's answer with the known version of the post.
	ToggleLike(ctx context.Context, postID, userID string) (models.Post, error)
	Delete(ctx context.Context, id string) error
}

type postService struct {
	api      API
	feed     *reconcile.Feed
	pageSize int
	log      logging.Logger
}

func NewPostService(api API, feed *reconcile.Feed, log logging.Logger) PostService {
	return &postService{api: api, feed: feed, pageSize: DefaultPageSize, log: log.With("component", "posts")}
}

func (s *postService) Feed(ctx context.Context, page int) (models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(s.pageSize)},
	}
	env, err := s.api.Get(ctx, "/posts", q)
	if err != nil {
		return models.FeedPage{}, err
	}

	items, err := env.Items("posts", "items")
	if err != nil {
		return models.FeedPage{}, err
	}
	posts := s.feed.ApplyAll(normalize.PostsJSON(items))
	if dropped := len(items) - len(posts); dropped > 0 {
		s.log.Warn(ctx, "skipped malformed feed entries", "count", dropped)
	}

	res := models.FeedPage{Posts: posts, Page: page, HasMore: len(items) >= s.pageSize}
	if pg := env.Pagination(); pg.Known {
		res.HasMore = pg.HasMore
		res.TotalCount = pg.TotalCount
		if pg.Page > 0 {
			res.Page = pg.Page
		}
	}
	return res, nil
}

func (s *postService) Get(ctx context.Context, id string) (models.Post, error) {
	env, err := s.api.Get(ctx, pathOf("posts", id), nil)
	if err != nil {
		return models.Post{}, err
	}
	post, err := decodePost(env, id)
	if err != nil {
		return models.Post{}, err
	}
	return s.feed.Apply(post), nil
}

func (s *postService) Create(ctx context.Context, p NewPost) (models.Post, error) {
	env, err := s.api.Post(ctx, "/posts", p)
	if err != nil {
		return models.Post{}, err
	}
	post, err := decodePost(env, "")
	if err != nil {
		return models.Post{}, err
	}
	return s.feed.Apply(post), nil
}

func (s *postService) ToggleLike(ctx context.Context, postID, userID string) (models.Post, error) {
	prev, updated, optimistic := s.feed.ToggleLike(postID, userID)

	env, err := s.api.Post(ctx, pathOf("posts", postID, "like"), nil)
	if err != nil {
		if optimistic {
			s.feed.Put(prev)
		}
		return models.Post{}, err
	}
	if optimistic && (len(env.Data) == 0 || string(env.Data) == "null") {
		// bare acknowledgement: the local flip stands
		return updated, nil
	}

	post, err := decodePost(env, postID)
	if err != nil {
		if optimistic {
			s.feed.Put(prev)
		}
		return models.Post{}, err
	}
	if optimistic {
		// merge against the version known before the local flip
		s.feed.Put(prev)
	}
	return s.feed.Apply(post), nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, pathOf("posts", id)); err != nil {
		return err
	}
	s.feed.Forget(id)
	return nil
}

// decodePost normalizes the post in env; fallbackID is used when the
// server's trimmed answer carries no id.
func decodePost(env *client.Envelope, fallbackID string) (models.Post, error) {
	raw, err := entity(env, "post")
	if err != nil {
		return models.Post{}, err
	}
	post, err := normalize.PostJSON(raw)
	if err != nil {
		return models.Post{}, fmt.Errorf("decode post: %w", client.ErrMalformedResponse)
	}
	if post.ID == "" {
		post.ID = fallbackID
	}
	return post, nil
}
