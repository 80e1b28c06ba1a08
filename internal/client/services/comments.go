package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/normalize"
	"github.com/dmitrijs2005/recipekeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
)

// CommentService manages comments. Creating or deleting a comment adjusts
// the parent post's comment count locally without a refetch.
type CommentService interface {
	List(ctx context.Context, postID string) ([]models.Comment, error)
	Create(ctx context.Context, postID, content string) (models.Comment, error)
	Delete(ctx context.Context, postID, commentID string) error
}

type commentService struct {
	api  API
	feed *reconcile.Feed
	log  logging.Logger
}

func NewCommentService(api API, feed *reconcile.Feed, log logging.Logger) CommentService {
	return &commentService{api: api, feed: feed, log: log.With("component", "comments")}
}

func (s *commentService) List(ctx context.Context, postID string) ([]models.Comment, error) {
	env, err := s.api.Get(ctx, pathOf("posts", postID, "comments"), nil)
	if err != nil {
		return nil, err
	}
	items, err := env.Items("comments", "items")
	if err != nil {
		return nil, err
	}
	comments := normalize.CommentsJSON(items)
	for i := range comments {
		if comments[i].PostID == "" {
			comments[i].PostID = postID
		}
	}
	return comments, nil
}

func (s *commentService) Create(ctx context.Context, postID, content string) (models.Comment, error) {
	env, err := s.api.Post(ctx, pathOf("posts", postID, "comments"), map[string]string{"content": content})
	if err != nil {
		return models.Comment{}, err
	}
	raw, err := entity(env, "comment")
	if err != nil {
		return models.Comment{}, err
	}
	c, err := normalize.CommentJSON(raw)
	if err != nil {
		return models.Comment{}, fmt.Errorf("decode comment: %w", client.ErrMalformedResponse)
	}
	if c.PostID == "" {
		c.PostID = postID
	}
	if _, ok := s.feed.AdjustComments(postID, 1); !ok {
		s.log.Debug(ctx, "comment on post not in feed", "post_id", postID)
	}
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, postID, commentID string) error {
	if _, err := s.api.Delete(ctx, pathOf("posts", postID, "comments", commentID)); err != nil {
		return err
	}
	s.feed.AdjustComments(postID, -1)
	return nil
}
