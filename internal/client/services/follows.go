package services

import (
	"context"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/normalize"
)

type FollowService interface {
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
	Followers(ctx context.Context, userID string) ([]models.User, error)
	Following(ctx context.Context, userID string) ([]models.User, error)
}

type followService struct {
	api API
}

func NewFollowService(api API) FollowService {
	return &followService{api: api}
}

func (s *followService) Follow(ctx context.Context, userID string) error {
	_, err := s.api.Post(ctx, pathOf("users", userID, "follow"), nil)
	return err
}

func (s *followService) Unfollow(ctx context.Context, userID string) error {
	_, err := s.api.Delete(ctx, pathOf("users", userID, "follow"))
	return err
}

func (s *followService) Followers(ctx context.Context, userID string) ([]models.User, error) {
	return s.users(ctx, pathOf("users", userID, "followers"), "followers")
}

func (s *followService) Following(ctx context.Context, userID string) ([]models.User, error) {
	return s.users(ctx, pathOf("users", userID, "following"), "following")
}

func (s *followService) users(ctx context.Context, path, key string) ([]models.User, error) {
	env, err := s.api.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	items, err := env.Items(key, "users", "items")
	if err != nil {
		return nil, err
	}
	return normalize.UsersJSON(items), nil
}
