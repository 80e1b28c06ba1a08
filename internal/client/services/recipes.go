package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/cache"
	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"golang.org/x/sync/singleflight"
)

// RecipesCollection is the cache name of the full recipe list.
const RecipesCollection = "recipes"

// RecipeList is the result of a full-collection fetch. FromCache is set when
// the network was unreachable and the last snapshot was served instead.
type RecipeList struct {
	Recipes   []models.Recipe
	FromCache bool
	WrittenAt time.Time
}

type RecipeService interface {
	// List returns the full collection, falling back to the offline
	// snapshot only when no response was received.
	List(ctx context.Context) ([]models.Recipe, error)
	ListDetailed(ctx context.Context) (RecipeList, error)
	Get(ctx context.Context, id string) (models.Recipe, error)
	Search(ctx context.Context, query string) ([]models.Recipe, error)
	Create(ctx context.Context, r models.Recipe) (models.Recipe, error)
	Update(ctx context.Context, r models.Recipe) (models.Recipe, error)
	Delete(ctx context.Context, id string) error
	// SnapshotAge reports how old the offline snapshot is.
	SnapshotAge(ctx context.Context) (time.Duration, bool)
}

type recipeService struct {
	api      API
	snapshot *cache.Collection[models.Recipe]
	group    singleflight.Group
	log      logging.Logger
	now      func() time.Time
}

func NewRecipeService(api API, cacheSvc *cache.Service, log logging.Logger) RecipeService {
	return &recipeService{
		api:      api,
		snapshot: cache.NewCollection[models.Recipe](cacheSvc, RecipesCollection),
		log:      log.With("component", "recipes"),
		now:      time.Now,
	}
}

func (s *recipeService) List(ctx context.Context) ([]models.Recipe, error) {
	res, err := s.ListDetailed(ctx)
	if err != nil {
		return nil, err
	}
	return res.Recipes, nil
}

// ListDetailed collapses concurrent fetches into one network call, so two
// overlapping refreshes cannot write the snapshot out of order. The shared
// fetch is detached from any single caller's cancellation and is bounded by
// the pipeline's request timeout; a caller that gives up only stops waiting.
func (s *recipeService) ListDetailed(ctx context.Context) (RecipeList, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(RecipesCollection, func() (any, error) {
		return s.fetchAll(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return RecipeList{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return RecipeList{}, r.Err
		}
		if r.Shared {
			s.log.Debug(ctx, "recipe fetch shared with concurrent caller")
		}
		res := r.Val.(RecipeList)
		res.Recipes = slices.Clone(res.Recipes)
		return res, nil
	}
}

func (s *recipeService) fetchAll(ctx context.Context) (RecipeList, error) {
	env, err := s.api.Get(ctx, "/recipes", nil)
	if err != nil {
		if !client.IsNetworkUnreachable(err) {
			return RecipeList{}, err
		}
		return s.fromSnapshot(ctx, err)
	}

	recipes, err := decodeRecipes(env)
	if err != nil {
		return RecipeList{}, err
	}

	// a failed snapshot write is logged by the cache and never fails the fetch
	_ = s.snapshot.Store(ctx, recipes)
	return RecipeList{Recipes: recipes, WrittenAt: s.now()}, nil
}

func (s *recipeService) fromSnapshot(ctx context.Context, netErr error) (RecipeList, error) {
	snap, err := s.snapshot.Retrieve(ctx)
	if err != nil {
		s.log.Warn(ctx, "recipe snapshot unreadable", "error", err)
	}
	if snap == nil {
		return RecipeList{}, netErr
	}
	s.log.Info(ctx, "serving cached recipes",
		"count", len(snap.Entities),
		"written_at", snap.WrittenAt,
		"cause", netErr)
	return RecipeList{Recipes: snap.Entities, FromCache: true, WrittenAt: snap.WrittenAt}, nil
}

func (s *recipeService) SnapshotAge(ctx context.Context) (time.Duration, bool) {
	return s.snapshot.Age(ctx, s.now())
}

func (s *recipeService) Get(ctx context.Context, id string) (models.Recipe, error) {
	env, err := s.api.Get(ctx, pathOf("recipes", id), nil)
	if err != nil {
		return models.Recipe{}, err
	}
	return decodeRecipe(env)
}

func (s *recipeService) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	env, err := s.api.Get(ctx, "/recipes/search", url.Values{"q": {query}})
	if err != nil {
		return nil, err
	}
	return decodeRecipes(env)
}

func (s *recipeService) Create(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	env, err := s.api.Post(ctx, "/recipes", r)
	if err != nil {
		return models.Recipe{}, err
	}
	return decodeRecipe(env)
}

func (s *recipeService) Update(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	if r.ID == "" {
		return models.Recipe{}, fmt.Errorf("update recipe: missing id")
	}
	env, err := s.api.Put(ctx, pathOf("recipes", r.ID), r)
	if err != nil {
		return models.Recipe{}, err
	}
	return decodeRecipe(env)
}

func (s *recipeService) Delete(ctx context.Context, id string) error {
	_, err := s.api.Delete(ctx, pathOf("recipes", id))
	return err
}

func decodeRecipe(env *client.Envelope) (models.Recipe, error) {
	raw, err := entity(env, "recipe")
	if err != nil {
		return models.Recipe{}, err
	}
	var r models.Recipe
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.Recipe{}, fmt.Errorf("decode recipe: %w", client.ErrMalformedResponse)
	}
	return r, nil
}

// decodeRecipes skips list elements that do not decode as a recipe.
func decodeRecipes(env *client.Envelope) ([]models.Recipe, error) {
	items, err := env.Items("recipes", "items")
	if err != nil {
		return nil, err
	}
	recipes := make([]models.Recipe, 0, len(items))
	for _, it := range items {
		var r models.Recipe
		if err := json.Unmarshal(it, &r); err != nil {
			continue
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}
