package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

var errUsage = errors.New("usage")

// Recipes lists the full recipe collection. When the server cannot be
// reached the last offline snapshot is shown with its age.
func (a *App) Recipes(ctx context.Context) error {
	res, err := a.recipeService.ListDetailed(ctx)
	if err != nil {
		printlnFn("Could not load recipes:", describe(err))
		return err
	}

	if res.FromCache {
		printlnFn(fmt.Sprintf("Offline copy from %s", res.WrittenAt.Local().Format(time.DateTime)))
	}
	if len(res.Recipes) == 0 {
		printlnFn("No recipes yet")
		return nil
	}
	for _, r := range res.Recipes {
		printlnFn(recipeLine(r))
	}
	return nil
}

func (a *App) Recipe(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: recipe <id>")
		return errUsage
	}
	r, err := a.recipeService.Get(ctx, args[0])
	if err != nil {
		printlnFn("Could not load recipe:", describe(err))
		return err
	}

	printlnFn(r.Title)
	if r.Description != "" {
		printlnFn(r.Description)
	}
	if total := r.TotalMinutes(); total > 0 {
		printlnFn(fmt.Sprintf("Time: %d min, serves %d", total, r.Servings))
	}
	for _, ing := range r.Ingredients {
		parts := slices.DeleteFunc([]string{ing.Quantity, ing.Unit, ing.Name}, func(s string) bool { return s == "" })
		printlnFn(" -", strings.Join(parts, " "))
	}
	for i, step := range r.Steps {
		printlnFn(fmt.Sprintf("%d. %s", i+1, step))
	}
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: search <text>")
		return errUsage
	}
	found, err := a.recipeService.Search(ctx, strings.Join(args, " "))
	if err != nil {
		printlnFn("Search failed:", describe(err))
		return err
	}
	if len(found) == 0 {
		printlnFn("Nothing found")
	}
	for _, r := range found {
		printlnFn(recipeLine(r))
	}
	return nil
}

func recipeLine(r models.Recipe) string {
	line := fmt.Sprintf("%s  %s", r.ID, r.Title)
	if total := r.TotalMinutes(); total > 0 {
		line += fmt.Sprintf(" (%d min)", total)
	}
	return line
}

// CacheStatus shows whether an offline recipe snapshot exists and its age.
func (a *App) CacheStatus(ctx context.Context) error {
	age, ok := a.recipeService.SnapshotAge(ctx)
	if !ok {
		printlnFn("No offline recipe snapshot")
		return nil
	}
	printlnFn(fmt.Sprintf("Offline recipe snapshot is %s old", age.Truncate(time.Second)))
	return nil
}

// ClearCache removes every cache entry; the session and saved credentials
// are kept.
func (a *App) ClearCache(ctx context.Context) error {
	n, err := a.cache.ClearAll(ctx)
	if err != nil {
		printlnFn("Could not clear cache:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Removed %d cache entries", n))
	return nil
}
