// Package reconcile merges a freshly received, possibly trimmed entity into
// the previously known version so enrichment fields are not lost.
package reconcile

import (
	"maps"
	"reflect"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

// EnrichmentFields are the payload keys kept from the previous version when
// the fresh one leaves them empty.
var EnrichmentFields = []string{
	"recipeId", "recipeTitle", "recipeImages", "recipe",
	"subscription", "isPremium", "premium",
}

// Merge returns next with its empty enrichment fields (recipe linkage and
// subscription) filled from prev. Every other field is taken from next.
func Merge(prev, next models.Post) models.Post {
	merged := next
	if merged.RecipeID == "" {
		merged.RecipeID = prev.RecipeID
	}
	if merged.RecipeTitle == "" {
		merged.RecipeTitle = prev.RecipeTitle
	}
	if len(merged.RecipeImages) == 0 {
		merged.RecipeImages = prev.RecipeImages
	}
	if merged.Subscription == nil {
		merged.Subscription = prev.Subscription
	}
	return merged
}

// MergeFields is Merge over raw payload objects: the result is a copy of
// next where each key in enrichment that is missing or empty in next takes
// prev's value.
func MergeFields(prev, next map[string]any, enrichment []string) map[string]any {
	merged := maps.Clone(next)
	if merged == nil {
		merged = make(map[string]any)
	}
	for _, key := range enrichment {
		if !isEmpty(merged[key]) {
			continue
		}
		if v, ok := prev[key]; ok && !isEmpty(v) {
			merged[key] = v
		}
	}
	return merged
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer:
		return rv.IsNil()
	}
	return false
}
