package normalize

import (
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

var actorObjects = []string{"userId", "user", "author"}

// ID returns "id", or "_id" when "id" is missing or empty.
func ID(raw map[string]any) string {
	return firstStr(raw, "id", "_id")
}

// ActorID resolves the acting user's id: top-level "userId", then
// "user._id"/"user.id", then "author._id"/"author.id". A populated
// "userId" object is read like "user".
func ActorID(raw map[string]any) string {
	if s := str(raw["userId"]); s != "" {
		return s
	}
	for _, key := range actorObjects {
		switch v := raw[key].(type) {
		case map[string]any:
			if id := firstStr(v, "_id", "id"); id != "" {
				return id
			}
		case string:
			if key != "userId" {
				if s := str(v); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// actor returns the first embedded user object, if any.
func actor(raw map[string]any) map[string]any {
	for _, key := range actorObjects {
		if m, ok := object(raw[key]); ok {
			return m
		}
	}
	return nil
}

// DisplayName finds the author's display name at the top level or in the
// embedded user object.
func DisplayName(raw map[string]any) string {
	if s := firstStr(raw, "authorName", "userName", "displayName"); s != "" {
		return s
	}
	if m := actor(raw); m != nil {
		return firstStr(m, "displayName", "name", "username", "fullName")
	}
	return ""
}

func avatar(raw map[string]any) string {
	if s := firstStr(raw, "authorAvatar", "userAvatar"); s != "" {
		return s
	}
	if m := actor(raw); m != nil {
		return firstStr(m, "avatar", "profileImage", "profilePicture", "photoURL")
	}
	return ""
}

var legacyPremiumKeys = []string{"isPremium", "premium", "isPro", "hasPremium"}

// Subscription resolves premium status across the payload and its embedded
// user/author objects. Structured subscription objects are folded together:
// premium if any of them is, at the highest tier any of them names. Any true
// legacy flag also marks the result premium. With only legacy flags set, a
// minimal premium subscription is synthesized. Nil means no premium
// information at all.
func Subscription(raw map[string]any) *models.Subscription {
	scopes := []map[string]any{raw}
	for _, key := range []string{"user", "author", "userId"} {
		if m, ok := object(raw[key]); ok {
			scopes = append(scopes, m)
		}
	}

	var structured *models.Subscription
	legacy := false
	for _, scope := range scopes {
		if m, ok := object(scope["subscription"]); ok {
			structured = foldSubscription(structured, subscriptionOf(m))
		}
		for _, k := range legacyPremiumKeys {
			if boolean(scope[k]) {
				legacy = true
			}
		}
	}

	switch {
	case structured != nil:
		if legacy && !structured.IsPremium {
			structured.IsPremium = true
			if structured.Tier == models.TierNone {
				structured.Tier = models.TierPremium
			}
		}
		return structured
	case legacy:
		return models.LegacyPremium()
	default:
		return nil
	}
}

var tierRank = map[models.Tier]int{models.TierNone: 0, models.TierPremium: 1, models.TierPro: 2}

func foldSubscription(acc, next *models.Subscription) *models.Subscription {
	if acc == nil {
		return next
	}
	acc.IsPremium = acc.IsPremium || next.IsPremium
	if tierRank[next.Tier] > tierRank[acc.Tier] {
		acc.Tier = next.Tier
	}
	return acc
}

func subscriptionOf(m map[string]any) *models.Subscription {
	s := &models.Subscription{
		IsPremium: boolean(m["isPremium"]),
		Tier:      models.ParseTier(firstStr(m, "tier", "plan", "level")),
	}
	if s.Tier != models.TierNone {
		s.IsPremium = true
	}
	if s.IsPremium && s.Tier == models.TierNone {
		s.Tier = models.TierPremium
	}
	return s
}

var likeListKeys = []string{"likes", "likedBy", "likeIds"}

// LikeIDs resolves the like list from the first of "likes", "likedBy" or
// "likeIds" that holds an array. Elements may be ids or objects carrying
// "_id", "id" or "userId"; anything else is dropped. The result is
// de-duplicated in first-seen order. listed reports whether any like array
// was present.
func LikeIDs(raw map[string]any) (ids []string, listed bool) {
	for _, key := range likeListKeys {
		items, ok := array(raw[key])
		if !ok {
			continue
		}
		seen := make(map[string]struct{}, len(items))
		ids = make([]string, 0, len(items))
		for _, it := range items {
			id := str(it)
			if id == "" {
				if m, ok := object(it); ok {
					id = firstStr(m, "_id", "id", "userId")
				}
			}
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return ids, true
	}
	return []string{}, false
}

// LikeCount trusts the like list when one was present, even an empty one,
// so the count always matches it. Without a list it falls back to a numeric
// server count, then zero.
func LikeCount(raw map[string]any, ids []string, listed bool) int {
	if listed || len(ids) > 0 {
		return len(ids)
	}
	if n, ok := firstNumber(raw, "likeCount", "likesCount", "likes"); ok && n >= 0 {
		return n
	}
	return 0
}

func commentCount(raw map[string]any) int {
	if n, ok := firstNumber(raw, "commentCount", "commentsCount", "comments"); ok && n >= 0 {
		return n
	}
	if items, ok := array(raw["comments"]); ok {
		return len(items)
	}
	return 0
}

// recipeLink reads the linked recipe either from flat fields or from an
// embedded "recipe" (or populated "recipeId") object.
func recipeLink(raw map[string]any) (id, title string, images []string) {
	id = str(raw["recipeId"])
	title = firstStr(raw, "recipeTitle")
	images = stringList(raw["recipeImages"])

	for _, key := range []string{"recipe", "recipeId"} {
		m, ok := object(raw[key])
		if !ok {
			continue
		}
		if id == "" {
			id = firstStr(m, "id", "_id")
		}
		if title == "" {
			title = firstStr(m, "title", "name")
		}
		if images == nil {
			images = stringList(m["images"])
		}
	}
	return id, title, images
}
