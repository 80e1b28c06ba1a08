package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
)

var postFields = keySet(
	"id", "_id", "userId", "user", "author", "authorName", "userName", "displayName",
	"authorAvatar", "userAvatar", "content", "text", "body", "images",
	"recipeId", "recipe", "recipeTitle", "recipeImages",
	"likes", "likedBy", "likeIds", "likeCount", "likesCount",
	"commentCount", "commentsCount", "comments",
	"subscription", "isPremium", "premium", "isPro", "hasPremium",
	"createdAt",
)

// Post builds a canonical post from a raw payload object.
func Post(raw map[string]any) models.Post {
	if raw == nil {
		return models.Post{LikedByIDs: []string{}}
	}
	likes, listed := LikeIDs(raw)
	recipeID, recipeTitle, recipeImages := recipeLink(raw)

	return models.Post{
		ID:                ID(raw),
		AuthorID:          ActorID(raw),
		AuthorDisplayName: DisplayName(raw),
		AuthorAvatar:      avatar(raw),
		Content:           firstStr(raw, "content", "text", "body"),
		Images:            stringList(raw["images"]),
		RecipeID:          recipeID,
		RecipeTitle:       recipeTitle,
		RecipeImages:      recipeImages,
		LikedByIDs:        likes,
		LikeCount:         LikeCount(raw, likes, listed),
		CommentCount:      commentCount(raw),
		Subscription:      Subscription(raw),
		CreatedAt:         timestamp(raw, "createdAt"),
		Extra:             extra(raw, postFields),
	}
}

var commentFields = keySet(
	"id", "_id", "postId", "post", "userId", "user", "author", "authorName", "userName",
	"displayName", "content", "text", "likes", "likedBy", "likeIds", "likeCount", "likesCount",
	"subscription", "isPremium", "premium", "isPro", "hasPremium", "createdAt",
)

// Comment builds a canonical comment from a raw payload object.
func Comment(raw map[string]any) models.Comment {
	if raw == nil {
		return models.Comment{LikedByIDs: []string{}}
	}
	likes, listed := LikeIDs(raw)

	postID := str(raw["postId"])
	if postID == "" {
		if m, ok := object(raw["post"]); ok {
			postID = firstStr(m, "id", "_id")
		} else {
			postID = str(raw["post"])
		}
	}

	return models.Comment{
		ID:                ID(raw),
		PostID:            postID,
		AuthorID:          ActorID(raw),
		AuthorDisplayName: DisplayName(raw),
		Content:           firstStr(raw, "content", "text"),
		LikedByIDs:        likes,
		LikeCount:         LikeCount(raw, likes, listed),
		Subscription:      Subscription(raw),
		CreatedAt:         timestamp(raw, "createdAt"),
		Extra:             extra(raw, commentFields),
	}
}

// User builds a public profile. A payload wrapping the profile in "user"
// is unwrapped first.
func User(raw map[string]any) models.User {
	if inner, ok := object(raw["user"]); ok && ID(raw) == "" {
		raw = inner
	}
	if raw == nil {
		return models.User{}
	}
	u := models.User{
		ID:           ID(raw),
		Email:        firstStr(raw, "email"),
		DisplayName:  firstStr(raw, "displayName", "name", "username", "fullName"),
		Avatar:       firstStr(raw, "avatar", "profileImage", "profilePicture", "photoURL"),
		Subscription: Subscription(raw),
	}
	if n, ok := firstNumber(raw, "followersCount"); ok {
		u.FollowersCount = n
	} else if items, ok := array(raw["followers"]); ok {
		u.FollowersCount = len(items)
	}
	if n, ok := firstNumber(raw, "followingCount"); ok {
		u.FollowingCount = n
	} else if items, ok := array(raw["following"]); ok {
		u.FollowingCount = len(items)
	}
	return u
}

// Posts normalizes every object element of items. Elements that are not
// JSON objects are skipped so one bad entry cannot fail the batch.
func Posts(items []any) []models.Post {
	out := make([]models.Post, 0, len(items))
	for _, it := range items {
		if m, ok := object(it); ok {
			out = append(out, Post(m))
		}
	}
	return out
}

// Comments is the comment counterpart of Posts.
func Comments(items []any) []models.Comment {
	out := make([]models.Comment, 0, len(items))
	for _, it := range items {
		if m, ok := object(it); ok {
			out = append(out, Comment(m))
		}
	}
	return out
}

// PostJSON decodes and normalizes one post object.
func PostJSON(b json.RawMessage) (models.Post, error) {
	m, err := decodeObject(b)
	if err != nil {
		return models.Post{}, err
	}
	return Post(m), nil
}

// CommentJSON decodes and normalizes one comment object.
func CommentJSON(b json.RawMessage) (models.Comment, error) {
	m, err := decodeObject(b)
	if err != nil {
		return models.Comment{}, err
	}
	return Comment(m), nil
}

// UserJSON decodes and normalizes one user object.
func UserJSON(b json.RawMessage) (models.User, error) {
	m, err := decodeObject(b)
	if err != nil {
		return models.User{}, err
	}
	return User(m), nil
}

// PostsJSON normalizes raw list elements, skipping undecodable ones.
func PostsJSON(items []json.RawMessage) []models.Post {
	out := make([]models.Post, 0, len(items))
	for _, b := range items {
		if m, err := decodeObject(b); err == nil {
			out = append(out, Post(m))
		}
	}
	return out
}

// CommentsJSON normalizes raw list elements, skipping undecodable ones.
func CommentsJSON(items []json.RawMessage) []models.Comment {
	out := make([]models.Comment, 0, len(items))
	for _, b := range items {
		if m, err := decodeObject(b); err == nil {
			out = append(out, Comment(m))
		}
	}
	return out
}

// UsersJSON normalizes raw list elements, skipping undecodable ones.
func UsersJSON(items []json.RawMessage) []models.User {
	out := make([]models.User, 0, len(items))
	for _, b := range items {
		if m, err := decodeObject(b); err == nil {
			out = append(out, User(m))
		}
	}
	return out
}

func decodeObject(b json.RawMessage) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("decode object: not an object")
	}
	return m, nil
}
