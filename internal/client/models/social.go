package models

import (
	"slices"
	"time"
)

// Post is a social feed entry in its canonical shape.
type Post struct {
	ID                string        `json:"id"`
	AuthorID          string        `json:"authorId,omitempty"`
	AuthorDisplayName string        `json:"authorDisplayName,omitempty"`
	AuthorAvatar      string        `json:"authorAvatar,omitempty"`
	Content           string        `json:"content,omitempty"`
	Images            []string      `json:"images,omitempty"`
	RecipeID          string        `json:"recipeId,omitempty"`
	RecipeTitle       string        `json:"recipeTitle,omitempty"`
	RecipeImages      []string      `json:"recipeImages,omitempty"`
	LikedByIDs        []string      `json:"likedByIds"`
	LikeCount         int           `json:"likeCount"`
	CommentCount      int           `json:"commentCount"`
	Subscription      *Subscription `json:"subscription,omitempty"`
	CreatedAt         time.Time     `json:"createdAt,omitzero"`
	// Extra holds payload fields the client does not model.
	Extra map[string]any `json:"-"`
}

// LikedBy reports whether userID is in the like list.
func (p Post) LikedBy(userID string) bool {
	return userID != "" && slices.Contains(p.LikedByIDs, userID)
}

// Premium reports whether the author has a premium subscription.
func (p Post) Premium() bool {
	return p.Subscription.Premium()
}

// Comment belongs to exactly one post.
type Comment struct {
	ID                string         `json:"id"`
	PostID            string         `json:"postId"`
	AuthorID          string         `json:"authorId,omitempty"`
	AuthorDisplayName string         `json:"authorDisplayName,omitempty"`
	Content           string         `json:"content"`
	LikedByIDs        []string       `json:"likedByIds"`
	LikeCount         int            `json:"likeCount"`
	Subscription      *Subscription  `json:"subscription,omitempty"`
	CreatedAt         time.Time      `json:"createdAt,omitzero"`
	Extra             map[string]any `json:"-"`
}

// User is a public profile.
type User struct {
	ID             string        `json:"id"`
	Email          string        `json:"email,omitempty"`
	DisplayName    string        `json:"displayName,omitempty"`
	Avatar         string        `json:"avatar,omitempty"`
	FollowersCount int           `json:"followersCount,omitempty"`
	FollowingCount int           `json:"followingCount,omitempty"`
	Subscription   *Subscription `json:"subscription,omitempty"`
}

// FeedPage is one page of the social feed.
type FeedPage struct {
	Posts      []Post
	Page       int
	HasMore    bool
	TotalCount int
}
