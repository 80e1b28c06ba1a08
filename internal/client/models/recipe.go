package models

import (
	"encoding/json"
	"time"
)

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// Recipe is a user's recipe as returned by the recipes endpoints and kept in
// the offline snapshot.
type Recipe struct {
	ID          string       `json:"id"`
	AuthorID    string       `json:"userId,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Images      []string     `json:"images,omitempty"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
	Steps       []string     `json:"instructions,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	PrepMinutes int          `json:"prepTime,omitempty"`
	CookMinutes int          `json:"cookTime,omitempty"`
	Servings    int          `json:"servings,omitempty"`
	IsPublic    bool         `json:"isPublic,omitempty"`
	CreatedAt   time.Time    `json:"createdAt,omitzero"`
	UpdatedAt   time.Time    `json:"updatedAt,omitzero"`
}

// UnmarshalJSON accepts the server's "_id" when "id" is absent.
func (r *Recipe) UnmarshalJSON(b []byte) error {
	type plain Recipe
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = Recipe(aux.plain)
	if r.ID == "" {
		r.ID = aux.MongoID
	}
	return nil
}

// TotalMinutes is preparation plus cooking time.
func (r Recipe) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}
