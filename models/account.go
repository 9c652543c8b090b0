package models

import "time"

// DefaultAvatar is reported for accounts that never uploaded an avatar.
const DefaultAvatar = "avatar.jpeg"

type SavedRecipe struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
	Image string `json:"image" bson:"image"`
}

type Account struct {
	ID           string        `json:"_id" bson:"_id"`
	Email        string        `json:"email" bson:"email"`
	Password     string        `json:"-" bson:"password"`
	DisplayName  string        `json:"fullName,omitempty" bson:"fullName,omitempty"`
	AvatarPath   string        `json:"avatar,omitempty" bson:"avatar,omitempty"`
	SavedRecipes []SavedRecipe `json:"savedRecipes" bson:"savedRecipes"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
}

// AccountUpdate carries the profile fields to merge; nil fields are left alone.
type AccountUpdate struct {
	DisplayName *string
	AvatarPath  *string
}

func (u AccountUpdate) Empty() bool {
	return u.DisplayName == nil && u.AvatarPath == nil
}

// Profile is the read model returned by GET /profile.
type Profile struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// ProfileOf applies the display fallbacks: name falls back to email and a
// missing avatar is reported as DefaultAvatar.
func ProfileOf(a *Account) Profile {
	p := Profile{FullName: a.DisplayName, Email: a.Email, Avatar: a.AvatarPath}
	if p.FullName == "" {
		p.FullName = a.Email
	}
	if p.Avatar == "" {
		p.Avatar = DefaultAvatar
	}
	return p
}

// Normalize makes SavedRecipes non-nil so it never serialises as null.
func (a *Account) Normalize() *Account {
	if a.SavedRecipes == nil {
		a.SavedRecipes = []SavedRecipe{}
	}
	return a
}

// HasSaved reports whether a recipe id is already in the saved list.
func (a *Account) HasSaved(recipeID string) bool {
	for _, r := range a.SavedRecipes {
		if r.ID == recipeID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out of a store.
func (a *Account) Clone() *Account {
	c := *a
	c.SavedRecipes = append([]SavedRecipe{}, a.SavedRecipes...)
	return &c
}

// RecipeSummary is a search result from the external recipe API. It is never
// persisted as-is; saving copies it into a SavedRecipe.
type RecipeSummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Img       string   `json:"img"`
	Publisher string   `json:"publisher"`
	Tags      []string `json:"tags"`
}

// Ref converts a search result into the denormalized saved form.
func (r RecipeSummary) Ref() SavedRecipe {
	return SavedRecipe{ID: r.ID, Title: r.Title, Image: r.Img}
}
