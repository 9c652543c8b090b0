// Package client is the application layer behind the browser front end and
// recipectl. State is a value; every transition returns a new State so the
// flows can be tested without rendering anything.
package client

import (
	"slices"

	"recipebox/models"
	"recipebox/recipes"
)

type Page string

const (
	PageHome    Page = "home-page"
	PageRecipes Page = "recipes-grid-page"
	PageDetail  Page = "recipe-detail-page"
	PageProfile Page = "profile-page"
	PageLogin   Page = "login-page"
)

// State is everything the front end shows: who is signed in, the page, the
// recipes from the last search and the saved list.
type State struct {
	Email   string
	Token   string
	Page    Page
	Current string
	Recipes []models.RecipeSummary
	Saved   []models.SavedRecipe
}

func NewState() State {
	return State{Page: PageHome}
}

func (s State) SignedInAs() (string, bool) {
	return s.Email, s.Email != ""
}

func (s State) WithRecipes(list []models.RecipeSummary) State {
	s.Recipes = slices.Clone(list)
	if s.Recipes == nil {
		s.Recipes = []models.RecipeSummary{}
	}
	return s
}

func (s State) WithSaved(list []models.SavedRecipe) State {
	s.Saved = slices.Clone(list)
	if s.Saved == nil {
		s.Saved = []models.SavedRecipe{}
	}
	return s
}

// Navigate moves to p. The profile page needs a signed-in user and sends
// anonymous visitors to the login page instead.
func (s State) Navigate(p Page) State {
	if p == PageProfile && s.Email == "" {
		p = PageLogin
	}
	s.Page = p
	if p != PageDetail {
		s.Current = ""
	}
	return s
}

// Open shows the detail page for a recipe in the current list.
func (s State) Open(recipeID string) State {
	if _, ok := s.Recipe(recipeID); !ok {
		return s
	}
	s.Current = recipeID
	s.Page = PageDetail
	return s
}

func (s State) SignedIn(email, token string) State {
	s.Email = email
	s.Token = token
	if s.Page == PageLogin {
		s.Page = PageHome
	}
	return s
}

// SignedOut forgets the identity and the saved list and returns home.
func (s State) SignedOut() State {
	s.Email = ""
	s.Token = ""
	s.Saved = []models.SavedRecipe{}
	return s.Navigate(PageHome)
}

// Visible is the recipe list filtered by the search box.
func (s State) Visible(query string) []models.RecipeSummary {
	return recipes.Filter(s.Recipes, query)
}

func (s State) IsSaved(recipeID string) bool {
	return slices.ContainsFunc(s.Saved, func(r models.SavedRecipe) bool { return r.ID == recipeID })
}

func (s State) Recipe(recipeID string) (models.RecipeSummary, bool) {
	i := slices.IndexFunc(s.Recipes, func(r models.RecipeSummary) bool { return r.ID == recipeID })
	if i < 0 {
		return models.RecipeSummary{}, false
	}
	return s.Recipes[i], true
}
