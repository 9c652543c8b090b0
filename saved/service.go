// Package saved manages an account's bookmarked recipes.
package saved

import (
	"context"
	"strings"

	"recipebox/accounts"
	"recipebox/apperr"
	"recipebox/models"
)

type Service struct {
	store   accounts.Store
	pageURL string
}

// NewService wires the saved-recipes service. pageURL is the recipe page
// template used in exports; a %s verb is replaced by the recipe id.
func NewService(store accounts.Store, pageURL string) *Service {
	return &Service{store: store, pageURL: pageURL}
}

// Save bookmarks ref. Saving an id that is already present leaves the list
// unchanged and still succeeds.
func (s *Service) Save(ctx context.Context, accountID string, ref models.SavedRecipe) ([]models.SavedRecipe, error) {
	ref.ID = strings.TrimSpace(ref.ID)
	if ref.ID == "" {
		return nil, apperr.New(apperr.ErrBadRequest, "Recipe id is required")
	}
	acct, err := s.store.AppendSavedRecipe(ctx, accountID, ref)
	if err != nil {
		return nil, err
	}
	return acct.Normalize().SavedRecipes, nil
}

// List returns the saved recipes in the order they were saved.
func (s *Service) List(ctx context.Context, accountID string) ([]models.SavedRecipe, error) {
	acct, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return acct.Normalize().SavedRecipes, nil
}

// Remove drops recipeID from the list. An id that is not saved is not an error.
func (s *Service) Remove(ctx context.Context, accountID, recipeID string) ([]models.SavedRecipe, error) {
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return s.List(ctx, accountID)
	}
	acct, err := s.store.RemoveSavedRecipe(ctx, accountID, recipeID)
	if err != nil {
		return nil, err
	}
	return acct.Normalize().SavedRecipes, nil
}
