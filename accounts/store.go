// Package accounts persists Account records keyed by email. Every operation
// touches a single account, so no cross-document transactions are needed.
package accounts

import (
	"context"
	"strings"

	"recipebox/models"
)

// Store is the Account Store. Lookups by unknown email or id return
// apperr.ErrNotFound; Create returns apperr.ErrConflict for a taken email.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	Create(ctx context.Context, email, password string) (*models.Account, error)
	UpdateByID(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error)
	AppendSavedRecipe(ctx context.Context, id string, ref models.SavedRecipe) (*models.Account, error)
	RemoveSavedRecipe(ctx context.Context, id, recipeID string) (*models.Account, error)
	SetPassword(ctx context.Context, id, password string) error
}

// NormalizeEmail is applied to every email before it reaches a store.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
