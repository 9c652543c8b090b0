package client

import (
	"context"
	"errors"
	"log"

	"recipebox/apperr"
	"recipebox/models"
	"recipebox/recipes"
)

// ErrLoginRequired is returned by actions that need a signed-in user.
const ErrLoginRequired FormError = "Please log in to save recipes!"

// App ties the API to a State. Server failures never block navigation: they
// are returned to the caller while State stays usable.
type App struct {
	api   *API
	State State
}

func NewApp(api *API) *App {
	return &App{api: api, State: NewState()}
}

func (a *App) session() *API {
	return a.api.As(a.State.Email, a.State.Token)
}

// Register validates the form and creates the account. The user still has to
// sign in afterwards.
func (a *App) Register(ctx context.Context, in Registration) error {
	in, err := ValidateRegistration(in)
	if err != nil {
		return err
	}
	_, err = a.api.Register(ctx, in.FullName, in.Email, in.Password)
	return err
}

// SignIn validates the form, logs in and loads the saved list.
func (a *App) SignIn(ctx context.Context, email, password string) error {
	email, password, err := ValidateLogin(email, password)
	if err != nil {
		return err
	}
	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.State = a.State.SignedIn(res.Email, res.Token)
	return a.Refresh(ctx)
}

func (a *App) SignOut(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.State = a.State.SignedOut()
	return err
}

// LoadRecipes replaces the recipe list with a fresh search. A failed search
// leaves an empty list.
func (a *App) LoadRecipes(ctx context.Context, search string) error {
	if search == "" {
		search = recipes.DefaultSearch
	}
	list, err := a.api.Recipes(ctx, search, "")
	a.State = a.State.WithRecipes(list)
	return err
}

// Refresh reloads the saved list. An anonymous or rejected session gets an
// empty list and no error.
func (a *App) Refresh(ctx context.Context) error {
	if _, ok := a.State.SignedInAs(); !ok {
		a.State = a.State.WithSaved(nil)
		return nil
	}
	list, err := a.session().Saved(ctx)
	if errors.Is(err, apperr.ErrUnauthorized) {
		a.State = a.State.WithSaved(nil)
		return nil
	}
	if err != nil {
		log.Printf("load saved recipes: %v", err)
		a.State = a.State.WithSaved(nil)
		return err
	}
	a.State = a.State.WithSaved(list)
	return nil
}

// Toggle saves recipeID when it is not saved yet and removes it otherwise.
// It reports whether the recipe ends up saved.
func (a *App) Toggle(ctx context.Context, recipeID string) (bool, error) {
	if _, ok := a.State.SignedInAs(); !ok {
		return false, ErrLoginRequired
	}

	if a.State.IsSaved(recipeID) {
		list, err := a.session().Remove(ctx, recipeID)
		if err != nil {
			return true, loginRequired(err)
		}
		a.State = a.State.WithSaved(list)
		return false, nil
	}

	ref := models.SavedRecipe{ID: recipeID}
	if r, ok := a.State.Recipe(recipeID); ok {
		ref = r.Ref()
	}
	list, err := a.session().Save(ctx, ref)
	if err != nil {
		return false, loginRequired(err)
	}
	a.State = a.State.WithSaved(list)
	return true, nil
}

func loginRequired(err error) error {
	if errors.Is(err, apperr.ErrUnauthorized) {
		return errors.Join(ErrLoginRequired, err)
	}
	return err
}

// Profile loads the signed-in user's profile with the avatar resolved to a
// full URL.
func (a *App) Profile(ctx context.Context) (models.Profile, error) {
	p, err := a.session().Profile(ctx)
	if err != nil {
		return p, err
	}
	p.Avatar = AvatarURL(a.api.BaseURL(), p.Avatar)
	return p, nil
}
