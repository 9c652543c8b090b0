package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileOfFallbacks(t *testing.T) {
	p := ProfileOf(&Account{Email: "a@x.com"})
	assert.Equal(t, "a@x.com", p.FullName)
	assert.Equal(t, DefaultAvatar, p.Avatar)

	p = ProfileOf(&Account{Email: "a@x.com", DisplayName: "Ann", AvatarPath: "/uploads/a.jpg"})
	assert.Equal(t, "Ann", p.FullName)
	assert.Equal(t, "/uploads/a.jpg", p.Avatar)
}

func TestAccountJSONHidesPassword(t *testing.T) {
	a := (&Account{ID: "1", Email: "a@x.com", Password: "secret"}).Normalize()
	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, string(b), `"savedRecipes":[]`)
}

func TestCloneDoesNotShareSlice(t *testing.T) {
	a := &Account{SavedRecipes: []SavedRecipe{{ID: "r1"}}}
	c := a.Clone()
	c.SavedRecipes[0].ID = "changed"
	assert.Equal(t, "r1", a.SavedRecipes[0].ID)
	assert.True(t, a.HasSaved("r1"))
	assert.False(t, a.HasSaved("r2"))
}
