package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserPassword(t *testing.T) {
	u := &User{Username: "alice"}
	require.NoError(t, u.SetPassword("secret1", bcrypt.MinCost))

	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, u.CheckPassword("secret1"))
	assert.False(t, u.CheckPassword("secret2"))
	assert.False(t, u.CheckPassword(""))
}

func TestUserPassword_Salted(t *testing.T) {
	a, b := &User{}, &User{}
	require.NoError(t, a.SetPassword("secret1", bcrypt.MinCost))
	require.NoError(t, b.SetPassword("secret1", bcrypt.MinCost))
	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
}

func TestUserPassword_Overwrite(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("secret1", bcrypt.MinCost))
	require.NoError(t, u.SetPassword("secret2", bcrypt.MinCost))
	assert.False(t, u.CheckPassword("secret1"))
	assert.True(t, u.CheckPassword("secret2"))
}

func TestUserPassword_MalformedHash(t *testing.T) {
	u := &User{PasswordHash: "not-a-bcrypt-hash"}
	assert.False(t, u.CheckPassword("secret1"))
}

func TestUserPassword_InvalidCost(t *testing.T) {
	u := &User{}
	assert.Error(t, u.SetPassword("secret1", bcrypt.MaxCost+1))
}

func TestCategoryPrepareForAPI(t *testing.T) {
	c := &Category{}
	c.PrepareForAPI()
	assert.NotNil(t, c.Recipes)
	assert.Empty(t, c.Recipes)
}
