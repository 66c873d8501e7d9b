package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/isdelr/recipes-be/internal/models"
	"github.com/isdelr/recipes-be/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db         *bun.DB
	users      *UserService
	categories *CategoryService
	recipes    *RecipeService
}

func newFixture(t *testing.T) (*fixture, context.Context) {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:         db,
		users:      NewUserService(db, bcrypt.MinCost),
		categories: NewCategoryService(db),
		recipes:    NewRecipeService(db),
	}, context.Background()
}

func (f *fixture) user(t *testing.T, name string) int64 {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), name, name+"@example.com", "secret1")
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) category(t *testing.T, owner int64, name string) models.Category {
	t.Helper()
	c, err := f.categories.CreateCategory(context.Background(), owner, name, "some description")
	require.NoError(t, err)
	return c
}

func TestCreateCategory(t *testing.T) {
	f, ctx := newFixture(t)
	owner := f.user(t, "alice")

	c, err := f.categories.CreateCategory(ctx, owner, "  Soups ", "Warm FOOD")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "soups", c.Name)
	assert.Equal(t, "warm food", c.Description)
	assert.Equal(t, owner, c.CreatedBy)
	assert.NotNil(t, c.Recipes)

	_, err = f.categories.CreateCategory(ctx, owner, "SOUPS", "")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.categories.CreateCategory(ctx, owner, "soups2", "")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = f.categories.CreateCategory(ctx, owner, "", "")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestCreateCategory_NamesArePerOwner(t *testing.T) {
	f, ctx := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	f.category(t, alice, "soups")
	_, err := f.categories.CreateCategory(ctx, bob, "soups", "")
	assert.NoError(t, err)
}

func TestGetCategory_ScopedToOwner(t *testing.T) {
	f, ctx := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	c := f.category(t, alice, "soups")

	got, err := f.categories.GetCategory(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "soups", got.Name)
	assert.Empty(t, got.Recipes)

	_, err = f.categories.GetCategory(ctx, bob, c.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	_, err = f.categories.GetCategory(ctx, alice, c.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCategories_Pagination(t *testing.T) {
	f, ctx := newFixture(t)
	owner := f.user(t, "alice")
	names := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india", "juliet", "kilo", "lima"}
	for _, name := range names {
		f.category(t, owner, name)
	}

	res, err := f.categories.ListCategories(ctx, owner, PageRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 10)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 12, res.Total)
	assert.Equal(t, "lima", res.Items[0].Name, "newest first")

	res, err = f.categories.ListCategories(ctx, owner, PageRequest{Page: 2})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, "alpha", res.Items[1].Name)

	res, err = f.categories.ListCategories(ctx, owner, PageRequest{PerPage: 100})
	require.NoError(t, err)
	assert.Len(t, res.Items, 10)

	res, err = f.categories.ListCategories(ctx, owner, PageRequest{PerPage: 1})
	require.NoError(t, err)
	assert.Len(t, res.Items, 5)
	assert.Equal(t, 3, res.Pages)

	res, err = f.categories.ListCategories(ctx, owner, PageRequest{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 9, res.Page)
}

func TestListCategories_Search(t *testing.T) {
	f, ctx := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	for i, name := range []string{"soups", "sweet soups", "salads", "stews", "pies", "cakes", "pasta"} {
		f.category(t, alice, name)
		if i == 0 {
			f.category(t, bob, name)
		}
	}

	res, err := f.categories.ListCategories(ctx, alice, PageRequest{Query: "SOUP", PerPage: 5})
	require.NoError(t, err)
	assert.True(t, res.Search)
	require.Len(t, res.Items, 2)
	for _, c := range res.Items {
		assert.Contains(t, c.Name, "soup")
		assert.Equal(t, alice, c.CreatedBy)
	}

	res, err = f.categories.ListCategories(ctx, alice, PageRequest{Query: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	// LIKE wildcards are literal.
	res, err = f.categories.ListCategories(ctx, alice, PageRequest{Query: "%"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestUpdateCategory(t *testing.T) {
	f, ctx := newFixture(t)
	owner := f.user(t, "alice")
	c := f.category(t, owner, "soups")
	f.category(t, owner, "stews")

	updated, err := f.categories.UpdateCategory(ctx, owner, c.ID, CategoryUpdate{Description: "Hot Liquids"})
	require.NoError(t, err)
	assert.Equal(t, "soups", updated.Name)
	assert.Equal(t, "hot liquids", updated.Description)
	assert.False(t, updated.DateModified.Before(c.DateModified))

	updated, err = f.categories.UpdateCategory(ctx, owner, c.ID, CategoryUpdate{Name: "Broths"})
	require.NoError(t, err)
	assert.Equal(t, "broths", updated.Name)
	assert.Equal(t, "hot liquids", updated.Description)

	// Same name is not a conflict with itself.
	_, err = f.categories.UpdateCategory(ctx, owner, c.ID, CategoryUpdate{Name: "broths"})
	assert.NoError(t, err)

	_, err = f.categories.UpdateCategory(ctx, owner, c.ID, CategoryUpdate{Name: "stews"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.categories.UpdateCategory(ctx, owner, c.ID, CategoryUpdate{Name: "b4d"})
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = f.categories.UpdateCategory(ctx, owner, c.ID+100, CategoryUpdate{Name: "x"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	got, err := f.categories.GetCategory(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "broths", got.Name)
}

func TestDeleteCategory_RemovesRecipes(t *testing.T) {
	f, ctx := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	c := f.category(t, alice, "soups")
	for i := 0; i < 3; i++ {
		_, err := f.recipes.CreateRecipe(ctx, alice, c.ID, fmt.Sprintf("soup %c", 'a'+i), "water")
		require.NoError(t, err)
	}

	assert.ErrorIs(t, f.categories.DeleteCategory(ctx, bob, c.ID), ErrCategoryNotFound)

	require.NoError(t, f.categories.DeleteCategory(ctx, alice, c.ID))
	n, err := f.db.NewSelect().Model((*models.Recipe)(nil)).Where("category_id = ?", c.ID).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, f.categories.DeleteCategory(ctx, alice, c.ID), ErrCategoryNotFound)
}

func TestCategoryName_ValidatedBeforeLowerCasing(t *testing.T) {
	f, ctx := newFixture(t)
	owner := f.user(t, "alice")

	// U+212A KELVIN SIGN lower-cases to an ASCII "k".
	_, err := f.categories.CreateCategory(ctx, owner, "\u212Aale", "greens")
	assert.ErrorIs(t, err, ErrInvalidName)

	c := f.category(t, owner, "greens")
	_, err = f.categories.UpdateCategory(ctx, owner, c.ID, CategoryUpdate{Name: "\u212Aale"})
	assert.ErrorIs(t, err, ErrInvalidName)
}
