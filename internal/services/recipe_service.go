package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/recipes-be/internal/models"
	"github.com/isdelr/recipes-be/internal/validation"
	"github.com/uptrace/bun"
)

// RecipeServiceProvider defines the interface for recipe services.
type RecipeServiceProvider interface {
	ListRecipes(ctx context.Context, ownerID int64, req PageRequest) (ListResult[models.Recipe], error)
	ListCategoryRecipes(ctx context.Context, ownerID, categoryID int64, req PageRequest) (ListResult[models.Recipe], error)
	GetRecipe(ctx context.Context, ownerID, categoryID, id int64) (models.Recipe, error)
	CreateRecipe(ctx context.Context, ownerID, categoryID int64, name, ingredients string) (models.Recipe, error)
	UpdateRecipe(ctx context.Context, ownerID, categoryID, id int64, update RecipeUpdate) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, ownerID, categoryID, id int64) error
}

// RecipeUpdate holds the fields of a partial update; empty means unchanged.
type RecipeUpdate struct {
	Name        string
	Ingredients string
}

// RecipeService provides business logic for recipe management.
type RecipeService struct {
	db *bun.DB
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(db *bun.DB) *RecipeService {
	return &RecipeService{db: db}
}

// ListRecipes returns a page of all the owner's recipes across categories.
func (s *RecipeService) ListRecipes(ctx context.Context, ownerID int64, req PageRequest) (ListResult[models.Recipe], error) {
	var recipes []models.Recipe
	q := s.db.NewSelect().Model(&recipes).
		Where("created_by = ?", ownerID).
		Order("recipe_id DESC")

	res, err := searchOrPage(ctx, q, &recipes, "recipe_name", req)
	if err != nil {
		return res, fmt.Errorf("list recipes: %w", err)
	}
	return res, nil
}

// ListCategoryRecipes returns a page of the recipes in one of the owner's
// categories. An owned category without recipes yields ErrEmptyCategory.
func (s *RecipeService) ListCategoryRecipes(ctx context.Context, ownerID, categoryID int64, req PageRequest) (ListResult[models.Recipe], error) {
	if _, err := getCategory(ctx, s.db, ownerID, categoryID, false); err != nil {
		return ListResult[models.Recipe]{}, err
	}

	count, err := s.db.NewSelect().Model((*models.Recipe)(nil)).
		Where("category_id = ?", categoryID).
		Count(ctx)
	if err != nil {
		return ListResult[models.Recipe]{}, fmt.Errorf("count recipes: %w", err)
	}
	if count == 0 {
		return ListResult[models.Recipe]{}, ErrEmptyCategory
	}

	var recipes []models.Recipe
	q := s.db.NewSelect().Model(&recipes).
		Where("category_id = ?", categoryID).
		Where("created_by = ?", ownerID).
		Order("recipe_id DESC")

	res, err := searchOrPage(ctx, q, &recipes, "recipe_name", req)
	if err != nil {
		return res, fmt.Errorf("list category recipes: %w", err)
	}
	return res, nil
}

// GetRecipe retrieves a recipe in one of the owner's categories.
func (s *RecipeService) GetRecipe(ctx context.Context, ownerID, categoryID, id int64) (models.Recipe, error) {
	if _, err := getCategory(ctx, s.db, ownerID, categoryID, false); err != nil {
		return models.Recipe{}, err
	}
	return getRecipe(ctx, s.db, ownerID, categoryID, id)
}

func getRecipe(ctx context.Context, db bun.IDB, ownerID, categoryID, id int64) (models.Recipe, error) {
	var recipe models.Recipe
	err := db.NewSelect().Model(&recipe).
		Where("recipe_id = ?", id).
		Where("category_id = ?", categoryID).
		Where("created_by = ?", ownerID).
		Scan(ctx)
	if err != nil {
		return models.Recipe{}, storeError(err, "get recipe", nil, ErrRecipeNotFound)
	}
	return recipe, nil
}

// CreateRecipe validates and stores a new recipe in one of the owner's categories.
func (s *RecipeService) CreateRecipe(ctx context.Context, ownerID, categoryID int64, name, ingredients string) (models.Recipe, error) {
	if !validation.Name(strings.TrimSpace(name)) {
		return models.Recipe{}, ErrInvalidName
	}

	now := time.Now().UTC()
	recipe := models.Recipe{
		Name:         validation.Normalize(name),
		Ingredients:  validation.Normalize(ingredients),
		CategoryID:   categoryID,
		CreatedBy:    ownerID,
		DateCreated:  now,
		DateModified: now,
	}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getCategory(ctx, tx, ownerID, categoryID, false); err != nil {
			return err
		}
		if err := ensureRecipeNameFree(ctx, tx, ownerID, categoryID, recipe.Name, 0); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&recipe).Returning("recipe_id").Exec(ctx)
		return storeError(err, "insert recipe", ErrConflict, nil)
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return recipe, nil
}

// UpdateRecipe applies a partial update to a recipe.
func (s *RecipeService) UpdateRecipe(ctx context.Context, ownerID, categoryID, id int64, update RecipeUpdate) (models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getCategory(ctx, tx, ownerID, categoryID, false); err != nil {
			return err
		}
		var err error
		recipe, err = getRecipe(ctx, tx, ownerID, categoryID, id)
		if err != nil {
			return err
		}

		if name := strings.TrimSpace(update.Name); name != "" {
			if !validation.Name(name) {
				return ErrInvalidName
			}
			recipe.Name = validation.Normalize(name)
		}
		if ingredients := validation.Normalize(update.Ingredients); ingredients != "" {
			recipe.Ingredients = ingredients
		}
		if err := ensureRecipeNameFree(ctx, tx, ownerID, categoryID, recipe.Name, id); err != nil {
			return err
		}

		recipe.DateModified = time.Now().UTC()
		_, err = tx.NewUpdate().Model(&recipe).
			Column("recipe_name", "ingredients", "date_modified").
			WherePK().
			Exec(ctx)
		return storeError(err, "update recipe", ErrConflict, nil)
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe from one of the owner's categories.
func (s *RecipeService) DeleteRecipe(ctx context.Context, ownerID, categoryID, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getCategory(ctx, tx, ownerID, categoryID, false); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*models.Recipe)(nil)).
			Where("recipe_id = ?", id).
			Where("category_id = ?", categoryID).
			Where("created_by = ?", ownerID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
}

func ensureRecipeNameFree(ctx context.Context, db bun.IDB, ownerID, categoryID int64, name string, exceptID int64) error {
	taken, err := db.NewSelect().Model((*models.Recipe)(nil)).
		Where("created_by = ?", ownerID).
		Where("category_id = ?", categoryID).
		Where("recipe_name = ?", name).
		Where("recipe_id != ?", exceptID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check recipe name: %w", err)
	}
	if taken {
		return ErrConflict
	}
	return nil
}
