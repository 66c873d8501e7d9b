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

// CategoryServiceProvider defines the interface for category services.
type CategoryServiceProvider interface {
	ListCategories(ctx context.Context, ownerID int64, req PageRequest) (ListResult[models.Category], error)
	GetCategory(ctx context.Context, ownerID, id int64) (models.Category, error)
	CreateCategory(ctx context.Context, ownerID int64, name, description string) (models.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id int64, update CategoryUpdate) (models.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id int64) error
}

// CategoryUpdate holds the fields of a partial update; empty means unchanged.
type CategoryUpdate struct {
	Name        string
	Description string
}

// CategoryService provides business logic for category management.
// Every query is scoped to the owning user.
type CategoryService struct {
	db *bun.DB
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *bun.DB) *CategoryService {
	return &CategoryService{db: db}
}

func withRecipes(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Relation("Recipes", func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("recipe_id")
	})
}

// ListCategories returns a page of the owner's categories, newest first, or
// every category whose name contains req.Query.
func (s *CategoryService) ListCategories(ctx context.Context, ownerID int64, req PageRequest) (ListResult[models.Category], error) {
	var categories []models.Category
	q := withRecipes(s.db.NewSelect().Model(&categories)).
		Where("created_by = ?", ownerID).
		Order("category_id DESC")

	res, err := searchOrPage(ctx, q, &categories, "category_name", req)
	if err != nil {
		return res, fmt.Errorf("list categories: %w", err)
	}
	for i := range res.Items {
		res.Items[i].PrepareForAPI()
	}
	return res, nil
}

// GetCategory retrieves one of the owner's categories with its recipes.
func (s *CategoryService) GetCategory(ctx context.Context, ownerID, id int64) (models.Category, error) {
	return getCategory(ctx, s.db, ownerID, id, true)
}

func getCategory(ctx context.Context, db bun.IDB, ownerID, id int64, recipes bool) (models.Category, error) {
	var category models.Category
	q := db.NewSelect().Model(&category).
		Where("category_id = ?", id).
		Where("created_by = ?", ownerID)
	if recipes {
		q = withRecipes(q)
	}
	if err := q.Scan(ctx); err != nil {
		return models.Category{}, storeError(err, "get category", nil, ErrCategoryNotFound)
	}
	category.PrepareForAPI()
	return category, nil
}

// CreateCategory validates and stores a new category for the owner.
func (s *CategoryService) CreateCategory(ctx context.Context, ownerID int64, name, description string) (models.Category, error) {
	if !validation.Name(strings.TrimSpace(name)) {
		return models.Category{}, ErrInvalidName
	}

	now := time.Now().UTC()
	category := models.Category{
		Name:         validation.Normalize(name),
		Description:  validation.Normalize(description),
		CreatedBy:    ownerID,
		DateCreated:  now,
		DateModified: now,
	}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureCategoryNameFree(ctx, tx, ownerID, category.Name, 0); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&category).Returning("category_id").Exec(ctx)
		return storeError(err, "insert category", ErrConflict, nil)
	})
	if err != nil {
		return models.Category{}, err
	}
	category.PrepareForAPI()
	return category, nil
}

// UpdateCategory applies a partial update to one of the owner's categories.
func (s *CategoryService) UpdateCategory(ctx context.Context, ownerID, id int64, update CategoryUpdate) (models.Category, error) {
	var category models.Category
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		category, err = getCategory(ctx, tx, ownerID, id, false)
		if err != nil {
			return err
		}

		if name := strings.TrimSpace(update.Name); name != "" {
			if !validation.Name(name) {
				return ErrInvalidName
			}
			category.Name = validation.Normalize(name)
		}
		if description := validation.Normalize(update.Description); description != "" {
			category.Description = description
		}
		if err := ensureCategoryNameFree(ctx, tx, ownerID, category.Name, id); err != nil {
			return err
		}

		category.DateModified = time.Now().UTC()
		_, err = tx.NewUpdate().Model(&category).
			Column("category_name", "description", "date_modified").
			WherePK().
			Exec(ctx)
		return storeError(err, "update category", ErrConflict, nil)
	})
	if err != nil {
		return models.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes one of the owner's categories and all of its recipes.
func (s *CategoryService) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getCategory(ctx, tx, ownerID, id, false); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Recipe)(nil)).Where("category_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete category recipes: %w", err)
		}
		if _, err := tx.NewDelete().Model((*models.Category)(nil)).Where("category_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

// ensureCategoryNameFree fails with ErrConflict if the owner already has a
// category called name other than exceptID.
func ensureCategoryNameFree(ctx context.Context, db bun.IDB, ownerID int64, name string, exceptID int64) error {
	taken, err := db.NewSelect().Model((*models.Category)(nil)).
		Where("created_by = ?", ownerID).
		Where("category_name = ?", name).
		Where("category_id != ?", exceptID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return ErrConflict
	}
	return nil
}
