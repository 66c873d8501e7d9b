package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/isdelr/recipes-be/internal/models"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/rs/zerolog/log"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service services.RecipeServiceProvider
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service services.RecipeServiceProvider) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// RecipePayload is the body of create and update requests.
type RecipePayload struct {
	Name        string `json:"recipe_name"`
	Ingredients string `json:"ingredients"`
}

func invalidRecipeName(name string) string {
	return fmt.Sprintf("%s is not a valid name. Recipe names can only comprise of alphabetical characters and can be more than one word", name)
}

// GetAll lists the caller's recipes across all categories.
func (h *RecipeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	req, ok := pageRequest(w, r)
	if !ok {
		return
	}

	res, err := h.service.ListRecipes(r.Context(), userID, req)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list recipes")
		respondInternal(w)
		return
	}
	respondRecipeList(w, res, req, 0)
}

// GetByCategory lists the recipes in one of the caller's categories.
func (h *RecipeHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}
	req, ok := pageRequest(w, r)
	if !ok {
		return
	}

	res, err := h.service.ListCategoryRecipes(r.Context(), userID, categoryID, req)
	switch {
	case err == nil:
		respondRecipeList(w, res, req, categoryID)
	case errors.Is(err, services.ErrEmptyCategory):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("No recipes in category %d", categoryID))
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("You don't have a category with id %d", categoryID))
	default:
		log.Error().Err(err).Int64("category_id", categoryID).Msg("Failed to list category recipes")
		respondInternal(w)
	}
}

func respondRecipeList(w http.ResponseWriter, res services.ListResult[models.Recipe], req services.PageRequest, categoryID int64) {
	if res.Search {
		msg := "These are the recipe search results"
		if len(res.Items) == 0 {
			msg = fmt.Sprintf("No recipes match %s", req.Query)
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"recipes": res.Items,
			"message": msg,
		})
		return
	}

	if len(res.Items) == 0 {
		respondMessage(w, http.StatusOK, fmt.Sprintf("There are no recipes on page %d", res.Page))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"recipes":     res.Items,
		"message":     "These are the recipes",
		"recipePages": res.Pages,
		"recipePage":  res.Page,
		"categoryId":  categoryID,
	})
}

// Create adds a recipe to one of the caller's categories.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}
	var p RecipePayload
	if !decodeJSON(w, r, &p) ||
		!requireField(w, "recipe_name", p.Name) ||
		!requireField(w, "ingredients", p.Ingredients) {
		return
	}

	recipe, err := h.service.CreateRecipe(r.Context(), userID, categoryID, p.Name, p.Ingredients)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, map[string]any{
			"status":    "Success",
			"message":   fmt.Sprintf("%s recipe has been created", recipe.Name),
			"recipe_id": recipe.ID,
		})
	case errors.Is(err, services.ErrInvalidName):
		respondMessage(w, http.StatusBadRequest, invalidRecipeName(p.Name))
	case errors.Is(err, services.ErrConflict):
		respondMessage(w, http.StatusConflict, "Recipe already exists")
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("You don't have a category with id %d", categoryID))
	default:
		log.Error().Err(err).Int64("category_id", categoryID).Msg("Failed to create recipe")
		respondInternal(w)
	}
}

// recipePath reads the caller and both ids of a single-recipe route.
func recipePath(w http.ResponseWriter, r *http.Request) (userID, categoryID, recipeID int64, ok bool) {
	if userID, _, ok = currentUser(w, r); !ok {
		return
	}
	if categoryID, ok = pathID(w, r, "categoryID"); !ok {
		return
	}
	recipeID, ok = pathID(w, r, "recipeID")
	return
}

// Get returns a single recipe.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, id, ok := recipePath(w, r)
	if !ok {
		return
	}

	recipe, err := h.service.GetRecipe(r.Context(), userID, categoryID, id)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, recipe)
	case errors.Is(err, services.ErrCategoryNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("You don't have a category with id %d", categoryID))
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("You don't have a recipe with id %d", id))
	default:
		log.Error().Err(err).Int64("recipe_id", id).Msg("Failed to get recipe")
		respondInternal(w)
	}
}

// Update edits the name and/or ingredients of a recipe.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, id, ok := recipePath(w, r)
	if !ok {
		return
	}
	var p RecipePayload
	if !decodeJSON(w, r, &p) {
		return
	}

	recipe, err := h.service.UpdateRecipe(r.Context(), userID, categoryID, id, services.RecipeUpdate{
		Name:        p.Name,
		Ingredients: p.Ingredients,
	})
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, struct {
			Message string        `json:"message"`
			Recipe  models.Recipe `json:"recipe"`
		}{"Recipe details successfully edited", recipe})
	case errors.Is(err, services.ErrInvalidName):
		respondMessage(w, http.StatusBadRequest, invalidRecipeName(p.Name))
	case errors.Is(err, services.ErrConflict):
		respondMessage(w, http.StatusConflict, "Recipe already exists")
	case errors.Is(err, services.ErrCategoryNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("You don't have a category with id %d", categoryID))
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("No recipe with id %d", id))
	default:
		log.Error().Err(err).Int64("recipe_id", id).Msg("Failed to update recipe")
		respondInternal(w)
	}
}

// Delete removes a recipe.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, id, ok := recipePath(w, r)
	if !ok {
		return
	}

	err := h.service.DeleteRecipe(r.Context(), userID, categoryID, id)
	switch {
	case err == nil:
		respondMessage(w, http.StatusOK, "Recipe was deleted")
	case errors.Is(err, services.ErrCategoryNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("You don't have a category with id %d", categoryID))
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("recipe id %d does not exist", id))
	default:
		log.Error().Err(err).Int64("recipe_id", id).Msg("Failed to delete recipe")
		respondInternal(w)
	}
}
