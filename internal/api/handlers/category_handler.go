package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/isdelr/recipes-be/internal/models"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service services.CategoryServiceProvider
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service services.CategoryServiceProvider) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// CategoryPayload is the body of create and update requests. Updates may
// leave either field empty.
type CategoryPayload struct {
	Name        string `json:"category_name"`
	Description string `json:"description"`
}

func invalidCategoryName(name string) string {
	return fmt.Sprintf("%s is not a valid name. Category names can only comprise of alphabetical characters & can be more than one word", name)
}

// GetAll lists the caller's categories, or searches them when q is given.
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	req, ok := pageRequest(w, r)
	if !ok {
		return
	}

	res, err := h.service.ListCategories(r.Context(), userID, req)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list categories")
		respondInternal(w)
		return
	}

	if res.Search {
		msg := "These are the category search results"
		if len(res.Items) == 0 {
			msg = fmt.Sprintf("No categories match %s", req.Query)
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"categories": res.Items,
			"message":    msg,
		})
		return
	}

	if len(res.Items) == 0 {
		respondMessage(w, http.StatusOK, fmt.Sprintf("There are no categories on page %d", res.Page))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"categories":    res.Items,
		"message":       "These are your categories",
		"categoryPages": res.Pages,
		"categoryPage":  res.Page,
	})
}

// Create adds a category for the caller.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var p CategoryPayload
	if !decodeJSON(w, r, &p) || !requireField(w, "category_name", p.Name) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), userID, p.Name, p.Description)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, map[string]any{
			"status":      "Success",
			"message":     fmt.Sprintf("%s category was created", category.Name),
			"category_id": category.ID,
		})
	case errors.Is(err, services.ErrInvalidName):
		respondMessage(w, http.StatusBadRequest, invalidCategoryName(p.Name))
	case errors.Is(err, services.ErrConflict):
		respondMessage(w, http.StatusConflict, "Category already exists")
	default:
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to create category")
		respondInternal(w)
	}
}

// Get returns one of the caller's categories with its recipes.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.service.GetCategory(r.Context(), userID, id)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, category)
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("You don't have a category with id %d", id))
	default:
		log.Error().Err(err).Int64("category_id", id).Msg("Failed to get category")
		respondInternal(w)
	}
}

// Update edits the name and/or description of a category.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var p CategoryPayload
	if !decodeJSON(w, r, &p) {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), userID, id, services.CategoryUpdate{
		Name:        p.Name,
		Description: p.Description,
	})
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, struct {
			Message  string          `json:"message"`
			Category models.Category `json:"category"`
		}{"Category details successfully edited", category})
	case errors.Is(err, services.ErrInvalidName):
		respondMessage(w, http.StatusBadRequest, invalidCategoryName(p.Name))
	case errors.Is(err, services.ErrConflict):
		respondMessage(w, http.StatusConflict, "Category already exists")
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("Category with id %d doesn't exist", id))
	default:
		log.Error().Err(err).Int64("category_id", id).Msg("Failed to update category")
		respondInternal(w)
	}
}

// Delete removes a category and its recipes.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.service.DeleteCategory(r.Context(), userID, id)
	switch {
	case err == nil:
		respondMessage(w, http.StatusOK, "Category was deleted")
	case errors.Is(err, services.ErrNotFound):
		respondMessage(w, http.StatusNotFound, fmt.Sprintf("Category with id %d does not exist", id))
	default:
		log.Error().Err(err).Int64("category_id", id).Msg("Failed to delete category")
		respondInternal(w)
	}
}
