package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/recipeshare/middleware"
	"github.com/padraicbc/recipeshare/models"
)

type createRecipeRequest struct {
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete *int   `json:"minutes_to_complete"`
}

type recipeData struct {
	ID                int    `json:"id"`
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete int    `json:"minutes_to_complete"`
}

type validationErrors struct {
	Errors map[string]string `json:"errors"`
}

// Recipes returns every recipe owned by the signed-in user, in storage order.
//
// Unlike CheckSession, a session pointing at a deleted user is a 404 here,
// not a 401. Clients depend on the distinction.
func (h *Handler) Recipes(c echo.Context) error {
	uid, ok := mw.SessionUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	ctx := c.Request().Context()

	exists, err := h.db.NewSelect().Model((*models.User)(nil)).
		Where("id = ?", uid).
		Exists(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	var recipes []models.Recipe
	if err := h.db.NewSelect().Model(&recipes).
		Where("r.user_id = ?", uid).
		Scan(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]recipeData, len(recipes))
	for i, r := range recipes {
		out[i] = recipeData{
			ID:                r.ID,
			Title:             r.Title,
			Instructions:      r.Instructions,
			MinutesToComplete: r.MinutesToComplete,
		}
	}

	return c.JSON(http.StatusOK, out)
}

// CreateRecipe validates and persists a recipe owned by the signed-in user.
// Field problems are collected so the client sees every violation at once.
func (h *Handler) CreateRecipe(c echo.Context) error {
	uid, ok := mw.SessionUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req createRecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	errs := map[string]string{}
	if req.Title == "" {
		errs["title"] = "Title is required."
	}
	if req.Instructions == "" {
		errs["instructions"] = "Instructions are required."
	}
	if req.MinutesToComplete == nil {
		errs["minutes_to_complete"] = "Minutes to complete is required."
	} else if *req.MinutesToComplete <= 0 {
		errs["minutes_to_complete"] = "Minutes to complete must be a positive integer."
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, validationErrors{Errors: errs})
	}

	recipe := &models.Recipe{
		Title:             req.Title,
		Instructions:      req.Instructions,
		MinutesToComplete: *req.MinutesToComplete,
		UserID:            uid,
	}

	// Content rules live on the model, below the per-field checks above.
	if err := recipe.Validate(); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, validationErrors{
			Errors: map[string]string{"instructions": err.Error()},
		})
	}

	if _, err := h.db.NewInsert().Model(recipe).Exec(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, recipeData{
		ID:                recipe.ID,
		Title:             recipe.Title,
		Instructions:      recipe.Instructions,
		MinutesToComplete: recipe.MinutesToComplete,
	})
}
