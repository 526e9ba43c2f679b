// internal/handlers/recipe.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecorecettes/pantry-api/internal/i18n"
	"github.com/ecorecettes/pantry-api/internal/middleware"
	"github.com/ecorecettes/pantry-api/internal/services"
	"github.com/ecorecettes/pantry-api/internal/utils"
)

type RecipeHandler struct {
	recipeService *services.RecipeService
}

func NewRecipeHandler(recipeService *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
	}
}

// POST /recipes/generate
func (h *RecipeHandler) GenerateRecipe(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	recipe, err := h.recipeService.Generate(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.RecordRecipeGenerated("error")
		utils.HandleServiceError(c, "recipe", err)
		return
	}

	middleware.RecordRecipeGenerated("ok")

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRecipeGenerated),
		"recipe":  recipe,
	})
}

// GET /recipes
func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	recipes, err := h.recipeService.List(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, "recipe", err)
		return
	}

	utils.SuccessResponse(c, recipes)
}

// GET /recipes/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid recipe id", nil)
		return
	}

	recipe, err := h.recipeService.GetByID(c.Request.Context(), userID, recipeID)
	if err != nil {
		utils.HandleServiceError(c, "recipe", err)
		return
	}

	utils.SuccessResponse(c, recipe)
}

// DELETE /recipes/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid recipe id", nil)
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), userID, recipeID); err != nil {
		utils.HandleServiceError(c, "recipe", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRecipeDeleted),
	})
}
