// internal/utils/validator.go
package utils

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/ecorecettes/pantry-api/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("strong_password", validateStrongPassword)
	validate.RegisterValidation("product_category", validateProductCategory)
	validate.RegisterValidation("product_unit", validateProductUnit)
	validate.RegisterValidation("recipe_difficulty", validateRecipeDifficulty)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasNumber bool

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	return hasUpper && hasLower && hasNumber
}

func validateProductCategory(fl validator.FieldLevel) bool {
	return models.ProductCategory(fl.Field().String()).Valid()
}

func validateProductUnit(fl validator.FieldLevel) bool {
	return models.ProductUnit(fl.Field().String()).Valid()
}

func validateRecipeDifficulty(fl validator.FieldLevel) bool {
	switch models.RecipeDifficulty(fl.Field().String()) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "strong_password":
		return "Password must contain at least 8 characters with uppercase, lowercase, and number"
	case "product_category":
		return "Unknown product category"
	case "product_unit":
		return "Unknown product unit"
	case "recipe_difficulty":
		return "Difficulty must be facile, moyen, or difficile"
	default:
		return e.Field() + " is invalid"
	}
}
