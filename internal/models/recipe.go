// internal/models/recipe.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Recipe struct {
	BaseModel
	UserID          uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Title           string           `json:"title" gorm:"size:255;not null"`
	Description     string           `json:"description,omitempty" gorm:"type:text"`
	Servings        int              `json:"servings" gorm:"default:2"`
	PrepTime        int              `json:"prep_time"` // minutes
	CookTime        int              `json:"cook_time"` // minutes
	Difficulty      RecipeDifficulty `json:"difficulty" gorm:"type:varchar(20);default:'facile'"`
	Ingredients     []Ingredient     `json:"ingredients" gorm:"serializer:json;type:jsonb"`
	Instructions    []Instruction    `json:"instructions" gorm:"serializer:json;type:jsonb"`
	Tags            pq.StringArray   `json:"tags" gorm:"type:text[]"`
	NutritionalInfo JSONB            `json:"nutritional_info,omitempty" gorm:"type:jsonb"`
	GeneratedBy     RecipeOrigin     `json:"generated_by" gorm:"type:varchar(10);default:'ai'"`
	SourceProducts  pq.StringArray   `json:"source_products,omitempty" gorm:"type:text[]"`

	// Relationships
	Owner User `json:"-" gorm:"foreignKey:UserID"`
}

type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Optional bool    `json:"optional,omitempty"`
}

type Instruction struct {
	StepNumber  int    `json:"step_number"`
	Instruction string `json:"instruction"`
	Duration    int    `json:"duration,omitempty"` // minutes
	Tips        string `json:"tips,omitempty"`
}
