// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type ProductCategory string

const (
	CategoryFruitsVegetables ProductCategory = "fruits-legumes"
	CategoryMeatFish         ProductCategory = "viande-poisson"
	CategoryDairy            ProductCategory = "produits-laitiers"
	CategoryGrainsStarches   ProductCategory = "cereales-feculents"
	CategoryCanned           ProductCategory = "conserves"
	CategoryFrozen           ProductCategory = "surgeles"
	CategoryBeverages        ProductCategory = "boissons"
	CategoryCondimentsSpices ProductCategory = "condiments-epices"
	CategoryBakeryPastry     ProductCategory = "boulangerie-patisserie"
	CategoryOther            ProductCategory = "autres"
)

// ProductCategories lists every accepted category, in display order.
var ProductCategories = []ProductCategory{
	CategoryFruitsVegetables,
	CategoryMeatFish,
	CategoryDairy,
	CategoryGrainsStarches,
	CategoryCanned,
	CategoryFrozen,
	CategoryBeverages,
	CategoryCondimentsSpices,
	CategoryBakeryPastry,
	CategoryOther,
}

func (c ProductCategory) Valid() bool {
	for _, known := range ProductCategories {
		if c == known {
			return true
		}
	}
	return false
}

type ProductUnit string

const (
	UnitPiece  ProductUnit = "unité"
	UnitKg     ProductUnit = "kg"
	UnitGram   ProductUnit = "g"
	UnitLiter  ProductUnit = "L"
	UnitMl     ProductUnit = "mL"
	UnitPack   ProductUnit = "paquet"
	UnitBox    ProductUnit = "boîte"
	UnitJar    ProductUnit = "pot"
	UnitBottle ProductUnit = "bouteille"
)

var ProductUnits = []ProductUnit{
	UnitPiece,
	UnitKg,
	UnitGram,
	UnitLiter,
	UnitMl,
	UnitPack,
	UnitBox,
	UnitJar,
	UnitBottle,
}

func (u ProductUnit) Valid() bool {
	for _, known := range ProductUnits {
		if u == known {
			return true
		}
	}
	return false
}

type RecipeDifficulty string

const (
	DifficultyEasy   RecipeDifficulty = "facile"
	DifficultyMedium RecipeDifficulty = "moyen"
	DifficultyHard   RecipeDifficulty = "difficile"
)

type RecipeOrigin string

const (
	RecipeOriginAI   RecipeOrigin = "ai"
	RecipeOriginUser RecipeOrigin = "user"
)

type NotificationType string

const (
	NotificationProductExpiring  NotificationType = "product-expiring"
	NotificationProductExpired   NotificationType = "product-expired"
	NotificationRecipeSuggestion NotificationType = "recipe-suggestion"
	NotificationWasteAlert       NotificationType = "waste-alert"
	NotificationWeeklyStats      NotificationType = "weekly-stats"
	NotificationSystemUpdate     NotificationType = "system-update"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)
