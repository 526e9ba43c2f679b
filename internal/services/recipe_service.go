// internal/services/recipe_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ecorecettes/pantry-api/internal/apperrors"
	"github.com/ecorecettes/pantry-api/internal/config"
	"github.com/ecorecettes/pantry-api/internal/models"
)

// RecipeService generates recipes from inventory products through an
// OpenAI-compatible chat-completion endpoint and persists the results.
type RecipeService struct {
	db         *gorm.DB
	cfg        *config.Config
	httpClient *http.Client
}

type GenerateRecipeRequest struct {
	ProductIDs   []string `json:"product_ids" validate:"required,min=1"`
	Servings     int      `json:"servings,omitempty" validate:"omitempty,min=1,max=12"`
	Difficulty   string   `json:"difficulty,omitempty" validate:"omitempty,recipe_difficulty"`
	Restrictions []string `json:"restrictions,omitempty"`
}

type chatCompletionRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// generatedRecipe is the JSON document the model is asked to produce.
type generatedRecipe struct {
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Servings        int                    `json:"servings"`
	PrepTime        int                    `json:"prep_time"`
	CookTime        int                    `json:"cook_time"`
	Difficulty      string                 `json:"difficulty"`
	Ingredients     []models.Ingredient    `json:"ingredients"`
	Instructions    []models.Instruction   `json:"instructions"`
	Tags            []string               `json:"tags"`
	NutritionalInfo map[string]interface{} `json:"nutritional_info"`
}

func NewRecipeService(db *gorm.DB, cfg *config.Config) *RecipeService {
	return &RecipeService{
		db:  db,
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.AI.Timeout) * time.Second,
		},
	}
}

// Generate builds a recipe from the named products. Products must belong to
// the calling user; unknown IDs fail the whole request.
func (s *RecipeService) Generate(ctx context.Context, userID uuid.UUID, req *GenerateRecipeRequest) (*models.Recipe, error) {
	if len(req.ProductIDs) == 0 {
		return nil, apperrors.Validation("product_ids", "at least one product is required")
	}

	ids := make([]uuid.UUID, 0, len(req.ProductIDs))
	for _, raw := range req.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Validation("product_ids", fmt.Sprintf("invalid product id %q", raw))
		}
		ids = append(ids, id)
	}

	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Store("load products for recipe", err)
	}
	if len(products) != len(ids) {
		return nil, apperrors.ErrNotFound
	}

	generated, err := s.callProvider(ctx, products, req)
	if err != nil {
		return nil, err
	}

	difficulty := models.RecipeDifficulty(generated.Difficulty)
	switch difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		difficulty = models.DifficultyEasy
	}

	sourceProducts := make(pq.StringArray, len(products))
	for i, p := range products {
		sourceProducts[i] = p.ID.String()
	}

	recipe := &models.Recipe{
		UserID:          userID,
		Title:           generated.Title,
		Description:     generated.Description,
		Servings:        generated.Servings,
		PrepTime:        generated.PrepTime,
		CookTime:        generated.CookTime,
		Difficulty:      difficulty,
		Ingredients:     generated.Ingredients,
		Instructions:    generated.Instructions,
		Tags:            pq.StringArray(generated.Tags),
		NutritionalInfo: models.JSONB(generated.NutritionalInfo),
		GeneratedBy:     models.RecipeOriginAI,
		SourceProducts:  sourceProducts,
	}
	if recipe.Servings <= 0 {
		recipe.Servings = 2
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, apperrors.Store("create recipe", err)
	}

	return recipe, nil
}

func (s *RecipeService) callProvider(ctx context.Context, products []models.Product, req *GenerateRecipeRequest) (*generatedRecipe, error) {
	var sb strings.Builder
	sb.WriteString("Create a recipe in French using these ingredients:\n")
	for _, p := range products {
		fmt.Fprintf(&sb, "- %s (%.2f %s", p.Name, p.Quantity, p.Unit)
		if remaining := time.Until(p.ExpiryDate); remaining < 72*time.Hour {
			sb.WriteString(", use soon")
		}
		sb.WriteString(")\n")
	}
	if req.Servings > 0 {
		fmt.Fprintf(&sb, "Servings: %d\n", req.Servings)
	}
	if req.Difficulty != "" {
		fmt.Fprintf(&sb, "Difficulty: %s\n", req.Difficulty)
	}
	if len(req.Restrictions) > 0 {
		fmt.Fprintf(&sb, "Dietary restrictions: %s\n", strings.Join(req.Restrictions, ", "))
	}
	sb.WriteString("Respond with a single JSON object with keys: title, description, servings, prep_time, cook_time, difficulty (facile|moyen|difficile), ingredients (name, quantity, unit), instructions (step_number, instruction, duration), tags, nutritional_info.")

	body, err := json.Marshal(chatCompletionRequest{
		Model: s.cfg.AI.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a chef focused on reducing food waste. You always answer with valid JSON."},
			{Role: "user", Content: sb.String()},
		},
		Temperature:    0.7,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.AI.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.AI.APIKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("recipe provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		logrus.WithField("status", resp.StatusCode).Warn("recipe provider returned an error")
		return nil, fmt.Errorf("recipe provider returned status %d: %s", resp.StatusCode, string(data))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("recipe provider returned no choices")
	}

	var generated generatedRecipe
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &generated); err != nil {
		return nil, fmt.Errorf("provider returned malformed recipe JSON: %w", err)
	}
	if generated.Title == "" {
		return nil, errors.New("provider returned a recipe without a title")
	}

	return &generated, nil
}

func (s *RecipeService) List(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&recipes).Error
	if err != nil {
		return nil, apperrors.Store("list recipes", err)
	}
	return recipes, nil
}

func (s *RecipeService) GetByID(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recipeID, userID).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Store("get recipe", err)
	}
	return &recipe, nil
}

func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	recipe, err := s.GetByID(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(recipe).Error; err != nil {
		return apperrors.Store("delete recipe", err)
	}
	return nil
}
