// internal/handlers/inventory.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecorecettes/pantry-api/internal/config"
	"github.com/ecorecettes/pantry-api/internal/expiration"
	"github.com/ecorecettes/pantry-api/internal/i18n"
	"github.com/ecorecettes/pantry-api/internal/middleware"
	"github.com/ecorecettes/pantry-api/internal/models"
	"github.com/ecorecettes/pantry-api/internal/services"
	"github.com/ecorecettes/pantry-api/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
	cfg              *config.Config
}

func NewInventoryHandler(inventoryService *services.InventoryService, cfg *config.Config) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		cfg:              cfg,
	}
}

// GET /products
func (h *InventoryHandler) GetProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := services.ProductListParams{
		PaginationParams: utils.GetPaginationParams(c, services.ProductDefaultSort, services.ProductDefaultOrder),
	}
	if daysStr := c.Query("expiring_within"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil && days > 0 {
			params.ExpiringWithinDays = days
		}
	}

	products, total, err := h.inventoryService.List(c.Request.Context(), userID, params)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params.PaginationParams))
}

// POST /products
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.inventoryService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// GET /products/:id
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	product, err := h.inventoryService.GetByID(c.Request.Context(), userID, productID)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	utils.SuccessResponse(c, product)
}

// PUT /products/:id
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.inventoryService.Update(c.Request.Context(), userID, productID, &req)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /products/:id
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	if err := h.inventoryService.Delete(c.Request.Context(), userID, productID); err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// GET /products/expiring?days=3
func (h *InventoryHandler) GetExpiringProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	days := 0
	if daysStr := c.Query("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil {
			days = parsed
		}
	}

	products, err := h.inventoryService.FindExpiring(c.Request.Context(), userID, days)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	utils.SuccessResponse(c, products)
}

// GET /products/expired
func (h *InventoryHandler) GetExpiredProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	products, err := h.inventoryService.FindExpired(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	utils.SuccessResponse(c, products)
}

// GET /products/barcode/:code
func (h *InventoryHandler) GetProductByBarcode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	product, err := h.inventoryService.FindByBarcode(c.Request.Context(), userID, c.Param("code"))
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	utils.SuccessResponse(c, product)
}

// GET /products/:id/expiration
func (h *InventoryHandler) GetProductExpiration(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	product, err := h.inventoryService.GetByID(c.Request.Context(), userID, productID)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	utils.SuccessResponse(c, expiration.Classify(product.ExpiryDate, time.Now()))
}

// GET /products/stats
func (h *InventoryHandler) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	products, err := h.loadAll(c, userID)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	stats := services.ComputeInventoryStats(products, h.cfg.Inventory.ExpiringSoonDays, time.Now())
	utils.SuccessResponse(c, stats)
}

// GET /products/summary
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	products, err := h.loadAll(c, userID)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	inv := h.cfg.Inventory
	summary := services.SummarizeInventory(products, inv.ExpiringSoonDays, inv.RecentDays, inv.RecentLimit, time.Now())
	utils.SuccessResponse(c, summary)
}

// POST /products/purge?days=30
func (h *InventoryHandler) PurgeExpiredProducts(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	ageDays := 0
	if ageStr := c.Query("days"); ageStr != "" {
		if parsed, err := strconv.Atoi(ageStr); err == nil {
			ageDays = parsed
		}
	}

	deleted, err := h.inventoryService.PurgeOlderThan(c.Request.Context(), userID, ageDays)
	if err != nil {
		utils.HandleServiceError(c, "product", err)
		return
	}

	middleware.RecordProductsPurged(deleted)

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductsPurged, deleted),
		"deleted": deleted,
	})
}

// GET /categories
func (h *InventoryHandler) GetCategories(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	categories := make([]gin.H, 0, len(models.ProductCategories))
	for _, category := range models.ProductCategories {
		categories = append(categories, gin.H{
			"id":    category,
			"label": i18n.T(lang, "category."+string(category)),
		})
	}

	utils.SuccessResponse(c, categories)
}

// GET /units
func (h *InventoryHandler) GetUnits(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	units := make([]gin.H, 0, len(models.ProductUnits))
	for _, unit := range models.ProductUnits {
		units = append(units, gin.H{
			"id":    unit,
			"label": i18n.T(lang, "unit."+string(unit)),
		})
	}

	utils.SuccessResponse(c, units)
}

// loadAll fetches every product for the user without pagination, for the
// aggregate endpoints. It always reads the database: the aggregates must
// cover the whole inventory, never a cached page.
func (h *InventoryHandler) loadAll(c *gin.Context, userID uuid.UUID) ([]models.Product, error) {
	params := services.ProductListParams{
		PaginationParams: utils.PaginationParams{
			Page:  1,
			Limit: utils.MaxLimit,
			Sort:  "created_at",
			Order: "desc",
		},
		SkipCache: true,
	}

	var all []models.Product
	for {
		page, total, err := h.inventoryService.List(c.Request.Context(), userID, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if int64(len(all)) >= total || len(page) == 0 {
			return all, nil
		}
		params.Page++
	}
}
