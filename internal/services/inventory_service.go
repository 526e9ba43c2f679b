// internal/services/inventory_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ecorecettes/pantry-api/internal/apperrors"
	"github.com/ecorecettes/pantry-api/internal/cache"
	"github.com/ecorecettes/pantry-api/internal/config"
	"github.com/ecorecettes/pantry-api/internal/database"
	"github.com/ecorecettes/pantry-api/internal/models"
	"github.com/ecorecettes/pantry-api/internal/utils"
)

// InventoryService owns all reads and writes against a user's product
// inventory. Every method scopes its queries to the calling user; a product
// belonging to someone else is indistinguishable from a missing one.
type InventoryService struct {
	db  *gorm.DB
	rdb *redis.Client
	cfg *config.Config
}

type CreateProductRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Brand        string  `json:"brand,omitempty"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	PurchaseDate string  `json:"purchase_date"`
	ExpiryDate   string  `json:"expiry_date"`
	Barcode      string  `json:"barcode,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
	Quantity     *float64 `json:"quantity,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	PurchaseDate *string  `json:"purchase_date,omitempty"`
	ExpiryDate   *string  `json:"expiry_date,omitempty"`
	Barcode      *string  `json:"barcode,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

type ProductListParams struct {
	utils.PaginationParams
	ExpiringWithinDays int
	// SkipCache forces a database read even for the canonical view.
	SkipCache bool
}

// Default listing order for the products endpoint: soonest-expiring first.
const (
	ProductDefaultSort  = "expiry_date"
	ProductDefaultOrder = "asc"
)

// productSortFields is the whitelist accepted for the sort query parameter.
// The first entry doubles as the fallback for unknown sort values.
var productSortFields = []string{"expiry_date", "created_at", "updated_at", "name", "purchase_date", "quantity"}

// productListPage is the envelope stored in Redis for the canonical listing.
// Carrying the total keeps pagination metadata correct on a cache hit.
type productListPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// listCacheable reports whether the request is the canonical view: unfiltered
// first page at the default sort and page size. Any other combination of
// sort, order, limit or filter must read the database.
func listCacheable(params ProductListParams) bool {
	return !params.SkipCache &&
		params.Search == "" &&
		params.Category == "" &&
		params.ExpiringWithinDays == 0 &&
		params.Page <= 1 &&
		params.Limit == utils.DefaultLimit &&
		params.Sort == ProductDefaultSort &&
		params.Order == ProductDefaultOrder
}

func NewInventoryService(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *InventoryService {
	return &InventoryService{
		db:  db,
		rdb: rdb,
		cfg: cfg,
	}
}

// dateLayout matches the wire format for purchase and expiry dates.
const dateLayout = "2006-01-02"

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.Validation(field, fmt.Sprintf("%s must be a date (YYYY-MM-DD or RFC 3339)", field))
	}
	return t, nil
}

// validateCreate applies the creation rules in a fixed order so the first
// broken rule is the one reported.
func validateCreate(req *CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("name", "name is required")
	}

	category := models.ProductCategory(req.Category)
	if !category.Valid() {
		return nil, apperrors.Validation("category", "unknown product category")
	}

	if req.Quantity <= 0 {
		return nil, apperrors.Validation("quantity", "quantity must be greater than 0")
	}

	unit := models.ProductUnit(req.Unit)
	if !unit.Valid() {
		return nil, apperrors.Validation("unit", "unknown product unit")
	}

	if req.ExpiryDate == "" {
		return nil, apperrors.Validation("expiry_date", "expiry_date is required")
	}
	expiry, err := parseDate("expiry_date", req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	if req.PurchaseDate == "" {
		return nil, apperrors.Validation("purchase_date", "purchase_date is required")
	}
	purchase, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}

	if !expiry.After(purchase) {
		return nil, apperrors.Validation("expiry_date", "expiry_date must be after purchase_date")
	}

	return &models.Product{
		Name:         name,
		Category:     category,
		Brand:        strings.TrimSpace(req.Brand),
		Quantity:     req.Quantity,
		Unit:         unit,
		PurchaseDate: purchase,
		ExpiryDate:   expiry,
		Barcode:      strings.TrimSpace(req.Barcode),
		Notes:        req.Notes,
	}, nil
}

func (s *InventoryService) List(ctx context.Context, userID uuid.UUID, params ProductListParams) ([]models.Product, int64, error) {
	cacheable := listCacheable(params)
	if cacheable && s.rdb != nil {
		var page productListPage
		if err := cache.GetProductList(ctx, s.rdb, userID.String(), &page); err == nil {
			return page.Products, page.Total, nil
		}
	}

	query := s.db.WithContext(ctx).Model(&models.Product{}).Where("user_id = ?", userID)

	if params.Category != "" {
		// Comma-separated values filter on any of the named categories.
		categories := strings.Split(params.Category, ",")
		query = query.Where("category IN ?", categories)
	}
	if params.Search != "" {
		search := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", search, search)
	}
	if params.ExpiringWithinDays > 0 {
		now := time.Now()
		query = query.Where("expiry_date > ? AND expiry_date <= ?", now, now.AddDate(0, 0, params.ExpiringWithinDays))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Store("count products", err)
	}

	var products []models.Product
	query = utils.ApplySort(query, params.PaginationParams, productSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, apperrors.Store("list products", err)
	}

	if cacheable && s.rdb != nil {
		ttl := time.Duration(s.cfg.Redis.ProductCacheTTL) * time.Second
		page := productListPage{Products: products, Total: total}
		if err := cache.SetProductList(ctx, s.rdb, userID.String(), page, ttl); err != nil {
			logrus.WithError(err).Warn("failed to cache product list")
		}
	}

	return products, total, nil
}

func (s *InventoryService) GetByID(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", productID, userID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Store("get product", err)
	}
	return &product, nil
}

func (s *InventoryService) Create(ctx context.Context, userID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	product, err := validateCreate(req)
	if err != nil {
		return nil, err
	}
	product.UserID = userID

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, apperrors.Store("create product", err)
	}

	s.invalidateCache(ctx, userID)

	// Read back so generated fields (id, timestamps) come from the store.
	return s.GetByID(ctx, userID, product.ID)
}

func (s *InventoryService) Update(ctx context.Context, userID, productID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	updates, err := s.buildUpdates(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	// Cross-field rule: the resulting expiry must stay after the resulting
	// purchase date, whichever side the update touches.
	expiry := existing.ExpiryDate
	if v, ok := updates["expiry_date"]; ok {
		expiry = v.(time.Time)
	}
	purchase := existing.PurchaseDate
	if v, ok := updates["purchase_date"]; ok {
		purchase = v.(time.Time)
	}
	if !expiry.After(purchase) {
		return nil, apperrors.Validation("expiry_date", "expiry_date must be after purchase_date")
	}

	if err := s.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
		return nil, apperrors.Store("update product", err)
	}

	s.invalidateCache(ctx, userID)

	return s.GetByID(ctx, userID, productID)
}

// buildUpdates turns the tagged-presence request into a column update map,
// validating each provided field. An empty request is rejected before any
// store access.
func (s *InventoryService) buildUpdates(req *UpdateProductRequest) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("name", "name is required")
		}
		updates["name"] = name
	}
	if req.Category != nil {
		category := models.ProductCategory(*req.Category)
		if !category.Valid() {
			return nil, apperrors.Validation("category", "unknown product category")
		}
		updates["category"] = category
	}
	if req.Brand != nil {
		updates["brand"] = strings.TrimSpace(*req.Brand)
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, apperrors.Validation("quantity", "quantity must be greater than 0")
		}
		updates["quantity"] = *req.Quantity
	}
	if req.Unit != nil {
		unit := models.ProductUnit(*req.Unit)
		if !unit.Valid() {
			return nil, apperrors.Validation("unit", "unknown product unit")
		}
		updates["unit"] = unit
	}
	if req.PurchaseDate != nil {
		purchase, err := parseDate("purchase_date", *req.PurchaseDate)
		if err != nil {
			return nil, err
		}
		updates["purchase_date"] = purchase
	}
	if req.ExpiryDate != nil {
		expiry, err := parseDate("expiry_date", *req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		updates["expiry_date"] = expiry
	}
	if req.Barcode != nil {
		updates["barcode"] = strings.TrimSpace(*req.Barcode)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return nil, apperrors.Validation("", "no fields to update")
	}

	return updates, nil
}

// Delete removes a product after confirming ownership. The lookup and the
// delete run in one transaction so a concurrent delete cannot slip between
// them.
func (s *InventoryService) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("id = ? AND user_id = ?", productID, userID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return apperrors.Store("get product", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return apperrors.Store("delete product", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, userID)
	return nil
}

// FindExpiring returns products whose expiry falls inside (now, now+days],
// soonest first. Already-expired products are excluded.
func (s *InventoryService) FindExpiring(ctx context.Context, userID uuid.UUID, days int) ([]models.Product, error) {
	if days <= 0 {
		days = s.cfg.Inventory.ExpiringSoonDays
	}
	now := time.Now()

	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expiry_date > ? AND expiry_date <= ?", userID, now, now.AddDate(0, 0, days)).
		Order("expiry_date asc").
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Store("find expiring products", err)
	}
	return products, nil
}

// FindExpired returns products already past their expiry, most recently
// expired first.
func (s *InventoryService) FindExpired(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expiry_date < ?", userID, time.Now()).
		Order("expiry_date desc").
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Store("find expired products", err)
	}
	return products, nil
}

// FindByBarcode returns the first product carrying the barcode, or
// ErrNotFound when the user has none.
func (s *InventoryService) FindByBarcode(ctx context.Context, userID uuid.UUID, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apperrors.Validation("barcode", "barcode is required")
	}

	var product models.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND barcode = ?", userID, barcode).
		Order("created_at asc").
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Store("find product by barcode", err)
	}
	return &product, nil
}

// PurgeOlderThan removes products that expired more than ageDays ago and
// returns how many were deleted. Individual delete failures are logged and
// skipped; the purge never aborts part-way.
func (s *InventoryService) PurgeOlderThan(ctx context.Context, userID uuid.UUID, ageDays int) (int, error) {
	if ageDays <= 0 {
		ageDays = s.cfg.Inventory.PurgeAfterDays
	}
	cutoff := time.Now().AddDate(0, 0, -ageDays)

	var victims []models.Product
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expiry_date < ?", userID, cutoff).
		Find(&victims).Error
	if err != nil {
		return 0, apperrors.Store("select purge candidates", err)
	}

	if len(victims) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	results := make(chan error, len(victims))
	for _, victim := range victims {
		wg.Add(1)
		go func(p models.Product) {
			defer wg.Done()
			results <- s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", p.ID).Error
		}(victim)
	}
	wg.Wait()
	close(results)

	deleted := 0
	for err := range results {
		if err != nil {
			logrus.WithError(err).Warn("failed to purge expired product")
			continue
		}
		deleted++
	}

	s.invalidateCache(ctx, userID)
	return deleted, nil
}

func (s *InventoryService) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := cache.InvalidateProductList(ctx, s.rdb, userID.String()); err != nil {
		logrus.WithError(err).Warn("failed to invalidate product list cache")
	}
}
