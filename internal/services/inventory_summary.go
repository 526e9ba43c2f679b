// internal/services/inventory_summary.go
package services

import (
	"sort"
	"time"

	"github.com/ecorecettes/pantry-api/internal/expiration"
	"github.com/ecorecettes/pantry-api/internal/models"
)

// InventoryStats buckets a product set into exactly three freshness groups.
// Every product lands in one bucket, so Expired+ExpiringSoon+Fresh == Total.
type InventoryStats struct {
	Total        int            `json:"total"`
	Expired      int            `json:"expired"`
	ExpiringSoon int            `json:"expiring_soon"`
	Fresh        int            `json:"fresh"`
	ByCategory   map[string]int `json:"by_category"`
}

// ClassifiedProduct pairs a product with its freshness classification for
// dashboard rendering.
type ClassifiedProduct struct {
	models.Product
	Expiration expiration.Classification `json:"expiration"`
}

// InventorySummary is the dashboard view of an inventory.
type InventorySummary struct {
	TotalProducts      int                 `json:"total_products"`
	ExpiredCount       int                 `json:"expired_count"`
	ExpiringTodayCount int                 `json:"expiring_today_count"`
	ExpiringSoonCount  int                 `json:"expiring_soon_count"`
	HasAlerts          bool                `json:"has_alerts"`
	RecentProducts     []ClassifiedProduct `json:"recent_products"`
}

// ComputeInventoryStats assigns each product to its freshness bucket. A
// product counts as expired when its expiry is strictly before now, as
// expiring soon when the expiry falls inside [now, now+soonDays], and as
// fresh otherwise.
func ComputeInventoryStats(products []models.Product, soonDays int, now time.Time) InventoryStats {
	stats := InventoryStats{
		Total:      len(products),
		ByCategory: make(map[string]int),
	}
	soonCutoff := now.AddDate(0, 0, soonDays)

	for _, p := range products {
		switch {
		case p.ExpiryDate.Before(now):
			stats.Expired++
		case !p.ExpiryDate.After(soonCutoff):
			stats.ExpiringSoon++
		default:
			stats.Fresh++
		}
		stats.ByCategory[string(p.Category)]++
	}

	return stats
}

// RecentProducts returns up to limit products added within the last
// recentDays days, newest first. The input slice is not mutated.
func RecentProducts(products []models.Product, recentDays, limit int, now time.Time) []models.Product {
	cutoff := now.AddDate(0, 0, -recentDays)

	recent := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.CreatedAt.After(cutoff) {
			recent = append(recent, p)
		}
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// SummarizeInventory builds the dashboard summary. The expiring-today and
// expiring-soon counters exclude expired products, and expiring-soon also
// excludes today, so the three alert counters never overlap.
func SummarizeInventory(products []models.Product, soonDays, recentDays, recentLimit int, now time.Time) InventorySummary {
	summary := InventorySummary{
		TotalProducts: len(products),
	}
	for _, p := range RecentProducts(products, recentDays, recentLimit, now) {
		summary.RecentProducts = append(summary.RecentProducts, ClassifiedProduct{
			Product:    p,
			Expiration: expiration.Classify(p.ExpiryDate, now),
		})
	}

	for _, p := range products {
		switch remaining := expiration.DaysUntil(p.ExpiryDate, now); {
		case remaining < 0:
			summary.ExpiredCount++
		case remaining == 0:
			summary.ExpiringTodayCount++
		case remaining <= soonDays:
			summary.ExpiringSoonCount++
		}
	}

	summary.HasAlerts = summary.ExpiredCount > 0 || summary.ExpiringTodayCount > 0 || summary.ExpiringSoonCount > 0
	return summary
}
