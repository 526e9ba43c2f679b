// internal/services/inventory_summary_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecorecettes/pantry-api/internal/expiration"
	"github.com/ecorecettes/pantry-api/internal/models"
)

var summaryNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func productExpiring(name string, expiryOffsetDays int) models.Product {
	return models.Product{
		Name:       name,
		Category:   models.CategoryOther,
		Quantity:   1,
		Unit:       models.UnitPiece,
		ExpiryDate: summaryNow.Add(time.Duration(expiryOffsetDays) * 24 * time.Hour),
	}
}

func TestComputeInventoryStatsBucketsArePartition(t *testing.T) {
	products := []models.Product{
		productExpiring("old yogurt", -10),
		productExpiring("sour milk", -1),
		productExpiring("cheese", 0),
		productExpiring("ham", 2),
		productExpiring("eggs", 3),
		productExpiring("rice", 4),
		productExpiring("pasta", 90),
	}

	stats := ComputeInventoryStats(products, 3, summaryNow)

	assert.Equal(t, 7, stats.Total)
	assert.Equal(t, 2, stats.Expired)
	assert.Equal(t, 3, stats.ExpiringSoon)
	assert.Equal(t, 2, stats.Fresh)

	// No product is counted twice and none is dropped.
	assert.Equal(t, stats.Total, stats.Expired+stats.ExpiringSoon+stats.Fresh)
	assert.Equal(t, 7, stats.ByCategory[string(models.CategoryOther)])
}

func TestComputeInventoryStatsEmptyInventory(t *testing.T) {
	stats := ComputeInventoryStats(nil, 3, summaryNow)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Expired+stats.ExpiringSoon+stats.Fresh)
	assert.Empty(t, stats.ByCategory)
}

func TestRecentProductsOrderAndLimit(t *testing.T) {
	mkProduct := func(name string, createdDaysAgo int) models.Product {
		p := productExpiring(name, 30)
		p.CreatedAt = summaryNow.Add(-time.Duration(createdDaysAgo) * 24 * time.Hour)
		return p
	}

	products := []models.Product{
		mkProduct("a", 6),
		mkProduct("b", 1),
		mkProduct("c", 10), // outside the window
		mkProduct("d", 3),
		mkProduct("e", 2),
		mkProduct("f", 4),
		mkProduct("g", 5),
	}

	recent := RecentProducts(products, 7, 5, summaryNow)

	assert.Len(t, recent, 5)
	names := make([]string, len(recent))
	for i, p := range recent {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"b", "e", "d", "f", "g"}, names)
}

func TestSummarizeInventoryAlertCountersAreDisjoint(t *testing.T) {
	products := []models.Product{
		productExpiring("expired", -2),
		productExpiring("today", 0),
		productExpiring("tomorrow", 1),
		productExpiring("fresh", 20),
	}

	summary := SummarizeInventory(products, 3, 7, 5, summaryNow)

	assert.Equal(t, 4, summary.TotalProducts)
	assert.Equal(t, 1, summary.ExpiredCount)
	assert.Equal(t, 1, summary.ExpiringTodayCount)
	assert.Equal(t, 1, summary.ExpiringSoonCount)
	assert.True(t, summary.HasAlerts)
}

func TestSummarizeInventoryRecentProductsAreClassified(t *testing.T) {
	p := productExpiring("tomorrow", 1)
	p.CreatedAt = summaryNow.Add(-24 * time.Hour)

	summary := SummarizeInventory([]models.Product{p}, 3, 7, 5, summaryNow)

	require.Len(t, summary.RecentProducts, 1)
	assert.Equal(t, expiration.StatusExpiresSoon, summary.RecentProducts[0].Expiration.Status)
	assert.Equal(t, 1, summary.RecentProducts[0].Expiration.DaysRemaining)
}

func TestSummarizeInventoryNoAlertsWhenEverythingFresh(t *testing.T) {
	products := []models.Product{
		productExpiring("flour", 60),
		productExpiring("sugar", 120),
	}

	summary := SummarizeInventory(products, 3, 7, 5, summaryNow)

	assert.Equal(t, 0, summary.ExpiredCount)
	assert.Equal(t, 0, summary.ExpiringTodayCount)
	assert.Equal(t, 0, summary.ExpiringSoonCount)
	assert.False(t, summary.HasAlerts)
}
