package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/internal/pkg/cache"
	"github.com/traceback-app/traceback/internal/pkg/database"
)

const (
	CacheKeyReturnsTotal  = "statistics:returns:total"
	CacheKeyReturnsWeekly = "statistics:returns:weekly"
	CacheKeyItemsActive   = "statistics:items:active"
	CacheExpiration       = 30 * time.Minute
)

// StatisticsData holds the public counters shown on the start page.
type StatisticsData struct {
	TotalReturns  int `json:"total_returns"`
	WeeklyReturns int `json:"weekly_returns"`
	ActiveItems   int `json:"active_items"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache checks whether the cache is due for a refresh.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when the interval passed.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next check to refresh.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recounts everything and writes it to the cache.
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalReturns int64
	if err := db.Model(&models.SuccessfulReturn{}).Count(&totalReturns).Error; err != nil {
		log.Printf("Error counting total returns: %v", err)
		return err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	var weeklyReturns int64
	if err := db.Model(&models.SuccessfulReturn{}).
		Where("finalized_at >= ?", weekAgo).Count(&weeklyReturns).Error; err != nil {
		log.Printf("Error counting weekly returns: %v", err)
		return err
	}

	var activeItems int64
	if err := db.Model(&models.FoundItem{}).Count(&activeItems).Error; err != nil {
		log.Printf("Error counting active items: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyReturnsTotal, strconv.FormatInt(totalReturns, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyReturnsWeekly, strconv.FormatInt(weeklyReturns, 10), CacheExpiration); err != nil {
		return err
	}
	return cache.Set(CacheKeyItemsActive, strconv.FormatInt(activeItems, 10), CacheExpiration)
}

// GetStatistics serves the counters from the cache, recounting on a miss.
func GetStatistics() StatisticsData {
	UpdateCacheIfNeeded()

	data := StatisticsData{}

	if v, err := cache.GetInt(CacheKeyReturnsTotal); err == nil {
		data.TotalReturns = v
	} else {
		data.TotalReturns = recount(&models.SuccessfulReturn{}, CacheKeyReturnsTotal)
	}
	if v, err := cache.GetInt(CacheKeyReturnsWeekly); err == nil {
		data.WeeklyReturns = v
	} else {
		data.WeeklyReturns = recountWeekly()
	}
	if v, err := cache.GetInt(CacheKeyItemsActive); err == nil {
		data.ActiveItems = v
	} else {
		data.ActiveItems = recount(&models.FoundItem{}, CacheKeyItemsActive)
	}

	return data
}

func recountWeekly() int {
	weekAgo := time.Now().AddDate(0, 0, -7)
	var count int64
	if err := database.GetDB().Model(&models.SuccessfulReturn{}).
		Where("finalized_at >= ?", weekAgo).Count(&count).Error; err != nil {
		log.Printf("Error recounting for %s: %v", CacheKeyReturnsWeekly, err)
		return 0
	}
	if err := cache.Set(CacheKeyReturnsWeekly, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching %s: %v", CacheKeyReturnsWeekly, err)
	}
	return int(count)
}

func recount(model interface{}, key string) int {
	var count int64
	if err := database.GetDB().Model(model).Count(&count).Error; err != nil {
		log.Printf("Error recounting for %s: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching %s: %v", key, err)
	}
	return int(count)
}
