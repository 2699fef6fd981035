package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetFoundItemRepository returns the found item repository instance
func (f *Factory) GetFoundItemRepository() FoundItemRepository {
	return f.GetRepositories().FoundItem
}

// GetClaimAttemptRepository returns the claim attempt repository instance
func (f *Factory) GetClaimAttemptRepository() ClaimAttemptRepository {
	return f.GetRepositories().ClaimAttempt
}

// GetClaimRepository returns the claim repository instance
func (f *Factory) GetClaimRepository() ClaimRepository {
	return f.GetRepositories().Claim
}

// GetLostItemRepository returns the lost item repository instance
func (f *Factory) GetLostItemRepository() LostItemRepository {
	return f.GetRepositories().LostItem
}

// GetReturnRepository returns the successful-returns repository instance
func (f *Factory) GetReturnRepository() ReturnRepository {
	return f.GetRepositories().Return
}

// GetAbuseReportRepository returns the abuse report repository instance
func (f *Factory) GetAbuseReportRepository() AbuseReportRepository {
	return f.GetRepositories().AbuseReport
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
