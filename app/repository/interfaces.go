package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
)

// Sentinel errors surfaced by repository implementations.
var (
	// ErrDuplicateAttempt is returned when the (item, claimant) unique index
	// rejects a second attempt row.
	ErrDuplicateAttempt = errors.New("claim attempt already exists for this item and claimant")
)

// FoundItemRepository defines the interface for found-item database operations.
// The found item owns its questions and attempts; cascading writes (finalize,
// withdraw) live here so they run in one transaction.
type FoundItemRepository interface {
	Create(item *models.FoundItem) error
	GetByID(id uint) (*models.FoundItem, error)
	GetByUUID(uuid string) (*models.FoundItem, error)
	// GetWithQuestions loads the item together with its security questions.
	GetWithQuestions(id uint) (*models.FoundItem, error)
	List(offset, limit int) ([]models.FoundItem, error)
	ListByFinder(finderID uint) ([]models.FoundItem, error)
	Count() (int64, error)

	// SetClaimStatus performs a guarded status update. It reports whether a
	// row was changed; false means the item was not in any allowed status.
	SetClaimStatus(id uint, to string, allowedFrom ...string) (bool, error)

	// SetPotentialMarkedAt sets potential_claimer_marked_at if and only if it
	// is still NULL (set-if-null compare-and-set). It reports whether this
	// call won; false means an earlier marking already owns the window start.
	SetPotentialMarkedAt(id uint, ts time.Time) (bool, error)

	// FinalizeReturn atomically creates the claim and the archival record and
	// hard-deletes the item, its attempts, and its questions. The item delete
	// is guarded on the expected claim status; a vanished or concurrently
	// modified item aborts the whole transaction.
	FinalizeReturn(item *models.FoundItem, claim *models.Claim, ret *models.SuccessfulReturn) error

	// DeleteCascade hard-deletes the item with its attempts and questions
	// (finder withdrawal or moderation). Guarded on allowed statuses.
	DeleteCascade(id uint, allowedFrom ...string) (bool, error)
}

// ClaimAttemptRepository defines the interface for the claim attempt ledger.
type ClaimAttemptRepository interface {
	// Create writes the attempt row; a unique-index violation is translated
	// to ErrDuplicateAttempt.
	Create(attempt *models.ClaimAttempt) error
	GetByID(id uint) (*models.ClaimAttempt, error)
	GetByItemAndClaimant(itemID uint, claimantIdentity string) (*models.ClaimAttempt, error)
	ListByItem(itemID uint) ([]models.ClaimAttempt, error)
	ListByClaimant(claimantIdentity string) ([]models.ClaimAttempt, error)
	// SetMarkedAsPotential stamps the attempt's marked_as_potential_at.
	SetMarkedAsPotential(id uint, ts time.Time) error
}

// ClaimRepository defines the interface for ownership claim records.
type ClaimRepository interface {
	Create(claim *models.Claim) error
	GetByID(id uint) (*models.Claim, error)
	GetByFoundItemID(itemID uint) (*models.Claim, error)
	ListByParty(userID uint) ([]models.Claim, error)
	// ResolvePending moves a PENDING claim to a terminal status. It reports
	// whether the row transitioned; false means the claim had already left
	// PENDING (or does not exist), so the transition must not fire again.
	ResolvePending(id uint, status string, resolvedAt time.Time) (bool, error)
}

// LostItemRepository defines the interface for lost-item reports.
type LostItemRepository interface {
	Create(item *models.LostItem) error
	GetByID(id uint) (*models.LostItem, error)
	ListByUser(userID uint) ([]models.LostItem, error)
	List(offset, limit int) ([]models.LostItem, error)
	MarkResolved(id uint) error
	// HasOpenMatch reports whether the user holds an unresolved lost report
	// matching the given category and location.
	HasOpenMatch(userID uint, category, location string) (bool, error)
}

// ReturnRepository reads the append-only successful-returns archive.
type ReturnRepository interface {
	GetByClaimID(claimID uint) (*models.SuccessfulReturn, error)
	CountTotal() (int64, error)
	CountSince(t time.Time) (int64, error)
	ListRecent(limit int) ([]models.SuccessfulReturn, error)
}

// AbuseReportRepository defines the interface for abuse reports.
type AbuseReportRepository interface {
	Create(report *models.AbuseReport) error
	GetByID(id uint) (*models.AbuseReport, error)
	ListOpen() ([]models.AbuseReport, error)
	ListRecentClosed(limit int) ([]models.AbuseReport, error)
	Resolve(id uint, byUserID uint, status string, notes string) error
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	FoundItem    FoundItemRepository
	ClaimAttempt ClaimAttemptRepository
	Claim        ClaimRepository
	LostItem     LostItemRepository
	Return       ReturnRepository
	AbuseReport  AbuseReportRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		FoundItem:    NewFoundItemRepository(db),
		ClaimAttempt: NewClaimAttemptRepository(db),
		Claim:        NewClaimRepository(db),
		LostItem:     NewLostItemRepository(db),
		Return:       NewReturnRepository(db),
		AbuseReport:  NewAbuseReportRepository(db),
	}
}
