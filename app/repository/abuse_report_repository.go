package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
)

// abuseReportRepository implements the AbuseReportRepository interface
type abuseReportRepository struct {
	db *gorm.DB
}

// NewAbuseReportRepository creates a new abuse report repository instance
func NewAbuseReportRepository(db *gorm.DB) AbuseReportRepository {
	return &abuseReportRepository{db: db}
}

// Create stores a new abuse report
func (r *abuseReportRepository) Create(report *models.AbuseReport) error {
	return r.db.Create(report).Error
}

// GetByID retrieves an abuse report by its ID
func (r *abuseReportRepository) GetByID(id uint) (*models.AbuseReport, error) {
	var report models.AbuseReport
	err := r.db.Preload("ReportedBy").Preload("ResolvedBy").First(&report, id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListOpen retrieves all open reports, newest first
func (r *abuseReportRepository) ListOpen() ([]models.AbuseReport, error) {
	var reports []models.AbuseReport
	err := r.db.Preload("ReportedBy").
		Where("status = ?", models.ReportStatusOpen).
		Order("created_at DESC").Find(&reports).Error
	return reports, err
}

// ListRecentClosed retrieves recently resolved or dismissed reports
func (r *abuseReportRepository) ListRecentClosed(limit int) ([]models.AbuseReport, error) {
	var reports []models.AbuseReport
	err := r.db.Preload("ReportedBy").
		Where("status != ?", models.ReportStatusOpen).
		Order("updated_at DESC").Limit(limit).Find(&reports).Error
	return reports, err
}

// Resolve closes a report with the given terminal status
func (r *abuseReportRepository) Resolve(id uint, byUserID uint, status string, notes string) error {
	now := time.Now()
	return r.db.Model(&models.AbuseReport{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"moderator_notes": notes,
			"resolved_by_id":  byUserID,
			"resolved_at":     now,
		}).Error
}
