package claimengine

import (
	"fmt"

	"github.com/traceback-app/traceback/app/models"
)

// fileFalseClaimReport files the automatic abuse report for a claim that was
// resolved NOT_CLAIMED. The report carries no reporter: it is the system
// flagging a possible false claim for moderator review.
func (e *Engine) fileFalseClaimReport(claim *models.Claim) error {
	report := &models.AbuseReport{
		TargetType:    "claim",
		TargetID:      claim.ID,
		TargetTitle:   claim.ItemTitle,
		Category:      models.ReportCategoryFalseClaim,
		Reason:        "Claim resolved as NOT_CLAIMED",
		Description:   fmt.Sprintf("Ownership claim %d for item %q was disputed after verification. Claimant identity: %s.", claim.ID, claim.ItemTitle, claim.ClaimerName),
		Priority:      models.ReportPriorityHigh,
		AutoGenerated: true,
		Status:        models.ReportStatusOpen,
	}
	return e.reports.Create(report)
}
