// Package notify delivers claim lifecycle events to the affected users via
// in-app notifications and email. Delivery is strictly best-effort: the
// engine never waits for, or fails on, a notification.
package notify

import (
	"fmt"
	"log"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/internal/pkg/database"
	"github.com/traceback-app/traceback/internal/pkg/mail"
)

// Service implements the claim engine's Notifier interface.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// AttemptVerified tells the finder that a claimant passed verification.
func (s *Service) AttemptVerified(item *models.FoundItem, attempt *models.ClaimAttempt) {
	title := "A claimant passed verification"
	content := fmt.Sprintf("Someone answered the security questions for %q correctly. Review the attempts and decide whether to mark them as a potential claimer.", item.Title)

	s.notifyUser(item.FinderID, models.NotificationAttemptVerified, title, content, item.ID)
	if item.Finder.Email != "" {
		s.sendMail(item.Finder.Email, title, content)
	}
}

// PotentialClaimerMarked tells the claimant they were shortlisted.
func (s *Service) PotentialClaimerMarked(item *models.FoundItem, attempt *models.ClaimAttempt) {
	title := "You were marked as a potential claimer"
	content := fmt.Sprintf("The finder of %q marked your claim attempt as a potential match. The item stays open for a final-chance period before the handover can be completed.", item.Title)

	if attempt.ClaimantUserID != nil {
		s.notifyUser(*attempt.ClaimantUserID, models.NotificationPotentialClaimer, title, content, item.ID)
	}
	if attempt.ClaimantEmail != "" {
		s.sendMail(attempt.ClaimantEmail, title, content)
	}
}

// ClaimFinalized tells both parties the handover is confirmed and contact
// details are disclosed.
func (s *Service) ClaimFinalized(claim *models.Claim) {
	title := "Item return finalized"
	content := fmt.Sprintf("The return of %q has been finalized. Contact details of the other party are now visible to you for a limited time.", claim.ItemTitle)

	s.notifyUser(claim.FinderUserID, models.NotificationClaimFinalized, title, content, claim.ID)
	if claim.ClaimerUserID != nil {
		s.notifyUser(*claim.ClaimerUserID, models.NotificationClaimFinalized, title, content, claim.ID)
	}
	for _, addr := range []string{claim.FinderEmail, claim.ClaimerEmail} {
		if addr != "" {
			s.sendMail(addr, title, content)
		}
	}
}

// ClaimDisputed tells the claimant their claim was resolved against them.
func (s *Service) ClaimDisputed(claim *models.Claim) {
	title := "Ownership claim disputed"
	content := fmt.Sprintf("The claim for %q was resolved as not substantiated. The case has been forwarded to the moderation team.", claim.ItemTitle)

	if claim.ClaimerUserID != nil {
		s.notifyUser(*claim.ClaimerUserID, models.NotificationClaimDisputed, title, content, claim.ID)
	}
	if claim.ClaimerEmail != "" {
		s.sendMail(claim.ClaimerEmail, title, content)
	}
}

func (s *Service) notifyUser(userID uint, notificationType, title, content string, refID uint) {
	if userID == 0 {
		return
	}
	if err := models.CreateNotification(database.GetDB(), userID, notificationType, title, content, refID); err != nil {
		log.Printf("[Notify] failed to store notification for user %d: %v", userID, err)
	}
}

func (s *Service) sendMail(to, subject, body string) {
	go func() {
		if err := mail.SendMail(to, subject, body); err != nil {
			log.Printf("[Notify] failed to send mail to %s: %v", to, err)
		}
	}()
}
