package claimengine

import (
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
)

// MarkPotentialClaimer marks an attempt as a potential claimer. The first
// marking on an item starts the final-chance window and moves the item to
// POTENTIAL_CLAIMER_MARKED; later markings add candidates without restarting
// the window. Fresh attempts stay welcome until finalization.
func (e *Engine) MarkPotentialClaimer(itemID, attemptID uint, actor Viewer) error {
	item, err := e.items.GetByID(itemID)
	if err != nil {
		return ErrHidden
	}
	if actor.UserID == 0 || actor.UserID != item.FinderID {
		return ErrNotFinder
	}
	if !item.Claimable() {
		return ErrWrongStatus
	}

	attempt, err := e.attempts.GetByID(attemptID)
	if err != nil || attempt.FoundItemID != item.ID {
		return &ValidationError{Reason: "attempt does not belong to this item"}
	}

	now := e.clock.Now()
	if err := e.attempts.SetMarkedAsPotential(attempt.ID, now); err != nil {
		return err
	}
	// Earliest marking wins the window start; losing the race here just
	// means another marking already anchored it.
	if _, err := e.items.SetPotentialMarkedAt(item.ID, now); err != nil {
		return err
	}
	if _, err := e.items.SetClaimStatus(item.ID, models.ClaimStatusPotentialMarked,
		models.ClaimStatusOpen, models.ClaimStatusPotentialMarked); err != nil {
		return err
	}

	if e.notifier != nil {
		e.notifier.PotentialClaimerMarked(item, attempt)
	}
	return nil
}

// Finalize hands the item to a marked potential claimer once the final-chance
// window has run out. In one transaction it creates the resolved claim and the
// archival record and destroys the item with its ledger; afterwards the item
// simply no longer exists.
func (e *Engine) Finalize(itemID, attemptID uint, actor Viewer, justification string) (*models.Claim, error) {
	item, err := e.items.GetByID(itemID)
	if err != nil {
		return nil, ErrHidden
	}
	if actor.UserID == 0 || actor.UserID != item.FinderID {
		return nil, ErrNotFinder
	}
	if item.ClaimStatus != models.ClaimStatusPotentialMarked || item.PotentialClaimerMarkedAt == nil {
		return nil, ErrWrongStatus
	}

	attempt, err := e.attempts.GetByID(attemptID)
	if err != nil || attempt.FoundItemID != item.ID {
		return nil, &ValidationError{Reason: "attempt does not belong to this item"}
	}
	if !attempt.IsPotential() {
		return nil, ErrWrongStatus
	}

	justification = strings.TrimSpace(justification)
	if len(justification) < e.cfg.MinJustificationLen {
		return nil, &ValidationError{Reason: "justification is too short"}
	}

	now := e.clock.Now()
	elapsed := now.Sub(*item.PotentialClaimerMarkedAt)
	if elapsed < e.cfg.FinalChanceWindow {
		return nil, &WindowNotElapsedError{Remaining: e.cfg.FinalChanceWindow - elapsed}
	}

	resolvedAt := now
	claim := &models.Claim{
		FoundItemID:      item.ID,
		ItemTitle:        item.Title,
		ClaimerUserID:    attempt.ClaimantUserID,
		ClaimerName:      attempt.ClaimantName,
		ClaimerEmail:     attempt.ClaimantEmail,
		ClaimerPhone:     attempt.ClaimantPhone,
		FinderUserID:     item.FinderID,
		FinderName:       item.Finder.Name,
		FinderEmail:      item.Finder.Email,
		FinderPhone:      item.Finder.PhoneNumber,
		Justification:    justification,
		VerificationDate: now,
		ResolutionStatus: models.ResolutionClaimed,
		ResolvedAt:       &resolvedAt,
	}
	ret := &models.SuccessfulReturn{
		FoundItemID:      item.ID,
		ItemTitle:        item.Title,
		Category:         item.Category,
		Location:         item.Location,
		FinderUserID:     item.FinderID,
		ClaimantIdentity: attempt.ClaimantIdentity,
		ItemCreatedAt:    item.CreatedAt,
		FinalizedAt:      now,
		DaysToFinalize:   int(now.Sub(item.CreatedAt).Hours() / 24),
	}

	if err := e.items.FinalizeReturn(item, claim, ret); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConflict
		}
		// A claim row already exists for this item, from the agreed path or
		// a racing finalize.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if e.notifier != nil {
		e.notifier.ClaimFinalized(claim)
	}
	return claim, nil
}

// RecordAgreedClaim records a handover the finder and a claimant agreed on
// outside the marking flow. The claim starts PENDING and only disclosure
// starts once a party resolves it CLAIMED; the item itself stays untouched.
func (e *Engine) RecordAgreedClaim(itemID, attemptID uint, actor Viewer, justification string) (*models.Claim, error) {
	item, err := e.items.GetByID(itemID)
	if err != nil {
		return nil, ErrHidden
	}
	if actor.UserID == 0 || actor.UserID != item.FinderID {
		return nil, ErrNotFinder
	}
	if !item.Claimable() {
		return nil, ErrWrongStatus
	}

	attempt, err := e.attempts.GetByID(attemptID)
	if err != nil || attempt.FoundItemID != item.ID {
		return nil, &ValidationError{Reason: "attempt does not belong to this item"}
	}

	justification = strings.TrimSpace(justification)
	if len(justification) < e.cfg.MinJustificationLen {
		return nil, &ValidationError{Reason: "justification is too short"}
	}

	claim := &models.Claim{
		FoundItemID:      item.ID,
		ItemTitle:        item.Title,
		ClaimerUserID:    attempt.ClaimantUserID,
		ClaimerName:      attempt.ClaimantName,
		ClaimerEmail:     attempt.ClaimantEmail,
		ClaimerPhone:     attempt.ClaimantPhone,
		FinderUserID:     item.FinderID,
		FinderName:       item.Finder.Name,
		FinderEmail:      item.Finder.Email,
		FinderPhone:      item.Finder.PhoneNumber,
		Justification:    justification,
		VerificationDate: e.clock.Now(),
		ResolutionStatus: models.ResolutionPending,
	}
	if err := e.claims.Create(claim); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return claim, nil
}

// ResolveResult reports the outcome of resolving a claim.
type ResolveResult struct {
	Status string `json:"status"`
	// ReportFailed is set when a NOT_CLAIMED resolution went through but the
	// automatic abuse report could not be filed.
	ReportFailed bool `json:"report_failed,omitempty"`
}

// ResolveClaim moves a PENDING claim to CLAIMED or NOT_CLAIMED. The finder or
// a moderator may resolve. A NOT_CLAIMED outcome files an abuse report
// against the claim automatically; the resolution itself never rolls back if
// that filing fails.
func (e *Engine) ResolveClaim(claimID uint, actor Viewer, outcome string) (*ResolveResult, error) {
	if outcome != models.ResolutionClaimed && outcome != models.ResolutionNotClaimed {
		return nil, &ValidationError{Reason: "outcome must be CLAIMED or NOT_CLAIMED"}
	}

	claim, err := e.claims.GetByID(claimID)
	if err != nil {
		return nil, ErrHidden
	}
	if !actor.IsModerator && (actor.UserID == 0 || actor.UserID != claim.FinderUserID) {
		return nil, ErrNotFinder
	}

	now := e.clock.Now()
	ok, err := e.claims.ResolvePending(claim.ID, outcome, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongStatus
	}
	claim.ResolutionStatus = outcome
	claim.ResolvedAt = &now

	result := &ResolveResult{Status: outcome}
	if outcome == models.ResolutionNotClaimed {
		if err := e.fileFalseClaimReport(claim); err != nil {
			log.Printf("[ClaimEngine] failed to file abuse report for claim %d: %v", claim.ID, err)
			result.ReportFailed = true
		}
		if e.notifier != nil {
			e.notifier.ClaimDisputed(claim)
		}
	}
	return result, nil
}

// Withdraw removes the item and its whole ledger before any finalization.
// Finder or moderator only.
func (e *Engine) Withdraw(itemID uint, actor Viewer) error {
	item, err := e.items.GetByID(itemID)
	if err != nil {
		return ErrHidden
	}
	if !actor.IsModerator && (actor.UserID == 0 || actor.UserID != item.FinderID) {
		return ErrNotFinder
	}

	deleted, err := e.items.DeleteCascade(item.ID,
		models.ClaimStatusOpen, models.ClaimStatusPotentialMarked)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWrongStatus
	}
	return nil
}
