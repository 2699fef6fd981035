package claimengine

import (
	"time"

	"github.com/traceback-app/traceback/app/models"
)

// ContactCard is one party's contact details as snapshotted into the claim.
type ContactCard struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ContactVisible reports whether contact disclosure is currently active for
// the claim. Disclosure starts at resolution to CLAIMED and decays after the
// window; the values are never deleted, only withheld.
func (e *Engine) ContactVisible(claim *models.Claim) bool {
	if claim.ResolutionStatus != models.ResolutionClaimed || claim.ResolvedAt == nil {
		return false
	}
	return e.clock.Now().Sub(*claim.ResolvedAt) < e.cfg.DisclosureWindow
}

// DisclosureRemaining returns how long the contact details stay visible,
// zero once the window has closed or never opened.
func (e *Engine) DisclosureRemaining(claim *models.Claim) time.Duration {
	if claim.ResolutionStatus != models.ResolutionClaimed || claim.ResolvedAt == nil {
		return 0
	}
	remaining := e.cfg.DisclosureWindow - e.clock.Now().Sub(*claim.ResolvedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ContactPair serves the counterpart's contact card to a party of the claim.
// Non-parties get ErrNotParty; parties outside the window get ErrWithheld.
func (e *Engine) ContactPair(claimID uint, viewer Viewer) (*ContactCard, error) {
	claim, err := e.claims.GetByID(claimID)
	if err != nil {
		return nil, ErrHidden
	}
	if !claim.IsParty(viewer.UserID) {
		return nil, ErrNotParty
	}
	if !e.ContactVisible(claim) {
		return nil, ErrWithheld
	}

	if viewer.UserID == claim.FinderUserID {
		return &ContactCard{
			Name:  claim.ClaimerName,
			Email: claim.ClaimerEmail,
			Phone: claim.ClaimerPhone,
		}, nil
	}
	return &ContactCard{
		Name:  claim.FinderName,
		Email: claim.FinderEmail,
		Phone: claim.FinderPhone,
	}, nil
}

// ClaimsForUser lists the claims where the user is a party.
func (e *Engine) ClaimsForUser(userID uint) ([]models.Claim, error) {
	return e.claims.ListByParty(userID)
}

// GetClaim returns a claim to one of its parties or a moderator.
func (e *Engine) GetClaim(claimID uint, viewer Viewer) (*models.Claim, error) {
	claim, err := e.claims.GetByID(claimID)
	if err != nil {
		return nil, ErrHidden
	}
	if !viewer.IsModerator && !claim.IsParty(viewer.UserID) {
		return nil, ErrNotParty
	}
	return claim, nil
}
