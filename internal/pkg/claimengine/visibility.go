package claimengine

import (
	"time"

	"github.com/traceback-app/traceback/app/models"
)

// Level is a viewer's visibility into a found item.
type Level int

const (
	// LevelHidden: the item does not appear in listings for this viewer.
	LevelHidden Level = iota
	// LevelPrivateLimited: reduced fields during the privacy window, granted
	// only to viewers with a matching unresolved lost report.
	LevelPrivateLimited
	// LevelPublicLimited: reduced fields, granted to everyone after the
	// privacy window elapses.
	LevelPublicLimited
	// LevelFull: all fields. Finder and moderators only, never ordinary
	// claimants, not even after verification.
	LevelFull
)

func (l Level) String() string {
	switch l {
	case LevelPrivateLimited:
		return "PRIVATE_LIMITED"
	case LevelPublicLimited:
		return "PUBLIC_LIMITED"
	case LevelFull:
		return "FULL"
	default:
		return "HIDDEN"
	}
}

// Visibility decides what the viewer may see of the item.
func (e *Engine) Visibility(item *models.FoundItem, viewer Viewer) (Level, error) {
	if viewer.IsModerator || (viewer.UserID != 0 && viewer.UserID == item.FinderID) {
		return LevelFull, nil
	}

	if e.clock.Now().Sub(item.CreatedAt) >= e.cfg.PrivacyWindow {
		return LevelPublicLimited, nil
	}

	// Still inside the privacy window: only viewers with an unresolved lost
	// report matching category and location get the limited early view.
	match, err := e.lost.HasOpenMatch(viewer.UserID, item.Category, item.Location)
	if err != nil {
		return LevelHidden, err
	}
	if match {
		return LevelPrivateLimited, nil
	}
	return LevelHidden, nil
}

// PrivacyRemaining returns how long the item stays private, zero if public.
func (e *Engine) PrivacyRemaining(item *models.FoundItem) time.Duration {
	remaining := e.cfg.PrivacyWindow - e.clock.Now().Sub(item.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ItemView is the projection of a found item served to a viewer. Sensitive
// fields are only populated at LevelFull.
type ItemView struct {
	UUID        string `json:"uuid"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	FoundAt     string `json:"found_at"`
	ClaimStatus string `json:"claim_status"`
	Visibility  string `json:"visibility"`
	CanClaim    bool   `json:"can_claim"`

	// Full-detail fields, finder and moderators only.
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Size        string `json:"size,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// View projects the item for the given visibility level.
func (e *Engine) View(item *models.FoundItem, level Level, viewer Viewer) ItemView {
	view := ItemView{
		UUID:        item.UUID,
		Title:       item.Title,
		Category:    item.Category,
		Location:    item.Location,
		FoundAt:     item.FoundAt.UTC().Format(time.RFC3339),
		ClaimStatus: item.ClaimStatus,
		Visibility:  level.String(),
		CanClaim:    e.canClaim(item, level, viewer),
	}
	if level == LevelFull {
		view.Description = item.Description
		view.Color = item.Color
		view.Size = item.Size
		view.ImageURL = item.ImageURL
	}
	return view
}

// GetItem returns the viewer's projection of one item, or ErrHidden.
func (e *Engine) GetItem(itemID uint, viewer Viewer) (*ItemView, error) {
	item, err := e.items.GetByID(itemID)
	if err != nil {
		return nil, ErrHidden
	}
	level, err := e.Visibility(item, viewer)
	if err != nil {
		return nil, err
	}
	if level == LevelHidden {
		return nil, ErrHidden
	}
	view := e.View(item, level, viewer)
	return &view, nil
}

// BrowseItems lists the items this viewer may see. Hidden items are removed
// server-side so private items never leak into listings.
func (e *Engine) BrowseItems(viewer Viewer, offset, limit int) ([]ItemView, error) {
	items, err := e.items.List(offset, limit)
	if err != nil {
		return nil, err
	}
	views := make([]ItemView, 0, len(items))
	for i := range items {
		level, err := e.Visibility(&items[i], viewer)
		if err != nil {
			return nil, err
		}
		if level == LevelHidden {
			continue
		}
		views = append(views, e.View(&items[i], level, viewer))
	}
	return views, nil
}

// canClaim reports whether this viewer may currently attempt a claim. The
// ledger stays open while the finder weighs potential claimers; only
// finalization or deletion closes it.
func (e *Engine) canClaim(item *models.FoundItem, level Level, viewer Viewer) bool {
	if level == LevelHidden {
		return false
	}
	if viewer.UserID != 0 && viewer.UserID == item.FinderID {
		return false
	}
	return item.Claimable()
}
