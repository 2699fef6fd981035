// Package claimengine implements the found-item ownership claim and
// arbitration engine: who may see an item, who may attempt to prove
// ownership, how attempts are scored, how the finder arbitrates competing
// claims, and how contact details are disclosed and withdrawn again.
//
// All state transitions are forward only and evaluated lazily against an
// injected clock; there are no background sweeps.
package claimengine

import (
	"fmt"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/app/repository"
	"github.com/traceback-app/traceback/internal/pkg/clock"
)

// Notifier receives claim lifecycle events. Implementations must be
// best-effort: a failed notification never blocks or rolls back a
// transition, so the methods do not return errors.
type Notifier interface {
	AttemptVerified(item *models.FoundItem, attempt *models.ClaimAttempt)
	PotentialClaimerMarked(item *models.FoundItem, attempt *models.ClaimAttempt)
	ClaimFinalized(claim *models.Claim)
	ClaimDisputed(claim *models.Claim)
}

// Deps bundles everything the engine needs. Notifier may be nil.
type Deps struct {
	Items    repository.FoundItemRepository
	Attempts repository.ClaimAttemptRepository
	Claims   repository.ClaimRepository
	Lost     repository.LostItemRepository
	Reports  repository.AbuseReportRepository
	Notifier Notifier
}

// Engine executes the claim protocol on top of the repositories.
type Engine struct {
	cfg      Config
	clock    clock.Clock
	items    repository.FoundItemRepository
	attempts repository.ClaimAttemptRepository
	claims   repository.ClaimRepository
	lost     repository.LostItemRepository
	reports  repository.AbuseReportRepository
	notifier Notifier
}

// New creates a claim engine.
func New(cfg Config, clk clock.Clock, deps Deps) *Engine {
	return &Engine{
		cfg:      cfg,
		clock:    clk,
		items:    deps.Items,
		attempts: deps.Attempts,
		claims:   deps.Claims,
		lost:     deps.Lost,
		reports:  deps.Reports,
		notifier: deps.Notifier,
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Viewer identifies who is looking. A zero Viewer is an anonymous guest.
type Viewer struct {
	UserID      uint
	Email       string
	IsModerator bool
}

// Claimant identifies who is attempting to prove ownership. Authenticated
// claimants carry a UserID; guests carry a stable anonymous token instead.
// The contact fields are snapshotted into the attempt so they survive the
// item's eventual destruction.
type Claimant struct {
	UserID    uint
	AnonToken string
	Name      string
	Email     string
	Phone     string
}

// Identity returns the stable ledger identity for this claimant.
func (c Claimant) Identity() string {
	if c.UserID != 0 {
		return fmt.Sprintf("user:%d", c.UserID)
	}
	return "anon:" + c.AnonToken
}

func (c Claimant) userIDPtr() *uint {
	if c.UserID == 0 {
		return nil
	}
	id := c.UserID
	return &id
}
