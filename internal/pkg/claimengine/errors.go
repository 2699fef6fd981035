package claimengine

import (
	"errors"
	"fmt"
	"time"
)

// All engine errors are recoverable and typed; controllers translate them
// into HTTP responses. Nothing here is ever treated as a fault.
var (
	// ErrHidden means the item is not visible to this viewer, or does not
	// exist anymore. The two cases are deliberately indistinguishable.
	ErrHidden = errors.New("item is not visible")

	// ErrNotClaimable means the item exists and is visible but no longer
	// accepts claim attempts.
	ErrNotClaimable = errors.New("item is not accepting claim attempts")

	ErrAlreadyAttempted  = errors.New("claimant has already attempted this item")
	ErrSelfClaim         = errors.New("finders cannot claim their own items")
	ErrIncompleteAnswers = errors.New("every question must be answered")

	// ErrWrongStatus covers every illegal state transition.
	ErrWrongStatus = errors.New("operation is not legal in the current status")

	// ErrNotFinder means the actor is not the item's finder; arbitration
	// transitions are finder-only.
	ErrNotFinder = errors.New("only the finder may perform this action")

	// ErrNotParty means the viewer is neither finder nor claimer of a claim.
	ErrNotParty = errors.New("viewer is not a party to this claim")

	// ErrWithheld means the contact disclosure window has closed. Contact
	// values still exist but are no longer served.
	ErrWithheld = errors.New("contact details are withheld")

	// ErrConflict signals a concurrent-write race; callers may retry.
	ErrConflict = errors.New("conflicting concurrent update, retry")
)

// WindowNotElapsedError rejects a finalize call made before the final-chance
// window has run out. Remaining lets the UI render a countdown instead of a
// generic failure.
type WindowNotElapsedError struct {
	Remaining time.Duration
}

func (e *WindowNotElapsedError) Error() string {
	return fmt.Sprintf("final-chance window has not elapsed, %s remaining", e.Remaining)
}

// ValidationError reports malformed input: bad questions, stray answers,
// too-short justifications.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}
