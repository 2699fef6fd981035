package claimengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceback-app/traceback/app/models"
)

const justification = "Answered every verification question correctly."

// markedItem seeds a public item with one verified attempt already marked as
// potential claimer. Returns the item and the attempt ID.
func (env *testEnv) markedItem(t *testing.T) (*models.FoundItem, uint) {
	t.Helper()
	item := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(item.ID, Claimant{
		UserID: 2, Name: "Carl", Email: "carl@campus.test", Phone: "+49111",
	}, correctAnswers(item))
	require.NoError(t, err)
	require.NoError(t, env.engine.MarkPotentialClaimer(item.ID, result.AttemptID, Viewer{UserID: 1}))
	return item, result.AttemptID
}

func TestMarkPotentialClaimer_TransitionsItem(t *testing.T) {
	env := newTestEnv(t)
	item, _ := env.markedItem(t)

	stored := env.store.items[item.ID]
	assert.Equal(t, models.ClaimStatusPotentialMarked, stored.ClaimStatus)
	require.NotNil(t, stored.PotentialClaimerMarkedAt)
	assert.Equal(t, env.clock.Now(), *stored.PotentialClaimerMarkedAt)
	assert.Equal(t, 1, env.notifier.marked)
}

func TestMarkPotentialClaimer_FinderOnly(t *testing.T) {
	env := newTestEnv(t)
	item := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(item.ID, Claimant{UserID: 2}, correctAnswers(item))
	require.NoError(t, err)

	assert.ErrorIs(t, env.engine.MarkPotentialClaimer(item.ID, result.AttemptID, Viewer{UserID: 2}), ErrNotFinder)
	assert.ErrorIs(t, env.engine.MarkPotentialClaimer(item.ID, result.AttemptID, Viewer{}), ErrNotFinder)
}

func TestMarkPotentialClaimer_AttemptMustBelongToItem(t *testing.T) {
	env := newTestEnv(t)
	item := env.publicItem(t, 1)
	other := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(other.ID, Claimant{UserID: 2}, correctAnswers(other))
	require.NoError(t, err)

	var vErr *ValidationError
	assert.ErrorAs(t, env.engine.MarkPotentialClaimer(item.ID, result.AttemptID, Viewer{UserID: 1}), &vErr)
	assert.ErrorAs(t, env.engine.MarkPotentialClaimer(item.ID, 9999, Viewer{UserID: 1}), &vErr)
}

func TestMarkPotentialClaimer_SecondMarkingKeepsWindowStart(t *testing.T) {
	env := newTestEnv(t)
	item, _ := env.markedItem(t)
	windowStart := *env.store.items[item.ID].PotentialClaimerMarkedAt

	env.clock.Advance(24 * time.Hour)
	second, err := env.engine.SubmitAttempt(item.ID, Claimant{UserID: 3}, correctAnswers(item))
	require.NoError(t, err)
	require.NoError(t, env.engine.MarkPotentialClaimer(item.ID, second.AttemptID, Viewer{UserID: 1}))

	// The earliest marking keeps owning the final-chance window.
	assert.Equal(t, windowStart, *env.store.items[item.ID].PotentialClaimerMarkedAt)
	assert.Equal(t, models.ClaimStatusPotentialMarked, env.store.items[item.ID].ClaimStatus)
}

func TestFinalize_BlockedUntilWindowElapses(t *testing.T) {
	env := newTestEnv(t)
	item, attemptID := env.markedItem(t)

	env.clock.Advance(env.engine.Config().FinalChanceWindow - time.Second)
	_, err := env.engine.Finalize(item.ID, attemptID, Viewer{UserID: 1}, justification)
	var wErr *WindowNotElapsedError
	require.ErrorAs(t, err, &wErr)
	assert.Equal(t, time.Second, wErr.Remaining)

	// At exactly the boundary the finalize goes through.
	env.clock.Advance(time.Second)
	claim, err := env.engine.Finalize(item.ID, attemptID, Viewer{UserID: 1}, justification)
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionClaimed, claim.ResolutionStatus)
}

func TestFinalize_DestroysItemAndArchives(t *testing.T) {
	env := newTestEnv(t)
	item, attemptID := env.markedItem(t)
	env.clock.Advance(env.engine.Config().FinalChanceWindow)

	claim, err := env.engine.Finalize(item.ID, attemptID, Viewer{UserID: 1}, justification)
	require.NoError(t, err)

	// The claim is born CLAIMED with both parties' contact snapshots.
	require.NotNil(t, claim.ResolvedAt)
	assert.Equal(t, "Frida Finder", claim.FinderName)
	assert.Equal(t, "frida@campus.test", claim.FinderEmail)
	assert.Equal(t, "Carl", claim.ClaimerName)
	assert.Equal(t, "carl@campus.test", claim.ClaimerEmail)
	assert.Equal(t, item.Title, claim.ItemTitle)
	assert.Equal(t, 1, env.notifier.finalized)

	// The archival record survives the item.
	require.Len(t, env.store.returns, 1)
	ret := env.store.returns[0]
	assert.Equal(t, claim.ID, ret.ClaimID)
	assert.Equal(t, "user:2", ret.ClaimantIdentity)
	assert.Equal(t, 6, ret.DaysToFinalize)

	// The item is gone for everyone, along with its ledger.
	_, err = env.engine.GetItem(item.ID, Viewer{UserID: 1})
	assert.ErrorIs(t, err, ErrHidden)
	_, err = env.engine.SubmitAttempt(item.ID, Claimant{UserID: 5}, correctAnswers(item))
	assert.ErrorIs(t, err, ErrHidden)
	assert.Empty(t, env.store.attempts)
}

func TestFinalize_Preconditions(t *testing.T) {
	env := newTestEnv(t)
	item := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(item.ID, Claimant{UserID: 2}, correctAnswers(item))
	require.NoError(t, err)

	// No marking yet: the item is still OPEN.
	_, err = env.engine.Finalize(item.ID, result.AttemptID, Viewer{UserID: 1}, justification)
	assert.ErrorIs(t, err, ErrWrongStatus)

	require.NoError(t, env.engine.MarkPotentialClaimer(item.ID, result.AttemptID, Viewer{UserID: 1}))
	env.clock.Advance(env.engine.Config().FinalChanceWindow)

	// Only the finder finalizes, moderators included in the refusal.
	_, err = env.engine.Finalize(item.ID, result.AttemptID, Viewer{UserID: 9, IsModerator: true}, justification)
	assert.ErrorIs(t, err, ErrNotFinder)

	// The chosen attempt must itself be marked as potential.
	late, err := env.engine.SubmitAttempt(item.ID, Claimant{UserID: 3}, correctAnswers(item))
	require.NoError(t, err)
	_, err = env.engine.Finalize(item.ID, late.AttemptID, Viewer{UserID: 1}, justification)
	assert.ErrorIs(t, err, ErrWrongStatus)

	// Justifications below the minimum length are rejected, whitespace ignored.
	var vErr *ValidationError
	_, err = env.engine.Finalize(item.ID, result.AttemptID, Viewer{UserID: 1}, "   ok    ")
	assert.ErrorAs(t, err, &vErr)
}

func TestFinalize_AfterAgreedClaimIsConflict(t *testing.T) {
	env := newTestEnv(t)
	item := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(item.ID, Claimant{UserID: 2}, correctAnswers(item))
	require.NoError(t, err)

	// The agreed path leaves the item OPEN, so marking and finalizing later
	// is still legal; the existing claim row has to surface as a typed
	// conflict, not a storage fault.
	_, err = env.engine.RecordAgreedClaim(item.ID, result.AttemptID, Viewer{UserID: 1}, justification)
	require.NoError(t, err)
	require.NoError(t, env.engine.MarkPotentialClaimer(item.ID, result.AttemptID, Viewer{UserID: 1}))
	env.clock.Advance(env.engine.Config().FinalChanceWindow)

	_, err = env.engine.Finalize(item.ID, result.AttemptID, Viewer{UserID: 1}, justification)
	assert.ErrorIs(t, err, ErrConflict)

	// The aborted transaction must leave the item and its ledger intact.
	_, err = env.engine.GetItem(item.ID, Viewer{UserID: 1})
	assert.NoError(t, err)
	attempts, err := env.engine.AttemptsForFinder(item.ID, Viewer{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
}

func TestRecordAgreedClaim_CreatesPendingClaim(t *testing.T) {
	env := newTestEnv(t)
	item := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(item.ID, Claimant{
		UserID: 2, Name: "Carl", Email: "carl@campus.test",
	}, correctAnswers(item))
	require.NoError(t, err)

	claim, err := env.engine.RecordAgreedClaim(item.ID, result.AttemptID, Viewer{UserID: 1}, justification)
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionPending, claim.ResolutionStatus)
	assert.Nil(t, claim.ResolvedAt)

	// The item itself is untouched by the agreed path.
	view, err := env.engine.GetItem(item.ID, Viewer{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusOpen, view.ClaimStatus)

	// One claim per item.
	_, err = env.engine.RecordAgreedClaim(item.ID, result.AttemptID, Viewer{UserID: 1}, justification)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestResolveClaim_ClaimedStartsDisclosure(t *testing.T) {
	env := newTestEnv(t)
	item := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(item.ID, Claimant{UserID: 2}, correctAnswers(item))
	require.NoError(t, err)
	claim, err := env.engine.RecordAgreedClaim(item.ID, result.AttemptID, Viewer{UserID: 1}, justification)
	require.NoError(t, err)

	res, err := env.engine.ResolveClaim(claim.ID, Viewer{UserID: 1}, models.ResolutionClaimed)
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionClaimed, res.Status)
	assert.False(t, res.ReportFailed)
	assert.Empty(t, env.store.reports)
	assert.Equal(t, 0, env.notifier.disputed)

	stored := env.store.claims[claim.ID]
	require.NotNil(t, stored.ResolvedAt)
	assert.Equal(t, env.clock.Now(), *stored.ResolvedAt)
}

func TestResolveClaim_NotClaimedFilesAbuseReportOnce(t *testing.T) {
	env := newTestEnv(t)
	item := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(item.ID, Claimant{UserID: 2, Name: "Carl"}, correctAnswers(item))
	require.NoError(t, err)
	claim, err := env.engine.RecordAgreedClaim(item.ID, result.AttemptID, Viewer{UserID: 1}, justification)
	require.NoError(t, err)

	res, err := env.engine.ResolveClaim(claim.ID, Viewer{UserID: 1}, models.ResolutionNotClaimed)
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionNotClaimed, res.Status)
	assert.Equal(t, 1, env.notifier.disputed)

	require.Len(t, env.store.reports, 1)
	report := env.store.reports[0]
	assert.Equal(t, "claim", report.TargetType)
	assert.Equal(t, claim.ID, report.TargetID)
	assert.Equal(t, models.ReportCategoryFalseClaim, report.Category)
	assert.Equal(t, models.ReportPriorityHigh, report.Priority)
	assert.True(t, report.AutoGenerated)
	assert.Nil(t, report.ReportedByID)

	// The transition is exactly-once: a second resolve fires no second report.
	_, err = env.engine.ResolveClaim(claim.ID, Viewer{UserID: 1}, models.ResolutionNotClaimed)
	assert.ErrorIs(t, err, ErrWrongStatus)
	assert.Len(t, env.store.reports, 1)
}

func TestResolveClaim_ReportFailureDoesNotRollBack(t *testing.T) {
	env := newTestEnv(t)
	item := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(item.ID, Claimant{UserID: 2}, correctAnswers(item))
	require.NoError(t, err)
	claim, err := env.engine.RecordAgreedClaim(item.ID, result.AttemptID, Viewer{UserID: 1}, justification)
	require.NoError(t, err)

	env.store.failReportCreate = true
	res, err := env.engine.ResolveClaim(claim.ID, Viewer{UserID: 1}, models.ResolutionNotClaimed)
	require.NoError(t, err)
	assert.True(t, res.ReportFailed)
	assert.Equal(t, models.ResolutionNotClaimed, env.store.claims[claim.ID].ResolutionStatus)
}

func TestResolveClaim_Authorization(t *testing.T) {
	env := newTestEnv(t)
	item := env.publicItem(t, 1)
	result, err := env.engine.SubmitAttempt(item.ID, Claimant{UserID: 2}, correctAnswers(item))
	require.NoError(t, err)
	claim, err := env.engine.RecordAgreedClaim(item.ID, result.AttemptID, Viewer{UserID: 1}, justification)
	require.NoError(t, err)

	_, err = env.engine.ResolveClaim(claim.ID, Viewer{UserID: 2}, models.ResolutionClaimed)
	assert.ErrorIs(t, err, ErrNotFinder, "the claimant cannot resolve")

	var vErr *ValidationError
	_, err = env.engine.ResolveClaim(claim.ID, Viewer{UserID: 1}, "MAYBE")
	assert.ErrorAs(t, err, &vErr)

	// Moderators may resolve on the finder's behalf.
	res, err := env.engine.ResolveClaim(claim.ID, Viewer{UserID: 9, IsModerator: true}, models.ResolutionClaimed)
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionClaimed, res.Status)
}

func TestWithdraw(t *testing.T) {
	env := newTestEnv(t)

	open := env.publicItem(t, 1)
	_, err := env.engine.SubmitAttempt(open.ID, Claimant{UserID: 2}, correctAnswers(open))
	require.NoError(t, err)

	assert.ErrorIs(t, env.engine.Withdraw(open.ID, Viewer{UserID: 2}), ErrNotFinder)
	require.NoError(t, env.engine.Withdraw(open.ID, Viewer{UserID: 1}))
	_, err = env.engine.GetItem(open.ID, Viewer{UserID: 1})
	assert.ErrorIs(t, err, ErrHidden)
	assert.Empty(t, env.store.attempts, "withdrawal destroys the ledger")

	// Moderators may withdraw items in either pre-final status.
	marked, _ := env.markedItem(t)
	require.NoError(t, env.engine.Withdraw(marked.ID, Viewer{UserID: 9, IsModerator: true}))

	assert.ErrorIs(t, env.engine.Withdraw(marked.ID, Viewer{UserID: 1}), ErrHidden)
}
