package claimengine

import (
	"errors"
	"fmt"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/app/repository"
)

// AttemptResult is what a claimant learns about their own attempt.
type AttemptResult struct {
	AttemptID        uint    `json:"attempt_id"`
	IsVerified       bool    `json:"is_verified"`
	CorrectnessRatio float64 `json:"correctness_ratio"`
	CorrectAnswers   int     `json:"correct_answers"`
	TotalQuestions   int     `json:"total_questions"`
}

// scoreAnswers computes correct/total over the item's questions. A submission
// must answer every question; stray or out-of-range answers are rejected.
func scoreAnswers(questions []models.SecurityQuestion, answers models.AnswerSet) (correct int, err error) {
	if len(answers) > len(questions) {
		return 0, &ValidationError{Reason: "answers reference unknown questions"}
	}
	for _, q := range questions {
		choice, ok := answers[q.ID]
		if !ok {
			return 0, ErrIncompleteAnswers
		}
		if choice < 0 || choice >= len(q.Choices) {
			return 0, &ValidationError{Reason: fmt.Sprintf("answer for question %d is out of range", q.ID)}
		}
		if choice == q.CorrectIdx {
			correct++
		}
	}
	return correct, nil
}

// SubmitAttempt records a claimant's single, immutable attempt at the item's
// verification questions and scores it. Verification does not advance the
// item's claim status; only the finder does that via arbitration.
func (e *Engine) SubmitAttempt(itemID uint, claimant Claimant, answers models.AnswerSet) (*AttemptResult, error) {
	item, err := e.items.GetWithQuestions(itemID)
	if err != nil {
		return nil, ErrHidden
	}

	level, err := e.Visibility(item, Viewer{UserID: claimant.UserID, Email: claimant.Email})
	if err != nil {
		return nil, err
	}
	if level == LevelHidden {
		return nil, ErrHidden
	}
	if !item.Claimable() {
		return nil, ErrNotClaimable
	}
	if claimant.UserID != 0 && claimant.UserID == item.FinderID {
		return nil, ErrSelfClaim
	}
	if claimant.UserID == 0 && claimant.AnonToken == "" {
		return nil, &ValidationError{Reason: "anonymous claimants need a stable token"}
	}

	correct, err := scoreAnswers(item.Questions, answers)
	if err != nil {
		return nil, err
	}
	total := len(item.Questions)
	ratio := float64(correct) / float64(total)

	attempt := &models.ClaimAttempt{
		FoundItemID:      item.ID,
		ClaimantIdentity: claimant.Identity(),
		ClaimantUserID:   claimant.userIDPtr(),
		ClaimantName:     claimant.Name,
		ClaimantEmail:    claimant.Email,
		ClaimantPhone:    claimant.Phone,
		Answers:          answers,
		CorrectnessRatio: ratio,
		IsVerified:       ratio >= e.cfg.VerifyThreshold,
		SubmittedAt:      e.clock.Now(),
	}

	// The unique index is the arbiter under concurrency: two racing submits
	// for the same pair both reach this point, one row wins.
	if err := e.attempts.Create(attempt); err != nil {
		if errors.Is(err, repository.ErrDuplicateAttempt) {
			return nil, ErrAlreadyAttempted
		}
		return nil, err
	}

	if attempt.IsVerified && e.notifier != nil {
		e.notifier.AttemptVerified(item, attempt)
	}

	return &AttemptResult{
		AttemptID:        attempt.ID,
		IsVerified:       attempt.IsVerified,
		CorrectnessRatio: ratio,
		CorrectAnswers:   correct,
		TotalQuestions:   total,
	}, nil
}

// AttemptsForFinder lists all attempts on an item for its finder (or a
// moderator), the view used to pick potential claimers.
func (e *Engine) AttemptsForFinder(itemID uint, actor Viewer) ([]models.ClaimAttempt, error) {
	item, err := e.items.GetByID(itemID)
	if err != nil {
		return nil, ErrHidden
	}
	if !actor.IsModerator && actor.UserID != item.FinderID {
		return nil, ErrNotFinder
	}
	return e.attempts.ListByItem(itemID)
}

// AttemptsForClaimant lists the claimant's own attempts across items.
func (e *Engine) AttemptsForClaimant(claimant Claimant) ([]models.ClaimAttempt, error) {
	return e.attempts.ListByClaimant(claimant.Identity())
}
