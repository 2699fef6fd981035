package claimengine

import (
	"fmt"
	"strings"

	"github.com/traceback-app/traceback/app/models"
)

// QuestionInput is the finder-authored content of one verification question.
type QuestionInput struct {
	Text       string   `json:"text"`
	Choices    []string `json:"choices"`
	CorrectIdx int      `json:"correct_idx"`
}

// ValidateQuestions checks the finder's question set at item creation time.
// Questions are immutable afterwards, so this is the only gate.
func (e *Engine) ValidateQuestions(questions []QuestionInput) error {
	if len(questions) < e.cfg.MinQuestions || len(questions) > e.cfg.MaxQuestions {
		return &ValidationError{Reason: fmt.Sprintf("between %d and %d questions required, got %d",
			e.cfg.MinQuestions, e.cfg.MaxQuestions, len(questions))}
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return &ValidationError{Reason: fmt.Sprintf("question %d has empty text", i+1)}
		}
		if len(q.Choices) < e.cfg.MinChoices || len(q.Choices) > e.cfg.MaxChoices {
			return &ValidationError{Reason: fmt.Sprintf("question %d needs %d to %d choices, got %d",
				i+1, e.cfg.MinChoices, e.cfg.MaxChoices, len(q.Choices))}
		}
		seen := make(map[string]bool, len(q.Choices))
		for _, choice := range q.Choices {
			trimmed := strings.TrimSpace(choice)
			if trimmed == "" {
				return &ValidationError{Reason: fmt.Sprintf("question %d has an empty choice", i+1)}
			}
			if seen[trimmed] {
				return &ValidationError{Reason: fmt.Sprintf("question %d has duplicate choice %q", i+1, trimmed)}
			}
			seen[trimmed] = true
		}
		if q.CorrectIdx < 0 || q.CorrectIdx >= len(q.Choices) {
			return &ValidationError{Reason: fmt.Sprintf("question %d has correct choice out of range", i+1)}
		}
	}
	return nil
}

// CreateFoundItem validates and stores a new found item together with its
// security questions in one write.
func (e *Engine) CreateFoundItem(item *models.FoundItem, questions []QuestionInput) error {
	if err := item.Validate(); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	if err := e.ValidateQuestions(questions); err != nil {
		return err
	}

	item.ClaimStatus = models.ClaimStatusOpen
	item.Questions = make([]models.SecurityQuestion, 0, len(questions))
	for _, q := range questions {
		item.Questions = append(item.Questions, models.SecurityQuestion{
			Text:       strings.TrimSpace(q.Text),
			Choices:    models.Choices(q.Choices),
			CorrectIdx: q.CorrectIdx,
		})
	}
	return e.items.Create(item)
}

// IssuedQuestion is a security question as served to claimants: the correct
// choice is stripped before it ever leaves the engine.
type IssuedQuestion struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

// IssueQuestions returns the item's questions for a claimant, gated by
// visibility and claimability.
func (e *Engine) IssueQuestions(itemID uint, viewer Viewer) ([]IssuedQuestion, error) {
	item, err := e.items.GetWithQuestions(itemID)
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
	if !item.Claimable() {
		return nil, ErrNotClaimable
	}

	issued := make([]IssuedQuestion, 0, len(item.Questions))
	for _, q := range item.Questions {
		issued = append(issued, IssuedQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Choices: q.Choices,
		})
	}
	return issued, nil
}
