package claimengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traceback-app/traceback/app/models"
)

func TestValidateQuestions(t *testing.T) {
	env := newTestEnv(t)
	valid := func(n int) []QuestionInput {
		questions := make([]QuestionInput, 0, n)
		for i := 0; i < n; i++ {
			questions = append(questions, QuestionInput{
				Text:       "Question?",
				Choices:    []string{"A", "B", "C"},
				CorrectIdx: 1,
			})
		}
		return questions
	}

	tests := []struct {
		name      string
		questions []QuestionInput
		wantErr   bool
	}{
		{"minimum two questions", valid(2), false},
		{"maximum five questions", valid(5), false},
		{"one question is too few", valid(1), true},
		{"six questions is too many", valid(6), true},
		{"empty text", []QuestionInput{
			{Text: "  ", Choices: []string{"A", "B"}, CorrectIdx: 0},
			{Text: "ok?", Choices: []string{"A", "B"}, CorrectIdx: 0},
		}, true},
		{"single choice", []QuestionInput{
			{Text: "ok?", Choices: []string{"A"}, CorrectIdx: 0},
			{Text: "ok?", Choices: []string{"A", "B"}, CorrectIdx: 0},
		}, true},
		{"five choices", []QuestionInput{
			{Text: "ok?", Choices: []string{"A", "B", "C", "D", "E"}, CorrectIdx: 0},
			{Text: "ok?", Choices: []string{"A", "B"}, CorrectIdx: 0},
		}, true},
		{"duplicate choices", []QuestionInput{
			{Text: "ok?", Choices: []string{"A", "A"}, CorrectIdx: 0},
			{Text: "ok?", Choices: []string{"A", "B"}, CorrectIdx: 0},
		}, true},
		{"blank choice", []QuestionInput{
			{Text: "ok?", Choices: []string{"A", " "}, CorrectIdx: 0},
			{Text: "ok?", Choices: []string{"A", "B"}, CorrectIdx: 0},
		}, true},
		{"correct index out of range", []QuestionInput{
			{Text: "ok?", Choices: []string{"A", "B"}, CorrectIdx: 2},
			{Text: "ok?", Choices: []string{"A", "B"}, CorrectIdx: 0},
		}, true},
		{"negative correct index", []QuestionInput{
			{Text: "ok?", Choices: []string{"A", "B"}, CorrectIdx: -1},
			{Text: "ok?", Choices: []string{"A", "B"}, CorrectIdx: 0},
		}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := env.engine.ValidateQuestions(tc.questions)
			if tc.wantErr {
				var vErr *ValidationError
				assert.ErrorAs(t, err, &vErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateFoundItem_RejectsBadQuestions(t *testing.T) {
	env := newTestEnv(t)
	item := &models.FoundItem{
		FinderID: 1,
		Title:    "Umbrella",
		Category: "accessory",
		Location: "cafeteria",
		FoundAt:  env.clock.Now(),
	}
	err := env.engine.CreateFoundItem(item, []QuestionInput{
		{Text: "Only one?", Choices: []string{"A", "B"}, CorrectIdx: 0},
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, item.ID)
}

func TestIssueQuestions_StripsCorrectChoice(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, 1)
	env.clock.Advance(env.engine.Config().PrivacyWindow)

	issued, err := env.engine.IssueQuestions(item.ID, Viewer{UserID: 2})
	require.NoError(t, err)
	require.Len(t, issued, 3)
	for i, q := range issued {
		assert.NotZero(t, q.ID)
		assert.Equal(t, item.Questions[i].Text, q.Text)
		assert.Equal(t, []string(item.Questions[i].Choices), q.Choices)
	}
}

func TestIssueQuestions_GatedByVisibility(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedItem(t, 1)

	_, err := env.engine.IssueQuestions(item.ID, Viewer{UserID: 2})
	assert.ErrorIs(t, err, ErrHidden)

	// The finder sees the questions even inside the privacy window.
	issued, err := env.engine.IssueQuestions(item.ID, Viewer{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, issued, 3)
}
