package session

import "github.com/gokatarajesh/skill-horizon/internal/quiz"

// OptionView is an answer choice without its correctness.
type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionView is the current question as shown to the user.
type QuestionView struct {
	ID      string       `json:"id"`
	Prompt  string       `json:"prompt"`
	Options []OptionView `json:"options"`
}

// Feedback is revealed once the answer is locked in.
type Feedback struct {
	Correct         bool   `json:"correct"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Explanation     string `json:"explanation"`
	CorrectOptionID string `json:"correct_option_id"`
}

// Result is the summary shown after the last question.
type Result struct {
	Score        int    `json:"score"`
	Total        int    `json:"total"`
	FinalPercent int    `json:"final_percent"`
	Tier         string `json:"tier"`
	Message      string `json:"message"`
}

// View is everything a client needs to render a session.
type View struct {
	SessionID        string       `json:"session_id"`
	QuizID           string       `json:"quiz_id"`
	QuizTitle        string       `json:"quiz_title"`
	QuestionNumber   int          `json:"question_number"`
	TotalQuestions   int          `json:"total_questions"`
	Question         QuestionView `json:"question"`
	SelectedOptionID string       `json:"selected_option_id,omitempty"`
	Answered         bool         `json:"answered"`
	Feedback         *Feedback    `json:"feedback,omitempty"`
	Score            int          `json:"score"`
	ProgressPercent  int          `json:"progress_percent"`
	Completed        bool         `json:"completed"`
	Result           *Result      `json:"result,omitempty"`
	// Changed reports whether the event that produced this view moved the state.
	Changed bool `json:"changed"`
}

func buildView(rec Record, e *quiz.Engine, changed bool) View {
	def := e.Definition()
	snap := e.Snapshot()
	q := e.CurrentQuestion()

	options := make([]OptionView, len(q.Options))
	for i, o := range q.Options {
		options[i] = OptionView{ID: o.ID, Text: o.Text}
	}

	v := View{
		SessionID:        rec.ID.String(),
		QuizID:           def.ID,
		QuizTitle:        def.Title,
		QuestionNumber:   snap.CurrentIndex + 1,
		TotalQuestions:   snap.TotalQuestions,
		Question:         QuestionView{ID: q.ID, Prompt: q.Prompt, Options: options},
		SelectedOptionID: snap.SelectedOptionID,
		Answered:         snap.Answered,
		Score:            snap.Score,
		ProgressPercent:  snap.ProgressPercent,
		Completed:        snap.Completed,
		Changed:          changed,
	}

	if snap.Answered {
		correct := e.LastAnswerCorrect()
		title, desc := quiz.AnswerFeedback(correct)
		v.Feedback = &Feedback{
			Correct:         correct,
			Title:           title,
			Description:     desc,
			Explanation:     q.Explanation,
			CorrectOptionID: q.CorrectOption().ID,
		}
	}

	if snap.Completed {
		v.Result = &Result{
			Score:        snap.Score,
			Total:        snap.TotalQuestions,
			FinalPercent: snap.FinalPercent,
			Tier:         snap.Tier,
			Message:      quiz.FeedbackMessage(snap.Tier),
		}
	}
	return v
}
