//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAnonymousSessionFlow(t *testing.T) {
	view := startSession(t, "")
	if view.QuestionNumber != 1 || view.TotalQuestions != 3 || view.Score != 0 {
		t.Fatalf("unexpected initial view %+v", view)
	}

	// Checking before a selection is a no-op.
	if v := sessionEvent(t, view.SessionID, "check", nil); v.Changed || v.Answered {
		t.Fatalf("check without selection changed state: %+v", v)
	}

	view = answer(t, view.SessionID, "q1a")
	if !view.Answered || view.Score != 0 {
		t.Fatalf("wrong answer scored: %+v", view)
	}
	view = sessionEvent(t, view.SessionID, "next", nil)
	view = answer(t, view.SessionID, correctAnswers["q2"])
	view = sessionEvent(t, view.SessionID, "next", nil)
	view = answer(t, view.SessionID, correctAnswers["q3"])
	view = sessionEvent(t, view.SessionID, "next", nil)

	if !view.Completed || view.Result == nil {
		t.Fatalf("expected completion: %+v", view)
	}
	if view.Result.FinalPercent != 67 || view.Result.Tier != "good" {
		t.Fatalf("unexpected result %+v", view.Result)
	}

	// Further next events leave the completed session untouched.
	if again := sessionEvent(t, view.SessionID, "next", nil); again.Changed || !again.Completed {
		t.Fatalf("next after completion changed state: %+v", again)
	}

	view = sessionEvent(t, view.SessionID, "restart", nil)
	if view.Completed || view.QuestionNumber != 1 || view.Score != 0 {
		t.Fatalf("restart did not reset: %+v", view)
	}
}

func TestSignedInSessionRecordsAttemptAndLeaderboard(t *testing.T) {
	user := signup(t, uniqueEmail("player"), "testpassword123", "Perfect Player")

	view := startSession(t, user.AccessToken)
	for i := 0; i < view.TotalQuestions; i++ {
		current := sessionEvent(t, view.SessionID, "select", map[string]string{"option_id": correctAnswers[fmt.Sprintf("q%d", i+1)]})
		sessionEvent(t, current.SessionID, "check", nil)
		view = sessionEvent(t, current.SessionID, "next", nil)
	}
	if !view.Completed || view.Result.FinalPercent != 100 {
		t.Fatalf("expected a perfect completion: %+v", view)
	}

	var history struct {
		Attempts []struct {
			QuizID       string `json:"quiz_id"`
			FinalPercent int    `json:"final_percent"`
		} `json:"attempts"`
	}
	decode(t, doJSON(t, http.MethodGet, baseURL()+"/v1/users/me/attempts", user.AccessToken, nil), http.StatusOK, &history)
	if len(history.Attempts) != 1 || history.Attempts[0].FinalPercent != 100 {
		t.Fatalf("expected exactly one recorded attempt, got %+v", history.Attempts)
	}

	var board struct {
		Top []struct {
			UserID      string `json:"user_id"`
			DisplayName string `json:"display_name"`
			BestPercent int    `json:"best_percent"`
		} `json:"top"`
	}
	decode(t, doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/quizzes/%s/leaderboard?limit=100", baseURL(), quizID), "", nil), http.StatusOK, &board)

	found := false
	for _, entry := range board.Top {
		if entry.UserID == user.ID {
			found = true
			if entry.BestPercent != 100 || entry.DisplayName != "Perfect Player" {
				t.Fatalf("unexpected leaderboard entry %+v", entry)
			}
		}
	}
	if !found {
		t.Fatalf("user %s missing from leaderboard", user.ID)
	}
}

func TestQuizCatalog(t *testing.T) {
	var list struct {
		Quizzes []struct {
			ID            string `json:"id"`
			QuestionCount int    `json:"question_count"`
		} `json:"quizzes"`
	}
	decode(t, doJSON(t, http.MethodGet, baseURL()+"/v1/quizzes", "", nil), http.StatusOK, &list)

	for _, q := range list.Quizzes {
		if q.ID == quizID {
			if q.QuestionCount != 3 {
				t.Fatalf("question count %d", q.QuestionCount)
			}
			return
		}
	}
	t.Fatalf("%s not listed", quizID)
}
