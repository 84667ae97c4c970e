//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

const quizID = "career-fundamentals"

// correctAnswers maps each question of the seeded quiz to its correct option.
var correctAnswers = map[string]string{"q1": "q1b", "q2": "q2c", "q3": "q3c"}

type registeredUser struct {
	ID           string
	Email        string
	AccessToken  string
	RefreshToken string
}

type sessionView struct {
	SessionID      string `json:"session_id"`
	QuizID         string `json:"quiz_id"`
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
	Question       struct {
		ID      string `json:"id"`
		Options []struct {
			ID string `json:"id"`
		} `json:"options"`
	} `json:"question"`
	SelectedOptionID string `json:"selected_option_id"`
	Answered         bool   `json:"answered"`
	Score            int    `json:"score"`
	Completed        bool   `json:"completed"`
	Changed          bool   `json:"changed"`
	Result           *struct {
		FinalPercent int    `json:"final_percent"`
		Tier         string `json:"tier"`
	} `json:"result"`
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// doJSON sends payload (if any) and returns the response; token may be empty.
func doJSON(t *testing.T, method, url, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, wantStatus int, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, wantStatus, raw)
	}
	if dst == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func signup(t *testing.T, email, password, name string) registeredUser {
	t.Helper()

	var out struct {
		User struct {
			ID string `json:"user_id"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	resp := doJSON(t, http.MethodPost, baseURL()+"/v1/auth/signup", "", map[string]string{
		"email": email, "password": password, "name": name,
	})
	decode(t, resp, http.StatusCreated, &out)

	if out.AccessToken == "" || out.RefreshToken == "" {
		t.Fatal("signup returned empty tokens")
	}
	return registeredUser{ID: out.User.ID, Email: email, AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
}

func startSession(t *testing.T, token string) sessionView {
	t.Helper()
	var view sessionView
	decode(t, doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/quizzes/%s/sessions", baseURL(), quizID), token, nil), http.StatusCreated, &view)
	return view
}

func sessionEvent(t *testing.T, sessionID, action string, payload interface{}) sessionView {
	t.Helper()
	var view sessionView
	decode(t, doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/sessions/%s/%s", baseURL(), sessionID, action), "", payload), http.StatusOK, &view)
	return view
}

func answer(t *testing.T, sessionID, optionID string) sessionView {
	t.Helper()
	sessionEvent(t, sessionID, "select", map[string]string{"option_id": optionID})
	return sessionEvent(t, sessionID, "check", nil)
}
