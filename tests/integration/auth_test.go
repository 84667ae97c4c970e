//go:build integration
// +build integration

package integration

import (
	"net/http"
	"testing"
)

func TestSignupAndProfile(t *testing.T) {
	user := signup(t, uniqueEmail("signup"), "testpassword123", "Signup Tester")

	var profile struct {
		UserID      string   `json:"user_id"`
		ResumeScore int      `json:"resume_score"`
		Jobs        []string `json:"jobs"`
	}
	decode(t, doJSON(t, http.MethodGet, baseURL()+"/v1/users/me", user.AccessToken, nil), http.StatusOK, &profile)

	if profile.UserID != user.ID {
		t.Fatalf("profile user %s, want %s", profile.UserID, user.ID)
	}
	if profile.ResumeScore != 70 {
		t.Fatalf("default resume score %d, want 70", profile.ResumeScore)
	}
	if len(profile.Jobs) != 2 {
		t.Fatalf("default jobs %v", profile.Jobs)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	email := uniqueEmail("dup")
	_ = signup(t, email, "testpassword123", "First")

	var body errorBody
	resp := doJSON(t, http.MethodPost, baseURL()+"/v1/auth/signup", "", map[string]string{
		"email": email, "password": "testpassword123", "name": "Second",
	})
	decode(t, resp, http.StatusConflict, &body)
	if body.Error != "already_exists" {
		t.Fatalf("error code %q", body.Error)
	}
}

func TestLoginFlow(t *testing.T) {
	email := uniqueEmail("login")
	_ = signup(t, email, "testpassword123", "Login Tester")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	resp := doJSON(t, http.MethodPost, baseURL()+"/v1/auth/login", "", map[string]string{
		"email": email, "password": "testpassword123",
	})
	decode(t, resp, http.StatusOK, &out)
	if out.AccessToken == "" {
		t.Fatal("login returned empty access token")
	}

	resp = doJSON(t, http.MethodPost, baseURL()+"/v1/auth/login", "", map[string]string{
		"email": email, "password": "wrong-password",
	})
	decode(t, resp, http.StatusUnauthorized, nil)
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	user := signup(t, uniqueEmail("refresh"), "testpassword123", "Refresh Tester")

	var pair struct {
		RefreshToken string `json:"refresh_token"`
	}
	resp := doJSON(t, http.MethodPost, baseURL()+"/v1/auth/refresh", "", map[string]string{"refresh_token": user.RefreshToken})
	decode(t, resp, http.StatusOK, &pair)

	// The rotated-out token is dead.
	resp = doJSON(t, http.MethodPost, baseURL()+"/v1/auth/refresh", "", map[string]string{"refresh_token": user.RefreshToken})
	decode(t, resp, http.StatusUnauthorized, nil)

	resp = doJSON(t, http.MethodPost, baseURL()+"/v1/auth/logout", "", map[string]string{"refresh_token": pair.RefreshToken})
	decode(t, resp, http.StatusNoContent, nil)

	resp = doJSON(t, http.MethodPost, baseURL()+"/v1/auth/refresh", "", map[string]string{"refresh_token": pair.RefreshToken})
	decode(t, resp, http.StatusUnauthorized, nil)
}

func TestUpdateProfile(t *testing.T) {
	user := signup(t, uniqueEmail("profile"), "testpassword123", "Profile Tester")

	var profile struct {
		ResumeScore int      `json:"resume_score"`
		Jobs        []string `json:"jobs"`
	}
	resp := doJSON(t, http.MethodPatch, baseURL()+"/v1/users/me", user.AccessToken, map[string]interface{}{
		"resume_score": 88,
		"jobs":         []string{"Platform Engineer"},
	})
	decode(t, resp, http.StatusOK, &profile)
	if profile.ResumeScore != 88 || len(profile.Jobs) != 1 || profile.Jobs[0] != "Platform Engineer" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	resp = doJSON(t, http.MethodPatch, baseURL()+"/v1/users/me", user.AccessToken, map[string]interface{}{"resume_score": 101})
	decode(t, resp, http.StatusBadRequest, nil)
}

func TestProfileRequiresAuth(t *testing.T) {
	decode(t, doJSON(t, http.MethodGet, baseURL()+"/v1/users/me", "", nil), http.StatusUnauthorized, nil)
	decode(t, doJSON(t, http.MethodGet, baseURL()+"/v1/users/me", "not-a-token", nil), http.StatusUnauthorized, nil)
}
