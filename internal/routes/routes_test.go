package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hackmatch/team-platform/internal/config"
	"github.com/hackmatch/team-platform/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiration: 1,
		AppName:       "HackMatch",
		ExportDir:     "./exports",
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func registerUser(t *testing.T, router *gin.Engine, email, name string) (token, id string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     email,
		"password":  "supersecret",
		"full_name": name,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}
	body := decode(t, w)
	token, _ = body["token"].(string)
	user, _ := body["user"].(map[string]any)
	id, _ = user["id"].(string)
	if token == "" || id == "" {
		t.Fatalf("register %s: incomplete response %v", email, body)
	}
	return token, id
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.SetupTestDB(t)
	router := SetupRouter(testConfig())

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	body := decode(t, w)
	if body["db_connected"] != true {
		t.Errorf("db_connected = %v, want true", body["db_connected"])
	}
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.SetupTestDB(t)
	router := SetupRouter(testConfig())

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated /me status = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token /me status = %d, want 401", w.Code)
	}
}

func TestJoinTeamFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.SetupTestDB(t)
	router := SetupRouter(testConfig())

	captainToken, _ := registerUser(t, router, "captain@example.com", "Captain")
	applicantToken, _ := registerUser(t, router, "applicant@example.com", "Applicant")

	// Event
	now := time.Now()
	w := doJSON(t, router, http.MethodPost, "/api/hackathons", captainToken, gin.H{
		"title":                 "Spring Hack",
		"start_date":            now.Add(7 * 24 * time.Hour),
		"end_date":              now.Add(9 * 24 * time.Hour),
		"registration_deadline": now.Add(6 * 24 * time.Hour),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create hackathon: status %d body %s", w.Code, w.Body.String())
	}
	hackathonID := decode(t, w)["hackathon"].(map[string]any)["id"].(string)

	// Team
	w = doJSON(t, router, http.MethodPost, "/api/teams", captainToken, gin.H{
		"name":         "Compilers",
		"hackathon_id": hackathonID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create team: status %d body %s", w.Code, w.Body.String())
	}
	teamID := decode(t, w)["team"].(map[string]any)["id"].(string)

	// Applicant knocks
	w = doJSON(t, router, http.MethodPost, "/api/teams/"+teamID+"/join", applicantToken, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("join: status %d body %s", w.Code, w.Body.String())
	}
	requestID := decode(t, w)["request"].(map[string]any)["id"].(string)

	// Only the captain sees the queue
	w = doJSON(t, router, http.MethodGet, "/api/teams/"+teamID+"/requests", applicantToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("applicant listing requests: status %d, want 403", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/teams/"+teamID+"/requests", captainToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("captain listing requests: status %d body %s", w.Code, w.Body.String())
	}

	// Captain accepts
	respondPath := fmt.Sprintf("/api/teams/%s/requests/%s/respond", teamID, requestID)
	w = doJSON(t, router, http.MethodPost, respondPath, captainToken, gin.H{"action": "accept"})
	if w.Code != http.StatusOK {
		t.Fatalf("respond: status %d body %s", w.Code, w.Body.String())
	}

	// A second accept must report the terminal status
	w = doJSON(t, router, http.MethodPost, respondPath, captainToken, gin.H{"action": "accept"})
	if w.Code != http.StatusConflict {
		t.Errorf("second accept: status %d, want 409", w.Code)
	}
	if body := decode(t, w); body["current_status"] != "accepted" {
		t.Errorf("second accept body = %v, want current_status accepted", body)
	}

	// Roster shows both members
	w = doJSON(t, router, http.MethodGet, "/api/teams/"+teamID, captainToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get team: status %d", w.Code)
	}
	members := decode(t, w)["members"].([]any)
	if len(members) != 2 {
		t.Errorf("roster size = %d, want 2", len(members))
	}
}

func TestRecommendationEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.SetupTestDB(t)
	router := SetupRouter(testConfig())

	captainToken, _ := registerUser(t, router, "cap@example.com", "Cap")
	seekerToken, _ := registerUser(t, router, "seeker@example.com", "Seeker")

	now := time.Now()
	w := doJSON(t, router, http.MethodPost, "/api/hackathons", captainToken, gin.H{
		"title":                 "Recommender Hack",
		"start_date":            now.Add(7 * 24 * time.Hour),
		"end_date":              now.Add(9 * 24 * time.Hour),
		"registration_deadline": now.Add(6 * 24 * time.Hour),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create hackathon: %d", w.Code)
	}
	hackathonID := decode(t, w)["hackathon"].(map[string]any)["id"].(string)

	w = doJSON(t, router, http.MethodPost, "/api/teams", captainToken, gin.H{
		"name":         "Hosts",
		"hackathon_id": hackathonID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create team: %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/recommendations", seekerToken, gin.H{
		"for_what":     "team",
		"hackathon_id": hackathonID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("recommend: status %d body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["total_found"].(float64) != 1 {
		t.Errorf("total_found = %v, want 1", body["total_found"])
	}

	// Direction is mandatory
	w = doJSON(t, router, http.MethodPost, "/api/recommendations", seekerToken, gin.H{
		"hackathon_id": hackathonID,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing for_what: status %d, want 400", w.Code)
	}
}
