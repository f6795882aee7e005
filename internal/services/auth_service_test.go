package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hackmatch/team-platform/internal/config"
	"github.com/hackmatch/team-platform/internal/testutil"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTExpiration:    1,
		AppName:          "HackMatch",
		TelegramBotToken: "123456:test-bot-token",
		TelegramAuthTTL:  3600,
	}
}

func TestPasswordHashing(t *testing.T) {
	svc := NewAuthService(authTestConfig())

	hash, err := svc.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !svc.CheckPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if svc.CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	testutil.SetupTestDB(t)
	svc := NewAuthService(authTestConfig())

	user, err := svc.Register("alice@example.com", "supersecret", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims user = %s, want %s", claims.UserID, user.ID)
	}

	other := NewAuthService(&config.Config{JWTSecret: "different", JWTExpiration: 1})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token validated under a different secret")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	testutil.SetupTestDB(t)
	svc := NewAuthService(authTestConfig())

	if _, err := svc.Register("bob@example.com", "supersecret", "Bob"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register("BOB@example.com", "supersecret", "Bob Again"); err == nil {
		t.Error("duplicate email accepted")
	}
}

func TestLogin(t *testing.T) {
	testutil.SetupTestDB(t)
	svc := NewAuthService(authTestConfig())

	if _, err := svc.Register("carol@example.com", "supersecret", "Carol"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := svc.Login("carol@example.com", "supersecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || user.Email == nil || *user.Email != "carol@example.com" {
		t.Errorf("login result = %v / %q", user, token)
	}

	if _, _, err := svc.Login("carol@example.com", "nope"); err == nil {
		t.Error("wrong password accepted")
	}
}

// signTelegramPayload reproduces the widget's signature so tests can build
// valid payloads.
func signTelegramPayload(botToken string, data map[string]string) string {
	lines := make([]string, 0, len(data))
	for k, v := range data {
		if k == "hash" || v == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(lines)

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestTelegramLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := authTestConfig()
	svc := NewAuthService(cfg)

	payload := map[string]string{
		"id":         "4242",
		"first_name": "Dora",
		"username":   "dora",
		"auth_date":  strconv.FormatInt(time.Now().Unix(), 10),
	}
	payload["hash"] = signTelegramPayload(cfg.TelegramBotToken, payload)

	user, token, err := svc.TelegramLogin(payload)
	if err != nil {
		t.Fatalf("telegram login: %v", err)
	}
	if token == "" || user.TelegramID == nil || *user.TelegramID != 4242 {
		t.Fatalf("login result = %+v / %q", user, token)
	}

	// Second login with the same telegram id reuses the account.
	payload["auth_date"] = strconv.FormatInt(time.Now().Unix(), 10)
	payload["hash"] = signTelegramPayload(cfg.TelegramBotToken, payload)
	again, _, err := svc.TelegramLogin(payload)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("second login created a new account")
	}

	var count int64
	db.Table("users").Where("telegram_id = ?", 4242).Count(&count)
	if count != 1 {
		t.Errorf("accounts for telegram id = %d, want 1", count)
	}
}

func TestTelegramLoginRejectsTampering(t *testing.T) {
	testutil.SetupTestDB(t)
	cfg := authTestConfig()
	svc := NewAuthService(cfg)

	payload := map[string]string{
		"id":        "4242",
		"username":  "mallory",
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
	}
	payload["hash"] = signTelegramPayload(cfg.TelegramBotToken, payload)
	payload["username"] = "admin"

	if _, _, err := svc.TelegramLogin(payload); err == nil {
		t.Error("tampered payload accepted")
	}
}

func TestTelegramLoginRejectsStalePayload(t *testing.T) {
	testutil.SetupTestDB(t)
	cfg := authTestConfig()
	svc := NewAuthService(cfg)

	payload := map[string]string{
		"id":        "4242",
		"username":  "late",
		"auth_date": strconv.FormatInt(time.Now().Add(-2*time.Hour).Unix(), 10),
	}
	payload["hash"] = signTelegramPayload(cfg.TelegramBotToken, payload)

	if _, _, err := svc.TelegramLogin(payload); err == nil {
		t.Error("stale payload accepted")
	}
}
