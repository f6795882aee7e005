package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hackmatch/team-platform/internal/config"
	"github.com/hackmatch/team-platform/internal/database"
	"github.com/hackmatch/team-platform/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	config *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{config: cfg}
}

// JWT Claims
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}

// HashPassword creates a bcrypt hash of the password
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password with a hash
func (s *AuthService) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken creates a JWT token for a user
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	expirationTime := time.Now().Add(time.Duration(s.config.JWTExpiration) * time.Hour)

	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.config.AppName,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Register creates a new user account with email and password.
func (s *AuthService) Register(email, password, fullName string) (*models.User, error) {
	db := database.GetDB()

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	var existingUser models.User
	if err := db.Where("email = ?", email).First(&existingUser).Error; err == nil {
		return nil, errors.New("email already registered")
	}

	passwordHash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        &email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		ReadyToWork:  true,
	}

	if err := db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user by email and returns a token
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	db := database.GetDB()

	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, "", errors.New("invalid credentials")
	}

	if !s.CheckPassword(password, user.PasswordHash) {
		return nil, "", errors.New("invalid credentials")
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// TelegramLogin verifies a Telegram login-widget payload and finds or
// creates the matching user. The payload is the key/value map the widget
// posts, including its "hash" signature field.
func (s *AuthService) TelegramLogin(authData map[string]string) (*models.User, string, error) {
	if err := s.verifyTelegramPayload(authData); err != nil {
		return nil, "", err
	}

	tgID, err := strconv.ParseInt(authData["id"], 10, 64)
	if err != nil {
		return nil, "", errors.New("invalid telegram id")
	}

	db := database.GetDB()

	fullName := strings.TrimSpace(authData["first_name"] + " " + authData["last_name"])

	var user models.User
	if err := db.Where("telegram_id = ?", tgID).First(&user).Error; err != nil {
		user = models.User{
			TelegramID:  &tgID,
			Username:    authData["username"],
			FullName:    fullName,
			ReadyToWork: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, "", err
		}
	} else {
		// Refresh profile fields Telegram is authoritative for.
		if authData["username"] != "" {
			user.Username = authData["username"]
		}
		if fullName != "" {
			user.FullName = fullName
		}
		if err := db.Save(&user).Error; err != nil {
			return nil, "", err
		}
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// verifyTelegramPayload checks freshness and the widget's HMAC-SHA256
// signature: sha256(bot_token) keys an HMAC over the sorted k=v lines of
// every field except "hash".
func (s *AuthService) verifyTelegramPayload(authData map[string]string) error {
	if s.config.TelegramBotToken == "" {
		return errors.New("telegram login is not configured")
	}

	authDate, err := strconv.ParseInt(authData["auth_date"], 10, 64)
	if err != nil {
		return errors.New("missing auth_date")
	}
	ttl := time.Duration(s.config.TelegramAuthTTL) * time.Second
	if d := time.Since(time.Unix(authDate, 0)); d > ttl || d < -ttl {
		return errors.New("authentication data expired")
	}

	receivedHash := authData["hash"]
	if receivedHash == "" {
		return errors.New("missing signature")
	}

	lines := make([]string, 0, len(authData))
	for k, v := range authData {
		if k == "hash" || v == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(lines)

	secret := sha256.Sum256([]byte(s.config.TelegramBotToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	calculated := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(calculated), []byte(receivedHash)) {
		return errors.New("invalid telegram signature")
	}
	return nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*models.User, error) {
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateUser updates user profile information
func (s *AuthService) UpdateUser(user *models.User) error {
	db := database.GetDB()
	return db.Save(user).Error
}
