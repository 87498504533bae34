package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/tapfolio/backend/internal/models"
	"github.com/tapfolio/backend/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrResetTokenExpired  = errors.New("reset token is invalid or has expired")
)

const resetTokenTTL = time.Hour

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

type AuthService struct {
	profiles  *ProfileService
	rdb       *redis.Client
	jwtSecret string
}

func NewAuthService(profiles *ProfileService, rdb *redis.Client, jwtSecret string) *AuthService {
	return &AuthService{
		profiles:  profiles,
		rdb:       rdb,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new pending profile and returns a session token.
// Profiles start unverified; an admin promotes them later.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *models.Profile, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsVerified:   false,
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return "", nil, err
	}

	token, err := s.GenerateToken(profile)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// Login checks the credentials and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	profile, err := s.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateToken(profile)
}

// GenerateToken signs a 24h session token carrying the profile identity and
// admin flag.
func (s *AuthService) GenerateToken(profile *models.Profile) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  profile.ID.String(),
		"email":    profile.Email,
		"is_admin": profile.IsAdmin,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return &types.TokenClaims{
		UserID:  userID,
		Email:   email,
		IsAdmin: isAdmin,
	}, nil
}

// RequestPasswordReset issues a one-time reset token for the account,
// valid for one hour. The token is held in Redis; nothing is written to the
// profile row.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	profile, err := s.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	key := resetTokenKey(token)
	if err := s.rdb.Set(ctx, key, profile.ID.String(), resetTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}
	return token, nil
}

// ResetPassword consumes a reset token and sets the new password. The token
// is single-use: it is removed atomically with the lookup.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	idStr, err := s.rdb.GetDel(ctx, resetTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrResetTokenExpired
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	profileID, err := uuid.Parse(idStr)
	if err != nil {
		return ErrResetTokenExpired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	res := s.profiles.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("password_hash", string(hashedPassword))
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func resetTokenKey(token string) string {
	return "pwreset:" + token
}
