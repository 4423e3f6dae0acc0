package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/apperr"
	"github.com/ddr-ops/disaster_response_system/internal/config"
	"github.com/ddr-ops/disaster_response_system/internal/models"
)

// UserRepository определяет контракт для работы с бд пользователей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListContacts(ctx context.Context) ([]string, error)
}

// TokenStore определяет контракт для отзыва выданных токенов
type TokenStore interface {
	Blacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService определяет контракт для регистрации и входа пользователей
type AuthService interface {
	Register(ctx context.Context, username, password, role, contact string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Logout(ctx context.Context, rawToken string) error
	Identity(ctx context.Context, rawToken string) (*models.Identity, error)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
	Contact  string `json:"contact,omitempty"`
}

type authService struct {
	users      UserRepository
	volunteers VolunteerRepository
	tokens     TokenStore
	logger     *logrus.Logger
	cfg        *config.Config
}

func NewAuthService(users UserRepository, volunteers VolunteerRepository, tokens TokenStore, logger *logrus.Logger, cfg *config.Config) AuthService {
	return &authService{
		users:      users,
		volunteers: volunteers,
		tokens:     tokens,
		logger:     logger,
		cfg:        cfg,
	}
}

// hashPassword возвращает SHA-256 хэш пароля в hex.
// Формат совпадает с учетными записями, заливаемыми миграциями.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register создает пользователя с фиксированной ролью
func (s *authService) Register(ctx context.Context, username, password, role, contact string) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "Register",
		"username": username,
		"role":     role,
	})
	log.Info("Attempting to register a new user")

	user := &models.User{
		Username:     username,
		PasswordHash: hashPassword(password),
		Role:         role,
		Contact:      contact,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrUsernameTaken) {
			log.Warn("Username already exists")
			return nil, err
		}
		log.WithError(err).Error("Failed to create user in repository")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	// Волонтер получает привязанный полевой профиль: задачи назначаются
	// на профиль, а не на учетную запись
	if role == models.RoleVolunteer {
		profile := &models.Volunteer{
			UserID:    &user.ID,
			Name:      username,
			Phone:     contact,
			Available: true,
		}
		if err := s.volunteers.Create(ctx, profile); err != nil {
			log.WithError(err).Error("Failed to create volunteer profile in repository")
			return nil, fmt.Errorf("service: could not create volunteer profile: %w", err)
		}
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// Login проверяет пару логин/пароль и выдает подписанный токен
func (s *authService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "Login",
		"username": username,
	})

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Warn("Login attempt for unknown username")
			return "", nil, apperr.ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to get user from repository")
		return "", nil, fmt.Errorf("service: could not login: %w", err)
	}

	hashed := hashPassword(password)
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(user.PasswordHash)) != 1 {
		log.Warn("Login attempt with wrong password")
		return "", nil, apperr.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.WithError(err).Error("Failed to sign token")
		return "", nil, fmt.Errorf("service: could not issue token: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in successfully")
	return token, user, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
		Username: user.Username,
		Role:     user.Role,
		Contact:  user.Contact,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) parseToken(rawToken string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.ErrTokenInvalid
	}
	return claims, nil
}

// Logout отзывает токен до истечения его срока действия
func (s *authService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil // Токен уже истек, отзывать нечего
	}
	if err := s.tokens.Blacklist(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("service: could not revoke token: %w", err)
	}
	return nil
}

// Identity извлекает идентичность запроса из токена,
// отклоняя отозванные и невалидные токены
func (s *authService) Identity(ctx context.Context, rawToken string) (*models.Identity, error) {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("service: could not check token: %w", err)
	}
	if revoked {
		return nil, apperr.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.ErrTokenInvalid
	}

	return &models.Identity{
		ID:       userID,
		Username: claims.Username,
		Role:     claims.Role,
		Contact:  claims.Contact,
	}, nil
}
