package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dom/spark/internal/config"
	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/repository"
	"github.com/dom/spark/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxUsernameAttempts = 10
	usernameSuffixMin   = 1000
	usernameSuffixSpan  = 9000
)

type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	random   Random
	log      *logrus.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, random Random, log *logrus.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		random:   random,
		log:      log,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Username        string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" || input.ConfirmPassword == "" {
		return nil, fmt.Errorf("%w: email, password and confirmPassword are required", domain.ErrValidation)
	}
	if err := validation.GetValidator().Var(email, "email"); err != nil {
		return nil, fmt.Errorf("%w: email is malformed", domain.ErrValidation)
	}
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username != "" {
		taken, err := s.userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
	} else {
		username, err = s.generateUsername(ctx, email)
		if err != nil {
			return nil, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
		SwipeLimit:   s.cfg.DefaultSwipeLimit,
		SpinLimit:    s.cfg.DefaultSpinLimit,
		LastLogin:    &now,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email or username already registered", domain.ErrConflict)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")

	return s.issueToken(user)
}

// generateUsername derives a base from the email local part and appends a
// random four digit suffix until it finds a free name.
func (s *AuthService) generateUsername(ctx context.Context, email string) (string, error) {
	base := usernameBase(email)
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		candidate := base + strconv.Itoa(usernameSuffixMin+s.random.Intn(usernameSuffixSpan))
		taken, err := s.userRepo.ExistsByUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", domain.ErrUsernameGeneration
}

func usernameBase(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, domain.ErrAccountDisabled
	}

	now := s.now()
	reset := user.LastLogin == nil || calendarDayBefore(*user.LastLogin, now, s.cfg.Location)
	err = s.userRepo.RecordLogin(ctx, user.ID, now, reset, s.cfg.DefaultSwipeLimit, s.cfg.DefaultSpinLimit)
	if err != nil {
		return nil, err
	}
	if reset {
		s.log.WithField("user_id", user.ID).Debug("daily quotas replenished")
	}

	user, err = s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// calendarDayBefore reports whether last falls on an earlier calendar date
// than now in loc.
func calendarDayBefore(last, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ly, lm, ld := last.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	lastDay := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return lastDay.Before(nowDay)
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	hours := s.cfg.JWTExpirationHours
	if hours <= 0 {
		hours = 1
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)

	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken accepts only unexpired HS256 tokens signed with our secret.
func (s *AuthService) ValidateToken(tokenString string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	return domain.Identity{UserID: userID, Username: username}, nil
}
