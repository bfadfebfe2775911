package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/spark/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern. The default user
// is a complete, active profile that shows up in other users' feeds.
type UserBuilder struct {
	email        string
	username     string
	password     string
	name         string
	dateOfBirth  *time.Time
	gender       domain.Gender
	interestedIn domain.InterestedIn
	picture      string
	swipeLimit   int
	spinLimit    int
	status       domain.UserStatus
	lastLogin    *time.Time
	createdAt    time.Time
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	dob := time.Date(1995, time.June, 15, 0, 0, 0, 0, time.UTC)
	return &UserBuilder{
		email:        fmt.Sprintf("user_%s@example.com", suffix),
		username:     fmt.Sprintf("user_%s", suffix),
		password:     "testpassword123",
		name:         "Test User " + suffix,
		dateOfBirth:  &dob,
		gender:       domain.GenderFemale,
		interestedIn: domain.InterestedInBoth,
		picture:      "http://media.test/" + suffix + ".jpg",
		swipeLimit:   20,
		spinLimit:    1,
		status:       domain.UserStatusActive,
		createdAt:    time.Now(),
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithoutDateOfBirth leaves the profile incomplete.
func (b *UserBuilder) WithoutDateOfBirth() *UserBuilder {
	b.dateOfBirth = nil
	return b
}

func (b *UserBuilder) WithGender(gender domain.Gender) *UserBuilder {
	b.gender = gender
	return b
}

func (b *UserBuilder) WithInterestedIn(interestedIn domain.InterestedIn) *UserBuilder {
	b.interestedIn = interestedIn
	return b
}

func (b *UserBuilder) WithPicture(url string) *UserBuilder {
	b.picture = url
	return b
}

func (b *UserBuilder) WithoutPicture() *UserBuilder {
	b.picture = ""
	return b
}

func (b *UserBuilder) WithSwipeLimit(n int) *UserBuilder {
	b.swipeLimit = n
	return b
}

func (b *UserBuilder) WithSpinLimit(n int) *UserBuilder {
	b.spinLimit = n
	return b
}

func (b *UserBuilder) WithStatus(status domain.UserStatus) *UserBuilder {
	b.status = status
	return b
}

func (b *UserBuilder) WithLastLogin(at time.Time) *UserBuilder {
	b.lastLogin = &at
	return b
}

// WithCreatedAt controls feed order, which pages by creation time.
func (b *UserBuilder) WithCreatedAt(at time.Time) *UserBuilder {
	b.createdAt = at
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:             uuid.New(),
		Email:          b.email,
		Username:       b.username,
		PasswordHash:   string(hashedPassword),
		Name:           b.name,
		Gender:         b.gender,
		InterestedIn:   b.interestedIn,
		ProfilePicture: b.picture,
		SwipeLimit:     b.swipeLimit,
		SpinLimit:      b.spinLimit,
		Status:         b.status,
		LastLogin:      b.lastLogin,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.createdAt,
	}
	if b.dateOfBirth != nil {
		dob := datatypes.Date(*b.dateOfBirth)
		user.DateOfBirth = &dob
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the data of the register and login responses
type AuthResponse struct {
	User struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Username string `json:"username"`
	} `json:"user"`
	Token string `json:"token"`
}

// BuildAndAuthenticate creates the user and logs in through the API,
// returning the user and a bearer token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	body, _ := json.Marshal(map[string]string{
		"email":    user.Email,
		"password": password,
	})
	resp, err := http.Post(ts.URL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var envelope struct {
		Data AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return user, envelope.Data.Token
}

// CreateDecision stores actor's current like or dislike of target.
func CreateDecision(t *testing.T, db *gorm.DB, actorID, targetID uuid.UUID, liked bool) {
	t.Helper()

	decision := &domain.SwipeDecision{ActorID: actorID, TargetID: targetID, Liked: liked}
	if err := db.Create(decision).Error; err != nil {
		t.Fatalf("failed to create swipe decision: %v", err)
	}
}

// FindDecision returns actor's stored decision on target, or nil when there
// is none.
func FindDecision(t *testing.T, db *gorm.DB, actorID, targetID uuid.UUID) *domain.SwipeDecision {
	t.Helper()

	var decisions []domain.SwipeDecision
	err := db.Where("actor_id = ? AND target_id = ?", actorID, targetID).Limit(1).Find(&decisions).Error
	if err != nil {
		t.Fatalf("failed to load swipe decision: %v", err)
	}
	if len(decisions) == 0 {
		return nil
	}
	return &decisions[0]
}

// CreateMatch stores a match between a and b created at the given time.
func CreateMatch(t *testing.T, db *gorm.DB, a, b uuid.UUID, at time.Time) *domain.Match {
	t.Helper()

	match := domain.NewMatch(a, b, domain.MatchSourceSwipe)
	match.CreatedAt = at
	if err := db.Create(match).Error; err != nil {
		t.Fatalf("failed to create match: %v", err)
	}
	return match
}
