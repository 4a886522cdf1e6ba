package services

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"neogaming/internal/models"
	"neogaming/internal/repositories"
)

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// EventUserRegistered is published after a successful registration.
const EventUserRegistered = "user.registered"

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(eventType string, payload any) error
}

// AuthService handles registration and login.
type AuthService struct {
	userRepo repositories.UserRepository
	events   EventPublisher
	cost     int
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, events EventPublisher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		events:   events,
		cost:     bcrypt.DefaultCost,
	}
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Register hashes the user's password and saves them. A taken username or
// email yields ErrDuplicateUser and nothing is inserted.
func (s *AuthService) Register(user *models.User) error {
	user.Email = strings.TrimSpace(user.Email)
	user.Username = strings.TrimSpace(user.Username)

	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("email %q: %w", user.Email, ErrDuplicateUser)
	}
	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return fmt.Errorf("username %q: %w", user.Username, ErrDuplicateUser)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("%w: %v", ErrDuplicateUser, err)
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	if s.events != nil {
		payload := map[string]any{"userId": user.ID, "username": user.Username}
		if err := s.events.Publish(EventUserRegistered, payload); err != nil {
			zap.S().Warnf("failed to publish %s for user %d: %v", EventUserRegistered, user.ID, err)
		}
	}
	return nil
}

// Login authenticates by email. Unknown email and wrong password both
// return ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
