package service

import (
	"errors"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo     domain.UserRepository
	settingsRepo domain.SettingsRepository
	ruleRepo     domain.BudgetRuleRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, settingsRepo domain.SettingsRepository, ruleRepo domain.BudgetRuleRepository) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		ruleRepo:     ruleRepo,
	}
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	User      *domain.User
	Settings  *domain.Settings
	IsNewUser bool
}

// AuthenticateUser handles the authentication flow after the Auth0 callback.
// Creates the user, their settings row and the built-in budget rule when the
// subject is seen for the first time.
func (s *AuthService) AuthenticateUser(subject, email string, name *string) (*AuthResult, error) {
	user, err := s.userRepo.CreateOrGetBySubject(subject, email, name)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to create or get user")
		return nil, err
	}

	settings, err := s.settingsRepo.Get(user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			settings, err = s.provisionUser(user.ID)
			if err != nil {
				log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to provision new user")
				return nil, err
			}
			log.Info().Str("user_id", user.ID.String()).Msg("Created new user with default settings")
			return &AuthResult{
				User:      user,
				Settings:  settings,
				IsNewUser: true,
			}, nil
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to get settings")
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("Existing user authenticated")
	return &AuthResult{
		User:      user,
		Settings:  settings,
		IsNewUser: false,
	}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserIDBySubject resolves an Auth0 subject to the local user ID. Used by
// the websocket handshake.
func (s *AuthService) GetUserIDBySubject(subject string) (uuid.UUID, error) {
	user, err := s.userRepo.GetBySubject(subject)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

func (s *AuthService) provisionUser(userID uuid.UUID) (*domain.Settings, error) {
	if _, err := s.ruleRepo.Create(domain.DefaultBudgetRule(userID)); err != nil {
		return nil, err
	}
	return s.settingsRepo.Save(domain.DefaultSettings(userID))
}
