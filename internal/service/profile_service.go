package service

import (
	"strings"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/google/uuid"
)

// ProfileService handles profile and settings business logic
type ProfileService struct {
	userRepo       domain.UserRepository
	settingsRepo   domain.SettingsRepository
	eventPublisher websocket.EventPublisher
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository, settingsRepo domain.SettingsRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, settingsRepo: settingsRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ProfileService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// Profile bundles the user record with their settings
type Profile struct {
	User     *domain.User     `json:"user"`
	Settings *domain.Settings `json:"settings"`
}

// GetProfile retrieves a user's profile and settings
func (s *ProfileService) GetProfile(userID uuid.UUID) (*Profile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(userID)
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Settings: settings}, nil
}

// UpdateProfileInput holds the updatable profile fields
type UpdateProfileInput struct {
	Name     *string
	Currency *string
}

// UpdateProfile updates the display name and preferred currency
func (s *ProfileService) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*Profile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		user, err = s.userRepo.UpdateName(userID, name)
		if err != nil {
			return nil, err
		}
	}

	settings, err := s.settingsRepo.Get(userID)
	if err != nil {
		return nil, err
	}

	if input.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.Currency))
		currency, ok := domain.CurrencyByCode(code)
		if !ok {
			return nil, domain.ErrInvalidCurrency
		}
		settings.Currency = currency
		settings, err = s.settingsRepo.Save(settings)
		if err != nil {
			return nil, err
		}
		if s.eventPublisher != nil {
			s.eventPublisher.Publish(userID, websocket.SettingsUpdated(settings))
		}
	}

	return &Profile{User: user, Settings: settings}, nil
}

// GetCurrencies returns the supported currency list
func (s *ProfileService) GetCurrencies() []domain.Currency {
	return domain.Currencies
}
