package services

import (
	"context"
	"strings"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/chachabrian/rentmyride-backend/internal/validator"
)

type UpdateProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=128"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

type FCMTokenInput struct {
	Token string `json:"fcmToken" validate:"required,max=4096"`
}

// PreferencesInput only changes the fields present in the request
type PreferencesInput struct {
	PushEnabled   *bool `json:"pushEnabled"`
	EmailEnabled  *bool `json:"emailEnabled"`
	BookingAlerts *bool `json:"bookingAlerts"`
}

type UserService struct {
	users       repository.UserRepository
	preferences repository.PreferenceRepository
	validate    *validator.Validator
}

func NewUserService(users repository.UserRepository, preferences repository.PreferenceRepository) *UserService {
	return &UserService{users: users, preferences: preferences, validate: validator.New()}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrDB(err, "User")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, apperrors.InvalidInput("name: must not be blank")
		}
		in.Name = &trimmed
	}

	user, err := s.users.UpdateProfile(ctx, userID, in.Name, in.Phone)
	if err != nil {
		return nil, notFoundOrDB(err, "User")
	}
	return user, nil
}

func (s *UserService) RegisterFCMToken(ctx context.Context, userID string, in FCMTokenInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	if err := s.users.SetFCMToken(ctx, userID, strings.TrimSpace(in.Token)); err != nil {
		return notFoundOrDB(err, "User")
	}
	return nil
}

func (s *UserService) RemoveFCMToken(ctx context.Context, userID string) error {
	if err := s.users.SetFCMToken(ctx, userID, ""); err != nil {
		return notFoundOrDB(err, "User")
	}
	return nil
}

func (s *UserService) GetPreferences(ctx context.Context, userID string) (*models.NotificationPreference, error) {
	pref, err := s.preferences.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.DB(err)
	}
	return pref, nil
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID string, in PreferencesInput) (*models.NotificationPreference, error) {
	pref, err := s.preferences.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.DB(err)
	}
	if in.PushEnabled != nil {
		pref.PushEnabled = *in.PushEnabled
	}
	if in.EmailEnabled != nil {
		pref.EmailEnabled = *in.EmailEnabled
	}
	if in.BookingAlerts != nil {
		pref.BookingAlerts = *in.BookingAlerts
	}
	if err := s.preferences.Save(ctx, pref); err != nil {
		return nil, apperrors.DB(err)
	}
	return pref, nil
}
