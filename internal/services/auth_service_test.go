package services

import (
	"context"
	"testing"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/apperrors"
	"github.com/chachabrian/rentmyride-backend/internal/logger"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthService(users *fakeUserRepo) *AuthService {
	return NewAuthService(users, testSecret, time.Hour, logger.Nop())
}

func TestSignup_IssuesToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	res, err := svc.Signup(context.Background(), SignupInput{
		Name: "Ann", Email: "Ann@Example.com", Password: "secret1", Role: "owner",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Equal(t, models.UserRoleOwner, res.User.Role)
	assert.NotEmpty(t, res.User.PasswordHash)
	assert.Empty(t, res.User.Password)

	claims, err := utils.ValidateToken(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.ID)
	assert.Equal(t, models.UserRoleOwner, claims.Role)
}

func TestSignup_DefaultsToCustomer(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	res, err := svc.Signup(context.Background(), SignupInput{Name: "Bo", Email: "bo@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleCustomer, res.User.Role)
}

func TestSignup_Rejects(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   SignupInput
	}{
		{"duplicate email", SignupInput{Name: "Ann", Email: "ANN@example.com", Password: "secret1"}},
		{"short password", SignupInput{Name: "Cy", Email: "cy@example.com", Password: "12345"}},
		{"bad email", SignupInput{Name: "Cy", Email: "cy", Password: "secret1"}},
		{"admin role", SignupInput{Name: "Cy", Email: "cy@example.com", Password: "secret1", Role: "ADMIN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.in)
			assertCode(t, err, apperrors.CodeInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	ctx := context.Background()
	_, err := svc.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, LoginInput{Email: "ann@example.com", Password: "wrong!"})
	assertCode(t, err, apperrors.CodeUnauthenticated)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assertCode(t, err, apperrors.CodeUnauthenticated)
}

func TestUserService_Profile(t *testing.T) {
	users := newFakeUserRepo()
	u := users.add(&models.User{Name: "Ann", Email: "ann@example.com"})
	svc := NewUserService(users, newFakePreferenceRepo())
	ctx := context.Background()

	phone := "+254700000000"
	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.Name)
	assert.Equal(t, phone, updated.Phone)

	blank := "  "
	_, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: &blank})
	assertCode(t, err, apperrors.CodeInvalidInput)

	_, err = svc.GetProfile(ctx, "missing")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestUserService_FCMToken(t *testing.T) {
	users := newFakeUserRepo()
	u := users.add(&models.User{Name: "Ann", Email: "ann@example.com"})
	svc := NewUserService(users, newFakePreferenceRepo())
	ctx := context.Background()

	require.NoError(t, svc.RegisterFCMToken(ctx, u.ID, FCMTokenInput{Token: "tok"}))
	stored, _ := users.FindByID(ctx, u.ID)
	assert.Equal(t, "tok", stored.FCMToken)

	require.NoError(t, svc.RemoveFCMToken(ctx, u.ID))
	stored, _ = users.FindByID(ctx, u.ID)
	assert.Empty(t, stored.FCMToken)

	assertCode(t, svc.RegisterFCMToken(ctx, u.ID, FCMTokenInput{}), apperrors.CodeInvalidInput)
}

func TestUserService_PreferencesPartialUpdate(t *testing.T) {
	prefs := newFakePreferenceRepo()
	svc := NewUserService(newFakeUserRepo(), prefs)
	ctx := context.Background()
	off := false

	got, err := svc.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.PushEnabled)

	updated, err := svc.UpdatePreferences(ctx, "u1", PreferencesInput{EmailEnabled: &off})
	require.NoError(t, err)
	assert.True(t, updated.PushEnabled)
	assert.False(t, updated.EmailEnabled)
	assert.True(t, updated.BookingAlerts)

	again, err := svc.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, again.EmailEnabled)
}
