package service

import (
	"testing"

	"stockroom/internal/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := setupDB(t)
	userSvc, userRepo := newUserService(t, db)
	svc := NewAuthService(userRepo)

	user, err := userSvc.Create(&CreateUserRequest{
		Email:    "login@example.com",
		Password: "password123",
		FullName: "Login User",
		RoleID:   staffRoleID(t, db),
	}, "admin@example.com")
	require.NoError(t, err)

	token, loggedIn, err := svc.Login(&LoginRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	// Wrong password and unknown email produce the same message, so callers
	// cannot probe which accounts exist.
	_, _, err = svc.Login(&LoginRequest{Email: "login@example.com", Password: "wrong-password"})
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	wrongPassword := verr.Fields["email"]

	_, _, err = svc.Login(&LoginRequest{Email: "ghost@example.com", Password: "password123"})
	verr, ok = apierror.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, wrongPassword, verr.Fields["email"])
}

func TestLoginSuspendedAccount(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := setupDB(t)
	userSvc, userRepo := newUserService(t, db)
	svc := NewAuthService(userRepo)

	user, err := userSvc.Create(&CreateUserRequest{
		Email:    "suspended@example.com",
		Password: "password123",
		FullName: "Suspended",
		RoleID:   staffRoleID(t, db),
	}, "admin@example.com")
	require.NoError(t, err)
	_, err = userSvc.ToggleStatus(user.ID, "admin@example.com")
	require.NoError(t, err)

	_, _, err = svc.Login(&LoginRequest{Email: "suspended@example.com", Password: "password123"})
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields["email"][0], "suspended")
}

func TestChangePassword(t *testing.T) {
	db := setupDB(t)
	userSvc, userRepo := newUserService(t, db)
	svc := NewAuthService(userRepo)

	user, err := userSvc.Create(&CreateUserRequest{
		Email:    "rotate@example.com",
		Password: "password123",
		FullName: "Rotator",
		RoleID:   staffRoleID(t, db),
	}, "admin@example.com")
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "newpassword1",
	})
	verr, ok := apierror.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "current_password")

	require.NoError(t, svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword1",
	}))

	fresh, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, fresh.CheckPassword("newpassword1"))
}
