package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/user"
	"github.com/trezcool/eventhub/storage/database/inmem"
)

const strongPwd = "Sup3r$ecret!"

func setup() (*user.Service, user.Repository) {
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	return user.NewService(repo, core.NewTestConfig()), repo
}

func TestNewUser_Validate(t *testing.T) {
	svc, _ := setup()
	_, err := svc.Create(context.Background(), user.NewUser{Name: "Taken", Email: "taken@school.test", Password: strongPwd})
	require.NoError(t, err)

	tests := []struct {
		name    string
		nu      user.NewUser
		wantErr map[string]string
	}{
		{
			name: "valid",
			nu:   user.NewUser{Name: "Jane Doe", Email: " Jane@School.test ", Password: strongPwd, PasswordConfirm: strongPwd},
		},
		{
			name: "required fields",
			nu:   user.NewUser{},
			wantErr: map[string]string{
				"name":             "name is required",
				"email":            "email is required",
				"password":         "password is required",
				"password_confirm": "password_confirm is required",
			},
		},
		{
			name:    "passwords differ",
			nu:      user.NewUser{Name: "Jane Doe", Email: "jane@school.test", Password: strongPwd, PasswordConfirm: "nope"},
			wantErr: map[string]string{"password_confirm": "password_confirm must be equal to Password"},
		},
		{
			name:    "too short",
			nu:      user.NewUser{Name: "Jane Doe", Email: "jane@school.test", Password: "Ab1!", PasswordConfirm: "Ab1!"},
			wantErr: map[string]string{"password": "password must contain at least 8 characters"},
		},
		{
			name:    "whitespace",
			nu:      user.NewUser{Name: "Jane Doe", Email: "jane@school.test", Password: "Ab1! Ab1!", PasswordConfirm: "Ab1! Ab1!"},
			wantErr: map[string]string{"password": "password must not contain whitespace"},
		},
		{
			name:    "all numeric",
			nu:      user.NewUser{Name: "Jane Doe", Email: "jane@school.test", Password: "12345678", PasswordConfirm: "12345678"},
			wantErr: map[string]string{"password": "password cannot be entirely numeric"},
		},
		{
			name:    "not complex",
			nu:      user.NewUser{Name: "Jane Doe", Email: "jane@school.test", Password: "password1", PasswordConfirm: "password1"},
			wantErr: map[string]string{"password": "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"},
		},
		{
			name:    "similar to email",
			nu:      user.NewUser{Name: "Jane Doe", Email: "jane@school.test", Password: "Jane@school1", PasswordConfirm: "Jane@school1"},
			wantErr: map[string]string{"password": "password cannot be similar to user attributes"},
		},
		{
			name:    "email taken",
			nu:      user.NewUser{Name: "Jane Doe", Email: "TAKEN@school.test", Password: strongPwd, PasswordConfirm: strongPwd},
			wantErr: map[string]string{"email": user.ErrEmailExists.Error()},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(svc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, core.FieldErrors(err))
		})
	}
}

func TestService_AddUser(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	usr, err := svc.AddUser(ctx, user.NewUser{Name: "Jane", Email: "Jane@School.test", Password: strongPwd, PasswordConfirm: strongPwd, IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "jane@school.test", usr.Email)
	assert.True(t, usr.IsAdmin())
	assert.True(t, svc.IsAdmin(usr))
	require.NoError(t, usr.CheckPassword(strongPwd))

	t.Run("existing email updates the user", func(t *testing.T) {
		newPwd := "An0ther#Pass"
		upd, err := svc.AddUser(ctx, user.NewUser{Name: "Jane D.", Email: "jane@school.test", Password: newPwd, PasswordConfirm: newPwd})
		require.NoError(t, err)
		assert.Equal(t, usr.ID, upd.ID)
		assert.Equal(t, "Jane D.", upd.Name)
		assert.True(t, upd.IsAdmin(), "roles are kept")
		assert.NoError(t, upd.CheckPassword(newPwd))

		all, err := svc.QueryAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := svc.AddUser(ctx, user.NewUser{Email: "jane@school.test"})
		assert.Error(t, err)
	})
}

func TestService_IsAdmin(t *testing.T) {
	svc, _ := setup()

	tests := []struct {
		name string
		usr  user.User
		want bool
	}{
		{name: "admin role", usr: user.User{IsActive: true, Roles: user.AdminRoles}, want: true},
		{name: "configured admin email", usr: user.User{IsActive: true, Email: "Admin@School.test"}, want: true},
		{name: "regular user", usr: user.User{IsActive: true, Email: "jane@school.test"}, want: false},
		{name: "inactive admin", usr: user.User{Roles: user.AdminRoles}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.IsAdmin(tt.usr))
		})
	}
}

func TestService_ResetPassword(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{Name: "Jane", Email: "jane@school.test", Password: strongPwd})
	require.NoError(t, err)

	_, err = svc.ResetPassword(ctx, user.ResetPassword{Email: "nobody@school.test", Password: strongPwd, PasswordConfirm: strongPwd})
	assert.True(t, errors.Is(err, user.ErrNotFound))

	_, err = svc.ResetPassword(ctx, user.ResetPassword{Email: "jane@school.test", Password: "short", PasswordConfirm: "short"})
	assert.Equal(t, map[string]string{"password": "password must contain at least 8 characters"}, core.FieldErrors(err))

	newPwd := "N3w&Improved"
	upd, err := svc.ResetPassword(ctx, user.ResetPassword{Email: " JANE@school.test", Password: newPwd, PasswordConfirm: newPwd})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, upd.ID)
	assert.Error(t, upd.CheckPassword(strongPwd))
	assert.NoError(t, upd.CheckPassword(newPwd))

	got, err := svc.GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, upd.PasswordHash, got.PasswordHash)
}

func TestService_SetLastLogin(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{Name: "Jane", Email: "jane@school.test", Password: strongPwd})
	require.NoError(t, err)
	require.True(t, usr.LastLogin.IsZero())

	usr, err = svc.SetLastLogin(ctx, usr)
	require.NoError(t, err)
	got, err := svc.GetByEmail(ctx, "Jane@school.test")
	require.NoError(t, err)
	assert.False(t, got.LastLogin.IsZero())
}
