package user_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/user"
	"github.com/examally/examally/services/logger"
)

func newValidate() (*validator.Validate, func(error) map[string]string) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	user.LoadCommonPasswords(logsvc.NewNopLogger())

	translate := func(err error) map[string]string {
		out := make(map[string]string)
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			for _, e := range vErrs {
				out[e.Field()] = e.Translate(translator)
			}
		}
		return out
	}
	return validate, translate
}

func TestNewUser_Validate(t *testing.T) {
	validate, translate := newValidate()
	valid := func() user.NewUser {
		return user.NewUser{Name: "Ada Lovelace", Email: "ada@test.io", Password: "Engine#1843", PasswordConfirm: "Engine#1843"}
	}

	tests := []struct {
		name    string
		modify  func(nu *user.NewUser)
		wantErr map[string]string
	}{
		{name: "valid", modify: func(nu *user.NewUser) {}},
		{
			name:    "blank name",
			modify:  func(nu *user.NewUser) { nu.Name = "   " },
			wantErr: map[string]string{"name": "this field is required"},
		},
		{
			name:    "bad email",
			modify:  func(nu *user.NewUser) { nu.Email = "ada" },
			wantErr: map[string]string{"email": "email must be a valid email address"},
		},
		{
			name:    "too short",
			modify:  func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "Ab1!", "Ab1!" },
			wantErr: map[string]string{"password": "password must contain at least 8 characters"},
		},
		{
			name:    "whitespace",
			modify:  func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "Engine #1843", "Engine #1843" },
			wantErr: map[string]string{"password": "password must not contain whitespace"},
		},
		{
			name:    "all numeric",
			modify:  func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "18431843", "18431843" },
			wantErr: map[string]string{"password": "password cannot be entirely numeric"},
		},
		{
			name:   "not complex",
			modify: func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "engine1843", "engine1843" },
			wantErr: map[string]string{
				"password": "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character",
			},
		},
		{
			name:    "similar to name",
			modify:  func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "Lovelace.Ada1", "Lovelace.Ada1" },
			wantErr: map[string]string{"password": "password cannot be similar to user attributes"},
		},
		{
			name:    "common",
			modify:  func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "Password1!", "Password1!" },
			wantErr: map[string]string{"password": "password is too common"},
		},
		{
			name:   "confirm mismatch",
			modify: func(nu *user.NewUser) { nu.PasswordConfirm = "Engine#1844" },
			wantErr: map[string]string{
				"password_confirm": "password_confirm must be equal to Password",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := valid()
			tt.modify(&nu)
			err := nu.Validate(validate)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			got := translate(err)
			for field, msg := range tt.wantErr {
				assert.Equal(t, msg, got[field], field)
			}
		})
	}
}
