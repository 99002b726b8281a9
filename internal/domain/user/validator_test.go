package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsValidator_ValidateLogin(t *testing.T) {
	validator := NewCredentialsValidator()

	tests := []struct {
		name        string
		login       string
		wantErr     bool
		expectedErr string
	}{
		{
			name:    "simple username",
			login:   "ivan_petrov",
			wantErr: false,
		},
		{
			name:    "email login",
			login:   "client@coachfit.app",
			wantErr: false,
		},
		{
			name:        "too short",
			login:       "iv",
			wantErr:     true,
			expectedErr: "login must be at least 3 characters",
		},
		{
			name:        "too long",
			login:       strings.Repeat("a", 65),
			wantErr:     true,
			expectedErr: "login must be at most 64 characters",
		},
		{
			name:    "dash and dot allowed",
			login:   "anna-k.fitness",
			wantErr: false,
		},
		{
			name:        "space rejected",
			login:       "ivan petrov",
			wantErr:     true,
			expectedErr: "login can only contain",
		},
		{
			name:        "double at rejected",
			login:       "a@b@coachfit.app",
			wantErr:     true,
			expectedErr: "at most one '@'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateLogin(tt.login)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCredentialsValidator_ValidatePassword(t *testing.T) {
	validator := NewCredentialsValidator()

	tests := []struct {
		name        string
		password    string
		wantErr     bool
		expectedErr string
	}{
		{
			name:     "letters and digits",
			password: "trenirovka7",
			wantErr:  false,
		},
		{
			name:        "too short",
			password:    "abc123",
			wantErr:     true,
			expectedErr: "password must be at least 8 characters",
		},
		{
			name:        "digits only",
			password:    "12345678",
			wantErr:     true,
			expectedErr: "password must contain at least one letter",
		},
		{
			name:        "letters only",
			password:    "trenirovka",
			wantErr:     true,
			expectedErr: "password must contain at least one digit",
		},
		{
			name:     "special chars are fine but optional",
			password: "Plan2026!",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidatePassword(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCredentialsValidator_ValidateRegister(t *testing.T) {
	validator := NewCredentialsValidator()

	tests := []struct {
		name           string
		login          string
		password       string
		wantErr        bool
		expectedErrMsg string
	}{
		{
			name:     "valid registration",
			login:    "client@coachfit.app",
			password: "trenirovka7",
			wantErr:  false,
		},
		{
			name:           "invalid login",
			login:          "iv",
			password:       "trenirovka7",
			wantErr:        true,
			expectedErrMsg: "login validation failed",
		},
		{
			name:           "invalid password",
			login:          "client@coachfit.app",
			password:       "short",
			wantErr:        true,
			expectedErrMsg: "password validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateRegister(tt.login, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErrMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewCredentialsValidator(t *testing.T) {
	v := NewCredentialsValidator()
	assert.True(t, v.requireLetter)
	assert.True(t, v.requireDigit)
}
