package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister      = "user registered successfully"
	MessageSuccessLogin         = "login success"
	MessageSuccessVerifyEmail   = "email verified successfully"
	MessageSuccessGetProfile    = "profile retrieved successfully"
	MessageSuccessUpdateProfile = "profile updated successfully"

	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedVerifyEmail   = "failed to verify email"
	MessageFailedGetProfile    = "failed to retrieve profile"
	MessageFailedUpdateProfile = "failed to update profile"

	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrCredentialsNotValid = errors.New("credentials not valid")
	ErrEmailNotVerified    = errors.New("email not verified")
)

type (
	RegisterRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Locale   string `json:"locale" validate:"omitempty,len=2"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	VerifyEmailRequest struct {
		Token string `json:"token" validate:"required"`
	}

	UserProfileResponse struct {
		ID             string     `json:"id"`
		Name           string     `json:"name"`
		Email          string     `json:"email"`
		Locale         string     `json:"locale"`
		Verified       bool       `json:"verified"`
		ConsentGivenAt *time.Time `json:"consent_given_at,omitempty"`
	}

	UpdateProfileRequest struct {
		Name   string `json:"name" validate:"omitempty"`
		Locale string `json:"locale" validate:"omitempty,len=2"`
	}
)
