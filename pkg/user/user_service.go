package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"offerta-backend/domain"
	"offerta-backend/entities"
	"offerta-backend/internal/utils"
	"offerta-backend/pkg/jwt"
)

type (
	// Mailer sends one transactional mail. Production wiring passes
	// mailing.SendMail.
	Mailer func(toEmail, subject, body string) error

	UserService interface {
		RegisterUser(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) error
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserProfileResponse, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserProfileResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		mailer         Mailer
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, mailer Mailer) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
	}
}

func (s *userService) RegisterUser(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	exists, err := s.userRepository.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if exists {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	now := time.Now()
	locale := req.Locale
	if locale == "" {
		locale = "it"
	}
	newUser := &entities.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashed),
		Role:           domain.RoleUser,
		Locale:         locale,
		ConsentGivenAt: &now,
	}

	if err := s.userRepository.CreateUser(ctx, newUser); err != nil {
		return domain.RegisterResponse{}, err
	}

	if err := s.sendVerificationMail(ctx, newUser); err != nil {
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:    newUser.ID.String(),
		Name:  newUser.Name,
		Email: newUser.Email,
	}, nil
}

func (s *userService) sendVerificationMail(ctx context.Context, user *entities.User) error {
	token := s.jwtService.GenerateTokenVerification(user.Email)
	link := fmt.Sprintf("%s/api/v1/users/verify?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(
		"<p>Ciao %s,</p><p>conferma il tuo indirizzo email cliccando <a href=%q>qui</a>.</p>",
		user.Name, link,
	)

	if err := s.mailer(user.Email, "Conferma il tuo account", body); err != nil {
		return err
	}

	now := time.Now()
	user.VerifySentAt = &now
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) error {
	email, err := s.jwtService.GetEmailByVerificationToken(req.Token)
	if err != nil {
		return err
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	user.Verified = true
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsNotValid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsNotValid
	}

	if !user.Verified {
		return domain.LoginResponse{}, domain.ErrEmailNotVerified
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.LoginResponse{
		Token: token,
		Role:  user.Role,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserProfileResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.UserProfileResponse{}, err
	}
	return toProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserProfileResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.UserProfileResponse{}, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Locale != "" {
		user.Locale = req.Locale
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserProfileResponse{}, err
	}
	return toProfileResponse(user), nil
}

func toProfileResponse(user *entities.User) domain.UserProfileResponse {
	return domain.UserProfileResponse{
		ID:             user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		Locale:         user.Locale,
		Verified:       user.Verified,
		ConsentGivenAt: user.ConsentGivenAt,
	}
}
