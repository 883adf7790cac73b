package user

import (
	"context"
	"testing"

	gojwt "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"offerta-backend/domain"
	"offerta-backend/entities"
)

type fakeUserRepository struct {
	byEmail map[string]*entities.User
	byID    map[string]*entities.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byEmail: map[string]*entities.User{},
		byID:    map[string]*entities.User{},
	}
}

func (f *fakeUserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepository) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

type fakeJWTService struct {
	lastVerifyEmail string
}

func (f *fakeJWTService) GenerateTokenUser(userId string, role string) string {
	return "user-token-" + userId
}

func (f *fakeJWTService) ValidateTokenUser(token string) (*gojwt.Token, error) {
	return nil, nil
}

func (f *fakeJWTService) GetUserIDByToken(token string) (string, string, error) {
	return "", "", nil
}

func (f *fakeJWTService) GenerateTokenVerification(email string) string {
	f.lastVerifyEmail = email
	return "verify-token-" + email
}

func (f *fakeJWTService) GetEmailByVerificationToken(token string) (string, error) {
	if len(token) > len("verify-token-") && token[:len("verify-token-")] == "verify-token-" {
		return token[len("verify-token-"):], nil
	}
	return "", domain.ErrTokenInvalid
}

type sentMail struct {
	to, subject, body string
}

func registerRequest() domain.RegisterRequest {
	return domain.RegisterRequest{
		Name:     "Mario Rossi",
		Email:    "mario@example.test",
		Password: "verysecret1",
	}
}

func newServiceFixture() (UserService, *fakeUserRepository, *[]sentMail) {
	repo := newFakeUserRepository()
	sent := &[]sentMail{}
	mailer := func(to, subject, body string) error {
		*sent = append(*sent, sentMail{to: to, subject: subject, body: body})
		return nil
	}
	return NewUserService(repo, &fakeJWTService{}, mailer), repo, sent
}

func TestRegisterUserHashesPasswordAndSendsMail(t *testing.T) {
	service, repo, sent := newServiceFixture()

	res, err := service.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "mario@example.test", res.Email)

	stored := repo.byEmail["mario@example.test"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "verysecret1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("verysecret1")))
	assert.Equal(t, "it", stored.Locale)
	assert.False(t, stored.Verified)
	assert.NotNil(t, stored.ConsentGivenAt)
	assert.NotNil(t, stored.VerifySentAt)

	require.Len(t, *sent, 1)
	assert.Equal(t, "mario@example.test", (*sent)[0].to)
	assert.Contains(t, (*sent)[0].body, "verify-token-mario@example.test")
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	service, _, _ := newServiceFixture()

	_, err := service.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = service.RegisterUser(context.Background(), registerRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestVerifyEmail(t *testing.T) {
	service, repo, _ := newServiceFixture()

	_, err := service.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)

	err = service.VerifyEmail(context.Background(), domain.VerifyEmailRequest{
		Token: "verify-token-mario@example.test",
	})
	require.NoError(t, err)
	assert.True(t, repo.byEmail["mario@example.test"].Verified)
}

func TestVerifyEmailInvalidToken(t *testing.T) {
	service, _, _ := newServiceFixture()

	err := service.VerifyEmail(context.Background(), domain.VerifyEmailRequest{Token: "bogus"})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestLogin(t *testing.T) {
	service, repo, _ := newServiceFixture()

	_, err := service.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)
	repo.byEmail["mario@example.test"].Verified = true

	res, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "mario@example.test",
		Password: "verysecret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)
}

func TestLoginRejectsUnverifiedUser(t *testing.T) {
	service, _, _ := newServiceFixture()

	_, err := service.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "mario@example.test",
		Password: "verysecret1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailNotVerified)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service, repo, _ := newServiceFixture()

	_, err := service.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)
	repo.byEmail["mario@example.test"].Verified = true

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "mario@example.test",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsNotValid)
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _, _ := newServiceFixture()

	_, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.test",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsNotValid)
}

func TestUpdateProfile(t *testing.T) {
	service, repo, _ := newServiceFixture()

	_, err := service.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)
	userID := repo.byEmail["mario@example.test"].ID.String()

	res, err := service.UpdateProfile(context.Background(), userID, domain.UpdateProfileRequest{
		Name:   "Maria Rossi",
		Locale: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Rossi", res.Name)
	assert.Equal(t, "en", res.Locale)
}
