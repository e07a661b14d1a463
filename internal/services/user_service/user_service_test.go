package services

import (
	"context"
	"errors"
	"testing"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/handlers/slogdiscard"
	"lightbox/internal/storage"
	"lightbox/internal/transport/http/dto"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	testEmail := gofakeit.Email()
	testPassword := "password123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	testUser := models.User{
		ID:       uuid.New(),
		Email:    testEmail,
		Password: hashedPassword,
	}
	expectedTokens := &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	tests := []struct {
		name      string
		password  string
		mockSetup func(*MockUserRepository, *MockTokenIssuer)
		wantErr   error
	}{
		{
			name:     "successful login",
			password: testPassword,
			mockSetup: func(r *MockUserRepository, tk *MockTokenIssuer) {
				r.On("UserByEmail", ctx, testEmail).Return(testUser, nil).Once()
				tk.On("GenerateTokens", ctx, testUser).Return(expectedTokens, nil).Once()
				r.On("TouchLastLogin", ctx, testUser.ID).Return(nil).Once()
			},
		},
		{
			name:     "last login failure is ignored",
			password: testPassword,
			mockSetup: func(r *MockUserRepository, tk *MockTokenIssuer) {
				r.On("UserByEmail", ctx, testEmail).Return(testUser, nil).Once()
				tk.On("GenerateTokens", ctx, testUser).Return(expectedTokens, nil).Once()
				r.On("TouchLastLogin", ctx, testUser.ID).Return(errors.New("db error")).Once()
			},
		},
		{
			name:     "invalid password",
			password: "wrong_password",
			mockSetup: func(r *MockUserRepository, tk *MockTokenIssuer) {
				r.On("UserByEmail", ctx, testEmail).Return(testUser, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "user not found",
			password: testPassword,
			mockSetup: func(r *MockUserRepository, tk *MockTokenIssuer) {
				r.On("UserByEmail", ctx, testEmail).Return(models.User{}, storage.ErrUserNotFound).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "token failure",
			password: testPassword,
			mockSetup: func(r *MockUserRepository, tk *MockTokenIssuer) {
				r.On("UserByEmail", ctx, testEmail).Return(testUser, nil).Once()
				tk.On("GenerateTokens", ctx, testUser).Return(nil, errors.New("redis down")).Once()
			},
			wantErr: errors.New("redis down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tokens := new(MockTokenIssuer)
			tt.mockSetup(repo, tokens)

			svc := NewUserService(slogdiscard.NewDiscardLogger(), repo, tokens)

			pair, err := svc.Login(ctx, testEmail, tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidCredentials) {
					assert.ErrorIs(t, err, ErrInvalidCredentials)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				assert.Nil(t, pair)
			} else {
				require.NoError(t, err)
				assert.Equal(t, expectedTokens, pair)
			}

			repo.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestUserService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	input := dto.UserRegisterInput{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "password123",
	}
	newID := uuid.New()

	matchUser := mock.MatchedBy(func(u models.User) bool {
		return u.Email == input.Email &&
			u.Name == input.Name &&
			bcrypt.CompareHashAndPassword(u.Password, []byte(input.Password)) == nil
	})

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("SaveUser", ctx, matchUser).Return(newID, nil).Once()

		svc := NewUserService(slogdiscard.NewDiscardLogger(), repo, new(MockTokenIssuer))
		id, err := svc.RegisterUser(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, newID, id)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("SaveUser", ctx, matchUser).Return(uuid.Nil, storage.ErrUserExists).Once()

		svc := NewUserService(slogdiscard.NewDiscardLogger(), repo, new(MockTokenIssuer))
		_, err := svc.RegisterUser(ctx, input)
		assert.ErrorIs(t, err, ErrUserExist)
	})
}

func TestUserService_IsAdmin(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New()

	repo := new(MockUserRepository)
	repo.On("IsAdmin", ctx, uid).Return(true, nil).Once()

	svc := NewUserService(slogdiscard.NewDiscardLogger(), repo, new(MockTokenIssuer))
	ok, err := svc.IsAdmin(ctx, uid)
	require.NoError(t, err)
	assert.True(t, ok)
}
